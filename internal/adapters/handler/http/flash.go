package http

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "flash"

type noticeLevel string

const (
	levelError   noticeLevel = "error"
	levelSuccess noticeLevel = "success"
)

const (
	msgNotFound         = "This poll is not found."
	msgVotingClosed     = "Voting for this poll is closed."
	msgMissingSelection = "You didn't select a choice."
	msgVoteRecorded     = "Your vote was recorded."
)

type notice struct {
	Level   noticeLevel
	Message string
}

// flasher keeps one notice for the next page in a short-lived cookie.
type flasher struct {
	secure bool
}

func (f flasher) set(w http.ResponseWriter, level noticeLevel, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(string(level) + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// pop returns the pending notice, if any, and clears it.
func (f flasher) pop(w http.ResponseWriter, r *http.Request) *notice {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(string(raw), "|")
	if !ok || message == "" {
		return nil
	}
	switch noticeLevel(level) {
	case levelError, levelSuccess:
		return &notice{Level: noticeLevel(level), Message: message}
	}
	return nil
}
