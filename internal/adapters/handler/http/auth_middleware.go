package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"

	accessTokenCookie = "access_token"
)

// Authenticator reads the identity issued by the login service. Tokens are
// HS256 JWTs carried in the access_token cookie with the user id as sub.
type Authenticator struct {
	secret   []byte
	loginURL string
}

func NewAuthenticator(secret, loginURL string) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		loginURL: loginURL,
	}
}

// Authenticate attaches the user id to the request context when a valid
// token is present. Anonymous requests pass through unchanged.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := a.parseToken(cookie.Value)
		if err != nil {
			logrus.WithError(err).Debug("ignoring invalid access token")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests, redirecting to the login page
// when one is configured.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFrom(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		if a.loginURL == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		target, err := url.Parse(a.loginURL)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		q := target.Query()
		q.Set("next", detailPath(chiID(r)))
		target.RawQuery = q.Encode()
		http.Redirect(w, r, target.String(), http.StatusSeeOther)
	})
}

func (a *Authenticator) parseToken(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, err
	}
	if userID == uuid.Nil {
		return uuid.Nil, errors.New("empty subject")
	}
	return userID, nil
}

func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}
