package http

import (
	"errors"
	"net/http"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
	flash   flasher
}

func NewVoteHandler(service ports.VoteService, cookieSecure bool) *VoteHandler {
	return &VoteHandler{
		service: service,
		flash:   flasher{secure: cookieSecure},
	}
}

func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	questionID := chiID(r)

	userID, ok := UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	input := ports.VoteInput{
		QuestionID: questionID,
		ChoiceID:   r.PostFormValue("choice"),
		UserID:     userID,
	}

	receipt, err := h.service.CastVote(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingSelection):
			h.flash.set(w, levelError, msgMissingSelection)
			http.Redirect(w, r, detailPath(questionID), http.StatusSeeOther)
		case errors.Is(err, domain.ErrQuestionNotFound):
			h.flash.set(w, levelError, msgNotFound)
			http.Redirect(w, r, indexPath, http.StatusSeeOther)
		case errors.Is(err, domain.ErrUnauthenticated):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		default:
			serverError(w, err)
		}
		return
	}

	// A vote dropped because the window closed while the form was open
	// still lands on the success path.
	h.flash.set(w, levelSuccess, msgVoteRecorded)
	http.Redirect(w, r, resultsPath(receipt.QuestionID.String()), http.StatusSeeOther)
}
