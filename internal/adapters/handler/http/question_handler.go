package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type QuestionHandler struct {
	questions ports.QuestionService
	votes     ports.VoteService
	views     *views
	flash     flasher
}

func NewQuestionHandler(questions ports.QuestionService, votes ports.VoteService, views *views, cookieSecure bool) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		votes:     votes,
		views:     views,
		flash:     flasher{secure: cookieSecure},
	}
}

type indexPage struct {
	Notice    *notice
	Questions []ports.ListedQuestion
}

type detailPage struct {
	Notice   *notice
	Question *domain.Question
	Selected string
}

type resultsPage struct {
	Notice  *notice
	Results *domain.QuestionResults
}

func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questions.ListQuestions(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}

	h.views.render(w, "index", indexPage{
		Notice:    h.flash.pop(w, r),
		Questions: questions,
	})
}

func (h *QuestionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chiID(r)
	question, err := h.questions.GetQuestionForVoting(r.Context(), id)
	if err != nil {
		h.redirectAway(w, r, err)
		return
	}

	page := detailPage{Question: question}
	if userID, ok := UserIDFrom(r.Context()); ok {
		vote, err := h.votes.GetMyVote(r.Context(), id, userID)
		if err != nil {
			serverError(w, err)
			return
		}
		if vote != nil {
			page.Selected = vote.ChoiceID.String()
		}
	}

	page.Notice = h.flash.pop(w, r)
	h.views.render(w, "detail", page)
}

func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.questions.GetResults(r.Context(), chiID(r))
	if err != nil {
		h.redirectAway(w, r, err)
		return
	}

	h.views.render(w, "results", resultsPage{
		Notice:  h.flash.pop(w, r),
		Results: results,
	})
}

// redirectAway sends the visitor back to the index with a notice for the
// recoverable lookup failures.
func (h *QuestionHandler) redirectAway(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound):
		h.flash.set(w, levelError, msgNotFound)
	case errors.Is(err, domain.ErrVotingClosed):
		h.flash.set(w, levelError, msgVotingClosed)
	default:
		serverError(w, err)
		return
	}
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

const indexPath = "/"

func chiID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func detailPath(id string) string {
	return "/" + id + "/"
}

func resultsPath(id string) string {
	return "/" + id + "/results/"
}
