package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const testSecret = "test-secret"

type fakeQuestionService struct {
	listed    []ports.ListedQuestion
	questions map[string]*domain.Question
	closed    map[string]bool
	results   map[string]*domain.QuestionResults
}

func (f *fakeQuestionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	return nil, domain.ErrInternal
}

func (f *fakeQuestionService) Delete(ctx context.Context, id string) error {
	return domain.ErrInternal
}

func (f *fakeQuestionService) ListQuestions(ctx context.Context) ([]ports.ListedQuestion, error) {
	return f.listed, nil
}

func (f *fakeQuestionService) GetQuestionForVoting(ctx context.Context, id string) (*domain.Question, error) {
	if f.closed[id] {
		return nil, domain.ErrVotingClosed
	}
	q, ok := f.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeQuestionService) GetResults(ctx context.Context, id string) (*domain.QuestionResults, error) {
	r, ok := f.results[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return r, nil
}

type fakeVoteService struct {
	err    error
	inputs []ports.VoteInput
	mine   *domain.Vote
}

func (f *fakeVoteService) CastVote(ctx context.Context, input ports.VoteInput) (*domain.VoteReceipt, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.VoteReceipt{
		QuestionID: uuid.MustParse(input.QuestionID),
		ChoiceID:   uuid.MustParse(input.ChoiceID),
		Outcome:    domain.VoteCreated,
	}, nil
}

func (f *fakeVoteService) GetMyVote(ctx context.Context, questionID string, userID uuid.UUID) (*domain.Vote, error) {
	return f.mine, nil
}

type testApp struct {
	handler   http.Handler
	questions *fakeQuestionService
	votes     *fakeVoteService
}

func newTestApp(t *testing.T, loginURL string) *testApp {
	t.Helper()
	app := &testApp{
		questions: &fakeQuestionService{
			questions: map[string]*domain.Question{},
			closed:    map[string]bool{},
			results:   map[string]*domain.QuestionResults{},
		},
		votes: &fakeVoteService{},
	}
	handler, err := NewHandler(RouterConfig{
		Questions: app.questions,
		Votes:     app.votes,
		Auth:      NewAuthenticator(testSecret, loginURL),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("metrics"))
		}),
	})
	require.NoError(t, err)
	app.handler = handler
	return app
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func testQuestion(choices ...string) *domain.Question {
	q := &domain.Question{
		ID:      uuid.New(),
		Text:    "What's up?",
		PubDate: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
	}
	for i, text := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: text, Position: i})
	}
	return q
}

func signToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func voteRequest(t *testing.T, questionID string, form url.Values, userID *uuid.UUID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/"+questionID+"/vote/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if userID != nil {
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: signToken(t, userID.String(), time.Now().Add(15*time.Minute))})
	}
	return req
}

// followFlash reads the notice set by a redirect on the next page.
func followFlash(t *testing.T, app *testApp, rec *httptest.ResponseRecorder) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	next := app.do(req)
	require.Equal(t, http.StatusOK, next.Code)
	return next.Body.String()
}
