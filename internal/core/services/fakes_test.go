package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// memoryStore backs both fake repositories so the vote upsert can check
// the question window the way the SQL statement does.
type memoryStore struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*domain.Question
	votes     map[voteKey]*domain.Vote
}

type voteKey struct {
	questionID uuid.UUID
	userID     uuid.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		questions: make(map[uuid.UUID]*domain.Question),
		votes:     make(map[voteKey]*domain.Vote),
	}
}

type fakeQuestionRepository struct{ store *memoryStore }

type fakeVoteRepository struct{ store *memoryStore }

func (r *fakeQuestionRepository) Save(_ context.Context, q *domain.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.questions[q.ID] = q
	return nil
}

func (r *fakeQuestionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	q, ok := r.store.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (r *fakeQuestionRepository) ListEligible(_ context.Context, now time.Time, minChoices, limit int) ([]*domain.Question, error) {
	questions, _ := r.ListPublished(context.Background(), now)
	var eligible []*domain.Question
	for _, q := range questions {
		if len(q.Choices) >= minChoices {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible, nil
}

func (r *fakeQuestionRepository) ListPublished(_ context.Context, now time.Time) ([]*domain.Question, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var published []*domain.Question
	for _, q := range r.store.questions {
		if q.IsPublished(now) {
			published = append(published, q)
		}
	}
	sort.Slice(published, func(i, j int) bool {
		return published[i].PubDate.Before(published[j].PubDate)
	})
	return published, nil
}

func (r *fakeQuestionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.store.questions, id)
	for key := range r.store.votes {
		if key.questionID == id {
			delete(r.store.votes, key)
		}
	}
	return nil
}

func (r *fakeVoteRepository) Upsert(_ context.Context, vote *domain.Vote, now time.Time) (domain.VoteOutcome, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[vote.QuestionID]
	if !ok || !q.CanVote(now) {
		return domain.VoteDropped, nil
	}

	key := voteKey{vote.QuestionID, vote.UserID}
	if existing, ok := r.store.votes[key]; ok {
		existing.ChoiceID = vote.ChoiceID
		existing.UpdatedAt = now
		return domain.VoteChanged, nil
	}

	stored := *vote
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.store.votes[key] = &stored
	return domain.VoteCreated, nil
}

func (r *fakeVoteRepository) GetByUser(_ context.Context, questionID, userID uuid.UUID) (*domain.Vote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	vote, ok := r.store.votes[voteKey{questionID, userID}]
	if !ok {
		return nil, nil
	}
	copied := *vote
	return &copied, nil
}

func (r *fakeVoteRepository) CountByChoice(_ context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	counts := make(map[uuid.UUID]int64)
	for key, vote := range r.store.votes {
		if key.questionID == questionID {
			counts[vote.ChoiceID]++
		}
	}
	return counts, nil
}

func (s *memoryStore) voteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes)
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *recordingMetrics) ObserveCast(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

var baseTime = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// seedQuestion stores a question published pubDays from baseTime with an
// optional expiry endDays from baseTime.
func seedQuestion(store *memoryStore, text string, pubDays int, endDays *int, choices ...string) *domain.Question {
	q := &domain.Question{
		ID:      uuid.New(),
		Text:    text,
		PubDate: baseTime.Add(days(pubDays)),
	}
	if endDays != nil {
		end := baseTime.Add(days(*endDays))
		q.EndDate = &end
	}
	for i, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: c, Position: i})
	}
	store.questions[q.ID] = q
	return q
}

func intPtr(v int) *int { return &v }
