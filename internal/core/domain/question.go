package domain

import (
	"time"

	"github.com/google/uuid"
)

// MinChoices is the number of choices a question needs before it is listed.
const MinChoices = 2

// RecentWindow bounds WasPublishedRecently.
const RecentWindow = 24 * time.Hour

type Question struct {
	ID        uuid.UUID  `json:"id"`
	Text      string     `json:"question_text"`
	PubDate   time.Time  `json:"pub_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Choices   []Choice   `json:"choices"`
	CreatedAt time.Time  `json:"created_at"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"choice_text"`
	Position   int       `json:"position"`
}

// IsPublished reports whether the question is visible at now.
func (q *Question) IsPublished(now time.Time) bool {
	return !now.Before(q.PubDate)
}

func (q *Question) HasValidChoices() bool {
	return len(q.Choices) >= MinChoices
}

// CanVote reports whether the question accepts votes at now. The expiry
// instant itself is still open.
func (q *Question) CanVote(now time.Time) bool {
	if !q.IsPublished(now) {
		return false
	}
	return q.EndDate == nil || !now.After(*q.EndDate)
}

// IsListable is the index predicate: published with enough choices.
// Expiry does not hide a question from the index.
func (q *Question) IsListable(now time.Time) bool {
	return q.IsPublished(now) && q.HasValidChoices()
}

func (q *Question) WasPublishedRecently(now time.Time) bool {
	return q.IsPublished(now) && !q.PubDate.Before(now.Add(-RecentWindow))
}

// Choice returns the choice with the given id if it belongs to q.
func (q *Question) Choice(id uuid.UUID) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}
