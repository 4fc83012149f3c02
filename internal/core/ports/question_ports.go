package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	// ListEligible returns questions published at now that have at least
	// minChoices choices, oldest publish time first.
	ListEligible(ctx context.Context, now time.Time, minChoices, limit int) ([]*domain.Question, error)
	ListPublished(ctx context.Context, now time.Time) ([]*domain.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateQuestionInput struct {
	Text    string
	PubDate *time.Time
	EndDate *time.Time
	Choices []string
}

type ListedQuestion struct {
	*domain.Question
	Recent bool `json:"was_published_recently"`
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
	ListQuestions(ctx context.Context) ([]ListedQuestion, error)
	GetQuestionForVoting(ctx context.Context, id string) (*domain.Question, error)
	GetResults(ctx context.Context, id string) (*domain.QuestionResults, error)
}
