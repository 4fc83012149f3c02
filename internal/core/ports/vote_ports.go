package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type VoteRepository interface {
	// Upsert stores the user's vote for the question, replacing an earlier
	// choice. The write only happens if the question accepts votes at now;
	// otherwise it reports domain.VoteDropped and no error.
	Upsert(ctx context.Context, vote *domain.Vote, now time.Time) (domain.VoteOutcome, error)
	GetByUser(ctx context.Context, questionID, userID uuid.UUID) (*domain.Vote, error)
	CountByChoice(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error)
}

type VoteInput struct {
	QuestionID string
	ChoiceID   string
	UserID     uuid.UUID
}

type VoteService interface {
	CastVote(ctx context.Context, input VoteInput) (*domain.VoteReceipt, error)
	GetMyVote(ctx context.Context, questionID string, userID uuid.UUID) (*domain.Vote, error)
}

type VoteMetrics interface {
	ObserveCast(outcome string)
}
