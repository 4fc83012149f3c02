package ports

import (
	"context"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type SummaryService interface {
	SummarizeAll(ctx context.Context) ([]*domain.QuestionResults, error)
}
