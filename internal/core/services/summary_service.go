package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type summaryService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	now          ports.Clock
}

func NewSummaryService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, clock ports.Clock) ports.SummaryService {
	return &summaryService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		now:          clock,
	}
}

// SummarizeAll tallies every published question. Results keep the
// repository's order.
func (s *summaryService) SummarizeAll(ctx context.Context) ([]*domain.QuestionResults, error) {
	questions, err := s.questionRepo.ListPublished(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch published questions: %w", err)
	}

	results := make([]*domain.QuestionResults, len(questions))
	errChan := make(chan error, len(questions))
	var wg sync.WaitGroup

	for i, question := range questions {
		wg.Add(1)
		go func(i int, q *domain.Question) {
			defer wg.Done()
			counts, err := s.voteRepo.CountByChoice(ctx, q.ID)
			if err != nil {
				errChan <- fmt.Errorf("failed to summarize question %s: %w", q.ID, err)
				return
			}
			results[i] = domain.Tally(q, counts)
		}(i, question)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
