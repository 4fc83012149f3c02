package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const (
	outcomeMissingSelection = "missing_selection"
	outcomeNotFound         = "not_found"
)

type voteService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	metrics      ports.VoteMetrics
	now          ports.Clock
}

func NewVoteService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, metrics ports.VoteMetrics, clock ports.Clock) ports.VoteService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &voteService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		metrics:      metrics,
		now:          clock,
	}
}

func (s *voteService) CastVote(ctx context.Context, input ports.VoteInput) (*domain.VoteReceipt, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	questionID, err := parseQuestionID(input.QuestionID)
	if err != nil {
		s.metrics.ObserveCast(outcomeNotFound)
		return nil, err
	}

	question, err := publishedQuestion(ctx, s.questionRepo, questionID, s.now())
	if err != nil {
		s.metrics.ObserveCast(outcomeNotFound)
		return nil, err
	}

	choiceID, err := uuid.Parse(input.ChoiceID)
	if err != nil {
		s.metrics.ObserveCast(outcomeMissingSelection)
		return nil, domain.ErrMissingSelection
	}
	if _, ok := question.Choice(choiceID); !ok {
		s.metrics.ObserveCast(outcomeMissingSelection)
		return nil, domain.ErrMissingSelection
	}

	vote := &domain.Vote{
		ID:         uuid.New(),
		QuestionID: question.ID,
		ChoiceID:   choiceID,
		UserID:     input.UserID,
	}

	// The window is checked again inside the write.
	outcome, err := s.voteRepo.Upsert(ctx, vote, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveCast(string(outcome))

	log := logrus.WithFields(logrus.Fields{
		"question_id": question.ID,
		"choice_id":   choiceID,
		"user_id":     input.UserID,
		"outcome":     outcome,
	})
	if outcome == domain.VoteDropped {
		log.Warn("vote dropped, voting window closed at write time")
	} else {
		log.Info("vote recorded")
	}

	return &domain.VoteReceipt{
		QuestionID: question.ID,
		ChoiceID:   choiceID,
		Outcome:    outcome,
	}, nil
}

func (s *voteService) GetMyVote(ctx context.Context, questionID string, userID uuid.UUID) (*domain.Vote, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	id, err := parseQuestionID(questionID)
	if err != nil {
		return nil, err
	}
	return s.voteRepo.GetByUser(ctx, id, userID)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCast(string) {}
