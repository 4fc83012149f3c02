package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// IndexLimit caps the public index to the earliest eligible questions.
const IndexLimit = 5

const maxTextLength = 200

type questionService struct {
	repo     ports.QuestionRepository
	voteRepo ports.VoteRepository
	now      ports.Clock
}

func NewQuestionService(repo ports.QuestionRepository, voteRepo ports.VoteRepository, clock ports.Clock) ports.QuestionService {
	return &questionService{
		repo:     repo,
		voteRepo: voteRepo,
		now:      clock,
	}
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text, err := validateText(input.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: question text %v", domain.ErrInvalidQuestion, err)
	}

	now := s.now()
	pubDate := now
	if input.PubDate != nil {
		pubDate = *input.PubDate
	}
	if input.EndDate != nil && input.EndDate.Before(pubDate) {
		return nil, fmt.Errorf("%w: end date is before publish date", domain.ErrInvalidQuestion)
	}

	question := &domain.Question{
		ID:        uuid.New(),
		Text:      text,
		PubDate:   pubDate,
		EndDate:   input.EndDate,
		CreatedAt: now,
	}

	for _, choiceText := range input.Choices {
		if strings.TrimSpace(choiceText) == "" {
			continue
		}
		text, err := validateText(choiceText)
		if err != nil {
			return nil, fmt.Errorf("%w: choice text %v", domain.ErrInvalidQuestion, err)
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Text:       text,
			Position:   len(question.Choices),
		})
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"question_id": question.ID,
		"choices":     len(question.Choices),
	})
	if !question.HasValidChoices() {
		log.Warn("question created with too few choices to be listed")
	} else {
		log.Info("question created")
	}

	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, questionID); err != nil {
		return err
	}

	logrus.WithField("question_id", questionID).Info("question deleted")
	return nil
}

func (s *questionService) ListQuestions(ctx context.Context) ([]ports.ListedQuestion, error) {
	now := s.now()

	questions, err := s.repo.ListEligible(ctx, now, domain.MinChoices, IndexLimit)
	if err != nil {
		return nil, err
	}

	listed := make([]ports.ListedQuestion, 0, len(questions))
	for _, q := range questions {
		listed = append(listed, ports.ListedQuestion{
			Question: q,
			Recent:   q.WasPublishedRecently(now),
		})
	}
	return listed, nil
}

func (s *questionService) GetQuestionForVoting(ctx context.Context, id string) (*domain.Question, error) {
	question, err := s.published(ctx, id)
	if err != nil {
		return nil, err
	}

	if !question.CanVote(s.now()) {
		return nil, domain.ErrVotingClosed
	}
	return question, nil
}

func (s *questionService) GetResults(ctx context.Context, id string) (*domain.QuestionResults, error) {
	question, err := s.published(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.voteRepo.CountByChoice(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	return domain.Tally(question, counts), nil
}

// published resolves a question id that must exist and be visible now.
func (s *questionService) published(ctx context.Context, id string) (*domain.Question, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}
	return publishedQuestion(ctx, s.repo, questionID, s.now())
}

func publishedQuestion(ctx context.Context, repo ports.QuestionRepository, id uuid.UUID, now time.Time) (*domain.Question, error) {
	question, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !question.IsPublished(now) {
		return nil, domain.ErrQuestionNotFound
	}
	return question, nil
}

func parseQuestionID(id string) (uuid.UUID, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrQuestionNotFound, id)
	}
	return questionID, nil
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("is required")
	}
	if utf8.RuneCountInString(text) > maxTextLength {
		return "", fmt.Errorf("exceeds %d characters", maxTextLength)
	}
	return text, nil
}
