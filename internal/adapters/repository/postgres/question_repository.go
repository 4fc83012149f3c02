package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const checkViolation = "23514"

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, question_text, pub_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, queryQuestion, question.ID, question.Text, question.PubDate, question.EndDate).
		Scan(&question.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == checkViolation {
			return fmt.Errorf("%w: %s", domain.ErrInvalidQuestion, pqErr.Message)
		}
		return fmt.Errorf("failed to insert question: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, question_id, choice_text, position)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range question.Choices {
		_, err = stmt.ExecContext(ctx, c.ID, c.QuestionID, c.Text, c.Position)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	queryQuestion := `
		SELECT id, question_text, pub_date, end_date, created_at
		FROM questions
		WHERE id = $1
	`

	var question domain.Question
	err := r.db.QueryRowContext(ctx, queryQuestion, id).Scan(
		&question.ID, &question.Text, &question.PubDate, &question.EndDate, &question.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	choices, err := r.fetchChoices(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	question.Choices = choices

	return &question, nil
}

func (r *questionRepository) ListEligible(ctx context.Context, now time.Time, minChoices, limit int) ([]*domain.Question, error) {
	query := `
		SELECT q.id, q.question_text, q.pub_date, q.end_date, q.created_at
		FROM questions q
		WHERE q.pub_date <= $1
		  AND (SELECT COUNT(*) FROM choices c WHERE c.question_id = q.id) >= $2
		ORDER BY q.pub_date ASC, q.id
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, now, minChoices, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time) ([]*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date, end_date, created_at
		FROM questions
		WHERE pub_date <= $1
		ORDER BY pub_date ASC, id
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list published questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

// Delete removes the question; its choices and votes go with it.
func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) scanQuestions(ctx context.Context, rows *sql.Rows) ([]*domain.Question, error) {
	var questions []*domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(&question.ID, &question.Text, &question.PubDate, &question.EndDate, &question.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	rows.Close()

	for _, question := range questions {
		choices, err := r.fetchChoices(ctx, question.ID)
		if err != nil {
			return nil, err
		}
		question.Choices = choices
	}
	return questions, nil
}

func (r *questionRepository) fetchChoices(ctx context.Context, questionID uuid.UUID) ([]domain.Choice, error) {
	queryChoices := `
		SELECT id, question_id, choice_text, position
		FROM choices
		WHERE question_id = $1
		ORDER BY position, id
	`
	rows, err := r.db.QueryContext(ctx, queryChoices, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.Choice
	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}
