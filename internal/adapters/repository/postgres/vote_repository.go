package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Upsert writes the vote in a single statement. The row is produced only
// when the choice belongs to the question and the question's window is open
// at now; the unique (question_id, user_id) key turns a second vote into an
// update of the first.
func (r *voteRepository) Upsert(ctx context.Context, vote *domain.Vote, now time.Time) (domain.VoteOutcome, error) {
	query := `
		INSERT INTO votes (id, question_id, choice_id, user_id, created_at, updated_at)
		SELECT $1::uuid, q.id, c.id, $4::uuid, $5::timestamptz, $5::timestamptz
		FROM choices c
		JOIN questions q ON q.id = c.question_id
		WHERE c.id = $3::uuid
		  AND q.id = $2::uuid
		  AND q.pub_date <= $5::timestamptz
		  AND (q.end_date IS NULL OR $5::timestamptz <= q.end_date)
		ON CONFLICT (question_id, user_id) DO UPDATE
		SET choice_id = EXCLUDED.choice_id,
		    updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRowContext(ctx, query, vote.ID, vote.QuestionID, vote.ChoiceID, vote.UserID, now).Scan(&inserted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VoteDropped, nil
		}
		return "", fmt.Errorf("failed to save vote: %w", err)
	}

	if inserted {
		return domain.VoteCreated, nil
	}
	return domain.VoteChanged, nil
}

func (r *voteRepository) GetByUser(ctx context.Context, questionID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, question_id, choice_id, user_id, created_at, updated_at
		FROM votes
		WHERE question_id = $1 AND user_id = $2
	`
	var vote domain.Vote
	err := r.db.QueryRowContext(ctx, query, questionID, userID).Scan(
		&vote.ID, &vote.QuestionID, &vote.ChoiceID, &vote.UserID, &vote.CreatedAt, &vote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &vote, nil
}

func (r *voteRepository) CountByChoice(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT choice_id, COUNT(*)
		FROM votes
		WHERE question_id = $1
		GROUP BY choice_id
	`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var (
			choiceID uuid.UUID
			count    int64
		)
		if err := rows.Scan(&choiceID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[choiceID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return counts, nil
}
