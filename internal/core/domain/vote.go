package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceID   uuid.UUID `json:"choice_id"`
	UserID     uuid.UUID `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VoteOutcome tells what a cast did to the stored vote.
type VoteOutcome string

const (
	VoteCreated VoteOutcome = "created"
	VoteChanged VoteOutcome = "changed"
	// VoteDropped means the voting window was closed when the write ran;
	// nothing was stored.
	VoteDropped VoteOutcome = "dropped"
)

func (o VoteOutcome) Recorded() bool {
	return o == VoteCreated || o == VoteChanged
}

type VoteReceipt struct {
	QuestionID uuid.UUID   `json:"question_id"`
	ChoiceID   uuid.UUID   `json:"choice_id"`
	Outcome    VoteOutcome `json:"outcome"`
}
