package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const zeroPercent = "0.00%"

type ChoiceTally struct {
	Choice  Choice `json:"choice"`
	Votes   int64  `json:"votes"`
	Percent string `json:"percent"`
}

type QuestionResults struct {
	Question   *Question     `json:"question"`
	Tallies    []ChoiceTally `json:"tallies"`
	TotalVotes int64         `json:"total_votes"`
}

// Percent formats votes as a share of total with two decimals, rounding
// half away from zero.
func Percent(votes, total int64) string {
	if total <= 0 {
		return zeroPercent
	}
	share := decimal.NewFromInt(votes).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 2)
	return share.StringFixed(2) + "%"
}

// Tally builds per-choice results in the question's choice order. Choices
// missing from counts have zero votes.
func Tally(q *Question, counts map[uuid.UUID]int64) *QuestionResults {
	results := &QuestionResults{Question: q}
	for _, c := range q.Choices {
		results.TotalVotes += counts[c.ID]
	}
	for _, c := range q.Choices {
		votes := counts[c.ID]
		results.Tallies = append(results.Tallies, ChoiceTally{
			Choice:  c,
			Votes:   votes,
			Percent: Percent(votes, results.TotalVotes),
		})
	}
	return results
}

// VotesFor returns the tally of one choice, zero if it is not part of r.
func (r *QuestionResults) VotesFor(choiceID uuid.UUID) int64 {
	for _, t := range r.Tallies {
		if t.Choice.ID == choiceID {
			return t.Votes
		}
	}
	return 0
}
