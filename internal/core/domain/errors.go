package domain

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidQuestion  = errors.New("invalid question")
	ErrMissingSelection = errors.New("no choice selected for this question")
	ErrVotingClosed     = errors.New("voting for this question is closed")
	ErrUnauthenticated  = errors.New("user is not authenticated")
	ErrInternal         = errors.New("internal server error")
)
