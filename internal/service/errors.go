package service

import (
	"errors"

	"github.com/Billy-Davies-2/snake-draft/internal/draft"
)

// ErrNoRankings is returned when no ranked players have been loaded
var ErrNoRankings = errors.New("no rankings loaded")

// RequestError is a caller mistake with a message fit for the client
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// IsInvalidInput reports whether err was caused by bad request values
func IsInvalidInput(err error) bool {
	var re *RequestError
	return errors.As(err, &re) ||
		errors.Is(err, draft.ErrInvalidSlot) ||
		errors.Is(err, draft.ErrIndexOutOfRange)
}

// IsFailedPrecondition reports whether err was caused by the draft's state
func IsFailedPrecondition(err error) bool {
	return errors.Is(err, draft.ErrDraftComplete) ||
		errors.Is(err, draft.ErrNotUserTurn) ||
		errors.Is(err, draft.ErrNotStarted) ||
		errors.Is(err, draft.ErrPoolExhausted)
}
