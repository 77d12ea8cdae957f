package draft

import "errors"

var (
	ErrInvalidSlot     = errors.New("invalid slot")
	ErrInvalidConfig   = errors.New("invalid draft config")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrPickOutOfRange  = errors.New("pick pointer out of range")
	ErrDraftComplete   = errors.New("draft complete")
	ErrNotUserTurn     = errors.New("not your turn")
	ErrNotStarted      = errors.New("draft not started")
	ErrPoolExhausted   = errors.New("player pool exhausted")
)
