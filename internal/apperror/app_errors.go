package apperror

import "errors"

var (
	// client side
	ErrIllegalMove               = errors.New("illegal move")
	ErrInvalidMove               = errors.New("move rejected by session service")
	ErrSessionCreate             = errors.New("could not create game session")
	ErrSessionUnreachable        = errors.New("session service unreachable")
	ErrClassificationUnavailable = errors.New("classification unavailable while crossings remain unresolved")
	ErrWrongPhase                = errors.New("action not allowed in current game phase")
	ErrNoPendingMove             = errors.New("no pending move to submit")

	// board
	ErrIndexOutOfRange = errors.New("cell index out of range")
	ErrMalformedBoard  = errors.New("malformed board")

	// session service
	ErrGameNotFound      = errors.New("game not found")
	ErrGameOver          = errors.New("game is already over")
	ErrNotUnresolved     = errors.New("cell is not an unresolved crossing")
	ErrInvalidResolution = errors.New("crossing must be resolved with tile 9 or 10")
	ErrInvalidPlayer     = errors.New("starting player must be 'knotter' or 'unknotter'")
	ErrClassifierFailed  = errors.New("upstream classifier failed")
)
