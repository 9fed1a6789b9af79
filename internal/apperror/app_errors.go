package apperror

import "errors"

// protocol errors.
var (
	ErrWrongPhase       = errors.New("operation is not allowed in the current phase")
	ErrNotCurrentPlayer = errors.New("it's not your turn")
	ErrGameOver         = errors.New("game is already over")
)

// economic errors.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoCardHeld        = errors.New("no get out of jail free card held")
	ErrAlreadyOwned      = errors.New("tile is already owned")
	ErrNoPendingPurchase = errors.New("no pending purchase for this tile")
	ErrNotOwner          = errors.New("tile is not owned by player")
	ErrNotOwnable        = errors.New("tile can not be owned")
	ErrCannotBuild       = errors.New("improvement is not allowed")
	ErrCannotMortgage    = errors.New("mortgage change is not allowed")
)

// lookup errors.
var (
	ErrOutOfRange     = errors.New("tile index out of range")
	ErrDeckExhausted  = errors.New("deck is exhausted")
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidPlayers = errors.New("invalid number of players")
)

// ErrInvariantViolation marks a programming error: state the public API must never produce.
var ErrInvariantViolation = errors.New("invariant violation")

// IsRecoverable reports whether the caller can retry after fixing the condition.
func IsRecoverable(err error) bool {
	return err != nil && !errors.Is(err, ErrInvariantViolation)
}
