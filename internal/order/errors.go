package order

import "github.com/pkg/errors"

// Sentinel failure classes for order operations. Callers match with
// errors.Is; the wrapped message carries the human-readable detail.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
)
