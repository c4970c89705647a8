package pricing

import (
	"errors"
)

// Engine error constants. All three are fatal: an evaluation either
// produces a complete result or none at all.
var (
	// ErrEntityNotFound signals a dangling catalog reference (missing
	// material, variant, printing, or finish) in the snapshot.
	ErrEntityNotFound = errors.New("referenced catalog entity not found")

	// ErrInvalidQuantity signals a zero or negative computed line quantity,
	// a data-integrity problem in the bill of materials.
	ErrInvalidQuantity = errors.New("computed quantity must be greater than zero")

	// ErrInvalidMarginConfiguration signals an effective margin at or above
	// 100%, which has no defined price.
	ErrInvalidMarginConfiguration = errors.New("margin must be below 100%")
)

func IsEntityNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

func IsInvalidQuantity(err error) bool {
	return errors.Is(err, ErrInvalidQuantity)
}

func IsInvalidMarginConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidMarginConfiguration)
}
