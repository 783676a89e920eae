package ndarray

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them, so callers can classify failures with errors.Is.
var (
	ErrShape    = errors.New("shape mismatch")
	ErrType     = errors.New("incompatible data type")
	ErrBounds   = errors.New("index out of bounds")
	ErrProtocol = errors.New("protocol violation")
	ErrSyntax   = errors.New("invalid index expression")
)

// ShapeError reports two shapes that cannot be reconciled.
type ShapeError struct {
	Op       string // operation that failed (e.g. "broadcast", "reshape")
	Got      Shape
	Expected Shape
	Details  string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s: %s: expected %s, found %s", ErrShape, e.Op, e.Expected, e.Got)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrShape) hold.
func (e *ShapeError) Unwrap() error { return ErrShape }

func boundsErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBounds, fmt.Sprintf(format, args...))
}

func typeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}

func shapeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrShape, fmt.Sprintf(format, args...))
}

func syntaxErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}
