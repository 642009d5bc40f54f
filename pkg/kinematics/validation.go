package kinematics

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrNonFinite    = errors.New("non-finite value")
	ErrInvalidSize  = errors.New("box size must be positive")
	ErrUnknownShape = errors.New("unknown shape")
)

// Validate checks that a body can be fed to the collision pipeline.
// Degenerate motions (zero on an axis) are valid; NaN or infinite values and
// non-positive box sizes are not.
func Validate(b Body) error {
	if !b.Position.IsFinite() {
		return fmt.Errorf("body %d position %v: %w", b.ID, b.Position, ErrNonFinite)
	}
	if !b.Motion.IsFinite() {
		return fmt.Errorf("body %d motion %v: %w", b.ID, b.Motion, ErrNonFinite)
	}

	switch b.Shape.Kind {
	case ShapePoint:
		return nil
	case ShapeBox:
		if !b.Shape.Size.IsFinite() {
			return fmt.Errorf("body %d size %v: %w", b.ID, b.Shape.Size, ErrNonFinite)
		}
		if b.Shape.Size.X <= 0 || b.Shape.Size.Y <= 0 {
			return fmt.Errorf("body %d size %v: %w", b.ID, b.Shape.Size, ErrInvalidSize)
		}
		return nil
	default:
		return fmt.Errorf("body %d shape %v: %w", b.ID, b.Shape.Kind, ErrUnknownShape)
	}
}
