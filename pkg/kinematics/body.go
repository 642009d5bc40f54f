// Package kinematics defines the bodies the collision pipeline operates on:
// an identifier, a shape, a position, the displacement requested for the
// current step, and collision category sets.
package kinematics

import (
	"fmt"

	"github.com/opd-ai/go-sweep/pkg/physics"
)

// ID identifies a body. It is owned by the host and is stable across steps.
type ID uint64

// ShapeKind tags the variant held by a Shape
type ShapeKind uint8

const (
	// ShapePoint has no spatial extent
	ShapePoint ShapeKind = iota
	// ShapeBox is an axis-aligned box centered on the body position
	ShapeBox
)

// String returns the shape kind name
func (k ShapeKind) String() string {
	switch k {
	case ShapePoint:
		return "point"
	case ShapeBox:
		return "box"
	default:
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
}

// Shape is either a point or a box with a full size
type Shape struct {
	Kind ShapeKind
	Size physics.Vector2D
}

// Point returns the point shape
func Point() Shape {
	return Shape{Kind: ShapePoint}
}

// Box returns a box shape with the given full width and height
func Box(size physics.Vector2D) Shape {
	return Shape{Kind: ShapeBox, Size: size}
}

// Body is one entry of the per-step snapshot supplied by the host.
type Body struct {
	ID       ID
	Shape    Shape
	Position physics.Vector2D
	// Motion is the displacement budget left for this step; it is reset to
	// zero once applied.
	Motion physics.Vector2D
	Layer  Flags
	Mask   Flags
}

// NewPoint creates a point body in category A that collides with category A
func NewPoint(id ID, position, motion physics.Vector2D) Body {
	return Body{
		ID:       id,
		Shape:    Point(),
		Position: position,
		Motion:   motion,
		Layer:    FlagA,
		Mask:     FlagA,
	}
}

// NewBox creates a box body centered at position, in category A and
// colliding with category A
func NewBox(id ID, size, position, motion physics.Vector2D) Body {
	return Body{
		ID:       id,
		Shape:    Box(size),
		Position: position,
		Motion:   motion,
		Layer:    FlagA,
		Mask:     FlagA,
	}
}

// IsMoving reports whether the body requested a displacement this step
func (b *Body) IsMoving() bool {
	return !b.Motion.IsZero()
}

// IsBox reports whether the body has a box shape
func (b *Body) IsBox() bool {
	return b.Shape.Kind == ShapeBox
}

// Bounds returns the body's box. Point bodies yield a zero-size box at
// their position.
func (b *Body) Bounds() physics.AABB {
	if b.Shape.Kind != ShapeBox {
		return physics.NewAABB(b.Position, physics.Zero)
	}
	return physics.NewAABB(b.Position, b.Shape.Size)
}

// Sweep returns the body's motion segment for this step
func (b *Body) Sweep() physics.Motion {
	return physics.NewMotion(b.Position, b.Motion)
}

// CanCollideWith reports whether this body's mask includes any of other's
// categories
func (b *Body) CanCollideWith(other *Body) bool {
	return b.Mask.Intersects(other.Layer)
}
