// pkg/collision/dispatch.go
package collision

import (
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// Test runs the narrow-phase routine for mover b against o, chosen by the
// pair's shape kinds. supported is false when both bodies move and one of
// them is a box, which the narrow phase cannot solve; the pair then counts
// as no collision.
func Test(b, o *kinematics.Body) (c physics.Collision, ok bool, supported bool) {
	if !b.IsMoving() {
		return physics.Collision{}, false, true
	}

	switch {
	case b.Shape.Kind == kinematics.ShapePoint && o.Shape.Kind == kinematics.ShapePoint:
		c, ok = physics.PointPoint(b.Sweep(), o.Sweep())
		return c, ok, true

	case o.IsMoving():
		return physics.Collision{}, false, false

	case b.Shape.Kind == kinematics.ShapePoint && o.Shape.Kind == kinematics.ShapeBox:
		c, ok = physics.PointBox(b.Sweep(), o.Bounds())
		return c, ok, true

	case b.Shape.Kind == kinematics.ShapeBox && o.Shape.Kind == kinematics.ShapePoint:
		c, ok = physics.BoxPoint(b.Bounds(), b.Motion, o.Position)
		return c, ok, true

	case b.Shape.Kind == kinematics.ShapeBox && o.Shape.Kind == kinematics.ShapeBox:
		c, ok = physics.BoxBox(b.Bounds(), b.Motion, o.Bounds())
		return c, ok, true
	}

	return physics.Collision{}, false, true
}
