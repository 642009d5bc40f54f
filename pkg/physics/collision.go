// pkg/physics/collision.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Collision describes the first contact of a moving object with another
// object during one step.
type Collision struct {
	// Position is the world point of first contact
	Position Vector2D
	// Normal is the struck face direction; zero for point-point contacts
	Normal Normal
	// ResolvedMotion is the part of the mover's displacement taken before contact
	ResolvedMotion Vector2D
	// T is the impact parameter in [0,1] along the mover's displacement
	T float64
}

// HasNormal reports whether the contact carries a surface normal
func (c Collision) HasNormal() bool {
	return !c.Normal.IsZero()
}

// PointPoint intersects two moving points, each read as a segment over the
// step. The tested point's parameter must lie in [0,1] and the other's in
// [0,1) so a contact at the far end of the other path is not counted twice.
// Parallel and collinear paths never collide.
func PointPoint(self, other Motion) (Collision, bool) {
	cross := self.Delta.PerpDot(other.Delta)
	if cross == 0 {
		return Collision{}, false
	}

	displacement := other.Start.Sub(self.Start)
	selfRatio := displacement.PerpDot(other.Delta) / cross
	otherRatio := displacement.PerpDot(self.Delta) / cross

	if selfRatio < 0 || selfRatio > 1 || otherRatio < 0 || otherRatio >= 1 {
		return Collision{}, false
	}

	return Collision{
		Position:       self.At(selfRatio),
		ResolvedMotion: self.Delta.Scale(selfRatio),
		T:              selfRatio,
	}, true
}

// PointBox sweeps a moving point against a stationary box with the slab
// method. The normal points against the travel direction on the axis that
// bound the entry time.
func PointBox(point Motion, box AABB) (Collision, bool) {
	if point.IsStationary() {
		return Collision{}, false
	}

	min, max := box.Min(), box.Max()

	nearX, farX, ok := slab(point.Start.X, point.Delta.X, min.X, max.X)
	if !ok {
		return Collision{}, false
	}
	nearY, farY, ok := slab(point.Start.Y, point.Delta.Y, min.Y, max.Y)
	if !ok {
		return Collision{}, false
	}

	entry := math.Max(nearX, nearY)
	exit := math.Min(farX, farY)

	// Missed, box behind the start, or contact after this step.
	if entry > exit || exit < 0 || entry > 1 {
		return Collision{}, false
	}

	var normal Normal
	var onEntryFace bool
	if entry == nearX {
		normal = Normal{X: -sign(point.Delta.X)}
		onEntryFace = onFace(point.Start.X, entryFace(point.Delta.X, min.X, max.X))
	} else {
		normal = Normal{Y: -sign(point.Delta.Y)}
		onEntryFace = onFace(point.Start.Y, entryFace(point.Delta.Y, min.Y, max.Y))
	}

	// Starting inside the box. A point resting on the face it moves through
	// is blocked where it stands; deeper inside, leaving or sliding along a
	// face is allowed.
	if entry < 0 {
		if !onEntryFace {
			return Collision{}, false
		}
		entry = 0
	}

	return Collision{
		Position:       point.At(entry),
		Normal:         normal,
		ResolvedMotion: point.Delta.Scale(entry),
		T:              entry,
	}, true
}

// slab returns the entry and exit parameters of a 1D segment against
// [lo, hi]. A zero delta is inside for all t when start lies in the range
// and never enters otherwise.
func slab(start, delta, lo, hi float64) (near, far float64, ok bool) {
	if delta == 0 {
		if start < lo || start > hi {
			return 0, 0, false
		}
		return math.Inf(-1), math.Inf(1), true
	}

	near = (lo - start) / delta
	far = (hi - start) / delta
	if near > far {
		near, far = far, near
	}
	return near, far, true
}

// contactSlop is the distance, absolute or relative to the coordinate,
// within which a start position counts as lying on a face. It absorbs the
// rounding left by committing a resolved motion.
const contactSlop = 1e-9

// entryFace returns the face of [lo, hi] a segment moving by delta crosses
// first
func entryFace(delta, lo, hi float64) float64 {
	if delta < 0 {
		return hi
	}
	return lo
}

// onFace reports whether v lies on face up to contactSlop
func onFace(v, face float64) bool {
	return math.Abs(v-face) <= contactSlop || mgl64.FloatEqualThreshold(v, face, contactSlop)
}

// BoxPoint sweeps a moving box against a stationary point. It is PointBox
// seen from the point, with the displacement reversed; the contact is at the
// point and the normal is flipped back into the mover's frame.
func BoxPoint(box AABB, delta Vector2D, point Vector2D) (Collision, bool) {
	c, ok := PointBox(NewMotion(point, delta.Neg()), box)
	if !ok {
		return Collision{}, false
	}
	return Collision{
		Position:       point,
		Normal:         c.Normal.Neg(),
		ResolvedMotion: delta.Scale(c.T),
		T:              c.T,
	}, true
}

// BoxBox sweeps a moving box against a stationary box by casting each of
// the mover's four corners as a point with the box's displacement, keeping
// the hit nearest to its corner's start.
func BoxBox(mover AABB, delta Vector2D, obstacle AABB) (Collision, bool) {
	if delta.IsZero() {
		return Collision{}, false
	}

	var best Collision
	found := false
	bestDistance := math.Inf(1)

	for _, corner := range mover.Corners() {
		c, ok := PointBox(NewMotion(corner, delta), obstacle)
		if !ok {
			continue
		}
		distance := c.Position.Distance(corner)
		if distance < bestDistance {
			best = c
			bestDistance = distance
			found = true
		}
	}

	return best, found
}
