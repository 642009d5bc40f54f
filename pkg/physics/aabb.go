package physics

// AABB is an axis-aligned box stored as its geometric center and full size.
// Size components are expected to be positive.
type AABB struct {
	Center Vector2D
	Size   Vector2D
}

// NewAABB creates a box centered at center with the given full size
func NewAABB(center, size Vector2D) AABB {
	return AABB{Center: center, Size: size}
}

// NewAABBFromMinMax creates a box from its minimum and maximum corners
func NewAABBFromMinMax(min, max Vector2D) AABB {
	return AABB{
		Center: min.Add(max).Scale(0.5),
		Size:   max.Sub(min),
	}
}

// HalfSize returns half the box extent on each axis
func (a AABB) HalfSize() Vector2D {
	return a.Size.Scale(0.5)
}

// Min returns the minimum corner
func (a AABB) Min() Vector2D {
	return a.Center.Sub(a.HalfSize())
}

// Max returns the maximum corner
func (a AABB) Max() Vector2D {
	return a.Center.Add(a.HalfSize())
}

// Corners returns the four corners: min, (min.x,max.y), max, (max.x,min.y)
func (a AABB) Corners() [4]Vector2D {
	min, max := a.Min(), a.Max()
	return [4]Vector2D{
		min,
		{X: min.X, Y: max.Y},
		max,
		{X: max.X, Y: min.Y},
	}
}

// Translate returns the box moved by delta
func (a AABB) Translate(delta Vector2D) AABB {
	return AABB{Center: a.Center.Add(delta), Size: a.Size}
}

// Contains reports whether point lies inside the box or on its boundary
func (a AABB) Contains(point Vector2D) bool {
	min, max := a.Min(), a.Max()
	return point.X >= min.X && point.X <= max.X &&
		point.Y >= min.Y && point.Y <= max.Y
}

// Overlaps reports whether the interiors of two boxes intersect.
// Boxes that only share an edge do not overlap.
func (a AABB) Overlaps(other AABB) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := other.Min(), other.Max()
	return aMin.X < bMax.X && aMax.X > bMin.X &&
		aMin.Y < bMax.Y && aMax.Y > bMin.Y
}
