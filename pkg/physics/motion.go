package physics

// Motion pairs an object's initial position with its displacement for the
// current step. It is read as the segment P(t) = Start + t*Delta, t in [0,1].
type Motion struct {
	Start Vector2D
	Delta Vector2D
}

// NewMotion creates a motion from a start position and displacement
func NewMotion(start, delta Vector2D) Motion {
	return Motion{Start: start, Delta: delta}
}

// At returns the position at parameter t
func (m Motion) At(t float64) Vector2D {
	return m.Start.Add(m.Delta.Scale(t))
}

// IsStationary reports whether the displacement is zero
func (m Motion) IsStationary() bool {
	return m.Delta.IsZero()
}
