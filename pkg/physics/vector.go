// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64
	Y float64
}

// Common vectors
var (
	Zero  = Vector2D{}
	One   = Vector2D{X: 1, Y: 1}
	UnitX = Vector2D{X: 1}
	UnitY = Vector2D{Y: 1}
)

// Splat returns a vector with both components set to v
func Splat(v float64) Vector2D {
	return Vector2D{X: v, Y: v}
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Mul returns the component-wise product of two vectors
func (v Vector2D) Mul(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X * other.X,
		Y: v.Y * other.Y,
	}
}

// Div returns the component-wise quotient of two vectors
func (v Vector2D) Div(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X / other.X,
		Y: v.Y / other.Y,
	}
}

// Neg returns the vector pointing the opposite way
func (v Vector2D) Neg() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// PerpDot returns the 2D cross product v.X*other.Y - v.Y*other.X.
// Zero means the vectors are parallel or one of them is zero.
func (v Vector2D) PerpDot(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Min returns the component-wise minimum
func (v Vector2D) Min(other Vector2D) Vector2D {
	return Vector2D{X: math.Min(v.X, other.X), Y: math.Min(v.Y, other.Y)}
}

// Max returns the component-wise maximum
func (v Vector2D) Max(other Vector2D) Vector2D {
	return Vector2D{X: math.Max(v.X, other.X), Y: math.Max(v.Y, other.Y)}
}

// Floor rounds both components down
func (v Vector2D) Floor() Vector2D {
	return Vector2D{X: math.Floor(v.X), Y: math.Floor(v.Y)}
}

// IsZero reports whether both components are exactly zero
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Normalize returns a unit vector in the same direction
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// ApproxEqual compares both components within an absolute/relative threshold
func (v Vector2D) ApproxEqual(other Vector2D, epsilon float64) bool {
	return mgl64.FloatEqualThreshold(v.X, other.X, epsilon) &&
		mgl64.FloatEqualThreshold(v.Y, other.Y, epsilon)
}

// Normal is an axis-aligned unit surface direction. The zero value means
// "no normal", which is what point-point contacts report.
type Normal struct {
	X int
	Y int
}

// Axis-aligned normals
var (
	NormalNone = Normal{}
	NormalPosX = Normal{X: 1}
	NormalNegX = Normal{X: -1}
	NormalPosY = Normal{Y: 1}
	NormalNegY = Normal{Y: -1}
)

// IsZero reports whether the normal is absent
func (n Normal) IsZero() bool {
	return n.X == 0 && n.Y == 0
}

// Neg flips the normal
func (n Normal) Neg() Normal {
	return Normal{X: -n.X, Y: -n.Y}
}

// Vector returns the normal as a float vector
func (n Normal) Vector() Vector2D {
	return Vector2D{X: float64(n.X), Y: float64(n.Y)}
}

// sign returns -1, 0 or 1
func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
