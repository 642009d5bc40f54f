// Package replay records collision steps to a msgpack stream and reads them
// back, so a run can be inspected or checked for determinism offline.
package replay

import (
	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// FormatVersion is bumped whenever the frame layout changes
const FormatVersion = 1

// Header opens every replay stream
type Header struct {
	Version      int     `msgpack:"v"`
	ChunkSize    float64 `msgpack:"cs"`
	FilterLayers bool    `msgpack:"fl"`
}

// BodyState is one body of a recorded snapshot
type BodyState struct {
	ID    uint64  `msgpack:"id"`
	Kind  uint8   `msgpack:"k"`
	W     float64 `msgpack:"w,omitempty"`
	H     float64 `msgpack:"h,omitempty"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	DX    float64 `msgpack:"dx"`
	DY    float64 `msgpack:"dy"`
	Layer uint8   `msgpack:"l"`
	Mask  uint8   `msgpack:"m"`
}

// ResolutionState is one recorded detection result
type ResolutionState struct {
	ID    uint64  `msgpack:"id"`
	DX    float64 `msgpack:"dx"`
	DY    float64 `msgpack:"dy"`
	Hit   bool    `msgpack:"h,omitempty"`
	Other uint64  `msgpack:"o,omitempty"`
	NX    int8    `msgpack:"nx,omitempty"`
	NY    int8    `msgpack:"ny,omitempty"`
}

// Frame is one step: the snapshot fed to detection and what it returned
type Frame struct {
	Tick        uint64            `msgpack:"t"`
	StepID      string            `msgpack:"s"`
	Bodies      []BodyState       `msgpack:"b"`
	Resolutions []ResolutionState `msgpack:"r"`
}

// NewBodyState captures a body
func NewBodyState(b kinematics.Body) BodyState {
	return BodyState{
		ID:    uint64(b.ID),
		Kind:  uint8(b.Shape.Kind),
		W:     b.Shape.Size.X,
		H:     b.Shape.Size.Y,
		X:     b.Position.X,
		Y:     b.Position.Y,
		DX:    b.Motion.X,
		DY:    b.Motion.Y,
		Layer: uint8(b.Layer),
		Mask:  uint8(b.Mask),
	}
}

// Body restores the captured body
func (s BodyState) Body() kinematics.Body {
	return kinematics.Body{
		ID:       kinematics.ID(s.ID),
		Shape:    kinematics.Shape{Kind: kinematics.ShapeKind(s.Kind), Size: physics.Vector2D{X: s.W, Y: s.H}},
		Position: physics.Vector2D{X: s.X, Y: s.Y},
		Motion:   physics.Vector2D{X: s.DX, Y: s.DY},
		Layer:    kinematics.Flags(s.Layer),
		Mask:     kinematics.Flags(s.Mask),
	}
}

// NewResolutionState captures a detection result. Contact positions are
// not stored; they can be recomputed from the snapshot.
func NewResolutionState(r collision.Resolution) ResolutionState {
	return ResolutionState{
		ID:    uint64(r.ID),
		DX:    r.Motion.X,
		DY:    r.Motion.Y,
		Hit:   r.Hit,
		Other: uint64(r.Other),
		NX:    int8(r.Collision.Normal.X),
		NY:    int8(r.Collision.Normal.Y),
	}
}

// NewFrame captures one step
func NewFrame(tick uint64, stepID string, bodies []kinematics.Body, resolutions []collision.Resolution) Frame {
	f := Frame{
		Tick:        tick,
		StepID:      stepID,
		Bodies:      make([]BodyState, len(bodies)),
		Resolutions: make([]ResolutionState, len(resolutions)),
	}
	for i, b := range bodies {
		f.Bodies[i] = NewBodyState(b)
	}
	for i, r := range resolutions {
		f.Resolutions[i] = NewResolutionState(r)
	}
	return f
}

// Snapshot restores the frame's bodies
func (f Frame) Snapshot() []kinematics.Body {
	bodies := make([]kinematics.Body, len(f.Bodies))
	for i, s := range f.Bodies {
		bodies[i] = s.Body()
	}
	return bodies
}
