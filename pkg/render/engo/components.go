// Package engo hosts the collision pipeline inside an EngoEngine ECS world:
// a system that snapshots kinematic entities each frame, runs detection and
// writes resolved positions back, plus keyboard, camera and debug systems.
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// KinematicComponent marks an entity as taking part in collision detection.
// Its position comes from the entity's SpaceComponent.
type KinematicComponent struct {
	Shape kinematics.Shape
	// Motion is the displacement requested for the next frame; the
	// KinematicSystem clears it once applied
	Motion physics.Vector2D
	Layer  kinematics.Flags
	Mask   kinematics.Flags
}

// GetKinematicComponent returns the component itself
func (c *KinematicComponent) GetKinematicComponent() *KinematicComponent {
	return c
}

// NewBoxComponent returns a box component in category A colliding with A
func NewBoxComponent(size physics.Vector2D) KinematicComponent {
	return KinematicComponent{
		Shape: kinematics.Box(size),
		Layer: kinematics.FlagA,
		Mask:  kinematics.FlagA,
	}
}

// NewPointComponent returns a point component in category A colliding with A
func NewPointComponent() KinematicComponent {
	return KinematicComponent{
		Shape: kinematics.Point(),
		Layer: kinematics.FlagA,
		Mask:  kinematics.FlagA,
	}
}

// CenterOf returns the center of a space component. SpaceComponent.Position
// is the top-left corner.
func CenterOf(space *common.SpaceComponent) physics.Vector2D {
	return physics.Vector2D{
		X: float64(space.Position.X) + float64(space.Width)/2,
		Y: float64(space.Position.Y) + float64(space.Height)/2,
	}
}

// PlaceCentered sizes space and moves it so its center is at center
func PlaceCentered(space *common.SpaceComponent, center, size physics.Vector2D) {
	space.Width = float32(size.X)
	space.Height = float32(size.Y)
	space.Position = engo.Point{
		X: float32(center.X - size.X/2),
		Y: float32(center.Y - size.Y/2),
	}
}

// bodyEntity is an entity the sandbox spawns
type bodyEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
	KinematicComponent
}
