// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sweep/pkg/physics"
)

// CameraSystem keeps the camera on a followed entity
type CameraSystem struct {
	target *common.SpaceComponent

	// Smooth following
	followSpeed float64
	smoothing   bool

	currentPos physics.Vector2D
	positioned bool
}

// NewCameraSystem creates a new camera system
func NewCameraSystem() *CameraSystem {
	return &CameraSystem{
		followSpeed: 4.0,
		smoothing:   true,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {
	// Not used for camera system
}

// Priority runs the camera after kinematics have moved the target
func (cs *CameraSystem) Priority() int {
	return 5
}

// Update moves the camera toward the target's center
func (cs *CameraSystem) Update(dt float32) {
	if cs.target == nil {
		return
	}
	cs.updateCameraPosition(CenterOf(cs.target), dt)
	cs.applyCameraTransform()
}

// updateCameraPosition moves toward goal, jumping there on first use or
// when smoothing is off
func (cs *CameraSystem) updateCameraPosition(goal physics.Vector2D, dt float32) {
	if !cs.smoothing || !cs.positioned {
		cs.currentPos = goal
		cs.positioned = true
		return
	}

	step := cs.followSpeed * float64(dt)
	if step > 1 {
		step = 1
	}
	cs.currentPos = cs.currentPos.Add(goal.Sub(cs.currentPos).Scale(step))
}

func (cs *CameraSystem) applyCameraTransform() {
	if engo.Mailbox == nil {
		return
	}
	engo.Mailbox.Dispatch(common.CameraMessage{
		Axis:  common.XAxis,
		Value: float32(cs.currentPos.X),
	})
	engo.Mailbox.Dispatch(common.CameraMessage{
		Axis:  common.YAxis,
		Value: float32(cs.currentPos.Y),
	})
}

// SetTarget sets the entity the camera follows
func (cs *CameraSystem) SetTarget(target *common.SpaceComponent) {
	cs.target = target
}

// ClearTarget stops following
func (cs *CameraSystem) ClearTarget() {
	cs.target = nil
}

// SetFollowSpeed sets the fraction of the remaining distance covered per
// second
func (cs *CameraSystem) SetFollowSpeed(speed float64) {
	cs.followSpeed = speed
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the current camera position
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}
