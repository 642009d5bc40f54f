// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-sweep/pkg/physics"
)

// Movement button names
const (
	ButtonUp    = "up"
	ButtonDown  = "down"
	ButtonLeft  = "left"
	ButtonRight = "right"
)

// Controls reports whether a named button is held
type Controls interface {
	Down(button string) bool
}

// engoControls reads the global engo input manager
type engoControls struct{}

func (engoControls) Down(button string) bool {
	return engo.Input.Button(button).Down()
}

// EngoControls returns Controls backed by engo.Input. RegisterMovementButtons
// must have been called.
func EngoControls() Controls {
	return engoControls{}
}

// RegisterMovementButtons binds WASD and the arrow keys
func RegisterMovementButtons() {
	engo.Input.RegisterButton(ButtonUp, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(ButtonDown, engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton(ButtonLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonRight, engo.KeyD, engo.KeyArrowRight)
}

// MovementDirection turns held buttons into a unit direction, or zero when
// nothing is held or opposite buttons cancel. Screen y grows downward.
func MovementDirection(c Controls) physics.Vector2D {
	var dir physics.Vector2D
	if c.Down(ButtonLeft) {
		dir.X--
	}
	if c.Down(ButtonRight) {
		dir.X++
	}
	if c.Down(ButtonUp) {
		dir.Y--
	}
	if c.Down(ButtonDown) {
		dir.Y++
	}
	return dir.Normalize()
}

// InputSystem sets the requested motion of one kinematic entity from the
// keyboard each frame
type InputSystem struct {
	controls Controls
	target   *KinematicComponent
	// speed is in world units per second
	speed float64
}

// NewInputSystem creates a new input system
func NewInputSystem(controls Controls, speed float64) *InputSystem {
	return &InputSystem{
		controls: controls,
		speed:    speed,
	}
}

// Follow selects the entity the keyboard drives
func (is *InputSystem) Follow(body *KinematicComponent) {
	is.target = body
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
	// Not used for input system
}

// Priority runs input before kinematics
func (is *InputSystem) Priority() int {
	return 20
}

// Update writes this frame's motion into the followed entity
func (is *InputSystem) Update(dt float32) {
	if is.target == nil {
		return
	}
	is.target.Motion = MovementDirection(is.controls).Scale(is.speed * float64(dt))
}
