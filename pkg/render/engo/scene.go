// pkg/render/engo/scene.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/engine"
	"github.com/opd-ai/go-sweep/pkg/event"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/logging"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

var (
	wallColor   = color.RGBA{R: 90, G: 90, B: 110, A: 255}
	playerColor = color.RGBA{R: 40, G: 140, B: 220, A: 255}
)

// SandboxScene is a walled room with one keyboard-driven box
type SandboxScene struct {
	Config   *config.Config
	Logger   *logging.Logger
	EventBus *event.Bus

	kinematic *KinematicSystem
	input     *InputSystem
	camera    *CameraSystem
	debug     *DebugSystem

	walls  []*bodyEntity
	player *bodyEntity
}

// NewSandboxScene creates the scene. logger and bus may be nil.
func NewSandboxScene(cfg *config.Config, logger *logging.Logger, bus *event.Bus) *SandboxScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SandboxScene{
		Config:   cfg,
		Logger:   logger,
		EventBus: bus,
	}
}

// Type returns the scene type (required by Engo)
func (scene *SandboxScene) Type() string {
	return "SandboxScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *SandboxScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *SandboxScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.White)

	render := &common.RenderSystem{}
	world.AddSystem(render)

	RegisterMovementButtons()
	scene.Populate(world, render, EngoControls())
}

// Populate adds the sandbox systems and entities to world. render may be
// nil to run without drawing.
func (scene *SandboxScene) Populate(world *ecs.World, render *common.RenderSystem, controls Controls) {
	cfg := scene.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	tileSize := cfg.Sim.TileSize

	scene.kinematic = NewKinematicSystem(cfg, scene.Logger, scene.EventBus)
	scene.input = NewInputSystem(controls, cfg.Sim.MoverSpeed)
	scene.camera = NewCameraSystem()
	scene.debug = NewDebugSystem(scene.kinematic, render)

	world.AddSystem(scene.input)
	world.AddSystem(scene.kinematic)
	world.AddSystem(scene.camera)
	world.AddSystem(scene.debug)

	tiles := engine.RingTiles(engine.Tile{X: -3, Y: -3}, engine.Tile{X: 4, Y: 3})
	tiles = append(tiles, engine.Tile{X: 2, Y: 0})
	for _, tile := range tiles {
		wall := scene.spawn(render, NewBoxComponent(physics.Splat(tileSize)), tile.Center(tileSize), wallColor)
		scene.walls = append(scene.walls, wall)
	}

	scene.player = scene.spawn(render, NewBoxComponent(physics.Splat(tileSize/2)), physics.Zero, playerColor)
	scene.input.Follow(&scene.player.KinematicComponent)
	scene.camera.SetTarget(&scene.player.SpaceComponent)
}

func (scene *SandboxScene) spawn(render *common.RenderSystem, body KinematicComponent, center physics.Vector2D, c color.Color) *bodyEntity {
	e := &bodyEntity{
		BasicEntity:        ecs.NewBasic(),
		KinematicComponent: body,
	}
	PlaceCentered(&e.SpaceComponent, center, body.Shape.Size)
	e.RenderComponent = common.RenderComponent{
		Drawable: common.Rectangle{},
		Color:    c,
	}

	scene.kinematic.Add(&e.BasicEntity, &e.KinematicComponent, &e.SpaceComponent)
	if render != nil {
		render.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	}
	return e
}

// PlayerID returns the ID of the keyboard-driven box
func (scene *SandboxScene) PlayerID() kinematics.ID {
	if scene.player == nil {
		return 0
	}
	return kinematics.ID(scene.player.ID())
}

// Kinematics returns the scene's kinematic system
func (scene *SandboxScene) Kinematics() *KinematicSystem {
	return scene.kinematic
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *SandboxScene) Exit() {}
