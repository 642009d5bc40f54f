// pkg/render/engo/debug.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sweep/pkg/physics"
)

const contactMarkerSize = 6

var contactColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}

type contactMarker struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// DebugSystem draws a marker at every contact of the last kinematic frame.
// It only draws when the kinematic system runs with debug output enabled.
type DebugSystem struct {
	kinematic *KinematicSystem
	render    *common.RenderSystem

	markers []*contactMarker
	visible int
}

// NewDebugSystem creates the system. render may be nil, in which case
// markers are positioned but never drawn.
func NewDebugSystem(kinematic *KinematicSystem, render *common.RenderSystem) *DebugSystem {
	return &DebugSystem{
		kinematic: kinematic,
		render:    render,
	}
}

// Remove satisfies the ecs.System interface
func (ds *DebugSystem) Remove(basic ecs.BasicEntity) {}

// Priority runs after kinematics
func (ds *DebugSystem) Priority() int {
	return 5
}

// Update moves one marker onto each contact and hides the rest
func (ds *DebugSystem) Update(dt float32) {
	ds.visible = 0
	if ds.kinematic.Debug() {
		for _, r := range ds.kinematic.LastResolutions() {
			if !r.Hit {
				continue
			}
			ds.place(ds.marker(ds.visible), r.Collision.Position)
			ds.visible++
		}
	}
	for i := ds.visible; i < len(ds.markers); i++ {
		ds.markers[i].Hidden = true
	}
}

// marker returns the i-th pooled marker, growing the pool when needed
func (ds *DebugSystem) marker(i int) *contactMarker {
	if i < len(ds.markers) {
		return ds.markers[i]
	}
	m := &contactMarker{BasicEntity: ecs.NewBasic()}
	m.RenderComponent = common.RenderComponent{
		Drawable: common.Circle{},
		Color:    contactColor,
	}
	m.SetZIndex(10)
	m.Width = contactMarkerSize
	m.Height = contactMarkerSize
	if ds.render != nil {
		ds.render.Add(&m.BasicEntity, &m.RenderComponent, &m.SpaceComponent)
	}
	ds.markers = append(ds.markers, m)
	return m
}

func (ds *DebugSystem) place(m *contactMarker, at physics.Vector2D) {
	m.Hidden = false
	m.Position = engo.Point{
		X: float32(at.X) - contactMarkerSize/2,
		Y: float32(at.Y) - contactMarkerSize/2,
	}
}

// VisibleContacts returns the number of markers shown after the last Update
func (ds *DebugSystem) VisibleContacts() int {
	return ds.visible
}

// MarkerPositions returns the centers of the visible markers
func (ds *DebugSystem) MarkerPositions() []physics.Vector2D {
	out := make([]physics.Vector2D, 0, ds.visible)
	for _, m := range ds.markers[:ds.visible] {
		out = append(out, CenterOf(&m.SpaceComponent))
	}
	return out
}
