// pkg/render/renderer.go
package render

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/logging"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// Renderer draws the debug view of a world: body outlines, points and
// contact markers
type Renderer interface {
	Clear()
	RenderBody(body *kinematics.Body)
	RenderContact(contact physics.Collision)
	RenderStatus(text string)
	Present()
}

// RenderFrame draws one step. Contacts are drawn only when debug is set.
func RenderFrame(r Renderer, bodies []kinematics.Body, resolutions []collision.Resolution, tick uint64, debug bool) {
	r.Clear()
	for i := range bodies {
		r.RenderBody(&bodies[i])
	}

	contacts := 0
	for _, res := range resolutions {
		if !res.Hit {
			continue
		}
		contacts++
		if debug {
			r.RenderContact(res.Collision)
		}
	}

	r.RenderStatus(fmt.Sprintf("tick %d  colliders %d  moving %d  contacts %d",
		tick, len(bodies), len(resolutions), contacts))
	r.Present()
}

// NullRenderer discards everything except a debug log line per frame
type NullRenderer struct {
	logger   *logging.Logger
	bodies   int
	contacts int
	status   string
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.bodies = 0
	d.contacts = 0
	d.status = ""
}

// RenderBody implements Renderer.
func (d *NullRenderer) RenderBody(body *kinematics.Body) {
	if body == nil {
		return
	}
	d.bodies++
}

// RenderContact implements Renderer.
func (d *NullRenderer) RenderContact(physics.Collision) {
	d.contacts++
}

// RenderStatus implements Renderer.
func (d *NullRenderer) RenderStatus(text string) {
	d.status = text
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "frame",
		"bodies", d.bodies,
		"contacts", d.contacts,
		"status", d.status,
	)
}

// Counts returns the bodies and contacts drawn since the last Clear
func (d *NullRenderer) Counts() (bodies, contacts int) {
	return d.bodies, d.contacts
}
