// pkg/render/terminal.go
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// Glyphs used by the terminal view
const (
	GlyphWall    = '#'
	GlyphMover   = '@'
	GlyphPoint   = '.'
	GlyphContact = 'x'
)

var (
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMover   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePoint   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleContact = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

type cell struct {
	r     rune
	style tcell.Style
}

// TerminalRenderer draws a scaled character view of the world onto a tcell
// screen. The last row is reserved for the status line.
type TerminalRenderer struct {
	screen    tcell.Screen
	width     int
	height    int
	buffer    [][]cell
	scale     float64
	centerPos physics.Vector2D
	status    string
}

// NewTerminalRenderer creates a renderer sized to the screen. scale is the
// number of world units per character cell.
func NewTerminalRenderer(screen tcell.Screen, scale float64) *TerminalRenderer {
	width, height := screen.Size()
	r := &TerminalRenderer{
		screen: screen,
		scale:  scale,
	}
	r.resize(width, height)
	return r
}

func (r *TerminalRenderer) resize(width, height int) {
	r.width = width
	r.height = height
	r.buffer = make([][]cell, height)
	for i := range r.buffer {
		r.buffer[i] = make([]cell, width)
	}
	r.Clear()
}

// Sync picks up a changed screen size
func (r *TerminalRenderer) Sync() {
	width, height := r.screen.Size()
	if width != r.width || height != r.height {
		r.resize(width, height)
	}
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// SetScale sets the number of world units per cell
func (r *TerminalRenderer) SetScale(scale float64) {
	if scale > 0 {
		r.scale = scale
	}
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor((pos.Y-r.centerPos.Y)/r.scale + float64(r.height-1)/2))
	return screenX, screenY
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height-1 {
		r.buffer[y][x] = cell{r: ch, style: style}
	}
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = cell{r: ' ', style: tcell.StyleDefault}
		}
	}
	r.status = ""
}

// RenderBody implements Renderer. Boxes are drawn as outlines, points as a
// single cell.
func (r *TerminalRenderer) RenderBody(body *kinematics.Body) {
	if body == nil {
		return
	}

	if !body.IsBox() {
		x, y := r.worldToScreen(body.Position)
		r.set(x, y, GlyphPoint, stylePoint)
		return
	}

	glyph, style := rune(GlyphWall), styleWall
	if body.IsMoving() {
		glyph, style = GlyphMover, styleMover
	}

	bounds := body.Bounds()
	x0, y0 := r.worldToScreen(bounds.Min())
	x1, y1 := r.worldToScreen(bounds.Max())
	// The max edge is exclusive in cell space unless the box is thinner
	// than one cell.
	if x1 > x0 {
		x1--
	}
	if y1 > y0 {
		y1--
	}

	for x := x0; x <= x1; x++ {
		r.set(x, y0, glyph, style)
		r.set(x, y1, glyph, style)
	}
	for y := y0; y <= y1; y++ {
		r.set(x0, y, glyph, style)
		r.set(x1, y, glyph, style)
	}
}

// RenderContact implements Renderer
func (r *TerminalRenderer) RenderContact(contact physics.Collision) {
	x, y := r.worldToScreen(contact.Position)
	r.set(x, y, GlyphContact, styleContact)
}

// RenderStatus implements Renderer
func (r *TerminalRenderer) RenderStatus(text string) {
	r.status = text
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			c := r.buffer[y][x]
			r.screen.SetContent(x, y, c.r, nil, c.style)
		}
	}

	if r.height > 0 {
		row := r.height - 1
		for x := 0; x < r.width; x++ {
			r.screen.SetContent(x, row, ' ', nil, styleStatus)
		}
		for x, ch := range []rune(r.status) {
			if x >= r.width {
				break
			}
			r.screen.SetContent(x, row, ch, nil, styleStatus)
		}
	}

	r.screen.Show()
}
