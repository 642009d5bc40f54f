package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

func newSimScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(width, height)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func rowText(screen tcell.Screen, y, width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		sb.WriteRune(runeAt(screen, x, y))
	}
	return sb.String()
}

func TestNewTerminalRenderer_SizedToScreen(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		scale  float64
	}{
		{"small renderer", 10, 5, 1.0},
		{"medium renderer", 80, 24, 10.0},
		{"large renderer", 120, 40, 5.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(newSimScreen(t, tt.width, tt.height), tt.scale)

			if renderer.width != tt.width || renderer.height != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, renderer.width, renderer.height)
			}
			if renderer.scale != tt.scale {
				t.Errorf("expected scale %f, got %f", tt.scale, renderer.scale)
			}
			if len(renderer.buffer) != tt.height || len(renderer.buffer[0]) != tt.width {
				t.Errorf("buffer has wrong dimensions")
			}
			for y := range renderer.buffer {
				for x := range renderer.buffer[y] {
					if renderer.buffer[y][x].r != ' ' {
						t.Fatalf("buffer not cleared at (%d,%d)", x, y)
					}
				}
			}
		})
	}
}

func TestTerminalRenderer_WorldToScreen(t *testing.T) {
	renderer := NewTerminalRenderer(newSimScreen(t, 20, 11), 2)

	tests := []struct {
		name   string
		center physics.Vector2D
		pos    physics.Vector2D
		x, y   int
	}{
		{"origin", physics.Zero, physics.Zero, 10, 5},
		{"scaled offset", physics.Zero, physics.Vector2D{X: 4, Y: -4}, 12, 3},
		{"negative fraction floors", physics.Zero, physics.Vector2D{X: -1, Y: 0}, 9, 5},
		{"moved center", physics.Vector2D{X: 10, Y: 10}, physics.Vector2D{X: 10, Y: 10}, 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer.SetCenter(tt.center)
			x, y := renderer.worldToScreen(tt.pos)
			if x != tt.x || y != tt.y {
				t.Errorf("worldToScreen(%v) = (%d,%d), want (%d,%d)", tt.pos, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestTerminalRenderer_DrawsBodiesAndContacts(t *testing.T) {
	screen := newSimScreen(t, 20, 11)
	renderer := NewTerminalRenderer(screen, 1)

	wall := kinematics.NewBox(1, physics.Splat(4), physics.Zero, physics.Zero)
	point := kinematics.NewPoint(2, physics.Vector2D{X: 6, Y: 0}, physics.Zero)
	mover := kinematics.NewBox(3, physics.Splat(2), physics.Vector2D{X: -6, Y: 0}, physics.UnitX)

	renderer.Clear()
	renderer.RenderBody(&wall)
	renderer.RenderBody(&point)
	renderer.RenderBody(&mover)
	renderer.RenderContact(physics.Collision{Position: physics.Vector2D{X: 0, Y: -4}})
	renderer.RenderStatus("status line")
	renderer.Present()

	checks := []struct {
		name string
		x, y int
		want rune
	}{
		{"wall top-left", 8, 3, GlyphWall},
		{"wall bottom-right", 11, 6, GlyphWall},
		{"wall interior empty", 9, 4, ' '},
		{"point", 16, 5, GlyphPoint},
		{"mover", 3, 4, GlyphMover},
		{"contact", 10, 1, GlyphContact},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if got := runeAt(screen, c.x, c.y); got != c.want {
				t.Errorf("cell (%d,%d) = %q, want %q", c.x, c.y, got, c.want)
			}
		})
	}

	if got := rowText(screen, 10, 20); !strings.HasPrefix(got, "status line") {
		t.Errorf("status row = %q", got)
	}
}

func TestTerminalRenderer_ClipsOffscreen(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	renderer := NewTerminalRenderer(screen, 1)

	far := kinematics.NewPoint(1, physics.Vector2D{X: 1000, Y: -1000}, physics.Zero)
	huge := kinematics.NewBox(2, physics.Splat(1000), physics.Zero, physics.Zero)

	renderer.Clear()
	renderer.RenderBody(&far)
	renderer.RenderBody(&huge)
	renderer.RenderBody(nil)
	renderer.Present()

	for y := 0; y < 4; y++ {
		if got := rowText(screen, y, 10); strings.TrimSpace(got) != "" {
			t.Errorf("row %d should be empty, got %q", y, got)
		}
	}
}

func TestRenderFrame_StatusAndDebugContacts(t *testing.T) {
	bodies := []kinematics.Body{
		kinematics.NewPoint(1, physics.Zero, physics.UnitX),
		kinematics.NewBox(2, physics.Splat(4), physics.Vector2D{X: 4}, physics.Zero),
	}
	resolutions := []collision.Resolution{{
		ID:        1,
		Hit:       true,
		Other:     2,
		Collision: physics.Collision{Position: physics.Vector2D{X: 2}},
	}}

	for _, debug := range []bool{false, true} {
		null := NewNullRenderer(nil)
		RenderFrame(null, bodies, resolutions, 7, debug)

		drawnBodies, drawnContacts := null.Counts()
		if drawnBodies != 2 {
			t.Errorf("debug=%v: expected 2 bodies, got %d", debug, drawnBodies)
		}
		wantContacts := 0
		if debug {
			wantContacts = 1
		}
		if drawnContacts != wantContacts {
			t.Errorf("debug=%v: expected %d contacts, got %d", debug, wantContacts, drawnContacts)
		}
		if null.status != "tick 7  colliders 2  moving 1  contacts 1" {
			t.Errorf("unexpected status %q", null.status)
		}
	}
}
