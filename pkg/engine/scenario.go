// pkg/engine/scenario.go
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// Tile is an integer cell of a tile grid
type Tile struct {
	X int
	Y int
}

// Center returns the world position of the tile center
func (t Tile) Center(tileSize float64) physics.Vector2D {
	return physics.Vector2D{X: float64(t.X), Y: float64(t.Y)}.Scale(tileSize)
}

// RingTiles returns the border cells of the tile rectangle spanning lo to
// hi inclusive, each cell once
func RingTiles(lo, hi Tile) []Tile {
	var tiles []Tile
	for x := lo.X; x <= hi.X; x++ {
		tiles = append(tiles, Tile{X: x, Y: lo.Y})
		if hi.Y != lo.Y {
			tiles = append(tiles, Tile{X: x, Y: hi.Y})
		}
	}
	for y := lo.Y + 1; y < hi.Y; y++ {
		tiles = append(tiles, Tile{X: lo.X, Y: y})
		if hi.X != lo.X {
			tiles = append(tiles, Tile{X: hi.X, Y: y})
		}
	}
	return tiles
}

// AddWalls adds one stationary box per tile
func AddWalls(w *World, tiles []Tile, tileSize float64) ([]kinematics.ID, error) {
	size := physics.Splat(tileSize)
	ids := make([]kinematics.ID, 0, len(tiles))
	for _, tile := range tiles {
		wall := kinematics.NewBox(0, size, tile.Center(tileSize), physics.Zero)
		wall.Layer = WallLayer
		wall.Mask = WallLayer | PointLayer
		id, err := w.Spawn(wall)
		if err != nil {
			return ids, fmt.Errorf("wall at %v: %w", tile, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Collision categories used by the example scenarios
const (
	WallLayer  = kinematics.FlagA
	PointLayer = kinematics.FlagB
)

// PointSpawner fires point bodies from an origin in random directions and
// drives them at a constant speed. Points only collide with walls when the
// world filters layers.
type PointSpawner struct {
	Origin physics.Vector2D
	// Speed is in world units per second
	Speed float64

	rng        *rand.Rand
	directions map[kinematics.ID]physics.Vector2D
}

// NewPointSpawner creates a spawner with a deterministic direction sequence
func NewPointSpawner(origin physics.Vector2D, speed float64, seed uint64) *PointSpawner {
	return &PointSpawner{
		Origin:     origin,
		Speed:      speed,
		rng:        rand.New(rand.NewPCG(seed, seed+1)),
		directions: make(map[kinematics.ID]physics.Vector2D),
	}
}

// Len returns the number of live points the spawner drives
func (s *PointSpawner) Len() int {
	return len(s.directions)
}

func (s *PointSpawner) direction() physics.Vector2D {
	for {
		d := physics.Vector2D{X: s.rng.Float64()*2 - 1, Y: s.rng.Float64()*2 - 1}
		if d.LengthSquared() > 1e-6 {
			return d.Normalize()
		}
	}
}

// Spawn adds one point at the origin
func (s *PointSpawner) Spawn(w *World) (kinematics.ID, error) {
	point := kinematics.NewPoint(0, s.Origin, physics.Zero)
	point.Layer = PointLayer
	point.Mask = WallLayer
	id, err := w.Spawn(point)
	if err != nil {
		return 0, err
	}
	s.directions[id] = s.direction()
	return id, nil
}

// Drive sets every point's motion for a step of dt seconds
func (s *PointSpawner) Drive(w *World, dt float64) {
	for id, dir := range s.directions {
		if err := w.SetMotion(id, dir.Scale(s.Speed*dt)); err != nil {
			delete(s.directions, id)
		}
	}
}

// Retire removes the points whose motion was cut short by a wall in result
// and returns how many were removed
func (s *PointSpawner) Retire(w *World, result StepResult) int {
	removed := 0
	for _, r := range result.Contacts() {
		if _, ok := s.directions[r.ID]; !ok {
			continue
		}
		if _, hitPoint := s.directions[r.Other]; hitPoint {
			continue
		}
		delete(s.directions, r.ID)
		if err := w.Remove(r.ID); err == nil {
			removed++
		}
	}
	return removed
}

// Simulation is the many-moving-points scenario: a square ring of walls
// around the origin and a spawner keeping up to cfg.Sim.Points points in
// flight.
type Simulation struct {
	World   *World
	Spawner *PointSpawner
	Walls   []kinematics.ID

	dt      float64
	limit   int
	spawned int
	retired int
}

// SimulationConfig returns the copy of cfg a Simulation runs on: layer
// filtering on and the chunk size raised to at least one tile, since walls
// are only found from neighboring chunks.
func SimulationConfig(cfg *config.Config) *config.Config {
	simCfg := *cfg
	simCfg.FilterLayers = true
	if simCfg.ChunkSize < simCfg.Sim.TileSize {
		simCfg.ChunkSize = simCfg.Sim.TileSize
	}
	return &simCfg
}

// NewSimulation builds the scenario from cfg.Sim on SimulationConfig(cfg)
func NewSimulation(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	simCfg := SimulationConfig(cfg)

	world, err := NewWorld(simCfg, opts...)
	if err != nil {
		return nil, err
	}

	r := simCfg.Sim.RingRadius
	walls, err := AddWalls(world, RingTiles(Tile{X: -r, Y: -r}, Tile{X: r, Y: r}), simCfg.Sim.TileSize)
	if err != nil {
		return nil, err
	}

	return &Simulation{
		World:   world,
		Spawner: NewPointSpawner(physics.Zero, simCfg.Sim.PointSpeed, simCfg.Sim.Seed),
		Walls:   walls,
		dt:      1 / float64(simCfg.Sim.TickRate),
		limit:   simCfg.Sim.Points,
	}, nil
}

// Tick spawns one point if below the limit, drives every point, steps the
// world and retires the points that reached a wall
func (s *Simulation) Tick(ctx context.Context) (StepResult, error) {
	if s.Spawner.Len() < s.limit {
		if _, err := s.Spawner.Spawn(s.World); err != nil {
			return StepResult{}, err
		}
		s.spawned++
	}
	s.Spawner.Drive(s.World, s.dt)

	result, err := s.World.Step(ctx)
	if err != nil {
		return result, err
	}
	s.retired += s.Spawner.Retire(s.World, result)
	return result, nil
}

// Stats returns how many points were spawned and retired so far
func (s *Simulation) Stats() (spawned, retired int) {
	return s.spawned, s.retired
}
