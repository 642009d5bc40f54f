// pkg/render/engo/kinematic.go
package engo

import (
	"context"
	"sort"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/event"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/logging"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

type kinematicEntity struct {
	basic *ecs.BasicEntity
	body  *KinematicComponent
	space *common.SpaceComponent
}

// KinematicSystem runs detection and resolution once per frame over every
// entity added to it
type KinematicSystem struct {
	detector *collision.Detector
	logger   *logging.Logger
	bus      *event.Bus

	entities map[kinematics.ID]kinematicEntity
	last     []collision.Resolution
	frame    uint64
}

// NewKinematicSystem creates the system. bus may be nil.
func NewKinematicSystem(cfg *config.Config, logger *logging.Logger, bus *event.Bus) *KinematicSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	opts := []collision.Option{collision.WithLogger(logger)}
	if bus != nil {
		opts = append(opts, collision.WithEventBus(bus))
	}
	return &KinematicSystem{
		detector: collision.NewDetector(cfg, opts...),
		logger:   logger,
		bus:      bus,
		entities: make(map[kinematics.ID]kinematicEntity),
	}
}

// Add registers an entity. Entities whose shape is invalid are rejected
// with a warning.
func (s *KinematicSystem) Add(basic *ecs.BasicEntity, body *KinematicComponent, space *common.SpaceComponent) {
	id := kinematics.ID(basic.ID())
	if err := kinematics.Validate(s.body(id, body, space)); err != nil {
		s.logger.Warn(context.Background(), "rejecting kinematic entity", "entity", basic.ID(), "error", err.Error())
		return
	}
	s.entities[id] = kinematicEntity{basic: basic, body: body, space: space}
	if s.bus != nil {
		s.bus.Publish(event.NewBodyEvent(event.BodyAdded, s, basic.ID()))
	}
}

// Remove satisfies the ecs.System interface
func (s *KinematicSystem) Remove(basic ecs.BasicEntity) {
	id := kinematics.ID(basic.ID())
	if _, ok := s.entities[id]; !ok {
		return
	}
	delete(s.entities, id)
	if s.bus != nil {
		s.bus.Publish(event.NewBodyEvent(event.BodyRemoved, s, basic.ID()))
	}
}

// Priority runs kinematics after input and before drawing
func (s *KinematicSystem) Priority() int {
	return 10
}

func (s *KinematicSystem) body(id kinematics.ID, body *KinematicComponent, space *common.SpaceComponent) kinematics.Body {
	return kinematics.Body{
		ID:       id,
		Shape:    body.Shape,
		Position: CenterOf(space),
		Motion:   body.Motion,
		Layer:    body.Layer,
		Mask:     body.Mask,
	}
}

// Snapshot returns the entities as bodies ordered by entity ID
func (s *KinematicSystem) Snapshot() []kinematics.Body {
	bodies := make([]kinematics.Body, 0, len(s.entities))
	for id, e := range s.entities {
		bodies = append(bodies, s.body(id, e.body, e.space))
	}
	sort.Slice(bodies, func(i, j int) bool {
		return bodies[i].ID < bodies[j].ID
	})
	return bodies
}

// Update detects collisions for the requested motions and moves the
// entities by their resolved motion
func (s *KinematicSystem) Update(dt float32) {
	ctx := logging.WithStepID(context.Background(), "")

	res, err := s.detector.Detect(ctx, s.Snapshot())
	if err != nil {
		s.logger.Error(ctx, "collision detection failed", err, "frame", s.frame)
		return
	}
	collision.ApplyMotion(s, res)
	s.last = res
	s.detector.PublishContacts(ctx, res)

	if s.bus != nil {
		contacts := 0
		for _, r := range res {
			if r.Hit {
				contacts++
			}
		}
		s.bus.Publish(event.NewStepEvent(s, s.frame, logging.GetStepID(ctx), len(s.entities), contacts, len(res)))
	}
	s.frame++
}

// Translate implements collision.BodyStore on the entities' transforms
func (s *KinematicSystem) Translate(id kinematics.ID, delta physics.Vector2D) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}
	e.space.Position.X += float32(delta.X)
	e.space.Position.Y += float32(delta.Y)
	e.body.Motion = physics.Zero
	return true
}

// LastResolutions returns the results of the most recent Update
func (s *KinematicSystem) LastResolutions() []collision.Resolution {
	return s.last
}

// Len returns the number of registered entities
func (s *KinematicSystem) Len() int {
	return len(s.entities)
}

// Debug reports whether the detector was configured for debug output
func (s *KinematicSystem) Debug() bool {
	return s.detector.Config().Debug
}

// Space returns the transform of a registered entity
func (s *KinematicSystem) Space(id kinematics.ID) (*common.SpaceComponent, bool) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false
	}
	return e.space, true
}
