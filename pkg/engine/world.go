// pkg/engine/world.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/event"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/logging"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// Errors returned by World
var (
	ErrDuplicateID = errors.New("body id already exists")
	ErrUnknownBody = errors.New("unknown body")
)

// Recorder receives every step the world runs
type Recorder interface {
	Record(tick uint64, stepID string, bodies []kinematics.Body, resolutions []collision.Resolution) error
}

// StepResult summarizes one call to Step
type StepResult struct {
	Tick        uint64
	StepID      string
	Resolutions []collision.Resolution
	Committed   int
}

// Contacts returns the resolutions that were shortened by a contact
func (r StepResult) Contacts() []collision.Resolution {
	var contacts []collision.Resolution
	for _, res := range r.Resolutions {
		if res.Hit {
			contacts = append(contacts, res)
		}
	}
	return contacts
}

// World owns the bodies of a simulation and runs the collision pipeline on
// them once per step
type World struct {
	Config      *config.Config
	EventBus    *event.Bus
	CurrentTick uint64

	bodies   map[kinematics.ID]*kinematics.Body
	nextID   kinematics.ID
	lock     sync.RWMutex
	detector *collision.Detector
	logger   *logging.Logger
	recorder Recorder
}

// Option configures a World
type Option func(*World)

// WithLogger sets the world logger. It is also handed to the detector.
func WithLogger(logger *logging.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithRecorder records every step
func WithRecorder(recorder Recorder) Option {
	return func(w *World) {
		w.recorder = recorder
	}
}

// NewWorld creates an empty world with the specified configuration
func NewWorld(cfg *config.Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world config: %w", err)
	}

	w := &World{
		Config:   cfg,
		EventBus: event.NewEventBus(),
		bodies:   make(map[kinematics.ID]*kinematics.Body),
		nextID:   1,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.detector = collision.NewDetector(cfg,
		collision.WithLogger(w.logger),
		collision.WithEventBus(w.EventBus),
	)
	return w, nil
}

// Add inserts a body under its own ID
func (w *World) Add(b kinematics.Body) error {
	if err := kinematics.Validate(b); err != nil {
		return err
	}

	w.lock.Lock()
	if _, exists := w.bodies[b.ID]; exists {
		w.lock.Unlock()
		return fmt.Errorf("body %d: %w", b.ID, ErrDuplicateID)
	}
	body := b
	w.bodies[b.ID] = &body
	if b.ID >= w.nextID {
		w.nextID = b.ID + 1
	}
	w.lock.Unlock()

	w.EventBus.Publish(event.NewBodyEvent(event.BodyAdded, w, uint64(b.ID)))
	return nil
}

// Spawn assigns the next free ID to b, adds it and returns the ID
func (w *World) Spawn(b kinematics.Body) (kinematics.ID, error) {
	w.lock.Lock()
	b.ID = w.nextID
	w.nextID++
	w.lock.Unlock()

	if err := w.Add(b); err != nil {
		return 0, err
	}
	return b.ID, nil
}

// Remove deletes a body
func (w *World) Remove(id kinematics.ID) error {
	w.lock.Lock()
	if _, exists := w.bodies[id]; !exists {
		w.lock.Unlock()
		return fmt.Errorf("body %d: %w", id, ErrUnknownBody)
	}
	delete(w.bodies, id)
	w.lock.Unlock()

	w.EventBus.Publish(event.NewBodyEvent(event.BodyRemoved, w, uint64(id)))
	return nil
}

// Body returns a copy of a body
func (w *World) Body(id kinematics.ID) (kinematics.Body, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	b, ok := w.bodies[id]
	if !ok {
		return kinematics.Body{}, false
	}
	return *b, true
}

// Len returns the number of bodies
func (w *World) Len() int {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return len(w.bodies)
}

// SetMotion sets the displacement a body requests for the next step
func (w *World) SetMotion(id kinematics.ID, motion physics.Vector2D) error {
	if !motion.IsFinite() {
		return fmt.Errorf("body %d motion %v: %w", id, motion, kinematics.ErrNonFinite)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("body %d: %w", id, ErrUnknownBody)
	}
	b.Motion = motion
	return nil
}

// Translate implements collision.BodyStore
func (w *World) Translate(id kinematics.ID, delta physics.Vector2D) bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.translateLocked(id, delta)
}

func (w *World) translateLocked(id kinematics.ID, delta physics.Vector2D) bool {
	b, ok := w.bodies[id]
	if !ok {
		return false
	}
	b.Position = b.Position.Add(delta)
	b.Motion = physics.Zero
	return true
}

// Snapshot copies all bodies ordered by ID
func (w *World) Snapshot() []kinematics.Body {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.snapshotLocked()
}

func (w *World) snapshotLocked() []kinematics.Body {
	bodies := make([]kinematics.Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		bodies = append(bodies, *b)
	}
	sort.Slice(bodies, func(i, j int) bool {
		return bodies[i].ID < bodies[j].ID
	})
	return bodies
}

// lockedStore commits into a world whose lock is already held
type lockedStore struct {
	w *World
}

func (s lockedStore) Translate(id kinematics.ID, delta physics.Vector2D) bool {
	return s.w.translateLocked(id, delta)
}

// Step runs detection over a snapshot of all bodies, then commits the
// resolved motions. Contact and step events are published after the world
// lock is released, so handlers may call back into the world; bodies they
// add or remove take effect on the next step. A recorder error is returned
// together with the result: the step has already been committed and
// CurrentTick advanced.
func (w *World) Step(ctx context.Context) (StepResult, error) {
	ctx = logging.WithStepID(ctx, "")
	stepID := logging.GetStepID(ctx)

	w.lock.Lock()
	tick := w.CurrentTick
	snapshot := w.snapshotLocked()

	resolutions, err := w.detector.Detect(ctx, snapshot)
	if err != nil {
		w.lock.Unlock()
		return StepResult{}, logging.WrapError(err, "step %d", tick)
	}
	committed := collision.ApplyMotion(lockedStore{w: w}, resolutions)
	w.CurrentTick++
	w.lock.Unlock()

	result := StepResult{
		Tick:        tick,
		StepID:      stepID,
		Resolutions: resolutions,
		Committed:   committed,
	}

	w.detector.PublishContacts(ctx, resolutions)

	contacts := len(result.Contacts())
	w.logger.Debug(ctx, "step completed",
		"tick", tick,
		"bodies", len(snapshot),
		"moving", len(resolutions),
		"contacts", contacts,
	)
	w.EventBus.Publish(event.NewStepEvent(w, tick, stepID, len(snapshot), contacts, committed))

	if w.recorder != nil {
		if err := w.recorder.Record(tick, stepID, snapshot, resolutions); err != nil {
			w.logger.Error(ctx, "failed to record step", err, "tick", tick)
			return result, logging.WrapError(err, "record step %d", tick)
		}
	}

	return result, nil
}
