// Package collision runs the per-step swept collision pipeline: a broad
// phase over a chunk map, narrow-phase tests between neighbors, and the
// selection of each moving body's earliest contact.
package collision

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/event"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/logging"
	"github.com/opd-ai/go-sweep/pkg/physics"
	"github.com/opd-ai/go-sweep/pkg/spatial"
)

// Resolution is the motion a body is allowed to take this step
type Resolution struct {
	ID kinematics.ID
	// Motion is the requested displacement clipped at the first contact
	Motion physics.Vector2D
	// Hit reports whether a contact shortened the motion
	Hit bool
	// Other is the body struck first; only meaningful when Hit is set
	Other     kinematics.ID
	Collision physics.Collision
}

// Detector finds the earliest contact of every moving body in a snapshot.
// It keeps no state between calls and may be shared between goroutines.
type Detector struct {
	cfg    config.Config
	logger *logging.Logger
	bus    *event.Bus

	// indexes recycles chunk maps between calls
	indexes sync.Pool
}

// Option configures a Detector
type Option func(*Detector)

// WithLogger sets the logger used for skipped pairs and debug output
func WithLogger(logger *logging.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithEventBus sets the bus PublishContacts sends ContactDetected events to
func WithEventBus(bus *event.Bus) Option {
	return func(d *Detector) {
		d.bus = bus
	}
}

// NewDetector creates a detector for the given configuration. The
// configuration is copied.
func NewDetector(cfg *config.Config, opts ...Option) *Detector {
	d := &Detector{
		cfg:    *cfg,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the configuration the detector was built with
func (d *Detector) Config() config.Config {
	return d.cfg
}

// skippedPair is a candidate pair dropped because both members move in a
// combination the narrow phase cannot solve
type skippedPair struct {
	a, b kinematics.ID
}

// Detect returns one Resolution per moving body, in snapshot order. The
// snapshot is only read. The only error is an invalid chunk size.
func (d *Detector) Detect(ctx context.Context, bodies []kinematics.Body) ([]Resolution, error) {
	if err := d.cfg.ValidateChunkSize(); err != nil {
		return nil, fmt.Errorf("detect collisions: %w", err)
	}

	index := d.acquireIndex(len(bodies))
	defer d.releaseIndex(index)

	moving := make([]int, 0, len(bodies))
	for i := range bodies {
		index.Insert(bodies[i].Position, i)
		if bodies[i].IsMoving() {
			moving = append(moving, i)
		}
	}

	results := make([]Resolution, len(moving))
	skipped := make([][]skippedPair, len(moving))

	search := func(slot int) {
		results[slot], skipped[slot] = d.nearest(bodies, index, moving[slot])
	}

	workers := d.cfg.Workers
	if workers <= 1 || len(moving) < 2*workers {
		for slot := range moving {
			search(slot)
		}
	} else {
		batch := (len(moving) + workers - 1) / workers
		var wg sync.WaitGroup
		for start := 0; start < len(moving); start += batch {
			end := min(start+batch, len(moving))
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				for slot := start; slot < end; slot++ {
					search(slot)
				}
			}(start, end)
		}
		wg.Wait()
	}

	d.reportSkipped(ctx, skipped)

	return results, nil
}

func (d *Detector) acquireIndex(capacity int) *spatial.ChunkMap[int] {
	if index, ok := d.indexes.Get().(*spatial.ChunkMap[int]); ok {
		return index
	}
	return spatial.NewChunkMap[int](capacity, d.cfg.ChunkSize)
}

func (d *Detector) releaseIndex(index *spatial.ChunkMap[int]) {
	index.Clear()
	d.indexes.Put(index)
}

// nearest searches the 3x3 chunk neighborhood of one moving body for the
// contact with the shortest resolved motion.
func (d *Detector) nearest(bodies []kinematics.Body, index *spatial.ChunkMap[int], i int) (Resolution, []skippedPair) {
	b := &bodies[i]
	best := Resolution{ID: b.ID, Motion: b.Motion}
	bestLength := b.Motion.Length()
	var skipped []skippedPair

	index.ForEachInNeighborhood(index.ChunkOf(b.Position), func(_ spatial.ChunkID, j int) {
		if j == i {
			return
		}
		o := &bodies[j]
		if d.cfg.FilterLayers && !b.CanCollideWith(o) {
			return
		}

		c, ok, supported := Test(b, o)
		if !supported {
			skipped = append(skipped, skippedPair{a: b.ID, b: o.ID})
			return
		}
		if !ok {
			return
		}

		if length := c.ResolvedMotion.Length(); length < bestLength {
			bestLength = length
			best.Motion = c.ResolvedMotion
			best.Hit = true
			best.Other = o.ID
			best.Collision = c
		}
	})

	return best, skipped
}

// reportSkipped logs each unsupported pair once, in a stable order
func (d *Detector) reportSkipped(ctx context.Context, skipped [][]skippedPair) {
	seen := make(map[skippedPair]bool)
	var pairs []skippedPair
	for _, list := range skipped {
		for _, p := range list {
			if p.a > p.b {
				p.a, p.b = p.b, p.a
			}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	for _, p := range pairs {
		d.logger.Warn(ctx, "skipping pair with two movers",
			"body_a", uint64(p.a),
			"body_b", uint64(p.b),
		)
	}
}

// PublishContacts sends one ContactDetected event per contact in results
// and logs it at debug level. It does nothing unless the configuration has
// Debug set. Handlers run synchronously, so hosts call it once they no
// longer hold locks a handler may need.
func (d *Detector) PublishContacts(ctx context.Context, results []Resolution) {
	if !d.cfg.Debug {
		return
	}

	for _, r := range results {
		if !r.Hit {
			continue
		}
		if d.bus != nil {
			d.bus.Publish(event.NewContactEvent(d, uint64(r.ID), uint64(r.Other), r.Collision))
		}
		d.logger.Debug(ctx, "contact",
			"body", uint64(r.ID),
			"other", uint64(r.Other),
			"x", r.Collision.Position.X,
			"y", r.Collision.Position.Y,
			"t", r.Collision.T,
		)
	}
}
