// pkg/collision/resolve.go
package collision

import (
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

// BodyStore is the host-owned storage ApplyMotion commits into
type BodyStore interface {
	// Translate adds delta to the body's position and clears its pending
	// motion. It returns false when the body no longer exists.
	Translate(id kinematics.ID, delta physics.Vector2D) bool
}

// ApplyMotion commits each resolution to the store and returns how many
// bodies were moved. Identifiers the store no longer knows are skipped.
func ApplyMotion(store BodyStore, resolutions []Resolution) int {
	committed := 0
	for _, r := range resolutions {
		if store.Translate(r.ID, r.Motion) {
			committed++
		}
	}
	return committed
}

// SliceStore adapts a body slice to BodyStore. Lookups are linear.
type SliceStore []kinematics.Body

// Translate implements BodyStore
func (s SliceStore) Translate(id kinematics.ID, delta physics.Vector2D) bool {
	for i := range s {
		if s[i].ID == id {
			s[i].Position = s[i].Position.Add(delta)
			s[i].Motion = physics.Zero
			return true
		}
	}
	return false
}
