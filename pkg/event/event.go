// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-sweep/pkg/physics"
)

// Type represents the type of event
type Type string

// Event types published by the collision pipeline and its hosts
const (
	ContactDetected Type = "contact_detected"
	StepCompleted   Type = "step_completed"
	BodyAdded       Type = "body_added"
	BodyRemoved     Type = "body_removed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler; calling
// it more than once is a no-op.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	var once sync.Once
	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			once.Do(func() { b.unsubscribe(eventType, id) })
		},
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			kept := make([]subscriber, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			kept = append(kept, subs[i+1:]...)
			if len(kept) == 0 {
				delete(b.handlers, eventType)
			} else {
				b.handlers[eventType] = kept
			}
			return
		}
	}
}

// HasSubscribers reports whether any handler listens for eventType
func (b *Bus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// ContactEvent reports the first contact selected for a moving body
type ContactEvent struct {
	BaseEvent
	BodyID   uint64
	OtherID  uint64
	Position physics.Vector2D
	Normal   physics.Normal
	T        float64
}

// NewContactEvent creates a new contact event
func NewContactEvent(source interface{}, bodyID, otherID uint64, c physics.Collision) *ContactEvent {
	return &ContactEvent{
		BaseEvent: BaseEvent{
			EventType: ContactDetected,
			Source:    source,
		},
		BodyID:   bodyID,
		OtherID:  otherID,
		Position: c.Position,
		Normal:   c.Normal,
		T:        c.T,
	}
}

// StepEvent summarizes one detection and resolution pass
type StepEvent struct {
	BaseEvent
	Tick      uint64
	StepID    string
	Bodies    int
	Contacts  int
	Committed int
}

// NewStepEvent creates a new step event
func NewStepEvent(source interface{}, tick uint64, stepID string, bodies, contacts, committed int) *StepEvent {
	return &StepEvent{
		BaseEvent: BaseEvent{
			EventType: StepCompleted,
			Source:    source,
		},
		Tick:      tick,
		StepID:    stepID,
		Bodies:    bodies,
		Contacts:  contacts,
		Committed: committed,
	}
}

// BodyEvent contains information about a body entering or leaving a world
type BodyEvent struct {
	BaseEvent
	BodyID uint64
}

// NewBodyEvent creates a new body event
func NewBodyEvent(eventType Type, source interface{}, bodyID uint64) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyID: bodyID,
	}
}
