// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/go-sweep/pkg/physics"
)

// TestNewEventBus tests the creation of a new event bus
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}

	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}

	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

// TestBaseEvent tests the BaseEvent functionality
func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{
			name:      "ContactDetected event",
			eventType: ContactDetected,
			source:    "test_source",
		},
		{
			name:      "StepCompleted event",
			eventType: StepCompleted,
			source:    123,
		},
		{
			name:      "Empty source",
			eventType: BodyAdded,
			source:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{
				EventType: tt.eventType,
				Source:    tt.source,
			}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

// TestBusSubscribe tests event subscription functionality
func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	handler := func(e Event) {
		// Handler for testing subscription
	}

	sub := bus.Subscribe(ContactDetected, handler)

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}

	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}

	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}

	// Verify handler was registered
	bus.mu.RLock()
	handlers := bus.handlers[ContactDetected]
	bus.mu.RUnlock()

	if len(handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(handlers))
	}
}

// TestBusSubscribe_MultipleHandlers tests multiple subscriptions
func TestBusSubscribe_MultipleHandlers_AllRegistered(t *testing.T) {
	bus := NewEventBus()
	var callCount int

	handler1 := func(e Event) { callCount++ }
	handler2 := func(e Event) { callCount++ }
	handler3 := func(e Event) { callCount++ }

	sub1 := bus.Subscribe(ContactDetected, handler1)
	sub2 := bus.Subscribe(ContactDetected, handler2)
	_ = bus.Subscribe(StepCompleted, handler3)

	// Check unique IDs
	if sub1.ID == sub2.ID {
		t.Error("subscriptions should have unique IDs")
	}

	// Check handlers count
	bus.mu.RLock()
	contactHandlers := bus.handlers[ContactDetected]
	stepHandlers := bus.handlers[StepCompleted]
	bus.mu.RUnlock()

	if len(contactHandlers) != 2 {
		t.Errorf("expected 2 handlers for ContactDetected, got %d", len(contactHandlers))
	}

	if len(stepHandlers) != 1 {
		t.Errorf("expected 1 handler for StepCompleted, got %d", len(stepHandlers))
	}
}

// TestBusPublish tests event publishing functionality
func TestBusPublish_WithSubscribers_CallsAllHandlers(t *testing.T) {
	bus := NewEventBus()
	var callCount int
	var receivedEvents []Event

	handler1 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	handler2 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	bus.Subscribe(ContactDetected, handler1)
	bus.Subscribe(ContactDetected, handler2)

	event := &BaseEvent{
		EventType: ContactDetected,
		Source:    "test",
	}

	bus.Publish(event)

	if callCount != 2 {
		t.Errorf("expected 2 handler calls, got %d", callCount)
	}

	if len(receivedEvents) != 2 {
		t.Errorf("expected 2 received events, got %d", len(receivedEvents))
	}

	for _, e := range receivedEvents {
		if e.GetType() != ContactDetected {
			t.Errorf("expected event type %v, got %v", ContactDetected, e.GetType())
		}
	}
}

// TestBusPublish_NoSubscribers tests publishing without subscribers
func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()

	event := &BaseEvent{
		EventType: ContactDetected,
		Source:    "test",
	}

	// Should not panic or error
	bus.Publish(event)
}

// TestBusPublish_WrongEventType tests publishing to non-subscribed event type
func TestBusPublish_WrongEventType_HandlersNotCalled(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	bus.Subscribe(ContactDetected, handler)

	event := &BaseEvent{
		EventType: StepCompleted,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not have been called for different event type")
	}
}

// TestSubscriptionCancel tests canceling subscriptions
func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	sub := bus.Subscribe(ContactDetected, handler)

	// Verify handler is registered
	bus.mu.RLock()
	handlersBefore := len(bus.handlers[ContactDetected])
	bus.mu.RUnlock()

	if handlersBefore != 1 {
		t.Errorf("expected 1 handler before cancel, got %d", handlersBefore)
	}

	// Cancel subscription
	sub.Cancel()

	// Verify handler is removed
	bus.mu.RLock()
	handlersAfter := len(bus.handlers[ContactDetected])
	bus.mu.RUnlock()

	if handlersAfter != 0 {
		t.Errorf("expected 0 handlers after cancel, got %d", handlersAfter)
	}

	// Verify handler is not called after cancellation
	event := &BaseEvent{
		EventType: ContactDetected,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not be called after cancellation")
	}
}

// TestConcurrentAccess tests thread safety
func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	handlerCount := 0
	var mu sync.Mutex

	handler := func(e Event) {
		mu.Lock()
		handlerCount++
		mu.Unlock()
	}

	// Start multiple goroutines to subscribe concurrently
	numGoroutines := 10
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(ContactDetected, handler)
		}()
	}

	wg.Wait()

	// Verify all subscriptions were registered
	bus.mu.RLock()
	handlers := bus.handlers[ContactDetected]
	bus.mu.RUnlock()

	if len(handlers) != numGoroutines {
		t.Errorf("expected %d handlers, got %d", numGoroutines, len(handlers))
	}

	// Test concurrent publishing
	event := &BaseEvent{
		EventType: ContactDetected,
		Source:    "test",
	}

	// Publish concurrently
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(event)
		}()
	}

	wg.Wait()

	// Give handlers time to execute
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	expectedCalls := numGoroutines * 3
	if handlerCount != expectedCalls {
		t.Errorf("expected %d handler calls, got %d", expectedCalls, handlerCount)
	}
	mu.Unlock()
}

// TestNewContactEvent tests contact event creation
func TestNewContactEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	tests := []struct {
		name      string
		source    interface{}
		bodyID    uint64
		otherID   uint64
		collision physics.Collision
	}{
		{
			name:    "Box face contact",
			source:  "detector",
			bodyID:  7,
			otherID: 9,
			collision: physics.Collision{
				Position: physics.Vector2D{X: 10, Y: 4},
				Normal:   physics.NormalNegX,
				T:        0.25,
			},
		},
		{
			name:    "Point contact without normal",
			source:  nil,
			bodyID:  1,
			otherID: 2,
			collision: physics.Collision{
				Position: physics.Vector2D{X: 1, Y: 1},
				T:        1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewContactEvent(tt.source, tt.bodyID, tt.otherID, tt.collision)

			if event.GetType() != ContactDetected {
				t.Errorf("GetType() = %v, want %v", event.GetType(), ContactDetected)
			}
			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
			if event.BodyID != tt.bodyID || event.OtherID != tt.otherID {
				t.Errorf("ids = (%d, %d), want (%d, %d)", event.BodyID, event.OtherID, tt.bodyID, tt.otherID)
			}
			if event.Position != tt.collision.Position {
				t.Errorf("Position = %v, want %v", event.Position, tt.collision.Position)
			}
			if event.Normal != tt.collision.Normal {
				t.Errorf("Normal = %v, want %v", event.Normal, tt.collision.Normal)
			}
			if event.T != tt.collision.T {
				t.Errorf("T = %v, want %v", event.T, tt.collision.T)
			}
		})
	}
}

// TestNewStepEvent tests step summary event creation
func TestNewStepEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewStepEvent("world", 42, "step-id", 100, 3, 2)

	if event.GetType() != StepCompleted {
		t.Errorf("GetType() = %v, want %v", event.GetType(), StepCompleted)
	}
	if event.Tick != 42 {
		t.Errorf("Tick = %d, want 42", event.Tick)
	}
	if event.StepID != "step-id" {
		t.Errorf("StepID = %q, want %q", event.StepID, "step-id")
	}
	if event.Bodies != 100 || event.Contacts != 3 || event.Committed != 2 {
		t.Errorf("counts = (%d, %d, %d), want (100, 3, 2)", event.Bodies, event.Contacts, event.Committed)
	}
}

// TestNewBodyEvent tests body lifecycle event creation
func TestNewBodyEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	for _, eventType := range []Type{BodyAdded, BodyRemoved} {
		t.Run(string(eventType), func(t *testing.T) {
			event := NewBodyEvent(eventType, "world", 5)
			if event.GetType() != eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), eventType)
			}
			if event.BodyID != 5 {
				t.Errorf("BodyID = %d, want 5", event.BodyID)
			}
		})
	}
}

// TestEventTypes tests that all event type constants are properly defined
func TestEventTypes_Constants_AllDefined(t *testing.T) {
	expectedTypes := []Type{
		ContactDetected,
		StepCompleted,
		BodyAdded,
		BodyRemoved,
	}

	seen := make(map[Type]bool)
	for _, eventType := range expectedTypes {
		if string(eventType) == "" {
			t.Errorf("event type %v is empty", eventType)
		}
		if seen[eventType] {
			t.Errorf("event type %v is duplicated", eventType)
		}
		seen[eventType] = true
	}
}

// TestHasSubscribers tests subscriber lookup before and after cancellation
func TestHasSubscribers_AfterCancel_ReturnsFalse(t *testing.T) {
	bus := NewEventBus()
	if bus.HasSubscribers(ContactDetected) {
		t.Error("new bus should have no subscribers")
	}

	sub := bus.Subscribe(ContactDetected, func(Event) {})
	if !bus.HasSubscribers(ContactDetected) {
		t.Error("expected a subscriber after Subscribe")
	}

	sub.Cancel()
	sub.Cancel()
	if bus.HasSubscribers(ContactDetected) {
		t.Error("expected no subscribers after Cancel")
	}
}

// TestCancelMultipleSubscriptions tests canceling multiple subscriptions
func TestCancelMultipleSubscriptions_DifferentTypes_OnlyTargetRemoved(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false
	handler3Called := false

	handler1 := func(e Event) { handler1Called = true }
	handler2 := func(e Event) { handler2Called = true }
	handler3 := func(e Event) { handler3Called = true }

	sub1 := bus.Subscribe(ContactDetected, handler1)
	_ = bus.Subscribe(ContactDetected, handler2)
	_ = bus.Subscribe(StepCompleted, handler3)

	// Cancel only the first subscription
	sub1.Cancel()

	// Publish ContactDetected event
	contactEvent := &BaseEvent{EventType: ContactDetected, Source: "test"}
	bus.Publish(contactEvent)

	// Publish StepCompleted event
	stepEvent := &BaseEvent{EventType: StepCompleted, Source: "test"}
	bus.Publish(stepEvent)

	if handler1Called {
		t.Error("handler1 should not be called after cancellation")
	}

	if !handler2Called {
		t.Error("handler2 should be called")
	}

	if !handler3Called {
		t.Error("handler3 should be called")
	}
}
