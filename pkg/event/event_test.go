// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
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

func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{"TickCompleted event", TickCompleted, "engine"},
		{"Touchdown event", Touchdown, 123},
		{"Empty source", SimulationStarted, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{EventType: tt.eventType, Source: tt.source}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}
			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	sub := bus.Subscribe(TickCompleted, func(e Event) {})

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}
	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}
	if sub.Type != TickCompleted {
		t.Errorf("subscription Type = %v, want %v", sub.Type, TickCompleted)
	}
	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}

	bus.mu.RLock()
	handlers := bus.handlers[TickCompleted]
	bus.mu.RUnlock()

	if len(handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(handlers))
	}
}

func TestBusPublish_WithSubscribers_CallsAllHandlersInOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string

	bus.Subscribe(Touchdown, func(e Event) { calls = append(calls, "first") })
	bus.Subscribe(Touchdown, func(e Event) { calls = append(calls, "second") })
	bus.Subscribe(FuelExhausted, func(e Event) { calls = append(calls, "other") })

	bus.Publish(&BaseEvent{EventType: Touchdown})

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("unexpected handler calls: %v", calls)
	}
}

func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(&BaseEvent{EventType: SimulationEnded})
}

func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	called := false

	sub := bus.Subscribe(InputRejected, func(e Event) { called = true })
	sub.Cancel()

	bus.mu.RLock()
	remaining := len(bus.handlers[InputRejected])
	bus.mu.RUnlock()

	if remaining != 0 {
		t.Errorf("expected 0 handlers after cancel, got %d", remaining)
	}

	bus.Publish(&BaseEvent{EventType: InputRejected})
	if called {
		t.Error("handler should not be called after cancellation")
	}

	// Cancelling twice is harmless.
	sub.Cancel()
}

func TestCancelSubscription_OnlyTargetRemoved(t *testing.T) {
	bus := NewEventBus()
	var first, second int

	sub := bus.Subscribe(TickCompleted, func(e Event) { first++ })
	bus.Subscribe(TickCompleted, func(e Event) { second++ })

	sub.Cancel()
	bus.Publish(&BaseEvent{EventType: TickCompleted})

	if first != 0 || second != 1 {
		t.Errorf("expected only the second handler to run, got first=%d second=%d", first, second)
	}
}

func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(TickCompleted, func(e Event) {})
			bus.Publish(&BaseEvent{EventType: TickCompleted})
			sub.Cancel()
		}()
	}
	wg.Wait()

	bus.mu.RLock()
	defer bus.mu.RUnlock()
	if len(bus.handlers[TickCompleted]) != 0 {
		t.Errorf("expected all handlers cancelled, got %d", len(bus.handlers[TickCompleted]))
	}
}

func TestNewTickEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	e := NewTickEvent(TickCompleted, "sim", 4, 50, 990.5, -3.1, 497, 4)

	if e.GetType() != TickCompleted {
		t.Errorf("GetType() = %v, want %v", e.GetType(), TickCompleted)
	}
	if e.Tick != 4 || e.Thrust != 50 || e.Altitude != 990.5 || e.Velocity != -3.1 || e.Fuel != 497 || e.Time != 4 {
		t.Errorf("unexpected tick event fields: %+v", e)
	}
}

func TestNewRejectionEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	e := NewRejectionEvent("console", 2, "not a number")

	if e.GetType() != InputRejected {
		t.Errorf("GetType() = %v, want %v", e.GetType(), InputRejected)
	}
	if e.Tick != 2 || e.Reason != "not a number" {
		t.Errorf("unexpected rejection event fields: %+v", e)
	}
}

func TestNewOutcomeEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	e := NewOutcomeEvent("sim", "touchdown", "successful", -4.2, 120)

	if e.GetType() != SimulationEnded {
		t.Errorf("GetType() = %v, want %v", e.GetType(), SimulationEnded)
	}
	if e.Termination != "touchdown" || e.Landing != "successful" || e.Velocity != -4.2 || e.Ticks != 120 {
		t.Errorf("unexpected outcome event fields: %+v", e)
	}
}

func TestEventTypes_Constants_AllDistinct(t *testing.T) {
	types := []Type{SimulationStarted, TickCompleted, InputRejected, FuelExhausted, Touchdown, SimulationEnded}
	seen := make(map[Type]bool)

	for _, typ := range types {
		if typ == "" {
			t.Error("event type should not be empty")
		}
		if seen[typ] {
			t.Errorf("duplicate event type %q", typ)
		}
		seen[typ] = true
	}
}
