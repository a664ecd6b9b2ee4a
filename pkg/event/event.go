// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted Type = "simulation_started"
	TickCompleted     Type = "tick_completed"
	InputRejected     Type = "input_rejected"
	FuelExhausted     Type = "fuel_exhausted"
	Touchdown         Type = "touchdown"
	SimulationEnded   Type = "simulation_ended"
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

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Type:   eventType,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// Specific event implementations

// TickEvent describes one completed tick. Altitude, Velocity, Fuel and Time
// are copied from the lander after the step.
type TickEvent struct {
	BaseEvent
	Tick     int
	Thrust   float64
	Altitude float64
	Velocity float64
	Fuel     float64
	Time     float64
}

// NewTickEvent creates a new tick event
func NewTickEvent(eventType Type, source interface{}, tick int, thrust, altitude, velocity, fuel, simTime float64) *TickEvent {
	return &TickEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Tick:     tick,
		Thrust:   thrust,
		Altitude: altitude,
		Velocity: velocity,
		Fuel:     fuel,
		Time:     simTime,
	}
}

// RejectionEvent reports operator input that was refused without a tick.
type RejectionEvent struct {
	BaseEvent
	Tick   int
	Reason string
}

// NewRejectionEvent creates a new input rejection event
func NewRejectionEvent(source interface{}, tick int, reason string) *RejectionEvent {
	return &RejectionEvent{
		BaseEvent: BaseEvent{
			EventType: InputRejected,
			Source:    source,
		},
		Tick:   tick,
		Reason: reason,
	}
}

// OutcomeEvent reports how a run ended.
type OutcomeEvent struct {
	BaseEvent
	Termination string
	Landing     string
	Velocity    float64
	Ticks       int
}

// NewOutcomeEvent creates a new outcome event
func NewOutcomeEvent(source interface{}, termination, landing string, velocity float64, ticks int) *OutcomeEvent {
	return &OutcomeEvent{
		BaseEvent: BaseEvent{
			EventType: SimulationEnded,
			Source:    source,
		},
		Termination: termination,
		Landing:     landing,
		Velocity:    velocity,
		Ticks:       ticks,
	}
}
