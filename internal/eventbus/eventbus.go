// Package eventbus provides the in-process fan-out bus carrying
// validation and scheduling events to observers such as metrics sinks
// and the MQTT notifier.
package eventbus

// Event represents an arbitrary event passed on the bus.
type Event interface{}

// EventBus implements a simple publish/subscribe event bus.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// subscriberBuffer bounds each subscriber channel; slow subscribers drop
// events rather than stalling a scheduling run.
const subscriberBuffer = 16

// Bus is the default EventBus implementation carrying untyped events.
type Bus = TypedBus[Event]

// New creates a new Bus.
func New() *Bus { return NewTyped[Event]() }
