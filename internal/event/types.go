package event

import "context"

// Topic names an event stream. Subscriptions match on exact topic, or on
// TopicAll to receive everything.
type Topic string

const (
	// TopicAll matches every published event.
	TopicAll Topic = "*"

	// TopicEditApplied carries EditApplied events.
	TopicEditApplied Topic = "buffer.edit"

	// TopicPristineChanged carries PristineChanged events.
	TopicPristineChanged Topic = "buffer.pristine"

	// TopicConfigChanged carries ConfigChanged events.
	TopicConfigChanged Topic = "config.changed"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers that must observe changes first.
	PriorityCritical Priority = 0

	// PriorityHigh is for syntax and tooling handlers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for metrics and logging handlers that run last.
	PriorityLow Priority = 300
)

// DeliveryMode specifies how events are delivered to handlers.
type DeliveryMode int

const (
	// DeliverySync executes the handler synchronously in the publisher's
	// goroutine. Use for critical paths where ordering matters.
	DeliverySync DeliveryMode = iota

	// DeliveryAsync queues the event for delivery on a worker goroutine.
	DeliveryAsync
)

// String returns a human-readable delivery mode name.
func (m DeliveryMode) String() string {
	switch m {
	case DeliverySync:
		return "sync"
	case DeliveryAsync:
		return "async"
	default:
		return "unknown"
	}
}

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// FilterFunc is a predicate applied before delivering an event to a
// subscription.
type FilterFunc func(event any) bool

// TopicProvider is implemented by events that know their topic.
type TopicProvider interface {
	EventTopic() Topic
}

// Stats reports bus activity counters.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	EventsDropped     uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
	QueueDepth        int
}
