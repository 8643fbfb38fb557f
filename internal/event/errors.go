package event

import "errors"

// Errors returned by bus operations.
var (
	// ErrBusClosed indicates the bus has been stopped.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrNilHandler indicates a subscription was attempted with a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidTopic indicates an empty or malformed topic.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidEvent indicates an event whose topic cannot be determined.
	ErrInvalidEvent = errors.New("event has no topic")

	// ErrSubscriptionNotFound indicates the subscription is not registered.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrQueueFull indicates the async queue rejected an event.
	ErrQueueFull = errors.New("async queue full")
)
