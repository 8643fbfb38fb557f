package event

import "sync/atomic"

// Subscription represents an active event subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic.
	Topic() Topic

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Pause temporarily stops event delivery to this subscription.
	Pause()

	// Resume restarts event delivery after a pause.
	Resume()

	// Cancel permanently cancels the subscription.
	Cancel()
}

const (
	subActive int32 = iota
	subPaused
	subCancelled
)

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// DeliveryMode specifies sync or async delivery.
	DeliveryMode DeliveryMode

	// Filter is an optional predicate; events are only delivered when it
	// returns true.
	Filter FilterFunc

	// Once auto-cancels the subscription after the first delivery.
	Once bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithDeliveryMode sets the delivery mode.
func WithDeliveryMode(m DeliveryMode) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.DeliveryMode = m
	}
}

// WithFilter sets a filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce sets the subscription to auto-cancel after the first event.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

type subscription struct {
	id      string
	topic   Topic
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32
}

func newSubscription(id string, t Topic, h Handler, opts ...SubscriptionOption) *subscription {
	config := SubscriptionConfig{
		Priority:     PriorityNormal,
		DeliveryMode: DeliverySync,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &subscription{id: id, topic: t, handler: h, config: config}
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Topic() Topic   { return s.topic }
func (s *subscription) IsActive() bool { return s.state.Load() == subActive }

func (s *subscription) Pause() {
	s.state.CompareAndSwap(subActive, subPaused)
}

func (s *subscription) Resume() {
	s.state.CompareAndSwap(subPaused, subActive)
}

func (s *subscription) Cancel() {
	s.state.Store(subCancelled)
}

// shouldDeliver reports whether the event passes state and filter checks.
func (s *subscription) shouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	return true
}
