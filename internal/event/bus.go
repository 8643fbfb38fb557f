package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Bus is an in-process publish/subscribe bus. Synchronous subscribers
// run in the publisher's goroutine in priority order; asynchronous
// subscribers are served by a worker pool. Handler panics are isolated
// and counted, never propagated to the publisher.
type Bus struct {
	registry *registry
	config   busConfig

	queue   chan asyncDelivery
	wg      sync.WaitGroup
	closed  atomic.Bool
	started atomic.Bool

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	eventsDropped   atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

type asyncDelivery struct {
	event any
	sub   *subscription
}

// NewBus creates a bus and starts its async workers.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b := &Bus{
		registry: newRegistry(),
		config:   config,
		queue:    make(chan asyncDelivery, config.queueSize),
	}
	b.start()
	return b
}

func (b *Bus) start() {
	if !b.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < b.config.workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
}

func (b *Bus) worker() {
	defer b.wg.Done()
	for d := range b.queue {
		b.deliver(context.Background(), d.event, d.sub)
	}
}

// Close stops the async workers after draining the queue. Publishing
// after Close returns ErrBusClosed.
func (b *Bus) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	close(b.queue)
	b.wg.Wait()
}

// Publish delivers an event to all matching subscriptions. The event
// must implement TopicProvider. Sync subscribers complete before Publish
// returns; async subscribers are queued.
func (b *Bus) Publish(ctx context.Context, event any) error {
	if b.closed.Load() {
		return ErrBusClosed
	}

	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	subs := b.registry.match(tp.EventTopic())
	if len(subs) == 0 {
		return nil
	}
	b.eventsPublished.Add(1)

	for _, sub := range subs {
		if !sub.shouldDeliver(event) {
			continue
		}
		switch sub.config.DeliveryMode {
		case DeliverySync:
			b.deliver(ctx, event, sub)
		case DeliveryAsync:
			select {
			case b.queue <- asyncDelivery{event: event, sub: sub}:
			default:
				b.eventsDropped.Add(1)
			}
		}
	}
	return nil
}

// deliver runs one handler with panic isolation and maintains counters
// and one-shot cancellation.
func (b *Bus) deliver(ctx context.Context, event any, sub *subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, r)
			}
		}
	}()

	if err := sub.handler.Handle(ctx, event); err != nil {
		b.handlerErrors.Add(1)
		return
	}
	b.eventsDelivered.Add(1)

	if sub.config.Once {
		sub.Cancel()
		b.registry.remove(sub.id)
	}
}

// Subscribe registers a handler for a topic. The returned subscription
// carries a unique ID and can be paused, resumed, or cancelled.
func (b *Bus) Subscribe(t Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if t == "" {
		return nil, ErrInvalidTopic
	}
	sub := newSubscription(uuid.NewString(), t, handler, opts...)
	b.registry.add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function.
func (b *Bus) SubscribeFunc(t Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(t, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	if !b.registry.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		EventsDropped:     b.eventsDropped.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.countActive(),
		QueueDepth:        len(b.queue),
	}
}
