// Package event provides the in-process publish/subscribe bus that
// carries document notifications.
//
// The engine publishes an EditApplied event after every committed
// revision, including undo and redo, so consumers such as highlighters
// or sync layers observe every change in order. Subscriptions are keyed
// by topic and delivered synchronously in priority order, or
// asynchronously through a bounded worker queue.
//
// Basic usage:
//
//	bus := event.NewBus()
//	defer bus.Close()
//
//	sub, _ := bus.SubscribeFunc(event.TopicEditApplied,
//	    func(ctx context.Context, ev any) error {
//	        applied := ev.(event.EditApplied)
//	        fmt.Println("rev", applied.Rev)
//	        return nil
//	    })
//	defer bus.Unsubscribe(sub)
//
// Handler panics are isolated: a panicking subscriber is counted in
// Stats and reported to the configured PanicHandler, and never unwinds
// into the publisher.
package event
