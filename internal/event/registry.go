package event

import (
	"sort"
	"sync"
)

// registry holds subscriptions indexed by ID and by topic. All methods
// are safe for concurrent use.
type registry struct {
	mu      sync.RWMutex
	byID    map[string]*subscription
	byTopic map[Topic][]*subscription
}

func newRegistry() *registry {
	return &registry{
		byID:    make(map[string]*subscription),
		byTopic: make(map[Topic][]*subscription),
	}
}

func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[sub.id] = sub
	r.byTopic[sub.topic] = append(r.byTopic[sub.topic], sub)
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)

	subs := r.byTopic[sub.topic]
	for i, s := range subs {
		if s.id == id {
			r.byTopic[sub.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.byTopic[sub.topic]) == 0 {
		delete(r.byTopic, sub.topic)
	}
	return true
}

// match returns the active subscriptions for a topic, including TopicAll
// subscribers, ordered by priority.
func (r *registry) match(t Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*subscription
	for _, sub := range r.byTopic[t] {
		if sub.IsActive() {
			out = append(out, sub)
		}
	}
	if t != TopicAll {
		for _, sub := range r.byTopic[TopicAll] {
			if sub.IsActive() {
				out = append(out, sub)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].config.Priority < out[j].config.Priority
	})
	return out
}

func (r *registry) countActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			n++
		}
	}
	return n
}
