package event

import (
	"sort"
	"sync"
)

// registry stores subscriptions keyed by topic pattern and by ID.
// It is safe for concurrent use.
type registry struct {
	mu   sync.RWMutex
	subs map[Topic][]*subscription
	byID map[string]*subscription
}

func newRegistry() *registry {
	return &registry{
		subs: make(map[Topic][]*subscription),
		byID: make(map[string]*subscription),
	}
}

// add inserts a subscription, keeping the pattern's list sorted by priority.
// If the subscription is configured with Replace, all existing subscriptions
// on the same exact pattern are cancelled and removed first.
func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pattern := sub.Pattern()

	if sub.Config().Replace {
		for _, old := range r.subs[pattern] {
			old.Cancel()
			delete(r.byID, old.ID())
		}
		delete(r.subs, pattern)
	}

	list := append(r.subs[pattern], sub)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Config().Priority < list[j].Config().Priority
	})
	r.subs[pattern] = list
	r.byID[sub.ID()] = sub
}

// remove deletes a subscription by ID. Returns false if it was not present.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[id]
	if !ok {
		return false
	}

	pattern := sub.Pattern()
	list := r.subs[pattern]
	for i, s := range list {
		if s.ID() == id {
			r.subs[pattern] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.subs[pattern]) == 0 {
		delete(r.subs, pattern)
	}
	delete(r.byID, id)
	return true
}

// matchActive returns active subscriptions whose pattern matches the topic,
// in priority order. Editor registries are small, so patterns are scanned
// linearly rather than indexed.
func (r *registry) matchActive(t Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*subscription
	for pattern, list := range r.subs {
		if !t.Matches(pattern) {
			continue
		}
		for _, sub := range list {
			if sub.IsActive() {
				matched = append(matched, sub)
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Config().Priority < matched[j].Config().Priority
	})
	return matched
}

// countActive returns the number of active subscriptions.
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

// countByPattern returns the number of subscriptions for an exact pattern.
func (r *registry) countByPattern(pattern Topic) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[pattern])
}

// clear removes all subscriptions.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.byID {
		sub.Cancel()
	}
	r.subs = make(map[Topic][]*subscription)
	r.byID = make(map[string]*subscription)
}
