// Package pubsub provides a generic ordered callback registry. Each
// publication point is an ordered list of subscriber callbacks; subscribing
// returns a handle whose Unsubscribe removes the callback.
package pubsub

import (
	"sort"
	"sync"
)

// Handle is returned by Publisher.Subscribe. Calling Unsubscribe more than
// once is a no-op.
type Handle struct {
	unsubscribe func()
}

// Unsubscribe removes the associated callback from its publisher.
func (h Handle) Unsubscribe() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

// Publisher fans an event of type T out to subscribers, synchronously, in
// registration order. It is safe for concurrent use: subscribing,
// unsubscribing, and publishing may all happen from different goroutines.
type Publisher[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

// Subscribe registers cb to be called, in order, on every future Publish.
func (p *Publisher[T]) Subscribe(cb func(T)) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subs == nil {
		p.subs = make(map[int]func(T))
	}
	id := p.next
	p.next++
	p.subs[id] = cb
	return Handle{unsubscribe: func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}}
}

// Publish invokes every currently-subscribed callback synchronously, on
// the calling goroutine, in ascending order of subscription. It snapshots
// the subscriber list first so a callback that subscribes or unsubscribes
// during Publish cannot deadlock or skip/duplicate deliveries for this
// round.
func (p *Publisher[T]) Publish(event T) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	cbs := make([]func(T), 0, len(ids))
	for _, id := range ids {
		cbs = append(cbs, p.subs[id])
	}
	p.mu.Unlock()

	for _, cb := range cbs {
		cb(event)
	}
}
