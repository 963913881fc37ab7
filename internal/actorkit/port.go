// Package actorkit provides the small substrate the pipeline's actors are
// built on: a typed broadcast output port with per-subscriber adapters, and
// a supervised-run helper. It generalizes the single-threaded
// channel-select loop used elsewhere in this codebase (dashboard.Hub.Run)
// to any actor in the pipeline, with each output port fanning out to
// per-subscriber adapters that convert and forward into the destination
// actor's own inbox.
package actorkit

import (
	"log"
	"sync"
)

// portBacklog is the bounded per-subscriber buffer size. A full buffer
// drops the oldest queued message rather than blocking the publisher —
// acceptable here because the classifier pipeline is idempotent and
// upstream traffic is low.
const portBacklog = 10

// Adapter receives a published message and decides what, if anything, to
// do with it — typically converting it into the destination actor's own
// message type and sending it on that actor's inbox.
type Adapter[T any] func(T)

type subscription[T any] struct {
	queue chan T
	adapt Adapter[T]
}

// OutputPort is a typed broadcast channel. Actors publish their output
// element type; other actors subscribe with an Adapter that converts and
// forwards into their own inbox. Delivery to each subscriber happens on its
// own goroutine, so one slow subscriber never blocks another.
type OutputPort[T any] struct {
	name string
	mu   sync.Mutex
	subs []*subscription[T]
}

// NewOutputPort creates an output port. name is used only in the drop
// warning log line.
func NewOutputPort[T any](name string) *OutputPort[T] {
	return &OutputPort[T]{name: name}
}

// Subscribe registers adapt to receive every future published message, in
// publish order, on its own delivery goroutine.
func (p *OutputPort[T]) Subscribe(adapt Adapter[T]) {
	sub := &subscription[T]{queue: make(chan T, portBacklog), adapt: adapt}
	p.mu.Lock()
	p.subs = append(p.subs, sub)
	p.mu.Unlock()

	go func() {
		for msg := range sub.queue {
			sub.adapt(msg)
		}
	}()
}

// Publish fans msg out to every subscriber. Within one call, subscribers
// observe messages in the order Publish was called; across ports, no
// ordering is guaranteed.
func (p *OutputPort[T]) Publish(msg T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sub := range p.subs {
		select {
		case sub.queue <- msg:
		default:
			select {
			case <-sub.queue:
			default:
			}
			select {
			case sub.queue <- msg:
			default:
				log.Printf("[%s] output port full, dropped message", p.name)
			}
		}
	}
}
