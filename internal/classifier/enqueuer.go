// Package classifier implements the ClassifierEnqueuer actor and its
// Google Cloud Pub/Sub adapter — the async hand-off to the content
// classifier living beyond the pub/sub topic.
package classifier

import (
	"context"
	"log"

	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/metrics"
	"github.com/keanuklestil/reportinator/internal/ports"
)

// Enqueuer is the ClassifierEnqueuer actor: it filters to event-typed
// report requests (pubkey reports bypass the classifier entirely) and
// publishes the rest, as JSON, through a PubsubPort.
type Enqueuer struct {
	pubsub ports.PubsubPort
	inbox  chan *domain.ReportRequest
}

// NewEnqueuer creates a ClassifierEnqueuer bound to the given PubsubPort.
func NewEnqueuer(pubsub ports.PubsubPort) *Enqueuer {
	return &Enqueuer{pubsub: pubsub, inbox: make(chan *domain.ReportRequest, 64)}
}

// EnqueueAdapter is the adapter a GiftUnwrapper's output port subscribes
// with: every unwrapped report request becomes an Enqueue request.
func (en *Enqueuer) EnqueueAdapter() func(*domain.ReportRequest) {
	return func(req *domain.ReportRequest) { en.Enqueue(req) }
}

// Enqueue submits req for classifier hand-off.
func (en *Enqueuer) Enqueue(req *domain.ReportRequest) {
	en.inbox <- req
}

// Run is the actor's message loop.
func (en *Enqueuer) Run(ctx context.Context) error {
	for {
		select {
		case req := <-en.inbox:
			en.handle(ctx, req)
		case <-ctx.Done():
			return nil
		}
	}
}

func (en *Enqueuer) handle(ctx context.Context, req *domain.ReportRequest) {
	if req.Target.IsPubkey() {
		return
	}

	if err := en.pubsub.PublishReport(ctx, req); err != nil {
		metrics.EventsEnqueuedError.Inc()
		log.Printf("[Enqueue] failed to publish report: %v", err)
		return
	}
	metrics.EventsEnqueued.Inc()
}
