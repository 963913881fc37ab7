// Package giftwrap implements the NIP-17/59 gift-wrap protocol handler:
// decrypting the three-layer onion (gift-wrap -> seal -> rumor) into a
// ReportRequest, and — for the test utility only — the inverse construction.
package giftwrap

import (
	"context"
	"encoding/json"
	"log"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/keyer"
	"github.com/nbd-wtf/go-nostr/nip59"

	"github.com/keanuklestil/reportinator/internal/actorkit"
	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/metrics"
)

// Unwrapper is the GiftUnwrapper actor. It consumes gift-wrapped events
// (fed in directly, or via an adapter subscribed to a RelayDispatcher's
// output port), decrypts them with the service key, validates the inner
// payload, and emits ReportRequest on its output port.
type Unwrapper struct {
	signer nostr.Keyer
	inbox  chan *domain.NetworkEvent
	out    *actorkit.OutputPort[*domain.ReportRequest]
}

// NewUnwrapper creates a GiftUnwrapper bound to the service's secret key.
func NewUnwrapper(serviceSecretKey string) *Unwrapper {
	return &Unwrapper{
		signer: keyer.NewPlainKeySigner(serviceSecretKey),
		inbox:  make(chan *domain.NetworkEvent, 64),
		out:    actorkit.NewOutputPort[*domain.ReportRequest]("GiftUnwrapper"),
	}
}

// SubscribeToUnwrapped registers an adapter to receive every successfully
// unwrapped report request.
func (u *Unwrapper) SubscribeToUnwrapped(adapt actorkit.Adapter[*domain.ReportRequest]) {
	u.out.Subscribe(adapt)
}

// ReceiveAdapter is the adapter a RelayDispatcher's output port subscribes
// with: every received network event becomes an Unwrap request.
func (u *Unwrapper) ReceiveAdapter() actorkit.Adapter[*domain.NetworkEvent] {
	return func(e *domain.NetworkEvent) { u.Unwrap(e) }
}

// Unwrap enqueues e for unwrapping.
func (u *Unwrapper) Unwrap(e *domain.NetworkEvent) {
	u.inbox <- e
}

// Run is the actor's message loop.
func (u *Unwrapper) Run(ctx context.Context) error {
	for {
		select {
		case e := <-u.inbox:
			u.handle(ctx, e)
		case <-ctx.Done():
			return nil
		}
	}
}

// handle decrypts and validates the gift-wrap onion. Any failure is logged, counted, and
// discarded — a malformed inbound message must never wedge the pipeline.
func (u *Unwrapper) handle(ctx context.Context, e *domain.NetworkEvent) {
	if e.Kind != domain.KindGiftWrap {
		log.Printf("[GiftUnwrap] ignoring event %s of kind %d: not a gift wrap", e.ID, e.Kind)
		metrics.EventReceivedError.Inc()
		return
	}

	rumorEvent, err := nip59.GiftUnwrap(*e, func(otherPubkey, ciphertext string) (string, error) {
		return u.signer.Decrypt(ctx, ciphertext, otherPubkey)
	})
	if err != nil {
		log.Printf("[GiftUnwrap] failed to unwrap event %s: %v", e.ID, err)
		metrics.EventReceivedError.Inc()
		return
	}

	var rumor domain.ReportRequestRumor
	if err := json.Unmarshal([]byte(rumorEvent.Content), &rumor); err != nil {
		log.Printf("[GiftUnwrap] malformed rumor content in event %s: %v", e.ID, err)
		metrics.EventReceivedError.Inc()
		return
	}

	req, err := domain.NewReportRequest(rumor, rumorEvent.PubKey)
	if err != nil {
		log.Printf("[GiftUnwrap] rejected report in event %s: %v", e.ID, err)
		metrics.EventReceivedError.Inc()
		return
	}

	u.out.Publish(req)
}
