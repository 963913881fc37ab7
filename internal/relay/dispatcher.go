package relay

import (
	"context"
	"log"
	"time"

	"github.com/keanuklestil/reportinator/internal/actorkit"
	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/metrics"
	"github.com/keanuklestil/reportinator/internal/ports"
)

// reconnectDelay is the fixed delay before the dispatcher re-subscribes
// after its subscription worker exits unexpectedly. Exponential backoff is
// out of scope for this version; a fixed delay is sufficient.
const reconnectDelay = 10 * time.Second

// nameReply carries a GetName RPC's result back to its caller.
type nameReply struct {
	name string
	ok   bool
}

// Dispatcher is the RelayDispatcher actor: it owns the NetworkPort, runs a
// long-lived subscription worker under a cancellable child scope, and fans
// received events into its output port.
//
// Inputs arrive on a single inbox channel so that Received(), Publish(),
// and GetName() never race with each other or with Connect/Reconnect — the
// same single-threaded-per-actor discipline as this codebase's Hub.Run.
type Dispatcher struct {
	network ports.NetworkPort

	inbox chan func()
	out   *actorkit.OutputPort[*domain.NetworkEvent]

	workerCancel context.CancelFunc
}

// NewDispatcher creates a RelayDispatcher bound to the given NetworkPort.
func NewDispatcher(network ports.NetworkPort) *Dispatcher {
	return &Dispatcher{
		network: network,
		inbox:   make(chan func(), 64),
		out:     actorkit.NewOutputPort[*domain.NetworkEvent]("Dispatcher"),
	}
}

// SubscribeToReceived registers an adapter to receive every event the
// dispatcher pulls off the relay network.
func (d *Dispatcher) SubscribeToReceived(adapt actorkit.Adapter[*domain.NetworkEvent]) {
	d.out.Subscribe(adapt)
}

// Connect asks the dispatcher to (re)establish its subscription. Safe to
// call at any time; a prior worker is always cancelled first.
func (d *Dispatcher) Connect(ctx context.Context) {
	d.send(func() { d.startWorker(ctx) })
}

// Reconnect is equivalent to Connect here — both cancel any running worker
// and start a fresh one.
func (d *Dispatcher) Reconnect(ctx context.Context) {
	d.Connect(ctx)
}

// Publish asks the dispatcher to publish a moderated report, counting
// publish/publish_error.
func (d *Dispatcher) Publish(ctx context.Context, event *domain.NetworkEvent) {
	d.send(func() {
		if err := d.network.Publish(ctx, event); err != nil {
			metrics.PublishError.Inc()
			log.Printf("[Dispatcher] publish failed: %v", err)
			return
		}
		metrics.Publish.Inc()
	})
}

// GetName resolves a display name through the dispatcher, which is the
// sole owner of the network client's connection state.
func (d *Dispatcher) GetName(ctx context.Context, pubkeyHex string) (string, bool) {
	reply := make(chan nameReply, 1)
	d.send(func() {
		name, ok := d.network.GetDisplayName(ctx, pubkeyHex)
		reply <- nameReply{name: name, ok: ok}
	})

	select {
	case r := <-reply:
		return r.name, r.ok
	case <-ctx.Done():
		return "", false
	}
}

// send enqueues fn on the actor's inbox, to be executed in the Run loop.
func (d *Dispatcher) send(fn func()) {
	d.inbox <- fn
}

// Run is the dispatcher's message loop. It returns when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer func() {
		if d.workerCancel != nil {
			d.workerCancel()
		}
	}()

	for {
		select {
		case fn := <-d.inbox:
			fn()
		case <-ctx.Done():
			return nil
		}
	}
}

// startWorker cancels any running subscription worker and spawns a new one.
func (d *Dispatcher) startWorker(parent context.Context) {
	if d.workerCancel != nil {
		d.workerCancel()
	}
	workerCtx, cancel := context.WithCancel(parent)
	d.workerCancel = cancel

	if err := d.network.Connect(workerCtx); err != nil {
		log.Printf("[Dispatcher] connect failed: %v", err)
		metrics.ConnectError.Inc()
	} else {
		metrics.Connect.Inc()
	}

	go d.runWorker(workerCtx)
}

// runWorker streams events from the network into the actor's inbox
// (so Received serializes with every other message), and schedules a
// delayed reconnect if the stream ends without the worker's own token
// having been cancelled.
func (d *Dispatcher) runWorker(ctx context.Context) {
	events := make(chan *domain.NetworkEvent, 64)

	go func() {
		if err := d.network.Subscribe(ctx, events); err != nil {
			log.Printf("[Dispatcher] subscription worker error: %v", err)
		}
		close(events)
	}()

	for ev := range events {
		e := ev
		d.send(func() { d.received(e) })
	}

	if ctx.Err() != nil {
		// Cancelled deliberately (a newer Connect/Reconnect superseded us).
		return
	}

	log.Printf("[Dispatcher] subscription worker exited, reconnecting in %s", reconnectDelay)
	time.AfterFunc(reconnectDelay, func() {
		metrics.Reconnect.Inc()
		d.Reconnect(context.Background())
	})
}

// received fans a pulled event onto the output port and counts it.
func (d *Dispatcher) received(e *domain.NetworkEvent) {
	metrics.EventReceived.Inc()
	d.out.Publish(e)
}
