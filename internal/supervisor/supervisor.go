// Package supervisor wires RelayDispatcher, GiftUnwrapper, ClassifierEnqueuer,
// and ChatWriter into a single pipeline and supervises their goroutines.
package supervisor

import (
	"context"
	"log"
	"sync"

	"github.com/keanuklestil/reportinator/internal/actorkit"
	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/metrics"
)

// dispatcher is the slice of relay.Dispatcher the Supervisor depends on.
// Declared locally to avoid a dependency from this package back onto the
// adapter-specific relay package beyond what's actually used.
type dispatcher interface {
	SubscribeToReceived(adapt actorkit.Adapter[*domain.NetworkEvent])
	Connect(ctx context.Context)
	Publish(ctx context.Context, event *domain.NetworkEvent)
	GetName(ctx context.Context, pubkeyHex string) (string, bool)
	Run(ctx context.Context) error
}

type unwrapper interface {
	SubscribeToUnwrapped(adapt actorkit.Adapter[*domain.ReportRequest])
	ReceiveAdapter() actorkit.Adapter[*domain.NetworkEvent]
	Run(ctx context.Context) error
}

type enqueuer interface {
	EnqueueAdapter() func(*domain.ReportRequest)
	Run(ctx context.Context) error
}

type writer interface {
	WriteAdapter() func(*domain.ReportRequest)
	Run(ctx context.Context) error
}

// Supervisor owns the pipeline's four
// children, wires their output ports together, and forwards Publish/GetName
// RPCs down to the dispatcher.
type Supervisor struct {
	dispatcher dispatcher
	unwrapper  unwrapper
	enqueuer   enqueuer
	writer     writer

	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

// New constructs a Supervisor: the dispatcher's
// received events feed the unwrapper, and every unwrapped report request
// fans out to both the classifier enqueuer and the chat writer.
func New(d dispatcher, u unwrapper, en enqueuer, w writer) *Supervisor {
	d.SubscribeToReceived(u.ReceiveAdapter())
	u.SubscribeToUnwrapped(en.EnqueueAdapter())
	u.SubscribeToUnwrapped(w.WriteAdapter())

	return &Supervisor{
		dispatcher: d,
		unwrapper:  u,
		enqueuer:   en,
		writer:     w,
		done:       make(chan struct{}),
	}
}

// Run spawns all four children under a cancellable child scope, sends
// Connect to the dispatcher, and applies the supervision policy: any child
// terminating (its Run returning, for any reason) logs and stops the whole
// pipeline — simple restart-the-world at this scale. A child panicking is
// caught by actorkit.RunSupervised, logged, counted, and does not bring the
// pipeline down.
func (s *Supervisor) Run(ctx context.Context) error {
	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	children := map[string]func(context.Context) error{
		"RelayDispatcher":    s.dispatcher.Run,
		"GiftUnwrapper":      s.unwrapper.Run,
		"ClassifierEnqueuer": s.enqueuer.Run,
		"ChatWriter":         s.writer.Run,
	}

	terminated := make(chan string, len(children))
	for name, run := range children {
		s.wg.Add(1)
		go func(name string, run func(context.Context) error) {
			defer s.wg.Done()
			reason := actorkit.RunSupervised(name, func() error { return run(childCtx) })
			if reason.Panicked {
				metrics.ActorPanicked.Inc()
				log.Printf("[Supervisor] child %q panicked: %v (continuing)", name, reason.Err)
				return
			}
			terminated <- name
		}(name, run)
	}

	s.dispatcher.Connect(childCtx)

	select {
	case name := <-terminated:
		log.Printf("[Supervisor] child %q terminated, stopping pipeline", name)
		cancel()
	case <-ctx.Done():
	}

	s.wg.Wait()
	close(s.done)
	return nil
}

// Publish forwards a moderated report's signed event down to the dispatcher
// for relay publication.
func (s *Supervisor) Publish(ctx context.Context, event *domain.NetworkEvent) error {
	s.dispatcher.Publish(ctx, event)
	return nil
}

// GetName forwards a display-name lookup down to the dispatcher.
func (s *Supervisor) GetName(ctx context.Context, pubkeyHex string) (string, bool) {
	return s.dispatcher.GetName(ctx, pubkeyHex)
}
