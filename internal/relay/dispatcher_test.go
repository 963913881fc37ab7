package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// fakeNetwork is a minimal in-memory ports.NetworkPort double.
type fakeNetwork struct {
	mu          sync.Mutex
	connectErr  error
	published   []*domain.NetworkEvent
	publishErr  error
	displayName map[string]string
	subscribed  chan chan<- *domain.NetworkEvent
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		displayName: make(map[string]string),
		subscribed:  make(chan chan<- *domain.NetworkEvent, 1),
	}
}

func (f *fakeNetwork) Connect(ctx context.Context) error { return f.connectErr }
func (f *fakeNetwork) Reconnect(ctx context.Context) error { return f.connectErr }

func (f *fakeNetwork) Subscribe(ctx context.Context, sink chan<- *domain.NetworkEvent) error {
	f.subscribed <- sink
	<-ctx.Done()
	return nil
}

func (f *fakeNetwork) Publish(ctx context.Context, event *domain.NetworkEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakeNetwork) GetDisplayName(ctx context.Context, pubkeyHex string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.displayName[pubkeyHex]
	return name, ok
}

func TestDispatcher_GetName(t *testing.T) {
	network := newFakeNetwork()
	network.displayName["abc123"] = "alice"

	d := NewDispatcher(network)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go d.Run(ctx)
	d.Connect(ctx)

	callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
	defer callCancel()

	name, ok := d.GetName(callCtx, "abc123")
	if !ok || name != "alice" {
		t.Errorf("GetName() = (%q, %v), want (alice, true)", name, ok)
	}

	_, ok = d.GetName(callCtx, "unknown")
	if ok {
		t.Error("GetName() for unknown pubkey returned ok=true")
	}
}

func TestDispatcher_Publish(t *testing.T) {
	network := newFakeNetwork()
	d := NewDispatcher(network)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go d.Run(ctx)
	d.Connect(ctx)

	ev := &domain.NetworkEvent{ID: "deadbeef"}
	d.Publish(ctx, ev)

	// Publish is fire-and-forget from the caller's side; round-trip through
	// GetName (which shares the same serialized inbox) to know the publish
	// closure has executed before asserting.
	callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
	defer callCancel()
	d.GetName(callCtx, "sync-barrier")

	network.mu.Lock()
	defer network.mu.Unlock()
	if len(network.published) != 1 || network.published[0].ID != "deadbeef" {
		t.Errorf("published = %v, want one event with ID deadbeef", network.published)
	}
}

func TestDispatcher_SubscribeToReceived(t *testing.T) {
	network := newFakeNetwork()
	d := NewDispatcher(network)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *domain.NetworkEvent, 1)
	d.SubscribeToReceived(func(e *domain.NetworkEvent) { received <- e })

	go d.Run(ctx)
	d.Connect(ctx)

	sink := <-network.subscribed
	sink <- &domain.NetworkEvent{ID: "feedface"}

	select {
	case e := <-received:
		if e.ID != "feedface" {
			t.Errorf("received event ID = %q, want feedface", e.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscribed adapter to receive the event")
	}
}
