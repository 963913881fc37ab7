// Package ports declares the abstract boundaries the actor pipeline talks
// through: the relay network, the classifier queue, and the human chat
// workspace. Concrete adapters live in internal/relay, internal/classifier,
// and internal/chat respectively; in-memory fakes satisfy the same
// interfaces for tests that need to impersonate those boundaries.
package ports

import (
	"context"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// NetworkPort is the abstract duplex to the relay network: subscribe with a
// filter, publish signed events, resolve a pubkey's display name,
// connect/reconnect.
type NetworkPort interface {
	// Connect is idempotent; it succeeds if at least one relay is reachable.
	Connect(ctx context.Context) error
	// Reconnect disconnects then reconnects all relays.
	Reconnect(ctx context.Context) error
	// Subscribe installs the service's gift-wrap filter and streams each
	// matching event to sink until ctx is cancelled or the upstream closes.
	Subscribe(ctx context.Context, sink chan<- *domain.NetworkEvent) error
	// Publish has at-least-once semantics: success means acknowledged by at
	// least one relay.
	Publish(ctx context.Context, event *domain.NetworkEvent) error
	// GetDisplayName is best-effort and must return quickly; callers impose
	// their own timeout budget, not this method.
	GetDisplayName(ctx context.Context, pubkeyHex string) (string, bool)
}

// PubsubPort is a one-way publish of a serialized report request to the
// async classifier queue.
type PubsubPort interface {
	PublishReport(ctx context.Context, req *domain.ReportRequest) error
}

// ChatPort posts a structured interactive message to the human workspace.
type ChatPort interface {
	WriteMessage(ctx context.Context, req *domain.ReportRequest) error
}

// NameResolver is the subset of Supervisor forwarding a ChatPortBuilder
// needs: asking the dispatcher (through the supervisor) to resolve a
// display name, so the chat message template can render friendly links.
type NameResolver interface {
	GetName(ctx context.Context, pubkeyHex string) (string, bool)
}

// ChatPortBuilder builds a ChatPort bound to a NameResolver, handing the
// chat adapter a name-resolving handle at build time rather than threading
// one through every call.
type ChatPortBuilder interface {
	Build(resolver NameResolver) (ChatPort, error)
}
