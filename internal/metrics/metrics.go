// Package metrics declares the Prometheus counters exposed at /metrics,
// matching the counter set named in the external interfaces section: one
// counter pair per fallible operation in the pipeline, plus actor_panicked.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ActorPanicked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "actor_panicked",
		Help: "Number of actors that panicked",
	})
	EventReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "event_received",
		Help: "Number of events received",
	})
	EventReceivedError = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "event_received_error",
		Help: "Number of errors receiving events",
	})
	Publish = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "publish",
		Help: "Number of events published",
	})
	PublishError = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "publish_error",
		Help: "Number of errors publishing events",
	})
	EventsEnqueued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "events_enqueued",
		Help: "Number of events enqueued to the classifier",
	})
	EventsEnqueuedError = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "events_enqueued_error",
		Help: "Number of errors enqueuing events to the classifier",
	})
	Connect = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "connect",
		Help: "Number of new relay connections",
	})
	ConnectError = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "connect_error",
		Help: "Number of errors connecting to relays",
	})
	Reconnect = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reconnect",
		Help: "Number of reconnections to relays",
	})
	ReconnectError = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reconnect_error",
		Help: "Number of errors reconnecting to relays",
	})
	ChatWriteMessage = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_write_message",
		Help: "Number of writes to the chat workspace",
	})
	ChatWriteMessageError = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_write_message_error",
		Help: "Number of errors writing to the chat workspace",
	})
)

// Registry is the registry the /metrics endpoint renders. It is kept
// separate from prometheus.DefaultRegisterer so tests can construct a
// pipeline without mutating global state.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		ActorPanicked,
		EventReceived, EventReceivedError,
		Publish, PublishError,
		EventsEnqueued, EventsEnqueuedError,
		Connect, ConnectError,
		Reconnect, ReconnectError,
		ChatWriteMessage, ChatWriteMessageError,
	)
}
