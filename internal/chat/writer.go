// Package chat implements the ChatWriter actor and its Slack-backed
// ChatPort/ChatPortBuilder adapter — posting pubkey-only report requests to
// the human moderation workspace.
package chat

import (
	"context"
	"log"
	"time"

	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/metrics"
	"github.com/keanuklestil/reportinator/internal/ports"
)

// nameLookupTimeout is the caller-side budget for display-name resolution
// when rendering a chat message. Missing the deadline falls back silently
// to the bech32/hex pubkey.
const nameLookupTimeout = 50 * time.Millisecond

// Writer is the ChatWriter actor: it filters to pubkey-typed report
// requests (event reports go only to the classifier) and posts the
// interactive template through a ChatPort.
type Writer struct {
	chat  ports.ChatPort
	inbox chan *domain.ReportRequest
}

// NewWriter creates a ChatWriter bound to the given ChatPort.
func NewWriter(chatPort ports.ChatPort) *Writer {
	return &Writer{chat: chatPort, inbox: make(chan *domain.ReportRequest, 64)}
}

// WriteAdapter is the adapter a GiftUnwrapper's output port subscribes
// with: every unwrapped report request becomes a Write request.
func (w *Writer) WriteAdapter() func(*domain.ReportRequest) {
	return func(req *domain.ReportRequest) { w.Write(req) }
}

// Write submits req for chat posting.
func (w *Writer) Write(req *domain.ReportRequest) {
	w.inbox <- req
}

// Run is the actor's message loop.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case req := <-w.inbox:
			w.handle(ctx, req)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Writer) handle(ctx context.Context, req *domain.ReportRequest) {
	if req.Target.IsEvent() {
		return
	}

	postCtx, cancel := context.WithTimeout(ctx, nameLookupTimeout*4)
	defer cancel()

	if err := w.chat.WriteMessage(postCtx, req); err != nil {
		metrics.ChatWriteMessageError.Inc()
		log.Printf("[Chat] failed to post message: %v", err)
		return
	}
	metrics.ChatWriteMessage.Inc()
}
