package chat

import (
	"context"
	"fmt"
	"os"

	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/slack-go/slack"

	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/ports"
)

// SlackAdapter is the ChatPort implementation backed by the Slack SDK. It
// holds a NameResolver handle so the message template can resolve friendly
// display links without exposing the relay client itself.
type SlackAdapter struct {
	client    *slack.Client
	channelID string
	resolver  ports.NameResolver
}

// SlackAdapterBuilder is the ChatPortBuilder for the Slack adapter. The
// token is read from the SLACK_TOKEN environment variable, matching this
// codebase's existing convention of env-var overrides for secrets; the
// channel comes from ChannelID.
type SlackAdapterBuilder struct {
	ChannelID string
}

// Build constructs a SlackAdapter bound to resolver.
func (b *SlackAdapterBuilder) Build(resolver ports.NameResolver) (ports.ChatPort, error) {
	token := os.Getenv("SLACK_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("SLACK_TOKEN is not set")
	}
	return &SlackAdapter{
		client:    slack.New(token),
		channelID: b.ChannelID,
		resolver:  resolver,
	}, nil
}

// WriteMessage renders and posts the interactive template for a
// pubkey-typed report request.
func (s *SlackAdapter) WriteMessage(ctx context.Context, req *domain.ReportRequest) error {
	reportedLink := s.displayLink(ctx, req.Target.PubkeyHex())
	reporterLink := s.displayLink(ctx, req.ReporterPubkey)

	blocks := renderTemplate(req, reportedLink, reporterLink)

	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fmt.Sprintf("New moderation request sent by %s to report account %s", reporterLink, reportedLink), false),
	)
	return err
}

// displayLink resolves pk's display name through the adapter's NameResolver
// within a 50ms budget and renders it as an njump.me link, falling back to
// the backtick-quoted bech32 npub, then the backtick-quoted raw hex.
func (s *SlackAdapter) displayLink(ctx context.Context, pk string) string {
	lookupCtx, cancel := context.WithTimeout(ctx, nameLookupTimeout)
	defer cancel()

	if name, ok := s.resolver.GetName(lookupCtx, pk); ok {
		return fmt.Sprintf("https://njump.me/%s", name)
	}
	if npub, err := nip19.EncodePublicKey(pk); err == nil {
		return fmt.Sprintf("`%s`", npub)
	}
	return fmt.Sprintf("`%s`", pk)
}
