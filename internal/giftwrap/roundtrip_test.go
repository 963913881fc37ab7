package giftwrap

import (
	"context"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/keanuklestil/reportinator/internal/domain"
)

func TestWrapUnwrap_PubkeyReport_RoundTrips(t *testing.T) {
	serviceSK := nostr.GeneratePrivateKey()
	servicePK, err := nostr.GetPublicKey(serviceSK)
	if err != nil {
		t.Fatalf("derive service pubkey: %v", err)
	}

	reporterSK := nostr.GeneratePrivateKey()
	reporterPK, err := nostr.GetPublicKey(reporterSK)
	if err != nil {
		t.Fatalf("derive reporter pubkey: %v", err)
	}

	rumor := domain.ReportRequestRumor{
		Target:       domain.ReportTarget{Pubkey: "badpubkeyhex"},
		ReporterText: "this account is a spam bot",
	}

	wrapped, err := Wrap(rumor, reporterSK, servicePK)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if wrapped.Kind != domain.KindGiftWrap {
		t.Fatalf("wrapped.Kind = %d, want %d", wrapped.Kind, domain.KindGiftWrap)
	}

	u := NewUnwrapper(serviceSK)
	got := make(chan *domain.ReportRequest, 1)
	u.SubscribeToUnwrapped(func(r *domain.ReportRequest) { got <- r })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go u.Run(ctx)

	u.Unwrap(wrapped)

	select {
	case req := <-got:
		if req.Target.PubkeyHex() != "badpubkeyhex" {
			t.Errorf("Target.PubkeyHex() = %q, want badpubkeyhex", req.Target.PubkeyHex())
		}
		if req.ReporterPubkey != reporterPK {
			t.Errorf("ReporterPubkey = %q, want %q", req.ReporterPubkey, reporterPK)
		}
		if req.ReporterText != rumor.ReporterText {
			t.Errorf("ReporterText = %q, want %q", req.ReporterText, rumor.ReporterText)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for unwrapped report request")
	}
}

func TestUnwrap_RejectsNonGiftWrapKind(t *testing.T) {
	serviceSK := nostr.GeneratePrivateKey()
	u := NewUnwrapper(serviceSK)

	got := make(chan *domain.ReportRequest, 1)
	u.SubscribeToUnwrapped(func(r *domain.ReportRequest) { got <- r })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go u.Run(ctx)

	u.Unwrap(&domain.NetworkEvent{Kind: 1})

	select {
	case <-got:
		t.Fatal("unexpected report request emitted for a non-gift-wrap event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnwrap_RejectsMalformedGiftWrapContent(t *testing.T) {
	serviceSK := nostr.GeneratePrivateKey()
	servicePK, err := nostr.GetPublicKey(serviceSK)
	if err != nil {
		t.Fatalf("derive service pubkey: %v", err)
	}

	reporterSK := nostr.GeneratePrivateKey()

	rumor := domain.ReportRequestRumor{Target: domain.ReportTarget{Pubkey: "x"}}
	wrapped, err := Wrap(rumor, reporterSK, servicePK)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	// Tampering with the wrap's signed content would fail signature checks
	// further up the stack; instead exercise the malformed-content path via
	// an event of the right kind that isn't a valid gift wrap at all.
	wrapped.Content = "not a valid gift-wrap onion"
	wrapped.Tags = nostr.Tags{{"p", servicePK}}
	if err := wrapped.Sign(nostr.GeneratePrivateKey()); err != nil {
		t.Fatalf("sign tampered event: %v", err)
	}

	u := NewUnwrapper(serviceSK)
	got := make(chan *domain.ReportRequest, 1)
	u.SubscribeToUnwrapped(func(r *domain.ReportRequest) { got <- r })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go u.Run(ctx)

	u.Unwrap(wrapped)

	select {
	case <-got:
		t.Fatal("unexpected report request emitted for a malformed gift-wrap onion")
	case <-time.After(100 * time.Millisecond):
	}
}
