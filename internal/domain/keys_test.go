package domain

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

func TestResolveSecretKey_PassesThroughRawHex(t *testing.T) {
	sk := nostr.GeneratePrivateKey()

	got, err := ResolveSecretKey(sk)
	if err != nil {
		t.Fatalf("ResolveSecretKey() error = %v", err)
	}
	if got != sk {
		t.Errorf("ResolveSecretKey(%q) = %q, want unchanged", sk, got)
	}
}

func TestResolveSecretKey_DecodesNsec(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	nsec, err := nip19.EncodePrivateKey(sk)
	if err != nil {
		t.Fatalf("EncodePrivateKey() error = %v", err)
	}

	got, err := ResolveSecretKey(nsec)
	if err != nil {
		t.Fatalf("ResolveSecretKey() error = %v", err)
	}
	if got != sk {
		t.Errorf("ResolveSecretKey(%q) = %q, want %q", nsec, got, sk)
	}
}

func TestResolveSecretKey_RejectsGarbageNsec(t *testing.T) {
	if _, err := ResolveSecretKey("nsec1notvalidbech32"); err == nil {
		t.Fatal("expected error decoding malformed nsec")
	}
}
