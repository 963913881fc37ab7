package domain

import (
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr/nip19"
)

// ResolveSecretKey accepts either a raw hex secret key or an nsec-encoded
// one and returns the raw hex form every signing call expects.
func ResolveSecretKey(raw string) (string, error) {
	if !strings.HasPrefix(raw, "nsec") {
		return raw, nil
	}

	prefix, val, err := nip19.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("decode nsec: %w", err)
	}
	if prefix != "nsec" {
		return "", fmt.Errorf("expected nsec prefix, got %s", prefix)
	}
	sk, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("decoded nsec value has unexpected type")
	}
	return sk, nil
}
