// Package domain holds the moderation pipeline's core value types: events,
// gift-wraps, report requests, and the moderation category taxonomy.
package domain

import (
	"github.com/nbd-wtf/go-nostr"
)

// NetworkEvent is the universal network primitive: a signed, immutable
// record identified by the hash of its canonical serialization.
type NetworkEvent = nostr.Event

// Kind discriminators used throughout the pipeline.
const (
	KindGiftWrap        = 1059
	KindSeal            = 13
	KindRumor           = 14
	KindModerationLabel = 1984
)

// Verify reports whether an event's signature is valid for its claimed
// author and content hash.
func Verify(e *NetworkEvent) bool {
	ok, err := e.CheckSignature()
	return err == nil && ok
}
