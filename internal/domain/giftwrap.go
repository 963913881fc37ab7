package domain

import "fmt"

// GiftWrap represents the outer kind-1059 onion event. It does not itself
// decrypt anything (that needs the service secret key and lives in
// internal/giftwrap) — it only validates the envelope's shape before
// decryption is attempted.
type GiftWrap struct {
	Event *NetworkEvent
}

// NewGiftWrap validates that e looks like a gift-wrap envelope.
func NewGiftWrap(e *NetworkEvent) (*GiftWrap, error) {
	if e.Kind != KindGiftWrap {
		return nil, fmt.Errorf("event kind %d is not a gift wrap (want %d)", e.Kind, KindGiftWrap)
	}
	return &GiftWrap{Event: e}, nil
}
