package giftwrap

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip44"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// maxSealAgeJitter bounds the random backdating applied to a seal's
// created_at, mitigating timing-correlation attacks against the reporter.
const maxSealAgeJitter = 48 * time.Hour

// Wrap builds the gift-wrap onion for req: an unsigned kind-14 rumor,
// NIP-44-encrypted and sealed (kind 13, signed by the reporter), itself
// NIP-44-encrypted and wrapped (kind 1059, signed by a fresh ephemeral
// key) addressed to servicePubkeyHex. It is the inverse of Unwrapper.handle
// and is used only by the giftwrapper CLI test utility.
func Wrap(req domain.ReportRequestRumor, reporterSecretKey, servicePubkeyHex string) (*domain.NetworkEvent, error) {
	reporterPubkey, err := nostr.GetPublicKey(reporterSecretKey)
	if err != nil {
		return nil, fmt.Errorf("derive reporter pubkey: %w", err)
	}

	rumorContent, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal rumor: %w", err)
	}
	rumor := nostr.Event{
		Kind:      domain.KindRumor,
		PubKey:    reporterPubkey,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Tags:      nostr.Tags{{"p", servicePubkeyHex}},
		Content:   string(rumorContent),
	}
	rumor.ID = rumor.GetID()

	sealKey, err := nip44.GenerateConversationKey(servicePubkeyHex, reporterSecretKey)
	if err != nil {
		return nil, fmt.Errorf("derive seal conversation key: %w", err)
	}
	rumorJSON, err := json.Marshal(rumor)
	if err != nil {
		return nil, fmt.Errorf("marshal rumor event: %w", err)
	}
	sealedRumor, err := nip44.Encrypt(string(rumorJSON), sealKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt rumor into seal: %w", err)
	}

	seal := nostr.Event{
		Kind:      domain.KindSeal,
		PubKey:    reporterPubkey,
		CreatedAt: nostr.Timestamp(randomizedPast().Unix()),
		Tags:      nostr.Tags{},
		Content:   sealedRumor,
	}
	if err := seal.Sign(reporterSecretKey); err != nil {
		return nil, fmt.Errorf("sign seal: %w", err)
	}

	ephemeralSecretKey := nostr.GeneratePrivateKey()
	ephemeralPubkey, err := nostr.GetPublicKey(ephemeralSecretKey)
	if err != nil {
		return nil, fmt.Errorf("derive ephemeral pubkey: %w", err)
	}

	wrapKey, err := nip44.GenerateConversationKey(servicePubkeyHex, ephemeralSecretKey)
	if err != nil {
		return nil, fmt.Errorf("derive wrap conversation key: %w", err)
	}
	sealJSON, err := json.Marshal(seal)
	if err != nil {
		return nil, fmt.Errorf("marshal seal event: %w", err)
	}
	wrappedSeal, err := nip44.Encrypt(string(sealJSON), wrapKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt seal into wrap: %w", err)
	}

	wrap := &nostr.Event{
		Kind:      domain.KindGiftWrap,
		PubKey:    ephemeralPubkey,
		CreatedAt: nostr.Timestamp(randomizedPast().Unix()),
		Tags:      nostr.Tags{{"p", servicePubkeyHex}},
		Content:   wrappedSeal,
	}
	if err := wrap.Sign(ephemeralSecretKey); err != nil {
		return nil, fmt.Errorf("sign wrap: %w", err)
	}

	return wrap, nil
}

// randomizedPast returns a time within the last 48 hours.
func randomizedPast() time.Time {
	offset := time.Duration(rand.Int63n(int64(maxSealAgeJitter)))
	return time.Now().Add(-offset)
}
