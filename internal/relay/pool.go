// Package relay implements the NetworkPort contract against real Nostr
// relays, and the RelayDispatcher actor that owns it. The connection
// bookkeeping (per-relay status tracking, NIP-11 fetch-on-connect,
// fan-out publish across all connected relays) is adapted directly from
// this codebase's existing relay pool.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip11"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// conn tracks one relay connection's state.
type conn struct {
	url       string
	relay     *nostr.Relay
	connected bool
}

// Pool is a NetworkPort implementation backed by a set of relay URLs.
type Pool struct {
	urls          []string
	servicePubkey string

	mu      sync.RWMutex
	conns   map[string]*conn
	simPool *nostr.SimplePool
}

// NewPool creates a relay pool for the given relay URLs. servicePubkeyHex
// is the hex pubkey the gift-wrap subscription filter watches for.
func NewPool(urls []string, servicePubkeyHex string) *Pool {
	return &Pool{
		urls:          urls,
		servicePubkey: servicePubkeyHex,
		conns:         make(map[string]*conn, len(urls)),
	}
}

// Connect dials every configured relay. It succeeds (returns nil) as long
// as at least one relay is reachable.
func (p *Pool) Connect(ctx context.Context) error {
	p.mu.Lock()
	p.simPool = nostr.NewSimplePool(context.Background())
	p.mu.Unlock()

	var wg sync.WaitGroup
	for _, url := range p.urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			p.connectOne(ctx, url)
		}(url)
	}
	wg.Wait()

	if len(p.GetConnected()) == 0 {
		return fmt.Errorf("no relay could be reached out of %d configured", len(p.urls))
	}
	return nil
}

func (p *Pool) connectOne(ctx context.Context, url string) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	r, err := nostr.RelayConnect(dialCtx, url)
	if err != nil {
		log.Printf("[Dispatcher] failed to connect to %s: %v", url, err)
		p.mu.Lock()
		p.conns[url] = &conn{url: url, connected: false}
		p.mu.Unlock()
		return
	}

	log.Printf("[Dispatcher] connected to %s", url)
	p.mu.Lock()
	p.conns[url] = &conn{url: url, relay: r, connected: true}
	p.mu.Unlock()

	go p.logRelayInfo(url)
}

// logRelayInfo fetches the NIP-11 document for a relay, purely for
// operator-facing logging; failures are not propagated anywhere.
func (p *Pool) logRelayInfo(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 7*time.Second)
	defer cancel()

	info, err := nip11.Fetch(ctx, url)
	if err != nil {
		return
	}
	log.Printf("[Dispatcher] %s is %q (supports %d NIPs)", url, info.Name, len(info.SupportedNIPs))
}

// Reconnect disconnects every relay, then connects again.
func (p *Pool) Reconnect(ctx context.Context) error {
	p.mu.Lock()
	for _, c := range p.conns {
		if c.relay != nil {
			c.relay.Close()
		}
	}
	p.conns = make(map[string]*conn, len(p.urls))
	p.mu.Unlock()

	return p.Connect(ctx)
}

// GetConnected returns the URLs of every currently connected relay.
func (p *Pool) GetConnected() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var urls []string
	for url, c := range p.conns {
		if c.connected {
			urls = append(urls, url)
		}
	}
	return urls
}

// Subscribe installs the gift-wrap filter ({kind:1059, p:<service
// pubkey>, limit:0}) and streams every matching event to sink until ctx is
// cancelled or the upstream pool closes its channel.
func (p *Pool) Subscribe(ctx context.Context, sink chan<- *domain.NetworkEvent) error {
	relays := p.GetConnected()
	if len(relays) == 0 {
		return fmt.Errorf("no connected relays to subscribe on")
	}

	filter := nostr.Filter{
		Kinds: []int{domain.KindGiftWrap},
		Tags:  nostr.TagMap{"p": []string{p.servicePubkey}},
		Limit: 0,
	}

	p.mu.RLock()
	simPool := p.simPool
	p.mu.RUnlock()
	if simPool == nil {
		return fmt.Errorf("pool not connected")
	}

	ch := simPool.SubMany(ctx, relays, nostr.Filters{filter})
	for ie := range ch {
		if ie.Event == nil {
			continue
		}
		select {
		case sink <- ie.Event:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

// Publish sends event to every connected relay, succeeding if at least one
// relay acknowledges it.
func (p *Pool) Publish(ctx context.Context, event *domain.NetworkEvent) error {
	relays := p.GetConnected()
	if len(relays) == 0 {
		return fmt.Errorf("no connected relays to publish to")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var acked int
	var lastErr error

	for _, url := range relays {
		p.mu.RLock()
		c := p.conns[url]
		p.mu.RUnlock()
		if c == nil || c.relay == nil {
			continue
		}

		wg.Add(1)
		go func(c *conn) {
			defer wg.Done()
			pubCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := c.relay.Publish(pubCtx, *event); err != nil {
				mu.Lock()
				lastErr = err
				mu.Unlock()
				return
			}
			mu.Lock()
			acked++
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	if acked == 0 {
		if lastErr != nil {
			return fmt.Errorf("publish failed on all relays: %w", lastErr)
		}
		return fmt.Errorf("publish failed on all relays")
	}
	return nil
}

// metadata is the shape of a kind-0 profile event's content.
type metadata struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	NIP05       string `json:"nip05"`
}

// GetDisplayName resolves a pubkey's display name from its most recent
// kind-0 metadata event. Best-effort: any error or missing data yields
// ("", false); callers impose their own timeout via ctx.
func (p *Pool) GetDisplayName(ctx context.Context, pubkeyHex string) (string, bool) {
	relays := p.GetConnected()
	if len(relays) == 0 {
		return "", false
	}

	p.mu.RLock()
	simPool := p.simPool
	p.mu.RUnlock()
	if simPool == nil {
		return "", false
	}

	filter := nostr.Filter{Kinds: []int{0}, Authors: []string{pubkeyHex}, Limit: 1}
	ev := simPool.QuerySingle(ctx, relays, filter)
	if ev == nil {
		return "", false
	}

	var md metadata
	if err := json.Unmarshal([]byte(ev.Content), &md); err != nil {
		return "", false
	}
	if md.NIP05 != "" {
		return md.NIP05, true
	}
	if md.DisplayName != "" {
		return md.DisplayName, true
	}
	if md.Name != "" {
		return md.Name, true
	}
	return "", false
}

// Close tears down every relay connection.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.conns {
		if c.relay != nil {
			c.relay.Close()
		}
	}
}
