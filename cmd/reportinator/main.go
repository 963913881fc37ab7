// Command reportinator runs the moderation pipeline daemon: it listens for
// gift-wrapped report requests on a set of Nostr relays, hands event
// reports to the classifier queue, posts pubkey reports to a chat
// workspace for human review, and publishes the resulting moderation
// labels back to the network.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/nbd-wtf/go-nostr"

	"github.com/keanuklestil/reportinator/internal/callback"
	"github.com/keanuklestil/reportinator/internal/chat"
	"github.com/keanuklestil/reportinator/internal/classifier"
	"github.com/keanuklestil/reportinator/internal/config"
	"github.com/keanuklestil/reportinator/internal/dashboard"
	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/giftwrap"
	"github.com/keanuklestil/reportinator/internal/httpserver"
	"github.com/keanuklestil/reportinator/internal/relay"
	"github.com/keanuklestil/reportinator/internal/servicemgr"
	"github.com/keanuklestil/reportinator/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.Println("reportinator - Nostr moderation pipeline bridge")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	serviceSecretKey, err := domain.ResolveSecretKey(cfg.ServiceKey)
	if err != nil {
		log.Fatalf("failed to resolve service key: %v", err)
	}
	servicePubkey, err := nostr.GetPublicKey(serviceSecretKey)
	if err != nil {
		log.Fatalf("failed to derive service pubkey: %v", err)
	}
	log.Printf("[Config] service pubkey: %s", servicePubkey)

	mgr := servicemgr.New(context.Background())

	network := relay.NewPool(cfg.RelayURLs, servicePubkey)
	dispatcher := relay.NewDispatcher(network)

	unwrapper := giftwrap.NewUnwrapper(serviceSecretKey)

	pubsub, err := classifier.NewGooglePubsub(mgr.Context(), cfg.PubsubProjectID, cfg.PubsubTopicID)
	if err != nil {
		log.Fatalf("failed to create pub/sub client: %v", err)
	}
	enqueuer := classifier.NewEnqueuer(pubsub)

	slackBuilder := &chat.SlackAdapterBuilder{ChannelID: cfg.SlackChannelID}

	// The chat adapter needs a NameResolver. The Supervisor's GetName is a
	// pure pass-through to the dispatcher, so resolving display names
	// directly against the dispatcher is equivalent and avoids a
	// construction cycle between the Supervisor and the ChatWriter it owns.
	chatPort, err := slackBuilder.Build(dispatcher)
	if err != nil {
		log.Fatalf("failed to build chat adapter: %v", err)
	}
	writer := chat.NewWriter(chatPort)

	pipeline := supervisor.New(dispatcher, unwrapper, enqueuer, writer)

	mgr.Spawn("pipeline", pipeline.Run)

	callbackHandler := callback.NewHandler(pipeline, serviceSecretKey)
	dash := dashboard.NewServer()
	mux := httpserver.New(callbackHandler, dash)

	mgr.Spawn("http", func(ctx context.Context) error {
		return httpserver.Serve(ctx, cfg.HTTPAddr, mux)
	})

	mgr.ListenStopSignals()
	pubsub.Close()
	network.Close()
	log.Println("reportinator stopped")
}
