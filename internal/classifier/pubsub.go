package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// GooglePubsub is the PubsubPort adapter backed by Google Cloud Pub/Sub,
// the vendor the classifier listens on.
type GooglePubsub struct {
	topic *pubsub.Topic
}

// NewGooglePubsub dials Google Cloud Pub/Sub and resolves the given topic.
func NewGooglePubsub(ctx context.Context, projectID, topicID string) (*GooglePubsub, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)
	return &GooglePubsub{topic: topic}, nil
}

// PublishReport serializes req as JSON and publishes it to the topic,
// per the wire format in the external interfaces section.
func (g *GooglePubsub) PublishReport(ctx context.Context, req *domain.ReportRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("serialize report to JSON: %w", err)
	}

	result := g.topic.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	return nil
}

// Close releases the underlying topic's resources.
func (g *GooglePubsub) Close() {
	g.topic.Stop()
}
