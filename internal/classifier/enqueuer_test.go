package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/metrics"
)

type fakePubsub struct {
	published []*domain.ReportRequest
	err       error
}

func (f *fakePubsub) PublishReport(ctx context.Context, req *domain.ReportRequest) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, req)
	return nil
}

func runEnqueuer(t *testing.T, pubsub *fakePubsub) (*Enqueuer, func()) {
	t.Helper()
	en := NewEnqueuer(pubsub)
	ctx, cancel := context.WithCancel(context.Background())
	go en.Run(ctx)
	return en, cancel
}

func TestEnqueuer_PublishesEventTargetedReports(t *testing.T) {
	pubsub := &fakePubsub{}
	en, cancel := runEnqueuer(t, pubsub)
	defer cancel()

	ev := &domain.NetworkEvent{ID: "evt1", PubKey: "authorpubkey"}
	req := &domain.ReportRequest{Target: domain.ReportTarget{Event: ev}}
	en.Enqueue(req)

	waitForLen(t, func() int { return len(pubsub.published) }, 1)
	if pubsub.published[0] != req {
		t.Error("enqueued request does not match published request")
	}
}

func TestEnqueuer_SkipsPubkeyTargetedReports(t *testing.T) {
	pubsub := &fakePubsub{}
	en, cancel := runEnqueuer(t, pubsub)
	defer cancel()

	req := &domain.ReportRequest{Target: domain.ReportTarget{Pubkey: "somepubkey"}}
	en.Enqueue(req)

	// Round-trip a second, event-targeted request through the same inbox to
	// know the first (skipped) one has already been handled.
	barrier := &domain.ReportRequest{Target: domain.ReportTarget{Event: &domain.NetworkEvent{ID: "barrier"}}}
	en.Enqueue(barrier)
	waitForLen(t, func() int { return len(pubsub.published) }, 1)

	if len(pubsub.published) != 1 || pubsub.published[0].Target.Event.ID != "barrier" {
		t.Error("pubkey-targeted report was published to the classifier queue")
	}
}

func TestEnqueuer_CountsPublishErrors(t *testing.T) {
	pubsub := &fakePubsub{err: errors.New("pubsub unavailable")}
	en, cancel := runEnqueuer(t, pubsub)
	defer cancel()

	before := counterValue(t, metrics.EventsEnqueuedError)

	ev := &domain.NetworkEvent{ID: "evt1"}
	en.Enqueue(&domain.ReportRequest{Target: domain.ReportTarget{Event: ev}})

	time.Sleep(50 * time.Millisecond)
	if len(pubsub.published) != 0 {
		t.Error("expected no successful publishes when PublishReport errors")
	}
	if got := counterValue(t, metrics.EventsEnqueuedError); got != before+1 {
		t.Errorf("events_enqueued_error = %v, want %v", got, before+1)
	}
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func waitForLen(t *testing.T, lenFn func() int, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if lenFn() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for length >= %d, got %d", want, lenFn())
}
