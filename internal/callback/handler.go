package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// Publisher is the slice of Supervisor this handler needs: forwarding a
// signed network event on to RelayDispatcher.publish.
type Publisher interface {
	Publish(ctx context.Context, event *domain.NetworkEvent) error
}

// Handler serves POST /callback/interactions.
type Handler struct {
	publisher        Publisher
	serviceSecretKey string
	httpClient       *http.Client
}

// NewHandler constructs a Handler that signs ModeratedReport events with
// serviceSecretKey and forwards them to publisher.
func NewHandler(publisher Publisher, serviceSecretKey string) *Handler {
	return &Handler{
		publisher:        publisher,
		serviceSecretKey: serviceSecretKey,
		httpClient:       &http.Client{Timeout: 5 * time.Second},
	}
}

// ServeHTTP decodes the form-encoded payload field, builds and (if a
// category was chosen) publishes the ModeratedReport, then posts a
// confirmation back to the embedded response_url. A payload that decodes
// gets a 200 with an empty body and the publish and confirmation run in
// the background; an unparseable form, a missing payload field, or a
// payload that fails to decode gets a 400.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	payload := r.FormValue("payload")
	if payload == "" {
		http.Error(w, "missing payload field", http.StatusBadRequest)
		return
	}

	action, err := Decode([]byte(payload))
	if err != nil {
		log.Printf("[Callback] failed to decode interaction payload: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	go h.handle(context.WithoutCancel(r.Context()), action)
}

func (h *Handler) handle(ctx context.Context, action *DecodedAction) {
	var message string
	if action.HasCategory {
		report := domain.NewModeratedReport(action.Request, action.Category)
		event, err := report.BuildEvent(h.serviceSecretKey)
		if err != nil {
			log.Printf("[Callback] failed to build moderated report: %v", err)
			return
		}
		if err := h.publisher.Publish(ctx, event); err != nil {
			log.Printf("[Callback] failed to publish moderated report: %v", err)
		}
		message = confirmationPublished(action, event)
	} else {
		message = confirmationSkipped(action)
	}

	if err := h.postResponse(ctx, action.ResponseURL, message); err != nil {
		log.Printf("[Callback] failed to post response to chat workspace: %v", err)
	}
}

func (h *Handler) postResponse(ctx context.Context, responseURL, text string) error {
	body, err := json.Marshal(map[string]string{
		"replace_original": "true",
		"text":             text,
	})
	if err != nil {
		return fmt.Errorf("serialize chat response: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build chat response request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post chat response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat workspace rejected response: status %d", resp.StatusCode)
	}
	return nil
}

func confirmationPublished(action *DecodedAction, event *domain.NetworkEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New Moderation Report\n")
	fmt.Fprintf(&b, "Report Confirmed By: %s\n", action.Username)
	fmt.Fprintf(&b, "Categorized As: %s\n", action.Category.String())
	fmt.Fprintf(&b, "Report Id: %s\n", event.ID)
	fmt.Fprintf(&b, "Requested By: %s\n", action.Request.ReporterPubkey)
	fmt.Fprintf(&b, "Reason:\n%s\n", action.Request.ReporterText)
	fmt.Fprintf(&b, "Reported Pubkey: %s\n", action.Request.Target.PubkeyHex())
	return b.String()
}

func confirmationSkipped(action *DecodedAction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Moderation Report Skipped\n")
	fmt.Fprintf(&b, "Report Skipped By: %s\n", action.Username)
	fmt.Fprintf(&b, "Requested By: %s\n", action.Request.ReporterPubkey)
	fmt.Fprintf(&b, "Reason:\n%s\n", action.Request.ReporterText)
	fmt.Fprintf(&b, "Reported Pubkey: %s\n", action.Request.Target.PubkeyHex())
	return b.String()
}
