package domain

import (
	"encoding/json"
	"fmt"
)

// ReportTarget is the tagged union of what a report request is about: a
// specific event, or a pubkey-level identity report.
type ReportTarget struct {
	Event  *NetworkEvent
	Pubkey string // hex-encoded, set only when Event is nil
}

// IsEvent reports whether the target is an event report.
func (t ReportTarget) IsEvent() bool { return t.Event != nil }

// IsPubkey reports whether the target is a pubkey-only report.
func (t ReportTarget) IsPubkey() bool { return t.Event == nil }

// PubkeyHex returns the hex pubkey the report is about, regardless of
// whether the target is an event (its author) or a bare pubkey.
func (t ReportTarget) PubkeyHex() string {
	if t.Event != nil {
		return t.Event.PubKey
	}
	return t.Pubkey
}

// reportTargetWire is the JSON shape used both inside a gift-wrapped rumor
// and in the pub/sub message body.
type reportTargetWire struct {
	ReportedEvent  *NetworkEvent `json:"reportedEvent,omitempty"`
	ReportedPubkey string        `json:"reportedPubkey,omitempty"`
}

// MarshalJSON renders the target in the wire shape used by both the rumor
// payload and the pub/sub message.
func (t ReportTarget) MarshalJSON() ([]byte, error) {
	if t.Event != nil {
		return json.Marshal(reportTargetWire{ReportedEvent: t.Event})
	}
	return json.Marshal(reportTargetWire{ReportedPubkey: t.Pubkey})
}

// UnmarshalJSON parses the wire shape back into a ReportTarget.
func (t *ReportTarget) UnmarshalJSON(data []byte) error {
	var w reportTargetWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ReportedEvent != nil {
		t.Event = w.ReportedEvent
		t.Pubkey = ""
		return nil
	}
	if w.ReportedPubkey == "" {
		return fmt.Errorf("report target: neither reportedEvent nor reportedPubkey present")
	}
	t.Event = nil
	t.Pubkey = w.ReportedPubkey
	return nil
}

// ReportRequestRumor is the payload carried inside the unsigned kind-14
// rumor. The reporter's identity is never read from this struct — it comes
// from the rumor's signer (see GiftUnwrapper).
type ReportRequestRumor struct {
	Target       ReportTarget `json:"-"`
	ReporterText string       `json:"reporterText,omitempty"`
}

type reportRequestRumorWire struct {
	reportTargetWire
	ReporterText string `json:"reporterText,omitempty"`
}

// MarshalJSON flattens the target fields alongside reporterText, matching
// the rumor content shape produced by the gift-wrap test utility.
func (r ReportRequestRumor) MarshalJSON() ([]byte, error) {
	w := reportRequestRumorWire{ReporterText: r.ReporterText}
	if r.Target.Event != nil {
		w.ReportedEvent = r.Target.Event
	} else {
		w.ReportedPubkey = r.Target.Pubkey
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses a rumor's JSON content into target + free text.
func (r *ReportRequestRumor) UnmarshalJSON(data []byte) error {
	var w reportRequestRumorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ReportedEvent != nil {
		r.Target = ReportTarget{Event: w.ReportedEvent}
	} else if w.ReportedPubkey != "" {
		r.Target = ReportTarget{Pubkey: w.ReportedPubkey}
	} else {
		return fmt.Errorf("report request rumor: missing target")
	}
	r.ReporterText = w.ReporterText
	return nil
}

// ReportRequest is a validated request ready to be fanned out to the
// classifier queue and/or the chat workspace. It is produced once and never
// mutated; it may be read concurrently by both sinks.
type ReportRequest struct {
	Target         ReportTarget `json:"-"`
	ReporterPubkey string       `json:"reporterPubkey"`
	ReporterText   string       `json:"reporterText,omitempty"`
}

// MarshalJSON renders the pub/sub wire format: target fields
// flattened alongside reporterPubkey and reporterText.
func (r ReportRequest) MarshalJSON() ([]byte, error) {
	type wire struct {
		reportTargetWire
		ReporterPubkey string `json:"reporterPubkey"`
		ReporterText   string `json:"reporterText,omitempty"`
	}
	w := wire{ReporterPubkey: r.ReporterPubkey, ReporterText: r.ReporterText}
	if r.Target.Event != nil {
		w.ReportedEvent = r.Target.Event
	} else {
		w.ReportedPubkey = r.Target.Pubkey
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the pub/sub wire format back into a ReportRequest.
func (r *ReportRequest) UnmarshalJSON(data []byte) error {
	type wire struct {
		reportTargetWire
		ReporterPubkey string `json:"reporterPubkey"`
		ReporterText   string `json:"reporterText,omitempty"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ReportedEvent != nil {
		r.Target = ReportTarget{Event: w.ReportedEvent}
	} else if w.ReportedPubkey != "" {
		r.Target = ReportTarget{Pubkey: w.ReportedPubkey}
	} else {
		return fmt.Errorf("report request: missing target")
	}
	r.ReporterPubkey = w.ReporterPubkey
	r.ReporterText = w.ReporterText
	return nil
}

// NewReportRequest assembles a ReportRequest from a rumor and the rumor
// signer's pubkey, validating that an event-typed target verifies.
func NewReportRequest(rumor ReportRequestRumor, reporterPubkey string) (*ReportRequest, error) {
	if rumor.Target.IsEvent() {
		if !Verify(rumor.Target.Event) {
			return nil, fmt.Errorf("report target event failed signature verification")
		}
	}
	return &ReportRequest{
		Target:         rumor.Target,
		ReporterPubkey: reporterPubkey,
		ReporterText:   rumor.ReporterText,
	}, nil
}
