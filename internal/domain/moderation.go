package domain

import (
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
)

// ModerationCategory is the closed taxonomy a human moderator chooses from.
// Category builds its NIP-56 report type and NIP-69 label from static
// per-category data; there is no dynamic extension point.
type ModerationCategory int

const (
	CategoryHate ModerationCategory = iota
	CategoryHateThreatening
	CategoryHarassment
	CategoryHarassmentThreatening
	CategorySelfHarm
	CategorySelfHarmIntent
	CategorySelfHarmInstructions
	CategorySexual
	CategorySexualMinors
	CategoryViolence
	CategoryViolenceGraphic
)

type categoryInfo struct {
	str         string
	description string
	nip56       string
	nip69       string
}

var categoryTable = map[ModerationCategory]categoryInfo{
	CategoryHate:                  {"hate", "Content that expresses, incites, or promotes hate based on identity", "other", "IH"},
	CategoryHateThreatening:       {"hate/threatening", "Hateful content that also includes violence or serious harm towards the targeted group", "other", "HC-bhd"},
	CategoryHarassment:            {"harassment", "Content that expresses, incites, or promotes harassing language towards any target", "other", "IL-har"},
	CategoryHarassmentThreatening: {"harassment/threatening", "Harassment content that also includes violence or serious harm towards any target", "other", "HC-bhd"},
	CategorySelfHarm:              {"self-harm", "Content that promotes, encourages, or depicts acts of self-harm", "other", "HC-bhd"},
	CategorySelfHarmIntent:        {"self-harm/intent", "Content where the speaker expresses intent to engage in self-harm", "other", "HC-bhd"},
	CategorySelfHarmInstructions:  {"self-harm/instructions", "Content that provides instructions on how to commit acts of self-harm", "other", "HC-bhd"},
	CategorySexual:                {"sexual", "Content meant to arouse sexual excitement", "nudity", "NS"},
	CategorySexualMinors:          {"sexual/minors", "Sexual content that includes an individual under 18 years old", "illegal", "IL-csa"},
	CategoryViolence:              {"violence", "Content that depicts death, violence, or physical injury", "other", "VI"},
	CategoryViolenceGraphic:       {"violence/graphic", "Content that depicts death, violence, or physical injury in graphic detail", "other", "VI"},
}

var allCategories = []ModerationCategory{
	CategoryHate, CategoryHateThreatening, CategoryHarassment, CategoryHarassmentThreatening,
	CategorySelfHarm, CategorySelfHarmIntent, CategorySelfHarmInstructions,
	CategorySexual, CategorySexualMinors, CategoryViolence, CategoryViolenceGraphic,
}

// AllModerationCategories returns the closed set of categories in a stable
// order, for building the chat action-button template.
func AllModerationCategories() []ModerationCategory {
	return allCategories
}

// String returns the category's wire/button identifier.
func (c ModerationCategory) String() string {
	info, ok := categoryTable[c]
	if !ok {
		return "unknown"
	}
	return info.str
}

// Description returns the human-readable text used as the published
// ModeratedReport's content.
func (c ModerationCategory) Description() string {
	return categoryTable[c].description
}

// NIP56ReportType returns the report kind used as the third tag field.
func (c ModerationCategory) NIP56ReportType() string {
	return categoryTable[c].nip56
}

// NIP69Label returns the short label code used in the "l" tag.
func (c ModerationCategory) NIP69Label() string {
	return categoryTable[c].nip69
}

// ModerationCategoryFromString parses a category's wire identifier. The
// literal "skip" (or any unrecognized string) yields ok == false with no
// error — it is a valid, silent "no category" outcome, not a parse failure.
func ModerationCategoryFromString(s string) (ModerationCategory, bool) {
	for _, c := range allCategories {
		if categoryTable[c].str == s {
			return c, true
		}
	}
	return 0, false
}

// ModeratedReport is the signed kind-1984 event published back to the
// network once a human has chosen a category.
type ModeratedReport struct {
	Request  *ReportRequest
	Category ModerationCategory
}

// NewModeratedReport pairs a request with a category.
func NewModeratedReport(req *ReportRequest, cat ModerationCategory) *ModeratedReport {
	return &ModeratedReport{Request: req, Category: cat}
}

// BuildEvent signs and returns the kind-1984 network event, following the
// same build-then-sign shape as the rest of this codebase's event
// constructors: populate fields, call Sign, return.
func (m *ModeratedReport) BuildEvent(serviceSecretKey string) (*NetworkEvent, error) {
	pub, err := nostr.GetPublicKey(serviceSecretKey)
	if err != nil {
		return nil, fmt.Errorf("derive service pubkey: %w", err)
	}

	reportType := m.Category.NIP56ReportType()
	tags := nostr.Tags{
		{"p", m.Request.Target.PubkeyHex(), reportType},
	}
	if m.Request.Target.IsEvent() {
		tags = append(tags, nostr.Tag{"e", m.Request.Target.Event.ID, reportType})
	}
	tags = append(tags,
		nostr.Tag{"L", "MOD"},
		nostr.Tag{"l", "MOD>" + m.Category.NIP69Label(), "MOD"},
	)

	event := &nostr.Event{
		Kind:      KindModerationLabel,
		PubKey:    pub,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Tags:      tags,
		Content:   m.Category.Description(),
	}

	if err := event.Sign(serviceSecretKey); err != nil {
		return nil, fmt.Errorf("sign moderated report: %w", err)
	}
	return event, nil
}
