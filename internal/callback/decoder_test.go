package callback

import "testing"

func withReporterTextBlock(reporterText string) string {
	return `{
		"block_id": "reporterText",
		"elements": [{"type": "plain_text", "text": "` + reporterText + `"}]
	}`
}

func pubkeyPayload(actionID, reporterPubkeyHex, reportedPubkeyHex, reporterText string) []byte {
	return []byte(`{
		"response_url": "https://hooks.slack.test/actions/T000/B000/xyz",
		"user": {"username": "moderator-bob"},
		"actions": [{"action_id": "` + actionID + `", "value": "` + reporterPubkeyHex + `"}],
		"message": {
			"blocks": [
				{"block_id": "header", "elements": []},
				` + withReporterTextBlock(reporterText) + `,
				{"block_id": "reportedPubkey", "elements": [{"type": "plain_text", "text": "` + reportedPubkeyHex + `"}]}
			]
		}
	}`)
}

func TestDecode_CategoryChosen(t *testing.T) {
	payload := pubkeyPayload("hate", "reporterpubkeyhex", "reportedpubkeyhex", "this account posts hateful content")

	action, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !action.HasCategory {
		t.Fatal("HasCategory = false, want true for a category button")
	}
	if action.Category.String() != "hate" {
		t.Errorf("Category = %v, want hate", action.Category)
	}
	if action.Username != "moderator-bob" {
		t.Errorf("Username = %q, want moderator-bob", action.Username)
	}
	if action.ResponseURL != "https://hooks.slack.test/actions/T000/B000/xyz" {
		t.Errorf("ResponseURL = %q, unexpected", action.ResponseURL)
	}
	if action.Request.ReporterPubkey != "reporterpubkeyhex" {
		t.Errorf("ReporterPubkey = %q, want reporterpubkeyhex", action.Request.ReporterPubkey)
	}
	if action.Request.Target.PubkeyHex() != "reportedpubkeyhex" {
		t.Errorf("Target.PubkeyHex() = %q, want reportedpubkeyhex", action.Request.Target.PubkeyHex())
	}
	if action.Request.ReporterText != "this account posts hateful content" {
		t.Errorf("ReporterText = %q, unexpected", action.Request.ReporterText)
	}
}

func TestDecode_SkipButton_HasNoCategory(t *testing.T) {
	payload := pubkeyPayload("skip", "reporterpubkeyhex", "reportedpubkeyhex", "")

	action, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if action.HasCategory {
		t.Error("HasCategory = true, want false for the skip button")
	}
}

func TestDecode_MissingResponseURL(t *testing.T) {
	payload := []byte(`{
		"user": {"username": "bob"},
		"actions": [{"action_id": "hate", "value": "x"}],
		"message": {"blocks": []}
	}`)

	if _, err := Decode(payload); err == nil {
		t.Fatal("expected error for missing response_url")
	}
}

func TestDecode_MissingTargetBlock(t *testing.T) {
	payload := []byte(`{
		"response_url": "https://hooks.slack.test/x",
		"user": {"username": "bob"},
		"actions": [{"action_id": "hate", "value": "reporterpubkeyhex"}],
		"message": {"blocks": [{"block_id": "header", "elements": []}]}
	}`)

	if _, err := Decode(payload); err == nil {
		t.Fatal("expected error when neither reportedEvent nor reportedPubkey block is present")
	}
}

func TestDecode_MissingActions(t *testing.T) {
	payload := []byte(`{
		"response_url": "https://hooks.slack.test/x",
		"user": {"username": "bob"},
		"actions": [],
		"message": {"blocks": []}
	}`)

	if _, err := Decode(payload); err == nil {
		t.Fatal("expected error for empty actions array")
	}
}
