// Package callback implements the CallbackDecoder: a pure function layer
// parsing the chat workspace's interactive-action payload into a
// ReportRequest and an optional chosen ModerationCategory.
package callback

import (
	"encoding/json"
	"fmt"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// DecodedAction is the CallbackDecoder's output: everything the HTTP
// handler needs to publish a confirmation and, if a category was chosen,
// forward a ModeratedReport.
type DecodedAction struct {
	ResponseURL string
	Username    string
	Request     *domain.ReportRequest
	Category    domain.ModerationCategory
	HasCategory bool
}

// Decode parses the raw interactive-action JSON payload: a
// nested object with known field names response_url, user.username,
// actions[0].action_id, actions[0].value, message.blocks[...].
func Decode(payload []byte) (*DecodedAction, error) {
	var root map[string]any
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("parse callback payload: %w", err)
	}

	responseURL, ok := stringAt(root, "response_url")
	if !ok {
		return nil, fmt.Errorf("callback payload: missing response_url")
	}

	username, ok := stringAtPath(root, "user", "username")
	if !ok {
		return nil, fmt.Errorf("callback payload: missing user.username")
	}

	actions, ok := root["actions"].([]any)
	if !ok || len(actions) == 0 {
		return nil, fmt.Errorf("callback payload: missing actions[0]")
	}
	action, ok := actions[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("callback payload: actions[0] is not an object")
	}

	actionID, ok := stringAt(action, "action_id")
	if !ok {
		return nil, fmt.Errorf("callback payload: missing actions[0].action_id")
	}
	actionValue, _ := stringAt(action, "value")

	blocks, _ := stringAtPath2(root, "message", "blocks")

	target, err := decodeTarget(blocks, actionValue)
	if err != nil {
		return nil, err
	}

	reporterText, _ := findBlockText(blocks, "reporterText")

	reporterPubkey, ok := stringAt(action, "value")
	if !ok || reporterPubkey == "" {
		return nil, fmt.Errorf("callback payload: missing actions[0].value (reporter pubkey)")
	}

	req := &domain.ReportRequest{
		Target:         target,
		ReporterPubkey: reporterPubkey,
		ReporterText:   reporterText,
	}

	category, hasCategory := domain.ModerationCategoryFromString(actionID)

	return &DecodedAction{
		ResponseURL: responseURL,
		Username:    username,
		Request:     req,
		Category:    category,
		HasCategory: hasCategory,
	}, nil
}

// decodeTarget finds either a "reportedEvent" or "reportedPubkey" block.
// Exactly one must be present; pubkey wins if both accidentally
// appear.
func decodeTarget(blocks []any, _ string) (domain.ReportTarget, error) {
	if pubkeyText, ok := findBlockText(blocks, "reportedPubkey"); ok {
		return domain.ReportTarget{Pubkey: pubkeyText}, nil
	}
	if eventText, ok := findBlockText(blocks, "reportedEvent"); ok {
		var ev domain.NetworkEvent
		if err := json.Unmarshal([]byte(eventText), &ev); err != nil {
			return domain.ReportTarget{}, fmt.Errorf("parse reportedEvent block: %w", err)
		}
		return domain.ReportTarget{Event: &ev}, nil
	}
	return domain.ReportTarget{}, fmt.Errorf("callback payload: neither reportedEvent nor reportedPubkey block present")
}

// findBlockText searches blocks for the one whose block_id matches id and
// returns its innermost text value, trying both the rich_text-nested shape
// (elements[0].elements[0].text) and the context-block shape
// (elements[0].text).
func findBlockText(blocks []any, id string) (string, bool) {
	for _, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if blockID, _ := stringAt(block, "block_id"); blockID != id {
			continue
		}

		elements, ok := block["elements"].([]any)
		if !ok || len(elements) == 0 {
			continue
		}
		first, ok := elements[0].(map[string]any)
		if !ok {
			continue
		}

		if text, ok := stringAt(first, "text"); ok {
			return text, true
		}
		if nested, ok := first["elements"].([]any); ok && len(nested) > 0 {
			if nestedFirst, ok := nested[0].(map[string]any); ok {
				if text, ok := stringAt(nestedFirst, "text"); ok {
					return text, true
				}
			}
		}
	}
	return "", false
}

func stringAt(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringAtPath(m map[string]any, keys ...string) (string, bool) {
	cur := m
	for i, key := range keys {
		v, ok := cur[key]
		if !ok {
			return "", false
		}
		if i == len(keys)-1 {
			s, ok := v.(string)
			return s, ok
		}
		next, ok := v.(map[string]any)
		if !ok {
			return "", false
		}
		cur = next
	}
	return "", false
}

// stringAtPath2 walks to a nested array field (message.blocks), returning
// it as []any.
func stringAtPath2(m map[string]any, outer, inner string) ([]any, bool) {
	o, ok := m[outer].(map[string]any)
	if !ok {
		return nil, false
	}
	arr, ok := o[inner].([]any)
	return arr, ok
}
