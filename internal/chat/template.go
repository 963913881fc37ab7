package chat

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/keanuklestil/reportinator/internal/domain"
)

// blockIDReportedPubkey is the context block id the CallbackDecoder looks
// for when extracting the reported identity back out of a callback.
const blockIDReportedPubkey = "reportedPubkey"

// blockIDReporterText is the section block id carrying the free-text
// reason, when present.
const blockIDReporterText = "reporterText"

// renderTemplate builds the fixed interactive message structure from
// header, free-text block, a context block carrying the reported
// pubkey, a divider, and an action block of 12 buttons (skip + one per
// ModerationCategory), each valued with the reporter's hex pubkey.
func renderTemplate(req *domain.ReportRequest, reportedLink, reporterLink string) []slack.Block {
	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("New moderation request sent by %s to report account %s", reporterLink, reportedLink), false, false),
		nil, nil,
	)

	reporterText := req.ReporterText
	textBlock := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, reporterText, false, false),
		nil, nil,
	)
	textBlock.BlockID = blockIDReporterText

	reportedPubkeyBlock := slack.NewContextBlock(blockIDReportedPubkey,
		slack.NewTextBlockObject(slack.PlainTextType, req.Target.PubkeyHex(), false, false),
	)

	return []slack.Block{
		header,
		textBlock,
		reportedPubkeyBlock,
		slack.NewDividerBlock(),
		slack.NewActionBlock("", categoryButtons(req.ReporterPubkey)...),
	}
}

// categoryButtons builds the skip button plus one button per
// ModerationCategory, all valued with reporterPubkeyHex so the callback can
// round-trip that identity.
func categoryButtons(reporterPubkeyHex string) []slack.BlockElement {
	buttons := make([]slack.BlockElement, 0, len(domain.AllModerationCategories())+1)

	skip := slack.NewButtonBlockElement("skip", reporterPubkeyHex,
		slack.NewTextBlockObject(slack.PlainTextType, "Skip", false, false))
	skip.Style = slack.StyleDanger
	buttons = append(buttons, skip)

	for _, cat := range domain.AllModerationCategories() {
		label := cat.String()
		btn := slack.NewButtonBlockElement(label, reporterPubkeyHex,
			slack.NewTextBlockObject(slack.PlainTextType, label, false, false))
		buttons = append(buttons, btn)
	}

	return buttons
}
