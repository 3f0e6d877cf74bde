// Package slackbot posts order notifications to Slack and handles the
// approve/reject interaction round trip.
package slackbot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/orderdesk/order-intake/internal/order"
)

// Slack rejects section text beyond 3000 characters; the original mail text
// is cut well under that so the extracted detail always fits alongside it.
const maxOriginalTextLen = 2000

const (
	actionApprove = "approve"
	actionReject  = "reject"
	approvalBlock = "order_approval"
)

// BuildOrderNotification renders one inbound order as Block Kit: the
// original text, the extracted records, a stock flag, and approve/reject
// buttons. The records ride serialized in the button values so approval
// registers exactly what was shown, not a re-extraction.
func BuildOrderNotification(originalText string, records []order.Record, inStock bool) ([]slack.Block, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to notify")
	}
	serialized, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("serialize records for button payload: %w", err)
	}

	stockStatus := "✅ 在庫あり"
	if !inStock {
		stockStatus = "❌ 在庫不足"
	}

	var detail strings.Builder
	detail.WriteString("*抽出内容：*\n")
	detail.WriteString("- 顧客: " + records[0].CustomerName + "\n")
	if len(records) == 1 {
		detail.WriteString("- 商品: " + records[0].ProductID + "\n")
		fmt.Fprintf(&detail, "- 数量: %d\n", records[0].Quantity)
	} else {
		for _, r := range records {
			fmt.Fprintf(&detail, "- 商品: %s ×%d\n", r.ProductID, r.Quantity)
		}
	}
	detail.WriteString("- 配送希望日: " + records[0].DeliveryDateString() + "\n")
	detail.WriteString("- 在庫: " + stockStatus)

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, ":package: 新しい注文が届きました", false, false),
			nil, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "*原文：*```"+truncateText(originalText)+"```", false, false),
			nil, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, detail.String(), false, false),
			nil, nil),
		slack.NewActionBlock(approvalBlock,
			slack.NewButtonBlockElement(actionApprove, string(serialized),
				slack.NewTextBlockObject(slack.PlainTextType, "✅ 承認", true, false)),
			slack.NewButtonBlockElement(actionReject, string(serialized),
				slack.NewTextBlockObject(slack.PlainTextType, "❌ 差し戻し", true, false)),
		),
	}
	return blocks, nil
}

// truncateText caps the quoted original at the notification boundary,
// cutting on a rune so multi-byte text never splits mid-character.
func truncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxOriginalTextLen {
		return s
	}
	return string(runes[:maxOriginalTextLen]) + "…"
}
