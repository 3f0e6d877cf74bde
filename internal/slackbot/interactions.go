package slackbot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/orderdesk/order-intake/internal/notion"
	"github.com/orderdesk/order-intake/internal/order"
)

// OrderRegistrar registers an approved record in the record store.
// Satisfied by *orders.Service.
type OrderRegistrar interface {
	NewOrderID() string
	ProcessOrder(ctx context.Context, rec order.Record, orderID, status, approvedBy string) (*notion.Page, error)
}

const statusApproved = "承認済"

// Interactions resolves approve/reject button presses: approval registers
// every record in the payload, then the original message is rewritten so the
// buttons become an audit line.
type Interactions struct {
	api    API
	orders OrderRegistrar
	now    func() time.Time
	logger *slog.Logger
}

func NewInteractions(api API, orders OrderRegistrar, logger *slog.Logger) *Interactions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interactions{api: api, orders: orders, now: time.Now, logger: logger}
}

// Handle processes one interaction callback. Unknown action ids are ignored;
// Slack retries on error, so only the message update failing is reported.
func (h *Interactions) Handle(ctx context.Context, callback slack.InteractionCallback) error {
	for _, action := range callback.ActionCallback.BlockActions {
		switch action.ActionID {
		case actionApprove:
			return h.approve(ctx, callback, action.Value)
		case actionReject:
			return h.reject(ctx, callback)
		}
	}
	return nil
}

func (h *Interactions) approve(ctx context.Context, callback slack.InteractionCallback, payload string) error {
	userID := callback.User.ID
	stamp := h.now().UTC().Format("2006-01-02 15:04:05 UTC")
	h.logger.Info("slack.approve", "user", userID, "channel", callback.Channel.ID)

	var records []order.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return fmt.Errorf("decode approval payload: %w", err)
	}

	var registered []string
	var failure error
	for _, rec := range records {
		orderID := h.orders.NewOrderID()
		if _, err := h.orders.ProcessOrder(ctx, rec, orderID, statusApproved, userID); err != nil {
			h.logger.Error("slack.approve.register_failed", "order_id", orderID, "error", err)
			failure = err
			break
		}
		registered = append(registered, orderID)
	}

	storeStatus := "🗒 Notion登録済: " + strings.Join(registered, ", ")
	if failure != nil {
		storeStatus = fmt.Sprintf("❗️ Notion登録失敗: %v", failure)
	}

	blocks := replaceActions(callback.Message.Blocks.BlockSet,
		fmt.Sprintf("✅ 承認 by <@%s> (%s)", userID, stamp))
	blocks = append(blocks, contextLine(storeStatus))
	return h.update(ctx, callback, blocks)
}

func (h *Interactions) reject(ctx context.Context, callback slack.InteractionCallback) error {
	userID := callback.User.ID
	stamp := h.now().UTC().Format("2006-01-02 15:04:05 UTC")
	h.logger.Info("slack.reject", "user", userID, "channel", callback.Channel.ID)

	blocks := replaceActions(callback.Message.Blocks.BlockSet,
		fmt.Sprintf("❌ 差し戻し by <@%s> (%s)", userID, stamp))
	return h.update(ctx, callback, blocks)
}

func (h *Interactions) update(ctx context.Context, callback slack.InteractionCallback, blocks []slack.Block) error {
	_, _, _, err := h.api.UpdateMessageContext(ctx,
		callback.Channel.ID, callback.Message.Timestamp,
		slack.MsgOptionBlocks(blocks...))
	if err != nil {
		return fmt.Errorf("update notification message: %w", err)
	}
	return nil
}

// replaceActions swaps the button block for a resolution line, keeping the
// rest of the message intact.
func replaceActions(blocks []slack.Block, resolution string) []slack.Block {
	out := make([]slack.Block, 0, len(blocks)+1)
	for _, b := range blocks {
		if b.BlockType() == slack.MBTAction {
			out = append(out, contextLine(resolution))
			continue
		}
		out = append(out, b)
	}
	return out
}

func contextLine(text string) *slack.ContextBlock {
	return slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, text, false, false))
}
