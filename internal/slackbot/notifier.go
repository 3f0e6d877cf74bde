package slackbot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/orderdesk/order-intake/internal/order"
)

// API is the slice of the Slack Web API this package calls. Satisfied by
// *slack.Client.
type API interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
}

// Notifier posts order notifications into the intake channel.
type Notifier struct {
	api     API
	channel string
	logger  *slog.Logger
}

func NewNotifier(api API, channel string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{api: api, channel: channel, logger: logger}
}

// Notify posts one approval request for the given records.
func (n *Notifier) Notify(ctx context.Context, originalText string, records []order.Record, inStock bool) error {
	blocks, err := BuildOrderNotification(originalText, records, inStock)
	if err != nil {
		return err
	}
	_, ts, err := n.api.PostMessageContext(ctx, n.channel, slack.MsgOptionBlocks(blocks...))
	if err != nil {
		return fmt.Errorf("post order notification: %w", err)
	}
	n.logger.Info("slack.notification.posted", "channel", n.channel, "ts", ts, "records", len(records))
	return nil
}
