// Package bridge drives the intake loop: poll the mailbox (and the drop
// folder), run each document through the pipeline, and post the result to
// Slack for approval.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-imap/v2"

	"github.com/orderdesk/order-intake/internal/extract"
	"github.com/orderdesk/order-intake/internal/mail"
	"github.com/orderdesk/order-intake/internal/normalize"
	"github.com/orderdesk/order-intake/internal/order"
)

// MailSource yields unseen mailbox messages. Satisfied by *mail.Listener.
type MailSource interface {
	FetchUnseen() ([]mail.Message, error)
	MarkSeen(uid imap.UID) error
}

// Processor turns one raw input into order records. Satisfied by
// *pipeline.Pipeline.
type Processor interface {
	Process(ctx context.Context, in normalize.RawInput) ([]order.Record, error)
}

// StockChecker answers whether a product has enough units. Satisfied by
// *orders.Service.
type StockChecker interface {
	CheckStock(ctx context.Context, productID string, quantity int) (bool, error)
}

// Notifier posts the approval request. Satisfied by *slackbot.Notifier.
type Notifier interface {
	Notify(ctx context.Context, originalText string, records []order.Record, inStock bool) error
}

type Bridge struct {
	source     MailSource
	normalizer *normalize.Normalizer
	processor  Processor
	stock      StockChecker
	notifier   Notifier
	interval   time.Duration
	logger     *slog.Logger
}

func New(source MailSource, normalizer *normalize.Normalizer, processor Processor,
	stock StockChecker, notifier Notifier, interval time.Duration, logger *slog.Logger) *Bridge {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		source:     source,
		normalizer: normalizer,
		processor:  processor,
		stock:      stock,
		notifier:   notifier,
		interval:   interval,
		logger:     logger,
	}
}

// Run polls the mailbox until the context ends. A failing poll waits out
// the interval and tries again; the loop never dies on a transient error.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("bridge.started", "poll_interval", b.interval)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bridge.stopped")
			return ctx.Err()
		case <-ticker.C:
			b.pollOnce(ctx)
		}
	}
}

func (b *Bridge) pollOnce(ctx context.Context) {
	messages, err := b.source.FetchUnseen()
	if err != nil {
		b.logger.Error("bridge.poll.fetch_failed", "error", err)
		return
	}
	if len(messages) == 0 {
		return
	}
	b.logger.Info("bridge.poll.unseen", "count", len(messages))

	for _, msg := range messages {
		if err := b.handleRaw(ctx, msg.Raw); err != nil {
			// One bad document never blocks the rest of the mailbox.
			b.logger.Error("bridge.message.failed", "uid", msg.UID, "error", err)
		}
		// Acknowledged either way: a document the cascade cannot parse
		// would fail identically on every poll.
		if err := b.source.MarkSeen(msg.UID); err != nil {
			b.logger.Warn("bridge.message.ack_failed", "uid", msg.UID, "error", err)
		}
	}
}

func (b *Bridge) handleRaw(ctx context.Context, raw []byte) error {
	in, err := mail.ParseMessage(raw)
	if err != nil {
		return err
	}
	return b.HandleInput(ctx, in)
}

// HandleInput runs one document end to end: pipeline, stock check,
// notification. Extraction and validation failures are expected operational
// noise and come back as errors for the caller to log.
func (b *Bridge) HandleInput(ctx context.Context, in normalize.RawInput) error {
	records, err := b.processor.Process(ctx, in)
	if err != nil {
		var exErr *extract.ExtractionError
		var valErr *order.ValidationError
		switch {
		case errors.As(err, &exErr):
			b.logger.Warn("bridge.extraction_failed", "reason", exErr.Reason, "raw_len", len(exErr.Raw))
		case errors.As(err, &valErr):
			b.logger.Warn("bridge.validation_failed", "missing", valErr.Missing, "reason", valErr.Reason)
		}
		return err
	}

	inStock := true
	for _, rec := range records {
		ok, err := b.stock.CheckStock(ctx, rec.ProductID, rec.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			inStock = false
			break
		}
	}

	text := b.normalizer.Normalize(ctx, in)
	return b.notifier.Notify(ctx, text, records, inStock)
}

// RunWatcher consumes drop-folder events until the channel closes, feeding
// each file through the same handling as a mail message.
func (b *Bridge) RunWatcher(ctx context.Context, paths <-chan string) {
	for path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.Error("bridge.drop.read_failed", "path", path, "error", err)
			continue
		}
		if err := b.HandleInput(ctx, normalize.BytesInput(data)); err != nil {
			b.logger.Error("bridge.drop.failed", "path", path, "error", err)
		}
	}
}
