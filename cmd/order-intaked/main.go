package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"

	"github.com/orderdesk/order-intake/internal/bridge"
	"github.com/orderdesk/order-intake/internal/common"
	"github.com/orderdesk/order-intake/internal/extract"
	"github.com/orderdesk/order-intake/internal/ingest"
	"github.com/orderdesk/order-intake/internal/llm"
	"github.com/orderdesk/order-intake/internal/llm/openai"
	"github.com/orderdesk/order-intake/internal/mail"
	"github.com/orderdesk/order-intake/internal/mailer"
	"github.com/orderdesk/order-intake/internal/normalize"
	"github.com/orderdesk/order-intake/internal/notion"
	"github.com/orderdesk/order-intake/internal/orders"
	"github.com/orderdesk/order-intake/internal/pipeline"
	"github.com/orderdesk/order-intake/internal/server"
	"github.com/orderdesk/order-intake/internal/slackbot"
	"github.com/orderdesk/order-intake/internal/tabular"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Extraction stack. No LLM credential means the cascade ends in the
	// regex heuristic instead.
	var completer llm.Completer
	if cfg.LLM.APIKey != "" {
		completer = openai.NewClient(openai.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			EmbeddingModel: cfg.LLM.EmbedModel,
			Temperature:    cfg.LLM.Temperature,
			Timeout:        cfg.LLM.Timeout,
		}, logger)
	} else {
		logger.Info("no LLM credential, extraction falls back to regex heuristic")
	}
	normalizer := normalize.New(normalize.NewCommandScanner(normalize.ScanConfig{}, logger), logger)
	cascade := extract.NewCascade(completer, logger)
	pipe := pipeline.New(normalizer, tabular.New(logger), cascade, logger)

	// Record store and order service.
	store := notion.NewClient(notion.Config{
		APIKey:         cfg.Notion.APIKey,
		BaseURL:        cfg.Notion.BaseURL,
		ProductsDB:     cfg.Notion.ProductsDB,
		CustomersDB:    cfg.Notion.CustomersDB,
		OrdersDB:       cfg.Notion.OrdersDB,
		OrderDetailsDB: cfg.Notion.OrderDetailsDB,
		Timeout:        cfg.Notion.RequestTimeout,
	}, logger)

	var confirmations orders.Mailer = orders.NoopMailer{}
	if cfg.SMTP.Host != "" {
		confirmations = mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
		}, logger)
	}
	orderService := orders.NewService(store, confirmations, logger)

	// Slack surface.
	api := slack.New(cfg.Slack.BotToken)
	notifier := slackbot.NewNotifier(api, cfg.Slack.Channel, logger)
	interactions := slackbot.NewInteractions(api, orderService, logger)

	errCh := make(chan error, 3)

	// HTTP: health probe and interaction callbacks.
	httpSrv := server.New(cfg.Server.Addr, interactions, logger)
	go func() { errCh <- httpSrv.Run(ctx) }()

	// Mailbox polling and drop-folder ingestion share the bridge.
	var source bridge.MailSource
	if cfg.Mail.Host != "" {
		listener := mail.NewListener(mail.ListenerConfig{
			Host:     cfg.Mail.Host,
			Username: cfg.Mail.User,
			Password: cfg.Mail.Password,
			Mailbox:  cfg.Mail.Mailbox,
		}, logger)
		defer func() { _ = listener.Close() }()
		source = listener
	} else {
		logger.Info("IMAP_HOST not set, mailbox polling disabled")
	}
	b := bridge.New(source, normalizer, pipe, orderService, notifier, cfg.Mail.PollInterval, logger)
	if source != nil {
		go func() { errCh <- b.Run(ctx) }()
	}

	if len(cfg.Ingest.WatchDirs) > 0 {
		paths, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:    cfg.Ingest.WatchDirs,
			Debounce: cfg.Ingest.Debounce,
		}, logger)
		if err != nil {
			logger.Error("start drop-folder watcher", "error", err)
			os.Exit(1)
		}
		go b.RunWatcher(ctx, paths)
		go func() {
			for err := range watchErrs {
				logger.Error("drop-folder watcher", "error", err)
			}
		}()
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("intake daemon exited", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
