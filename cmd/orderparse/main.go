package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/orderdesk/order-intake/internal/common"
	"github.com/orderdesk/order-intake/internal/export"
	"github.com/orderdesk/order-intake/internal/extract"
	"github.com/orderdesk/order-intake/internal/llm"
	"github.com/orderdesk/order-intake/internal/llm/openai"
	"github.com/orderdesk/order-intake/internal/normalize"
	"github.com/orderdesk/order-intake/internal/pipeline"
	"github.com/orderdesk/order-intake/internal/tabular"
)

// orderparse runs one document through the extraction pipeline and prints
// the resulting records. Useful for checking what a mail body or fax PDF
// will turn into before it reaches the mailbox.
func main() {
	xlsxOut := flag.String("xlsx", "", "write records to this XLSX file instead of stdout JSON")
	noLLM := flag.Bool("no-llm", false, "skip the LLM strategy even when a credential is configured")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	var data []byte
	var err error
	switch flag.NArg() {
	case 0:
		data, err = io.ReadAll(os.Stdin)
	case 1:
		data, err = os.ReadFile(flag.Arg(0))
	default:
		logger.Error("usage", "cmd", "orderparse [-xlsx out.xlsx] [-no-llm] [file]")
		os.Exit(2)
	}
	if err != nil {
		logger.Error("read input", "error", err)
		os.Exit(1)
	}

	var completer llm.Completer
	if cfg.LLM.APIKey != "" && !*noLLM {
		completer = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}

	normalizer := normalize.New(normalize.NewCommandScanner(normalize.ScanConfig{}, logger), logger)
	pipe := pipeline.New(normalizer, tabular.New(logger), extract.NewCascade(completer, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, err := pipe.Process(ctx, normalize.BytesInput(data))
	if err != nil {
		logger.Error("parse document", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		workbook, err := export.NewService(logger).OrdersXLSX(records)
		if err != nil {
			logger.Error("render workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, workbook, 0o644); err != nil {
			logger.Error("write workbook", "error", err)
			os.Exit(1)
		}
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		logger.Error("encode records", "error", err)
		os.Exit(1)
	}
}
