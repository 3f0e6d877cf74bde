package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/orderdesk/order-intake/internal/common"
	"github.com/orderdesk/order-intake/internal/llm/openai"
	"github.com/orderdesk/order-intake/internal/rag"
	"github.com/orderdesk/order-intake/internal/repository"
)

// ragindex embeds the master dictionaries and writes the normalization
// index. Run it whenever products.md or customers.md changes.
func main() {
	productsPath := flag.String("products", "products.md", "product master dictionary")
	customersPath := flag.String("customers", "customers.md", "customer master dictionary")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY is required to build the index")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, pool, err := repository.Open(ctx, repository.Config{DSN: cfg.Index.DSN}, logger)
	if err != nil {
		logger.Error("open index store", "error", err)
		os.Exit(1)
	}
	defer repository.Close(client, pool, logger)

	if err := repository.Migrate(ctx, client); err != nil {
		logger.Error("migrate index store", "error", err)
		os.Exit(1)
	}

	embedder := openai.NewClient(openai.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		EmbeddingModel: cfg.LLM.EmbedModel,
		Timeout:        cfg.LLM.Timeout,
	}, logger)
	store := rag.NewVectorStore(embedder, repository.NewIndexDocRepository(client, logger), logger)

	for kind, path := range map[string]string{
		rag.KindProduct:  *productsPath,
		rag.KindCustomer: *customersPath,
	} {
		entries, err := loadEntries(path)
		if err != nil {
			logger.Error("load dictionary", "path", path, "error", err)
			os.Exit(1)
		}
		if err := store.Build(ctx, kind, entries); err != nil {
			logger.Error("build index", "kind", kind, "error", err)
			os.Exit(1)
		}
		logger.Info("index built", "kind", kind, "entries", len(entries))
	}
}

// loadEntries reads one dictionary file, skipping blank lines.
func loadEntries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, scanner.Err()
}
