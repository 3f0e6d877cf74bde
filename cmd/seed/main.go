package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/orderdesk/order-intake/internal/common"
	"github.com/orderdesk/order-intake/internal/notion"
)

// seed loads the product catalog (JSON) and customer master (CSV) into the
// Notion databases. One-shot setup tool for a fresh workspace.
func main() {
	productsPath := flag.String("products", "", "product catalog JSON file")
	customersPath := flag.String("customers", "", "customer master CSV file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.Notion.APIKey == "" {
		logger.Error("NOTION_API_KEY is required")
		os.Exit(1)
	}
	if *productsPath == "" && *customersPath == "" {
		logger.Error("usage", "cmd", "seed [-products catalog.json] [-customers customers.csv]")
		os.Exit(2)
	}

	client := notion.NewClient(notion.Config{
		APIKey:         cfg.Notion.APIKey,
		BaseURL:        cfg.Notion.BaseURL,
		ProductsDB:     cfg.Notion.ProductsDB,
		CustomersDB:    cfg.Notion.CustomersDB,
		OrdersDB:       cfg.Notion.OrdersDB,
		OrderDetailsDB: cfg.Notion.OrderDetailsDB,
		Timeout:        cfg.Notion.RequestTimeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *productsPath != "" {
		if err := seedProducts(ctx, client, *productsPath, logger); err != nil {
			logger.Error("seed products", "error", err)
			os.Exit(1)
		}
	}
	if *customersPath != "" {
		if err := seedCustomers(ctx, client, *customersPath, logger); err != nil {
			logger.Error("seed customers", "error", err)
			os.Exit(1)
		}
	}
}

func seedProducts(ctx context.Context, client *notion.Client, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var products []struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
	}
	if err := json.Unmarshal(data, &products); err != nil {
		return err
	}

	for _, p := range products {
		page, err := client.CreateProduct(ctx, notion.ProductPage{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
		})
		if err != nil {
			logger.Error("create product failed", "id", p.ID, "error", err)
			continue
		}
		logger.Info("product created", "id", p.ID, "page_id", page.ID)
	}
	return nil
}

func seedCustomers(ctx context.Context, client *notion.Client, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return err
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		name := field(row, "customer_name")
		existing := strings.ToLower(field(row, "is_existing"))
		page, err := client.CreateCustomer(ctx, notion.CustomerPage{
			ID:             field(row, "id"),
			CustomerName:   name,
			Email:          field(row, "email"),
			FirstOrderDate: parseJPDate(field(row, "first_order_date")),
			IsExisting:     existing == "yes" || existing == "true" || existing == "1",
		})
		if err != nil {
			logger.Error("create customer failed", "customer_name", name, "error", err)
			continue
		}
		logger.Info("customer created", "customer_name", name, "page_id", page.ID)
	}
	return nil
}

// parseJPDate converts 2025年7月18日-style dates to ISO, passing through
// anything it cannot parse.
func parseJPDate(s string) string {
	for _, layout := range []string{"2006年1月2日 15:04", "2006年1月2日"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
