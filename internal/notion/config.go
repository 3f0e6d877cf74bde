package notion

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
	defaultTimeout = 30 * time.Second
)

// Config carries the Notion credential and the four database ids the intake
// flow writes to. OrderDetailsDB is optional; header/detail order shapes are
// only produced when it is set.
type Config struct {
	APIKey         string
	BaseURL        string
	ProductsDB     string
	CustomersDB    string
	OrdersDB       string
	OrderDetailsDB string
	Timeout        time.Duration
}

// Client talks to the Notion REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
