package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server Server
	Mail   Mail
	SMTP   SMTP
	Slack  Slack
	Notion Notion
	LLM    LLM
	Index  Index
	Ingest Ingest
}

// Server holds HTTP server configuration
type Server struct {
	Addr string
}

// Mail holds IMAP polling configuration
type Mail struct {
	Host         string
	User         string
	Password     string
	Mailbox      string
	PollInterval time.Duration
}

// SMTP holds the auto-reply mailer configuration. Optional: when Host is
// empty the order service runs with a no-op mailer.
type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Slack holds the messaging collaborator configuration
type Slack struct {
	BotToken string
	Channel  string
}

// Notion holds record-store credentials and database ids
type Notion struct {
	APIKey         string
	BaseURL        string
	ProductsDB     string
	CustomersDB    string
	OrdersDB       string
	OrderDetailsDB string
	RequestTimeout time.Duration
}

// LLM holds extraction-service configuration. An empty APIKey disables the
// LLM strategy and the cascade falls back to the regex heuristic.
type LLM struct {
	APIKey      string
	BaseURL     string
	Model       string
	EmbedModel  string
	Temperature float32
	Timeout     time.Duration
}

// Index holds the dictionary index store configuration
type Index struct {
	DSN string
}

// Ingest holds drop-folder ingestion configuration
type Ingest struct {
	WatchDirs []string
	Debounce  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: Server{
			Addr: getEnv("HTTP_ADDR", ":8000"),
		},
		Mail: Mail{
			Host:         getEnv("IMAP_HOST", ""),
			User:         getEnv("IMAP_USER", ""),
			Password:     getEnv("IMAP_PASS", ""),
			Mailbox:      getEnv("IMAP_MAILBOX", "INBOX"),
			PollInterval: getEnvAsDuration("IMAP_POLL_INTERVAL", 60*time.Second),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Slack: Slack{
			BotToken: getEnv("SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("SLACK_CHANNEL", ""),
		},
		Notion: Notion{
			APIKey:         getEnv("NOTION_API_KEY", ""),
			BaseURL:        getEnv("NOTION_BASE_URL", "https://api.notion.com/v1"),
			ProductsDB:     getEnv("NOTION_DATABASE_ID_PRODUCTS", ""),
			CustomersDB:    getEnv("NOTION_DATABASE_ID_CUSTOMERS", ""),
			OrdersDB:       getEnv("NOTION_DATABASE_ID_ORDERS", ""),
			OrderDetailsDB: getEnv("NOTION_DATABASE_ID_ORDER_DETAILS", ""),
			RequestTimeout: getEnvAsDuration("NOTION_TIMEOUT", 15*time.Second),
		},
		LLM: LLM{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			EmbedModel:  getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Index: Index{
			DSN: getEnv("INDEX_DSN", "file:order-intake.db?_pragma=journal_mode(WAL)"),
		},
		Ingest: Ingest{
			WatchDirs: splitNonEmpty(getEnv("WATCH_DIRS", "")),
			Debounce:  getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Validate checks the configuration needed to run the intake service.
// The LLM key is deliberately not required: its absence switches the
// extraction cascade to the regex heuristic.
func (c *Config) Validate() error {
	if c.Slack.BotToken == "" {
		return NewAppError("CONFIG_ERROR", "SLACK_BOT_TOKEN is required", ErrInvalidInput)
	}
	if c.Slack.Channel == "" {
		return NewAppError("CONFIG_ERROR", "SLACK_CHANNEL is required", ErrInvalidInput)
	}
	if c.Notion.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "NOTION_API_KEY is required", ErrInvalidInput)
	}
	if c.Notion.ProductsDB == "" || c.Notion.CustomersDB == "" || c.Notion.OrdersDB == "" {
		return NewAppError("CONFIG_ERROR", "NOTION_DATABASE_ID_PRODUCTS/CUSTOMERS/ORDERS are required", ErrInvalidInput)
	}
	if c.Mail.Host != "" && (c.Mail.User == "" || c.Mail.Password == "") {
		return NewAppError("CONFIG_ERROR", "IMAP_USER and IMAP_PASS are required when IMAP_HOST is set", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
