package gemini

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string        // required; no fallback
	BaseURL string        // default https://generativelanguage.googleapis.com
	Model   string        // e.g. "gemini-2.0-flash-exp"
	Timeout time.Duration // http client timeout
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-exp"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
