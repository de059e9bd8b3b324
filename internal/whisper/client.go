package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfstruct/constants"
)

// Config for the extraction service client.
type Config struct {
	APIKey  string        // bearer credential
	BaseURL string        // e.g. https://llmwhisperer-api.us-central.unstract.com/api/v2
	Timeout time.Duration // per-request http timeout
}

// Client talks to the remote document-extraction service: submit a document,
// poll its status by handle, retrieve the extracted text.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://llmwhisperer-api.us-central.unstract.com/api/v2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
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

// Submit uploads the stored document and returns the opaque job handle.
func (c *Client) Submit(ctx context.Context, path string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.log.Warn("whisper.submit.close_error", "req_id", rid, "error", cerr)
		}
	}()

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/whisper"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, f)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	raw, err := c.do(req, rid)
	if err != nil {
		c.log.Error("whisper.submit.error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	var out struct {
		WhisperHash string `json:"whisper_hash"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if out.WhisperHash == "" {
		return "", fmt.Errorf("submit response missing whisper_hash")
	}

	c.log.Info("whisper.submit.ok", "req_id", rid, "handle", out.WhisperHash,
		"elapsed_ms", time.Since(start).Milliseconds())
	return out.WhisperHash, nil
}

// Status reports the job's current status plus the service message, if any.
func (c *Client) Status(ctx context.Context, handle string) (constants.JobStatus, string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/whisper-status?whisper_hash=" + url.QueryEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return constants.JobStatusUnknown, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	raw, err := c.do(req, "")
	if err != nil {
		return constants.JobStatusUnknown, "", err
	}

	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return constants.JobStatusUnknown, "", fmt.Errorf("decode status response: %w", err)
	}
	return constants.ParseJobStatus(out.Status), out.Message, nil
}

// Retrieve fetches the extracted text for a processed job.
func (c *Client) Retrieve(ctx context.Context, handle string) (string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/whisper-retrieve?whisper_hash=" + url.QueryEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	raw, err := c.do(req, "")
	if err != nil {
		return "", err
	}

	var out struct {
		Extraction struct {
			ResultText string `json:"result_text"`
		} `json:"extraction"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode retrieve response: %w", err)
	}
	return out.Extraction.ResultText, nil
}

func (c *Client) do(req *http.Request, rid string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("whisper.response_body_close_error", "req_id", rid, "error", cerr)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("whisper status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
