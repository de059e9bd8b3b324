package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfstruct/internal/llm"
)

// StructureText implements llm.FieldExtractor: build the extraction prompt,
// call the model, strip fence decoration, normalize, validate against the
// invoice schema, and unmarshal. The returned raw bytes are always the
// sanitized model response, including on parse failure.
func (c *Client) StructureText(ctx context.Context, text string) (llm.InvoiceFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.structure.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
	)

	prompt := llm.BuildExtractionPrompt(text)
	response, err := c.generate(ctx, prompt)
	if err != nil {
		c.log.Error("llm.structure.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, nil, err
	}

	cleaned := llm.StripCodeFence(response)
	rawContent := []byte(cleaned)

	var probe map[string]any
	if err := json.Unmarshal(rawContent, &probe); err != nil {
		c.log.Warn("llm.structure.parse_failed",
			"req_id", rid, "error", err, "response_bytes", len(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, rawContent, &llm.ParseError{Raw: cleaned, Diag: err.Error()}
	}

	normalized, _, err := llm.NormalizeInvoiceJSON(rawContent, c.log)
	if err != nil {
		return llm.InvoiceFields{}, rawContent, &llm.ParseError{Raw: cleaned, Diag: err.Error()}
	}
	schema := llm.BuildInvoiceJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, normalized); err != nil {
		c.log.Warn("llm.structure.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, rawContent, &llm.ParseError{Raw: cleaned, Diag: err.Error()}
	}

	var out llm.InvoiceFields
	if err := json.Unmarshal(normalized, &out); err != nil {
		return llm.InvoiceFields{}, rawContent, &llm.ParseError{Raw: cleaned, Diag: err.Error()}
	}

	c.log.Info("llm.structure.ok",
		"req_id", rid,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, rawContent, nil
}

// generate posts the prompt to the generateContent endpoint and returns the
// model's raw text response.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1beta/models/" + c.cfg.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("gemini response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
