package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: document bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Method   string // "llm-whisperer"
	Duration time.Duration
}
