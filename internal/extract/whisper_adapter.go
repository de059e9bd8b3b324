package extract

import (
	"context"
	"time"

	"pdfstruct/internal/whisper"
)

// WhisperAdapter adapts the whisper poller to the TextExtractor contract.
type WhisperAdapter struct {
	p *whisper.Poller
}

func NewWhisperAdapter(p *whisper.Poller) *WhisperAdapter {
	return &WhisperAdapter{p: p}
}

func (a *WhisperAdapter) Extract(ctx context.Context, doc []byte) (TextExtractionResult, error) {
	start := time.Now()
	text, err := a.p.ExtractText(ctx, doc)
	return TextExtractionResult{
		Text:     text,
		Method:   "llm-whisperer",
		Duration: time.Since(start),
	}, err
}
