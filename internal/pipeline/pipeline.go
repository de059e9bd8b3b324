package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pdfstruct/internal/cache"
	"pdfstruct/internal/extract"
	"pdfstruct/internal/llm"
	"pdfstruct/internal/whisper"
)

const previewLen = 200

// Pipeline coordinates text extraction (stage 1) then field structuring
// (stage 2) and maps every outcome onto a Result. It never returns an error
// and never panics outward.
type Pipeline struct {
	log       *slog.Logger
	extractor extract.TextExtractor
	fields    llm.FieldExtractor
	cache     cache.Cache // optional; nil disables
	cacheTTL  time.Duration
}

func New(logger *slog.Logger, ex extract.TextExtractor, fe llm.FieldExtractor, c cache.Cache, ttl time.Duration) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{log: logger, extractor: ex, fields: fe, cache: c, cacheTTL: ttl}
}

// Run processes one document end to end. Concurrent invocations are
// independent; the pipeline holds no per-request state.
func (p *Pipeline) Run(ctx context.Context, doc []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("pipeline.panic", "panic", r)
			res = Result{
				Success:       false,
				ErrorCategory: CategoryUnexpected,
				Details:       fmt.Sprint(r),
				FaultType:     fmt.Sprintf("%T", r),
			}
		}
	}()

	key := cache.ResultKey(cache.DocumentHash(doc))
	if hit, ok := p.cachedResult(ctx, key); ok {
		return hit
	}

	start := time.Now()
	tx, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return p.extractionFailure(err)
	}
	p.log.Info("pipeline.extract.ok",
		"method", tx.Method,
		"bytes", len(tx.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	preview := truncate(tx.Text, previewLen)

	fields, _, err := p.fields.StructureText(ctx, tx.Text)
	if err != nil {
		var pe *llm.ParseError
		if errors.As(err, &pe) {
			return Result{
				Success:        false,
				ErrorCategory:  CategoryParse,
				ModelResponse:  pe.Raw,
				ParseDiag:      pe.Diag,
				RawTextPreview: preview,
			}
		}
		return unexpected(err)
	}

	res = Result{
		Success:        true,
		Data:           &fields,
		RawTextPreview: preview,
	}
	p.storeResult(ctx, key, res)
	return res
}

func (p *Pipeline) extractionFailure(err error) Result {
	var jf *whisper.JobFailedError
	switch {
	case errors.Is(err, whisper.ErrPollTimeout):
		return Result{Success: false, ErrorCategory: CategoryTimeout, Details: err.Error()}
	case errors.As(err, &jf):
		return Result{Success: false, ErrorCategory: CategoryJobFailed, Details: jf.Message}
	default:
		return unexpected(err)
	}
}

func unexpected(err error) Result {
	return Result{
		Success:       false,
		ErrorCategory: CategoryUnexpected,
		Details:       err.Error(),
		FaultType:     faultType(err),
	}
}

// faultType names the innermost error type for diagnostics.
func faultType(err error) string {
	for {
		u := errors.Unwrap(err)
		if u == nil {
			return fmt.Sprintf("%T", err)
		}
		err = u
	}
}

func (p *Pipeline) cachedResult(ctx context.Context, key string) (Result, bool) {
	if p.cache == nil {
		return Result{}, false
	}
	b, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.Warn("pipeline.cache.get_error", "error", err)
		return Result{}, false
	}
	if !ok {
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(b, &res); err != nil {
		p.log.Warn("pipeline.cache.decode_error", "error", err)
		return Result{}, false
	}
	p.log.Info("pipeline.cache.hit", "key", key)
	return res, true
}

// storeResult caches successful results only; failures are always recomputed.
func (p *Pipeline) storeResult(ctx context.Context, key string, res Result) {
	if p.cache == nil || !res.Success {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, key, b, p.cacheTTL); err != nil {
		p.log.Warn("pipeline.cache.set_error", "error", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
