package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pdfstruct/constants"
)

// JobClient is the narrow slice of the extraction service the poller needs.
type JobClient interface {
	Submit(ctx context.Context, path string) (string, error)
	Status(ctx context.Context, handle string) (constants.JobStatus, string, error)
	Retrieve(ctx context.Context, handle string) (string, error)
}

// PollConfig bounds the polling loop. The attempt cap is authoritative: at
// the capped interval the worst-case wall-clock wait is just under 3 minutes.
type PollConfig struct {
	InitialInterval time.Duration // default 1s
	IntervalStep    time.Duration // default 500ms, added after each unsuccessful poll
	MaxInterval     time.Duration // default 3s
	MaxAttempts     int           // default 60 status checks
	TempDir         string        // default os.TempDir
}

func (c *PollConfig) applyDefaults() {
	if c.InitialInterval <= 0 {
		c.InitialInterval = time.Second
	}
	if c.IntervalStep <= 0 {
		c.IntervalStep = 500 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 3 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 60
	}
}

// Poller drives a single extraction job to completion: persist the document
// to a scoped temp file, submit it, poll adaptively, retrieve the text.
type Poller struct {
	client JobClient
	cfg    PollConfig
	log    *slog.Logger

	// sleep lets tests run the loop without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPoller(client JobClient, cfg PollConfig, logger *slog.Logger) *Poller {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{client: client, cfg: cfg, log: logger, sleep: sleepCtx}
}

// ExtractText submits the document bytes and blocks until the job reaches a
// terminal status or the attempt budget runs out.
//
// Failure modes: *JobFailedError when the service reports a terminal failure,
// ErrPollTimeout when the budget is exhausted, and wrapped transport errors
// otherwise. The temp artifact is removed on every exit path.
func (p *Poller) ExtractText(ctx context.Context, doc []byte) (string, error) {
	tmp, err := os.CreateTemp(p.cfg.TempDir, "whisper-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil && !os.IsNotExist(rerr) {
			p.log.Warn("whisper.poll.temp_cleanup_error", "path", tmpPath, "error", rerr)
		}
	}()

	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp document: %w", err)
	}

	handle, err := p.client.Submit(ctx, tmpPath)
	if err != nil {
		return "", fmt.Errorf("submit document: %w", err)
	}

	start := time.Now()
	interval := p.cfg.InitialInterval
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		status, msg, err := p.client.Status(ctx, handle)
		if err != nil {
			return "", fmt.Errorf("poll status: %w", err)
		}

		switch status {
		case constants.JobStatusProcessed:
			text, err := p.client.Retrieve(ctx, handle)
			if err != nil {
				return "", fmt.Errorf("retrieve result: %w", err)
			}
			p.log.Info("whisper.poll.ok",
				"handle", handle,
				"attempts", attempt,
				"bytes", len(text),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return text, nil
		case constants.JobStatusFailed:
			if msg == "" {
				msg = "Unknown error"
			}
			p.log.Warn("whisper.poll.job_failed", "handle", handle, "attempts", attempt, "message", msg)
			return "", &JobFailedError{Message: msg}
		}

		if attempt == p.cfg.MaxAttempts {
			break
		}
		if err := p.sleep(ctx, interval); err != nil {
			return "", err
		}
		interval = min(interval+p.cfg.IntervalStep, p.cfg.MaxInterval)
	}

	p.log.Warn("whisper.poll.timeout",
		"handle", handle,
		"attempts", p.cfg.MaxAttempts,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return "", ErrPollTimeout
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
