package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"pdfstruct/constants"
	"pdfstruct/internal/common"
	"pdfstruct/internal/export"
	"pdfstruct/internal/extract"
	"pdfstruct/internal/llm/gemini"
	"pdfstruct/internal/logging"
	"pdfstruct/internal/pipeline"
	"pdfstruct/internal/whisper"
)

// Batch CLI: run every PDF in a directory through the pipeline and write the
// successfully structured rows to an XLSX workbook.
func main() {
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	logger := logging.New(cfg.Log)

	if len(os.Args) != 3 {
		logger.Error("usage", "cmd", "batch <pdf-dir> <out.xlsx>")
		os.Exit(2)
	}
	dir, outPath := os.Args[1], os.Args[2]

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error("read directory", "dir", dir, "error", err)
		os.Exit(1)
	}

	whisperClient := whisper.NewClient(whisper.Config{
		APIKey:  cfg.Whisperer.APIKey,
		BaseURL: cfg.Whisperer.BaseURL,
		Timeout: cfg.Whisperer.Timeout,
	}, logger)
	poller := whisper.NewPoller(whisperClient, whisper.PollConfig{
		MaxAttempts: cfg.Whisperer.MaxAttempts,
	}, logger)
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, logger)
	p := pipeline.New(logger, extract.NewWhisperAdapter(poller), geminiClient, nil, 0)

	ctx := context.Background()
	var rows []export.Row
	var failures int
	for _, entry := range entries {
		if entry.IsDir() || !constants.IsAllowedExt(filepath.Ext(entry.Name())) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read document", "path", path, "error", err)
			failures++
			continue
		}

		res := p.Run(ctx, doc)
		if !res.Success {
			logger.Warn("extraction failed",
				"file", entry.Name(),
				"category", res.ErrorCategory,
				"details", res.Details,
			)
			failures++
			continue
		}
		rows = append(rows, export.Row{Filename: entry.Name(), Fields: *res.Data})
	}

	xlsx, err := export.NewService(logger).BuildXLSX(rows)
	if err != nil {
		logger.Error("build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, xlsx, 0o644); err != nil {
		logger.Error("write workbook", "path", outPath, "error", err)
		os.Exit(1)
	}

	logger.Info("batch done", "ok", len(rows), "failed", failures, "out", outPath)
	if failures > 0 {
		os.Exit(1)
	}
}
