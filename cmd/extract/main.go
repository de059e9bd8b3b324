package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pdfstruct/internal/common"
	"pdfstruct/internal/extract"
	"pdfstruct/internal/llm/gemini"
	"pdfstruct/internal/logging"
	"pdfstruct/internal/pipeline"
	"pdfstruct/internal/whisper"
)

// One-shot CLI: run a single PDF through the pipeline and print the result
// object as JSON.
func main() {
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	logger := logging.New(cfg.Log)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extract <path-to-pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read document", "path", path, "error", err)
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
	res := p.Run(context.Background(), doc)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if !res.Success {
		os.Exit(1)
	}
}
