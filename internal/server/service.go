package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"pdfstruct/internal/history"
	"pdfstruct/internal/pipeline"
)

// Runner is the slice of the pipeline the transport depends on.
type Runner interface {
	Run(ctx context.Context, doc []byte) pipeline.Result
}

// Service is the thin HTTP shell over the structuring pipeline.
type Service struct {
	log            *slog.Logger
	pipeline       Runner
	history        history.Store // optional; nil disables
	maxUploadBytes int64
}

func NewService(logger *slog.Logger, p Runner, hist history.Store, maxUploadBytes int64) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &Service{log: logger, pipeline: p, history: hist, maxUploadBytes: maxUploadBytes}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
