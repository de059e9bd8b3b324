package server

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"pdfstruct/constants"
	"pdfstruct/internal/history"
)

// extractResponse mirrors the upstream contract: always 200 with a
// success/failure discriminant inside "extracted".
type extractResponse struct {
	Filename  string `json:"filename"`
	Extracted any    `json:"extracted"`
}

// HandleExtract accepts a multipart PDF upload, runs the pipeline, and
// returns the uniform result. Transport-level problems (no file, wrong type)
// are the only 4xx paths; pipeline failures are 200 with success=false.
func (s *Service) HandleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		badRequest(w, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing file field")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.log.Warn("server.extract.file_close_error", "error", cerr)
		}
	}()

	if !constants.IsAllowedExt(filepath.Ext(header.Filename)) {
		badRequest(w, "only PDF uploads are supported")
		return
	}

	doc, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "failed to read upload")
		return
	}

	start := time.Now()
	res := s.pipeline.Run(r.Context(), doc)
	s.log.Info("server.extract.done",
		"filename", header.Filename,
		"bytes", len(doc),
		"success", res.Success,
		"category", res.ErrorCategory,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if s.history != nil {
		err := s.history.Record(r.Context(), history.Entry{
			Filename:      header.Filename,
			Success:       res.Success,
			ErrorCategory: res.ErrorCategory,
			Preview:       res.RawTextPreview,
		})
		if err != nil {
			s.log.Warn("server.extract.history_error", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Filename:  header.Filename,
		Extracted: res,
	})
}

// HandleHealthz is a liveness probe.
func (s *Service) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
