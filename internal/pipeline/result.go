package pipeline

import "pdfstruct/internal/llm"

// Failure categories. Callers branch on Success, never on these strings, but
// the strings are part of the response contract.
const (
	CategoryTimeout    = "PDF processing timeout"
	CategoryJobFailed  = "PDF processing failed"
	CategoryParse      = "structuring-model JSON parse failure"
	CategoryUnexpected = "Unexpected error"
)

// Result is the uniform outcome of one pipeline invocation. Exactly one
// variant is populated; Success is the discriminant.
type Result struct {
	Success bool `json:"success"`

	// success variant
	Data           *llm.InvoiceFields `json:"data,omitempty"`
	RawTextPreview string             `json:"raw_text_preview,omitempty"`

	// failure variant
	ErrorCategory string `json:"error,omitempty"`
	Details       string `json:"details,omitempty"`
	ModelResponse string `json:"model_response,omitempty"` // sanitized raw model output, parse failures only
	ParseDiag     string `json:"parse_error,omitempty"`
	FaultType     string `json:"type,omitempty"` // Go type name of the underlying fault, unexpected only
}
