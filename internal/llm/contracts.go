package llm

import "context"

// InvoiceFields is the normalized shape we want from the structuring model.
// Every field is nullable on the wire; a nil pointer is the explicit
// absence-marker, never a missing key.
type InvoiceFields struct {
	InvoiceNumber *string `json:"invoice_number"`
	Date          *string `json:"date"` // "DD MMM YYYY"
	Vendor        *string `json:"vendor"`
	TotalAmount   *string `json:"total_amount"`
	Currency      *string `json:"currency"` // ISO 4217
}

// FieldExtractor is Stage 2: extracted text -> structured invoice fields.
// The raw return is the sanitized model response, kept for diagnostics.
type FieldExtractor interface {
	StructureText(ctx context.Context, text string) (InvoiceFields, []byte, error)
}

// ParseError reports a model response that survived sanitization but is not a
// valid field object. Raw preserves the sanitized response verbatim so a
// caller can recover the data by hand.
type ParseError struct {
	Raw  string
	Diag string
}

func (e *ParseError) Error() string {
	return "parse structured fields: " + e.Diag
}
