package llm

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. All five fields are required and explicitly nullable; unknown
// keys are rejected (NormalizeInvoiceJSON drops them beforehand).
func BuildInvoiceJSONSchema() map[string]any {
	props := map[string]any{
		"invoice_number": nullableString(),
		"date":           nullableString(),
		"vendor":         nullableString(),
		"total_amount":   nullableString(),
		"currency": map[string]any{
			"type":      []string{"string", "null"},
			"minLength": 3,
			"maxLength": 3,
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"invoice_number", "date", "vendor", "total_amount", "currency"},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}
