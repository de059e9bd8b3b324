package llm

import "strings"

// BuildExtractionPrompt composes the structuring prompt: a single JSON object,
// the five recognized fields with their expected formats, the full document
// text, and the return-only-JSON instruction restated at the end.
func BuildExtractionPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract information from this document and return ONLY a JSON object (no markdown, no explanation).\n\n")
	b.WriteString("Required fields:\n")
	b.WriteString("- invoice_number: string (or null if not found)\n")
	b.WriteString("- date: string in format \"DD MMM YYYY\" (or null)\n")
	b.WriteString("- vendor: string (or null)\n")
	b.WriteString("- total_amount: string (or null)\n")
	b.WriteString("- currency: string (3-letter code like USD, EUR, or null)\n\n")
	b.WriteString("Document text:\n")
	b.WriteString(text)
	b.WriteString("\n\nReturn ONLY the JSON object, nothing else:")
	return b.String()
}
