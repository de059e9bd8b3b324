package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strings"
)

var (
	reFenceLang = regexp.MustCompile("^```[a-zA-Z0-9]+\\s*")
	reFenceBare = regexp.MustCompile("^```\\s*")
	reFenceEnd  = regexp.MustCompile("\\s*```$")
)

// StripCodeFence removes markdown code-fence decoration from a model
// response: a leading ```lang or bare ``` and a trailing ```. Idempotent; on
// unfenced text it only trims surrounding whitespace.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = reFenceLang.ReplaceAllString(s, "")
	s = reFenceBare.ReplaceAllString(s, "")
	s = reFenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// NormalizeInvoiceJSON
// - Removes unknown keys (strict additionalProperties = false friendliness)
// - Coerces numeric values to strings ("%.2f" for total_amount)
// - Maps empty strings to explicit nulls
// - Uppercases the currency code
// - Inserts explicit nulls for missing fields
func NormalizeInvoiceJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}

	known := []string{"invoice_number", "date", "vendor", "total_amount", "currency"}
	allowed := make(map[string]struct{}, len(known))
	for _, k := range known {
		allowed[k] = struct{}{}
	}

	dropped := make([]string, 0, 4)
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for _, k := range known {
		v, ok := m[k]
		if !ok {
			m[k] = nil
			dropped = append(dropped, k+"(missing)")
			continue
		}
		switch t := v.(type) {
		case nil:
			// explicit null, keep
		case float64:
			if k == "total_amount" {
				m[k] = fmt.Sprintf("%.2f", t)
			} else {
				m[k] = fmt.Sprintf("%v", t)
			}
			dropped = append(dropped, k+"(number)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				m[k] = nil
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		default:
			m[k] = nil
			dropped = append(dropped, k+"(type)")
		}
	}

	if v, ok := m["currency"].(string); ok {
		m["currency"] = strings.ToUpper(v)
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Debug("llm.structure.normalize", "adjusted", dropped)
	}
	return out, dropped, nil
}
