package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced with language tag",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  ```json\n{\"a\":1}\n```  ",
			want: `{"a":1}`,
		},
		{
			name: "no fence",
			in:   "{\"a\":1}",
			want: `{"a":1}`,
		},
		{
			name: "no fence with whitespace",
			in:   "  hello world \n",
			want: "hello world",
		},
		{
			name: "leading fence only",
			in:   "```json\n{\"a\":1}",
			want: `{"a":1}`,
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "fence only",
			in:   "```",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestStripCodeFenceIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\":1}\n```",
		"```\ntext body\n```",
		"plain text, no fences",
		"  \t spaced \n",
		"```",
		"",
	}
	for _, in := range inputs {
		once := StripCodeFence(in)
		assert.Equal(t, once, StripCodeFence(once), "input %q", in)
	}
}

func TestNormalizeInvoiceJSON(t *testing.T) {
	t.Run("drops unknown keys and fills missing ones", func(t *testing.T) {
		out, adjusted, err := NormalizeInvoiceJSON([]byte(`{"vendor":"Acme","notes":"ignore me"}`), nil)
		require.NoError(t, err)
		assert.NotEmpty(t, adjusted)

		var m map[string]any
		require.NoError(t, json.Unmarshal(out, &m))
		assert.Equal(t, "Acme", m["vendor"])
		assert.NotContains(t, m, "notes")
		for _, k := range []string{"invoice_number", "date", "total_amount", "currency"} {
			require.Contains(t, m, k)
			assert.Nil(t, m[k])
		}
	})

	t.Run("coerces numeric total and uppercases currency", func(t *testing.T) {
		out, _, err := NormalizeInvoiceJSON([]byte(`{"total_amount":100.5,"currency":"usd"}`), nil)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(out, &m))
		assert.Equal(t, "100.50", m["total_amount"])
		assert.Equal(t, "USD", m["currency"])
	})

	t.Run("empty strings become explicit nulls", func(t *testing.T) {
		out, _, err := NormalizeInvoiceJSON([]byte(`{"invoice_number":"  ","date":"null"}`), nil)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(out, &m))
		assert.Nil(t, m["invoice_number"])
		assert.Nil(t, m["date"])
	})

	t.Run("rejects non-object payloads", func(t *testing.T) {
		_, _, err := NormalizeInvoiceJSON([]byte(`[1,2,3]`), nil)
		assert.Error(t, err)
	})
}

func TestNormalizedOutputMatchesSchema(t *testing.T) {
	out, _, err := NormalizeInvoiceJSON([]byte(`{"invoice_number":"INV-1","date":"01 Jan 2024","vendor":"Acme","total_amount":100,"currency":"usd","extra":"x"}`), nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), out))
}

func TestSchemaRejectsWrongShapes(t *testing.T) {
	schema := BuildInvoiceJSONSchema()

	valid := `{"invoice_number":null,"date":null,"vendor":"Acme","total_amount":null,"currency":null}`
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(valid)))

	badCurrency := `{"invoice_number":null,"date":null,"vendor":null,"total_amount":null,"currency":"US"}`
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(badCurrency)))

	numberTotal := `{"invoice_number":null,"date":null,"vendor":null,"total_amount":12,"currency":null}`
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(numberTotal)))
}

func TestBuildExtractionPrompt(t *testing.T) {
	text := "INVOICE #42 from Acme Corp"
	prompt := BuildExtractionPrompt(text)

	assert.Contains(t, prompt, "ONLY a JSON object")
	assert.Contains(t, prompt, text)
	for _, field := range []string{"invoice_number", "date", "vendor", "total_amount", "currency"} {
		assert.Contains(t, prompt, field)
	}
	assert.Contains(t, prompt, "DD MMM YYYY")
	assert.Contains(t, prompt, "Return ONLY the JSON object, nothing else:")
}
