package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSchema() *Schema {
	return &Schema{
		Name: "test-deck",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"questions"},
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []string{"question", "answer"},
						"properties": map[string]any{
							"question": map[string]any{"type": "string"},
							"answer":   map[string]any{"type": "string"},
							"kind":     map[string]any{"type": "string", "enum": []string{"word", "phrase"}},
						},
						"additionalProperties": false,
					},
				},
			},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"questions":[{"question":"chat","answer":"cat"}]}`, true},
		{"valid with enum", `{"questions":[{"question":"chat","answer":"cat","kind":"word"}]}`, true},
		{"missing answer", `{"questions":[{"question":"chat"}]}`, false},
		{"empty list", `{"questions":[]}`, false},
		{"wrong type", `{"questions":[{"question":"chat","answer":7}]}`, false},
		{"bad enum", `{"questions":[{"question":"chat","answer":"cat","kind":"verb"}]}`, false},
		{"extra field", `{"questions":[{"question":"chat","answer":"cat","hint":"x"}]}`, false},
		{"not json", `{"questions":`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var invalid *ErrInvalidResponse
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
}
