package deckgen

import "github.com/ben-spiller/FlashTeacher/internal/llm"

// DeckSchema is the structured output requested from the model.
var DeckSchema = &llm.Schema{
	Name:        "question-deck",
	Description: "A list of flashcard question and answer pairs",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The prompt shown to the learner",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The single expected answer, as short as possible",
						},
					},
					"required":             []any{"question", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
