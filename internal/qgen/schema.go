package qgen

import "github.com/dailytutor/dailytutor/internal/oracle"

// QuestionSchema defines the JSON shape of a question-generation reply.
var QuestionSchema = &oracle.Schema{
	Name:        "tutor-question",
	Description: "A single practice question with its hidden solving process and expected answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"possible_topics": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "High-level topic candidates within the subject",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "The topic chosen from possible_topics",
			},
			"possible_questions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Candidate questions, distinct from each other",
			},
			"question": map[string]any{
				"type":        "string",
				"description": "The final question delivered to the learner",
			},
			"solving_process": map[string]any{
				"type":        "string",
				"description": "Step-by-step route to the answer, hidden from the learner",
			},
			"expected_answer": map[string]any{
				"type":        "string",
				"description": "The correct answer, hidden from the learner",
			},
		},
		"required": []any{
			"possible_topics", "topic", "possible_questions",
			"question", "solving_process", "expected_answer",
		},
		"additionalProperties": false,
	},
}
