package judge

import "github.com/dailytutor/dailytutor/internal/oracle"

// VerdictSchema defines the JSON shape of a judgment reply.
var VerdictSchema = &oracle.Schema{
	Name:        "solution-verdict",
	Description: "A structured judgment of a learner's solution attempt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summarized_solution": map[string]any{
				"type":        "string",
				"description": "Brief summary of the learner's solution",
			},
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the solution is correct, or close enough to correct",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Detailed constructive feedback",
			},
			"performance_explanation": map[string]any{
				"type":        "string",
				"description": "Explanation of the performance rating",
			},
			"performance": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     10,
				"description": "Performance rating from 1 to 10",
			},
		},
		"required": []any{
			"summarized_solution", "is_correct", "feedback",
			"performance_explanation", "performance",
		},
		"additionalProperties": false,
	},
}
