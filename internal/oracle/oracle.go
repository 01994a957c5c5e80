package oracle

import (
	"context"
	"encoding/json"
)

// Provider is the completion oracle abstraction. The rest of the bot only
// ever sees this interface: it hands over a persona plus an ordered
// conversation and gets text (or schema-validated JSON) back.
type Provider interface {
	// Complete sends the prompt to the oracle and returns its reply.
	// When the prompt carries a Schema, the reply Content is JSON that
	// has been validated against it.
	Complete(ctx context.Context, p Prompt) (*Reply, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Prompt describes one oracle request.
type Prompt struct {
	// Persona is the system instruction that fixes the oracle's role
	// (tutor, judge, ...) and its hard constraints.
	Persona string

	// Grounding is optional hidden context sent alongside the persona,
	// invisible to the learner. The dialogue engine uses it to seed the
	// question, expected answer and solving process exactly once.
	Grounding string

	// Turns is the ordered conversation history. Single-turn requests
	// (question generation, judging) carry exactly one user turn.
	Turns []Turn

	// Schema, when set, requests strict JSON output conforming to it.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature controls randomness (0.0 - 1.0). Zero means deterministic.
	Temperature float64
}

// Turn is a single message in the conversation.
type Turn struct {
	Role    Role
	Content string
}

// Role is the turn sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the oracle.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "tutor-question".
	Name string

	// Description tells the oracle what this schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Reply holds the oracle's output.
type Reply struct {
	// Content is the generated output. Schema-validated JSON when the
	// prompt carried a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens".
	StopReason string
}

// Text returns the reply content as plain text.
func (r *Reply) Text() string {
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
