package qgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dailytutor/dailytutor/internal/oracle"
)

// Config controls the OracleGenerator.
type Config struct {
	// MaxTokens is the token budget for a generation reply.
	MaxTokens int

	// Temperature controls oracle output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// OracleGenerator implements Generator using the completion oracle.
type OracleGenerator struct {
	provider oracle.Provider
	config   Config
}

// New creates an OracleGenerator.
func New(provider oracle.Provider, cfg Config) *OracleGenerator {
	return &OracleGenerator{provider: provider, config: cfg}
}

// questionOutput is the raw oracle reply before mapping.
type questionOutput struct {
	PossibleTopics    []string `json:"possible_topics"`
	Topic             string   `json:"topic"`
	PossibleQuestions []string `json:"possible_questions"`
	Question          string   `json:"question"`
	SolvingProcess    string   `json:"solving_process"`
	ExpectedAnswer    string   `json:"expected_answer"`
}

// Generate produces one question for the subject.
func (g *OracleGenerator) Generate(ctx context.Context, subject, memo string) (*Question, error) {
	ctx = oracle.WithPurpose(ctx, "question-gen")

	prompt := oracle.Prompt{
		Persona: generationPersona,
		Turns: []oracle.Turn{
			{Role: oracle.RoleUser, Content: buildRequest(subject, memo)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	reply, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var raw questionOutput
	if err := json.Unmarshal(reply.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse question reply: %w", err)
	}

	if raw.Question == "" || raw.ExpectedAnswer == "" {
		return nil, fmt.Errorf("question reply missing question or answer")
	}

	return &Question{
		PossibleTopics:    raw.PossibleTopics,
		Topic:             raw.Topic,
		PossibleQuestions: raw.PossibleQuestions,
		Text:              raw.Question,
		SolvingProcess:    raw.SolvingProcess,
		ExpectedAnswer:    raw.ExpectedAnswer,
	}, nil
}
