// Package judge evaluates submitted solutions against a session's hidden
// expected answer, producing a structured verdict. A failed or malformed
// oracle reply degrades to a feedback-only verdict that never marks the
// attempt correct and never mutates the session.
package judge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dailytutor/dailytutor/internal/oracle"
	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/reply"
	"github.com/dailytutor/dailytutor/internal/store"
)

const judgePersona = `You are a helpful tutor assisting a learner in improving their understanding. Your role is to provide constructive feedback on their solution to a problem. You will be given the question, the logic to reach the answer, and the answer. Then you will be given the user's steps to reach the conclusion and their eventual answer.

Judge if the solution is correct (or close enough to correct) to say it is_correct. If they are not within a very close margin of error, then do not count it as correct.

Then you will provide feedback on how they performed given their answer and any thought process.

Finally, you will judge the performance value between 1 and 10 to determine how they seemed to perform given the conversation and the quality of the solution relative to the difficulty.

Be polite and direct with your reasoning. Keep your professionalism. Be like an expert judge during a competition. Act confident but not cocky. Be patient and sincere. Do not use more words than needed.

Format all responses in Markdown.`

// Verdict is the structured outcome of judging one attempt. A nil Correct
// means the judge was unavailable: callers must not mark the attempt
// correct nor complete the session.
type Verdict struct {
	SummarizedSolution     *string
	Correct                *bool
	Feedback               string
	Performance            *int
	PerformanceExplanation *string

	// Raw is the unparsed oracle reply, kept for the audit trail.
	Raw string
}

// IsCorrect reports whether the verdict positively marks the attempt correct.
func (v *Verdict) IsCorrect() bool {
	return v.Correct != nil && *v.Correct
}

// Degraded reports whether this verdict carries no judgment (oracle
// failure or malformed reply).
func (v *Verdict) Degraded() bool {
	return v.Correct == nil
}

// Config controls the judge.
type Config struct {
	// MaxTokens is the token budget for a verdict reply.
	MaxTokens int
}

// DefaultConfig returns the recommended judge settings.
func DefaultConfig() Config {
	return Config{MaxTokens: 2048}
}

// Judge scores solution attempts.
type Judge struct {
	provider oracle.Provider
	messages store.MessageRepo
	config   Config
	log      *logger.Logger
}

// New creates a Judge.
func New(provider oracle.Provider, messages store.MessageRepo, cfg Config, log *logger.Logger) *Judge {
	return &Judge{
		provider: provider,
		messages: messages,
		config:   cfg,
		log:      log.With("component", "judge"),
	}
}

// verdictOutput is the raw oracle reply before mapping.
type verdictOutput struct {
	SummarizedSolution     string `json:"summarized_solution"`
	IsCorrect              bool   `json:"is_correct"`
	Feedback               string `json:"feedback"`
	PerformanceExplanation string `json:"performance_explanation"`
	Performance            int    `json:"performance"`
}

// Evaluate judges a submitted solution with a one-shot prompt (no
// conversation history). On success the judge exchange is appended to the
// session log so later dialogue turns can reference it.
func (j *Judge) Evaluate(ctx context.Context, sess *store.TutorSession, submitted string) *Verdict {
	ctx = oracle.WithPurpose(ctx, "judging")

	content := fmt.Sprintf(`Question: %s

Expected answer: %s
Solving process: %s

Student's solution: %s

Please evaluate this solution and provide feedback.`,
		sess.Question, sess.ExpectedAnswer, sess.SolvingProcess, submitted)

	prompt := oracle.Prompt{
		Persona:   judgePersona,
		Turns:     []oracle.Turn{{Role: oracle.RoleUser, Content: content}},
		Schema:    VerdictSchema,
		MaxTokens: j.config.MaxTokens,
	}

	resp, err := j.provider.Complete(ctx, prompt)
	if err != nil {
		j.log.Warn("judgment failed", "session_id", sess.ID, "error", err)
		return &Verdict{Feedback: reply.JudgeUnavailable}
	}

	var raw verdictOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		j.log.Warn("malformed verdict", "session_id", sess.ID, "error", err)
		return &Verdict{Feedback: reply.JudgeUnavailable}
	}

	j.appendExchange(ctx, sess.ID, submitted, resp.Text())

	return &Verdict{
		SummarizedSolution:     &raw.SummarizedSolution,
		Correct:                &raw.IsCorrect,
		Feedback:               raw.Feedback,
		Performance:            &raw.Performance,
		PerformanceExplanation: &raw.PerformanceExplanation,
		Raw:                    resp.Text(),
	}
}

// appendExchange records the attempt and raw verdict in the session log,
// tagged so the summarizer can find them.
func (j *Judge) appendExchange(ctx context.Context, sessionID uint, submitted, rawVerdict string) {
	if err := j.messages.Append(ctx, sessionID, store.RoleUser, "[SOLUTION ATTEMPT] "+submitted); err != nil {
		j.log.Error("persist attempt", "session_id", sessionID, "error", err)
		return
	}
	if err := j.messages.Append(ctx, sessionID, store.RoleAssistant, "[JUDGE FEEDBACK] "+rawVerdict); err != nil {
		j.log.Error("persist verdict", "session_id", sessionID, "error", err)
	}
}
