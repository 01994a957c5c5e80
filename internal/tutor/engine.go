// Package tutor is the dialogue engine: it rebuilds a session's oracle
// context by replaying the stored message log and drives every
// conversational turn (coaching, hints, give-up, free talk, judgment
// summaries). Oracle failures are swallowed into a fixed apology and
// never surface as transport faults.
package tutor

import (
	"context"
	"fmt"

	"github.com/dailytutor/dailytutor/internal/oracle"
	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/reply"
	"github.com/dailytutor/dailytutor/internal/store"
)

// Config controls the dialogue engine.
type Config struct {
	// HistoryWindow caps how many stored messages are replayed per turn.
	// When the log is truncated the hidden grounding context is re-sent
	// so the oracle never loses the question.
	HistoryWindow int

	// SummaryWindow is the number of trailing messages fed to the
	// judgment summarizer.
	SummaryWindow int

	// MaxTokens is the token budget for a dialogue reply.
	MaxTokens int

	// Temperature controls oracle output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended dialogue settings.
func DefaultConfig() Config {
	return Config{
		HistoryWindow: 40,
		SummaryWindow: 5,
		MaxTokens:     1024,
		Temperature:   0.7,
	}
}

// Engine holds a tutoring dialogue with a learner.
type Engine struct {
	provider oracle.Provider
	messages store.MessageRepo
	config   Config
	log      *logger.Logger
}

// NewEngine creates an Engine.
func NewEngine(provider oracle.Provider, messages store.MessageRepo, cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		provider: provider,
		messages: messages,
		config:   cfg,
		log:      log.With("component", "tutor"),
	}
}

// Respond handles one coaching turn: replay the session log, append the
// learner's utterance, ask the oracle, and persist both sides. On oracle
// failure it returns a fixed apology and persists nothing.
func (e *Engine) Respond(ctx context.Context, sess *store.TutorSession, utterance string) string {
	ctx = oracle.WithPurpose(ctx, "dialogue")

	stored, err := e.messages.BySession(ctx, sess.ID)
	if err != nil {
		e.log.Error("load message log", "session_id", sess.ID, "error", err)
		return reply.TutorApology
	}

	turns, truncated := e.replayTurns(stored)

	prompt := oracle.Prompt{
		Persona:     tutorPersona,
		Turns:       append(turns, oracle.Turn{Role: oracle.RoleUser, Content: utterance}),
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	// Seed the hidden question context on the first turn, and again
	// whenever truncation may have dropped it from the replayed window.
	if len(stored) == 0 || truncated {
		prompt.Grounding = groundingContext(sess)
	}

	resp, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.log.Warn("dialogue turn failed", "session_id", sess.ID, "error", err)
		return reply.TutorApology
	}

	e.persistTurn(ctx, sess.ID, utterance, resp.Text())
	return resp.Text()
}

// Hint asks for a nudge on the current question.
func (e *Engine) Hint(ctx context.Context, sess *store.TutorSession) string {
	return e.Respond(ctx, sess, "I need a hint.")
}

// GiveUp reveals the full solution after the learner surrenders. The
// caller is responsible for force-completing the session.
func (e *Engine) GiveUp(ctx context.Context, sess *store.TutorSession) string {
	ctx = oracle.WithPurpose(ctx, "give-up")

	content := fmt.Sprintf(`I'm giving up on this problem. Can you explain the solution?

Question: %s

Expected answer: %s
Solving process: %s

Please provide a complete, clear explanation of the solution.`,
		sess.Question, sess.ExpectedAnswer, sess.SolvingProcess)

	prompt := oracle.Prompt{
		Persona:     giveUpPersona,
		Turns:       []oracle.Turn{{Role: oracle.RoleUser, Content: content}},
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	resp, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.log.Warn("give-up turn failed", "session_id", sess.ID, "error", err)
		return reply.TutorApology
	}

	e.persistTurn(ctx, sess.ID, "I give up.", resp.Text())
	return resp.Text()
}

// StartFreeTalk opens a free-conversation session about the subject.
func (e *Engine) StartFreeTalk(ctx context.Context, sess *store.TutorSession, subject, memo string) string {
	ctx = oracle.WithPurpose(ctx, "free-talk")

	opener := fmt.Sprintf(
		"I want to talk about: %s. Remember this note: %s. I may have something to talk about, but in case I don't, give me a couple of recommended topics.",
		subject, memo,
	)

	prompt := oracle.Prompt{
		Persona:     freeTalkPersona,
		Turns:       []oracle.Turn{{Role: oracle.RoleUser, Content: opener}},
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	resp, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.log.Warn("free-talk opener failed", "session_id", sess.ID, "error", err)
		return reply.TutorApology
	}

	stored := fmt.Sprintf("I want to talk about: %s. Remember this note: %s.", subject, memo)
	e.persistTurn(ctx, sess.ID, stored, resp.Text())
	return resp.Text()
}

// SummarizeJudgment restates the judge's raw verdict in the tutor's
// voice, seeded with the last few log entries so it can see the judge
// exchange. Confirms a correct solve, hints on a wrong one, and never
// reveals the answer.
func (e *Engine) SummarizeJudgment(ctx context.Context, sess *store.TutorSession) string {
	ctx = oracle.WithPurpose(ctx, "judge-summary")

	stored, err := e.messages.BySession(ctx, sess.ID)
	if err != nil {
		e.log.Error("load message log", "session_id", sess.ID, "error", err)
		return reply.TutorApology
	}

	var turns []oracle.Turn
	for _, m := range tail(stored, e.config.SummaryWindow) {
		if m.Role == store.RoleSystem {
			continue
		}
		turns = append(turns, oracle.Turn{Role: oracle.Role(m.Role), Content: m.Content})
	}
	turns = append(turns, oracle.Turn{
		Role:    oracle.RoleUser,
		Content: "Let me look at what the judge said. I'll only confirm if you are correct, but give you a hint if you are wrong.",
	})

	prompt := oracle.Prompt{
		Persona: tutorPersona,
		Grounding: fmt.Sprintf(`The student just submitted a solution and received feedback from a judge.

Question: %s

Your role is to summarize the judge's feedback in a friendly, conversational way. If they got it right, congratulate them! If not, give them an encouraging hint about what to work on next.`, sess.Question),
		Turns:       turns,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	resp, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.log.Warn("judge summary failed", "session_id", sess.ID, "error", err)
		return reply.TutorApology
	}

	if err := e.messages.Append(ctx, sess.ID, store.RoleAssistant, resp.Text()); err != nil {
		e.log.Error("persist judge summary", "session_id", sess.ID, "error", err)
	}
	return resp.Text()
}

// replayTurns converts the stored log into oracle turns, skipping system
// rows and keeping only the trailing HistoryWindow messages. The second
// result reports whether older messages were dropped.
func (e *Engine) replayTurns(stored []*store.Message) ([]oracle.Turn, bool) {
	truncated := len(stored) > e.config.HistoryWindow
	var turns []oracle.Turn
	for _, m := range tail(stored, e.config.HistoryWindow) {
		if m.Role == store.RoleSystem {
			continue
		}
		turns = append(turns, oracle.Turn{Role: oracle.Role(m.Role), Content: m.Content})
	}
	return turns, truncated
}

// persistTurn appends the user utterance and the assistant reply, in that
// order. Persistence failures are logged, not surfaced, since the learner
// already has their answer.
func (e *Engine) persistTurn(ctx context.Context, sessionID uint, utterance, answer string) {
	if err := e.messages.Append(ctx, sessionID, store.RoleUser, utterance); err != nil {
		e.log.Error("persist user turn", "session_id", sessionID, "error", err)
		return
	}
	if err := e.messages.Append(ctx, sessionID, store.RoleAssistant, answer); err != nil {
		e.log.Error("persist assistant turn", "session_id", sessionID, "error", err)
	}
}

func groundingContext(sess *store.TutorSession) string {
	return fmt.Sprintf(`The student is working on this question: %s

Expected answer: %s
Solving process: %s

Help guide them to the solution without giving it away directly.`,
		sess.Question, sess.ExpectedAnswer, sess.SolvingProcess)
}

// tail returns the last n elements of msgs.
func tail(msgs []*store.Message, n int) []*store.Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
