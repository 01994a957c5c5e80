package tutor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dailytutor/dailytutor/internal/oracle"
	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/reply"
	"github.com/dailytutor/dailytutor/internal/store"
)

// memoryMessages is an in-memory MessageRepo for tests.
type memoryMessages struct {
	rows []*store.Message
}

func (m *memoryMessages) Append(_ context.Context, sessionID uint, role, content string) error {
	m.rows = append(m.rows, &store.Message{
		ID:        uint(len(m.rows) + 1),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	})
	return nil
}

func (m *memoryMessages) BySession(_ context.Context, sessionID uint) ([]*store.Message, error) {
	var out []*store.Message
	for _, r := range m.rows {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func testSession() *store.TutorSession {
	return &store.TutorSession{
		ID:             3,
		UserID:         100,
		Subject:        "calculus",
		Question:       "What is the derivative of x^2?",
		SolvingProcess: "Apply the power rule.",
		ExpectedAnswer: "2x",
	}
}

func newEngine(mock *oracle.MockProvider, msgs store.MessageRepo) *Engine {
	return NewEngine(mock, msgs, DefaultConfig(), logger.NewNop())
}

func TestRespond_FirstTurnCarriesGrounding(t *testing.T) {
	mock := oracle.NewMockProvider()
	mock.QueueText("Think about the power rule.")
	msgs := &memoryMessages{}
	e := newEngine(mock, msgs)

	answer := e.Respond(context.Background(), testSession(), "Where do I start?")
	if answer != "Think about the power rule." {
		t.Errorf("answer = %q", answer)
	}

	p := mock.Prompts[0]
	if !strings.Contains(p.Grounding, "What is the derivative of x^2?") {
		t.Error("first turn should ground the oracle with the question")
	}
	if len(p.Turns) != 1 || p.Turns[0].Content != "Where do I start?" {
		t.Errorf("turns = %+v", p.Turns)
	}
}

func TestRespond_LaterTurnsReplayWithoutGrounding(t *testing.T) {
	mock := oracle.NewMockProvider()
	mock.QueueText("first")
	mock.QueueText("second")
	msgs := &memoryMessages{}
	e := newEngine(mock, msgs)
	sess := testSession()

	e.Respond(context.Background(), sess, "hello")
	e.Respond(context.Background(), sess, "next thought")

	p := mock.Prompts[1]
	if p.Grounding != "" {
		t.Error("grounding should not be re-sent while the log fits the window")
	}
	// Replayed user+assistant pair plus the new utterance.
	if len(p.Turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(p.Turns))
	}
	if p.Turns[2].Content != "next thought" {
		t.Errorf("last turn = %q", p.Turns[2].Content)
	}
}

func TestRespond_TruncationResendsGrounding(t *testing.T) {
	mock := oracle.NewMockProvider()
	msgs := &memoryMessages{}
	cfg := DefaultConfig()
	cfg.HistoryWindow = 4
	e := NewEngine(mock, msgs, cfg, logger.NewNop())
	sess := testSession()

	for i := 0; i < 4; i++ {
		mock.QueueText(fmt.Sprintf("reply %d", i))
		e.Respond(context.Background(), sess, fmt.Sprintf("utterance %d", i))
	}

	// The third turn replays exactly four stored messages, which still
	// fits the window, so no grounding goes out.
	third := mock.Prompts[2]
	if third.Grounding != "" {
		t.Error("grounding should not be re-sent while the log fits the window")
	}

	// The fourth turn sees six stored messages, two beyond the window.
	fourth := mock.Prompts[3]
	if !strings.Contains(fourth.Grounding, "What is the derivative of x^2?") {
		t.Error("grounding should be re-sent once the log is truncated")
	}
	if len(fourth.Turns) != 5 {
		t.Errorf("turns = %d, want 4 replayed plus the new utterance", len(fourth.Turns))
	}
}

func TestRespond_PersistsBothSides(t *testing.T) {
	mock := oracle.NewMockProvider()
	mock.QueueText("an answer")
	msgs := &memoryMessages{}
	e := newEngine(mock, msgs)

	e.Respond(context.Background(), testSession(), "a question")

	if len(msgs.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(msgs.rows))
	}
	if msgs.rows[0].Role != store.RoleUser || msgs.rows[0].Content != "a question" {
		t.Errorf("first row = %q %q", msgs.rows[0].Role, msgs.rows[0].Content)
	}
	if msgs.rows[1].Role != store.RoleAssistant || msgs.rows[1].Content != "an answer" {
		t.Errorf("second row = %q %q", msgs.rows[1].Role, msgs.rows[1].Content)
	}
}

func TestRespond_OracleFailureApologizesAndPersistsNothing(t *testing.T) {
	mock := oracle.NewMockProvider(oracle.CannedReply{Err: &oracle.ErrUnavailable{}})
	msgs := &memoryMessages{}
	e := newEngine(mock, msgs)

	answer := e.Respond(context.Background(), testSession(), "hello")
	if answer != reply.TutorApology {
		t.Errorf("answer = %q, want the apology", answer)
	}
	if len(msgs.rows) != 0 {
		t.Errorf("rows = %d, want none after a failed turn", len(msgs.rows))
	}
}

func TestHint_IsADialogueTurn(t *testing.T) {
	mock := oracle.NewMockProvider()
	mock.QueueText("Try the power rule.")
	msgs := &memoryMessages{}
	e := newEngine(mock, msgs)

	e.Hint(context.Background(), testSession())

	p := mock.Prompts[0]
	if p.Turns[len(p.Turns)-1].Content != "I need a hint." {
		t.Errorf("hint turn = %q", p.Turns[len(p.Turns)-1].Content)
	}
}

func TestGiveUp_RevealsAndPersists(t *testing.T) {
	mock := oracle.NewMockProvider()
	mock.QueueText("The answer is 2x, here is why.")
	msgs := &memoryMessages{}
	e := newEngine(mock, msgs)

	answer := e.GiveUp(context.Background(), testSession())
	if answer != "The answer is 2x, here is why." {
		t.Errorf("answer = %q", answer)
	}

	p := mock.Prompts[0]
	if !strings.Contains(p.Turns[0].Content, "2x") {
		t.Error("give-up prompt should carry the expected answer")
	}
	if len(msgs.rows) != 2 || msgs.rows[0].Content != "I give up." {
		t.Errorf("rows = %+v", msgs.rows)
	}
}

func TestSummarizeJudgment_SeesRecentLogOnly(t *testing.T) {
	mock := oracle.NewMockProvider()
	msgs := &memoryMessages{}
	cfg := DefaultConfig()
	cfg.SummaryWindow = 2
	e := NewEngine(mock, msgs, cfg, logger.NewNop())
	sess := testSession()

	for i := 0; i < 4; i++ {
		msgs.Append(context.Background(), sess.ID, store.RoleUser, fmt.Sprintf("old %d", i))
	}
	msgs.Append(context.Background(), sess.ID, store.RoleUser, "[SOLUTION ATTEMPT] 2x")
	msgs.Append(context.Background(), sess.ID, store.RoleAssistant, "[JUDGE FEEDBACK] correct")

	mock.QueueText("Great job, you nailed it!")
	out := e.SummarizeJudgment(context.Background(), sess)
	if out != "Great job, you nailed it!" {
		t.Errorf("out = %q", out)
	}

	p := mock.Prompts[0]
	// Two windowed rows plus the fixed framing turn.
	if len(p.Turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(p.Turns))
	}
	if p.Turns[0].Content != "[SOLUTION ATTEMPT] 2x" {
		t.Errorf("first turn = %q", p.Turns[0].Content)
	}
	if !strings.Contains(p.Grounding, sess.Question) {
		t.Error("summary grounding should carry the question")
	}

	// Only the summary itself is persisted.
	rows, _ := msgs.BySession(context.Background(), sess.ID)
	last := rows[len(rows)-1]
	if last.Role != store.RoleAssistant || last.Content != "Great job, you nailed it!" {
		t.Errorf("last row = %q %q", last.Role, last.Content)
	}
}
