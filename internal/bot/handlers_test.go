package bot

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dailytutor/dailytutor/internal/delivery"
	"github.com/dailytutor/dailytutor/internal/judge"
	"github.com/dailytutor/dailytutor/internal/oracle"
	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/qgen"
	"github.com/dailytutor/dailytutor/internal/reply"
	"github.com/dailytutor/dailytutor/internal/session"
	"github.com/dailytutor/dailytutor/internal/store"
	"github.com/dailytutor/dailytutor/internal/tutor"
)

// fakeSender records every outbound message.
type fakeSender struct {
	texts     map[int64][]string
	markdowns map[int64][]string
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		texts:     make(map[int64][]string),
		markdowns: make(map[int64][]string),
	}
}

func (f *fakeSender) SendText(chatID int64, text string) error {
	f.texts[chatID] = append(f.texts[chatID], text)
	return nil
}

func (f *fakeSender) SendMarkdown(chatID int64, text string) error {
	f.markdowns[chatID] = append(f.markdowns[chatID], text)
	return nil
}

func (f *fakeSender) SendTyping(int64) error { return nil }

func (f *fakeSender) last(chatID int64) string {
	msgs := f.texts[chatID]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

type fixture struct {
	handlers *Handlers
	store    *store.Store
	sessions *session.Manager
	mock     *oracle.MockProvider
	out      *fakeSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	log := logger.NewNop()
	mock := oracle.NewMockProvider()
	mgr := session.NewManager(s.Users(), s.Sessions(), log)
	gen := qgen.New(mock, qgen.DefaultConfig())
	eng := tutor.NewEngine(mock, s.Messages(), tutor.DefaultConfig(), log)
	jdg := judge.New(mock, s.Messages(), judge.DefaultConfig(), log)
	out := newFakeSender()
	scheduler := delivery.NewScheduler(s.Users(), mgr, gen, out, nil, log)

	h := NewHandlers(mgr, gen, eng, jdg, s.Responses(), scheduler, out, log)
	return &fixture{handlers: h, store: s, sessions: mgr, mock: mock, out: out}
}

const questionJSON = `{
	"possible_topics": ["fractions"],
	"topic": "fractions",
	"possible_questions": ["What is 1/2 + 1/4?"],
	"question": "What is 1/2 + 1/4?",
	"solving_process": "Find a common denominator.",
	"expected_answer": "3/4"
}`

const verdictJSON = `{
	"summarized_solution": "Converted to quarters and added.",
	"is_correct": true,
	"feedback": "Exactly right.",
	"performance_explanation": "Clean first attempt.",
	"performance": 9
}`

func (f *fixture) seedUser(t *testing.T, id int64, subject string) {
	t.Helper()
	u := &store.User{ID: id, Status: store.StatusActive}
	if subject != "" {
		u.Subject = &subject
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
}

func (f *fixture) startQuestion(t *testing.T, id int64) *store.TutorSession {
	t.Helper()
	f.mock.Queue(oracle.CannedReply{Content: json.RawMessage(questionJSON)})
	require.NoError(t, f.handlers.Question(context.Background(), id))
	sess, err := f.sessions.CurrentSession(context.Background(), id)
	require.NoError(t, err)
	return sess
}

func TestStart_RegistersAndGreets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handlers.Start(ctx, 42, "Ada"))

	u, err := f.store.Users().Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, store.StatusActive, u.Status)
	require.Contains(t, f.out.last(42), "Ada")
}

func TestSubject_SetAndShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handlers.Subject(ctx, 1, ""))
	require.Equal(t, reply.NoSubject, f.out.last(1))

	require.NoError(t, f.handlers.Subject(ctx, 1, "french history"))
	require.Contains(t, f.out.last(1), "french history")

	require.NoError(t, f.handlers.Subject(ctx, 1, ""))
	require.Equal(t, reply.CurrentSubject("french history"), f.out.last(1))
}

func TestMemo_SetAndShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handlers.Memo(ctx, 1, ""))
	require.Equal(t, reply.NoMemo, f.out.last(1))

	require.NoError(t, f.handlers.Memo(ctx, 1, "exam in June"))
	require.Equal(t, reply.MemoUpdated, f.out.last(1))

	require.NoError(t, f.handlers.Memo(ctx, 1, ""))
	require.Equal(t, reply.CurrentMemo("exam in June"), f.out.last(1))
}

func TestQuestion_RequiresSubject(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.handlers.Question(context.Background(), 1))
	require.Equal(t, reply.PromptSetSubject, f.out.last(1))
}

func TestQuestion_StartsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, 1, "fractions")

	sess := f.startQuestion(t, 1)
	require.Equal(t, "What is 1/2 + 1/4?", sess.Question)
	require.Equal(t, "3/4", sess.ExpectedAnswer)

	require.Equal(t, reply.QuestionReady("fractions", "What is 1/2 + 1/4?"), f.out.last(1))

	u, err := f.store.Users().Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, store.StatusActive, u.Status)
}

func TestQuestion_GenerationFailureLeavesSessionAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, 1, "fractions")
	old := f.startQuestion(t, 1)

	f.mock.Queue(oracle.CannedReply{Err: &oracle.ErrUnavailable{}})
	require.NoError(t, f.handlers.Question(ctx, 1))
	require.Equal(t, reply.QuestionGenerationFailed, f.out.last(1))

	cur, err := f.sessions.CurrentSession(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, old.ID, cur.ID)
}

func TestSolve_HappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, 1, "fractions")
	sess := f.startQuestion(t, 1)

	f.mock.Queue(oracle.CannedReply{Content: json.RawMessage(verdictJSON)})
	f.mock.QueueText("You got it, nicely done!")

	require.NoError(t, f.handlers.Solve(ctx, 1, "3/4 because quarters"))
	require.Equal(t, "You got it, nicely done!", f.out.last(1))

	got, err := f.store.Sessions().Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Attempted)
	require.True(t, got.Correct)
	require.True(t, got.Completed)
	require.Equal(t, 9, *got.Performance)

	// The audit row carries the judge's raw response; the submission is
	// preserved in the message log instead.
	rows, err := f.store.Responses().BySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.JSONEq(t, verdictJSON, rows[0].FullSolution)
	require.True(t, *rows[0].IsCorrect)

	msgs, err := f.store.Messages().BySession(ctx, sess.ID)
	require.NoError(t, err)
	var attempts []string
	for _, m := range msgs {
		if strings.HasPrefix(m.Content, "[SOLUTION ATTEMPT] ") {
			attempts = append(attempts, m.Content)
		}
	}
	require.Equal(t, []string{"[SOLUTION ATTEMPT] 3/4 because quarters"}, attempts)
}

func TestSolve_DegradedVerdictLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, 1, "fractions")
	sess := f.startQuestion(t, 1)

	f.mock.Queue(oracle.CannedReply{Err: &oracle.ErrUnavailable{}})

	require.NoError(t, f.handlers.Solve(ctx, 1, "3/4"))
	require.Equal(t, reply.JudgeUnavailable, f.out.last(1))

	got, err := f.store.Sessions().Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Attempted)
	require.False(t, got.Completed)

	rows, err := f.store.Responses().BySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSolve_RequiresArguments(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, 1, "fractions")
	f.startQuestion(t, 1)

	require.NoError(t, f.handlers.Solve(context.Background(), 1, ""))
	require.Equal(t, reply.SubmitSolutionPrompt, f.out.last(1))
}

func TestSolve_NoSession(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, 1, "fractions")

	require.NoError(t, f.handlers.Solve(context.Background(), 1, "3/4"))
	require.Equal(t, reply.NoSession, f.out.last(1))
}

func TestGiveUp_CompletesWithoutCorrectness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, 1, "fractions")
	sess := f.startQuestion(t, 1)

	f.mock.QueueText("The answer is 3/4, here is how.")
	require.NoError(t, f.handlers.GiveUp(ctx, 1))
	require.Equal(t, "The answer is 3/4, here is how.", f.out.last(1))

	got, err := f.store.Sessions().Get(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)
	require.False(t, got.Correct)
}

func TestFreeTalk_OpensPlaySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, 1, "astronomy")

	f.mock.QueueText("Let's talk about black holes or exoplanets!")
	require.NoError(t, f.handlers.FreeTalk(ctx, 1))

	require.Len(t, f.out.markdowns[1], 1)
	require.Contains(t, f.out.markdowns[1][0], "black holes")

	u, err := f.store.Users().Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, store.StatusPlaying, u.Status)

	sess, err := f.sessions.CurrentSession(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, freeTalkQuestion, sess.Question)
	require.Empty(t, sess.ExpectedAnswer)
}

func TestPlainText_DrivesDialogue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, 1, "fractions")
	f.startQuestion(t, 1)

	f.mock.QueueText("Think about common denominators.")
	require.NoError(t, f.handlers.PlainText(ctx, 1, "I'm stuck"))
	require.Equal(t, "Think about common denominators.", f.out.last(1))
}

func TestPlainText_NoSubject(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.handlers.PlainText(context.Background(), 1, "hello"))
	require.Equal(t, reply.NoSubject, f.out.last(1))
}

func TestDailyQuestion_NonAdminIgnored(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, 1, "fractions")

	require.NoError(t, f.handlers.DailyQuestion(context.Background(), 1, ""))
	require.Empty(t, f.out.texts[1])
}

func TestDailyQuestion_AdminFansOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := &store.User{ID: 99, Status: store.StatusActive, IsAdmin: true}
	require.NoError(t, f.store.Users().Create(ctx, admin))
	f.seedUser(t, 1, "fractions")

	f.mock.Queue(oracle.CannedReply{Content: json.RawMessage(questionJSON)})
	require.NoError(t, f.handlers.DailyQuestion(ctx, 99, ""))

	require.Equal(t, reply.AdminDeliveredDailyQuestion, f.out.last(99))
	require.Len(t, f.out.texts[1], 1)
	require.True(t, strings.Contains(f.out.texts[1][0], "What is 1/2 + 1/4?"))
}

func TestDailyQuestion_AdminTargetsUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := &store.User{ID: 99, Status: store.StatusActive, IsAdmin: true}
	require.NoError(t, f.store.Users().Create(ctx, admin))
	f.seedUser(t, 1, "fractions")
	f.seedUser(t, 2, "history")

	f.mock.Queue(oracle.CannedReply{Content: json.RawMessage(questionJSON)})
	require.NoError(t, f.handlers.DailyQuestion(ctx, 99, "1"))

	require.Len(t, f.out.texts[1], 1)
	require.Empty(t, f.out.texts[2])
}
