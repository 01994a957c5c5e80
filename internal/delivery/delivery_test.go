package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/qgen"
	"github.com/dailytutor/dailytutor/internal/session"
	"github.com/dailytutor/dailytutor/internal/store"
)

// captureMessenger records sent messages by chat id.
type captureMessenger struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func newCaptureMessenger() *captureMessenger {
	return &captureMessenger{sent: make(map[int64][]string)}
}

func (c *captureMessenger) SendText(chatID int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent[chatID] = append(c.sent[chatID], text)
	return nil
}

func (c *captureMessenger) count(chatID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent[chatID])
}

// scriptedGenerator fails for the listed subjects and succeeds otherwise.
type scriptedGenerator struct {
	failFor map[string]bool
}

func (g *scriptedGenerator) Generate(_ context.Context, subject, _ string) (*qgen.Question, error) {
	if g.failFor[subject] {
		return nil, errors.New("generation blew up")
	}
	return &qgen.Question{
		Topic:          "topic",
		Text:           "What is 2+2?",
		SolvingProcess: "Count up.",
		ExpectedAnswer: "4",
	}, nil
}

func newTestScheduler(t *testing.T, gen qgen.Generator, eligible Eligible) (*Scheduler, *store.Store, *captureMessenger) {
	t.Helper()
	s, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	log := logger.NewNop()
	mgr := session.NewManager(s.Users(), s.Sessions(), log)
	out := newCaptureMessenger()
	return NewScheduler(s.Users(), mgr, gen, out, eligible, log), s, out
}

func seedUser(t *testing.T, s *store.Store, id int64, subject, status string) {
	t.Helper()
	u := &store.User{ID: id, Status: status}
	if subject != "" {
		u.Subject = &subject
	}
	require.NoError(t, s.Users().Create(context.Background(), u))
}

func TestDeliverAll_SendsToEveryEligibleUser(t *testing.T) {
	sch, s, out := newTestScheduler(t, &scriptedGenerator{}, nil)
	ctx := context.Background()

	seedUser(t, s, 1, "calculus", store.StatusActive)
	seedUser(t, s, 2, "history", store.StatusActive)
	seedUser(t, s, 3, "", store.StatusActive)

	report, err := sch.DeliverAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Delivered)
	require.Equal(t, 0, report.Failed)

	require.Equal(t, 1, out.count(1))
	require.Equal(t, 1, out.count(2))
	require.Equal(t, 0, out.count(3))

	// Each delivery opened a session.
	cur, err := s.Sessions().Current(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "What is 2+2?", cur.Question)
}

func TestDeliverAll_FailureDoesNotBlockOthers(t *testing.T) {
	gen := &scriptedGenerator{failFor: map[string]bool{"history": true}}
	sch, s, out := newTestScheduler(t, gen, nil)
	ctx := context.Background()

	seedUser(t, s, 1, "calculus", store.StatusActive)
	seedUser(t, s, 2, "history", store.StatusActive)
	seedUser(t, s, 3, "physics", store.StatusActive)

	report, err := sch.DeliverAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Delivered)
	require.Equal(t, 1, report.Failed)

	require.Equal(t, 1, out.count(1))
	require.Equal(t, 0, out.count(2))
	require.Equal(t, 1, out.count(3))

	// The failed user gets no session either.
	_, err = s.Sessions().Current(ctx, 2)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeliverAll_SkipsPlayingUsers(t *testing.T) {
	sch, s, out := newTestScheduler(t, &scriptedGenerator{}, nil)
	ctx := context.Background()

	seedUser(t, s, 1, "calculus", store.StatusActive)
	seedUser(t, s, 2, "history", store.StatusPlaying)

	report, err := sch.DeliverAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Delivered)
	require.Equal(t, 1, report.Skipped)
	require.Equal(t, 0, out.count(2))
}

func TestDeliverAll_CustomEligibilityPolicy(t *testing.T) {
	everyone := func(*store.User) bool { return true }
	sch, s, out := newTestScheduler(t, &scriptedGenerator{}, everyone)
	ctx := context.Background()

	seedUser(t, s, 1, "history", store.StatusPlaying)

	report, err := sch.DeliverAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Delivered)
	require.Equal(t, 1, out.count(1))
}

func TestDeliverTo_BypassesEligibility(t *testing.T) {
	sch, s, out := newTestScheduler(t, &scriptedGenerator{}, nil)
	ctx := context.Background()

	seedUser(t, s, 1, "calculus", store.StatusPlaying)
	seedUser(t, s, 2, "history", store.StatusActive)

	report, err := sch.DeliverTo(ctx, []int64{1})
	require.NoError(t, err)
	require.Equal(t, 1, report.Delivered)
	require.Equal(t, 1, out.count(1))
	require.Equal(t, 0, out.count(2))
}

func TestDeliverTo_UnknownUserCountsAsFailure(t *testing.T) {
	sch, s, _ := newTestScheduler(t, &scriptedGenerator{}, nil)
	ctx := context.Background()

	seedUser(t, s, 1, "calculus", store.StatusActive)

	report, err := sch.DeliverTo(ctx, []int64{1, 999})
	require.NoError(t, err)
	require.Equal(t, 1, report.Delivered)
	require.Equal(t, 1, report.Failed)
}

func TestDeliverOne_NoSubject(t *testing.T) {
	sch, _, out := newTestScheduler(t, &scriptedGenerator{}, nil)
	err := sch.DeliverOne(context.Background(), &store.User{ID: 5})
	require.ErrorIs(t, err, ErrNoSubject)
	require.Equal(t, 0, out.count(5))
}
