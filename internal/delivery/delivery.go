// Package delivery fans the daily question out to learners. Each learner
// is delivered independently so a single oracle or transport failure
// never stalls the rest of the batch.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/qgen"
	"github.com/dailytutor/dailytutor/internal/reply"
	"github.com/dailytutor/dailytutor/internal/session"
	"github.com/dailytutor/dailytutor/internal/store"
)

// ErrNoSubject marks a learner who cannot receive a question yet.
var ErrNoSubject = errors.New("delivery: user has no subject")

// Messenger sends outbound chat messages. The bot transport satisfies it.
type Messenger interface {
	SendText(chatID int64, text string) error
}

// Eligible decides whether a learner receives the scheduled fan-out.
// The default policy skips learners in free-conversation mode so the
// daily push does not clobber an ongoing chat.
type Eligible func(u *store.User) bool

// SkipPlaying is the default eligibility policy.
func SkipPlaying(u *store.User) bool {
	return u.Status != store.StatusPlaying
}

// Report summarizes one fan-out run.
type Report struct {
	Delivered int
	Failed    int
	Skipped   int
}

// Scheduler generates and delivers a fresh question per learner.
type Scheduler struct {
	users    store.UserRepo
	sessions *session.Manager
	gen      qgen.Generator
	out      Messenger
	eligible Eligible
	parallel int
	log      *logger.Logger
}

// NewScheduler creates a Scheduler. A nil eligible defaults to
// SkipPlaying.
func NewScheduler(users store.UserRepo, sessions *session.Manager, gen qgen.Generator, out Messenger, eligible Eligible, log *logger.Logger) *Scheduler {
	if eligible == nil {
		eligible = SkipPlaying
	}
	return &Scheduler{
		users:    users,
		sessions: sessions,
		gen:      gen,
		out:      out,
		eligible: eligible,
		parallel: 4,
		log:      log.With("component", "delivery"),
	}
}

// DeliverOne generates a question for a single learner, opens a new
// session around it, and sends it. Learners without a subject get
// ErrNoSubject.
func (s *Scheduler) DeliverOne(ctx context.Context, u *store.User) error {
	if !u.HasSubject() {
		return ErrNoSubject
	}

	q, err := s.gen.Generate(ctx, u.SubjectText(), u.MemoText())
	if err != nil {
		return fmt.Errorf("generate question for user %d: %w", u.ID, err)
	}

	sess, err := s.sessions.StartSession(ctx, u.ID, u.SubjectText(), u.MemoText(), q.Text, q.SolvingProcess, q.ExpectedAnswer)
	if err != nil {
		return fmt.Errorf("start session for user %d: %w", u.ID, err)
	}

	if err := s.out.SendText(u.ID, reply.QuestionReady(u.SubjectText(), q.Text)); err != nil {
		return fmt.Errorf("send question for user %d: %w", u.ID, err)
	}

	s.log.Info("question delivered",
		"user_id", u.ID,
		"session_id", sess.ID,
		"topic", q.Topic)
	return nil
}

// DeliverAll pushes a fresh question to every learner with a subject who
// passes the eligibility policy. Failures are logged and counted, never
// propagated, so one learner cannot block the batch.
func (s *Scheduler) DeliverAll(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	users, err := s.users.WithSubject(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users with subject: %w", err)
	}

	var targets []*store.User
	skipped := 0
	for _, u := range users {
		if !s.eligible(u) {
			skipped++
			continue
		}
		targets = append(targets, u)
	}

	report := s.fanOut(ctx, log, targets)
	report.Skipped += skipped

	log.Info("fan-out finished",
		"delivered", report.Delivered,
		"failed", report.Failed,
		"skipped", report.Skipped)
	return report, nil
}

// DeliverTo pushes a fresh question to the named learners, bypassing the
// eligibility policy. Unknown ids count as failures.
func (s *Scheduler) DeliverTo(ctx context.Context, ids []int64) (*Report, error) {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	var targets []*store.User
	failed := 0
	for _, id := range ids {
		u, err := s.users.Get(ctx, id)
		if err != nil {
			log.Warn("target lookup failed", "user_id", id, "error", err)
			failed++
			continue
		}
		targets = append(targets, u)
	}

	report := s.fanOut(ctx, log, targets)
	report.Failed += failed

	log.Info("targeted fan-out finished",
		"delivered", report.Delivered,
		"failed", report.Failed)
	return report, nil
}

// fanOut delivers to each target concurrently. Worker errors are
// converted into counts so the group always drains.
func (s *Scheduler) fanOut(ctx context.Context, log *logger.Logger, targets []*store.User) *Report {
	report := &Report{}
	results := make(chan error, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for _, u := range targets {
		g.Go(func() error {
			err := s.DeliverOne(gctx, u)
			if err != nil && !errors.Is(err, ErrNoSubject) {
				log.Warn("delivery failed", "user_id", u.ID, "error", err)
			}
			results <- err
			return nil
		})
	}
	g.Wait()
	close(results)

	for err := range results {
		switch {
		case err == nil:
			report.Delivered++
		case errors.Is(err, ErrNoSubject):
			report.Skipped++
		default:
			report.Failed++
		}
	}
	return report
}
