package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dailytutor/dailytutor/internal/delivery"
	"github.com/dailytutor/dailytutor/internal/judge"
	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/qgen"
	"github.com/dailytutor/dailytutor/internal/reply"
	"github.com/dailytutor/dailytutor/internal/session"
	"github.com/dailytutor/dailytutor/internal/store"
	"github.com/dailytutor/dailytutor/internal/tutor"
)

// freeTalkQuestion marks a session opened for unstructured conversation.
const freeTalkQuestion = "Free conversation mode"

// Handlers implements every chat command. Each method takes plain
// identifiers rather than transport types so tests can drive them with a
// fake Sender.
type Handlers struct {
	sessions  *session.Manager
	gen       qgen.Generator
	tutor     *tutor.Engine
	judge     *judge.Judge
	responses store.ResponseRepo
	scheduler *delivery.Scheduler
	out       Sender
	log       *logger.Logger
}

// NewHandlers wires the command handlers.
func NewHandlers(
	sessions *session.Manager,
	gen qgen.Generator,
	eng *tutor.Engine,
	jdg *judge.Judge,
	responses store.ResponseRepo,
	scheduler *delivery.Scheduler,
	out Sender,
	log *logger.Logger,
) *Handlers {
	return &Handlers{
		sessions:  sessions,
		gen:       gen,
		tutor:     eng,
		judge:     jdg,
		responses: responses,
		scheduler: scheduler,
		out:       out,
		log:       log.With("component", "handlers"),
	}
}

// Start greets a learner and registers them on first contact.
func (h *Handlers) Start(ctx context.Context, userID int64, firstName string) error {
	if _, err := h.sessions.EnsureUser(ctx, userID); err != nil {
		return err
	}
	return h.out.SendText(userID, reply.Start(firstName))
}

// Subject sets the learner's subject, or shows the current one when
// called without arguments.
func (h *Handlers) Subject(ctx context.Context, userID int64, args string) error {
	u, err := h.sessions.EnsureUser(ctx, userID)
	if err != nil {
		return err
	}

	if args != "" {
		if err := h.sessions.UpdateSubject(ctx, userID, args); err != nil {
			return err
		}
		return h.out.SendText(userID, reply.SubjectUpdated(args))
	}

	if u.HasSubject() {
		return h.out.SendText(userID, reply.CurrentSubject(u.SubjectText()))
	}
	return h.out.SendText(userID, reply.NoSubject)
}

// Memo sets the learner's memo, or shows the current one when called
// without arguments.
func (h *Handlers) Memo(ctx context.Context, userID int64, args string) error {
	u, err := h.sessions.EnsureUser(ctx, userID)
	if err != nil {
		return err
	}

	if args != "" {
		if err := h.sessions.UpdateMemo(ctx, userID, args); err != nil {
			return err
		}
		return h.out.SendText(userID, reply.MemoUpdated)
	}

	if u.MemoText() != "" {
		return h.out.SendText(userID, reply.CurrentMemo(u.MemoText()))
	}
	return h.out.SendText(userID, reply.NoMemo)
}

// Question generates a fresh question on demand and starts a new session
// around it. The old session is archived only after generation succeeds.
func (h *Handlers) Question(ctx context.Context, userID int64) error {
	u, err := h.sessions.EnsureUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.HasSubject() {
		return h.out.SendText(userID, reply.PromptSetSubject)
	}

	if err := h.out.SendText(userID, reply.GeneratingQuestion); err != nil {
		return err
	}
	h.typing(userID)

	q, err := h.gen.Generate(ctx, u.SubjectText(), u.MemoText())
	if err != nil {
		h.log.Warn("question generation failed", "user_id", userID, "error", err)
		return h.out.SendText(userID, reply.QuestionGenerationFailed)
	}

	if err := h.sessions.SetPlayMode(ctx, userID, false); err != nil {
		return err
	}
	if _, err := h.sessions.StartSession(ctx, userID, u.SubjectText(), u.MemoText(), q.Text, q.SolvingProcess, q.ExpectedAnswer); err != nil {
		return err
	}

	return h.out.SendText(userID, reply.QuestionReady(u.SubjectText(), q.Text))
}

// Hint asks the dialogue engine for a nudge on the active question.
func (h *Handlers) Hint(ctx context.Context, userID int64) error {
	h.typing(userID)
	u, sess, err := h.requireSession(ctx, userID)
	if err != nil || u == nil {
		return err
	}
	return h.out.SendText(userID, h.tutor.Hint(ctx, sess))
}

// PlainText treats a non-command message as a dialogue turn on the
// active session.
func (h *Handlers) PlainText(ctx context.Context, userID int64, text string) error {
	h.typing(userID)
	u, sess, err := h.requireSession(ctx, userID)
	if err != nil || u == nil {
		return err
	}
	return h.out.SendText(userID, h.tutor.Respond(ctx, sess, text))
}

// Solve submits a solution to the judge. A degraded verdict sends the
// feedback and leaves the session untouched.
func (h *Handlers) Solve(ctx context.Context, userID int64, args string) error {
	u, sess, err := h.requireSession(ctx, userID)
	if err != nil || u == nil {
		return err
	}
	if args == "" {
		return h.out.SendText(userID, reply.SubmitSolutionPrompt)
	}

	if err := h.out.SendText(userID, reply.CheckingSolution); err != nil {
		return err
	}
	h.typing(userID)

	verdict := h.judge.Evaluate(ctx, sess, args)
	if verdict.Degraded() {
		return h.out.SendText(userID, verdict.Feedback)
	}

	if err := h.sessions.RecordAttempt(ctx, sess.ID, verdict.IsCorrect()); err != nil {
		return err
	}
	// The submission itself lives in the message log; the audit row keeps
	// the judge's full raw response.
	resp := &store.SolutionResponse{
		SessionID:              sess.ID,
		FullSolution:           verdict.Raw,
		SummarizedSolution:     verdict.SummarizedSolution,
		Feedback:               verdict.Feedback,
		IsCorrect:              verdict.Correct,
		Performance:            verdict.Performance,
		PerformanceExplanation: verdict.PerformanceExplanation,
	}
	if err := h.responses.Append(ctx, resp); err != nil {
		return err
	}
	if verdict.Performance != nil {
		explanation := ""
		if verdict.PerformanceExplanation != nil {
			explanation = *verdict.PerformanceExplanation
		}
		if err := h.sessions.RecordPerformance(ctx, sess.ID, *verdict.Performance, explanation); err != nil {
			return err
		}
	}

	return h.out.SendText(userID, h.tutor.SummarizeJudgment(ctx, sess))
}

// GiveUp reveals the solution and completes the session without marking
// it correct.
func (h *Handlers) GiveUp(ctx context.Context, userID int64) error {
	h.typing(userID)
	u, sess, err := h.requireSession(ctx, userID)
	if err != nil || u == nil {
		return err
	}

	answer := h.tutor.GiveUp(ctx, sess)
	if err := h.sessions.ForceComplete(ctx, sess.ID); err != nil {
		return err
	}
	return h.out.SendText(userID, answer)
}

// FreeTalk opens a free-conversation session and flags the learner as
// playing so the daily push skips them.
func (h *Handlers) FreeTalk(ctx context.Context, userID int64) error {
	h.typing(userID)
	u, err := h.sessions.EnsureUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := h.sessions.SetPlayMode(ctx, userID, true); err != nil {
		return err
	}
	sess, err := h.sessions.StartSession(ctx, userID, u.SubjectText(), u.MemoText(), freeTalkQuestion, "", "")
	if err != nil {
		return err
	}

	opener := h.tutor.StartFreeTalk(ctx, sess, u.SubjectText(), u.MemoText())
	return h.out.SendMarkdown(userID, opener)
}

// DailyQuestion triggers the fan-out by hand. Admin only; non-admins get
// no reply at all. With arguments it targets the named user ids and
// bypasses the eligibility policy.
func (h *Handlers) DailyQuestion(ctx context.Context, userID int64, args string) error {
	u, err := h.sessions.EnsureUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.IsAdmin {
		return nil
	}
	h.typing(userID)

	if args == "" {
		if _, err := h.scheduler.DeliverAll(ctx); err != nil {
			return err
		}
		return h.out.SendText(userID, reply.AdminDeliveredDailyQuestion)
	}

	var ids []int64
	for _, f := range strings.Fields(args) {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if _, err := h.scheduler.DeliverTo(ctx, ids); err != nil {
		return err
	}
	return h.out.SendText(userID, reply.AdminDeliveredDailyQuestion)
}

// requireSession loads the user and their active session, answering with
// the right prompt when either precondition fails. A nil user with a nil
// error means the learner was already answered.
func (h *Handlers) requireSession(ctx context.Context, userID int64) (*store.User, *store.TutorSession, error) {
	u, err := h.sessions.EnsureUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !u.HasSubject() {
		return nil, nil, h.out.SendText(userID, reply.NoSubject)
	}

	sess, err := h.sessions.CurrentSession(ctx, userID)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil, h.out.SendText(userID, reply.NoSession)
	}
	if err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

// typing is best effort; a failed indicator never blocks the turn.
func (h *Handlers) typing(userID int64) {
	if err := h.out.SendTyping(userID); err != nil {
		h.log.Debug("typing indicator failed", "user_id", userID, "error", err)
	}
}
