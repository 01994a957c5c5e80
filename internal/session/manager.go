// Package session owns the tutoring session lifecycle: at most one
// non-archived session per user, monotonic completion, and the play-mode
// status flag.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/store"
)

// ErrNoSession signals that a user has no active session. Callers treat
// this as a normal, expected state and answer with a friendly prompt.
var ErrNoSession = errors.New("session: no active session")

// Manager is the session lifecycle manager.
type Manager struct {
	users    store.UserRepo
	sessions store.SessionRepo
	log      *logger.Logger
}

// NewManager creates a Manager over the given repositories.
func NewManager(users store.UserRepo, sessions store.SessionRepo, log *logger.Logger) *Manager {
	return &Manager{
		users:    users,
		sessions: sessions,
		log:      log.With("component", "session"),
	}
}

// EnsureUser returns the user with the given id, creating it with default
// status "active" on first contact. Idempotent.
func (m *Manager) EnsureUser(ctx context.Context, id int64) (*store.User, error) {
	u, err := m.users.Get(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user %d: %w", id, err)
	}

	u = &store.User{ID: id, Status: store.StatusActive}
	if err := m.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user %d: %w", id, err)
	}
	m.log.Info("new user registered", "user_id", id)
	return u, nil
}

// UpdateSubject replaces the user's subject.
func (m *Manager) UpdateSubject(ctx context.Context, userID int64, subject string) error {
	if err := m.users.UpdateSubject(ctx, userID, subject); err != nil {
		return fmt.Errorf("update subject for user %d: %w", userID, err)
	}
	return nil
}

// UpdateMemo replaces the user's memo.
func (m *Manager) UpdateMemo(ctx context.Context, userID int64, memo string) error {
	if err := m.users.UpdateMemo(ctx, userID, memo); err != nil {
		return fmt.Errorf("update memo for user %d: %w", userID, err)
	}
	return nil
}

// CurrentSession returns the user's active session: the most recently
// created non-archived one. Returns ErrNoSession when there is none.
func (m *Manager) CurrentSession(ctx context.Context, userID int64) (*store.TutorSession, error) {
	s, err := m.sessions.Current(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("current session for user %d: %w", userID, err)
	}
	return s, nil
}

// StartSession archives every active session of the user and creates a
// fresh one, atomically. The new session starts with attempted=0,
// correct=false, completed=false, archived=false.
func (m *Manager) StartSession(ctx context.Context, userID int64, subject, memo, question, process, answer string) (*store.TutorSession, error) {
	s := &store.TutorSession{
		UserID:         userID,
		Subject:        subject,
		Memo:           memo,
		Question:       question,
		SolvingProcess: process,
		ExpectedAnswer: answer,
	}
	if err := m.sessions.ArchiveAndCreate(ctx, s); err != nil {
		return nil, fmt.Errorf("start session for user %d: %w", userID, err)
	}
	m.log.Info("session started", "user_id", userID, "session_id", s.ID, "subject", subject)
	return s, nil
}

// RecordAttempt increments the session's attempt counter and records the
// attempt's correctness. A correct attempt completes the session;
// completion is never unset by a later incorrect attempt.
func (m *Manager) RecordAttempt(ctx context.Context, sessionID uint, isCorrect bool) error {
	if err := m.sessions.RecordAttempt(ctx, sessionID, isCorrect); err != nil {
		return fmt.Errorf("record attempt on session %d: %w", sessionID, err)
	}
	return nil
}

// ForceComplete marks the session completed unconditionally, leaving the
// correctness flag untouched. Giving up is not a correct solve.
func (m *Manager) ForceComplete(ctx context.Context, sessionID uint) error {
	if err := m.sessions.ForceComplete(ctx, sessionID); err != nil {
		return fmt.Errorf("force-complete session %d: %w", sessionID, err)
	}
	return nil
}

// RecordPerformance stores the judge's latest performance score on the session.
func (m *Manager) RecordPerformance(ctx context.Context, sessionID uint, score int, explanation string) error {
	if err := m.sessions.SetPerformance(ctx, sessionID, score, explanation); err != nil {
		return fmt.Errorf("record performance on session %d: %w", sessionID, err)
	}
	return nil
}

// SetPlayMode toggles the user's free-conversation status. The daily
// scheduler consults this flag through its eligibility predicate.
func (m *Manager) SetPlayMode(ctx context.Context, userID int64, enabled bool) error {
	status := store.StatusActive
	if enabled {
		status = store.StatusPlaying
	}
	if err := m.users.SetStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("set status for user %d: %w", userID, err)
	}
	return nil
}
