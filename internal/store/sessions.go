package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// SessionRepo manages TutorSession rows.
type SessionRepo interface {
	// Get returns the session with the given id, or ErrNotFound.
	Get(ctx context.Context, id uint) (*TutorSession, error)

	// Current returns the most recently created non-archived session for
	// the user, or ErrNotFound. Recency is the tiebreak if the
	// single-active invariant was ever violated.
	Current(ctx context.Context, userID int64) (*TutorSession, error)

	// ArchiveAndCreate archives every non-archived session of the user
	// and inserts the new one, in a single transaction. This is the sole
	// mechanism enforcing "at most one active session per user".
	ArchiveAndCreate(ctx context.Context, s *TutorSession) error

	// RecordAttempt increments the attempt counter, records the latest
	// correctness, and completes the session when the attempt was
	// correct. Completion is monotonic: it is never unset.
	RecordAttempt(ctx context.Context, id uint, isCorrect bool) error

	// ForceComplete marks the session completed without touching the
	// correctness flag. Used by give-up.
	ForceComplete(ctx context.Context, id uint) error

	// SetPerformance records the latest performance score and explanation.
	SetPerformance(ctx context.Context, id uint, score int, explanation string) error
}

type sessionRepo struct {
	db *gorm.DB
}

func (r *sessionRepo) Get(ctx context.Context, id uint) (*TutorSession, error) {
	var s TutorSession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Current(ctx context.Context, userID int64) (*TutorSession, error) {
	var s TutorSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND archived = ?", userID, false).
		Order("created_at DESC, id DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) ArchiveAndCreate(ctx context.Context, s *TutorSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&TutorSession{}).
			Where("user_id = ? AND archived = ?", s.UserID, false).
			Update("archived", true).Error; err != nil {
			return err
		}
		return tx.Create(s).Error
	})
}

func (r *sessionRepo) RecordAttempt(ctx context.Context, id uint, isCorrect bool) error {
	return r.db.WithContext(ctx).Model(&TutorSession{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"attempted":  gorm.Expr("attempted + 1"),
			"correct":    isCorrect,
			"completed":  gorm.Expr("completed OR ?", isCorrect),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *sessionRepo) ForceComplete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&TutorSession{}).
		Where("id = ?", id).
		Update("completed", true).Error
}

func (r *sessionRepo) SetPerformance(ctx context.Context, id uint, score int, explanation string) error {
	return r.db.WithContext(ctx).Model(&TutorSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"performance":             score,
			"performance_explanation": explanation,
		}).Error
}
