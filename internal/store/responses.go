package store

import (
	"context"

	"gorm.io/gorm"
)

// ResponseRepo manages the append-only audit trail of judged attempts.
type ResponseRepo interface {
	// Append records one judgment.
	Append(ctx context.Context, resp *SolutionResponse) error

	// BySession returns the session's judgments ordered by creation time.
	BySession(ctx context.Context, sessionID uint) ([]*SolutionResponse, error)
}

type responseRepo struct {
	db *gorm.DB
}

func (r *responseRepo) Append(ctx context.Context, resp *SolutionResponse) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

func (r *responseRepo) BySession(ctx context.Context, sessionID uint) ([]*SolutionResponse, error) {
	var out []*SolutionResponse
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
