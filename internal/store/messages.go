package store

import (
	"context"

	"gorm.io/gorm"
)

// MessageRepo manages a session's append-only conversation log.
type MessageRepo interface {
	// Append adds one message to the session's log.
	Append(ctx context.Context, sessionID uint, role, content string) error

	// BySession returns the session's messages ordered by creation time.
	BySession(ctx context.Context, sessionID uint) ([]*Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func (r *messageRepo) Append(ctx context.Context, sessionID uint, role, content string) error {
	return r.db.WithContext(ctx).Create(&Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}).Error
}

func (r *messageRepo) BySession(ctx context.Context, sessionID uint) ([]*Message, error) {
	var msgs []*Message
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
