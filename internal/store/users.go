package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// UserRepo manages User rows.
type UserRepo interface {
	// Get returns the user with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*User, error)

	// Create inserts a new user row.
	Create(ctx context.Context, u *User) error

	// WithSubject returns all users with a non-empty subject set.
	WithSubject(ctx context.Context) ([]*User, error)

	// UpdateSubject sets the user's subject.
	UpdateSubject(ctx context.Context, id int64, subject string) error

	// UpdateMemo sets the user's memo.
	UpdateMemo(ctx context.Context, id int64, memo string) error

	// SetStatus sets the user's status flag.
	SetStatus(ctx context.Context, id int64, status string) error
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.Status == "" {
		u.Status = StatusActive
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) WithSubject(ctx context.Context) ([]*User, error) {
	var users []*User
	err := r.db.WithContext(ctx).
		Where("subject IS NOT NULL AND subject <> ''").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) UpdateSubject(ctx context.Context, id int64, subject string) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("subject", subject).Error
}

func (r *userRepo) UpdateMemo(ctx context.Context, id int64, memo string) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("memo", memo).Error
}

func (r *userRepo) SetStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("status", status).Error
}
