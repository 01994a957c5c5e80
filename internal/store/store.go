// Package store is the persistence gateway: gorm models plus small
// repositories behind interfaces, one per aggregate.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned by lookups when no row matches. Callers treat a
// missing current session as a normal state, not a fault.
var ErrNotFound = errors.New("store: not found")

// Store holds the gorm handle and hands out repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres at dsn and auto-migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return newStore(db)
}

// OpenSQLite opens a SQLite database at path (":memory:" works too).
// Used by tests and local development.
func OpenSQLite(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return newStore(db)
}

func newStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&User{}, &TutorSession{}, &Message{}, &SolutionResponse{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle for raw queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Users returns a UserRepo backed by this store.
func (s *Store) Users() UserRepo {
	return &userRepo{db: s.db}
}

// Sessions returns a SessionRepo backed by this store.
func (s *Store) Sessions() SessionRepo {
	return &sessionRepo{db: s.db}
}

// Messages returns a MessageRepo backed by this store.
func (s *Store) Messages() MessageRepo {
	return &messageRepo{db: s.db}
}

// Responses returns a ResponseRepo backed by this store.
func (s *Store) Responses() ResponseRepo {
	return &responseRepo{db: s.db}
}
