// Package store persists users, plant analyses, quiz attempts, achievements
// and notifications. Writes are serialized by a store-wide mutex and each one
// runs in its own transaction; reads never take the lock.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) write(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mapError(s.db.WithContext(ctx).Transaction(fn))
}

func (s *Store) read(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Ping reports whether the underlying database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return mapError(err)
	}
	return mapError(sqlDB.PingContext(ctx))
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrStorageUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
}
