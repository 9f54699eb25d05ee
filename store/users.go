package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"gorm.io/gorm"
)

// CreateUser inserts a user, failing with ErrConflict when the email or
// username is already registered.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.Email) == "" || strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("%w: email and username are required", models.ErrInvalidArgument)
	}

	return s.write(ctx, func(tx *gorm.DB) error {
		var existing []models.User
		if err := tx.Select("email", "username").
			Where("email = ? OR username = ?", user.Email, user.Username).
			Limit(2).
			Find(&existing).Error; err != nil {
			return err
		}
		for _, u := range existing {
			if u.Email == user.Email {
				return fmt.Errorf("%w: email %s is already registered", models.ErrConflict, user.Email)
			}
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: username %s is already taken", models.ErrConflict, user.Username)
		}
		return tx.Create(user).Error
	})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *Store) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := s.read(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}
