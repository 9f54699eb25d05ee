package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/store"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

type UserService struct {
	store  *store.Store
	clock  Clock
	logger *zap.Logger
}

func NewUserService(store *store.Store, clock Clock, logger *zap.Logger) *UserService {
	return &UserService{store: store, clock: clock, logger: logger}
}

// Register stores a new user with a bcrypt hash of the password. The
// plaintext is never persisted.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", models.ErrInvalidArgument)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           newID(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user_registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return user, nil
}

// Authenticate accepts either the email or the username as login.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.store.GetUserByEmail(ctx, strings.ToLower(login))
	} else {
		user, err = s.store.GetUserByUsername(ctx, login)
	}
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Warn("login_failed", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return user, nil
}
