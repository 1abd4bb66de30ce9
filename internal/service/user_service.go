package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// UserService provides registration and credential checks.
type UserService interface {
	// Register creates a user. Returns store.ErrEmailExists when the email is taken.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// Authenticate returns the user matching email and password, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, fmt.Errorf("users store cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		users:  users,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *userServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, userValidationError(err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, NewServiceError("register", "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email")
		}
		return nil, NewServiceError("register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.
func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("authenticate", "failed to load user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("password mismatch",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser implements UserService.
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("get_user", "failed to load user", err)
	}
	return user, nil
}

// userValidationError names the field a domain.NewUser error is about.
func userValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyUserName):
		return domain.NewValidationError("name", "is required")
	case errors.Is(err, domain.ErrUserNameTooLong):
		return domain.NewValidationError("name", "must be at most 255 characters")
	case errors.Is(err, domain.ErrEmptyEmail):
		return domain.NewValidationError("email", "is required")
	case errors.Is(err, domain.ErrInvalidEmail):
		return domain.NewValidationError("email", "must be a valid email address")
	case errors.Is(err, domain.ErrPasswordTooShort):
		return domain.NewValidationError("password", "must be at least 12 characters")
	case errors.Is(err, domain.ErrPasswordTooLong):
		return domain.NewValidationError("password", "must be at most 72 characters")
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
