package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/delta-student/wanderlust/internal/domain"
	"github.com/delta-student/wanderlust/internal/mailer"
	"github.com/delta-student/wanderlust/internal/platform/logger"
	"github.com/delta-student/wanderlust/internal/platform/metrics"
)

// UserUsecase implements signup, login and user lookup.
type UserUsecase struct {
	users   domain.UserRepository
	mailer  mailer.Mailer
	metrics *metrics.Manager
	logger  *logger.Logger
}

// NewUserUsecase creates a UserUsecase.
func NewUserUsecase(users domain.UserRepository, m mailer.Mailer, mets *metrics.Manager, log *logger.Logger) *UserUsecase {
	if m == nil {
		m = mailer.NoopMailer{}
	}
	return &UserUsecase{
		users:   users,
		mailer:  m,
		metrics: mets,
		logger:  log.Named("UserUsecase"),
	}
}

// Signup registers a new account. The plaintext password is hashed here and
// never stored or returned. A taken username or email surfaces as
// domain.ErrDuplicateUser.
func (uc *UserUsecase) Signup(ctx context.Context, username, email, password string) (*domain.User, error) {
	uc.logger.Info("Signing up user", zap.String("username", username))

	if password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrInvalidInput)
	}

	user, err := domain.NewUser(username, email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			uc.logger.Warn("Signup conflict", zap.String("username", username))
			return nil, err
		}
		uc.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}

	uc.metrics.IncSignups()

	// Best effort; a broken mail relay must not fail the signup.
	if err := uc.mailer.SendWelcomeEmail(user.Email, user.Username); err != nil {
		uc.logger.Warn("Failed to send welcome email", zap.String("email", user.Email), zap.Error(err))
	}

	uc.logger.Info("User signed up", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login verifies the credentials. Unknown usernames and wrong passwords both
// return domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (uc *UserUsecase) Login(ctx context.Context, username, password string) (*domain.User, error) {
	uc.logger.Info("Logging in user", zap.String("username", username))

	user, err := uc.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		uc.logger.Error("Failed to look up user for login", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	uc.logger.Info("User logged in", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// GetByID rehydrates the user referenced by a session. A malformed id
// behaves like a missing user.
func (uc *UserUsecase) GetByID(ctx context.Context, idHex string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return uc.users.FindByID(ctx, id)
}
