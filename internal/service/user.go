package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gameswap/internal/apperr"
	"gameswap/internal/cache"
	"gameswap/internal/event"
	"gameswap/internal/metrics"
	"gameswap/internal/model"
	"gameswap/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const bcryptCost = 12

// ErrRateLimited is returned when registration or credential checks
// exceed the per-process limiter.
var ErrRateLimited = errors.New("rate limit exceeded")

// UserService manages accounts: registration, lookup, profile and
// password updates, and deletion. Reads go through the cache when one
// is configured; mutations always hit the store and invalidate.
type UserService struct {
	store     store.Store
	publisher Publisher
	cache     *cache.UserCache
	limiter   *rate.Limiter
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewUserService(st store.Store, pub Publisher, uc *cache.UserCache, logger *slog.Logger, m *metrics.Metrics) *UserService {
	return &UserService{
		store:     st,
		publisher: pub,
		cache:     uc,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 10),
		logger:    logger,
		metrics:   m,
	}
}

// RegisterParams carries the registration form. All fields required.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// Register creates a new account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*model.User, error) {
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}
	if p.Name == "" || p.Email == "" || p.Password == "" || p.Address == "" {
		return nil, &apperr.ValidationError{Detail: "all fields are required"}
	}

	if existing, err := s.store.Users().FindByEmail(ctx, p.Email); err == nil && existing != nil {
		return nil, &apperr.ConflictError{Detail: "email already in use", ExistingID: existing.ID.String()}
	}
	if existing, err := s.store.Users().FindByName(ctx, p.Name); err == nil && existing != nil {
		return nil, &apperr.ConflictError{Detail: "name already in use", ExistingID: existing.ID.String()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: string(hash),
		Address:      p.Address,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.UserRegistered(ctx)
	}
	return user, nil
}

// Get resolves a user by name first, then by id, mirroring how the API
// accepts either identifier in the path.
func (s *UserService) Get(ctx context.Context, identifier string) (*model.User, error) {
	if s.cache != nil {
		if u, err := s.cache.Get(ctx, identifier); err != nil {
			s.logger.Warn("User cache read failed", "identifier", identifier, "error", err)
		} else if u != nil {
			return u, nil
		}
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.logger.Warn("User cache write failed", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// UpdateParams carries optional profile changes. A non-nil NewPassword
// re-hashes the credential and publishes a user-changes event.
type UpdateParams struct {
	Name        *string
	Email       *string
	Address     *string
	NewPassword *string
}

// Update authenticates with the current password, applies the changes,
// and publishes a password-change event when the credential changed.
func (s *UserService) Update(ctx context.Context, identifier, password string, p UpdateParams) (*model.User, error) {
	user, err := s.authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	oldName := user.Name

	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.Address != nil {
		user.Address = *p.Address
	}

	passwordChanged := false
	if p.NewPassword != nil && *p.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.NewPassword), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		passwordChanged = true
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, user, oldName)

	if passwordChanged {
		if err := s.publisher.Publish(ctx, event.TopicUserChanges, event.NewUserChange(user)); err != nil {
			s.logger.Error("Failed to publish user change", "user_id", user.ID, "error", err)
			if s.metrics != nil {
				s.metrics.RecordError(ctx, "publish", apperr.Kind(err))
			}
		}
	}
	return user, nil
}

// Delete authenticates with the current password and removes the account.
func (s *UserService) Delete(ctx context.Context, identifier, password string) error {
	user, err := s.authenticate(ctx, identifier, password)
	if err != nil {
		return err
	}
	if err := s.store.Users().Delete(ctx, user.ID); err != nil {
		return err
	}
	s.invalidateCache(ctx, user, "")
	return nil
}

func (s *UserService) authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}
	if password == "" {
		return nil, &apperr.ValidationError{Field: "password", Detail: "password is required"}
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &apperr.AuthenticationError{Detail: "invalid password"}
	}
	return user, nil
}

func (s *UserService) findByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	user, err := s.store.Users().FindByName(ctx, identifier)
	if err == nil {
		return user, nil
	}
	id, parseErr := uuid.Parse(identifier)
	if parseErr != nil {
		return nil, err
	}
	return s.store.Users().FindByID(ctx, id)
}

func (s *UserService) invalidateCache(ctx context.Context, user *model.User, oldName string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, user, oldName); err != nil {
		s.logger.Warn("User cache invalidation failed", "user_id", user.ID, "error", err)
	}
}
