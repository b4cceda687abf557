package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authservice/pkg/logger"
	"github.com/dmitrymomot/authservice/pkg/sanitizer"
	"github.com/dmitrymomot/authservice/pkg/validator"
)

// UserStorage persists users. CreateUser must return ErrEmailAlreadyExists
// when the email is taken, even if a concurrent insert won the race.
type UserStorage interface {
	CreateUser(ctx context.Context, user *User, passwordHash []byte) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// UserService implements account creation and listing.
type UserService struct {
	storage        UserStorage
	bcryptCost     int
	logger         *slog.Logger
	passwordPolicy validator.PasswordPolicy
	now            func() time.Time
}

// UserOption configures a UserService during construction.
type UserOption func(*UserService)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) UserOption {
	return func(s *UserService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost sets the bcrypt cost. Values outside bcrypt's range are ignored.
func WithBcryptCost(cost int) UserOption {
	return func(s *UserService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithPasswordPolicy overrides validator.DefaultPasswordPolicy.
func WithPasswordPolicy(p validator.PasswordPolicy) UserOption {
	return func(s *UserService) {
		s.passwordPolicy = p
	}
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) UserOption {
	return func(s *UserService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewUserService creates a user service backed by storage.
func NewUserService(storage UserStorage, opts ...UserOption) *UserService {
	s := &UserService{
		storage:        storage,
		bcryptCost:     bcrypt.DefaultCost,
		logger:         logger.Nop(),
		passwordPolicy: validator.DefaultPasswordPolicy(),
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(logger.Component("users"))
	return s
}

// CreateUser normalises and validates in, hashes the password and stores the
// account. Duplicate emails yield ErrEmailAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	email := sanitizer.NormalizeEmail(in.Email)
	name := sanitizer.NormalizeName(in.Name)

	if err := validator.Apply(
		validator.Required("email", email),
		validator.When(email != "", validator.ValidEmail("email", email)),
		validator.Required("password", in.Password),
		validator.When(in.Password != "", validator.StrongPassword("password", in.Password, s.passwordPolicy)),
		validator.When(in.Password != "", validator.NotCommonPassword("password", in.Password)),
		validator.MaxLen("name", name, MaxNameLength),
	); err != nil {
		return nil, err
	}

	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Join(ErrHashPassword, err)
	}

	user := &User{
		ID:         uuid.New(),
		Email:      email,
		Name:       name,
		AuthMethod: MethodPassword,
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.storage.CreateUser(ctx, user, hash); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user created",
		logger.UserID(user.ID.String()),
		slog.String("email", sanitizer.MaskEmail(user.Email)),
	)

	return user, nil
}

// ListUsers returns one page of users, newest first, with the total count.
func (s *UserService) ListUsers(ctx context.Context, p ListParams) (*UserList, error) {
	if p.Limit == 0 {
		p.Limit = DefaultListLimit
	}
	if err := validator.Apply(
		validator.Between("limit", p.Limit, 1, MaxListLimit),
		validator.Between("offset", p.Offset, 0, math.MaxInt),
	); err != nil {
		return nil, err
	}

	users, err := s.storage.ListUsers(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	total, err := s.storage.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if users == nil {
		users = []User{}
	}

	return &UserList{
		Users:  users,
		Total:  total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}, nil
}
