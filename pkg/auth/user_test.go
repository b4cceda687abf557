package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authservice/pkg/auth"
	"github.com/dmitrymomot/authservice/pkg/validator"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589_793_238, time.UTC)

func newService(storage auth.UserStorage, opts ...auth.UserOption) *auth.UserService {
	opts = append([]auth.UserOption{
		auth.WithBcryptCost(bcrypt.MinCost),
		auth.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	return auth.NewUserService(storage, opts...)
}

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()

	t.Run("stores normalised user with bcrypt hash", func(t *testing.T) {
		t.Parallel()

		storage := &MockUserStorage{}
		storage.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(nil, auth.ErrUserNotFound)

		var hash []byte
		storage.On("CreateUser", mock.Anything, mock.AnythingOfType("*auth.User"), mock.AnythingOfType("[]uint8")).
			Run(func(args mock.Arguments) { hash = args.Get(2).([]byte) }).
			Return(nil)

		svc := newService(storage)
		user, err := svc.CreateUser(context.Background(), auth.CreateUserInput{
			Email:    "  Ann@Example.COM ",
			Password: "correct horse 7",
			Name:     "  Ann \t  Lee ",
		})
		require.NoError(t, err)

		assert.Equal(t, "ann@example.com", user.Email)
		assert.Equal(t, "Ann Lee", user.Name)
		assert.Equal(t, auth.MethodPassword, user.AuthMethod)
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", user.ID.String())
		assert.Equal(t, fixedNow.Truncate(time.Millisecond), user.CreatedAt)
		assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("correct horse 7")))
		storage.AssertExpectations(t)
	})

	t.Run("validation errors skip storage", func(t *testing.T) {
		t.Parallel()

		storage := &MockUserStorage{}
		svc := newService(storage)

		_, err := svc.CreateUser(context.Background(), auth.CreateUserInput{
			Email:    "not-an-email",
			Password: "short",
			Name:     strings.Repeat("é", 101),
		})
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		assert.True(t, verrs.Has("email"))
		assert.True(t, verrs.Has("password"))
		assert.True(t, verrs.Has("name"))
		storage.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("missing fields are required", func(t *testing.T) {
		t.Parallel()

		svc := newService(&MockUserStorage{})
		_, err := svc.CreateUser(context.Background(), auth.CreateUserInput{})

		verrs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"email", "password"}, verrs.Fields())
	})

	t.Run("common password rejected", func(t *testing.T) {
		t.Parallel()

		svc := newService(&MockUserStorage{})
		_, err := svc.CreateUser(context.Background(), auth.CreateUserInput{
			Email:    "ann@example.com",
			Password: "password123",
		})

		verrs := validator.ExtractValidationErrors(err)
		assert.True(t, verrs.Has("password"))
	})

	t.Run("existing email", func(t *testing.T) {
		t.Parallel()

		storage := &MockUserStorage{}
		storage.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(&auth.User{Email: "ann@example.com"}, nil)

		svc := newService(storage)
		_, err := svc.CreateUser(context.Background(), auth.CreateUserInput{
			Email:    "ann@example.com",
			Password: "correct horse 7",
		})
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
		storage.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate detected on insert", func(t *testing.T) {
		t.Parallel()

		storage := &MockUserStorage{}
		storage.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(nil, auth.ErrUserNotFound)
		storage.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.Join(auth.ErrEmailAlreadyExists, errors.New("E11000")))

		svc := newService(storage)
		_, err := svc.CreateUser(context.Background(), auth.CreateUserInput{
			Email:    "ann@example.com",
			Password: "correct horse 7",
		})
		assert.Equal(t, auth.ErrEmailAlreadyExists, err)
	})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		storage := &MockUserStorage{}
		storage.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(nil, boom)

		svc := newService(storage)
		_, err := svc.CreateUser(context.Background(), auth.CreateUserInput{
			Email:    "ann@example.com",
			Password: "correct horse 7",
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, validator.IsValidationError(err))
	})


}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	t.Run("defaults limit", func(t *testing.T) {
		t.Parallel()

		users := []auth.User{{Email: "b@example.com"}, {Email: "a@example.com"}}
		storage := &MockUserStorage{}
		storage.On("ListUsers", mock.Anything, auth.DefaultListLimit, 0).Return(users, nil)
		storage.On("CountUsers", mock.Anything).Return(int64(42), nil)

		list, err := newService(storage).ListUsers(context.Background(), auth.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, users, list.Users)
		assert.Equal(t, int64(42), list.Total)
		assert.Equal(t, auth.DefaultListLimit, list.Limit)
		assert.Equal(t, 0, list.Offset)
	})

	t.Run("empty page is not nil", func(t *testing.T) {
		t.Parallel()

		storage := &MockUserStorage{}
		storage.On("ListUsers", mock.Anything, 10, 30).Return(nil, nil)
		storage.On("CountUsers", mock.Anything).Return(int64(3), nil)

		list, err := newService(storage).ListUsers(context.Background(), auth.ListParams{Limit: 10, Offset: 30})
		require.NoError(t, err)
		assert.NotNil(t, list.Users)
		assert.Empty(t, list.Users)
	})

	t.Run("bounds", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			params auth.ListParams
			field  string
		}{
			{"limit too large", auth.ListParams{Limit: 101}, "limit"},
			{"negative limit", auth.ListParams{Limit: -1}, "limit"},
			{"negative offset", auth.ListParams{Limit: 5, Offset: -1}, "offset"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				storage := &MockUserStorage{}
				_, err := newService(storage).ListUsers(context.Background(), tt.params)
				assert.True(t, validator.ExtractValidationErrors(err).Has(tt.field))
				storage.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		storage := &MockUserStorage{}
		storage.On("ListUsers", mock.Anything, 20, 0).Return(nil, boom)

		_, err := newService(storage).ListUsers(context.Background(), auth.ListParams{})
		assert.ErrorIs(t, err, boom)
	})
}
