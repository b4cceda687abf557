package account_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/modules/account"
	"github.com/dmitrymomot/authservice/pkg/auth"
	"github.com/dmitrymomot/authservice/pkg/mongo"
)

func newStorage(t *testing.T) *account.MongoStorage {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m := mongo.NewManager()
	_, err := m.ConnectWithConfig(ctx, mongo.Config{
		URI:           uri,
		Database:      "authservice_test_" + uuid.NewString()[:8],
		RetryAttempts: 1,
		RetryDelay:    100 * time.Millisecond,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if db, err := m.Database(); err == nil {
			_ = db.Drop(ctx)
		}
		_ = m.Disconnect(ctx)
	})

	s := account.NewMongoStorage(m)
	require.NoError(t, s.EnsureIndexes(ctx))
	assert.Contains(t, m.Info().Models, account.UsersCollection)
	return s
}

func newUser(email string, createdAt time.Time) *auth.User {
	return &auth.User{
		ID:         uuid.New(),
		Email:      email,
		Name:       "Test",
		AuthMethod: auth.MethodPassword,
		CreatedAt:  createdAt,
	}
}

func TestMongoStorage(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("create and lookup", func(t *testing.T) {
		u := newUser("ann@example.com", base)
		require.NoError(t, s.CreateUser(ctx, u, []byte("hash")))

		got, err := s.GetUserByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, u.CreatedAt, got.CreatedAt)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := s.CreateUser(ctx, newUser("ann@example.com", base), []byte("hash"))
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("list newest first", func(t *testing.T) {
		require.NoError(t, s.CreateUser(ctx, newUser("bob@example.com", base.Add(time.Hour)), []byte("h")))
		require.NoError(t, s.CreateUser(ctx, newUser("cat@example.com", base.Add(2*time.Hour)), []byte("h")))

		users, err := s.ListUsers(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "cat@example.com", users[0].Email)
		assert.Equal(t, "bob@example.com", users[1].Email)

		users, err = s.ListUsers(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "ann@example.com", users[0].Email)

		total, err := s.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

func TestMongoStorage_NotConnected(t *testing.T) {
	t.Parallel()

	s := account.NewMongoStorage(mongo.NewManager())
	_, err := s.CountUsers(context.Background())
	assert.ErrorIs(t, err, mongo.ErrNotConnected)
}
