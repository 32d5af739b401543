package repo

import (
	"context"
	"testing"

	"github.com/Skotchmaster/blog/pkg/db"
	"github.com/Skotchmaster/blog/pkg/ids"
	"github.com/Skotchmaster/blog/services/user/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	r := &GormRepo{DB: gdb, IDs: ids.MustNode(1)}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func TestGormRepo_CreateAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	u := &models.User{Username: "ann", Email: "ann@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := r.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, models.RoleUser, got.Role)

	_, err = r.FindByEmail(ctx, "ANN@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGormRepo_CreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	require.NoError(t, r.CreateUser(ctx, &models.User{Username: "a", Email: "dup@example.com", PasswordHash: "h", Role: models.RoleUser}))
	err := r.CreateUser(ctx, &models.User{Username: "b", Email: "dup@example.com", PasswordHash: "h", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
}

func TestGormRepo_ListUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	users, err := r.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		require.NoError(t, r.CreateUser(ctx, &models.User{Username: email, Email: email, PasswordHash: "h", Role: models.RoleUser}))
	}
	users, err = r.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
}
