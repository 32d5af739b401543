package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/blog/pkg/db"
	"github.com/Skotchmaster/blog/pkg/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *GormLedger {
	t.Helper()

	gdb, err := db.Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)

	l := New(gdb, ids.MustNode(1))
	require.NoError(t, l.Migrate(context.Background()))
	return l
}

func TestGormLedger_AppendAndIsValid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newTestLedger(t)

	id, err := l.Append(ctx, 42, "tok-a", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotZero(t, id)

	ok, err := l.IsValid(ctx, "tok-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.IsValid(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	recs, err := l.ListForUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, TokenTypeBearer, recs[0].TokenType)
	assert.False(t, recs[0].Expired)
	assert.False(t, recs[0].Revoked)
}

func TestGormLedger_AppendDuplicateTokenFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newTestLedger(t)

	_, err := l.Append(ctx, 1, "same", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = l.Append(ctx, 1, "same", time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestGormLedger_RevokeAllForUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newTestLedger(t)
	exp := time.Now().Add(time.Hour)

	for _, tok := range []string{"u1-a", "u1-b"} {
		_, err := l.Append(ctx, 1, tok, exp)
		require.NoError(t, err)
	}
	_, err := l.Append(ctx, 2, "u2-a", exp)
	require.NoError(t, err)

	n, err := l.RevokeAllForUser(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, tok := range []string{"u1-a", "u1-b"} {
		ok, err := l.IsValid(ctx, tok)
		require.NoError(t, err)
		assert.False(t, ok, tok)
	}
	ok, err := l.IsValid(ctx, "u2-a")
	require.NoError(t, err)
	assert.True(t, ok)

	recs, err := l.ListForUser(ctx, 1)
	require.NoError(t, err)
	for _, r := range recs {
		assert.True(t, r.Expired)
		assert.True(t, r.Revoked)
	}

	n, err = l.RevokeAllForUser(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = l.RevokeAllForUser(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGormLedger_RevokeCatchesHalfFlaggedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newTestLedger(t)

	_, err := l.Append(ctx, 7, "old", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	n, err := l.ExpireBefore(ctx, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = l.RevokeAllForUser(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	recs, err := l.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Revoked)
}

func TestGormLedger_ExpireBefore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newTestLedger(t)
	now := time.Now()

	_, err := l.Append(ctx, 3, "stale", now.Add(-time.Second))
	require.NoError(t, err)
	_, err = l.Append(ctx, 3, "fresh", now.Add(time.Hour))
	require.NoError(t, err)

	n, err := l.ExpireBefore(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := l.IsValid(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = l.IsValid(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)

	recs, err := l.ListForUser(ctx, 3)
	require.NoError(t, err)
	for _, r := range recs {
		assert.False(t, r.Revoked)
	}
}
