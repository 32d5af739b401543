package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uniqueThing struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func TestOpen_SQLiteMemory(t *testing.T) {
	t.Parallel()

	gdb, err := Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&uniqueThing{}))

	require.NoError(t, gdb.Create(&uniqueThing{Name: "a"}).Error)
	err = gdb.Create(&uniqueThing{Name: "a"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "")
	require.Error(t, err)
	_, err = OpenSQLX(context.Background(), "")
	require.Error(t, err)
}

func TestOpenSQLX_SQLiteMemory(t *testing.T) {
	t.Parallel()

	sdb, err := OpenSQLX(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	defer sdb.Close()

	_, err = sdb.Exec(`CREATE TABLE t (n INTEGER)`)
	require.NoError(t, err)
	_, err = sdb.Exec(sdb.Rebind(`INSERT INTO t (n) VALUES (?)`), 7)
	require.NoError(t, err)

	var n int
	require.NoError(t, sdb.Get(&n, `SELECT n FROM t`))
	assert.Equal(t, 7, n)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated", err: fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "pq unique", err: &pq.Error{Code: "23505"}, want: true},
		{name: "pq other", err: &pq.Error{Code: "23503"}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}
