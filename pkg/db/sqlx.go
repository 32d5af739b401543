package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// OpenSQLX opens a raw-SQL handle on the same DSN conventions as Open.
func OpenSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	driver, source := "postgres", dsn
	if isSQLite(dsn) {
		driver, source = "sqlite", sqlitePath(dsn)
	}

	db, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	configurePool(db.DB, dsn)

	if err := ping(ctx, db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func IsSQLite(dsn string) bool {
	return isSQLite(dsn)
}
