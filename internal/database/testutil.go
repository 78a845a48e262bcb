package database

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
)

var memSeq atomic.Int64

// OpenSQLiteMemory opens a private in-memory SQLite database with the schema
// applied. The caller must import a driver registered as "sqlite3".
func OpenSQLiteMemory(ctx context.Context) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared", memSeq.Add(1))
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
