package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// sqliteTimeLayout is fixed width so that text order equals time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// NewSQLiteRepository wires both tables on db, creating them when missing.
// db must be opened with the "sqlite" driver.
func NewSQLiteRepository(ctx context.Context, db *sql.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("sqlite db is required")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Repository{
		Interview: &sqliteInterviewRepo{db: db},
		Contact:   &sqliteContactRepo{db: db},
		name:      "sqlite",
		ping:      db.PingContext,
		close: func(context.Context) error {
			return db.Close()
		},
	}, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ftsQuery turns free text into an FTS5 expression that ORs the quoted
// tokens, so user input can never be parsed as FTS5 syntax. ok is false when
// the text has no searchable token.
func ftsQuery(search string) (string, bool) {
	tokens := tokenize(search)
	if len(tokens) == 0 {
		return "", false
	}
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " OR "), true
}

func sqliteTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
