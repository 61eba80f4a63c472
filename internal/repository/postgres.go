package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed postgres_schema.sql
var postgresSchema string

// NewPostgresRepository wires both tables on pool, creating them when missing.
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, errors.New("postgres pool is required")
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}
	return &Repository{
		Interview: &pgInterviewRepo{db: pool},
		Contact:   &pgContactRepo{db: pool},
		name:      "postgres",
		ping:      pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

// parseUUID maps an unparsable id to ErrNotFound.
func parseUUID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrNotFound
	}
	return u.String(), nil
}

// escapeLike escapes the LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nowMicros matches the microsecond precision of the SQL backends.
func nowMicros() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond, whose single %d verb is replaced by the new argument's position.
func (w *whereBuilder) add(cond string, arg any) int {
	w.args = append(w.args, arg)
	n := len(w.args)
	w.conds = append(w.conds, fmt.Sprintf(cond, n))
	return n
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
