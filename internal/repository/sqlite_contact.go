package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhishek622/portfolio/pkg/model"
)

type sqliteContactRepo struct {
	db *sql.DB
}

const sqliteContactColumns = `id, name, email, subject, message, read, responded, created_at, updated_at`

func buildSQLiteContactWhere(f model.ContactFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Read != nil {
		conds = append(conds, "read = ?")
		args = append(args, *f.Read)
	}
	if f.Responded != nil {
		conds = append(conds, "responded = ?")
		args = append(args, *f.Responded)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanSQLiteContact(row sqliteScanner) (model.ContactMessage, error) {
	var (
		m                model.ContactMessage
		created, updated string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.Responded, &created, &updated); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseSQLiteTime(created); err != nil {
		return m, fmt.Errorf("decode created_at: %w", err)
	}
	if m.UpdatedAt, err = parseSQLiteTime(updated); err != nil {
		return m, fmt.Errorf("decode updated_at: %w", err)
	}
	return m, nil
}

func (r *sqliteContactRepo) CreateContact(ctx context.Context, m *model.ContactMessage) error {
	id := uuid.New().String()
	now := nowMicros()

	const q = `INSERT INTO contacts (` + sqliteContactColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		id, m.Name, m.Email, m.Subject, m.Message, m.Read, m.Responded,
		formatSQLiteTime(now), formatSQLiteTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	m.ID = id
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

func (r *sqliteContactRepo) ListContacts(ctx context.Context, f model.ContactFilter, skip, limit int64) ([]model.ContactMessage, error) {
	where, args := buildSQLiteContactWhere(f)
	q := "SELECT " + sqliteContactColumns + " FROM contacts" + where +
		" ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"

	rows, err := r.db.QueryContext(ctx, q, append(args, limit, max(skip, 0))...)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	out := []model.ContactMessage{}
	for rows.Next() {
		m, err := scanSQLiteContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}
	return out, nil
}

func (r *sqliteContactRepo) CountContacts(ctx context.Context, f model.ContactFilter) (int64, error) {
	where, args := buildSQLiteContactWhere(f)
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return total, nil
}

func (r *sqliteContactRepo) GetContactByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	m, err := scanSQLiteContact(r.db.QueryRowContext(ctx, "SELECT "+sqliteContactColumns+" FROM contacts WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact message %s: %w", id, err)
	}
	return &m, nil
}

func (r *sqliteContactRepo) UpdateContact(ctx context.Context, id string, upd model.UpdateContactReq) (*model.ContactMessage, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE contacts SET
	read = COALESCE(?, read),
	responded = COALESCE(?, responded),
	updated_at = ?
WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, upd.Read, upd.Responded, formatSQLiteTime(nowMicros()), id)
	if err != nil {
		return nil, fmt.Errorf("update contact message %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update contact message %s: %w", id, err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetContactByID(ctx, id)
}

func (r *sqliteContactRepo) DeleteContact(ctx context.Context, id string) error {
	id, err := parseUUID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}
