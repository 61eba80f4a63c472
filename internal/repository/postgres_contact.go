package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhishek622/portfolio/pkg/model"
)

type pgContactRepo struct {
	db *pgxpool.Pool
}

const contactColumns = `id::text, name, email, subject, message, read, responded, created_at, updated_at`

func buildContactWhere(f model.ContactFilter) (string, []any) {
	var w whereBuilder
	if f.Read != nil {
		w.add("read = $%d", *f.Read)
	}
	if f.Responded != nil {
		w.add("responded = $%d", *f.Responded)
	}
	return w.sql(), w.args
}

func scanContact(row pgx.Row) (model.ContactMessage, error) {
	var m model.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.Responded, &m.CreatedAt, &m.UpdatedAt)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, err
}

func (r *pgContactRepo) CreateContact(ctx context.Context, m *model.ContactMessage) error {
	id := uuid.New().String()
	now := nowMicros()

	const q = `
INSERT INTO contacts (id, name, email, subject, message, read, responded, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	if _, err := r.db.Exec(ctx, q, id, m.Name, m.Email, m.Subject, m.Message, m.Read, m.Responded, now); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	m.ID = id
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

func (r *pgContactRepo) ListContacts(ctx context.Context, f model.ContactFilter, skip, limit int64) ([]model.ContactMessage, error) {
	where, args := buildContactWhere(f)
	args = append(args, limit, max(skip, 0))
	q := fmt.Sprintf("SELECT %s FROM contacts%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		contactColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	out := []model.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
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

func (r *pgContactRepo) CountContacts(ctx context.Context, f model.ContactFilter) (int64, error) {
	where, args := buildContactWhere(f)
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM contacts"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return total, nil
}

func (r *pgContactRepo) GetContactByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	m, err := scanContact(r.db.QueryRow(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact message %s: %w", id, err)
	}
	return &m, nil
}

func (r *pgContactRepo) UpdateContact(ctx context.Context, id string, upd model.UpdateContactReq) (*model.ContactMessage, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE contacts SET
	read = COALESCE($2, read),
	responded = COALESCE($3, responded),
	updated_at = $4
WHERE id = $1
RETURNING ` + contactColumns
	m, err := scanContact(r.db.QueryRow(ctx, q, id, upd.Read, upd.Responded, nowMicros()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update contact message %s: %w", id, err)
	}
	return &m, nil
}

func (r *pgContactRepo) DeleteContact(ctx context.Context, id string) error {
	id, err := parseUUID(id)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
