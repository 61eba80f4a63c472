package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhishek622/portfolio/pkg/model"
)

type pgInterviewRepo struct {
	db *pgxpool.Pool
}

const interviewColumns = `
	id::text, company, role, date, difficulty, type, featured,
	COALESCE(company_logo, ''), tags, rounds, detailed_writeup,
	created_at, updated_at`

// buildInterviewWhere returns the WHERE clause for f, its arguments and the
// position of the search argument (0 when f has no search term).
func buildInterviewWhere(f model.InterviewFilter) (string, []any, int) {
	var w whereBuilder
	if f.Company != "" {
		w.add("company ILIKE '%%' || $%d::text || '%%'", escapeLike(f.Company))
	}
	if f.Role != "" {
		w.add("role ILIKE '%%' || $%d::text || '%%'", escapeLike(f.Role))
	}
	if f.Difficulty != "" {
		w.add("difficulty = $%d", string(f.Difficulty))
	}
	if f.Type != "" {
		w.add("type = $%d", string(f.Type))
	}
	if f.FeaturedOnly {
		w.add("featured = $%d", true)
	}
	search := 0
	if f.Search != "" {
		if tsq, ok := tsQuery(f.Search); ok {
			search = w.add("search_vector @@ to_tsquery('english', $%d)", tsq)
		} else {
			w.conds = append(w.conds, "FALSE")
		}
	}
	return w.sql(), w.args, search
}

// tsQuery ORs the search tokens into a to_tsquery expression. Tokens are
// letters and digits only, so user input never reaches tsquery syntax.
func tsQuery(search string) (string, bool) {
	tokens := tokenize(search)
	if len(tokens) == 0 {
		return "", false
	}
	return strings.Join(tokens, " | "), true
}

func buildInterviewListQuery(f model.InterviewFilter, skip, limit int64) (string, []any) {
	where, args, search := buildInterviewWhere(f)

	q := "SELECT" + interviewColumns + "\nFROM interviews" + where
	if search > 0 {
		q += fmt.Sprintf("\nORDER BY ts_rank(search_vector, to_tsquery('english', $%d)) DESC, created_at DESC, id DESC", search)
	} else {
		q += "\nORDER BY created_at DESC, id DESC"
	}
	args = append(args, limit, max(skip, 0))
	q += fmt.Sprintf("\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return q, args
}

func buildInterviewCountQuery(f model.InterviewFilter) (string, []any) {
	where, args, _ := buildInterviewWhere(f)
	return "SELECT COUNT(*) FROM interviews" + where, args
}

func scanInterview(row pgx.Row) (model.InterviewExperience, error) {
	var (
		e                     model.InterviewExperience
		difficulty, typ       string
		tags, rounds, writeup []byte
	)
	err := row.Scan(
		&e.ID, &e.Company, &e.Role, &e.Date, &difficulty, &typ, &e.Featured,
		&e.CompanyLogo, &tags, &rounds, &writeup, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return e, err
	}
	e.Difficulty = model.Difficulty(difficulty)
	e.Type = model.InterviewType(typ)
	if err := json.Unmarshal(tags, &e.Tags); err != nil {
		return e, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(rounds, &e.Rounds); err != nil {
		return e, fmt.Errorf("decode rounds: %w", err)
	}
	if err := json.Unmarshal(writeup, &e.DetailedWriteup); err != nil {
		return e, fmt.Errorf("decode detailed writeup: %w", err)
	}
	e.Tags = nonNil(e.Tags)
	if e.Rounds == nil {
		e.Rounds = []model.Round{}
	}
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

func (r *pgInterviewRepo) queryInterviews(ctx context.Context, q string, args ...any) ([]model.InterviewExperience, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	out := []model.InterviewExperience{}
	for rows.Next() {
		e, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interviews: %w", err)
	}
	return out, nil
}

func (r *pgInterviewRepo) ListInterviews(ctx context.Context, f model.InterviewFilter, skip, limit int64) ([]model.InterviewExperience, error) {
	q, args := buildInterviewListQuery(f, skip, limit)
	return r.queryInterviews(ctx, q, args...)
}

func (r *pgInterviewRepo) CountInterviews(ctx context.Context, f model.InterviewFilter) (int64, error) {
	q, args := buildInterviewCountQuery(f)
	var total int64
	if err := r.db.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count interviews: %w", err)
	}
	return total, nil
}

func (r *pgInterviewRepo) GetInterviewByID(ctx context.Context, id string) (*model.InterviewExperience, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	q := "SELECT" + interviewColumns + "\nFROM interviews WHERE id = $1"
	e, err := scanInterview(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get interview %s: %w", id, err)
	}
	return &e, nil
}

func (r *pgInterviewRepo) DistinctCompanies(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT company FROM interviews`)
	if err != nil {
		return nil, fmt.Errorf("distinct companies: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *pgInterviewRepo) ListFeatured(ctx context.Context, limit int64) ([]model.InterviewExperience, error) {
	q := "SELECT" + interviewColumns + `
FROM interviews
WHERE featured = TRUE
ORDER BY created_at DESC, id DESC
LIMIT $1`
	return r.queryInterviews(ctx, q, limit)
}

type interviewJSON struct {
	tags, rounds, writeup []byte
}

func marshalInterviewJSON(e *model.InterviewExperience) (interviewJSON, error) {
	var (
		out interviewJSON
		err error
	)
	if out.tags, err = json.Marshal(nonNil(e.Tags)); err != nil {
		return out, fmt.Errorf("encode tags: %w", err)
	}
	rounds := e.Rounds
	if rounds == nil {
		rounds = []model.Round{}
	}
	if out.rounds, err = json.Marshal(rounds); err != nil {
		return out, fmt.Errorf("encode rounds: %w", err)
	}
	if out.writeup, err = json.Marshal(e.DetailedWriteup); err != nil {
		return out, fmt.Errorf("encode detailed writeup: %w", err)
	}
	return out, nil
}

func (r *pgInterviewRepo) CreateInterview(ctx context.Context, e *model.InterviewExperience) error {
	doc, err := marshalInterviewJSON(e)
	if err != nil {
		return err
	}
	id := uuid.New().String()
	now := nowMicros()

	const q = `
INSERT INTO interviews (
	id, company, role, date, difficulty, type, featured, company_logo,
	tags, rounds, detailed_writeup, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $12)`
	_, err = r.db.Exec(ctx, q,
		id, e.Company, e.Role, e.Date, string(e.Difficulty), string(e.Type), e.Featured, e.CompanyLogo,
		doc.tags, doc.rounds, doc.writeup, now,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	e.ID = id
	e.CreatedAt, e.UpdatedAt = now, now
	return nil
}

func (r *pgInterviewRepo) ReplaceInterview(ctx context.Context, e *model.InterviewExperience) error {
	id, err := parseUUID(e.ID)
	if err != nil {
		return err
	}
	doc, err := marshalInterviewJSON(e)
	if err != nil {
		return err
	}
	now := nowMicros()

	const q = `
UPDATE interviews SET
	company = $2, role = $3, date = $4, difficulty = $5, type = $6, featured = $7,
	company_logo = NULLIF($8, ''), tags = $9, rounds = $10, detailed_writeup = $11,
	updated_at = $12
WHERE id = $1`
	tag, err := r.db.Exec(ctx, q,
		id, e.Company, e.Role, e.Date, string(e.Difficulty), string(e.Type), e.Featured, e.CompanyLogo,
		doc.tags, doc.rounds, doc.writeup, now,
	)
	if err != nil {
		return fmt.Errorf("update interview %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	e.UpdatedAt = now
	return nil
}

func (r *pgInterviewRepo) DeleteInterview(ctx context.Context, id string) error {
	id, err := parseUUID(id)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete interview %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
