package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhishek622/portfolio/pkg/model"
)

type sqliteInterviewRepo struct {
	db *sql.DB
}

const sqliteInterviewColumns = `interviews.id, interviews.company, interviews.role, interviews.date,
	interviews.difficulty, interviews.type, interviews.featured, interviews.company_logo,
	interviews.tags, interviews.rounds, interviews.detailed_writeup,
	interviews.created_at, interviews.updated_at`

// buildSQLiteInterviewWhere returns the FROM/WHERE tail shared by listing and
// counting. searching reports whether the FTS table is joined.
func buildSQLiteInterviewWhere(f model.InterviewFilter) (tail string, args []any, searching bool) {
	var conds []string
	from := " FROM interviews"

	if f.Search != "" {
		match, ok := ftsQuery(f.Search)
		if !ok {
			conds = append(conds, "1 = 0")
		} else {
			from += " JOIN interviews_fts ON interviews_fts.id = interviews.id"
			conds = append(conds, "interviews_fts MATCH ?")
			args = append(args, match)
			searching = true
		}
	}
	if f.Company != "" {
		conds = append(conds, `interviews.company LIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, escapeLike(f.Company))
	}
	if f.Role != "" {
		conds = append(conds, `interviews.role LIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, escapeLike(f.Role))
	}
	if f.Difficulty != "" {
		conds = append(conds, "interviews.difficulty = ?")
		args = append(args, string(f.Difficulty))
	}
	if f.Type != "" {
		conds = append(conds, "interviews.type = ?")
		args = append(args, string(f.Type))
	}
	if f.FeaturedOnly {
		conds = append(conds, "interviews.featured = 1")
	}

	tail = from
	if len(conds) > 0 {
		tail += " WHERE " + strings.Join(conds, " AND ")
	}
	return tail, args, searching
}

func buildSQLiteInterviewListQuery(f model.InterviewFilter, skip, limit int64) (string, []any) {
	tail, args, searching := buildSQLiteInterviewWhere(f)
	q := "SELECT " + sqliteInterviewColumns + tail
	if searching {
		// id carries no text; company, role, tags, preparation, reflections.
		q += " ORDER BY bm25(interviews_fts, 0, 10, 5, 3, 1, 1), interviews.created_at DESC, interviews.rowid DESC"
	} else {
		q += " ORDER BY interviews.created_at DESC, interviews.rowid DESC"
	}
	q += " LIMIT ? OFFSET ?"
	return q, append(args, limit, max(skip, 0))
}

type sqliteScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteInterview(row sqliteScanner) (model.InterviewExperience, error) {
	var (
		e                                       model.InterviewExperience
		date, difficulty, typ, created, updated string
		tags, rounds, writeup                   string
	)
	err := row.Scan(
		&e.ID, &e.Company, &e.Role, &date, &difficulty, &typ, &e.Featured,
		&e.CompanyLogo, &tags, &rounds, &writeup, &created, &updated,
	)
	if err != nil {
		return e, err
	}
	e.Difficulty = model.Difficulty(difficulty)
	e.Type = model.InterviewType(typ)
	if e.Date, err = parseSQLiteTime(date); err != nil {
		return e, fmt.Errorf("decode date: %w", err)
	}
	if e.CreatedAt, err = parseSQLiteTime(created); err != nil {
		return e, fmt.Errorf("decode created_at: %w", err)
	}
	if e.UpdatedAt, err = parseSQLiteTime(updated); err != nil {
		return e, fmt.Errorf("decode updated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return e, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(rounds), &e.Rounds); err != nil {
		return e, fmt.Errorf("decode rounds: %w", err)
	}
	if err := json.Unmarshal([]byte(writeup), &e.DetailedWriteup); err != nil {
		return e, fmt.Errorf("decode detailed writeup: %w", err)
	}
	e.Tags = nonNil(e.Tags)
	if e.Rounds == nil {
		e.Rounds = []model.Round{}
	}
	return e, nil
}

func (r *sqliteInterviewRepo) queryInterviews(ctx context.Context, q string, args ...any) ([]model.InterviewExperience, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	out := []model.InterviewExperience{}
	for rows.Next() {
		e, err := scanSQLiteInterview(rows)
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

func (r *sqliteInterviewRepo) ListInterviews(ctx context.Context, f model.InterviewFilter, skip, limit int64) ([]model.InterviewExperience, error) {
	q, args := buildSQLiteInterviewListQuery(f, skip, limit)
	return r.queryInterviews(ctx, q, args...)
}

func (r *sqliteInterviewRepo) CountInterviews(ctx context.Context, f model.InterviewFilter) (int64, error) {
	tail, args, _ := buildSQLiteInterviewWhere(f)
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+tail, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count interviews: %w", err)
	}
	return total, nil
}

func (r *sqliteInterviewRepo) GetInterviewByID(ctx context.Context, id string) (*model.InterviewExperience, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+sqliteInterviewColumns+" FROM interviews WHERE interviews.id = ?", id)
	e, err := scanSQLiteInterview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get interview %s: %w", id, err)
	}
	return &e, nil
}

func (r *sqliteInterviewRepo) DistinctCompanies(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT company FROM interviews`)
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

func (r *sqliteInterviewRepo) ListFeatured(ctx context.Context, limit int64) ([]model.InterviewExperience, error) {
	q := "SELECT " + sqliteInterviewColumns + ` FROM interviews
WHERE interviews.featured = 1
ORDER BY interviews.created_at DESC, interviews.rowid DESC
LIMIT ?`
	return r.queryInterviews(ctx, q, limit)
}

// writeFTS replaces the search row of e inside tx.
func writeFTS(ctx context.Context, tx *sql.Tx, e *model.InterviewExperience) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM interviews_fts WHERE id = ?`, e.ID); err != nil {
		return fmt.Errorf("clear search row: %w", err)
	}
	const q = `INSERT INTO interviews_fts (id, company, role, tags, preparation, reflections) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		e.ID, e.Company, e.Role, strings.Join(e.Tags, " "),
		e.DetailedWriteup.Preparation, e.DetailedWriteup.Reflections,
	)
	if err != nil {
		return fmt.Errorf("write search row: %w", err)
	}
	return nil
}

func (r *sqliteInterviewRepo) CreateInterview(ctx context.Context, e *model.InterviewExperience) error {
	doc, err := marshalInterviewJSON(e)
	if err != nil {
		return err
	}
	id := uuid.New().String()
	now := nowMicros()

	err = sqliteTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
INSERT INTO interviews (
	id, company, role, date, difficulty, type, featured, company_logo,
	tags, rounds, detailed_writeup, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, q,
			id, e.Company, e.Role, formatSQLiteTime(e.Date), string(e.Difficulty), string(e.Type), e.Featured, e.CompanyLogo,
			string(doc.tags), string(doc.rounds), string(doc.writeup), formatSQLiteTime(now), formatSQLiteTime(now),
		)
		if err != nil {
			return fmt.Errorf("insert interview: %w", err)
		}
		e.ID = id
		return writeFTS(ctx, tx, e)
	})
	if err != nil {
		e.ID = ""
		return err
	}
	e.CreatedAt, e.UpdatedAt = now, now
	return nil
}

func (r *sqliteInterviewRepo) ReplaceInterview(ctx context.Context, e *model.InterviewExperience) error {
	id, err := parseUUID(e.ID)
	if err != nil {
		return err
	}
	doc, err := marshalInterviewJSON(e)
	if err != nil {
		return err
	}
	now := nowMicros()

	err = sqliteTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
UPDATE interviews SET
	company = ?, role = ?, date = ?, difficulty = ?, type = ?, featured = ?,
	company_logo = ?, tags = ?, rounds = ?, detailed_writeup = ?, updated_at = ?
WHERE id = ?`
		res, err := tx.ExecContext(ctx, q,
			e.Company, e.Role, formatSQLiteTime(e.Date), string(e.Difficulty), string(e.Type), e.Featured,
			e.CompanyLogo, string(doc.tags), string(doc.rounds), string(doc.writeup), formatSQLiteTime(now), id,
		)
		if err != nil {
			return fmt.Errorf("update interview %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update interview %s: %w", id, err)
		} else if n == 0 {
			return ErrNotFound
		}
		return writeFTS(ctx, tx, e)
	})
	if err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

func (r *sqliteInterviewRepo) DeleteInterview(ctx context.Context, id string) error {
	id, err := parseUUID(id)
	if err != nil {
		return err
	}
	return sqliteTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM interviews WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete interview %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("delete interview %s: %w", id, err)
		} else if n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM interviews_fts WHERE id = ?`, id); err != nil {
			return fmt.Errorf("clear search row: %w", err)
		}
		return nil
	})
}
