package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/abhishek622/portfolio/pkg/model"
)

func newSQLiteRepository(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.db")
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	repo, err := NewSQLiteRepository(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	return repo
}

func TestSQLiteInterviewRepository(t *testing.T) {
	runInterviewContract(t, newSQLiteRepository(t).Interview, uuid.New().String())
}

func TestSQLiteContactRepository(t *testing.T) {
	runContactContract(t, newSQLiteRepository(t).Contact, uuid.New().String())
}

func TestSQLiteSearchIgnoresQuerySyntax(t *testing.T) {
	repo := newSQLiteRepository(t).Interview
	ctx := context.Background()

	e := newFixture(t, "Netflix", "Senior Engineer", "", "", false, "Chaos engineering", "Great culture")
	require.NoError(t, repo.CreateInterview(ctx, e))

	for _, search := range []string{`"netflix`, `culture AND NOT`, `role:engineer*`, `***`} {
		_, err := repo.ListInterviews(ctx, model.InterviewFilter{Search: search}, 0, 10)
		require.NoError(t, err, search)
	}

	got, err := repo.ListInterviews(ctx, model.InterviewFilter{Search: `"netflix`}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	total, err := repo.CountInterviews(ctx, model.InterviewFilter{Search: "***"})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestFTSQuery(t *testing.T) {
	q, ok := ftsQuery(`System "Design" -interview`)
	require.True(t, ok)
	require.Equal(t, `"system" OR "design" OR "interview"`, q)

	_, ok = ftsQuery("  ?! ")
	require.False(t, ok)
}

func TestSQLiteTimeLayoutSortsLexically(t *testing.T) {
	early, err := parseSQLiteTime("2024-01-02T03:04:05.000000009Z")
	require.NoError(t, err)
	late := early.Add(1)
	require.Less(t, formatSQLiteTime(early), formatSQLiteTime(late))
	require.Len(t, formatSQLiteTime(early), len(sqliteTimeLayout))
}
