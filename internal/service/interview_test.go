package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishek622/portfolio/internal/repository"
	"github.com/abhishek622/portfolio/pkg/model"
)

func createReq(company, role, difficulty string) model.CreateInterviewReq {
	return model.CreateInterviewReq{
		Company:    company,
		Role:       role,
		Date:       "2024-05-10",
		Difficulty: difficulty,
		DetailedWriteup: model.DetailedWriteup{
			Preparation:   strings.Repeat("Worked through graph and dynamic programming problems. ", 4),
			MyPerformance: "Good",
			Reflections:   "Communicate earlier",
			TipsForFuture: "Mock interviews help",
		},
	}
}

func seedScenario(t *testing.T) (*InterviewService, map[string]*model.InterviewExperience) {
	t.Helper()
	svc := NewInterviewService(repository.NewMemoryRepository().Interview)
	out := map[string]*model.InterviewExperience{}
	for _, c := range []struct{ key, company, role, difficulty string }{
		{"google-swe", "Google", "SWE", "Hard"},
		{"amazon-sde", "Amazon", "SDE", "Medium"},
		{"google-sre", "Google", "SRE", "Easy"},
	} {
		e, err := svc.Create(context.Background(), createReq(c.company, c.role, c.difficulty))
		require.NoError(t, err)
		out[c.key] = e
	}
	return svc, out
}

func TestInterviewListScenario(t *testing.T) {
	svc, seeded := seedScenario(t)
	ctx := context.Background()

	page, err := svc.List(ctx, model.ParseInterviewQuery(model.ListInterviewQuery{Company: "goo"}))
	require.NoError(t, err)
	require.Len(t, page.Interviews, 2)
	assert.Equal(t, int64(2), page.Pagination.Total)
	for _, it := range page.Interviews {
		assert.Equal(t, "Google", it.Company)
	}

	page, err = svc.List(ctx, model.ParseInterviewQuery(model.ListInterviewQuery{Difficulty: "Hard", Limit: "1", Page: "1"}))
	require.NoError(t, err)
	require.Len(t, page.Interviews, 1)
	assert.Equal(t, seeded["google-swe"].ID, page.Interviews[0].ID)
	assert.Equal(t, int64(1), page.Pagination.Pages)
}

func TestInterviewListPreviewText(t *testing.T) {
	svc, _ := seedScenario(t)

	page, err := svc.List(context.Background(), model.ParseInterviewQuery(model.ListInterviewQuery{}))
	require.NoError(t, err)
	for _, it := range page.Interviews {
		require.True(t, strings.HasSuffix(it.PreviewText, "..."))
		require.Equal(t, 153, len([]rune(it.PreviewText)))
	}
}

func TestInterviewListEmptyResults(t *testing.T) {
	svc, _ := seedScenario(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query model.ListInterviewQuery
		page  int
	}{
		{"unknown difficulty", model.ListInterviewQuery{Difficulty: "Impossible"}, 1},
		{"unknown type", model.ListInterviewQuery{Type: "Walk-in"}, 1},
		{"no company match", model.ListInterviewQuery{Company: "Netflix"}, 1},
		{"page past the end", model.ListInterviewQuery{Page: "9"}, 9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := svc.List(ctx, model.ParseInterviewQuery(tc.query))
			require.NoError(t, err)
			require.NotNil(t, page.Interviews)
			require.Empty(t, page.Interviews)
			require.Equal(t, tc.page, page.Pagination.Page)
		})
	}
}

type failingRepo struct {
	repository.InterviewRepository
	err error
}

func (f failingRepo) ListInterviews(context.Context, model.InterviewFilter, int64, int64) ([]model.InterviewExperience, error) {
	return nil, f.err
}

func (f failingRepo) CountInterviews(context.Context, model.InterviewFilter) (int64, error) {
	return 0, f.err
}

func TestInterviewListStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewInterviewService(failingRepo{err: boom})

	_, err := svc.List(context.Background(), model.ParseInterviewQuery(model.ListInterviewQuery{}))
	require.ErrorIs(t, err, boom)

	page, err := svc.List(context.Background(), model.ParseInterviewQuery(model.ListInterviewQuery{Type: "bogus"}))
	require.NoError(t, err)
	require.Empty(t, page.Interviews)
}

func TestInterviewCompaniesSortedUnique(t *testing.T) {
	svc := NewInterviewService(repository.NewMemoryRepository().Interview)
	ctx := context.Background()
	for _, c := range []string{"Meta", "Amazon", "Google", "Amazon", "Google"} {
		_, err := svc.Create(ctx, createReq(c, "SWE", ""))
		require.NoError(t, err)
	}

	got, err := svc.Companies(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Amazon", "Google", "Meta"}, got)
}

func TestInterviewFeatured(t *testing.T) {
	svc := NewInterviewService(repository.NewMemoryRepository().Interview)
	ctx := context.Background()
	var featured []string
	for i := range 5 {
		req := createReq(fmt.Sprintf("Company %d", i), "SWE", "")
		req.Featured = i%2 == 0
		e, err := svc.Create(ctx, req)
		require.NoError(t, err)
		if e.Featured {
			featured = append(featured, e.ID)
		}
	}

	got, err := svc.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, featured[2], got[0].ID)

	got, err = svc.Featured(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestInterviewCreateUpdateDelete(t *testing.T) {
	svc := NewInterviewService(repository.NewMemoryRepository().Interview)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateInterviewReq{Company: "Google"})
	ve, ok := model.AsValidationError(err)
	require.True(t, ok)
	require.Contains(t, ve.Fields, "role")

	e, err := svc.Create(ctx, createReq("Google", "SWE", ""))
	require.NoError(t, err)
	require.Equal(t, model.DifficultyMedium, e.Difficulty)
	require.Equal(t, model.TypeOffCampus, e.Type)

	hard := "Hard"
	updated, err := svc.Update(ctx, e.ID, model.UpdateInterviewReq{Difficulty: &hard})
	require.NoError(t, err)
	require.Equal(t, model.DifficultyHard, updated.Difficulty)
	require.Equal(t, "SWE", updated.Role)

	bad := "Brutal"
	_, err = svc.Update(ctx, e.ID, model.UpdateInterviewReq{Difficulty: &bad})
	_, ok = model.AsValidationError(err)
	require.True(t, ok)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, model.DifficultyHard, got.Difficulty)

	_, err = svc.Update(ctx, "missing", model.UpdateInterviewReq{Difficulty: &hard})
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, e.ID))
	_, err = svc.Get(ctx, e.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInterviewPagesPartitionResults(t *testing.T) {
	svc := NewInterviewService(repository.NewMemoryRepository().Interview)
	ctx := context.Background()
	var all []string
	for i := range 23 {
		e, err := svc.Create(ctx, createReq(fmt.Sprintf("Company %02d", i), "SWE", ""))
		require.NoError(t, err)
		all = append([]string{e.ID}, all...)
	}

	properties := gopter.NewProperties(nil)
	properties.Property("pages concatenate to the full newest-first listing", prop.ForAll(
		func(limit int) bool {
			var seen []string
			var pages int64
			for page := 1; ; page++ {
				q := model.InterviewQuery{Pagination: model.Pagination{Page: page, Limit: limit}}
				res, err := svc.List(ctx, q)
				if err != nil {
					return false
				}
				pages = res.Pagination.Pages
				if len(res.Interviews) == 0 {
					break
				}
				for _, it := range res.Interviews {
					seen = append(seen, it.ID)
				}
			}
			if int64(len(all)+limit-1)/int64(limit) != pages {
				return false
			}
			return fmt.Sprint(seen) == fmt.Sprint(all)
		},
		gen.IntRange(1, 30),
	))
	properties.TestingRun(t)
}
