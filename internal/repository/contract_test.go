package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhishek622/portfolio/pkg/model"
)

func newFixture(t *testing.T, company, role, difficulty, typ string, featured bool, prep, reflections string) *model.InterviewExperience {
	t.Helper()
	e, err := model.NewInterviewExperience(model.CreateInterviewReq{
		Company:    company,
		Role:       role,
		Date:       "2024-03-01",
		Difficulty: difficulty,
		Type:       typ,
		Featured:   featured,
		Tags:       []string{"backend"},
		Rounds: []model.Round{
			{RoundName: "Phone screen", Description: "Warm-up coding", QuestionsAsked: []string{"two sum"}},
		},
		DetailedWriteup: model.DetailedWriteup{
			Preparation:   prep + " " + strings.Repeat("practice ", 15),
			MyPerformance: "Solid",
			Reflections:   reflections,
			TipsForFuture: "Talk through trade-offs",
		},
	})
	require.NoError(t, err)
	return e
}

func ids(items []model.InterviewExperience) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}

// runInterviewContract exercises a backend through the InterviewRepository
// interface. missingID must be well formed for the backend but unused.
func runInterviewContract(t *testing.T, repo InterviewRepository, missingID string) {
	ctx := context.Background()

	g1 := newFixture(t, "Google", "Software Engineer", "Hard", "On-campus", true, "Arrays and graphs", "Went well overall")
	a1 := newFixture(t, "Amazon", "SDE", "Medium", "", false, "Read the google style guide", "Leadership principles matter")
	g2 := newFixture(t, "Google", "Site Reliability Engineer", "Easy", "Referral", false, "Linux internals", "Should have studied kubernetes more")
	for _, e := range []*model.InterviewExperience{g1, a1, g2} {
		require.NoError(t, repo.CreateInterview(ctx, e))
		require.NotEmpty(t, e.ID)
		require.False(t, e.CreatedAt.IsZero())
	}

	t.Run("newest first with pagination", func(t *testing.T) {
		page1, err := repo.ListInterviews(ctx, model.InterviewFilter{}, 0, 2)
		require.NoError(t, err)
		require.Equal(t, []string{g2.ID, a1.ID}, ids(page1))

		page2, err := repo.ListInterviews(ctx, model.InterviewFilter{}, 2, 2)
		require.NoError(t, err)
		require.Equal(t, []string{g1.ID}, ids(page2))

		total, err := repo.CountInterviews(ctx, model.InterviewFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(3), total)
	})

	t.Run("filters", func(t *testing.T) {
		tests := []struct {
			name   string
			filter model.InterviewFilter
			want   []string
		}{
			{"company substring", model.InterviewFilter{Company: "goo"}, []string{g2.ID, g1.ID}},
			{"role case-insensitive", model.InterviewFilter{Role: "ENGINEER"}, []string{g2.ID, g1.ID}},
			{"difficulty", model.InterviewFilter{Difficulty: model.DifficultyHard}, []string{g1.ID}},
			{"type default", model.InterviewFilter{Type: model.TypeOffCampus}, []string{a1.ID}},
			{"featured", model.InterviewFilter{FeaturedOnly: true}, []string{g1.ID}},
			{"regex characters are literal", model.InterviewFilter{Company: "G.*"}, []string{}},
			{"search reflections", model.InterviewFilter{Search: "kubernetes"}, []string{g2.ID}},
			{"search with filter", model.InterviewFilter{Search: "kubernetes", Difficulty: model.DifficultyHard}, []string{}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				got, err := repo.ListInterviews(ctx, tc.filter, 0, 10)
				require.NoError(t, err)
				require.Equal(t, tc.want, ids(got))

				total, err := repo.CountInterviews(ctx, tc.filter)
				require.NoError(t, err)
				require.Equal(t, int64(len(tc.want)), total)
			})
		}
	})

	t.Run("search matches any term", func(t *testing.T) {
		f := model.InterviewFilter{Search: "leadership linux"}
		got, err := repo.ListInterviews(ctx, f, 0, 10)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{a1.ID, g2.ID}, ids(got))

		total, err := repo.CountInterviews(ctx, f)
		require.NoError(t, err)
		require.Equal(t, int64(2), total)
	})

	t.Run("skip past the end is empty", func(t *testing.T) {
		got, err := repo.ListInterviews(ctx, model.InterviewFilter{}, model.MaxSkip, 10)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("search ranks company matches first", func(t *testing.T) {
		got, err := repo.ListInterviews(ctx, model.InterviewFilter{Search: "google"}, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		require.Equal(t, a1.ID, got[2].ID)
	})

	t.Run("distinct companies", func(t *testing.T) {
		got, err := repo.DistinctCompanies(ctx)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Google", "Amazon"}, got)
	})

	t.Run("featured", func(t *testing.T) {
		got, err := repo.ListFeatured(ctx, 3)
		require.NoError(t, err)
		require.Equal(t, []string{g1.ID}, ids(got))
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetInterviewByID(ctx, g2.ID)
		require.NoError(t, err)
		require.Equal(t, g2.Company, got.Company)
		require.Equal(t, g2.Role, got.Role)
		require.True(t, g2.Date.Equal(got.Date))
		require.Equal(t, g2.Tags, got.Tags)
		require.Equal(t, g2.Rounds, got.Rounds)
		require.Equal(t, g2.DetailedWriteup, got.DetailedWriteup)

		_, err = repo.GetInterviewByID(ctx, "not a valid id")
		require.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetInterviewByID(ctx, missingID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("replace and delete", func(t *testing.T) {
		role := "Staff SDE"
		require.NoError(t, a1.Apply(model.UpdateInterviewReq{Role: &role}))
		require.NoError(t, repo.ReplaceInterview(ctx, a1))

		got, err := repo.GetInterviewByID(ctx, a1.ID)
		require.NoError(t, err)
		require.Equal(t, "Staff SDE", got.Role)
		require.False(t, got.UpdatedAt.Before(got.CreatedAt))

		missing := *a1
		missing.ID = missingID
		require.ErrorIs(t, repo.ReplaceInterview(ctx, &missing), ErrNotFound)

		require.NoError(t, repo.DeleteInterview(ctx, a1.ID))
		_, err = repo.GetInterviewByID(ctx, a1.ID)
		require.ErrorIs(t, err, ErrNotFound)
		require.ErrorIs(t, repo.DeleteInterview(ctx, a1.ID), ErrNotFound)
	})
}

func runContactContract(t *testing.T, repo ContactRepository, missingID string) {
	ctx := context.Background()

	first, err := model.NewContactMessage(model.ContactReq{
		Name: "Ada", Email: "ada@example.com", Subject: "Hello there", Message: "Loved the write-ups.",
	})
	require.NoError(t, err)
	second, err := model.NewContactMessage(model.ContactReq{
		Name: "Linus", Email: "linus@example.com", Subject: "Question", Message: "How did you prepare?",
	})
	require.NoError(t, err)
	require.NoError(t, repo.CreateContact(ctx, first))
	require.NoError(t, repo.CreateContact(ctx, second))

	got, err := repo.ListContacts(ctx, model.ContactFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, second.ID, got[0].ID)
	require.False(t, got[0].Read)

	yes := true
	updated, err := repo.UpdateContact(ctx, first.ID, model.UpdateContactReq{Read: &yes})
	require.NoError(t, err)
	require.True(t, updated.Read)
	require.False(t, updated.Responded)

	unread := false
	total, err := repo.CountContacts(ctx, model.ContactFilter{Read: &unread})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	_, err = repo.UpdateContact(ctx, missingID, model.UpdateContactReq{Read: &yes})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteContact(ctx, first.ID))
	_, err = repo.GetContactByID(ctx, first.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.DeleteContact(ctx, "bogus"), ErrNotFound)
}
