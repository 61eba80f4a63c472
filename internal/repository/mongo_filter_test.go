package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/abhishek622/portfolio/pkg/model"
)

func TestBuildInterviewFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter model.InterviewFilter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: model.InterviewFilter{},
			want:   bson.M{},
		},
		{
			name:   "company and role are escaped case-insensitive patterns",
			filter: model.InterviewFilter{Company: "C++ Labs", Role: "S.W.E"},
			want: bson.M{
				"company": bson.M{"$regex": `C\+\+ Labs`, "$options": "i"},
				"role":    bson.M{"$regex": `S\.W\.E`, "$options": "i"},
			},
		},
		{
			name: "enums featured and search combine",
			filter: model.InterviewFilter{
				Difficulty:   model.DifficultyHard,
				Type:         model.TypeDirectApply,
				FeaturedOnly: true,
				Search:       "distributed systems",
			},
			want: bson.M{
				"difficulty": "Hard",
				"type":       "Direct Apply",
				"featured":   true,
				"$text":      bson.M{"$search": "distributed systems"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, buildInterviewFilter(tc.filter))
		})
	}
}

func TestInterviewFindOptions(t *testing.T) {
	t.Run("newest first without search", func(t *testing.T) {
		opts := interviewFindOptions(model.InterviewFilter{}, 20, 10)
		require.Equal(t, int64(20), *opts.Skip)
		require.Equal(t, int64(10), *opts.Limit)
		require.Nil(t, opts.Projection)
		require.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, opts.Sort)
	})

	t.Run("text score first with search", func(t *testing.T) {
		opts := interviewFindOptions(model.InterviewFilter{Search: "graphs"}, 0, 10)
		score := bson.M{"$meta": "textScore"}
		require.Equal(t, bson.M{"score": score}, opts.Projection)
		require.Equal(t, bson.D{
			{Key: "score", Value: score},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}, opts.Sort)
	})
}

func TestBuildContactFilter(t *testing.T) {
	yes, no := true, false
	require.Equal(t, bson.M{}, buildContactFilter(model.ContactFilter{}))
	require.Equal(t, bson.M{"read": true, "responded": false},
		buildContactFilter(model.ContactFilter{Read: &yes, Responded: &no}))
}

func TestParseObjectIDInvalid(t *testing.T) {
	_, err := parseObjectID("not-an-id")
	require.ErrorIs(t, err, ErrNotFound)

	oid, err := parseObjectID("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)
	require.Equal(t, "65a1b2c3d4e5f60718293a4b", oid.Hex())
}
