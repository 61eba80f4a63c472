package model

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, limit string
		want        Pagination
	}{
		{"", "", Pagination{Page: 1, Limit: 10}},
		{"3", "25", Pagination{Page: 3, Limit: 25}},
		{"abc", "xyz", Pagination{Page: 1, Limit: 10}},
		{"0", "0", Pagination{Page: 1, Limit: 10}},
		{"-4", "-1", Pagination{Page: 1, Limit: 10}},
		{"2", "1000", Pagination{Page: 2, Limit: MaxLimit}},
		{" 2 ", " 5 ", Pagination{Page: 2, Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.page+"/"+tt.limit, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePagination(tt.page, tt.limit))
		})
	}
}

func TestPaginationSkip(t *testing.T) {
	assert.Equal(t, int64(0), Pagination{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(20), Pagination{Page: 3, Limit: 10}.Skip())
	assert.Equal(t, int64(0), Pagination{Page: 0, Limit: 0}.Skip())

	huge := ParsePagination("9223372036854775807", "100")
	assert.Equal(t, math.MaxInt, huge.Page)
	assert.Equal(t, int64(MaxSkip), huge.Skip())
	assert.Equal(t, int64(MaxSkip), Pagination{Page: 21474838, Limit: 100}.Skip())
	assert.Equal(t, int64(2147483500), Pagination{Page: 21474836, Limit: 100}.Skip())
}

func TestNewPageInfo(t *testing.T) {
	assert.Equal(t, PageInfo{Page: 1, Limit: 10, Total: 0, Pages: 0}, NewPageInfo(Pagination{Page: 1, Limit: 10}, 0))
	assert.Equal(t, int64(1), NewPageInfo(Pagination{Page: 1, Limit: 10}, 10).Pages)
	assert.Equal(t, int64(2), NewPageInfo(Pagination{Page: 1, Limit: 10}, 11).Pages)
	assert.Equal(t, int64(3), NewPageInfo(Pagination{Page: 1, Limit: 1}, 3).Pages)
}

func TestPageInfoProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("pages is the ceiling of total over limit", prop.ForAll(
		func(total int64, limit int) bool {
			info := NewPageInfo(Pagination{Page: 1, Limit: limit}, total)
			if total == 0 {
				return info.Pages == 0
			}
			return info.Pages*int64(limit) >= total && (info.Pages-1)*int64(limit) < total
		},
		gen.Int64Range(0, 100000),
		gen.IntRange(1, MaxLimit),
	))

	properties.TestingRun(t)
}

func TestParseInterviewQuery(t *testing.T) {
	q := ParseInterviewQuery(ListInterviewQuery{
		Company:    " goo ",
		Difficulty: "Hard",
		Type:       "Direct Apply",
		Featured:   "true",
		Search:     "graphs",
		Page:       "2",
		Limit:      "5",
	})
	assert.False(t, q.Unsatisfiable)
	assert.Equal(t, "goo", q.Filter.Company)
	assert.Equal(t, DifficultyHard, q.Filter.Difficulty)
	assert.Equal(t, TypeDirectApply, q.Filter.Type)
	assert.True(t, q.Filter.FeaturedOnly)
	assert.Equal(t, "graphs", q.Filter.Search)
	assert.Equal(t, Pagination{Page: 2, Limit: 5}, q.Pagination)
}

func TestParseInterviewQuery_FeaturedOnlyOnLiteralTrue(t *testing.T) {
	for _, v := range []string{"", "false", "1", "TRUE", "yes"} {
		assert.False(t, ParseInterviewQuery(ListInterviewQuery{Featured: v}).Filter.FeaturedOnly, v)
	}
}

func TestParseInterviewQuery_UnknownEnumIsUnsatisfiable(t *testing.T) {
	assert.True(t, ParseInterviewQuery(ListInterviewQuery{Difficulty: "hard"}).Unsatisfiable)
	assert.True(t, ParseInterviewQuery(ListInterviewQuery{Type: "Walk-in"}).Unsatisfiable)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 3, ParseLimit("", 3))
	assert.Equal(t, 3, ParseLimit("zero", 3))
	assert.Equal(t, 3, ParseLimit("0", 3))
	assert.Equal(t, 7, ParseLimit("7", 3))
	assert.Equal(t, MaxLimit, ParseLimit("5000", 3))
}
