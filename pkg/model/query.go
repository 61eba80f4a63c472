package model

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	DefaultFeaturedLimit = 3

	// MaxSkip bounds the row offset of any page. Pages beyond it are empty.
	MaxSkip = math.MaxInt32
)

// Pagination is a parsed, clamped page request.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination coerces raw page/limit strings. Non-numeric values fall
// back to the defaults, page is at least 1 and limit is kept within [1, MaxLimit].
func ParsePagination(page, limit string) Pagination {
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil {
		p.Page = max(n, 1)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n >= 1 {
		p.Limit = min(n, MaxLimit)
	}
	return p
}

// Skip is the row offset of the page, saturating at MaxSkip.
func (p Pagination) Skip() int64 {
	page, limit := int64(max(p.Page, 1)), int64(max(p.Limit, 1))
	if page-1 > MaxSkip/limit {
		return MaxSkip
	}
	return min((page-1)*limit, MaxSkip)
}

type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPageInfo(p Pagination, total int64) PageInfo {
	limit := int64(max(p.Limit, 1))
	return PageInfo{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}
}

type ListInterviewQuery struct {
	Page       string `form:"page"`
	Limit      string `form:"limit"`
	Company    string `form:"company"`
	Role       string `form:"role"`
	Difficulty string `form:"difficulty"`
	Type       string `form:"type"`
	Featured   string `form:"featured"`
	Search     string `form:"search"`
}

// InterviewFilter is the conjunctive predicate shared by listing and counting.
type InterviewFilter struct {
	Company      string
	Role         string
	Difficulty   Difficulty
	Type         InterviewType
	FeaturedOnly bool
	Search       string
}

type InterviewQuery struct {
	Filter     InterviewFilter
	Pagination Pagination
	// Unsatisfiable is set when an enum filter holds a value outside its
	// enumeration; such a query matches nothing.
	Unsatisfiable bool
}

func ParseInterviewQuery(q ListInterviewQuery) InterviewQuery {
	out := InterviewQuery{
		Pagination: ParsePagination(q.Page, q.Limit),
		Filter: InterviewFilter{
			Company:      strings.TrimSpace(q.Company),
			Role:         strings.TrimSpace(q.Role),
			FeaturedOnly: q.Featured == "true",
			Search:       strings.TrimSpace(q.Search),
		},
	}
	if q.Difficulty != "" {
		d, ok := ParseDifficulty(q.Difficulty)
		if !ok {
			out.Unsatisfiable = true
		}
		out.Filter.Difficulty = d
	}
	if q.Type != "" {
		t, ok := ParseInterviewType(q.Type)
		if !ok {
			out.Unsatisfiable = true
		}
		out.Filter.Type = t
	}
	return out
}

// ParseLimit parses a bare limit parameter with the given default.
func ParseLimit(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return min(n, MaxLimit)
}

type InterviewPage struct {
	Interviews []InterviewListItem `json:"interviews"`
	Pagination PageInfo            `json:"pagination"`
}

type ContactPage struct {
	Messages   []ContactMessage `json:"messages"`
	Pagination PageInfo         `json:"pagination"`
}
