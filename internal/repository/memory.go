package repository

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/abhishek622/portfolio/pkg/model"
)

// NewMemoryRepository returns a process-local store. Search scores documents
// by weighted token matches, mirroring the weights of the Mongo text index.
func NewMemoryRepository() *Repository {
	mem := &memoryStore{
		interviews: map[string]memInterview{},
		contacts:   map[string]memContact{},
		now:        func() time.Time { return time.Now().UTC() },
	}
	return &Repository{
		Interview: &memoryInterviewRepo{mem},
		Contact:   &memoryContactRepo{mem},
		name:      "memory",
	}
}

type memoryStore struct {
	mu         sync.RWMutex
	seq        int64
	interviews map[string]memInterview
	contacts   map[string]memContact
	now        func() time.Time
}

type memInterview struct {
	seq int64
	doc model.InterviewExperience
}

type memContact struct {
	seq int64
	doc model.ContactMessage
}

func (s *memoryStore) nextID() (string, int64) {
	s.seq++
	return strconv.FormatInt(s.seq, 10), s.seq
}

type memoryInterviewRepo struct{ s *memoryStore }

type scoredInterview struct {
	memInterview
	score float64
}

var searchWeights = []struct {
	weight float64
	field  func(e *model.InterviewExperience) []string
}{
	{10, func(e *model.InterviewExperience) []string { return []string{e.Company} }},
	{5, func(e *model.InterviewExperience) []string { return []string{e.Role} }},
	{3, func(e *model.InterviewExperience) []string { return e.Tags }},
	{1, func(e *model.InterviewExperience) []string { return []string{e.DetailedWriteup.Preparation} }},
	{1, func(e *model.InterviewExperience) []string { return []string{e.DetailedWriteup.Reflections} }},
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// searchScore is zero when no term of query occurs in any searchable field.
func searchScore(e *model.InterviewExperience, terms []string) float64 {
	var score float64
	for _, w := range searchWeights {
		for _, text := range w.field(e) {
			tokens := tokenize(text)
			for _, term := range terms {
				if slices.Contains(tokens, term) {
					score += w.weight
				}
			}
		}
	}
	return score
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *memoryInterviewRepo) match(f model.InterviewFilter) []scoredInterview {
	terms := tokenize(f.Search)
	out := []scoredInterview{}
	for _, it := range r.s.interviews {
		e := &it.doc
		if f.Company != "" && !containsFold(e.Company, f.Company) {
			continue
		}
		if f.Role != "" && !containsFold(e.Role, f.Role) {
			continue
		}
		if f.Difficulty != "" && e.Difficulty != f.Difficulty {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.FeaturedOnly && !e.Featured {
			continue
		}
		var score float64
		if f.Search != "" {
			if score = searchScore(e, terms); score == 0 {
				continue
			}
		}
		out = append(out, scoredInterview{memInterview: it, score: score})
	}
	slices.SortFunc(out, func(a, b scoredInterview) int {
		if a.score != b.score {
			if a.score > b.score {
				return -1
			}
			return 1
		}
		if c := b.doc.CreatedAt.Compare(a.doc.CreatedAt); c != 0 {
			return c
		}
		return int(b.seq - a.seq)
	})
	return out
}

func (r *memoryInterviewRepo) ListInterviews(_ context.Context, f model.InterviewFilter, skip, limit int64) ([]model.InterviewExperience, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.match(f)
	out := []model.InterviewExperience{}
	for i := max(skip, 0); i < int64(len(matched)) && int64(len(out)) < limit; i++ {
		out = append(out, cloneInterview(matched[i].doc))
	}
	return out, nil
}

func (r *memoryInterviewRepo) CountInterviews(_ context.Context, f model.InterviewFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.match(f))), nil
}

func (r *memoryInterviewRepo) GetInterviewByID(_ context.Context, id string) (*model.InterviewExperience, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	e := cloneInterview(it.doc)
	return &e, nil
}

func (r *memoryInterviewRepo) DistinctCompanies(context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, it := range r.s.interviews {
		if !seen[it.doc.Company] {
			seen[it.doc.Company] = true
			out = append(out, it.doc.Company)
		}
	}
	return out, nil
}

func (r *memoryInterviewRepo) ListFeatured(ctx context.Context, limit int64) ([]model.InterviewExperience, error) {
	return r.ListInterviews(ctx, model.InterviewFilter{FeaturedOnly: true}, 0, limit)
}

func (r *memoryInterviewRepo) CreateInterview(_ context.Context, e *model.InterviewExperience) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, seq := r.s.nextID()
	now := r.s.now()
	e.ID = id
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.interviews[id] = memInterview{seq: seq, doc: cloneInterview(*e)}
	return nil
}

func (r *memoryInterviewRepo) ReplaceInterview(_ context.Context, e *model.InterviewExperience) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.interviews[e.ID]
	if !ok {
		return ErrNotFound
	}
	e.CreatedAt = it.doc.CreatedAt
	e.UpdatedAt = r.s.now()
	it.doc = cloneInterview(*e)
	r.s.interviews[e.ID] = it
	return nil
}

func (r *memoryInterviewRepo) DeleteInterview(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.interviews[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.interviews, id)
	return nil
}

// cloneInterview copies the slices so callers cannot mutate stored state.
func cloneInterview(e model.InterviewExperience) model.InterviewExperience {
	e.Tags = append([]string{}, e.Tags...)
	rounds := make([]model.Round, len(e.Rounds))
	for i, rd := range e.Rounds {
		rd.QuestionsAsked = append([]string{}, rd.QuestionsAsked...)
		rounds[i] = rd
	}
	e.Rounds = rounds
	e.DetailedWriteup.TechnicalQuestions = append([]string{}, e.DetailedWriteup.TechnicalQuestions...)
	e.DetailedWriteup.BehavioralQuestions = append([]string{}, e.DetailedWriteup.BehavioralQuestions...)
	return e
}

type memoryContactRepo struct{ s *memoryStore }

func (r *memoryContactRepo) match(f model.ContactFilter) []memContact {
	out := []memContact{}
	for _, c := range r.s.contacts {
		if f.Read != nil && c.doc.Read != *f.Read {
			continue
		}
		if f.Responded != nil && c.doc.Responded != *f.Responded {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b memContact) int {
		if c := b.doc.CreatedAt.Compare(a.doc.CreatedAt); c != 0 {
			return c
		}
		return int(b.seq - a.seq)
	})
	return out
}

func (r *memoryContactRepo) CreateContact(_ context.Context, m *model.ContactMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, seq := r.s.nextID()
	now := r.s.now()
	m.ID = id
	m.CreatedAt, m.UpdatedAt = now, now
	r.s.contacts[id] = memContact{seq: seq, doc: *m}
	return nil
}

func (r *memoryContactRepo) ListContacts(_ context.Context, f model.ContactFilter, skip, limit int64) ([]model.ContactMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.match(f)
	out := []model.ContactMessage{}
	for i := max(skip, 0); i < int64(len(matched)) && int64(len(out)) < limit; i++ {
		out = append(out, matched[i].doc)
	}
	return out, nil
}

func (r *memoryContactRepo) CountContacts(_ context.Context, f model.ContactFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.match(f))), nil
}

func (r *memoryContactRepo) GetContactByID(_ context.Context, id string) (*model.ContactMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	m := c.doc
	return &m, nil
}

func (r *memoryContactRepo) UpdateContact(_ context.Context, id string, upd model.UpdateContactReq) (*model.ContactMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Read != nil {
		c.doc.Read = *upd.Read
	}
	if upd.Responded != nil {
		c.doc.Responded = *upd.Responded
	}
	c.doc.UpdatedAt = r.s.now()
	r.s.contacts[id] = c
	m := c.doc
	return &m, nil
}

func (r *memoryContactRepo) DeleteContact(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.contacts, id)
	return nil
}
