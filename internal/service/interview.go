package service

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/abhishek622/portfolio/internal/repository"
	"github.com/abhishek622/portfolio/pkg/model"
)

// InterviewService answers the public interview queries and the admin
// mutations on top of an InterviewRepository.
type InterviewService struct {
	repo repository.InterviewRepository
}

func NewInterviewService(repo repository.InterviewRepository) *InterviewService {
	return &InterviewService{repo: repo}
}

// List returns one page of matching interviews. A query that cannot match
// anything yields an empty page without touching the store.
func (s *InterviewService) List(ctx context.Context, q model.InterviewQuery) (*model.InterviewPage, error) {
	if q.Unsatisfiable {
		return &model.InterviewPage{
			Interviews: []model.InterviewListItem{},
			Pagination: model.NewPageInfo(q.Pagination, 0),
		}, nil
	}

	var (
		items []model.InterviewExperience
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListInterviews(gctx, q.Filter, q.Pagination.Skip(), int64(q.Pagination.Limit))
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountInterviews(gctx, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.InterviewListItem, 0, len(items))
	for _, e := range items {
		out = append(out, e.ListItem())
	}
	return &model.InterviewPage{
		Interviews: out,
		Pagination: model.NewPageInfo(q.Pagination, total),
	}, nil
}

func (s *InterviewService) Get(ctx context.Context, id string) (*model.InterviewExperience, error) {
	return s.repo.GetInterviewByID(ctx, id)
}

// Companies returns every company name once, in lexicographic order.
func (s *InterviewService) Companies(ctx context.Context) ([]string, error) {
	names, err := s.repo.DistinctCompanies(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func (s *InterviewService) Featured(ctx context.Context, limit int) ([]model.InterviewListItem, error) {
	if limit < 1 {
		limit = model.DefaultFeaturedLimit
	}
	items, err := s.repo.ListFeatured(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	out := make([]model.InterviewListItem, 0, len(items))
	for _, e := range items {
		out = append(out, e.ListItem())
	}
	return out, nil
}

func (s *InterviewService) Create(ctx context.Context, req model.CreateInterviewReq) (*model.InterviewExperience, error) {
	e, err := model.NewInterviewExperience(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateInterview(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update merges req onto the stored interview and replaces it.
func (s *InterviewService) Update(ctx context.Context, id string, req model.UpdateInterviewReq) (*model.InterviewExperience, error) {
	e, err := s.repo.GetInterviewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.Apply(req); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceInterview(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *InterviewService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteInterview(ctx, id)
}
