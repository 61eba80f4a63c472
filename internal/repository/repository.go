package repository

import (
	"context"
	"errors"

	"github.com/abhishek622/portfolio/pkg/model"
)

// ErrNotFound is returned for ids that match no record, including ids the
// backing store cannot parse.
var ErrNotFound = errors.New("record not found")

type InterviewRepository interface {
	ListInterviews(ctx context.Context, f model.InterviewFilter, skip, limit int64) ([]model.InterviewExperience, error)
	CountInterviews(ctx context.Context, f model.InterviewFilter) (int64, error)
	GetInterviewByID(ctx context.Context, id string) (*model.InterviewExperience, error)
	DistinctCompanies(ctx context.Context) ([]string, error)
	ListFeatured(ctx context.Context, limit int64) ([]model.InterviewExperience, error)
	CreateInterview(ctx context.Context, e *model.InterviewExperience) error
	ReplaceInterview(ctx context.Context, e *model.InterviewExperience) error
	DeleteInterview(ctx context.Context, id string) error
}

type ContactRepository interface {
	CreateContact(ctx context.Context, m *model.ContactMessage) error
	ListContacts(ctx context.Context, f model.ContactFilter, skip, limit int64) ([]model.ContactMessage, error)
	CountContacts(ctx context.Context, f model.ContactFilter) (int64, error)
	GetContactByID(ctx context.Context, id string) (*model.ContactMessage, error)
	UpdateContact(ctx context.Context, id string, upd model.UpdateContactReq) (*model.ContactMessage, error)
	DeleteContact(ctx context.Context, id string) error
}

// Repository bundles the collections of one backing store.
type Repository struct {
	Interview InterviewRepository
	Contact   ContactRepository

	name  string
	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (r *Repository) Name() string {
	return r.name
}

func (r *Repository) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

func (r *Repository) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}
