package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhishek622/portfolio/internal/repository"
	"github.com/abhishek622/portfolio/pkg/model"
)

const defaultNotifyTimeout = 30 * time.Second

// Notifier delivers a notification about a stored contact message.
type Notifier interface {
	NotifyContact(ctx context.Context, m model.ContactMessage) error
}

type ContactService struct {
	repo          repository.ContactRepository
	notifier      Notifier
	logger        *zap.Logger
	notifyTimeout time.Duration
	wg            sync.WaitGroup
}

// NewContactService wires the store and notifier. notifier may be nil.
func NewContactService(repo repository.ContactRepository, notifier Notifier, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		repo:          repo,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Submit validates and stores a message, then notifies in the background.
// Notification failures are logged and never returned.
func (s *ContactService) Submit(ctx context.Context, req model.ContactReq) (*model.ContactMessage, error) {
	m, err := model.NewContactMessage(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateContact(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		msg := *m
		nctx := context.WithoutCancel(ctx)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			nctx, cancel := context.WithTimeout(nctx, s.notifyTimeout)
			defer cancel()
			if err := s.notifier.NotifyContact(nctx, msg); err != nil {
				s.logger.Sugar().Warnw("contact notification failed", "contact_id", msg.ID, "err", err)
			}
		}()
	}
	return m, nil
}

// Wait blocks until in-flight notifications finish.
func (s *ContactService) Wait() {
	s.wg.Wait()
}

func (s *ContactService) List(ctx context.Context, f model.ContactFilter, p model.Pagination) (*model.ContactPage, error) {
	var (
		items []model.ContactMessage
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListContacts(gctx, f, p.Skip(), int64(p.Limit))
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountContacts(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &model.ContactPage{
		Messages:   items,
		Pagination: model.NewPageInfo(p, total),
	}, nil
}

func (s *ContactService) Get(ctx context.Context, id string) (*model.ContactMessage, error) {
	return s.repo.GetContactByID(ctx, id)
}

func (s *ContactService) Update(ctx context.Context, id string, req model.UpdateContactReq) (*model.ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateContact(ctx, id, req)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteContact(ctx, id)
}
