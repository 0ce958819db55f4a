package leads

import (
	"context"
	"errors"
	"strings"

	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/pricing"
)

// ErrIncomplete is returned for drafts without a category or a client email.
// The HTTP layer rejects such drafts first; the check here keeps other
// callers from writing them.
var ErrIncomplete = errors.New("category and client email are required")

type Notifier interface {
	SendLeadNotification(ctx context.Context, req ProjectRequest) (string, error)
	SendLeadConfirmation(ctx context.Context, req ProjectRequest) (string, error)
}

type Service struct {
	store    Store
	catalog  *catalog.Catalog
	notifier Notifier
}

func NewService(store Store, cat *catalog.Catalog, notifier Notifier) *Service {
	return &Service{
		store:    store,
		catalog:  cat,
		notifier: notifier,
	}
}

// Submit prices the draft against the catalog and stores it as a pending
// request. Unknown and repeated feature ids are dropped before pricing.
func (s *Service) Submit(ctx context.Context, d Draft) (ProjectRequest, error) {
	if strings.TrimSpace(d.Category) == "" || strings.TrimSpace(d.ClientEmail) == "" {
		return ProjectRequest{}, ErrIncomplete
	}

	est := pricing.NewSelection(d.Category, d.Features...).Estimate(s.catalog)

	req := ProjectRequest{
		AppName:          d.AppName,
		Category:         d.Category,
		SelectedFeatures: est.Features,
		EstimatedPrice:   est.TotalUnits(),
		ClientName:       d.ClientName,
		ClientEmail:      d.ClientEmail,
		Contact:          d.Contact,
		Description:      d.Description,
		Status:           StatusPending,
	}
	return s.store.Create(ctx, req)
}

func (s *Service) List(ctx context.Context) ([]ProjectRequest, error) {
	return s.store.List(ctx)
}

func (s *Service) NotifyNewLead(ctx context.Context, req ProjectRequest) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendLeadNotification(ctx, req)
	return err
}

func (s *Service) NotifyConfirmation(ctx context.Context, req ProjectRequest) error {
	if s.notifier == nil || strings.TrimSpace(req.ClientEmail) == "" {
		return nil
	}
	_, err := s.notifier.SendLeadConfirmation(ctx, req)
	return err
}
