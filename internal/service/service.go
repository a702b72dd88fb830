package service

import (
	"context"
	"fmt"

	"procurement/internal/api"
	"procurement/internal/logger"
	"procurement/internal/models"
	"procurement/internal/notify"
	"procurement/internal/search"
	"procurement/internal/session"
)

type Service struct {
	client *api.Client
	bridge *notify.Bridge
	log    *logger.Logger
}

func NewService(client *api.Client, bridge *notify.Bridge, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{client: client, bridge: bridge, log: log}
}

// ListQuery carries the search box, sort selector and paging of a list screen.
type ListQuery struct {
	Search string
	Sort   search.SortKey
	Limit  int
	Offset int
}

func (q ListQuery) Validate() error {
	if len(q.Sort) > 0 && !search.ValidSortKey(q.Sort) {
		return validationErr("unknown sort key: %s", q.Sort)
	}
	if q.Limit < 0 || q.Offset < 0 {
		return validationErr("limit and offset must not be negative")
	}
	return nil
}

func applyQuery[T search.Dated](items []T, q ListQuery, fields func(T) []string) ([]T, error) {
	items = search.Filter(items, q.Search, fields)
	items, err := search.Sort(items, q.Sort)
	if err != nil {
		return nil, err
	}
	return search.Paginate(items, q.Limit, q.Offset), nil
}

// requireSession fails fast when no token is stored, without a round trip.
func (s *Service) requireSession(ctx context.Context) error {
	_, ok, err := s.client.Store().Get(ctx, session.KeyToken)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrNotLoggedIn
	}
	return nil
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

//// Notifications

func (s *Service) InitNotifications(ctx context.Context) error {
	if s.bridge == nil {
		return fmt.Errorf("service.Service.InitNotifications: %w", notify.ErrPermissionDenied)
	}
	if err := s.bridge.Init(ctx); err != nil {
		return fmt.Errorf("service.Service.InitNotifications: %w", err)
	}
	return nil
}
