package directory

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Import(ctx context.Context, orgID string, records []RawEmployee) (int, error) {
	return s.store.UpsertEmployees(ctx, orgID, records)
}

func (s *Service) ListEmployees(ctx context.Context, orgID string) ([]Employee, error) {
	return s.store.ListEmployees(ctx, orgID)
}

func (s *Service) Roster(ctx context.Context, orgID string) ([]Employee, error) {
	return s.store.ListRoster(ctx, nil, orgID)
}
