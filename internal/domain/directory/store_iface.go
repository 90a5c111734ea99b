package directory

import "context"

type StoreAPI interface {
	UpsertEmployees(ctx context.Context, orgID string, records []RawEmployee) (int, error)
	ListEmployees(ctx context.Context, orgID string) ([]Employee, error)
	ListRoster(ctx context.Context, q Querier, orgID string) ([]Employee, error)
}
