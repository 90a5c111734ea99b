package campaign

import (
	"context"

	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
)

type StoreAPI interface {
	CreateCampaign(ctx context.Context, c Campaign) (Campaign, error)
	GetCampaign(ctx context.Context, orgID, campaignID string) (Campaign, error)
	ListCampaigns(ctx context.Context, orgID string) ([]Campaign, error)
	ListDraftCampaigns(ctx context.Context) ([]Campaign, error)
	UpdateStrategy(ctx context.Context, orgID, campaignID string, strategy evaluation.Strategy) error
	UpdateRules(ctx context.Context, orgID, campaignID string, rules evaluation.Rules, workloadThreshold int) error
	// Participant writes fail with ErrCampaignNotDraft once the campaign has
	// left draft, even when that happens after the caller's own status check.
	ReplaceParticipants(ctx context.Context, orgID, campaignID string, employeeIDs []string) error
	UpdateParticipant(ctx context.Context, orgID, campaignID string, ev evaluation.Evaluatee) (bool, error)
	ListParticipants(ctx context.Context, campaignID string) ([]evaluation.Evaluatee, error)
	ListSessions(ctx context.Context, orgID, campaignID string) ([]Session, error)
	GetFrozenPlan(ctx context.Context, orgID, campaignID string) (FrozenPlan, error)
	InTx(ctx context.Context, fn func(tx TxAPI) error) error
}

// TxAPI is the set of reads and writes activation performs atomically.
type TxAPI interface {
	LockCampaign(ctx context.Context, orgID, campaignID string) (Campaign, error)
	ListParticipants(ctx context.Context, campaignID string) ([]evaluation.Evaluatee, error)
	Roster(ctx context.Context, orgID string) ([]directory.Employee, error)
	InsertSessions(ctx context.Context, orgID, campaignID string, pairs []evaluation.Pair) (int, error)
	MarkActive(ctx context.Context, orgID, campaignID string, frozen FrozenPlan) error
}

type RosterSource interface {
	Roster(ctx context.Context, orgID string) ([]directory.Employee, error)
}
