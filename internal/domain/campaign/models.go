package campaign

import (
	"errors"
	"time"

	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
)

var (
	ErrNotFound         = errors.New("campaign not found")
	ErrNotParticipant   = errors.New("employee is not a participant of the campaign")
	ErrCampaignNotDraft = errors.New("campaign is no longer a draft")
	ErrInvalidName      = errors.New("campaign name is required")
)

type Campaign struct {
	ID                string              `json:"id"`
	OrgID             string              `json:"orgId"`
	Name              string              `json:"name"`
	Strategy          evaluation.Strategy `json:"strategy"`
	Rules             evaluation.Rules    `json:"rules"`
	WorkloadThreshold int                 `json:"workloadThreshold"`
	Status            string              `json:"status"`
	PlanFingerprint   string              `json:"planFingerprint,omitempty"`
	ActivatedAt       *time.Time          `json:"activatedAt,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

type Session struct {
	ID          string          `json:"id"`
	CampaignID  string          `json:"campaignId"`
	EvaluatorID string          `json:"evaluatorId"`
	EvaluateeID string          `json:"evaluateeId"`
	Role        evaluation.Role `json:"role"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Preview struct {
	Campaign Campaign          `json:"campaign"`
	Result   evaluation.Result `json:"result"`
	Cached   bool              `json:"cached"`
}

type Activation struct {
	Campaign        Campaign          `json:"campaign"`
	Plan            evaluation.Plan   `json:"plan"`
	Report          evaluation.Report `json:"report"`
	SessionsCreated int               `json:"sessionsCreated"`
}

// SweepResult summarizes one readiness check of a draft campaign.
type SweepResult struct {
	CampaignID string `json:"campaignId"`
	OrgID      string `json:"orgId"`
	Findings   int    `json:"findings"`
	Blocked    bool   `json:"blocked"`
	Error      string `json:"error,omitempty"`
}

type ExportData struct {
	Campaign Campaign
	Result   evaluation.Result
	Roster   []directory.Employee
}

// FrozenPlan is the activation result handed to session generation. Reads of
// a non-draft campaign are served from it and never recompute.
type FrozenPlan struct {
	Plan          evaluation.Plan                         `json:"plan"`
	Report        evaluation.Report                       `json:"report"`
	Counts        map[string]evaluation.TheoreticalCounts `json:"counts"`
	Relationships map[string]evaluation.RelationshipSet   `json:"relationships"`
	Roster        []directory.Employee                    `json:"roster"`
}

func freeze(result evaluation.Result, roster []directory.Employee) FrozenPlan {
	return FrozenPlan{
		Plan:          result.Plan,
		Report:        result.Report,
		Counts:        result.Counts,
		Relationships: result.Relationships,
		Roster:        roster,
	}
}

// Result rebuilds the pipeline output from the frozen plan. Workload is
// re-tallied from the frozen assignments, which is the same aggregation
// activation ran.
func (f FrozenPlan) Result(threshold int) evaluation.Result {
	return evaluation.Result{
		Plan:          f.Plan,
		Counts:        f.Counts,
		Relationships: f.Relationships,
		Workload:      evaluation.AggregateWorkload(f.Plan.Assignments, threshold),
		Report:        f.Report,
		State:         evaluation.StateResolved,
	}
}
