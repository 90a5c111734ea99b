package campaign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
	"reviewhub/internal/platform/metrics"
)

type Service struct {
	store            StoreAPI
	roster           RosterSource
	cache            *evaluation.Cache
	metrics          *metrics.Collector
	defaultThreshold int
}

func NewService(store StoreAPI, roster RosterSource, cache *evaluation.Cache, collector *metrics.Collector, defaultThreshold int) *Service {
	if cache == nil {
		cache = evaluation.NewCache(evaluation.DefaultCacheSize)
	}
	if defaultThreshold <= 0 {
		defaultThreshold = evaluation.DefaultWorkloadThreshold
	}
	return &Service{store: store, roster: roster, cache: cache, metrics: collector, defaultThreshold: defaultThreshold}
}

func requireScope(orgID, campaignID string) error {
	if strings.TrimSpace(orgID) == "" || strings.TrimSpace(campaignID) == "" {
		return evaluation.ErrMissingScope
	}
	return nil
}

func (s *Service) Create(ctx context.Context, orgID, name, strategy string, rules evaluation.Rules, workloadThreshold int) (Campaign, error) {
	if strings.TrimSpace(orgID) == "" {
		return Campaign{}, evaluation.ErrMissingScope
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Campaign{}, ErrInvalidName
	}
	parsed, err := evaluation.ParseStrategy(strategy)
	if err != nil {
		return Campaign{}, err
	}
	if workloadThreshold <= 0 {
		workloadThreshold = s.defaultThreshold
	}
	return s.store.CreateCampaign(ctx, Campaign{
		OrgID:             orgID,
		Name:              name,
		Strategy:          parsed,
		Rules:             rules,
		WorkloadThreshold: workloadThreshold,
		Status:            StatusDraft,
	})
}

func (s *Service) Get(ctx context.Context, orgID, campaignID string) (Campaign, error) {
	if err := requireScope(orgID, campaignID); err != nil {
		return Campaign{}, err
	}
	return s.store.GetCampaign(ctx, orgID, campaignID)
}

func (s *Service) List(ctx context.Context, orgID string) ([]Campaign, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, evaluation.ErrMissingScope
	}
	return s.store.ListCampaigns(ctx, orgID)
}

func (s *Service) draft(ctx context.Context, orgID, campaignID string) (Campaign, error) {
	c, err := s.Get(ctx, orgID, campaignID)
	if err != nil {
		return Campaign{}, err
	}
	if c.Status != StatusDraft {
		return Campaign{}, ErrCampaignNotDraft
	}
	return c, nil
}

func (s *Service) SetStrategy(ctx context.Context, orgID, campaignID, strategy string) (evaluation.Strategy, error) {
	parsed, err := evaluation.ParseStrategy(strategy)
	if err != nil {
		return "", err
	}
	if _, err := s.draft(ctx, orgID, campaignID); err != nil {
		return "", err
	}
	if err := s.store.UpdateStrategy(ctx, orgID, campaignID, parsed); err != nil {
		return "", err
	}
	return parsed, nil
}

func (s *Service) SetRules(ctx context.Context, orgID, campaignID string, rules evaluation.Rules, workloadThreshold int) error {
	c, err := s.draft(ctx, orgID, campaignID)
	if err != nil {
		return err
	}
	if workloadThreshold <= 0 {
		workloadThreshold = c.WorkloadThreshold
	}
	return s.store.UpdateRules(ctx, orgID, campaignID, rules, workloadThreshold)
}

func (s *Service) SetParticipants(ctx context.Context, orgID, campaignID string, employeeIDs []string) error {
	if _, err := s.draft(ctx, orgID, campaignID); err != nil {
		return err
	}
	ids := make([]string, 0, len(employeeIDs))
	seen := make(map[string]struct{}, len(employeeIDs))
	for _, raw := range employeeIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return s.store.ReplaceParticipants(ctx, orgID, campaignID, ids)
}

// SetEvaluators stores the operator's overrides and skip flag for one participant.
func (s *Service) SetEvaluators(ctx context.Context, orgID, campaignID string, ev evaluation.Evaluatee) error {
	if strings.TrimSpace(ev.ID) == "" {
		return ErrNotParticipant
	}
	if _, err := s.draft(ctx, orgID, campaignID); err != nil {
		return err
	}
	ok, err := s.store.UpdateParticipant(ctx, orgID, campaignID, ev)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotParticipant
	}
	return nil
}

func (s *Service) input(ctx context.Context, c Campaign) (evaluation.Input, error) {
	roster, err := s.roster.Roster(ctx, c.OrgID)
	if err != nil {
		return evaluation.Input{}, fmt.Errorf("load roster: %w", err)
	}
	participants, err := s.store.ListParticipants(ctx, c.ID)
	if err != nil {
		return evaluation.Input{}, fmt.Errorf("load participants: %w", err)
	}
	return buildInput(c, roster, participants, s.defaultThreshold), nil
}

func (s *Service) frozen(ctx context.Context, c Campaign) (evaluation.Result, []directory.Employee, error) {
	plan, err := s.store.GetFrozenPlan(ctx, c.OrgID, c.ID)
	if err != nil {
		return evaluation.Result{}, nil, fmt.Errorf("load frozen plan: %w", err)
	}
	threshold := c.WorkloadThreshold
	if threshold <= 0 {
		threshold = s.defaultThreshold
	}
	return plan.Result(threshold), plan.Roster, nil
}

// current resolves a draft through the plan cache, or returns the frozen
// activation result once the campaign has left draft.
func (s *Service) current(ctx context.Context, c Campaign) (evaluation.Result, []directory.Employee, bool, error) {
	if c.Status != StatusDraft {
		result, roster, err := s.frozen(ctx, c)
		return result, roster, false, err
	}
	in, err := s.input(ctx, c)
	if err != nil {
		return evaluation.Result{}, nil, false, err
	}
	result, hit, err := s.cache.Resolve(in)
	if err != nil {
		return evaluation.Result{}, nil, false, err
	}
	s.metrics.RecordPlan(hit)
	return result, in.Roster, hit, nil
}

// Preview serves the UI matrix. Drafts may come from the plan cache; active
// campaigns show the plan their sessions were generated from.
func (s *Service) Preview(ctx context.Context, orgID, campaignID string) (Preview, error) {
	c, err := s.Get(ctx, orgID, campaignID)
	if err != nil {
		return Preview{}, err
	}
	result, _, hit, err := s.current(ctx, c)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Campaign: c, Result: result, Cached: hit}, nil
}

// ExportData is a preview together with the roster used to name people in
// exported files.
func (s *Service) ExportData(ctx context.Context, orgID, campaignID string) (ExportData, error) {
	c, err := s.Get(ctx, orgID, campaignID)
	if err != nil {
		return ExportData{}, err
	}
	result, roster, _, err := s.current(ctx, c)
	if err != nil {
		return ExportData{}, err
	}
	return ExportData{Campaign: c, Result: result, Roster: roster}, nil
}

// Validate recomputes a draft from the stored roster and overrides. An active
// campaign reports the findings it was activated with.
func (s *Service) Validate(ctx context.Context, orgID, campaignID string) (evaluation.Report, error) {
	c, err := s.Get(ctx, orgID, campaignID)
	if err != nil {
		return evaluation.Report{}, err
	}
	if c.Status != StatusDraft {
		result, _, err := s.frozen(ctx, c)
		if err != nil {
			return evaluation.Report{}, err
		}
		return result.Report, nil
	}
	in, err := s.input(ctx, c)
	if err != nil {
		return evaluation.Report{}, err
	}
	result, err := evaluation.Resolve(in)
	if err != nil {
		return evaluation.Report{}, err
	}
	return result.Report, nil
}

// Activate re-runs resolution inside the activation transaction, gates on the
// validation report and, when allowed, writes one session per evaluator and
// evaluatee pair and freezes the plan. A gate failure returns the report
// alongside ErrLaunchBlocked or ErrConfirmationRequired.
func (s *Service) Activate(ctx context.Context, orgID, campaignID string, confirmed bool) (Activation, error) {
	if err := requireScope(orgID, campaignID); err != nil {
		return Activation{}, err
	}
	var activation Activation
	err := s.store.InTx(ctx, func(tx TxAPI) error {
		c, err := tx.LockCampaign(ctx, orgID, campaignID)
		if err != nil {
			return err
		}
		if c.Status != StatusDraft {
			return ErrCampaignNotDraft
		}
		roster, err := tx.Roster(ctx, orgID)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}
		participants, err := tx.ListParticipants(ctx, campaignID)
		if err != nil {
			return fmt.Errorf("load participants: %w", err)
		}
		result, err := evaluation.Resolve(buildInput(c, roster, participants, s.defaultThreshold))
		if err != nil {
			return err
		}
		activation.Campaign = c
		activation.Report = result.Report
		activation.Plan = result.Plan
		if err := result.Report.Gate(confirmed); err != nil {
			return err
		}

		created, err := tx.InsertSessions(ctx, orgID, campaignID, result.Plan.Pairs())
		if err != nil {
			return err
		}
		if err := tx.MarkActive(ctx, orgID, campaignID, freeze(result, roster)); err != nil {
			return err
		}
		activation.SessionsCreated = created
		activation.Campaign.Status = StatusActive
		activation.Campaign.PlanFingerprint = result.Plan.Fingerprint
		return nil
	})
	if errors.Is(err, evaluation.ErrLaunchBlocked) || errors.Is(err, evaluation.ErrConfirmationRequired) {
		s.metrics.RecordLaunch(true)
		return activation, err
	}
	if err != nil {
		return Activation{}, err
	}
	s.metrics.RecordLaunch(false)
	slog.Info("campaign activated", "orgId", orgID, "campaignId", campaignID, "sessions", activation.SessionsCreated, "fingerprint", activation.Plan.Fingerprint)
	return activation, nil
}

func (s *Service) Sessions(ctx context.Context, orgID, campaignID string) ([]Session, error) {
	if err := requireScope(orgID, campaignID); err != nil {
		return nil, err
	}
	return s.store.ListSessions(ctx, orgID, campaignID)
}

// SweepDrafts validates every draft campaign across organizations. A failure
// on one campaign is recorded in its result and does not stop the sweep.
func (s *Service) SweepDrafts(ctx context.Context) ([]SweepResult, error) {
	drafts, err := s.store.ListDraftCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SweepResult, 0, len(drafts))
	for _, c := range drafts {
		res := SweepResult{CampaignID: c.ID, OrgID: c.OrgID}
		report, err := s.Validate(ctx, c.OrgID, c.ID)
		if err != nil {
			slog.Warn("readiness sweep failed", "orgId", c.OrgID, "campaignId", c.ID, "err", err)
			res.Error = err.Error()
		} else {
			res.Findings = len(report.Findings)
			res.Blocked = report.Blocked
		}
		out = append(out, res)
	}
	return out, nil
}

func buildInput(c Campaign, roster []directory.Employee, participants []evaluation.Evaluatee, defaultThreshold int) evaluation.Input {
	threshold := c.WorkloadThreshold
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	return evaluation.Input{
		OrgID:             c.OrgID,
		CampaignID:        c.ID,
		Roster:            roster,
		Evaluatees:        participants,
		Strategy:          c.Strategy,
		Rules:             c.Rules,
		WorkloadThreshold: threshold,
	}
}
