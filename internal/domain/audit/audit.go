package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ActionDirectoryImport = "directory.import"
	ActionCampaignCreate  = "campaign.create"
	ActionStrategyUpdate  = "campaign.strategy.update"
	ActionRulesUpdate     = "campaign.rules.update"
	ActionParticipants    = "campaign.participants.update"
	ActionOverrideUpdate  = "campaign.evaluators.update"
	ActionActivate        = "campaign.activate"
	ActionActivateBlocked = "campaign.activate.blocked"

	EntityCampaign    = "campaign"
	EntityParticipant = "campaign_participant"
	EntityDirectory   = "directory"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	CampaignID string          `json:"campaignId,omitempty"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

// Entry is what callers hand to Record. Before and After are marshaled as JSON
// when non-nil.
type Entry struct {
	OrgID      string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	CampaignID string
	RequestID  string
	IP         string
	Before     any
	After      any
}

type Filter struct {
	Action     string
	CampaignID string
	ActorID    string
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func marshalOptional(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (s *Service) Record(ctx context.Context, e Entry) error {
	beforeJSON, err := marshalOptional(e.Before)
	if err != nil {
		return fmt.Errorf("marshal audit before: %w", err)
	}
	afterJSON, err := marshalOptional(e.After)
	if err != nil {
		return fmt.Errorf("marshal audit after: %w", err)
	}

	var campaignID any
	if e.CampaignID != "" {
		campaignID = e.CampaignID
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (org_id, actor_id, action, entity_type, entity_id, campaign_id, before_json, after_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, e.OrgID, e.ActorID, e.Action, e.EntityType, e.EntityID, campaignID, beforeJSON, afterJSON, e.RequestID, e.IP)
	return err
}

func (s *Service) List(ctx context.Context, orgID string, filter Filter, limit, offset int) ([]Event, error) {
	query, args := buildQuery(orgID, filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		var campaignID *string
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &campaignID, &evt.RequestID, &evt.IP, &evt.CreatedAt, &evt.Before, &evt.After); err != nil {
			return nil, err
		}
		if campaignID != nil {
			evt.CampaignID = *campaignID
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildQuery(orgID string, filter Filter) (string, []any) {
	query := `SELECT id, actor_id, action, entity_type, entity_id, campaign_id, request_id, ip, created_at, before_json, after_json
    FROM audit_events WHERE org_id = $1`
	args := []any{orgID}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", len(args)+1)
		args = append(args, filter.Action)
	}
	if filter.CampaignID != "" {
		query += fmt.Sprintf(" AND campaign_id = $%d", len(args)+1)
		args = append(args, filter.CampaignID)
	}
	if filter.ActorID != "" {
		query += fmt.Sprintf(" AND actor_id = $%d", len(args)+1)
		args = append(args, filter.ActorID)
	}
	return query, args
}
