package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
)

type Store struct {
	DB        *pgxpool.Pool
	Directory *directory.Store
}

func NewStore(db *pgxpool.Pool, dir *directory.Store) *Store {
	return &Store{DB: db, Directory: dir}
}

const campaignColumns = `
  id, org_id, name, strategy, rules_json, workload_threshold, status,
  COALESCE(plan_fingerprint, ''), activated_at, created_at, updated_at
`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	var strategy string
	var rulesJSON []byte
	if err := row.Scan(&c.ID, &c.OrgID, &c.Name, &strategy, &rulesJSON, &c.WorkloadThreshold, &c.Status,
		&c.PlanFingerprint, &c.ActivatedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		return Campaign{}, err
	}
	parsed, err := evaluation.ParseStrategy(strategy)
	if err != nil {
		return Campaign{}, err
	}
	c.Strategy = parsed
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &c.Rules); err != nil {
			return Campaign{}, fmt.Errorf("decode campaign rules: %w", err)
		}
	}
	return c, nil
}

func (s *Store) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	rulesJSON, err := json.Marshal(c.Rules)
	if err != nil {
		return Campaign{}, err
	}
	row := s.DB.QueryRow(ctx, `
    INSERT INTO campaigns (id, org_id, name, strategy, rules_json, workload_threshold, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING `+campaignColumns, c.ID, c.OrgID, c.Name, string(c.Strategy), rulesJSON, c.WorkloadThreshold, c.Status)
	return scanCampaign(row)
}

func (s *Store) GetCampaign(ctx context.Context, orgID, campaignID string) (Campaign, error) {
	return scanCampaign(s.DB.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE org_id = $1 AND id = $2`, orgID, campaignID))
}

func (s *Store) ListCampaigns(ctx context.Context, orgID string) ([]Campaign, error) {
	return s.listCampaigns(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
}

func (s *Store) ListDraftCampaigns(ctx context.Context) ([]Campaign, error) {
	return s.listCampaigns(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE status = $1 ORDER BY org_id, created_at`, StatusDraft)
}

func (s *Store) listCampaigns(ctx context.Context, query string, args ...any) ([]Campaign, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStrategy(ctx context.Context, orgID, campaignID string, strategy evaluation.Strategy) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE campaigns SET strategy = $1, updated_at = now()
    WHERE org_id = $2 AND id = $3 AND status = $4
  `, string(strategy), orgID, campaignID, StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotDraft
	}
	return nil
}

func (s *Store) UpdateRules(ctx context.Context, orgID, campaignID string, rules evaluation.Rules, workloadThreshold int) error {
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE campaigns SET rules_json = $1, workload_threshold = $2, updated_at = now()
    WHERE org_id = $3 AND id = $4 AND status = $5
  `, rulesJSON, workloadThreshold, orgID, campaignID, StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotDraft
	}
	return nil
}

// participantTx runs fn after taking a share lock on a draft campaign row.
// Activation locks the same row FOR UPDATE, so an edit either lands before
// activation reads participants or sees the campaign already active. Both
// sides are serializable so a lost-snapshot interleaving aborts instead of
// committing an edit the frozen plan never saw.
func (s *Store) participantTx(ctx context.Context, orgID, campaignID string, fn func(tx pgx.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM campaigns WHERE org_id = $1 AND id = $2 FOR SHARE`, orgID, campaignID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != StatusDraft {
		return ErrCampaignNotDraft
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceParticipants keeps the overrides of employees that stay selected and
// drops everyone not in employeeIDs.
func (s *Store) ReplaceParticipants(ctx context.Context, orgID, campaignID string, employeeIDs []string) error {
	if employeeIDs == nil {
		employeeIDs = []string{}
	}
	return s.participantTx(ctx, orgID, campaignID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
      DELETE FROM campaign_participants
      WHERE campaign_id = $1 AND NOT (employee_id = ANY($2))
    `, campaignID, employeeIDs); err != nil {
			return err
		}
		for position, employeeID := range employeeIDs {
			if _, err := tx.Exec(ctx, `
        INSERT INTO campaign_participants (campaign_id, employee_id, position, custom_json, skip_manager)
        VALUES ($1,$2,$3,'{}',false)
        ON CONFLICT (campaign_id, employee_id) DO UPDATE SET position = EXCLUDED.position
      `, campaignID, employeeID, position); err != nil {
				return fmt.Errorf("insert participant %s: %w", employeeID, err)
			}
		}
		return nil
	})
}

func (s *Store) UpdateParticipant(ctx context.Context, orgID, campaignID string, ev evaluation.Evaluatee) (bool, error) {
	customJSON, err := json.Marshal(ev.Custom)
	if err != nil {
		return false, err
	}
	updated := false
	err = s.participantTx(ctx, orgID, campaignID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE campaign_participants SET custom_json = $1, skip_manager = $2
      WHERE campaign_id = $3 AND employee_id = $4
    `, customJSON, ev.SkipManagerEvaluation, campaignID, ev.ID)
		if err != nil {
			return err
		}
		updated = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func (s *Store) ListParticipants(ctx context.Context, campaignID string) ([]evaluation.Evaluatee, error) {
	return listParticipants(ctx, s.DB, campaignID)
}

func listParticipants(ctx context.Context, q directory.Querier, campaignID string) ([]evaluation.Evaluatee, error) {
	rows, err := q.Query(ctx, `
    SELECT employee_id, custom_json, skip_manager
    FROM campaign_participants
    WHERE campaign_id = $1
    ORDER BY position, employee_id
  `, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []evaluation.Evaluatee
	for rows.Next() {
		var ev evaluation.Evaluatee
		var customJSON []byte
		if err := rows.Scan(&ev.ID, &customJSON, &ev.SkipManagerEvaluation); err != nil {
			return nil, err
		}
		if len(customJSON) > 0 {
			if err := json.Unmarshal(customJSON, &ev.Custom); err != nil {
				return nil, fmt.Errorf("decode overrides for %s: %w", ev.ID, err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) ListSessions(ctx context.Context, orgID, campaignID string) ([]Session, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, campaign_id, evaluator_id, evaluatee_id, role, status, created_at
    FROM evaluation_sessions
    WHERE org_id = $1 AND campaign_id = $2
    ORDER BY evaluatee_id, role, evaluator_id
  `, orgID, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var session Session
		var role string
		if err := rows.Scan(&session.ID, &session.CampaignID, &session.EvaluatorID, &session.EvaluateeID, &role, &session.Status, &session.CreatedAt); err != nil {
			return nil, err
		}
		session.Role = evaluation.Role(role)
		out = append(out, session)
	}
	return out, rows.Err()
}

// GetFrozenPlan returns what activation stored. Draft campaigns have none and
// report ErrNotFound.
func (s *Store) GetFrozenPlan(ctx context.Context, orgID, campaignID string) (FrozenPlan, error) {
	var planJSON []byte
	err := s.DB.QueryRow(ctx, `SELECT plan_json FROM campaigns WHERE org_id = $1 AND id = $2`, orgID, campaignID).Scan(&planJSON)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && len(planJSON) == 0) {
		return FrozenPlan{}, ErrNotFound
	}
	if err != nil {
		return FrozenPlan{}, err
	}
	var frozen FrozenPlan
	if err := json.Unmarshal(planJSON, &frozen); err != nil {
		return FrozenPlan{}, fmt.Errorf("decode frozen plan: %w", err)
	}
	return frozen, nil
}

func (s *Store) InTx(ctx context.Context, fn func(tx TxAPI) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txStore{tx: tx, directory: s.Directory}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type txStore struct {
	tx        pgx.Tx
	directory *directory.Store
}

func (t *txStore) LockCampaign(ctx context.Context, orgID, campaignID string) (Campaign, error) {
	return scanCampaign(t.tx.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE org_id = $1 AND id = $2 FOR UPDATE`, orgID, campaignID))
}

func (t *txStore) ListParticipants(ctx context.Context, campaignID string) ([]evaluation.Evaluatee, error) {
	return listParticipants(ctx, t.tx, campaignID)
}

func (t *txStore) Roster(ctx context.Context, orgID string) ([]directory.Employee, error) {
	return t.directory.ListRoster(ctx, t.tx, orgID)
}

func (t *txStore) InsertSessions(ctx context.Context, orgID, campaignID string, pairs []evaluation.Pair) (int, error) {
	now := time.Now().UTC()
	copied, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"evaluation_sessions"},
		[]string{"id", "org_id", "campaign_id", "evaluator_id", "evaluatee_id", "role", "status", "created_at"},
		pgx.CopyFromSlice(len(pairs), func(i int) ([]any, error) {
			p := pairs[i]
			return []any{uuid.NewString(), orgID, campaignID, p.EvaluatorID, p.EvaluateeID, string(p.Role), SessionStatusPending, now}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("insert sessions: %w", err)
	}
	return int(copied), nil
}

func (t *txStore) MarkActive(ctx context.Context, orgID, campaignID string, frozen FrozenPlan) error {
	planJSON, err := json.Marshal(frozen)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, `
    UPDATE campaigns
    SET status = $1, plan_json = $2, plan_fingerprint = $3, activated_at = now(), updated_at = now()
    WHERE org_id = $4 AND id = $5
  `, StatusActive, planJSON, frozen.Plan.Fingerprint, orgID, campaignID)
	return err
}
