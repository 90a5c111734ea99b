package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx so roster reads can
// join a caller's transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) UpsertEmployees(ctx context.Context, orgID string, records []RawEmployee) (int, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	count := 0
	for _, raw := range records {
		emp := Normalize(raw)
		if emp.ID == "" {
			continue
		}
		payload, err := json.Marshal(raw)
		if err != nil {
			return 0, fmt.Errorf("encode employee %s: %w", emp.ID, err)
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO employees (org_id, id, name, email, status, record_json, updated_at)
      VALUES ($1,$2,$3,$4,$5,$6, now())
      ON CONFLICT (org_id, id) DO UPDATE
      SET name = EXCLUDED.name,
          email = EXCLUDED.email,
          status = EXCLUDED.status,
          record_json = EXCLUDED.record_json,
          updated_at = now()
    `, orgID, emp.ID, emp.Name, emp.Email, emp.Status, payload); err != nil {
			return 0, fmt.Errorf("upsert employee %s: %w", emp.ID, err)
		}
		count++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListEmployees(ctx context.Context, orgID string) ([]Employee, error) {
	return s.list(ctx, s.DB, orgID, false)
}

// ListRoster returns the employees relationship detection runs over:
// everyone in the organization who is not inactive.
func (s *Store) ListRoster(ctx context.Context, q Querier, orgID string) ([]Employee, error) {
	if q == nil {
		q = s.DB
	}
	return s.list(ctx, q, orgID, true)
}

func (s *Store) list(ctx context.Context, q Querier, orgID string, activeOnly bool) ([]Employee, error) {
	query := `
    SELECT record_json
    FROM employees
    WHERE org_id = $1
  `
	if activeOnly {
		query += " AND status <> '" + StatusInactive + "'"
	}
	query += " ORDER BY id"

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raws []RawEmployee
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var raw RawEmployee
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, fmt.Errorf("decode employee record: %w", err)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NormalizeAll(raws), nil
}
