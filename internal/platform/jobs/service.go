package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

const (
	JobReadinessSweep = "readiness_sweep"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunStore persists one row per job execution.
type RunStore interface {
	StartRun(ctx context.Context, orgID, jobType string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
}

type Service struct {
	runs  RunStore
	cron  *cron.Cron
	queue chan job
}

type job struct {
	Type  string
	OrgID string
	Run   func(context.Context) (any, error)
}

func New(runs RunStore) *Service {
	return &Service{
		runs:  runs,
		cron:  cron.New(),
		queue: make(chan job, 128),
	}
}

// Schedule registers a recurring job on a standard cron expression. Each tick
// enqueues the job; a full queue drops the tick.
func (s *Service) Schedule(spec, jobType, orgID string, run func(context.Context) (any, error)) error {
	if _, err := s.cron.AddFunc(spec, func() {
		s.Enqueue(jobType, orgID, run)
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", jobType, err)
	}
	slog.Info("job scheduled", "jobType", jobType, "schedule", spec)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.cron.Start()
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
}

func (s *Service) Enqueue(jobType, orgID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, OrgID: orgID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "orgId", orgID)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, orgID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, OrgID: orgID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "orgId", j.OrgID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, err := s.runs.StartRun(ctx, j.OrgID, j.Type)
	if err != nil {
		slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.runs.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

type PGRunStore struct {
	DB *pgxpool.Pool
}

func (p PGRunStore) StartRun(ctx context.Context, orgID, jobType string) (string, error) {
	var org any
	if orgID != "" {
		org = orgID
	}
	runID := ""
	err := p.DB.QueryRow(ctx, `
    INSERT INTO job_runs (org_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, org, jobType, StatusRunning).Scan(&runID)
	return runID, err
}

func (p PGRunStore) FinishRun(ctx context.Context, runID, status string, details []byte) error {
	_, err := p.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, details, runID)
	return err
}
