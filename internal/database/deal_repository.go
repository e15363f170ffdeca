package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"dealflow/internal/backend"
	"dealflow/internal/models"
)

// DealRepo is the local-mode backend.Client. It validates stage keys
// against the configured stage set the same way the real API does, so
// the transition service's rejection path behaves identically offline.
type DealRepo struct {
	db     *sql.DB
	stages map[string]struct{}
}

// NewDealRepo creates a repository bound to the configured stage set.
func NewDealRepo(db *sql.DB, stages []models.Stage) *DealRepo {
	keys := make(map[string]struct{}, len(stages))
	for _, s := range stages {
		keys[s.Key] = struct{}{}
	}
	return &DealRepo{db: db, stages: keys}
}

// ListDeals returns all deals ordered by creation time.
func (r *DealRepo) ListDeals(ctx context.Context) ([]models.Deal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, stage, name, company, value, priority
		 FROM deals
		 ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		var (
			d                       models.Deal
			name, company, priority string
			value                   float64
		)
		if err := rows.Scan(&d.ID, &d.Stage, &name, &company, &value, &priority); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		d.Attributes = map[string]any{
			"name":     name,
			"company":  company,
			"value":    value,
			"priority": priority,
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deals: %w", err)
	}
	return deals, nil
}

// UpdateStage persists a stage change and returns the updated deal.
// Rejections mirror the real API's error shape (*backend.APIError) so
// the caller's rollback path is exercised identically.
func (r *DealRepo) UpdateStage(ctx context.Context, dealID, stage string) (*models.Deal, error) {
	if _, ok := r.stages[stage]; !ok {
		return nil, &backend.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       "invalid_stage",
			Message:    fmt.Sprintf("stage %q is not part of the pipeline", stage),
		}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE deals SET stage = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		stage, dealID,
	)
	if err != nil {
		return nil, fmt.Errorf("update deal stage: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update deal stage: %w", err)
	}
	if affected == 0 {
		return nil, &backend.APIError{
			StatusCode: http.StatusNotFound,
			Code:       "not_found",
			Message:    fmt.Sprintf("deal %s does not exist", dealID),
		}
	}

	return r.getDeal(ctx, dealID)
}

// CreateDeal inserts a deal and returns it with its generated ID.
func (r *DealRepo) CreateDeal(ctx context.Context, stage, name, company string, value float64, priority string) (*models.Deal, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deals (id, stage, name, company, value, priority)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, stage, name, company, value, priority,
	)
	if err != nil {
		return nil, fmt.Errorf("insert deal: %w", err)
	}
	return r.getDeal(ctx, id)
}

func (r *DealRepo) getDeal(ctx context.Context, id string) (*models.Deal, error) {
	var (
		d                       models.Deal
		name, company, priority string
		value                   float64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, stage, name, company, value, priority FROM deals WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Stage, &name, &company, &value, &priority)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get deal %s: %w", id, models.ErrDealNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get deal %s: %w", id, err)
	}
	d.Attributes = map[string]any{
		"name":     name,
		"company":  company,
		"value":    value,
		"priority": priority,
	}
	return &d, nil
}

// Seed populates an empty database with a small demo pipeline so the
// board has something to show on first run.
func (r *DealRepo) Seed(ctx context.Context, firstStage string) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deals`).Scan(&count); err != nil {
		return fmt.Errorf("count deals: %w", err)
	}
	if count > 0 {
		return nil
	}

	demo := []struct {
		name, company, priority string
		value                   float64
	}{
		{"TechCorp Acquisition", "TechCorp", "high", 2500000},
		{"Meridian Carve-out", "Meridian Industrials", "medium", 880000},
		{"Northwind Merger", "Northwind Logistics", "high", 4100000},
		{"Atlas Minority Stake", "Atlas Robotics", "low", 650000},
		{"Harbor Asset Purchase", "Harbor Foods", "medium", 1200000},
	}
	for _, d := range demo {
		if _, err := r.CreateDeal(ctx, firstStage, d.name, d.company, d.value, d.priority); err != nil {
			return fmt.Errorf("seed deal %q: %w", d.name, err)
		}
	}
	return nil
}
