// Package backend defines the collaborator interface the pipeline core
// talks to, plus the HTTP implementation against the deal API. The core
// never sees which implementation it got; a test double or the local
// sqlite repository satisfy the same contract.
package backend

import (
	"context"
	"fmt"

	"dealflow/internal/models"
)

// Client is the backend collaborator: one list endpoint and one stage
// mutation endpoint.
type Client interface {
	// ListDeals returns the current deal set for the authenticated user.
	ListDeals(ctx context.Context) ([]models.Deal, error)

	// UpdateStage persists a stage change and returns the updated deal,
	// which may carry server-recomputed attributes to merge back.
	UpdateStage(ctx context.Context, dealID, stage string) (*models.Deal, error)
}

// APIError is a machine-readable rejection from the backend: validation
// failure, not-found, or a concurrent-edit conflict.
type APIError struct {
	StatusCode int
	Code       string // e.g. "invalid_stage", "conflict", "not_found"
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend rejected request (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend rejected request: status %d", e.StatusCode)
}
