// Package transition performs stage changes with
// optimistic-update-then-reconcile semantics: the local store is
// patched immediately so the board stays responsive, then the backend
// mutation runs in the background and either confirms the change or
// rolls it back.
package transition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dealflow/internal/backend"
	"dealflow/internal/events"
	"dealflow/internal/models"
	"dealflow/internal/pipeline"
)

// TransitionFailedError reports a stage change the backend rejected or
// that failed on the network. The local store has already been rolled
// back when this surfaces; the user sees the card snap back plus a
// dismissible notification carrying Reason.
type TransitionFailedError struct {
	DealID string
	From   string
	To     string
	Reason string
	Err    error
}

func (e *TransitionFailedError) Error() string {
	return fmt.Sprintf("move deal %s from %s to %s failed: %s", e.DealID, e.From, e.To, e.Reason)
}

func (e *TransitionFailedError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one transition, delivered on the service's
// result channel once the backend call settles.
type Result struct {
	DealID string
	From   string
	To     string
	Err    error // nil on success, *TransitionFailedError on failure
}

// Service moves deals between stages. It is safe for the caller to
// start a new transition while a previous one is still in flight, even
// for the same deal: every call captures its own from-stage at
// invocation time, and rollbacks are compare-and-swap so a late-failing
// transition never undoes a newer one.
type Service struct {
	store  *pipeline.Store
	client backend.Client
	bus    *events.Bus

	mu      sync.Mutex
	closed  bool
	results chan Result
}

// NewService wires the transition service to its store, backend
// collaborator, and event bus. The bus may be nil when the host has no
// stage-change subscribers.
func NewService(store *pipeline.Store, client backend.Client, bus *events.Bus) *Service {
	return &Service{
		store:   store,
		client:  client,
		bus:     bus,
		results: make(chan Result, 32),
	}
}

// Results exposes settled transition outcomes. The TUI listens on this
// channel to surface failures and re-render.
func (s *Service) Results() <-chan Result {
	return s.results
}

// Move performs the optimistic stage change and starts the backend
// mutation. It returns immediately after the local patch; only local
// errors (unknown deal, unconfigured stage, same-stage move) are
// returned here, and none of them reach the backend. The eventual
// confirmation or rollback arrives on Results.
func (s *Service) Move(ctx context.Context, dealID, from, to string) error {
	if dealID == "" {
		return models.ErrEmptyDealID
	}
	if from == to {
		return models.ErrSameStage
	}

	// Optimistic local update. From the board's perspective the deal is
	// already in the target stage.
	if err := s.store.PatchStage(dealID, to); err != nil {
		return err
	}

	go s.reconcile(ctx, dealID, from, to)
	return nil
}

// Close marks the service stopped. In-flight backend calls keep
// running, but their resolutions become no-ops: nothing is written to a
// store that the view has already torn down.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// reconcile runs on its own goroutine per transition. from is the stage
// this specific call captured at invocation, never a shared value.
func (s *Service) reconcile(ctx context.Context, dealID, from, to string) {
	updated, err := s.client.UpdateStage(ctx, dealID, to)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err != nil {
		s.rollback(dealID, from, to, err)
		return
	}

	// Merge server-computed attributes; leave the stage alone unless the
	// server moved the deal somewhere other than what we asked for.
	if updated != nil {
		if mergeErr := s.store.MergeAttributes(dealID, updated.Attributes); mergeErr != nil {
			slog.Warn("reconcile merge failed", "deal", dealID, "error", mergeErr)
		}
		if updated.Stage != "" && updated.Stage != to {
			if _, swapErr := s.store.SwapStage(dealID, to, updated.Stage); swapErr != nil {
				slog.Warn("reconcile stage sync failed", "deal", dealID, "error", swapErr)
			}
		}
	}

	if s.bus != nil {
		s.bus.Publish(events.StageChanged{
			DealID:    dealID,
			FromStage: from,
			ToStage:   to,
			At:        time.Now(),
		})
	}
	s.deliver(Result{DealID: dealID, From: from, To: to})
}

// rollback restores exactly the from-stage this transition captured,
// but only if the deal still sits in the stage this transition set. If
// a newer transition has already moved the deal on, the failure is
// reported without touching the store.
func (s *Service) rollback(dealID, from, to string, cause error) {
	swapped, swapErr := s.store.SwapStage(dealID, to, from)
	if swapErr != nil && !errors.Is(swapErr, models.ErrDealNotFound) {
		slog.Error("rollback failed", "deal", dealID, "from", from, "to", to, "error", swapErr)
	}
	if !swapped {
		slog.Debug("rollback skipped, deal has moved on", "deal", dealID, "from", from, "to", to)
	}

	s.deliver(Result{
		DealID: dealID,
		From:   from,
		To:     to,
		Err: &TransitionFailedError{
			DealID: dealID,
			From:   from,
			To:     to,
			Reason: failureReason(cause),
			Err:    cause,
		},
	})
}

// deliver hands a result to the listener without ever blocking a
// network goroutine. A full channel means the UI stopped draining;
// dropping is preferable to a leak.
func (s *Service) deliver(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.results <- r:
	default:
		slog.Warn("transition result dropped, channel full", "deal", r.DealID)
	}
}

// failureReason extracts the backend's machine-readable reason when one
// exists, falling back to the raw error text.
func failureReason(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
