// Package pipeline holds the client-side deal cache and the pure
// derivations computed from it: the filtered subset and the per-stage
// buckets the board renders.
package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"dealflow/internal/models"
)

// InvalidStageError reports deals whose stage is outside the configured
// stage set. Load rejects the offenders but keeps the valid deals, so a
// backend/config mismatch is visible to the caller instead of silently
// shrinking the board.
type InvalidStageError struct {
	Rejected []models.Deal
}

func (e *InvalidStageError) Error() string {
	keys := make([]string, 0, len(e.Rejected))
	for _, d := range e.Rejected {
		keys = append(keys, fmt.Sprintf("%s(stage=%q)", d.ID, d.Stage))
	}
	return fmt.Sprintf("%d deal(s) with a stage outside the configured set: %s",
		len(e.Rejected), strings.Join(keys, ", "))
}

// Store is the authoritative in-memory deal list for the current view.
// It is the single source of truth: buckets and filtered views are
// always derived from a Snapshot, never cached independently.
//
// The mutex covers the one cross-goroutine access pattern in the app:
// the transition service reconciles results from network goroutines
// while the TUI loop reads snapshots.
type Store struct {
	mu     sync.Mutex
	stages map[string]struct{}
	deals  []models.Deal
	index  map[string]int // deal ID -> position in deals
}

// NewStore creates an empty store bound to a closed stage set.
func NewStore(stages []models.Stage) *Store {
	keys := make(map[string]struct{}, len(stages))
	for _, s := range stages {
		keys[s.Key] = struct{}{}
	}
	return &Store{
		stages: keys,
		index:  make(map[string]int),
	}
}

// Load replaces the full deal set, typically after the initial fetch or
// a manual refresh. Deals with an empty ID or an unconfigured stage are
// rejected; when any are rejected the valid deals are still loaded and
// an *InvalidStageError listing the offenders is returned.
func (s *Store) Load(deals []models.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.Deal, 0, len(deals))
	index := make(map[string]int, len(deals))
	var rejected []models.Deal

	for _, d := range deals {
		if d.ID == "" {
			rejected = append(rejected, d)
			continue
		}
		if _, ok := s.stages[d.Stage]; !ok {
			rejected = append(rejected, d)
			continue
		}
		if _, dup := index[d.ID]; dup {
			// Last write wins on duplicate IDs from the backend.
			kept[index[d.ID]] = d.Clone()
			continue
		}
		index[d.ID] = len(kept)
		kept = append(kept, d.Clone())
	}

	s.deals = kept
	s.index = index

	if len(rejected) > 0 {
		return &InvalidStageError{Rejected: rejected}
	}
	return nil
}

// PatchStage updates a single deal's stage in place.
func (s *Store) PatchStage(id, stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stages[stage]; !ok {
		return fmt.Errorf("patch stage %q: %w", stage, models.ErrUnknownStage)
	}
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("patch deal %q: %w", id, models.ErrDealNotFound)
	}
	s.deals[i].Stage = stage
	return nil
}

// SwapStage updates the deal's stage only if its current stage still
// equals expect. It returns false (without error) when the deal has
// moved on since expect was captured, which is exactly the rollback
// guard a late-failing transition needs.
func (s *Store) SwapStage(id, expect, stage string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stages[stage]; !ok {
		return false, fmt.Errorf("swap to stage %q: %w", stage, models.ErrUnknownStage)
	}
	i, ok := s.index[id]
	if !ok {
		return false, fmt.Errorf("swap deal %q: %w", id, models.ErrDealNotFound)
	}
	if s.deals[i].Stage != expect {
		return false, nil
	}
	s.deals[i].Stage = stage
	return true, nil
}

// MergeAttributes folds server-computed attribute values into a deal
// without touching its stage. Used when the backend's mutation response
// carries recalculated fields.
func (s *Store) MergeAttributes(id string, attrs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("merge deal %q: %w", id, models.ErrDealNotFound)
	}
	if len(attrs) == 0 {
		return nil
	}
	if s.deals[i].Attributes == nil {
		s.deals[i].Attributes = make(map[string]any, len(attrs))
	}
	for k, v := range attrs {
		s.deals[i].Attributes[k] = v
	}
	return nil
}

// Get returns a copy of a single deal by ID.
func (s *Store) Get(id string) (models.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.Deal{}, false
	}
	return s.deals[i].Clone(), true
}

// Snapshot returns a copy of the current deal list in store order.
func (s *Store) Snapshot() []models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Deal, len(s.deals))
	for i, d := range s.deals {
		out[i] = d.Clone()
	}
	return out
}

// Len returns the number of deals currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deals)
}
