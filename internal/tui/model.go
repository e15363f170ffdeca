// Package tui renders the stage board and wires keyboard interaction to
// the drag controller and transition service. It follows the Bubble Tea
// Model-View-Update pattern: all state transitions happen synchronously
// inside Update, and the board is re-derived from the store on every
// render.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dealflow/internal/backend"
	"dealflow/internal/config"
	"dealflow/internal/drag"
	"dealflow/internal/models"
	"dealflow/internal/pipeline"
	"dealflow/internal/transition"
)

// Mode identifies which input mode the board is in.
type Mode int

const (
	// NormalMode is board navigation and deal movement
	NormalMode Mode = iota
	// SearchMode captures free-text search input
	SearchMode
	// HelpMode shows the key binding overlay
	HelpMode
)

// priorityCycle is the filter rotation bound to the cycle-priority key.
var priorityCycle = []string{"", "high", "medium", "low"}

// Model represents the application state for the TUI
type Model struct {
	ctx    context.Context
	cfg    *config.Config
	stages []models.Stage

	store  *pipeline.Store
	svc    *transition.Service
	ctrl   *drag.Controller
	client backend.Client

	mode    Mode
	width   int
	height  int
	loading bool

	// Board selection. selectedStage doubles as the drag target while a
	// session is active; dragSource remembers where to snap back on
	// cancel.
	selectedStage int
	selectedDeal  int
	dragSource    int

	searchInput   textinput.Model
	searchQuery   string // confirmed query, kept after leaving search mode
	priorityIndex int    // index into priorityCycle

	notifications []Notification
}

// InitialModel creates the TUI model. Deals are loaded asynchronously
// by the Init command, not here.
func InitialModel(ctx context.Context, cfg *config.Config, store *pipeline.Store, svc *transition.Service, client backend.Client) Model {
	input := textinput.New()
	input.Placeholder = "search deals"
	input.CharLimit = 100
	input.Width = 32

	return Model{
		ctx:         ctx,
		cfg:         cfg,
		stages:      cfg.Stages(),
		store:       store,
		svc:         svc,
		ctrl:        drag.NewController(),
		client:      client,
		loading:     true,
		searchInput: input,
	}
}

// Init kicks off the initial fetch and starts listening for transition
// results. Required by the tea.Model interface.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDeals(), m.waitForResult())
}

// dealsLoadedMsg carries the result of a list fetch.
type dealsLoadedMsg struct {
	deals []models.Deal
	err   error
}

// transitionResultMsg carries a settled transition outcome.
type transitionResultMsg transition.Result

// loadDeals fetches the deal list from the backend collaborator.
func (m Model) loadDeals() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		deals, err := client.ListDeals(ctx)
		return dealsLoadedMsg{deals: deals, err: err}
	}
}

// waitForResult blocks on the transition service's result channel and
// resurfaces the outcome as a message. Re-issued after every result so
// the subscription stays alive.
func (m Model) waitForResult() tea.Cmd {
	results := m.svc.Results()
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return transitionResultMsg(r)
	}
}

// visibleDeals derives the filtered subset the board shows.
func (m Model) visibleDeals() []models.Deal {
	query := m.searchQuery
	if m.mode == SearchMode {
		query = m.searchInput.Value()
	}

	var filters []pipeline.AttributeFilter
	if p := priorityCycle[m.priorityIndex]; p != "" {
		filters = append(filters, pipeline.AttributeFilter{Field: "priority", Value: p})
	}
	return pipeline.ApplyFilter(m.store.Snapshot(), query, filters, m.cfg.SearchFields)
}

// buckets derives the per-stage board columns from the visible subset.
func (m Model) buckets() []pipeline.StageBucket {
	return pipeline.GroupByStage(m.visibleDeals(), m.stages, m.cfg.SumField)
}

// currentBucket returns the bucket under the selection cursor.
func (m Model) currentBucket() *pipeline.StageBucket {
	buckets := m.buckets()
	if m.selectedStage < 0 || m.selectedStage >= len(buckets) {
		return nil
	}
	return &buckets[m.selectedStage]
}

// currentDeal returns the deal under the selection cursor, if any.
func (m Model) currentDeal() *models.Deal {
	bucket := m.currentBucket()
	if bucket == nil || m.selectedDeal >= len(bucket.Items) {
		return nil
	}
	deal := bucket.Items[m.selectedDeal]
	return &deal
}

// clampSelection keeps the cursor inside the current bucket after the
// underlying data changed.
func (m *Model) clampSelection() {
	if m.selectedStage >= len(m.stages) {
		m.selectedStage = len(m.stages) - 1
	}
	if m.selectedStage < 0 {
		m.selectedStage = 0
	}
	bucket := m.currentBucket()
	if bucket == nil || len(bucket.Items) == 0 {
		m.selectedDeal = 0
		return
	}
	if m.selectedDeal >= len(bucket.Items) {
		m.selectedDeal = len(bucket.Items) - 1
	}
	if m.selectedDeal < 0 {
		m.selectedDeal = 0
	}
}
