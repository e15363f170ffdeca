package tui

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"dealflow/internal/pipeline"
	"dealflow/internal/transition"
)

// Update handles all messages and updates the model accordingly.
// This implements the "Update" part of the Model-View-Update pattern.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dealsLoadedMsg:
		return m.handleDealsLoaded(msg)

	case transitionResultMsg:
		return m.handleTransitionResult(transition.Result(msg))

	case tea.KeyMsg:
		switch m.mode {
		case SearchMode:
			return m.handleSearchMode(msg)
		case HelpMode:
			return m.handleHelpMode(msg)
		default:
			return m.handleNormalMode(msg)
		}
	}
	return m, nil
}

// handleDealsLoaded replaces the store contents after a fetch. Deals
// with unconfigured stages are reported as a warning rather than
// silently dropped.
func (m Model) handleDealsLoaded(msg dealsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.notify(LevelError, "Failed to load deals: "+msg.err.Error())
		return m, nil
	}

	if err := m.store.Load(msg.deals); err != nil {
		var invalid *pipeline.InvalidStageError
		if errors.As(err, &invalid) {
			slog.Warn("rejected deals on load", "error", err)
			m.notify(LevelWarning, err.Error())
		} else {
			m.notify(LevelError, "Failed to load deals: "+err.Error())
		}
	}
	m.clampSelection()
	return m, nil
}

// handleTransitionResult surfaces a settled transition. On failure the
// store has already snapped the card back; the notification explains
// why. Either way, keep listening.
func (m Model) handleTransitionResult(r transition.Result) (tea.Model, tea.Cmd) {
	if r.Err != nil {
		var failed *transition.TransitionFailedError
		if errors.As(r.Err, &failed) {
			m.notify(LevelError, "Move failed, deal returned to "+m.stageLabel(failed.From)+": "+failed.Reason)
		} else {
			m.notify(LevelError, "Move failed: "+r.Err.Error())
		}
		m.clampSelection()
	}
	return m, m.waitForResult()
}

// handleNormalMode handles board navigation and deal movement.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.cfg.KeyMappings
	key := msg.String()
	if key == "ctrl+c" {
		m.svc.Close()
		return m, tea.Quit
	}

	switch key {
	case km.Quit:
		m.svc.Close()
		return m, tea.Quit

	case km.NextStage:
		return m.moveStageCursor(1), nil
	case km.PrevStage:
		return m.moveStageCursor(-1), nil

	case km.NextDeal:
		return m.moveDealCursor(1), nil
	case km.PrevDeal:
		return m.moveDealCursor(-1), nil

	case km.GrabDeal:
		return m.handleGrab(), nil
	case km.DropDeal:
		return m.handleDrop()
	case km.CancelDrag:
		return m.handleCancelDrag(), nil

	case km.Search:
		m.mode = SearchMode
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
		return m, nil

	case km.CyclePriority:
		m.priorityIndex = (m.priorityIndex + 1) % len(priorityCycle)
		m.clampSelection()
		return m, nil

	case km.ClearFilters:
		m.searchQuery = ""
		m.priorityIndex = 0
		m.clampSelection()
		return m, nil

	case km.Refresh:
		m.loading = true
		return m, m.loadDeals()

	case km.DismissNotification:
		m.dismissNotification()
		return m, nil

	case km.ShowHelp:
		m.mode = HelpMode
		return m, nil
	}
	return m, nil
}

// moveStageCursor moves the column cursor. While a drag session is
// active the cursor is the drop target, so the controller's hover
// target follows it.
func (m Model) moveStageCursor(delta int) Model {
	next := m.selectedStage + delta
	if next < 0 || next >= len(m.stages) {
		return m
	}
	m.selectedStage = next

	if _, dragging := m.ctrl.Session(); dragging {
		if err := m.ctrl.Target(m.stages[next].Key); err != nil {
			slog.Warn("drag target update rejected", "error", err)
		}
		return m
	}
	m.selectedDeal = 0
	m.clampSelection()
	return m
}

// moveDealCursor moves the card cursor within the current column. Card
// navigation is disabled mid-drag: the grabbed deal is fixed.
func (m Model) moveDealCursor(delta int) Model {
	if _, dragging := m.ctrl.Session(); dragging {
		return m
	}
	bucket := m.currentBucket()
	if bucket == nil {
		return m
	}
	next := m.selectedDeal + delta
	if next < 0 || next >= len(bucket.Items) {
		return m
	}
	m.selectedDeal = next
	return m
}

// handleGrab starts a drag session on the selected deal.
func (m Model) handleGrab() Model {
	deal := m.currentDeal()
	if deal == nil {
		return m
	}
	if err := m.ctrl.Begin(deal.ID, deal.Stage); err != nil {
		// Programmer-error class: log and ignore, never crash the view.
		slog.Warn("drag begin rejected", "deal", deal.ID, "error", err)
		return m
	}
	m.dragSource = m.selectedStage
	return m
}

// handleDrop resolves the drag session onto the current column. A drop
// on the source stage is a no-op and never reaches the transition
// service.
func (m Model) handleDrop() (tea.Model, tea.Cmd) {
	move, ok, err := m.ctrl.Drop(m.stages[m.selectedStage].Key)
	if err != nil {
		slog.Warn("drop rejected", "error", err)
		return m, nil
	}
	if !ok {
		return m, nil
	}

	if err := m.svc.Move(m.ctx, move.DealID, move.From, move.To); err != nil {
		m.notify(LevelError, "Cannot move deal: "+err.Error())
		return m, nil
	}

	// Optimistic update already applied: put the cursor on the moved
	// card in its new column.
	m.selectCard(move.DealID)
	return m, nil
}

// handleCancelDrag discards the session and snaps the cursor back to
// the source column.
func (m Model) handleCancelDrag() Model {
	if _, dragging := m.ctrl.Session(); !dragging {
		return m
	}
	m.ctrl.Cancel()
	m.selectedStage = m.dragSource
	m.clampSelection()
	return m
}

// selectCard points the cursor at the given deal wherever it now sits.
func (m *Model) selectCard(dealID string) {
	for si, bucket := range m.buckets() {
		for di, d := range bucket.Items {
			if d.ID == dealID {
				m.selectedStage = si
				m.selectedDeal = di
				return
			}
		}
	}
	m.clampSelection()
}

// handleSearchMode handles keyboard input while the search field is
// focused. The filter applies live as the query is typed.
func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchQuery = m.searchInput.Value()
		m.searchInput.Blur()
		m.mode = NormalMode
		m.clampSelection()
		return m, nil
	case "esc":
		m.searchQuery = ""
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.mode = NormalMode
		m.clampSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.clampSelection()
	return m, cmd
}

// handleHelpMode dismisses the help overlay on any key.
func (m Model) handleHelpMode(tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = NormalMode
	return m, nil
}

func (m Model) stageLabel(key string) string {
	for _, s := range m.stages {
		if s.Key == key {
			return s.Label
		}
	}
	return key
}
