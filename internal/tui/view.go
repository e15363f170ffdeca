package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application.
// This implements the "View" part of the Model-View-Update pattern.
func (m Model) View() string {
	// Wait for terminal size to be initialized
	if m.width == 0 {
		return "Loading..."
	}

	if m.mode == HelpMode {
		return m.viewHelp()
	}

	header := m.viewHeader()
	board := m.viewBoard()
	footer := m.viewFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, board, footer)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render("dealflow")

	status := ""
	if m.loading {
		status = cardMetaStyle.Render(" loading…")
	}

	banner := ""
	if len(m.notifications) > 0 {
		banner = " " + renderNotification(m.notifications[0], m.width-lipgloss.Width(title)-2)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, status, banner)
}

func (m Model) viewBoard() string {
	buckets := m.buckets()
	if len(buckets) == 0 {
		return "No stages configured. Check your config file."
	}

	session, dragging := m.ctrl.Session()

	colWidth := (m.width - 2) / len(buckets)
	if colWidth < 18 {
		colWidth = 18
	}
	colHeight := m.height - 6
	if colHeight < 6 {
		colHeight = 6
	}

	columns := make([]string, 0, len(buckets))
	for i, bucket := range buckets {
		opts := columnOptions{
			width:    colWidth,
			height:   colHeight,
			sumField: m.cfg.SumField,
			selected: i == m.selectedStage && !dragging,
		}
		if dragging {
			opts.dropTarget = bucket.Stage.Key == session.TargetStage
			opts.grabbedID = session.DealID
		}
		if i == m.selectedStage && !dragging {
			opts.selectedDeal = m.selectedDeal
		} else {
			opts.selectedDeal = -1
		}
		columns = append(columns, renderColumn(bucket, opts))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) viewFooter() string {
	km := m.cfg.KeyMappings
	var parts []string

	if m.mode == SearchMode {
		parts = append(parts, footerActiveStyle.Render("search: ")+m.searchInput.View())
	} else if m.searchQuery != "" {
		parts = append(parts, footerActiveStyle.Render(fmt.Sprintf("search: %q", m.searchQuery)))
	}

	if p := priorityCycle[m.priorityIndex]; p != "" {
		parts = append(parts, footerActiveStyle.Render("priority: "+p))
	}

	if session, dragging := m.ctrl.Session(); dragging {
		parts = append(parts, footerActiveStyle.Render(
			fmt.Sprintf("moving deal → %s  (%s drop, %s cancel)",
				m.stageLabel(session.TargetStage), keyName(km.DropDeal), keyName(km.CancelDrag))))
	} else if m.mode == NormalMode {
		parts = append(parts, footerStyle.Render(fmt.Sprintf(
			"%s/%s/%s/%s navigate  %s grab  %s search  %s filter  %s refresh  %s help  %s quit",
			km.PrevStage, km.NextDeal, km.PrevDeal, km.NextStage,
			keyName(km.GrabDeal), km.Search, km.CyclePriority, km.Refresh, km.ShowHelp, km.Quit)))
	}

	return strings.Join(parts, footerStyle.Render("  │  "))
}

func (m Model) viewHelp() string {
	km := m.cfg.KeyMappings
	rows := []struct{ key, action string }{
		{km.PrevStage + "/" + km.NextStage, "previous / next stage"},
		{km.PrevDeal + "/" + km.NextDeal, "previous / next deal"},
		{keyName(km.GrabDeal), "grab the selected deal"},
		{keyName(km.DropDeal), "drop the grabbed deal on this stage"},
		{keyName(km.CancelDrag), "cancel the grab"},
		{km.Search, "search deals"},
		{km.CyclePriority, "cycle the priority filter"},
		{km.ClearFilters, "clear search and filters"},
		{km.Refresh, "reload deals from the backend"},
		{km.DismissNotification, "dismiss the latest notification"},
		{km.Quit, "quit"},
	}

	var b strings.Builder
	b.WriteString(columnHeaderStyle.Render("Key bindings") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", r.key, r.action))
	}
	b.WriteString("\n" + cardMetaStyle.Render("press any key to close"))

	box := helpBoxStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// keyName renders non-printing keys readably in hints.
func keyName(key string) string {
	switch key {
	case " ":
		return "space"
	case "":
		return "?"
	default:
		return key
	}
}
