package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"dealflow/internal/models"
	"dealflow/internal/pipeline"
)

// columnOptions controls how one stage column is drawn.
type columnOptions struct {
	width        int
	height       int
	sumField     string
	selected     bool
	dropTarget   bool
	selectedDeal int    // -1 when this column holds no cursor
	grabbedID    string // deal currently held by a drag session
}

// renderColumn renders one stage column: header with aggregates, then
// the cards in store order.
func renderColumn(bucket pipeline.StageBucket, opts columnOptions) string {
	innerWidth := opts.width - 4 // column border + padding

	header := columnHeaderStyle.Render(bucket.Stage.Label)
	aggregate := fmt.Sprintf("%d deals", bucket.Count)
	if bucket.Count == 1 {
		aggregate = "1 deal"
	}
	if opts.sumField != "" && bucket.Sum != 0 {
		aggregate += " · " + formatMoney(bucket.Sum)
	}

	parts := []string{header, columnAggregateStyle.Render(aggregate), ""}
	for i, deal := range bucket.Items {
		parts = append(parts, renderCard(deal, cardOptions{
			width:    innerWidth,
			selected: i == opts.selectedDeal,
			grabbed:  deal.ID == opts.grabbedID,
		}))
	}
	if bucket.Count == 0 {
		parts = append(parts, cardMetaStyle.Render("—"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	style := columnStyle
	switch {
	case opts.dropTarget:
		style = dropTargetColumnStyle
	case opts.selected:
		style = selectedColumnStyle
	}
	return style.Width(opts.width).Height(opts.height).Render(content)
}

type cardOptions struct {
	width    int
	selected bool
	grabbed  bool
}

// renderCard renders one deal card: name, company, value and priority.
func renderCard(deal models.Deal, opts cardOptions) string {
	name := deal.Attr("name")
	if name == "" {
		name = deal.ID
	}
	title := wordwrap.String(name, opts.width-2)

	meta := deal.Attr("company")
	if v := deal.AttrNumber("value"); v != 0 {
		if meta != "" {
			meta += " · "
		}
		meta += formatMoney(v)
	}

	lines := []string{title}
	if meta != "" {
		lines = append(lines, cardMetaStyle.Render(meta))
	}
	if p := deal.Attr("priority"); p != "" {
		badge := lipgloss.NewStyle().Foreground(priorityColor(p)).Render("● " + p)
		lines = append(lines, badge)
	}

	style := cardStyle
	switch {
	case opts.grabbed:
		style = grabbedCardStyle
	case opts.selected:
		style = selectedCardStyle
	}
	return style.Width(opts.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// formatMoney renders a monetary amount compactly for column headers
// and cards: $2.5M, $880K, $123.
func formatMoney(v float64) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", neg, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", neg, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.0fK", neg, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", neg, v)
	}
}
