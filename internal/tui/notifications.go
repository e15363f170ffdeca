package tui

import "github.com/charmbracelet/lipgloss"

// NotificationLevel represents the severity of a notification.
type NotificationLevel int

const (
	// LevelInfo represents informational notifications
	LevelInfo NotificationLevel = iota
	// LevelWarning represents warning notifications
	LevelWarning
	// LevelError represents error notifications
	LevelError
)

// Notification is a transient, dismissible banner message. Transition
// failures land here: the card has already snapped back, the banner
// explains why.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// notify appends a notification. Newest first, capped so a flaky
// backend cannot scroll the board away.
func (m *Model) notify(level NotificationLevel, message string) {
	const maxNotifications = 5
	m.notifications = append([]Notification{{Level: level, Message: message}}, m.notifications...)
	if len(m.notifications) > maxNotifications {
		m.notifications = m.notifications[:maxNotifications]
	}
}

// dismissNotification removes the most recent notification.
func (m *Model) dismissNotification() {
	if len(m.notifications) > 0 {
		m.notifications = m.notifications[1:]
	}
}

type notificationStyle struct {
	icon       string
	foreground string
	background string
}

func (l NotificationLevel) style() notificationStyle {
	switch l {
	case LevelWarning:
		return notificationStyle{icon: "⚠", foreground: "#1C1917", background: "#FACC15"}
	case LevelError:
		return notificationStyle{icon: "✗", foreground: "#FEF2F2", background: "#B91C1C"}
	default:
		return notificationStyle{icon: "ℹ", foreground: "#EFF6FF", background: "#1D4ED8"}
	}
}

// renderNotification renders a compact single-line notification banner.
func renderNotification(n Notification, width int) string {
	s := n.Level.style()
	banner := lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.foreground)).
		Background(lipgloss.Color(s.background)).
		Padding(0, 1).
		Render(s.icon + " " + n.Message)
	if width > 0 && lipgloss.Width(banner) > width {
		banner = lipgloss.NewStyle().MaxWidth(width).Render(banner)
	}
	return banner
}
