package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pshhmi/internal/logtail"
)

const eventLines = 8

// renderEvents renders the tail of the HMI log: dropped polls, toggles and
// coordinator commands.
func (m Model) renderEvents() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.MutedText.Bold(true).Render("EVENTS"))
	b.WriteString("\n")

	switch {
	case m.eventsErr != nil:
		b.WriteString(styles.DangerText.Render(m.eventsErr.Error()))
	case len(m.events) == 0:
		b.WriteString(styles.FaintText.Render("no events yet"))
	default:
		lines := make([]string, 0, len(m.events))
		for _, e := range m.events {
			lines = append(lines, m.renderEvent(e))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) renderEvent(e logtail.Entry) string {
	styles := m.theme.Styles()

	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	if e.Level != "" {
		parts = append(parts, m.levelStyle(e.Level).Render(levelTag(e.Level)))
	}
	parts = append(parts, styles.Text.Render(e.Message))
	if fields := e.FieldString(); fields != "" {
		parts = append(parts, styles.MutedText.Render(truncate(fields, 80)))
	}
	return strings.Join(parts, " ")
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.SuccessText
	}
}

func levelTag(level string) string {
	switch level {
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	default:
		return strings.ToUpper(level)
	}
}
