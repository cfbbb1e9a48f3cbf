package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pshhmi/internal/state"
)

// renderHeader renders the status bar: station, link health, protocol and
// data age.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{
		bg.Render("PSH HMI", styles.Logo),
		bg.Render(m.endpoint, styles.MutedText),
		bg.Render(m.linkStatus(), m.linkStyle()),
		bg.Render(protocolLabel(snap), styles.FaintText),
	}

	if snap.HasData {
		updated := snap.LastUpdated.Format("15:04:05")
		age := humanizeDuration(m.now().Sub(snap.LastUpdated))
		parts = append(parts,
			bg.Render("updated", styles.FaintText)+bg.Render(" "+updated, styles.Text),
			bg.Render("("+age+")", styles.MutedText),
		)
	}
	if snap.LastError != nil {
		parts = append(parts, bg.Render(truncate(snap.LastError.Error(), 60), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, 2))
}

// linkStatus summarises poll health.
func (m Model) linkStatus() string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return "OFFLINE"
	case !snap.HasData && snap.LastError == nil:
		return "Connecting..."
	case snap.LastError != nil:
		return "Retrying..."
	default:
		return "LIVE"
	}
}

func (m Model) linkStyle() lipgloss.Style {
	styles := m.theme.Styles()
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return styles.DangerText
	case snap.LastError != nil || !snap.HasData:
		return styles.WarningText
	default:
		return styles.SuccessText
	}
}

func protocolLabel(snap state.Snapshot) string {
	switch {
	case !snap.Negotiated:
		return "negotiating"
	case snap.Protocol == state.ProtocolLegacy:
		return "legacy"
	default:
		return "mode-aware"
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if limit <= 3 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit-3]) + "..."
}
