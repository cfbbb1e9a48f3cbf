package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pshhmi/internal/control"
	"github.com/five82/pshhmi/internal/state"
)

const readoutWidth = 18

// readout is one panel lamp: a title, the current value label and the lamp
// color. Toggleable readouts carry the target and key that flip them.
type readout struct {
	title  string
	label  string
	color  string
	target control.Target
	key    string // empty for read-only sensors
}

// flow is what the two pipes between the reservoirs are doing. The gate
// pipe drains and the pump pipe lifts independently of each other.
type flow struct {
	draining bool
	lifting  bool
}

func (f flow) String() string {
	var parts []string
	if f.draining {
		parts = append(parts, "▼ draining to lower reservoir")
	}
	if f.lifting {
		parts = append(parts, "▲ lifting to upper reservoir")
	}
	if len(parts) == 0 {
		return "■ idle"
	}
	return strings.Join(parts, ", ")
}

func flowOf(s state.ClientState) flow {
	return flow{draining: s.GateOpen, lifting: s.PumpOn}
}

// readouts projects the snapshot into panel lamps. The CONTROL lamp only
// exists when the coordinator knows about manual override.
func (m Model) readouts() []readout {
	st := m.snapshot.State
	t := m.theme
	manual := st.Mode == state.ModeManual

	var out []readout
	if m.snapshot.ModeAware() {
		out = append(out, readout{
			title:  "CONTROL",
			label:  ternary(manual, "MANUAL", "AUTO"),
			color:  ternary(manual, t.Warning, t.Info),
			target: control.TargetMode,
			key:    m.keys.ToggleMode.Help().Key,
		})
	}
	out = append(out,
		readout{
			title: "TIME OF DAY",
			label: ternary(st.Daytime, "DAY", "NIGHT"),
			color: ternary(st.Daytime, t.Text, t.Muted),
		},
		readout{
			title: "WATER LEVEL",
			label: ternary(st.WaterLevelHigh, "HIGH", "LOW"),
			color: ternary(st.WaterLevelHigh, t.Danger, t.Success),
		},
		readout{
			title:  "GATE",
			label:  ternary(st.GateOpen, "OPEN", "CLOSED"),
			color:  ternary(st.GateOpen, t.Success, t.Danger),
			target: control.TargetGate,
			key:    m.keys.ToggleGate.Help().Key,
		},
		readout{
			title:  "PUMP",
			label:  ternary(st.PumpOn, "ON", "OFF"),
			color:  ternary(st.PumpOn, t.Success, t.Danger),
			target: control.TargetPump,
			key:    m.keys.TogglePump.Help().Key,
		},
	)

	if !m.snapshot.HasData {
		for i := range out {
			out[i].label = "--"
			out[i].color = t.Faint
		}
	}
	return out
}

// renderReadouts lays the lamps out in a row.
func (m Model) renderReadouts() string {
	lamps := m.readouts()
	boxes := make([]string, 0, len(lamps))
	for _, r := range lamps {
		boxes = append(boxes, m.renderReadout(r))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) renderReadout(r readout) string {
	styles := m.theme.Styles()
	box := styles.Readout

	hint := ""
	if r.key != "" {
		// Re-evaluated on every render so the lock follows the mode.
		if control.Interactive(m.snapshot, r.target) {
			hint = styles.AccentText.Render("[" + r.key + "] toggle")
			box = box.BorderForeground(lipgloss.Color(m.theme.Focus))
		} else {
			hint = styles.FaintText.Render("locked")
		}
	}

	lines := []string{
		styles.MutedText.Bold(true).Render(r.title),
		styles.Badge(r.label, r.color),
		hint,
	}
	return box.Render(strings.Join(lines, "\n"))
}

// renderPipe renders one line per pipe: gate (down) and pump (up).
func (m Model) renderPipe() string {
	styles := m.theme.Styles()
	f := flowOf(m.snapshot.State)

	gate := styles.FaintText.Render("■ idle")
	if f.draining {
		gate = styles.AccentText.Render("▼ draining to lower reservoir")
	}
	pump := styles.FaintText.Render("■ idle")
	if f.lifting {
		pump = styles.SuccessText.Render("▲ lifting to upper reservoir")
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		styles.MutedText.Render("GATE PIPE  ") + gate + "\n" +
			styles.MutedText.Render("PUMP PIPE  ") + pump,
	)
}
