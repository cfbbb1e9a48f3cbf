package control

import (
	"fmt"

	"github.com/five82/pshhmi/internal/state"
)

// Target is an operator-toggleable element.
type Target int

const (
	TargetMode Target = iota
	TargetGate
	TargetPump
)

func (t Target) String() string {
	switch t {
	case TargetMode:
		return "mode"
	case TargetGate:
		return "gate"
	case TargetPump:
		return "pump"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// Field returns the ClientState field a target writes.
func (t Target) Field() state.Field {
	switch t {
	case TargetGate:
		return state.FieldGate
	case TargetPump:
		return state.FieldPump
	default:
		return state.FieldMode
	}
}

// Interactive reports whether a toggle of target is currently permitted.
// The mode toggle always is. Gate and pump are permitted in manual mode, or
// always when the coordinator has no mode concept.
func Interactive(snap state.Snapshot, target Target) bool {
	switch target {
	case TargetMode:
		return true
	case TargetGate, TargetPump:
		if !snap.ModeAware() {
			return true
		}
		return snap.State.Mode == state.ModeManual
	default:
		return false
	}
}
