package state

import (
	"fmt"
	"strings"
)

// Protocol identifies which coordinator variant the client is talking to.
type Protocol int

const (
	// ProtocolAuto negotiates from the first applied snapshot: a payload
	// carrying manualControl selects ProtocolModeAware, otherwise
	// ProtocolLegacy.
	ProtocolAuto Protocol = iota
	// ProtocolModeAware coordinators support manual override; gate and pump
	// toggles are only interactive in manual mode.
	ProtocolModeAware
	// ProtocolLegacy coordinators have no mode concept; every toggle is
	// interactive and purely local.
	ProtocolLegacy
)

func (p Protocol) String() string {
	switch p {
	case ProtocolModeAware:
		return "mode"
	case ProtocolLegacy:
		return "legacy"
	default:
		return "auto"
	}
}

// ParseProtocol maps a config value onto a Protocol. Blank means auto.
func ParseProtocol(value string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return ProtocolAuto, nil
	case "mode", "manual", "mode-aware":
		return ProtocolModeAware, nil
	case "legacy":
		return ProtocolLegacy, nil
	default:
		return ProtocolAuto, fmt.Errorf("unknown protocol %q (want auto, mode or legacy)", value)
	}
}
