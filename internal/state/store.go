package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/pshhmi/internal/station"
)

// ControlMode says who drives the actuators.
type ControlMode int

const (
	ModeAuto ControlMode = iota
	ModeManual
)

func (m ControlMode) String() string {
	if m == ModeManual {
		return "MANUAL"
	}
	return "AUTO"
}

// Field names one ClientState readout.
type Field int

const (
	FieldMode Field = iota
	FieldTimeOfDay
	FieldWaterLevel
	FieldGate
	FieldPump
)

func (f Field) String() string {
	switch f {
	case FieldMode:
		return "mode"
	case FieldTimeOfDay:
		return "time_of_day"
	case FieldWaterLevel:
		return "water_level"
	case FieldGate:
		return "gate"
	case FieldPump:
		return "pump"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ClientState is the locally believed station state. It is a value: callers
// get copies and the store replaces it wholesale on every mutation.
type ClientState struct {
	Mode           ControlMode
	Daytime        bool
	WaterLevelHigh bool
	GateOpen       bool
	PumpOn         bool
}

// With returns a copy of s with one field replaced.
func (s ClientState) With(f Field, value bool) ClientState {
	switch f {
	case FieldMode:
		s.Mode = ModeAuto
		if value {
			s.Mode = ModeManual
		}
	case FieldTimeOfDay:
		s.Daytime = value
	case FieldWaterLevel:
		s.WaterLevelHigh = value
	case FieldGate:
		s.GateOpen = value
	case FieldPump:
		s.PumpOn = value
	}
	return s
}

// Value reads one field as a boolean.
func (s ClientState) Value(f Field) bool {
	switch f {
	case FieldMode:
		return s.Mode == ModeManual
	case FieldTimeOfDay:
		return s.Daytime
	case FieldWaterLevel:
		return s.WaterLevelHigh
	case FieldGate:
		return s.GateOpen
	case FieldPump:
		return s.PumpOn
	default:
		return false
	}
}

// FromSnapshot converts a decoded coordinator payload into a ClientState.
func FromSnapshot(snap station.Snapshot) ClientState {
	mode := ModeAuto
	if snap.Manual() {
		mode = ModeManual
	}
	return ClientState{
		Mode:           mode,
		Daytime:        bool(snap.TimeOfDay),
		WaterLevelHigh: bool(snap.WaterLevelHigh),
		GateOpen:       bool(snap.GateOpen),
		PumpOn:         bool(snap.PumpOn),
	}
}

// Snapshot is the full view handed to renderers: the client state plus poll
// bookkeeping and the protocol capability.
type Snapshot struct {
	State               ClientState
	Protocol            Protocol // never ProtocolAuto once negotiated
	Negotiated          bool
	HasData             bool
	Applied             int // snapshots applied since creation
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the coordinator has been unreachable for
// multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// ModeAware reports whether gate and pump toggles are gated by the control
// mode. An auto protocol that has not been negotiated yet counts as
// mode-aware.
func (s Snapshot) ModeAware() bool {
	return s.Protocol != ProtocolLegacy
}

// Store owns the ClientState. The zero value is ready to use and negotiates
// the protocol from the first applied snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// NewStore returns a store pinned to the given protocol. ProtocolAuto
// negotiates on first contact.
func NewStore(protocol Protocol) *Store {
	s := &Store{}
	if protocol != ProtocolAuto {
		s.snapshot.Protocol = protocol
		s.snapshot.Negotiated = true
	}
	return s
}

// Read returns the current client state.
func (s *Store) Read() ClientState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.State
}

// ApplySnapshot replaces every field with the polled values and clears the
// failure bookkeeping.
func (s *Store) ApplySnapshot(snap station.Snapshot) {
	next := FromSnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.Negotiated {
		s.snapshot.Protocol = ProtocolLegacy
		if snap.SupportsManualControl() {
			s.snapshot.Protocol = ProtocolModeAware
		}
		s.snapshot.Negotiated = true
	}
	s.snapshot.State = next
	s.snapshot.HasData = true
	s.snapshot.Applied++
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = s.clock()
	s.snapshot.ConsecutiveFailures = 0
}

// ApplyField replaces exactly one field and leaves the rest untouched.
func (s *Store) ApplyField(f Field, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.State = s.snapshot.State.With(f, value)
}

// RecordFailure notes a dropped poll. The client state is kept as is.
func (s *Store) RecordFailure(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
