package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pshhmi/internal/station"
)

func indicator(v bool) *station.Indicator {
	i := station.Indicator(v)
	return &i
}

func TestStore_ZeroValueIsAllDefaults(t *testing.T) {
	var s Store

	assert.Equal(t, ClientState{}, s.Read())
	snap := s.Snapshot()
	assert.False(t, snap.HasData)
	assert.False(t, snap.Negotiated)
	assert.True(t, snap.ModeAware(), "unnegotiated store must keep toggles gated")
	assert.Equal(t, ModeAuto, snap.State.Mode)
}

func TestStore_ApplySnapshotRoundTrip(t *testing.T) {
	cases := []station.Snapshot{
		{},
		{TimeOfDay: true, PumpOn: true, ManualControl: indicator(false)},
		{TimeOfDay: true, WaterLevelHigh: true, GateOpen: true, PumpOn: true, ManualControl: indicator(true)},
		{WaterLevelHigh: true, GateOpen: true},
	}
	for _, in := range cases {
		s := NewStore(ProtocolAuto)
		s.ApplyField(FieldGate, !bool(in.GateOpen))
		s.ApplySnapshot(in)

		got := s.Read()
		assert.Equal(t, bool(in.TimeOfDay), got.Daytime)
		assert.Equal(t, bool(in.WaterLevelHigh), got.WaterLevelHigh)
		assert.Equal(t, bool(in.GateOpen), got.GateOpen)
		assert.Equal(t, bool(in.PumpOn), got.PumpOn)
		assert.Equal(t, in.Manual(), got.Mode == ModeManual)
	}
}

func TestStore_ApplyFieldTouchesOneField(t *testing.T) {
	s := NewStore(ProtocolModeAware)
	s.ApplySnapshot(station.Snapshot{TimeOfDay: true, PumpOn: true, ManualControl: indicator(false)})
	before := s.Read()

	s.ApplyField(FieldPump, false)
	after := s.Read()
	assert.False(t, after.PumpOn)
	after.PumpOn = before.PumpOn
	assert.Equal(t, before, after)

	s.ApplyField(FieldMode, true)
	assert.Equal(t, ModeManual, s.Read().Mode)
	s.ApplyField(FieldMode, false)
	assert.Equal(t, ModeAuto, s.Read().Mode)
}

func TestStore_ReadReturnsCopy(t *testing.T) {
	var s Store
	got := s.Read()
	got.GateOpen = true
	assert.False(t, s.Read().GateOpen)
}

func TestStore_FailureKeepsState(t *testing.T) {
	s := NewStore(ProtocolAuto)
	s.ApplySnapshot(station.Snapshot{TimeOfDay: true, GateOpen: true, ManualControl: indicator(true)})
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.RecordFailure(origErr)

	snap := s.Snapshot()
	assert.Equal(t, prev.State, snap.State)
	assert.Equal(t, prev.LastUpdated, snap.LastUpdated)
	require.Error(t, snap.LastError)
	assert.Equal(t, "boom", snap.LastError.Error())
	assert.NotEqual(t, reflect.ValueOf(origErr).Pointer(), reflect.ValueOf(snap.LastError).Pointer(),
		"Snapshot should clone error instance")

	s.RecordFailure(nil)
	assert.Equal(t, 1, s.Snapshot().ConsecutiveFailures)
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	assert.False(t, s.Snapshot().IsOffline())

	s.RecordFailure(errors.New("fail 1"))
	assert.Equal(t, 1, s.Snapshot().ConsecutiveFailures)
	assert.False(t, s.Snapshot().IsOffline())

	s.RecordFailure(errors.New("fail 2"))
	assert.True(t, s.Snapshot().IsOffline())

	s.ApplySnapshot(station.Snapshot{})
	snap := s.Snapshot()
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())
	assert.NoError(t, snap.LastError)
}

func TestStore_LastUpdatedUsesClock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Store{now: func() time.Time { return fixed }}
	s.ApplySnapshot(station.Snapshot{})
	assert.Equal(t, fixed, s.Snapshot().LastUpdated)
	assert.Equal(t, 1, s.Snapshot().Applied)
}

func TestStore_NegotiatesProtocolOnce(t *testing.T) {
	t.Run("mode-aware", func(t *testing.T) {
		var s Store
		s.ApplySnapshot(station.Snapshot{ManualControl: indicator(false)})
		s.ApplySnapshot(station.Snapshot{})
		snap := s.Snapshot()
		assert.True(t, snap.Negotiated)
		assert.Equal(t, ProtocolModeAware, snap.Protocol)
	})
	t.Run("legacy", func(t *testing.T) {
		var s Store
		s.ApplySnapshot(station.Snapshot{PumpOn: true})
		s.ApplySnapshot(station.Snapshot{ManualControl: indicator(true)})
		snap := s.Snapshot()
		assert.Equal(t, ProtocolLegacy, snap.Protocol)
		assert.False(t, snap.ModeAware())
	})
	t.Run("pinned", func(t *testing.T) {
		s := NewStore(ProtocolLegacy)
		s.ApplySnapshot(station.Snapshot{ManualControl: indicator(true)})
		assert.Equal(t, ProtocolLegacy, s.Snapshot().Protocol)
	})
}

func TestStore_NullManualControlNegotiatesModeAware(t *testing.T) {
	body := `{"timeOfDay":1,"waterLevelHigh":0,"gateOpen":0,"pumpOn":1,"manualControl":null}`
	decoded, err := station.DecodeSnapshot([]byte(body))
	require.NoError(t, err)

	s := NewStore(ProtocolAuto)
	s.ApplySnapshot(decoded)

	snap := s.Snapshot()
	assert.Equal(t, ProtocolModeAware, snap.Protocol)
	assert.True(t, snap.ModeAware())
	assert.Equal(t, ModeAuto, snap.State.Mode)
}

func TestParseProtocol(t *testing.T) {
	cases := map[string]Protocol{
		"":       ProtocolAuto,
		" AUTO ": ProtocolAuto,
		"mode":   ProtocolModeAware,
		"manual": ProtocolModeAware,
		"legacy": ProtocolLegacy,
	}
	for in, want := range cases {
		got, err := ParseProtocol(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseProtocol("modbus")
	assert.Error(t, err)
}

func TestFieldAndModeStrings(t *testing.T) {
	assert.Equal(t, "MANUAL", ModeManual.String())
	assert.Equal(t, "AUTO", ModeAuto.String())
	assert.Equal(t, "gate", FieldGate.String())
	assert.Equal(t, "field(42)", Field(42).String())
}
