package control

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pshhmi/internal/state"
	"github.com/five82/pshhmi/internal/station"
	"github.com/five82/pshhmi/internal/station/stationtest"
)

type recordingSetter struct {
	mu    sync.Mutex
	calls []bool
	err   error
	block chan struct{}
}

func (r *recordingSetter) SetManual(ctx context.Context, manual bool) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, manual)
	return r.err
}

func (r *recordingSetter) Calls() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.calls...)
}

func modeAwareStore(manual bool) *state.Store {
	s := state.NewStore(state.ProtocolAuto)
	m := station.Indicator(manual)
	s.ApplySnapshot(station.Snapshot{TimeOfDay: true, PumpOn: true, ManualControl: &m})
	return s
}

func TestGateway_NonInteractiveToggleIsNoop(t *testing.T) {
	store := modeAwareStore(false)
	setter := &recordingSetter{}
	g := NewGateway(store, setter, Options{})
	before := store.Read()

	_, ok := g.Toggle(context.Background(), TargetGate, true)
	g.Wait()

	assert.False(t, ok)
	assert.Equal(t, before, store.Read())
	assert.Empty(t, setter.Calls())
}

func TestGateway_ModeToggleIsOptimisticAndSendsCommand(t *testing.T) {
	store := modeAwareStore(false)
	setter := &recordingSetter{block: make(chan struct{})}
	g := NewGateway(store, setter, Options{})

	cmd, ok := g.Toggle(context.Background(), TargetMode, true)
	require.True(t, ok)
	assert.True(t, cmd.Remote)
	assert.NotEqual(t, uuid.Nil, cmd.ID)

	// The request is still blocked; the local state has already flipped.
	assert.Equal(t, state.ModeManual, store.Read().Mode)

	close(setter.block)
	g.Wait()
	assert.Equal(t, []bool{true}, setter.Calls())
}

func TestGateway_ModeToggleNotRolledBackOnFailure(t *testing.T) {
	store := modeAwareStore(false)
	setter := &recordingSetter{err: errors.New("connection refused")}

	var mu sync.Mutex
	var observed []error
	g := NewGateway(store, setter, Options{
		Observer: ObserverFunc(func(cmd Command, err error) {
			mu.Lock()
			defer mu.Unlock()
			observed = append(observed, err)
		}),
	})

	_, ok := g.Toggle(context.Background(), TargetMode, true)
	require.True(t, ok)
	g.Wait()

	assert.Equal(t, state.ModeManual, store.Read().Mode)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, observed, 1)
	assert.EqualError(t, observed[0], "connection refused")
}

func TestGateway_GateAndPumpAreLocalOnly(t *testing.T) {
	store := modeAwareStore(true)
	setter := &recordingSetter{}
	g := NewGateway(store, setter, Options{})

	cmd, ok := g.Toggle(context.Background(), TargetPump, false)
	require.True(t, ok)
	assert.False(t, cmd.Remote)
	_, ok = g.Toggle(context.Background(), TargetGate, true)
	require.True(t, ok)
	g.Wait()

	got := store.Read()
	assert.False(t, got.PumpOn)
	assert.True(t, got.GateOpen)
	assert.Empty(t, setter.Calls())
}

func TestGateway_LegacyTogglesAlwaysInteractive(t *testing.T) {
	store := state.NewStore(state.ProtocolAuto)
	store.ApplySnapshot(station.Snapshot{PumpOn: true})
	setter := &recordingSetter{}
	g := NewGateway(store, setter, Options{})

	_, ok := g.Toggle(context.Background(), TargetGate, true)
	require.True(t, ok)
	_, ok = g.Toggle(context.Background(), TargetPump, false)
	require.True(t, ok)

	got := store.Read()
	assert.True(t, got.GateOpen)
	assert.False(t, got.PumpOn)
	assert.Empty(t, setter.Calls())
}

func TestGateway_SendsOverHTTP(t *testing.T) {
	server := stationtest.NewServer(`{}`)
	t.Cleanup(server.Close)
	client, err := station.NewClient(server.URL)
	require.NoError(t, err)

	g := NewGateway(modeAwareStore(false), client, Options{})
	g.Toggle(context.Background(), TargetMode, true)
	g.Toggle(context.Background(), TargetMode, false)
	g.Wait()

	assert.ElementsMatch(t, []string{"1", "0"}, server.ManualCalls())
}
