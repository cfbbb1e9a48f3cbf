package control

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/five82/pshhmi/internal/metrics"
	"github.com/five82/pshhmi/internal/state"
	"github.com/five82/pshhmi/internal/station"
)

const commandTimeout = 5 * time.Second

// Command is one accepted operator gesture.
type Command struct {
	ID       uuid.UUID
	Target   Target
	Value    bool
	IssuedAt time.Time
	Remote   bool // a request was sent to the coordinator
}

// CommandObserver is notified after every remote command attempt. err is the
// transport result; the coordinator gives no acknowledgement beyond it. A
// pending/confirmed layer can hang off this hook.
type CommandObserver interface {
	CommandSent(cmd Command, err error)
}

// ObserverFunc adapts a function to CommandObserver.
type ObserverFunc func(cmd Command, err error)

// CommandSent implements CommandObserver.
func (f ObserverFunc) CommandSent(cmd Command, err error) { f(cmd, err) }

// Options configure a Gateway.
type Options struct {
	Metrics  *metrics.Metrics
	Observer CommandObserver
}

// Gateway turns operator toggles into optimistic store writes and, for the
// control mode, a best-effort coordinator command.
type Gateway struct {
	store    *state.Store
	setter   station.ManualSetter
	metrics  *metrics.Metrics
	observer CommandObserver
	inflight sync.WaitGroup
}

// NewGateway builds a Gateway writing to store and sending mode commands
// through setter.
func NewGateway(store *state.Store, setter station.ManualSetter, opts Options) *Gateway {
	return &Gateway{
		store:    store,
		setter:   setter,
		metrics:  opts.Metrics,
		observer: opts.Observer,
	}
}

// Toggle applies an operator gesture. It returns false, and does nothing
// else, when target is not interactive. It never blocks on the network.
func (g *Gateway) Toggle(ctx context.Context, target Target, value bool) (Command, bool) {
	if !Interactive(g.store.Snapshot(), target) {
		g.metrics.Toggle(target.String(), false)
		log.Debug().Stringer("target", target).Bool("value", value).Msg("toggle ignored: not interactive")
		return Command{}, false
	}

	cmd := Command{
		ID:       uuid.New(),
		Target:   target,
		Value:    value,
		IssuedAt: time.Now(),
		Remote:   target == TargetMode,
	}
	g.store.ApplyField(target.Field(), value)
	g.metrics.Toggle(target.String(), true)
	log.Info().
		Str("command", cmd.ID.String()).
		Stringer("target", target).
		Bool("value", value).
		Bool("remote", cmd.Remote).
		Msg("toggle applied")

	if cmd.Remote {
		g.send(ctx, cmd)
	}
	return cmd, true
}

// Wait blocks until every in-flight command has finished.
func (g *Gateway) Wait() {
	g.inflight.Wait()
}

func (g *Gateway) send(ctx context.Context, cmd Command) {
	if g.setter == nil {
		return
	}
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()

		sendCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		err := g.setter.SetManual(sendCtx, cmd.Value)
		g.metrics.Command(cmd.Target.String(), err)
		if err != nil {
			log.Warn().Err(err).Str("command", cmd.ID.String()).Bool("manual", cmd.Value).Msg("manual command failed")
		} else {
			log.Debug().Str("command", cmd.ID.String()).Bool("manual", cmd.Value).Msg("manual command sent")
		}
		if g.observer != nil {
			g.observer.CommandSent(cmd, err)
		}
	}()
}
