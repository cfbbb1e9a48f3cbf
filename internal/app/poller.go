package app

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/five82/pshhmi/internal/metrics"
	"github.com/five82/pshhmi/internal/state"
	"github.com/five82/pshhmi/internal/station"
)

const defaultPollInterval = 5 * time.Second

// PollerOptions configure a Poller.
type PollerOptions struct {
	Interval time.Duration
	Clock    clockwork.Clock
	Metrics  *metrics.Metrics
	// DiscardStale drops a completion issued before the most recently applied
	// one. When false the last completion wins, whatever its age.
	DiscardStale bool
}

// Poller refreshes the store from the coordinator at a fixed cadence. Polls
// may overlap; each runs on its own goroutine.
type Poller struct {
	store        *state.Store
	fetcher      station.SnapshotFetcher
	interval     time.Duration
	clock        clockwork.Clock
	metrics      *metrics.Metrics
	discardStale bool

	mu          sync.Mutex
	cancel      context.CancelFunc
	started     bool
	stopped     bool
	issued      uint64
	lastApplied uint64
	wg          sync.WaitGroup
}

// NewPoller builds a Poller. It does nothing until Start.
func NewPoller(store *state.Store, fetcher station.SnapshotFetcher, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{
		store:        store,
		fetcher:      fetcher,
		interval:     interval,
		clock:        clock,
		metrics:      opts.Metrics,
		discardStale: opts.DiscardStale,
	}
}

// Start issues the first poll immediately and then one per interval until
// ctx is cancelled or Stop is called. It returns immediately. A Poller
// starts at most once.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	ticker := p.clock.NewTicker(p.interval)
	p.wg.Add(1)
	p.mu.Unlock()

	p.poll(ctx)

	go func() {
		defer p.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				p.poll(ctx)
			}
		}
	}()
}

// Stop cancels the interval and every in-flight poll. Once it returns the
// store is never written by this Poller again.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Interval returns the polling cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.issued++
	seq := p.issued
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		snap, err := p.fetcher.FetchSnapshot(ctx)
		p.complete(seq, snap, err)
	}()
}

func (p *Poller) complete(seq uint64, snap station.Snapshot, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	if p.discardStale && seq < p.lastApplied {
		p.metrics.Poll(metrics.PollStale)
		log.Debug().Uint64("seq", seq).Uint64("applied", p.lastApplied).Msg("stale poll discarded")
		return
	}
	if err != nil {
		p.store.RecordFailure(err)
		p.metrics.Poll(metrics.PollDropped)
		log.Warn().Err(err).Uint64("seq", seq).Msg("snapshot poll dropped")
		return
	}
	p.lastApplied = seq
	p.store.ApplySnapshot(snap)
	p.metrics.Poll(metrics.PollApplied)
}
