package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/five82/pshhmi/internal/config"
	"github.com/five82/pshhmi/internal/control"
	"github.com/five82/pshhmi/internal/logging"
	"github.com/five82/pshhmi/internal/metrics"
	"github.com/five82/pshhmi/internal/prefs"
	"github.com/five82/pshhmi/internal/state"
	"github.com/five82/pshhmi/internal/station"
	"github.com/five82/pshhmi/internal/ui"
)

const (
	uiRefresh     = time.Second
	watchRefresh  = 250 * time.Millisecond
	manualTimeout = 5 * time.Second
)

// Options configure the HMI. Non-zero fields override the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pshhmi/prefs.toml
	PollEvery  int    // seconds; zero uses config
	APIBind    string
	Protocol   string
}

// core is the wired runtime shared by every entry point.
type core struct {
	cfg      config.Config
	client   *station.Client
	store    *state.Store
	poller   *Poller
	gateway  *control.Gateway
	registry *prometheus.Registry
	cancel   context.CancelFunc
}

// LoadConfig reads the config file and applies the overrides in opts.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery < 0 {
		return config.Config{}, fmt.Errorf("poll interval must be positive, got %d", opts.PollEvery)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if opts.APIBind != "" {
		cfg.APIBind = opts.APIBind
	}
	if opts.Protocol != "" {
		protocol, err := state.ParseProtocol(opts.Protocol)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Protocol = protocol
	}
	return cfg, nil
}

func newCore(cfg config.Config) (*core, error) {
	client, err := station.NewClient(cfg.APIBind)
	if err != nil {
		return nil, fmt.Errorf("init station client: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	store := state.NewStore(cfg.Protocol)

	return &core{
		cfg:    cfg,
		client: client,
		store:  store,
		poller: NewPoller(store, client, PollerOptions{
			Interval:     cfg.PollInterval,
			Metrics:      m,
			DiscardStale: cfg.DiscardStalePolls,
		}),
		gateway:  control.NewGateway(store, client, control.Options{Metrics: m}),
		registry: registry,
	}, nil
}

// start launches the poller and, when configured, the metrics listener. The
// returned context is cancelled by stop; toggles must be issued under it so
// stop can abort their requests.
func (r *core) start(ctx context.Context) context.Context {
	ctx, r.cancel = context.WithCancel(ctx)
	if addr := r.cfg.MetricsAddr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, r.registry); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("metrics listener failed")
			}
		}()
	}
	r.poller.Start(ctx)
	log.Info().
		Str("api", r.client.BaseURL()).
		Dur("interval", r.poller.Interval()).
		Stringer("protocol", r.cfg.Protocol).
		Msg("polling coordinator")
	return ctx
}

// stop cancels polls and in-flight commands, then waits for them to return.
func (r *core) stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.poller.Stop()
	r.gateway.Wait()
}

// Run boots the HMI until the operator quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCloser, err := logging.InitFile(level, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	rt, err := newCore(cfg)
	if err != nil {
		return err
	}

	ctx = rt.start(ctx)
	defer rt.stop()

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     rt.store,
		Gateway:   rt.gateway,
		Endpoint:  rt.client.BaseURL(),
		LogPath:   cfg.LogFile,
		PollTick:  uiRefresh,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Watch polls without a terminal UI and logs every change of the station
// state to w until ctx is cancelled.
func Watch(ctx context.Context, opts Options, w io.Writer) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.InitConsole(level, w)

	rt, err := newCore(cfg)
	if err != nil {
		return err
	}
	ctx = rt.start(ctx)
	defer rt.stop()

	watch(ctx, rt.store, log.Logger, watchRefresh)
	return nil
}

// watch logs state transitions seen in store until ctx is done.
func watch(ctx context.Context, store *state.Store, logger zerolog.Logger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var (
		last    state.ClientState
		seen    bool
		offline bool
	)
	for {
		snap := store.Snapshot()
		if snap.HasData && (!seen || snap.State != last) {
			logState(logger, snap)
			last, seen = snap.State, true
		}
		if snap.IsOffline() != offline {
			offline = snap.IsOffline()
			if offline {
				logger.Warn().Err(snap.LastError).Int("failures", snap.ConsecutiveFailures).Msg("coordinator offline")
			} else {
				logger.Info().Msg("coordinator back online")
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func logState(logger zerolog.Logger, snap state.Snapshot) {
	st := snap.State
	event := logger.Info().
		Bool("day", st.Daytime).
		Bool("water_high", st.WaterLevelHigh).
		Bool("gate_open", st.GateOpen).
		Bool("pump_on", st.PumpOn)
	if snap.ModeAware() {
		event = event.Stringer("mode", st.Mode)
	}
	event.Msg("station state")
}

// SetManual sends one mode command to the coordinator and waits for the
// result.
func SetManual(ctx context.Context, opts Options, manual bool) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	client, err := station.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init station client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, manualTimeout)
	defer cancel()
	if err := client.SetManual(ctx, manual); err != nil {
		return fmt.Errorf("set manual=%t: %w", manual, err)
	}
	return nil
}
