// Package metrics exposes Prometheus counters for polling and operator
// commands.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "pshhmi"

// Poll results.
const (
	PollApplied = "applied"
	PollDropped = "dropped"
	PollStale   = "stale"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	polls       *prometheus.CounterVec
	toggles     *prometheus.CounterVec
	commands    *prometheus.CounterVec
	lastApplied prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Snapshot polls by result (applied, dropped, stale).",
		}, []string{"result"}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toggles_total",
			Help:      "Operator toggles by target and whether they were accepted.",
		}, []string{"target", "accepted"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands sent to the coordinator by target and outcome.",
		}, []string{"target", "outcome"}),
		lastApplied: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_applied_timestamp_seconds",
			Help:      "Unix time of the last applied snapshot.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.polls, m.toggles, m.commands, m.lastApplied)
	}
	return m
}

// Poll counts one poll completion.
func (m *Metrics) Poll(result string) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(result).Inc()
	if result == PollApplied {
		m.lastApplied.Set(float64(time.Now().Unix()))
	}
}

// Toggle counts one operator gesture.
func (m *Metrics) Toggle(target string, accepted bool) {
	if m == nil {
		return
	}
	label := "false"
	if accepted {
		label = "true"
	}
	m.toggles.WithLabelValues(target, label).Inc()
}

// Command counts one coordinator command and its outcome.
func (m *Metrics) Command(target string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.commands.WithLabelValues(target, outcome).Inc()
}

// Serve exposes gatherer on addr under /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics listener started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
