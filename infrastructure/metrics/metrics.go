package metrics

import (
	"autoclicker/domain/interfaces"
	"context"
	"errors"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics exports click loop counters to Prometheus
type Metrics struct {
	registry *prom.Registry
	clicks   prom.Counter
	misses   prom.Counter
	loops    prom.Gauge
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		clicks:   prom.NewCounter(prom.CounterOpts{Namespace: "autoclicker", Name: "clicks_total", Help: "Synthetic clicks dispatched"}),
		misses:   prom.NewCounter(prom.CounterOpts{Namespace: "autoclicker", Name: "click_misses_total", Help: "Clicks skipped because no element was at the point"}),
		loops:    prom.NewGauge(prom.GaugeOpts{Namespace: "autoclicker", Name: "loops_running", Help: "Click loops with an active timer"}),
	}
	m.registry.MustRegister(m.clicks, m.misses, m.loops)
	m.registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) ClickDispatched() { m.clicks.Inc() }
func (m *Metrics) ClickMissed()     { m.misses.Inc() }
func (m *Metrics) LoopStarted()     { m.loops.Inc() }
func (m *Metrics) LoopStopped()     { m.loops.Dec() }

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string, logger *logrus.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

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

	logger.WithField("addr", addr).Info("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var _ interfaces.ClickMetrics = (*Metrics)(nil)
