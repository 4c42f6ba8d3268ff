package metrics

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/liftedinit/gopay/internal/metrics/collectors"
)

const DefaultAddr = "0.0.0.0:2112"

// CreateMetricsServer registers the collectors available for sources, plus any extra ones,
// and serves them on addr under /metrics.
func CreateMetricsServer(addr string, sources collectors.Sources, extra ...prometheus.Collector) (*http.Server, error) {
	registered, err := collectors.DefaultRegistry.CreateCollectors(sources)
	if err != nil {
		return nil, fmt.Errorf("failed to create collectors: %w", err)
	}

	registry := prometheus.NewRegistry()
	for _, c := range append(registered, extra...) {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting Prometheus metrics server", "addr", server.Addr)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start metrics server", "error", err)
		}
	}()

	return server, nil
}
