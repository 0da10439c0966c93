// Package metrics exposes the loop counters in the Prometheus text format.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	ReasonMalformed = "malformed"
	ReasonDuplicate = "duplicate"

	shutdownTimeout = 2 * time.Second
)

var (
	TelemetryPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thermo_telemetry_published_total", Help: "Telemetry records handed to the broker.",
	})
	CommandsPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thermo_commands_published_total", Help: "Commands handed to the broker.",
	})
	PublishTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thermo_publish_timeouts_total", Help: "Confirmed publishes not acknowledged in time.",
	})
	HandlerFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thermo_handler_failures_total", Help: "Inbound messages whose handler returned an error or panicked, malformed payloads excluded.",
	})
	SensorFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thermo_sensor_failures_total", Help: "Sample cycles skipped because the sensor failed.",
	})
	MessagesDiscarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "thermo_messages_discarded_total", Help: "Inbound messages dropped without effect, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(TelemetryPublished, CommandsPublished, PublishTimeouts, HandlerFailures, SensorFailures, MessagesDiscarded)
}

// Serve exposes /metrics on address until ctx is cancelled. An empty address disables the listener.
func Serve(ctx context.Context, address string, log *logrus.Entry) error {
	if address == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics server shutdown: %v", err)
		}
	}()

	log.Infof("metrics listening on %s", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "metrics server")
	}
	return nil
}
