package telemetry

import (
	"log"

	"github.com/mationai/spe/logging"
)

// Logger is the printf-style logger shared by the server, the tick loop and
// the hub.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts a function to Logger. A nil LoggerFunc discards output.
type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Printf(format string, args ...any) {
	if f != nil {
		f(format, args...)
	}
}

// StdLogger wraps a standard library logger. The logging router reads the
// wrapped logger back through StandardLogger to use as its fallback.
type StdLogger struct {
	logger *log.Logger
}

// WrapLogger returns a Logger writing to logger. A nil logger discards output.
func WrapLogger(logger *log.Logger) Logger {
	return &StdLogger{logger: logger}
}

func (l *StdLogger) Printf(format string, args ...any) {
	if l != nil && l.logger != nil {
		l.logger.Printf(format, args...)
	}
}

func (l *StdLogger) StandardLogger() *log.Logger {
	if l == nil {
		return nil
	}
	return l.logger
}

// Metrics receives hub and tick loop counters.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// WrapMetrics writes counters into the logging router's metrics registry.
// A nil registry yields NopMetrics.
func WrapMetrics(metrics *logging.Metrics) Metrics {
	if metrics == nil {
		return NopMetrics()
	}
	return routerMetrics{metrics: metrics}
}

type routerMetrics struct {
	metrics *logging.Metrics
}

func (m routerMetrics) Add(key string, delta uint64) {
	m.metrics.TelemetryAdd(key, delta)
}

func (m routerMetrics) Store(key string, value uint64) {
	m.metrics.TelemetryStore(key, value)
}

type nopMetrics struct{}

func (nopMetrics) Add(string, uint64)   {}
func (nopMetrics) Store(string, uint64) {}

// NopMetrics discards every counter.
func NopMetrics() Metrics {
	return nopMetrics{}
}
