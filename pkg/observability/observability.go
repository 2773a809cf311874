package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/roster-bot/pkg/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects how logs, traces and metrics are produced.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string // json|text
	// MetricsNamespace prefixes every Prometheus series.
	MetricsNamespace string
}

// Provider owns the process-wide logger and tracer provider.
type Provider struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
}

// Registry holds the instruments handed to modules.
type Registry struct {
	Tracer       trace.Tracer
	Prometheus   *prometheus.Registry
	TeamMetrics  metrics.TeamMetrics
	GuildMetrics metrics.OperationMetrics
}

// Observability bundles everything a module needs to report on itself.
type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Init builds the logger, tracer and Prometheus registry for the service.
// Tracing uses the global otel provider, which is a no-op unless an
// exporter has been installed.
func Init(cfg Config) (*Observability, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "roster-bot"
	}
	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = "roster"
	}

	logger := NewLogger(os.Stdout, cfg).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("version", cfg.Version),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	teamMetrics, err := metrics.NewTeamMetrics(reg, cfg.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to register team metrics: %w", err)
	}
	guildMetrics, err := metrics.NewOperationMetrics(reg, cfg.MetricsNamespace, "guild")
	if err != nil {
		return nil, fmt.Errorf("failed to register guild metrics: %w", err)
	}

	tp := otel.GetTracerProvider()

	return &Observability{
		Provider: &Provider{
			Logger:         logger,
			TracerProvider: tp,
		},
		Registry: &Registry{
			Tracer:       tp.Tracer(cfg.ServiceName),
			Prometheus:   reg,
			TeamMetrics:  teamMetrics,
			GuildMetrics: guildMetrics,
		},
	}, nil
}

// NewNoop returns an Observability that discards logs, spans and metrics.
func NewNoop() *Observability {
	tp := noop.NewTracerProvider()
	return &Observability{
		Provider: &Provider{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			TracerProvider: tp,
		},
		Registry: &Registry{
			Tracer:       tp.Tracer("noop"),
			Prometheus:   prometheus.NewRegistry(),
			TeamMetrics:  metrics.NewNoop(),
			GuildMetrics: metrics.NewNoop(),
		},
	}
}

// NewLogger builds a slog logger writing to w.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
