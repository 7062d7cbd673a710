package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mationai/spe/internal/hub"
	servernet "github.com/mationai/spe/internal/net"
	"github.com/mationai/spe/internal/observability"
	"github.com/mationai/spe/internal/scene"
	"github.com/mationai/spe/internal/telemetry"
	"github.com/mationai/spe/logging"
	loggingSinks "github.com/mationai/spe/logging/sinks"
)

const (
	defaultListenAddr = ":8080"
	shutdownTimeout   = 5 * time.Second
)

type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Settings is the environment-derived runtime configuration.
type Settings struct {
	ListenAddr  string
	SceneFile   string
	TickRate    int
	LogJSONPath string
	MinSeverity logging.Severity
}

// LoadSettings reads the environment. Invalid values are reported through
// logger and replaced by defaults.
func LoadSettings(getenv func(string) string, logger telemetry.Logger) Settings {
	if getenv == nil {
		getenv = os.Getenv
	}
	settings := Settings{
		ListenAddr:  defaultListenAddr,
		MinSeverity: logging.DefaultConfig().MinimumSeverity,
	}
	if raw := strings.TrimSpace(getenv("LISTEN_ADDR")); raw != "" {
		settings.ListenAddr = raw
	}
	settings.SceneFile = strings.TrimSpace(getenv("SCENE_FILE"))
	settings.LogJSONPath = strings.TrimSpace(getenv("LOG_JSON_PATH"))
	if raw := getenv("TICK_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			settings.TickRate = value
		} else {
			logger.Printf("invalid TICK_RATE=%q: must be a positive integer", raw)
		}
	}
	if raw := getenv("LOG_MIN_SEVERITY"); raw != "" {
		if value, err := logging.ParseSeverity(raw); err == nil {
			settings.MinSeverity = value
		} else {
			logger.Printf("invalid LOG_MIN_SEVERITY=%q: %v", raw, err)
		}
	}
	return settings
}

func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	getenv := cfg.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	settings := LoadSettings(getenv, telemetryLogger)

	observabilityCfg, err := cfg.Observability.FromEnv(getenv)
	if err != nil {
		telemetryLogger.Printf("%v", err)
	}

	logConfig := logging.DefaultConfig()
	logConfig.MinimumSeverity = settings.MinSeverity
	sinks := []logging.NamedSink{
		{Name: logging.SinkConsole, Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)},
	}
	if settings.LogJSONPath != "" {
		file, err := os.OpenFile(settings.LogJSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log %s: %w", settings.LogJSONPath, err)
		}
		defer file.Close()
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, logging.SinkJSON)
		logConfig.JSON.FilePath = settings.LogJSONPath
		sinks = append(sinks, logging.NamedSink{Name: logging.SinkJSON, Sink: loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logConfig, fallbackLogger, sinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	sceneFile := scene.Default()
	if settings.SceneFile != "" {
		loaded, err := scene.Load(settings.SceneFile)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		sceneFile = loaded
	}

	metrics := telemetry.WrapMetrics(router.Metrics())
	hubCfg := hub.DefaultConfig()
	hubCfg.TickRate = settings.TickRate
	hubCfg.Logger = telemetryLogger
	hubCfg.Metrics = metrics

	h, err := hub.New(hubCfg, router, sceneFile)
	if err != nil {
		return fmt.Errorf("failed to construct hub: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	simDone := make(chan error, 1)
	go func() { simDone <- h.Run(runCtx) }()

	handler := servernet.NewHTTPHandler(h, servernet.HTTPHandlerConfig{
		Logger:        telemetryLogger,
		Metrics:       router.Metrics(),
		Observability: observabilityCfg,
	})

	srv := &http.Server{Addr: settings.ListenAddr, Handler: handler}
	serveErr := make(chan error, 1)
	go func() {
		telemetryLogger.Printf("server listening on %s (scene %q)", srv.Addr, sceneFile.Name)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		cancel()
		<-simDone
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetryLogger.Printf("server shutdown: %v", err)
	}
	cancel()
	<-simDone
	return nil
}
