package app

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mationai/spe/internal/telemetry"
	"github.com/mationai/spe/logging"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings := LoadSettings(envMap(nil), telemetry.LoggerFunc(nil))
	if settings.ListenAddr != defaultListenAddr {
		t.Fatalf("expected default listen addr, got %q", settings.ListenAddr)
	}
	if settings.TickRate != 0 || settings.SceneFile != "" || settings.LogJSONPath != "" {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if settings.MinSeverity != logging.SeverityInfo {
		t.Fatalf("expected info severity, got %v", settings.MinSeverity)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	settings := LoadSettings(envMap(map[string]string{
		"LISTEN_ADDR":      "127.0.0.1:9000",
		"SCENE_FILE":       "scenes/arena.yaml",
		"TICK_RATE":        "120",
		"LOG_JSON_PATH":    "/tmp/events.ndjson",
		"LOG_MIN_SEVERITY": "debug",
	}), telemetry.LoggerFunc(nil))

	if settings.ListenAddr != "127.0.0.1:9000" || settings.SceneFile != "scenes/arena.yaml" {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if settings.TickRate != 120 || settings.LogJSONPath != "/tmp/events.ndjson" {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if settings.MinSeverity != logging.SeverityDebug {
		t.Fatalf("expected debug severity, got %v", settings.MinSeverity)
	}
}

func TestLoadSettingsReportsInvalidValues(t *testing.T) {
	var messages []string
	logger := telemetry.LoggerFunc(func(format string, args ...any) {
		messages = append(messages, fmt.Sprintf(format, args...))
	})
	settings := LoadSettings(envMap(map[string]string{
		"TICK_RATE":        "-5",
		"LOG_MIN_SEVERITY": "chatty",
	}), logger)

	if settings.TickRate != 0 || settings.MinSeverity != logging.SeverityInfo {
		t.Fatalf("expected defaults after invalid values, got %+v", settings)
	}
	if len(messages) != 2 || !strings.Contains(messages[0], "TICK_RATE") || !strings.Contains(messages[1], "LOG_MIN_SEVERITY") {
		t.Fatalf("unexpected log output %v", messages)
	}
}
