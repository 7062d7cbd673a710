package observability

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures opt-in observability toggles that wire into the server.
type Config struct {
	EnablePprof bool
	// PprofPrefix is the mount point for the profiling handlers.
	PprofPrefix string
}

const defaultPprofPrefix = "/debug/pprof/"

// Normalized fills defaults.
func (c Config) Normalized() Config {
	if c.PprofPrefix == "" {
		c.PprofPrefix = defaultPprofPrefix
	}
	return c
}

// FromEnv overlays ENABLE_PPROF on top of c. An unparsable value leaves c
// unchanged and is reported. A nil getenv reads the process environment.
func (c Config) FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	raw := getenv("ENABLE_PPROF")
	if raw == "" {
		return c.Normalized(), nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return c.Normalized(), fmt.Errorf("invalid ENABLE_PPROF=%q: %w", raw, err)
	}
	c.EnablePprof = value
	return c.Normalized(), nil
}
