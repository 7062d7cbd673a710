package observability

import "testing"

func TestFromEnv(t *testing.T) {
	env := func(value string) func(string) string {
		return func(key string) string {
			if key == "ENABLE_PPROF" {
				return value
			}
			return ""
		}
	}

	cfg, err := Config{}.FromEnv(env("true"))
	if err != nil || !cfg.EnablePprof {
		t.Fatalf("expected pprof enabled, got %+v %v", cfg, err)
	}
	if cfg.PprofPrefix != defaultPprofPrefix {
		t.Fatalf("expected default prefix, got %q", cfg.PprofPrefix)
	}

	cfg, err = Config{EnablePprof: true}.FromEnv(env("nope"))
	if err == nil {
		t.Fatalf("expected invalid value to be reported")
	}
	if !cfg.EnablePprof {
		t.Fatalf("expected invalid value to leave config unchanged")
	}

	cfg, err = Config{}.FromEnv(env(""))
	if err != nil || cfg.EnablePprof {
		t.Fatalf("expected unset value to keep pprof disabled, got %+v %v", cfg, err)
	}
}
