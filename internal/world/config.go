package world

import "strings"

const (
	DefaultSeed     = "spe"
	DefaultTickRate = 60
	MaxTickRate     = 1000
)

// Config captures the world-wide forces and pacing. A nil Damping means no
// damping; damping components are clamped to [0, 1].
type Config struct {
	Seed          string `json:"seed,omitempty" yaml:"seed,omitempty"`
	TickRate      int    `json:"tickRate,omitempty" yaml:"tickRate,omitempty" jsonschema:"minimum=0,maximum=1000"`
	Force         Vec2   `json:"force" yaml:"force"`
	MasslessForce Vec2   `json:"masslessForce" yaml:"masslessForce"`
	Damping       *Vec2  `json:"damping,omitempty" yaml:"damping,omitempty"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.TickRate <= 0 {
		normalized.TickRate = DefaultTickRate
	}
	if normalized.TickRate > MaxTickRate {
		normalized.TickRate = MaxTickRate
	}
	damping := Vec2{X: 1, Y: 1}
	if cfg.Damping != nil {
		damping = Vec2{X: Clamp(cfg.Damping.X, 0, 1), Y: Clamp(cfg.Damping.Y, 0, 1)}
	}
	normalized.Damping = &damping
	return normalized
}

// Normalized returns a copy with defaults applied.
func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

// Environment returns the integration forces described by the config.
func (cfg Config) Environment() Environment {
	normalized := cfg.normalized()
	return Environment{
		Force:         normalized.Force,
		MasslessForce: normalized.MasslessForce,
		Damping:       *normalized.Damping,
	}
}

// TickSeconds returns the fixed timestep implied by TickRate.
func (cfg Config) TickSeconds() float64 {
	return 1 / float64(cfg.normalized().TickRate)
}

func DefaultConfig() Config {
	return Config{
		Seed:     DefaultSeed,
		TickRate: DefaultTickRate,
		Damping:  &Vec2{X: 1, Y: 1},
	}
}
