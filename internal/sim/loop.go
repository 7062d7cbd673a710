package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/mationai/spe/internal/telemetry"
	"github.com/mationai/spe/logging"
	"github.com/mationai/spe/logging/simulation"
)

const (
	defaultTickRate        = 60
	defaultCatchupMaxTicks = 4

	metricTicksTotal      = "sim_ticks_total"
	metricTickOverruns    = "sim_tick_overruns_total"
	metricTicksSkipped    = "sim_ticks_skipped_total"
	metricTickDurationMic = "sim_tick_duration_us"
)

// Engine advances the simulation by exactly one fixed step.
type Engine interface {
	Advance(tick LoopTickContext) error
}

// EngineFunc adapts a function into an Engine.
type EngineFunc func(tick LoopTickContext) error

func (f EngineFunc) Advance(tick LoopTickContext) error {
	return f(tick)
}

// LoopConfig tunes the fixed-timestep runner.
type LoopConfig struct {
	TickRate int
	// CatchupMaxTicks bounds how many steps one wakeup may run when the loop
	// falls behind. Backlog beyond it is dropped.
	CatchupMaxTicks int
}

// Deps carries shared infrastructure for the loop.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Publisher logging.Publisher
	Clock     logging.Clock
}

// LoopTickContext is handed to the engine for each step.
type LoopTickContext struct {
	Tick  uint64
	Now   time.Time
	Delta float64
}

// LoopStepResult describes one completed step.
type LoopStepResult struct {
	Tick     uint64
	Now      time.Time
	Delta    float64
	Duration time.Duration
	Budget   time.Duration
	Overrun  bool
	Streak   uint64
	Err      error
}

// LoopHooks lets the host observe steps.
type LoopHooks struct {
	AfterStep func(LoopStepResult)
}

// Loop runs an Engine at a fixed rate with a constant dt.
type Loop struct {
	engine  Engine
	config  LoopConfig
	hooks   LoopHooks
	logger  telemetry.Logger
	metrics telemetry.Metrics
	pub     logging.Publisher
	clock   logging.Clock

	tick   uint64
	streak uint64
}

// NewLoop wraps engine with a fixed-timestep runner.
func NewLoop(engine Engine, cfg LoopConfig, deps Deps, hooks LoopHooks) *Loop {
	if engine == nil {
		return nil
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}
	if cfg.CatchupMaxTicks <= 0 {
		cfg.CatchupMaxTicks = defaultCatchupMaxTicks
	}
	l := &Loop{
		engine:  engine,
		config:  cfg,
		hooks:   hooks,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		pub:     deps.Publisher,
		clock:   deps.Clock,
	}
	if l.logger == nil {
		l.logger = telemetry.LoggerFunc(nil)
	}
	if l.metrics == nil {
		l.metrics = telemetry.NopMetrics()
	}
	if l.pub == nil {
		l.pub = logging.NopPublisher()
	}
	if l.clock == nil {
		l.clock = logging.SystemClock{}
	}
	return l
}

// Budget is the wall time allotted to one step.
func (l *Loop) Budget() time.Duration {
	return time.Second / time.Duration(l.config.TickRate)
}

// Delta is the constant step size in seconds.
func (l *Loop) Delta() float64 {
	return 1 / float64(l.config.TickRate)
}

// Tick returns the number of steps taken.
func (l *Loop) Tick() uint64 {
	if l == nil {
		return 0
	}
	return l.tick
}

// Advance runs exactly one step and reports its timing. A step that exceeds
// the budget publishes a tick budget overrun.
func (l *Loop) Advance(ctx context.Context) LoopStepResult {
	l.tick++
	budget := l.Budget()
	start := l.clock.Now()
	err := l.engine.Advance(LoopTickContext{Tick: l.tick, Now: start, Delta: l.Delta()})
	duration := l.clock.Now().Sub(start)

	result := LoopStepResult{
		Tick:     l.tick,
		Now:      start,
		Delta:    l.Delta(),
		Duration: duration,
		Budget:   budget,
		Err:      err,
	}

	l.metrics.Add(metricTicksTotal, 1)
	if duration > 0 {
		l.metrics.Store(metricTickDurationMic, uint64(duration.Microseconds()))
	}

	if duration > budget {
		l.streak++
		result.Overrun = true
		l.metrics.Add(metricTickOverruns, 1)
		simulation.TickBudgetOverrun(ctx, l.pub, l.tick, simulation.TickBudgetOverrunPayload{
			DurationMillis: duration.Milliseconds(),
			BudgetMillis:   budget.Milliseconds(),
			Ratio:          float64(duration) / float64(budget),
			Streak:         l.streak,
		}, nil)
	} else {
		l.streak = 0
	}
	result.Streak = l.streak

	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(result)
	}
	return result
}

// Run steps the engine until ctx is cancelled or a step fails. Cancellation
// returns nil; a step error is returned wrapped with its tick.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil {
		return nil
	}
	budget := l.Budget()
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	last := l.clock.Now()
	var backlog time.Duration

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		now := l.clock.Now()
		elapsed := now.Sub(last)
		last = now
		if elapsed <= 0 {
			elapsed = budget
		}
		backlog += elapsed

		steps := 0
		for backlog >= budget && steps < l.config.CatchupMaxTicks {
			result := l.Advance(ctx)
			if result.Err != nil {
				l.logger.Printf("simulation halted at tick %d: %v", result.Tick, result.Err)
				return fmt.Errorf("tick %d: %w", result.Tick, result.Err)
			}
			backlog -= budget
			steps++
			if ctx.Err() != nil {
				return nil
			}
		}
		if backlog >= budget {
			skipped := uint64(backlog / budget)
			l.metrics.Add(metricTicksSkipped, skipped)
			l.logger.Printf("simulation behind by %d ticks, dropping backlog", skipped)
			backlog = 0
		}
	}
}
