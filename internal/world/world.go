package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/mationai/spe/logging"
	"github.com/mationai/spe/logging/simulation"
)

// RNGFactory produces deterministic RNG instances for world subsystems.
type RNGFactory func(rootSeed, label string) *rand.Rand

// Deps bundles runtime dependencies required to construct a World instance.
type Deps struct {
	Publisher logging.Publisher
	RNG       RNGFactory
}

// World owns the bodies, groups and world-wide forces of one simulation and
// drives the per-tick integrate-then-collide cycle. It is not safe for
// concurrent use.
type World struct {
	config     Config
	env        Environment
	publisher  logging.Publisher
	rngFactory RNGFactory

	bodies []*Body
	groups []*Group
	ids    map[string]*Body
	nextID uint64
	tick   uint64
}

// TickReport summarizes one call to Step.
type TickReport struct {
	Tick     uint64
	Moved    int
	Checked  int
	Contacts []Contact
}

// New constructs a world with normalized configuration.
func New(cfg Config, deps Deps) (*World, error) {
	normalized := cfg.normalized()

	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	return &World{
		config:     normalized,
		env:        normalized.Environment(),
		publisher:  publisher,
		rngFactory: factory,
		ids:        make(map[string]*Body),
	}, nil
}

// Config returns the normalized configuration captured at construction time.
func (w *World) Config() Config {
	if w == nil {
		return Config{}
	}
	return w.config
}

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// SubsystemRNG returns a deterministic RNG for the given label.
func (w *World) SubsystemRNG(label string) *rand.Rand {
	if w == nil {
		return NewDeterministicRNG(DefaultSeed, label)
	}
	return w.rngFactory(w.config.Seed, label)
}

// Environment returns the current integration forces.
func (w *World) Environment() Environment {
	return w.env
}

// SetForce replaces the mass-scaled world force.
func (w *World) SetForce(f Vec2) {
	w.env.Force = f
}

// AddForce accumulates into the mass-scaled world force.
func (w *World) AddForce(f Vec2) {
	w.env.Force = w.env.Force.Add(f)
}

// SetMasslessForce replaces the massless world force.
func (w *World) SetMasslessForce(f Vec2) {
	w.env.MasslessForce = f
}

// AddMasslessForce accumulates into the massless world force.
func (w *World) AddMasslessForce(f Vec2) {
	w.env.MasslessForce = w.env.MasslessForce.Add(f)
}

// SetDamping replaces the per-axis damping, clamped to [0, 1].
func (w *World) SetDamping(d Vec2) {
	w.env.Damping = Vec2{X: Clamp(d.X, 0, 1), Y: Clamp(d.Y, 0, 1)}
}

// AddBody registers a body that is integrated every step but, outside of a
// group, collides with nothing. Bodies without an ID get "body-N".
func (w *World) AddBody(b *Body) error {
	if b == nil {
		return nil
	}
	if err := w.register(b); err != nil {
		return err
	}
	for _, existing := range w.bodies {
		if existing == b {
			return nil
		}
	}
	w.bodies = append(w.bodies, b)
	return nil
}

// RemoveBody drops a loose body. Group membership is not affected.
func (w *World) RemoveBody(b *Body) {
	for i, existing := range w.bodies {
		if existing == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	if b != nil && w.ids[b.ID] == b && !w.inGroup(b) {
		delete(w.ids, b.ID)
	}
}

// AddGroup registers a group and its current members.
func (w *World) AddGroup(g *Group) error {
	if g == nil {
		return nil
	}
	for _, existing := range w.groups {
		if existing == g {
			return nil
		}
		if g.name != "" && existing.name == g.name {
			return fmt.Errorf("group %q: %w", g.name, ErrDuplicateGroup)
		}
	}
	for _, b := range g.bodies {
		if err := w.register(b); err != nil {
			return fmt.Errorf("group %q: %w", g.name, err)
		}
	}
	// Bodies wrapped by CollideWithBodies join the world as loose bodies
	// unless something already integrates them.
	for _, target := range g.targets {
		if target.name != "" {
			continue
		}
		for _, b := range target.bodies {
			if err := w.register(b); err != nil {
				return fmt.Errorf("group %q: %w", g.name, err)
			}
			if !g.contains(b) && !w.inGroup(b) && !w.isLoose(b) {
				w.bodies = append(w.bodies, b)
			}
		}
	}
	w.groups = append(w.groups, g)
	return nil
}

// RemoveGroup drops a group. Its bodies stay registered if another group or
// the loose body list still holds them.
func (w *World) RemoveGroup(g *Group) {
	for i, existing := range w.groups {
		if existing == g {
			w.groups = append(w.groups[:i], w.groups[i+1:]...)
			break
		}
	}
	if g == nil {
		return
	}
	for _, b := range g.bodies {
		if w.ids[b.ID] == b && !w.inGroup(b) && !w.isLoose(b) {
			delete(w.ids, b.ID)
		}
	}
}

// Group looks up a registered group by name.
func (w *World) Group(name string) (*Group, error) {
	for _, g := range w.groups {
		if g.name == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", name, ErrUnknownGroup)
}

// Groups returns the registered groups in insertion order.
func (w *World) Groups() []*Group {
	return append([]*Group(nil), w.groups...)
}

// Body looks up a body by ID.
func (w *World) Body(id string) (*Body, bool) {
	b, ok := w.ids[id]
	return b, ok
}

// Bodies returns every body once: loose bodies first, then group members in
// group order.
func (w *World) Bodies() []*Body {
	seen := make(map[*Body]struct{}, len(w.ids))
	out := make([]*Body, 0, len(w.ids))
	visit := func(b *Body) {
		if _, ok := seen[b]; ok {
			return
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	for _, b := range w.bodies {
		visit(b)
	}
	for _, g := range w.groups {
		for _, b := range g.bodies {
			visit(b)
		}
	}
	return out
}

func (w *World) register(b *Body) error {
	if b.ID == "" {
		for {
			w.nextID++
			candidate := fmt.Sprintf("body-%d", w.nextID)
			if _, taken := w.ids[candidate]; !taken {
				b.ID = candidate
				break
			}
		}
	}
	if existing, ok := w.ids[b.ID]; ok && existing != b {
		return fmt.Errorf("body %q: %w", b.ID, ErrDuplicateBody)
	}
	w.ids[b.ID] = b
	return nil
}

func (w *World) inGroup(b *Body) bool {
	for _, g := range w.groups {
		if g.contains(b) {
			return true
		}
	}
	return false
}

func (w *World) isLoose(b *Body) bool {
	for _, existing := range w.bodies {
		if existing == b {
			return true
		}
	}
	return false
}

// Step advances the world by dt: every movable body is integrated, then each
// group resolves its collision pairs against a fresh pair memo. An invariant
// violation stops the tick and is returned; remaining pairs are skipped.
func (w *World) Step(dt float64) (TickReport, error) {
	w.tick++
	report := TickReport{Tick: w.tick}

	bodies := w.Bodies()
	for _, b := range bodies {
		if b.ID == "" {
			if err := w.register(b); err != nil {
				return report, err
			}
		}
		if b.Fixed {
			continue
		}
		b.Step(dt, w.env)
		report.Moved++
	}

	memo := NewPairMemo()
	for _, g := range w.groups {
		contacts, err := g.collide(w.groups, memo)
		report.Contacts = append(report.Contacts, contacts...)
		if err != nil {
			report.Checked = memo.Len()
			w.publishInvariant(err)
			return report, err
		}
	}
	report.Checked = memo.Len()

	w.publishContacts(report.Contacts)
	return report, nil
}

func (w *World) publishContacts(contacts []Contact) {
	ctx := context.Background()
	for _, c := range contacts {
		simulation.CollisionResolved(ctx, w.publisher, w.tick, bodyRef(c.A), bodyRef(c.B), simulation.CollisionPayload{
			Bounce:    c.Bounce.String(),
			X:         c.A.Position.X,
			Y:         c.A.Position.Y,
			VelocityX: c.A.Velocity.X,
			VelocityY: c.A.Velocity.Y,
		}, nil)
	}
}

func (w *World) publishInvariant(err error) {
	var inv *InvariantError
	payload := simulation.InvariantViolationPayload{Error: err.Error()}
	actor := logging.EntityRef{Kind: logging.EntityKindWorld}
	if errors.As(err, &inv) {
		payload.Resolver = inv.Resolver
		payload.Detail = inv.Detail
		actor = logging.EntityRef{ID: inv.BodyID, Kind: logging.EntityKindBody}
	}
	simulation.InvariantViolation(context.Background(), w.publisher, w.tick, actor, payload, nil)
}

func bodyRef(b *Body) logging.EntityRef {
	if b == nil {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	return logging.EntityRef{ID: b.ID, Kind: logging.EntityKindBody}
}
