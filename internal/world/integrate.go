package world

// Environment carries the world-wide forces applied during integration.
type Environment struct {
	// Force is scaled by each body's inverse mass.
	Force Vec2 `json:"force" yaml:"force"`
	// MasslessForce applies uniformly to bodies that obey it (gravity-like).
	MasslessForce Vec2 `json:"masslessForce" yaml:"masslessForce"`
	// Damping multiplies velocity per axis every step: 1 keeps it, 0 stops it.
	Damping Vec2 `json:"damping" yaml:"damping"`
}

// DefaultEnvironment has no forces and no damping.
func DefaultEnvironment() Environment {
	return Environment{Damping: Vec2{X: 1, Y: 1}}
}

// Step advances a movable body by dt with explicit Euler integration.
// Fixed bodies are left untouched.
func (b *Body) Step(dt float64, env Environment) {
	if b == nil || b.Fixed {
		return
	}
	b.stepAcceleration(env)
	b.stepVelocity(dt, env.Damping)
	b.stepPosition(dt)
}

func (b *Body) stepAcceleration(env Environment) {
	obey := 0.0
	if b.ObeysMasslessForce {
		obey = 1
	}
	b.Acceleration = env.MasslessForce.Scale(obey).Add(env.Force.Scale(b.inverseMass))
}

func (b *Body) stepVelocity(dt float64, damping Vec2) {
	v := b.Velocity.Add(b.Acceleration.Scale(dt))
	b.Velocity = Vec2{X: v.X * damping.X, Y: v.Y * damping.Y}
}

// stepPosition overwrites Delta; collision checks for this step read it
// afterwards to rebuild the pre-step center.
func (b *Body) stepPosition(dt float64) {
	b.Delta = b.Velocity.Scale(dt)
	b.Position = b.Position.Add(b.Delta)
}
