package world

import "fmt"

// Group tags bodies that share collision rules. Groups are tags, not
// containers: a body may belong to several groups.
type Group struct {
	name       string
	bodies     []*Body
	targets    []*Group
	collideAll bool
	self       bool
}

// NewGroup returns an empty group that collides with nothing.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

// Name returns the group name.
func (g *Group) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Bodies returns the group's bodies in insertion order.
func (g *Group) Bodies() []*Body {
	if g == nil {
		return nil
	}
	return append([]*Body(nil), g.bodies...)
}

// Add appends bodies not already present.
func (g *Group) Add(bodies ...*Body) {
	for _, b := range bodies {
		if b == nil || g.contains(b) {
			continue
		}
		g.bodies = append(g.bodies, b)
	}
}

// Remove drops a body from the group.
func (g *Group) Remove(b *Body) {
	for i, existing := range g.bodies {
		if existing == b {
			g.bodies = append(g.bodies[:i], g.bodies[i+1:]...)
			return
		}
	}
}

func (g *Group) contains(b *Body) bool {
	for _, existing := range g.bodies {
		if existing == b {
			return true
		}
	}
	return false
}

// CollideWith adds groups this group collides with. Passing the group itself
// enables collisions between its own members.
func (g *Group) CollideWith(groups ...*Group) {
	for _, other := range groups {
		if other == nil {
			continue
		}
		if other == g {
			g.self = true
			continue
		}
		if !g.collidesWith(other) {
			g.targets = append(g.targets, other)
		}
	}
}

// CollideWithBodies wraps bodies in an anonymous group and collides with
// it. World.AddGroup registers them and integrates any the world did not
// already hold.
func (g *Group) CollideWithBodies(bodies ...*Body) {
	anon := NewGroup("")
	anon.Add(bodies...)
	g.targets = append(g.targets, anon)
}

// CollideSelf enables collisions between members of the group.
func (g *Group) CollideSelf() {
	g.self = true
}

// CollideAllGroups makes the group collide with every group in the world,
// including ones added later.
func (g *Group) CollideAllGroups() {
	g.collideAll = true
}

// CollideNone isolates the group from every other group. Self collisions are
// left as configured.
func (g *Group) CollideNone() {
	g.collideAll = false
	g.targets = nil
}

func (g *Group) collidesWith(other *Group) bool {
	for _, t := range g.targets {
		if t == other {
			return true
		}
	}
	return false
}

// SetFixed applies Body.SetFixed to every member.
func (g *Group) SetFixed(fixed bool) {
	for _, b := range g.bodies {
		b.SetFixed(fixed)
	}
}

// SetCenter moves every member to (x, y). Self-colliding groups reject it.
func (g *Group) SetCenter(x, y float64) error {
	if g.self {
		return fmt.Errorf("group %q: %w", g.name, ErrSharedCenter)
	}
	for _, b := range g.bodies {
		b.ResetCenter(x, y)
	}
	return nil
}

// SetVelocity applies Body.SetVelocity to every member.
func (g *Group) SetVelocity(x, y float64) {
	for _, b := range g.bodies {
		b.SetVelocity(x, y)
	}
}

// SetSpeedRadians applies Body.SetSpeedRadians to every member.
func (g *Group) SetSpeedRadians(speed, radians float64) {
	for _, b := range g.bodies {
		b.SetSpeedRadians(speed, radians)
	}
}

// SetSpeedDegrees applies Body.SetSpeedDegrees to every member.
func (g *Group) SetSpeedDegrees(speed, degrees float64) {
	for _, b := range g.bodies {
		b.SetSpeedDegrees(speed, degrees)
	}
}

// SetMass sets every member's mass. The mass is validated once up front so a
// rejected value leaves all members untouched.
func (g *Group) SetMass(mass float64) error {
	probe := Body{ID: g.name}
	if err := probe.SetMass(mass); err != nil {
		return fmt.Errorf("group %q: %w", g.name, err)
	}
	for _, b := range g.bodies {
		b.mass = probe.mass
		b.inverseMass = probe.inverseMass
	}
	return nil
}

// ObeyMasslessForce applies Body.ObeyMasslessForce to every member.
func (g *Group) ObeyMasslessForce(obey bool) {
	for _, b := range g.bodies {
		b.ObeyMasslessForce(obey)
	}
}

// collide resolves this group's pairs for one tick. all is the world's
// group list, used when the group collides with every group.
func (g *Group) collide(all []*Group, memo *PairMemo) ([]Contact, error) {
	targets := g.targets
	if g.collideAll {
		targets = all
	}
	var contacts []Contact
	for _, target := range targets {
		if target == g && !g.self {
			continue
		}
		found, err := CollideSets(g.bodies, target.bodies, memo)
		contacts = append(contacts, found...)
		if err != nil {
			return contacts, err
		}
	}
	if g.self && !g.collideAll {
		found, err := CollideAll(g.bodies, memo)
		contacts = append(contacts, found...)
		if err != nil {
			return contacts, err
		}
	}
	return contacts, nil
}
