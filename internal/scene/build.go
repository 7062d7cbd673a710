package scene

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/mationai/spe/internal/world"
)

// Build constructs a world from a validated scene document.
func Build(f File, deps world.Deps) (*world.World, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	w, err := world.New(f.World, deps)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*world.Body)
	index := func(b *world.Body) {
		if _, taken := byID[b.ID]; b.ID != "" && !taken {
			byID[b.ID] = b
		}
	}

	for i, spec := range f.Bodies {
		merged, err := f.Defaults.merge(spec)
		if err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		body, err := merged.build()
		if err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		if err := w.AddBody(body); err != nil {
			return nil, err
		}
		index(body)
	}

	groups := make(map[string]*world.Group, len(f.Groups))
	ordered := make([]*world.Group, 0, len(f.Groups))
	for _, spec := range f.Groups {
		group, err := buildGroup(w, f.Defaults, spec)
		if err != nil {
			return nil, err
		}
		groups[spec.Name] = group
		ordered = append(ordered, group)
		for _, body := range group.Bodies() {
			index(body)
		}
	}

	for i, spec := range f.Groups {
		group := ordered[i]
		targets := make([]*world.Group, 0, len(spec.CollideWith))
		for _, name := range spec.CollideWith {
			target, ok := groups[name]
			if !ok {
				return nil, fmt.Errorf("group %q collides with %q: %w", spec.Name, name, world.ErrUnknownGroup)
			}
			targets = append(targets, target)
		}
		group.CollideWith(targets...)
		if len(spec.CollideWithBodies) > 0 {
			bodies := make([]*world.Body, 0, len(spec.CollideWithBodies))
			for _, id := range spec.CollideWithBodies {
				body, ok := byID[id]
				if !ok {
					return nil, fmt.Errorf("group %q collides with body %q: %w", spec.Name, id, world.ErrUnknownBody)
				}
				bodies = append(bodies, body)
			}
			group.CollideWithBodies(bodies...)
		}
		if spec.CollideSelf {
			group.CollideSelf()
		}
		if spec.CollideAll {
			group.CollideAllGroups()
		}
		if err := w.AddGroup(group); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func buildGroup(w *world.World, fileDefaults BodySpec, spec GroupSpec) (*world.Group, error) {
	group := world.NewGroup(spec.Name)
	defaults, err := fileDefaults.merge(spec.Defaults)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", spec.Name, err)
	}

	for i, bodySpec := range spec.Bodies {
		merged, err := defaults.merge(bodySpec)
		if err != nil {
			return nil, fmt.Errorf("group %q bodies[%d]: %w", spec.Name, i, err)
		}
		body, err := merged.build()
		if err != nil {
			return nil, fmt.Errorf("group %q bodies[%d]: %w", spec.Name, i, err)
		}
		group.Add(body)
	}

	for i, scatter := range spec.Scatter {
		rng := w.SubsystemRNG(fmt.Sprintf("scatter/%s/%d", spec.Name, i))
		template, err := defaults.merge(scatter.Body)
		if err != nil {
			return nil, fmt.Errorf("group %q scatter[%d]: %w", spec.Name, i, err)
		}
		for n := 0; n < scatter.Count; n++ {
			placed := template
			if template.ID != "" {
				placed.ID = fmt.Sprintf("%s-%d", template.ID, n+1)
			}
			placed.TopLeft = false
			placed.X = world.RandMinMax(rng, scatter.Region.X0, scatter.Region.X1)
			placed.Y = world.RandMinMax(rng, scatter.Region.Y0, scatter.Region.Y1)
			speed := scatter.Speed.sample(rng)
			placed.Speed = &speed
			if scatter.Angle != nil {
				placed.Angle = scatter.Angle.sample(rng)
			} else {
				placed.Angle = world.RandomAngle(rng) * 180 / math.Pi
			}

			body, err := placed.build()
			if err != nil {
				return nil, fmt.Errorf("group %q scatter[%d]: %w", spec.Name, i, err)
			}
			group.Add(body)
		}
	}

	if spec.Fixed != nil {
		group.SetFixed(*spec.Fixed)
	}
	if spec.Mass != nil {
		if err := group.SetMass(*spec.Mass); err != nil {
			return nil, fmt.Errorf("group %q: %w", spec.Name, err)
		}
	}
	return group, nil
}

func (r Range) sample(rng *rand.Rand) float64 {
	if r.centered() {
		return world.RandValRange(rng, r.Center, r.Spread)
	}
	return world.RandMinMax(rng, r.Min, r.Max)
}

// merge overlays the non-empty fields of override onto s.
func (s BodySpec) merge(override BodySpec) (BodySpec, error) {
	merged := s
	if err := copier.CopyWithOption(&merged, &override, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return BodySpec{}, fmt.Errorf("merge body %q: %w", override.ID, err)
	}
	return merged, nil
}

func (s BodySpec) build() (*world.Body, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	var (
		body *world.Body
		err  error
	)
	switch strings.ToLower(s.Kind) {
	case "particle":
		body, err = world.NewParticle(s.ID, s.X, s.Y, s.Radius)
	case "circle":
		body, err = world.NewCircle(s.ID, s.X, s.Y, s.Radius)
	default:
		hw, hh := s.halfExtents()
		if s.TopLeft {
			body, err = world.NewRectTopLeft(s.ID, s.X, s.Y, hw*2, hh*2)
		} else {
			body, err = world.NewRect(s.ID, s.X, s.Y, hw, hh)
		}
	}
	if err != nil {
		return nil, err
	}

	if s.Mass != nil {
		if err := body.SetMass(*s.Mass); err != nil {
			return nil, fmt.Errorf("body %q: %w", s.ID, err)
		}
	}
	if s.Velocity != nil {
		body.SetVelocity(s.Velocity.X, s.Velocity.Y)
	}
	if s.Speed != nil {
		body.SetSpeedDegrees(*s.Speed, s.Angle)
	}
	if s.Fixed != nil {
		body.SetFixed(*s.Fixed)
	}
	if s.ObeysMasslessForce != nil {
		body.ObeyMasslessForce(*s.ObeysMasslessForce)
	}
	return body, nil
}
