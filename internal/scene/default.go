package scene

import "github.com/mationai/spe/internal/world"

const (
	arenaWidth  = 640
	arenaHeight = 480
	wallSize    = 20
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

// Default returns the scene served when no scene file is configured: a walled
// arena with a central block, a few circles and a handful of particles.
func Default() File {
	return File{
		Name: "arena",
		World: world.Config{
			Seed:          world.DefaultSeed,
			TickRate:      world.DefaultTickRate,
			MasslessForce: world.Vec2{Y: 98},
		},
		Groups: []GroupSpec{
			{
				Name:  "walls",
				Fixed: boolPtr(true),
				Defaults: BodySpec{
					Kind:    "rect",
					TopLeft: true,
				},
				Bodies: []BodySpec{
					{ID: "wall-top", Width: arenaWidth, Height: wallSize},
					{ID: "wall-bottom", Y: arenaHeight - wallSize, Width: arenaWidth, Height: wallSize},
					{ID: "wall-left", Y: wallSize, Width: wallSize, Height: arenaHeight - 2*wallSize},
					{ID: "wall-right", X: arenaWidth - wallSize, Y: wallSize, Width: wallSize, Height: arenaHeight - 2*wallSize},
					{ID: "block", X: 280, Y: 200, Width: 80, Height: 80},
				},
			},
			{
				Name:        "balls",
				CollideWith: []string{"walls"},
				Defaults:    BodySpec{Kind: "circle", Radius: 12},
				Bodies: []BodySpec{
					{ID: "ball-1", X: 100, Y: 100, Velocity: &world.Vec2{X: 120, Y: 40}},
					{ID: "ball-2", X: 520, Y: 120, Velocity: &world.Vec2{X: -90, Y: 60}, Radius: 18, Mass: floatPtr(2)},
					{ID: "ball-3", X: 320, Y: 400, Velocity: &world.Vec2{X: 60, Y: -150}},
				},
			},
			{
				Name:        "sparks",
				CollideWith: []string{"walls"},
				Scatter: []ScatterSpec{
					{
						Count:  12,
						Body:   BodySpec{ID: "spark", Kind: "particle", Radius: 3},
						Region: Region{X0: 60, Y0: 60, X1: 580, Y1: 160},
						Speed:  Range{Min: 40, Max: 160},
					},
				},
			},
		},
	}
}
