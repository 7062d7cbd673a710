package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mationai/spe/internal/world"
)

var (
	// ErrUnknownFormat is returned for scene paths without a .json, .yaml or .yml extension.
	ErrUnknownFormat = errors.New("unknown scene format")
	// ErrInvalidScene wraps every validation failure.
	ErrInvalidScene = errors.New("invalid scene")
)

// Format selects the scene document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// File is a scene document: world settings, loose bodies and collision groups.
// Body fields left empty inherit from Defaults, and group bodies also inherit
// from the group's own Defaults. Zero numbers and false flags count as empty,
// so a body can not reset an inherited value back to zero.
type File struct {
	Name     string       `json:"name" yaml:"name" jsonschema:"title=Scene name,minLength=1,required"`
	World    world.Config `json:"world" yaml:"world" jsonschema:"description=World forces and pacing"`
	Defaults BodySpec     `json:"defaults,omitempty" yaml:"defaults,omitempty" jsonschema:"description=Values inherited by every body"`
	Bodies   []BodySpec   `json:"bodies,omitempty" yaml:"bodies,omitempty" jsonschema:"description=Bodies that are integrated but belong to no group"`
	Groups   []GroupSpec  `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// GroupSpec declares a collision group. CollideWithBodies names individual
// bodies, loose or from any group, that the group collides with; loose ones
// are integrated as usual.
type GroupSpec struct {
	Name              string        `json:"name" yaml:"name" jsonschema:"minLength=1,required"`
	CollideWith       []string      `json:"collideWith,omitempty" yaml:"collideWith,omitempty" jsonschema:"description=Names of groups this group collides with; its own name enables self collisions"`
	CollideWithBodies []string      `json:"collideWithBodies,omitempty" yaml:"collideWithBodies,omitempty" jsonschema:"description=Body ids this group collides with"`
	CollideSelf       bool          `json:"collideSelf,omitempty" yaml:"collideSelf,omitempty"`
	CollideAll        bool          `json:"collideAll,omitempty" yaml:"collideAll,omitempty"`
	Fixed             *bool         `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Mass              *float64      `json:"mass,omitempty" yaml:"mass,omitempty" jsonschema:"exclusiveMinimum=0"`
	Defaults          BodySpec      `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Bodies            []BodySpec    `json:"bodies,omitempty" yaml:"bodies,omitempty"`
	Scatter           []ScatterSpec `json:"scatter,omitempty" yaml:"scatter,omitempty"`
}

// BodySpec describes one body. X and Y are the center unless TopLeft is set;
// Width and Height take precedence over the half extents for rectangles.
// Speed and Angle (degrees) take precedence over Velocity.
type BodySpec struct {
	ID                 string      `json:"id,omitempty" yaml:"id,omitempty"`
	Kind               string      `json:"kind,omitempty" yaml:"kind,omitempty" jsonschema:"enum=particle,enum=circle,enum=rect"`
	X                  float64     `json:"x,omitempty" yaml:"x,omitempty"`
	Y                  float64     `json:"y,omitempty" yaml:"y,omitempty"`
	TopLeft            bool        `json:"topLeft,omitempty" yaml:"topLeft,omitempty"`
	Radius             float64     `json:"radius,omitempty" yaml:"radius,omitempty" jsonschema:"minimum=0"`
	HalfWidth          float64     `json:"halfWidth,omitempty" yaml:"halfWidth,omitempty" jsonschema:"minimum=0"`
	HalfHeight         float64     `json:"halfHeight,omitempty" yaml:"halfHeight,omitempty" jsonschema:"minimum=0"`
	Width              float64     `json:"width,omitempty" yaml:"width,omitempty" jsonschema:"minimum=0"`
	Height             float64     `json:"height,omitempty" yaml:"height,omitempty" jsonschema:"minimum=0"`
	Mass               *float64    `json:"mass,omitempty" yaml:"mass,omitempty" jsonschema:"exclusiveMinimum=0"`
	Velocity           *world.Vec2 `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Speed              *float64    `json:"speed,omitempty" yaml:"speed,omitempty"`
	Angle              float64     `json:"angle,omitempty" yaml:"angle,omitempty" jsonschema:"description=Heading in degrees used with speed"`
	Fixed              *bool       `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	ObeysMasslessForce *bool       `json:"obeysMasslessForce,omitempty" yaml:"obeysMasslessForce,omitempty"`
}

// ScatterSpec places Count copies of Body at random points of Region with a
// random speed and heading.
type ScatterSpec struct {
	Count  int      `json:"count" yaml:"count" jsonschema:"minimum=0,required"`
	Body   BodySpec `json:"body" yaml:"body"`
	Region Region   `json:"region" yaml:"region" jsonschema:"required"`
	Speed  Range    `json:"speed,omitempty" yaml:"speed,omitempty"`
	Angle  *Range   `json:"angle,omitempty" yaml:"angle,omitempty" jsonschema:"description=Heading range in degrees; defaults to 0..360"`
}

// Region is an axis-aligned area given by its corners.
type Region struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Range is a half-open [Min, Max) interval, or [Center-Spread,
// Center+Spread) when Center or Spread is set. The two forms can not be mixed.
type Range struct {
	Min    float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Center float64 `json:"center,omitempty" yaml:"center,omitempty"`
	Spread float64 `json:"spread,omitempty" yaml:"spread,omitempty" jsonschema:"minimum=0"`
}

func (r Range) centered() bool {
	return r.Center != 0 || r.Spread != 0
}

func (r Range) validate(name string) error {
	for _, v := range [...]float64{r.Min, r.Max, r.Center, r.Spread} {
		if !finite(v) {
			return invalid("%s range must be finite", name)
		}
	}
	if r.centered() {
		if r.Min != 0 || r.Max != 0 {
			return invalid("%s range mixes min/max with center/spread", name)
		}
		if r.Spread < 0 {
			return invalid("%s spread can not be negative", name)
		}
		return nil
	}
	if r.Max < r.Min {
		return invalid("%s range is inverted", name)
	}
	return nil
}

// Load reads and decodes a scene file.
func Load(path string) (File, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read scene %s: %w", path, err)
	}
	file, err := Parse(data, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Parse decodes a scene document, rejecting unknown fields, and validates it.
func Parse(data []byte, format Format) (File, error) {
	var file File
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return File{}, fmt.Errorf("decode scene: %w", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil {
			return File{}, fmt.Errorf("decode scene: %w", err)
		}
	default:
		return File{}, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err := file.Validate(); err != nil {
		return File{}, err
	}
	return file, nil
}

// Validate checks the document without building it.
func (f File) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("scene name is required")
	}
	for i, body := range f.Bodies {
		merged, err := f.Defaults.merge(body)
		if err != nil {
			return fmt.Errorf("bodies[%d]: %w", i, err)
		}
		if err := merged.validate(); err != nil {
			return fmt.Errorf("bodies[%d]: %w", i, err)
		}
	}
	names := make(map[string]struct{}, len(f.Groups))
	for _, group := range f.Groups {
		if strings.TrimSpace(group.Name) == "" {
			return invalid("group name is required")
		}
		if _, dup := names[group.Name]; dup {
			return invalid("duplicate group %q", group.Name)
		}
		names[group.Name] = struct{}{}
	}
	for _, group := range f.Groups {
		for _, target := range group.CollideWith {
			if _, ok := names[target]; !ok {
				return fmt.Errorf("group %q collides with %q: %w", group.Name, target, world.ErrUnknownGroup)
			}
		}
		for _, id := range group.CollideWithBodies {
			if strings.TrimSpace(id) == "" {
				return invalid("group %q: collideWithBodies entries need an id", group.Name)
			}
		}
		if group.Mass != nil && !(*group.Mass > 0) {
			return invalid("group %q: mass must be positive", group.Name)
		}
		defaults, err := f.Defaults.merge(group.Defaults)
		if err != nil {
			return fmt.Errorf("group %q: %w", group.Name, err)
		}
		for i, body := range group.Bodies {
			merged, err := defaults.merge(body)
			if err == nil {
				err = merged.validate()
			}
			if err != nil {
				return fmt.Errorf("group %q bodies[%d]: %w", group.Name, i, err)
			}
		}
		for i, scatter := range group.Scatter {
			if err := scatter.validate(defaults); err != nil {
				return fmt.Errorf("group %q scatter[%d]: %w", group.Name, i, err)
			}
		}
	}
	return nil
}

func (s BodySpec) validate() error {
	switch kind := strings.ToLower(s.Kind); kind {
	case "particle":
	case "circle":
		if !(s.Radius > 0) {
			return invalid("circle radius must be positive")
		}
	case "rect", "rectangle":
		hw, hh := s.halfExtents()
		if !(hw > 0) || !(hh > 0) {
			return invalid("rect size must be positive")
		}
	case "":
		return invalid("body kind is required")
	default:
		return invalid("unknown body kind %q", s.Kind)
	}
	for _, v := range [...]float64{s.X, s.Y, s.Radius, s.HalfWidth, s.HalfHeight, s.Width, s.Height, s.Angle} {
		if !finite(v) {
			return invalid("body %q: coordinates and extents must be finite", s.ID)
		}
	}
	if s.Speed != nil && !finite(*s.Speed) {
		return invalid("body %q: speed must be finite", s.ID)
	}
	if s.Velocity != nil && (!finite(s.Velocity.X) || !finite(s.Velocity.Y)) {
		return invalid("body %q: velocity must be finite", s.ID)
	}
	if s.Radius < 0 {
		return invalid("radius can not be negative")
	}
	if s.Mass != nil && !(*s.Mass > 0) {
		return invalid("mass must be positive")
	}
	return nil
}

func (s ScatterSpec) validate(defaults BodySpec) error {
	if s.Count < 0 {
		return invalid("count can not be negative")
	}
	for _, v := range [...]float64{s.Region.X0, s.Region.Y0, s.Region.X1, s.Region.Y1} {
		if !finite(v) {
			return invalid("region corners must be finite")
		}
	}
	if s.Region.X1 < s.Region.X0 || s.Region.Y1 < s.Region.Y0 {
		return invalid("region corners are inverted")
	}
	if err := s.Speed.validate("speed"); err != nil {
		return err
	}
	if s.Angle != nil {
		if err := s.Angle.validate("angle"); err != nil {
			return err
		}
	}
	template, err := defaults.merge(s.Body)
	if err != nil {
		return err
	}
	return template.validate()
}

func (s BodySpec) halfExtents() (float64, float64) {
	hw, hh := s.HalfWidth, s.HalfHeight
	if s.Width > 0 {
		hw = s.Width / 2
	}
	if s.Height > 0 {
		hh = s.Height / 2
	}
	return hw, hh
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}
