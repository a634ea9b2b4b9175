package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/basins/internal/basin"
	"github.com/san-kum/basins/internal/compositor"
	"github.com/san-kum/basins/internal/compute"
	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/integrators"
	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultZoom   = 1.0
	DefaultMass   = 1.0
)

type Config struct {
	Integrator  string            `yaml:"integrator"`
	Filter      string            `yaml:"filter"`
	Fallback    string            `yaml:"fallback"`
	Sentinel    [3]float32        `yaml:"sentinel"`
	PixelCenter bool              `yaml:"pixel_center"`
	Workers     int               `yaml:"workers"`
	Domain      SizeConfig        `yaml:"domain"`
	Viewport    SizeConfig        `yaml:"viewport"`
	View        ViewConfig        `yaml:"view"`
	Params      ParamsConfig      `yaml:"params"`
	Attractors  []AttractorConfig `yaml:"attractors"`
}

// SizeConfig is a pixel size. A zero viewport means "same as the domain".
type SizeConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ViewConfig struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Zoom float64 `yaml:"zoom"`
}

type ParamsConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	CaptureRadius float64 `yaml:"capture_radius"`
	MinDt         float64 `yaml:"min_dt"`
	MaxDt         float64 `yaml:"max_dt"`
	StepScale     float64 `yaml:"step_scale"`
	FixedDt       float64 `yaml:"fixed_dt"`
	Epsilon       float64 `yaml:"epsilon"`
}

type AttractorConfig struct {
	X     float32    `yaml:"x"`
	Y     float32    `yaml:"y"`
	Color [3]float32 `yaml:"color"`
	// Mass defaults to DefaultMass when omitted.
	Mass *float32 `yaml:"mass,omitempty"`
}

func DefaultConfig() *Config {
	p := integrators.DefaultParams()
	return &Config{
		Integrator: string(integrators.ProfileRK4),
		Filter:     string(compositor.FilterNearest),
		Fallback:   string(basin.FallbackNearest),
		Domain:     SizeConfig{Width: DefaultWidth, Height: DefaultHeight},
		View:       ViewConfig{Zoom: DefaultZoom},
		Params: ParamsConfig{
			MaxIterations: p.MaxIterations,
			CaptureRadius: p.CaptureRadius,
			MinDt:         p.MinDt,
			MaxDt:         p.MaxDt,
			StepScale:     p.StepScale,
			FixedDt:       p.FixedDt,
			Epsilon:       p.Epsilon,
		},
		Attractors: threeBody(1),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Attractors = make([]AttractorConfig, len(c.Attractors))
	for i, a := range c.Attractors {
		if a.Mass != nil {
			m := *a.Mass
			a.Mass = &m
		}
		out.Attractors[i] = a
	}
	return &out
}

// Validate checks every field the pipeline consumes and joins all problems.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Profile(); err != nil {
		errs = append(errs, err)
	}
	if _, err := compositor.ParseFilter(c.Filter); err != nil {
		errs = append(errs, err)
	}
	if _, err := basin.ParseFallback(c.Fallback); err != nil {
		errs = append(errs, err)
	}
	if d := c.DomainSize(); d.X <= 0 || d.Y <= 0 {
		errs = append(errs, fmt.Errorf("%w: domain %dx%d", dynamo.ErrInvalidDomain, d.X, d.Y))
	}
	if v := c.ViewportSize(); v.X <= 0 || v.Y <= 0 {
		errs = append(errs, fmt.Errorf("%w: viewport %dx%d", dynamo.ErrInvalidDomain, v.X, v.Y))
	}
	if !(c.View.Zoom > 0) {
		errs = append(errs, fmt.Errorf("%w: zoom %g", dynamo.ErrInvalidParams, c.View.Zoom))
	}
	if err := c.IntegratorParams().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := physics.NewAttractorSet(c.PhysicsAttractors()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) Profile() (integrators.Profile, error) {
	return integrators.ParseProfile(c.Integrator)
}

func (c *Config) IntegratorParams() integrators.Params {
	return integrators.Params{
		MaxIterations: c.Params.MaxIterations,
		CaptureRadius: c.Params.CaptureRadius,
		MinDt:         c.Params.MinDt,
		MaxDt:         c.Params.MaxDt,
		StepScale:     c.Params.StepScale,
		FixedDt:       c.Params.FixedDt,
		Epsilon:       c.Params.Epsilon,
	}
}

func (c *Config) DomainSize() image.Point {
	return image.Pt(c.Domain.Width, c.Domain.Height)
}

func (c *Config) ViewportSize() image.Point {
	if c.Viewport.Width == 0 && c.Viewport.Height == 0 {
		return c.DomainSize()
	}
	return image.Pt(c.Viewport.Width, c.Viewport.Height)
}

func (c *Config) PhysicsAttractors() []physics.Attractor {
	out := make([]physics.Attractor, len(c.Attractors))
	for i, a := range c.Attractors {
		mass := float32(DefaultMass)
		if a.Mass != nil {
			mass = *a.Mass
		}
		out[i] = physics.Attractor{X: a.X, Y: a.Y, R: a.Color[0], G: a.Color[1], B: a.Color[2], Mass: mass}
	}
	return out
}

// SetAttractors replaces the configured attractors with as.
func (c *Config) SetAttractors(as []physics.Attractor) {
	c.Attractors = make([]AttractorConfig, len(as))
	for i, a := range as {
		c.Attractors[i] = AttractorConfig{X: a.X, Y: a.Y, Color: [3]float32{a.R, a.G, a.B}, Mass: mass(a.Mass)}
	}
}

func (c *Config) AttractorSet() (*physics.AttractorSet, error) {
	return physics.NewAttractorSet(c.PhysicsAttractors())
}

// NewIntegrator builds the configured integrator.
func (c *Config) NewIntegrator() (integrators.Integrator, error) {
	p, err := c.Profile()
	if err != nil {
		return nil, err
	}
	return integrators.New(p, c.IntegratorParams())
}

// NewComputer wires the configured integrator and options into a computer.
func (c *Config) NewComputer(logger *slog.Logger) (*basin.Computer, error) {
	integ, err := c.NewIntegrator()
	if err != nil {
		return nil, err
	}
	opts, err := c.BasinOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	return basin.NewComputer(integ, opts), nil
}

func (c *Config) NewCompositor() (*compositor.Compositor, error) {
	f, err := compositor.ParseFilter(c.Filter)
	if err != nil {
		return nil, err
	}
	return compositor.New(f)
}

// BasinOptions builds computer options; the logger is left to the caller.
func (c *Config) BasinOptions() (basin.Options, error) {
	fb, err := basin.ParseFallback(c.Fallback)
	if err != nil {
		return basin.Options{}, err
	}
	opts := basin.DefaultOptions()
	opts.Fallback = fb
	opts.Sentinel = color.RGBA{
		R: uint8(clamp01(c.Sentinel[0]) * 255),
		G: uint8(clamp01(c.Sentinel[1]) * 255),
		B: uint8(clamp01(c.Sentinel[2]) * 255),
		A: 0xff,
	}
	opts.PixelCenter = c.PixelCenter
	opts.View = basin.View{Origin: r2.Vec{X: c.View.X, Y: c.View.Y}, Zoom: c.View.Zoom}
	opts.Backend = compute.NewCPUBackend(c.Workers)
	return opts, nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
