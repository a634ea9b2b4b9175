package config

import (
	"math"
	"sort"
)

func mass(m float32) *float32 { return &m }

func threeBody(m float32) []AttractorConfig {
	return []AttractorConfig{
		{X: 200, Y: 100, Color: [3]float32{1, 0, 0}, Mass: mass(m)},
		{X: 300, Y: 400, Color: [3]float32{0, 1, 0}, Mass: mass(m)},
		{X: 450, Y: 50, Color: [3]float32{0, 0, 1}, Mass: mass(m)},
	}
}

// ring places n attractors on a circle with hues spread around the wheel.
func ring(n int, cx, cy, r float64, m float32) []AttractorConfig {
	out := make([]AttractorConfig, n)
	for i := range out {
		angle := float64(i) * 2 * math.Pi / float64(n)
		out[i] = AttractorConfig{
			X:     float32(cx + r*math.Cos(angle)),
			Y:     float32(cy + r*math.Sin(angle)),
			Color: hue(float64(i) / float64(n)),
			Mass:  mass(m),
		}
	}
	return out
}

func hue(h float64) [3]float32 {
	f := func(n float64) float32 {
		k := math.Mod(n+h*6, 6)
		return float32(1 - math.Max(0, math.Min(math.Min(k, 4-k), 1)))
	}
	return [3]float32{f(5), f(3), f(1)}
}

func preset(fn func(c *Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

var Presets = map[string]*Config{
	"three-body": DefaultConfig(),
	"single": preset(func(c *Config) {
		c.Attractors = []AttractorConfig{{X: 200, Y: 100, Color: [3]float32{1, 0, 0}, Mass: mass(1)}}
	}),
	"heavy": preset(func(c *Config) {
		c.Attractors = threeBody(5e4)
		c.PixelCenter = true
	}),
	"ring": preset(func(c *Config) {
		c.Attractors = ring(6, 320, 240, 180, 2e4)
		c.Params.CaptureRadius = 40
		c.PixelCenter = true
	}),
	"binary": preset(func(c *Config) {
		c.Attractors = []AttractorConfig{
			{X: 220, Y: 240, Color: [3]float32{1, 0.5, 0}, Mass: mass(3e4)},
			{X: 420, Y: 240, Color: [3]float32{0, 0.5, 1}, Mass: mass(1e4)},
		}
		c.Params.CaptureRadius = 30
	}),
	"voronoi": preset(func(c *Config) {
		c.Integrator = "nearest"
		c.Attractors = ring(12, 320, 240, 200, 1)
	}),
	"euler": preset(func(c *Config) {
		c.Integrator = "euler"
		c.Attractors = threeBody(5e4)
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
