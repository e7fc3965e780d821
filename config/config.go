// Package config loads the road demo settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"infiniteroad/stream"
)

type Config struct {
	LogLevel  string    `yaml:"log_level"`
	Window    Window    `yaml:"window"`
	Stream    Stream    `yaml:"stream"`
	Road      Road      `yaml:"road"`
	Path      Path      `yaml:"path"`
	Camera    Camera    `yaml:"camera"`
	Collector Collector `yaml:"collector"`
}

type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	VSync      bool   `yaml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen"`
	Samples    int    `yaml:"samples"`
}

type Stream struct {
	SegmentLength      float64 `yaml:"segment_length"`
	Capacity           int     `yaml:"capacity"`
	ProximityThreshold float64 `yaml:"proximity_threshold"`
}

type Road struct {
	Width           float32  `yaml:"width"`
	SlabThickness   float32  `yaml:"slab_thickness"`
	Lanes           int      `yaml:"lanes"`
	PropsPerSegment int      `yaml:"props_per_segment"`
	PropModel       string   `yaml:"prop_model"` // optional .glb/.gltf, "~" allowed
	Seed            int64    `yaml:"seed"`
	Wireframe       bool     `yaml:"wireframe"`
	Colors          []uint32 `yaml:"colors"` // alternated by segment index
	PathLine        bool     `yaml:"path_line"`
}

// Path is the road centreline: x = Amplitude * sin(-z / Wavelength).
type Path struct {
	Amplitude  float32 `yaml:"amplitude"`
	Wavelength float32 `yaml:"wavelength"`
}

type Camera struct {
	Height         float32 `yaml:"height"`
	Speed          float32 `yaml:"speed"` // world units per second
	LookAhead      float32 `yaml:"look_ahead"`
	FOVDegrees     float32 `yaml:"fov_degrees"`
	Parallax       float32 `yaml:"parallax"` // max mouse offset in world units
	OverheadHeight float32 `yaml:"overhead_height"`
}

type Collector struct {
	Enabled   bool    `yaml:"enabled"`
	Radius    float32 `yaml:"radius"`
	Growth    float32 `yaml:"growth"` // fraction of prop volume added to the ball
	MaxRadius float32 `yaml:"max_radius"`
}

// Default uses 50 unit segments, ten resident, and a camera five units above
// a gently winding road. The proximity threshold keeps most of the window
// ahead of the camera rather than behind it.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: Window{
			Width:   1280,
			Height:  720,
			Title:   "Infinite Road",
			VSync:   true,
			Samples: 4,
		},
		Stream: Stream{
			SegmentLength:      50,
			Capacity:           10,
			ProximityThreshold: 350,
		},
		Road: Road{
			Width:           20,
			SlabThickness:   1,
			Lanes:           3,
			PropsPerSegment: 6,
			Seed:            1,
			Wireframe:       false,
			Colors:          []uint32{0x888888, 0x777777},
			PathLine:        true,
		},
		Path: Path{
			Amplitude:  5,
			Wavelength: 100,
		},
		Camera: Camera{
			Height:         5,
			Speed:          20,
			LookAhead:      10,
			FOVDegrees:     60,
			Parallax:       2,
			OverheadHeight: 120,
		},
		Collector: Collector{
			Enabled:   true,
			Radius:    1,
			Growth:    0.5,
			MaxRadius: 9,
		},
	}
}

var ErrInvalid = errors.New("config: invalid")

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config: expand %q: %w", path, err)
	}
	raw, err := os.ReadFile(expanded)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: yaml: %w", err)
	}
	if cfg.Road.PropModel != "" {
		expanded, err := homedir.Expand(cfg.Road.PropModel)
		if err != nil {
			return cfg, fmt.Errorf("config: expand prop_model: %w", err)
		}
		cfg.Road.PropModel = expanded
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// StreamConfig converts the stream section for stream.New.
func (c Config) StreamConfig() stream.Config {
	return stream.Config{
		SegmentLength:      c.Stream.SegmentLength,
		Capacity:           c.Stream.Capacity,
		ProximityThreshold: c.Stream.ProximityThreshold,
	}
}

func (c Config) Validate() error {
	if err := c.StreamConfig().Validate(); err != nil {
		return err
	}
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Road.Width <= 0:
		return fmt.Errorf("%w: road width must be > 0", ErrInvalid)
	case c.Road.Lanes < 1:
		return fmt.Errorf("%w: road needs at least one lane", ErrInvalid)
	case c.Road.PropsPerSegment < 0:
		return fmt.Errorf("%w: props_per_segment must be >= 0", ErrInvalid)
	case len(c.Road.Colors) == 0:
		return fmt.Errorf("%w: road needs at least one colour", ErrInvalid)
	case c.Path.Wavelength <= 0:
		return fmt.Errorf("%w: path wavelength must be > 0", ErrInvalid)
	case c.Camera.Speed < 0:
		return fmt.Errorf("%w: camera speed must be >= 0", ErrInvalid)
	case c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180:
		return fmt.Errorf("%w: fov_degrees out of range", ErrInvalid)
	case c.Collector.Enabled && (c.Collector.Radius <= 0 || c.Collector.MaxRadius < c.Collector.Radius):
		return fmt.Errorf("%w: collector radius", ErrInvalid)
	case !(c.Collector.Growth >= 0):
		return fmt.Errorf("%w: collector growth must be >= 0", ErrInvalid)
	}
	// Travelling further than one segment per frame at 30 fps would skip
	// segments, since the stream generates at most one per frame.
	if float64(c.Camera.Speed)/30 >= c.Stream.SegmentLength {
		return fmt.Errorf("%w: camera speed %v outruns segment length %v", ErrInvalid, c.Camera.Speed, c.Stream.SegmentLength)
	}
	return nil
}
