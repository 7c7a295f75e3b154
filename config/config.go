package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Duration is a time.Duration written as a Go duration string, e.g. "2s".
type Duration time.Duration

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "duration %q", text)
	}
	*d = Duration(v)
	return nil
}

// Config is the full session configuration.
type Config struct {
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Assets AssetsConfig `toml:"assets"`
	Camera CameraConfig `toml:"camera"`
	Engine EngineConfig `toml:"engine"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type RenderConfig struct {
	// Backend is "wgpu" or "headless".
	Backend string `toml:"backend"`

	// FrameCount must be 2; it is configurable only so a mismatch is reported instead of ignored.
	FrameCount int `toml:"frame_count"`

	// Pacing is "drain" or "per-slot".
	Pacing string `toml:"pacing"`

	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode"`

	// Fill is "wireframe" or "solid".
	Fill string `toml:"fill"`

	ClearColor   [4]float64 `toml:"clear_color"`
	FenceTimeout Duration   `toml:"fence_timeout"`
}

type AssetsConfig struct {
	// Mesh is an OBJ path on disk. Empty selects the embedded Cornell box.
	Mesh string `toml:"mesh"`

	// Workers sizes the loader pool; 0 uses one per CPU.
	Workers int `toml:"workers"`
}

type CameraConfig struct {
	Position  [3]float32 `toml:"position"`
	Angle     float32    `toml:"angle"`
	FovDeg    float32    `toml:"fov_deg"`
	Near      float32    `toml:"near"`
	Far       float32    `toml:"far"`
	MoveSpeed float32    `toml:"move_speed"`
	TurnSpeed float32    `toml:"turn_speed"`
}

type EngineConfig struct {
	// Frames stops the session after this many frames; 0 runs until the window closes.
	Frames     int     `toml:"frames"`
	Profile    bool    `toml:"profile"`
	FrameLimit float64 `toml:"frame_limit"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-frame",
			Width:  1280,
			Height: 720,
		},
		Render: RenderConfig{
			Backend:     renderer.BackendTypeWGPU.String(),
			FrameCount:  renderer.FrameCount,
			Pacing:      fence.PacingDrainAll.String(),
			PresentMode: "vsync",
			Fill:        "wireframe",
			ClearColor:  [4]float64{0, 0, 0, 1},
		},
		Camera: CameraConfig{
			Position:  [3]float32{0, 1, -5},
			FovDeg:    60,
			Near:      0.001,
			Far:       100,
			MoveSpeed: 1.5,
			TurnSpeed: 1.2,
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults and validates the result. Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the decoded configuration
//   - error: a decode or validation error
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, errors.Errorf("decode at %d:%d: %s", row, col, derr.Error())
		}
		return Config{}, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: an encode or write error
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate rejects configurations the renderer cannot run.
//
// Returns:
//   - error: the first problem found
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Render.FrameCount != renderer.FrameCount {
		return errors.Errorf("frame_count %d unsupported, must be %d", c.Render.FrameCount, renderer.FrameCount)
	}
	if _, err := c.BackendType(); err != nil {
		return err
	}
	if _, err := c.PacingPolicy(); err != nil {
		return err
	}
	if _, err := c.PresentMode(); err != nil {
		return err
	}
	if _, err := c.FillMode(); err != nil {
		return err
	}
	for i, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			return errors.Errorf("clear_color[%d] = %g outside [0, 1]", i, v)
		}
	}
	if c.Render.FenceTimeout < 0 {
		return errors.New("fence_timeout must not be negative")
	}
	if c.Assets.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.Camera.FovDeg <= 0 || c.Camera.FovDeg >= 180 {
		return errors.Errorf("fov_deg %g outside (0, 180)", c.Camera.FovDeg)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("clip planes near=%g far=%g invalid", c.Camera.Near, c.Camera.Far)
	}
	if c.Engine.Frames < 0 {
		return errors.New("frames must not be negative")
	}
	return nil
}

// BackendType parses Render.Backend.
func (c Config) BackendType() (renderer.RendererBackendType, error) {
	return renderer.ParseBackendType(c.Render.Backend)
}

// PacingPolicy parses Render.Pacing.
func (c Config) PacingPolicy() (fence.PacingPolicy, error) {
	return fence.ParsePacingPolicy(c.Render.Pacing)
}

// PresentMode parses Render.PresentMode.
func (c Config) PresentMode() (renderer.PresentMode, error) {
	return renderer.ParsePresentMode(c.Render.PresentMode)
}

// FillMode parses Render.Fill.
func (c Config) FillMode() (pipeline.FillMode, error) {
	switch c.Render.Fill {
	case "", "wireframe":
		return pipeline.FillWireframe, nil
	case "solid":
		return pipeline.FillSolid, nil
	}
	return pipeline.FillWireframe, errors.Errorf("unknown fill mode %q", c.Render.Fill)
}
