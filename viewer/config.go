package viewer

import (
	"context"
	"errors"
	"fmt"
	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"time"
)

//-----------------------------------------------------------------------------
// CONFIGURATION
//-----------------------------------------------------------------------------

// Config is the YAML configuration of the viewer. Missing keys keep the values of DefaultConfig.
type Config struct {
	Window struct {
		Title  string `yaml:"title"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
	} `yaml:"window"`
	Camera struct {
		Position           [3]float64 `yaml:"position"`
		Target             [3]float64 `yaml:"target"`
		Speed              float64    `yaml:"speed"`
		Inertia            float64    `yaml:"inertia"`
		Fov                float64    `yaml:"fov"`
		AngularSensibility float64    `yaml:"angularSensibility"`
		Collisions         bool       `yaml:"collisions"`
		Gravity            bool       `yaml:"gravity"`
		Stereo             bool       `yaml:"stereo"`
	} `yaml:"camera"`
	Gizmo struct {
		ScaleRatio    float64 `yaml:"scaleRatio"`
		TranslateSnap float64 `yaml:"translateSnap"`
		RotateSnap    float64 `yaml:"rotateSnap"` // Radians
		ScaleSnap     float64 `yaml:"scaleSnap"`
		Planar        bool    `yaml:"planar"`
	} `yaml:"gizmo"`
	Render struct {
		ResInv     int     `yaml:"resInv"` // Render one pixel every ResInv screen pixels
		MeshCells  int     `yaml:"meshCells"`
		GizmoCells int     `yaml:"gizmoCells"`
		Smoothing  float64 `yaml:"smoothing"` // Normal smoothing threshold (radians)
		Background string  `yaml:"background"`
		Selected   string  `yaml:"selected"`
		Text       string  `yaml:"text"`
	} `yaml:"render"`
	Remote struct {
		Listen      string        `yaml:"listen"` // Disabled if empty
		LockTimeout time.Duration `yaml:"lockTimeout"`
	} `yaml:"remote"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	c := &Config{}
	c.Window.Title = "SDFX Gizmo Editor"
	c.Window.Width, c.Window.Height = 1280, 720
	c.Camera.Position = [3]float64{4, 3, -6}
	c.Camera.Speed = 2
	c.Camera.Inertia = 0.9
	c.Camera.Fov = 0.8
	c.Camera.AngularSensibility = 2000
	c.Gizmo.ScaleRatio = 1
	c.Render.ResInv = 2
	c.Render.MeshCells = 64
	c.Render.GizmoCells = 24
	c.Render.Smoothing = 1
	c.Render.Background = "black"
	c.Render.Selected = "gold"
	c.Render.Text = "lime"
	c.Remote.LockTimeout = 100 * time.Millisecond
	return c
}

// ParseConfig reads YAML data over DefaultConfig and validates it.
func ParseConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Inertia < 0 || c.Camera.Inertia >= 1 {
		errs = append(errs, fmt.Errorf("camera inertia must be in [0, 1), got %v", c.Camera.Inertia))
	}
	if c.Camera.Fov <= 0 {
		errs = append(errs, fmt.Errorf("camera fov must be positive, got %v", c.Camera.Fov))
	}
	if c.Render.ResInv < 1 {
		errs = append(errs, fmt.Errorf("render resInv must be at least 1, got %d", c.Render.ResInv))
	}
	for _, name := range []string{c.Render.Background, c.Render.Selected, c.Render.Text} {
		if _, err := NamedColor(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NamedColor resolves an SVG 1.1 color name ("black", "gold", ...).
func NamedColor(name string) (color.RGBA, error) {
	c, ok := colornames.Map[name]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color name %q", name)
	}
	return c, nil
}

func mustColor(name string) color.RGBA {
	c, err := NamedColor(name)
	if err != nil {
		panic(err) // Validated on load
	}
	return c
}

//-----------------------------------------------------------------------------
// HOT RELOAD
//-----------------------------------------------------------------------------

// configReloadTries bounds the attempts to parse a file that is still being written.
const configReloadTries = 5

// WatchConfig calls onChange with the new configuration every time the file at path is written, until ctx is done.
// Editors usually write in several steps, so failed parses are retried with exponential backoff before giving up
// on that change.
func WatchConfig(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := newFsWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	// Watch the directory: some editors replace the file instead of writing to it
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config: %w", err)
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				c, err := reloadConfig(ctx, path)
				if err != nil {
					log.Println("[Viewer] ERROR: config reload:", err)
					continue
				}
				log.Println("[Viewer] Reloaded", path)
				onChange(c)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("[Viewer] WARNING: config watcher:", err)
			}
		}
	}()
	return nil
}

func reloadConfig(ctx context.Context, path string) (*Config, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	return backoff.Retry(ctx, func() (*Config, error) {
		return LoadConfig(path)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(configReloadTries), backoff.WithNotify(func(err error, wait time.Duration) {
		log.Println("[Viewer] WARNING:", err, "retrying in", wait)
	}))
}
