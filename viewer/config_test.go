package viewer

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig([]byte("camera:\n  speed: 5\n  position: [1, 2, 3]\nremote:\n  listen: 127.0.0.1:7777\n  lockTimeout: 250ms\n"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.Camera.Speed)
	assert.Equal(t, [3]float64{1, 2, 3}, c.Camera.Position)
	assert.Equal(t, "127.0.0.1:7777", c.Remote.Listen)
	assert.Equal(t, 250*time.Millisecond, c.Remote.LockTimeout)
	// Untouched keys keep their defaults
	def := DefaultConfig()
	assert.Equal(t, def.Camera.Inertia, c.Camera.Inertia)
	assert.Equal(t, def.Window, c.Window)
	assert.Equal(t, def.Render, c.Render)
}

func TestParseConfigValidation(t *testing.T) {
	_, err := ParseConfig([]byte("camera:\n  inertia: 1\nrender:\n  resInv: 0\n  background: notacolor\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "inertia")
	assert.ErrorContains(t, err, "resInv")
	assert.ErrorContains(t, err, `"notacolor"`)

	_, err = ParseConfig([]byte("camera: [this is not a map"))
	assert.ErrorContains(t, err, "parse config")
}

func TestNamedColor(t *testing.T) {
	c, err := NamedColor("gold")
	require.NoError(t, err)
	assert.Equal(t, colornames.Gold, c)
	_, err = NamedColor("Gold")
	assert.Error(t, err)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  speed: 1\n"), 0o644))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan *Config, 8)
	require.NoError(t, WatchConfig(ctx, path, func(c *Config) { changes <- c }))

	// Other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  speed: 7\n"), 0o644))
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			// The truncated file may be seen first
			if c.Camera.Speed == 7 {
				return
			}
		case <-timeout:
			t.Fatal("no reload")
		}
	}
}
