package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infiniteroad/logger"
	"infiniteroad/stream"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, stream.Config{SegmentLength: 50, Capacity: 10, ProximityThreshold: 350}, cfg.StreamConfig())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
stream:
  capacity: 4
road:
  colors: [0xff0000]
camera:
  speed: 35
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Stream.Capacity)
	assert.Equal(t, 50.0, cfg.Stream.SegmentLength)
	assert.Equal(t, []uint32{0xff0000}, cfg.Road.Colors)
	assert.Equal(t, float32(35), cfg.Camera.Speed)
	assert.Equal(t, float32(5), cfg.Camera.Height)
}

func TestParseRejectsBadStream(t *testing.T) {
	_, err := Parse([]byte("stream:\n  segment_length: 0\n"))
	assert.ErrorIs(t, err, stream.ErrInvalidConfiguration)

	_, err = Parse([]byte("stream:\n  capacity: 0\n"))
	assert.ErrorIs(t, err, stream.ErrInvalidConfiguration)
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"lanes":      "road:\n  lanes: 0\n",
		"colours":    "road:\n  colors: []\n",
		"wavelength": "path:\n  wavelength: 0\n",
		"fov":        "camera:\n  fov_degrees: 180\n",
		"collector":  "collector:\n  radius: 5\n  max_radius: 2\n",
		"outrun":     "camera:\n  speed: 2000\n",
		"shrink":     "collector:\n  growth: -0.5\n",
		"nan growth": "collector:\n  growth: .nan\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("stream: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "road.yaml")
	require.NoError(t, os.WriteFile(path, []byte("road:\n  lanes: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Road.Lanes)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchDeliversReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "road.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  speed: 10\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path, logger.Nop())
	require.NoError(t, err)

	// An invalid edit is skipped, the following valid one comes through.
	require.NoError(t, os.WriteFile(path, []byte("road:\n  lanes: 0\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  speed: 42\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-updates:
			if cfg.Camera.Speed == 42 {
				cancel()
				for range updates {
				}
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
