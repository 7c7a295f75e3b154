package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	b, err := cfg.BackendType()
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeWGPU, b)

	p, err := cfg.PacingPolicy()
	require.NoError(t, err)
	assert.Equal(t, fence.PacingDrainAll, p)

	f, err := cfg.FillMode()
	require.NoError(t, err)
	assert.Equal(t, pipeline.FillWireframe, f)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
[window]
title = "box"

[render]
backend = "headless"
pacing = "per-slot"
fence_timeout = "250ms"
clear_color = [0.1, 0.2, 0.3, 1.0]

[engine]
frames = 10
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "box", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "headless", cfg.Render.Backend)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Render.FenceTimeout))
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 1.0}, cfg.Render.ClearColor)
	assert.Equal(t, 10, cfg.Engine.Frames)
	assert.Equal(t, float32(60), cfg.Camera.FovDeg)

	p, err := cfg.PacingPolicy()
	require.NoError(t, err)
	assert.Equal(t, fence.PacingPerSlot, p)
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "[render]\nbackends = \"wgpu\"\n",
		"frame count":      "[render]\nframe_count = 3\n",
		"backend":          "[render]\nbackend = \"vulkan\"\n",
		"pacing":           "[render]\npacing = \"sometimes\"\n",
		"present mode":     "[render]\npresent_mode = \"mailbox\"\n",
		"fill":             "[render]\nfill = \"points\"\n",
		"clear colour":     "[render]\nclear_color = [2.0, 0.0, 0.0, 1.0]\n",
		"timeout":          "[render]\nfence_timeout = \"soon\"\n",
		"window size":      "[window]\nwidth = 0\n",
		"clip planes":      "[camera]\nnear = 10.0\nfar = 1.0\n",
		"field of view":    "[camera]\nfov_deg = 180.0\n",
		"negative frames":  "[engine]\nframes = -1\n",
		"negative workers": "[assets]\nworkers = -2\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.Backend = "headless"
	cfg.Render.FenceTimeout = Duration(2 * time.Second)

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "fence_timeout")
	assert.Contains(t, buf.String(), "2s")

	path := filepath.Join(t.TempDir(), "oxy-frame.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
