package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionRejectsUnparsableRenderSettings(t *testing.T) {
	cases := map[string]func(*config.Config){
		"backend":      func(c *config.Config) { c.Render.Backend = "vulkan" },
		"pacing":       func(c *config.Config) { c.Render.Pacing = "eventually" },
		"present mode": func(c *config.Config) { c.Render.PresentMode = "triple" },
		"fill":         func(c *config.Config) { c.Render.Fill = "dotted" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Render.Backend = "headless"
			mutate(&cfg)

			e, cleanup, err := newSession(cfg)
			assert.Error(t, err)
			assert.Nil(t, e)
			assert.Nil(t, cleanup)
		})
	}
}

func TestNewSessionHeadless(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Backend = "headless"
	cfg.Engine.Frames = 1

	e, cleanup, err := newSession(cfg)
	require.NoError(t, err)
	defer cleanup()
	require.NoError(t, e.Run())
}
