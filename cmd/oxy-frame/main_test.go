package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "oxy-frame dev\n", out)
}

func TestConfigPrintsDefaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[render]")
	assert.Contains(t, out, "frame_count = 2")
}

func TestRunHeadlessRendersEmbeddedMesh(t *testing.T) {
	_, err := execute(t, "run", "--backend", "headless", "--pacing", "per-slot", "--frames", "4")
	require.NoError(t, err)
}

func TestRunRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "run", "--backend", "headless", "--pacing", "eventually")
	assert.Error(t, err)
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	mesh := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(mesh, []byte("mtllib tri.mtl\no tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl red\nf 1 2 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.mtl"), []byte("newmtl red\nKd 1 0 0\n"), 0o644))

	cfg := config.Default()
	cfg.Render.Backend = "headless"
	cfg.Assets.Mesh = mesh
	cfg.Engine.Frames = 2
	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	path := filepath.Join(dir, "oxy-frame.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := execute(t, "run", "--config", path)
	require.NoError(t, err)
}

func TestRunMalformedMeshFails(t *testing.T) {
	dir := t.TempDir()
	mesh := filepath.Join(dir, "bad.obj")
	require.NoError(t, os.WriteFile(mesh, []byte("mtllib bad.mtl\no bad\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl purple\nf 1 2 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.mtl"), []byte("newmtl red\nKd 1 0 0\n"), 0o644))

	cfg := config.Default()
	cfg.Render.Backend = "headless"
	cfg.Assets.Mesh = mesh
	cfg.Engine.Frames = 2
	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	path := filepath.Join(dir, "oxy-frame.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := execute(t, "run", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown material")
}
