package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats struct {
	stats renderer.Stats
}

func (f fixedStats) Stats() renderer.Stats { return f.stats }

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler(WithInterval(time.Hour))
	for i := 0; i < 10; i++ {
		assert.False(t, p.Tick())
	}
	assert.Equal(t, Sample{}, p.Last())
}

func TestTickReportsRendererStats(t *testing.T) {
	src := fixedStats{stats: renderer.Stats{
		Frames:     42,
		FrameIndex: 1,
		Pacing:     fence.PacingPerSlot,
		Fence:      fence.Stats{Next: 43, Completed: 41},
	}}
	p := NewProfiler(WithInterval(0), WithStatsSource(src))

	require.True(t, p.Tick())
	s := p.Last()
	assert.Greater(t, s.FPS, 0.0)
	assert.Greater(t, s.SysMB, 0.0)
	assert.Equal(t, uint64(42), s.Render.Frames)
	assert.Equal(t, uint64(41), s.Render.Fence.Completed)
}
