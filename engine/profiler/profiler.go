package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
)

// Sample is one profiler report.
type Sample struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64

	// Render is the renderer's counters at the time of the sample, zero without a stats source.
	Render renderer.Stats
}

// Profiler tracks frame rate, memory and fence statistics.
// Reports to the shared logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	stats renderer.StatsReporter
	last  Sample
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options applied to the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs a Sample when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = time.Nanosecond.Seconds()
	}

	runtime.ReadMemStats(&p.memStats)
	s := Sample{
		FPS:         float64(p.frameCount) / seconds,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	if s.GCCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	attrs := []any{
		"fps", s.FPS,
		"heapMB", s.HeapMB,
		"allocRateMBs", s.AllocRateMB,
		"gc", s.GCCount,
		"gcLastUs", s.LastPauseUs,
		"gcMaxUs", s.MaxPauseUs,
		"sysMB", s.SysMB,
	}
	if p.stats != nil {
		s.Render = p.stats.Stats()
		attrs = append(attrs,
			"frames", s.Render.Frames,
			"frameIndex", s.Render.FrameIndex,
			"pacing", s.Render.Pacing.String(),
			"fenceNext", s.Render.Fence.Next,
			"fenceCompleted", s.Render.Fence.Completed,
			"fenceWaits", s.Render.Fence.Waits,
			"fenceBlocked", s.Render.Fence.Blocked,
		)
	}
	common.Logger().Info("profile", attrs...)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged sample.
//
// Returns:
//   - Sample: the sample, zero before the first report
func (p *Profiler) Last() Sample {
	return p.last
}
