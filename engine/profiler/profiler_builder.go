package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
)

// ProfilerBuilderOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often Tick reports.
//
// Parameters:
//   - d: the report interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval to a profiler
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithStatsSource adds the renderer's frame and fence counters to every report.
//
// Parameters:
//   - s: the stats source
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the stats source to a profiler
func WithStatsSource(s renderer.StatsReporter) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.stats = s
	}
}
