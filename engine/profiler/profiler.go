// Package profiler reports frame rate and memory statistics for one render loop.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-dualview/common"
)

// Stats is one reporting window's worth of measurements.
type Stats struct {
	// FPS is the average frame rate over the window.
	FPS float64
	// HeapMB is the live heap size.
	HeapMB float64
	// AllocRateMB is heap allocation churn in MB per second.
	AllocRateMB float64
	// GCCount is the cumulative number of collections.
	GCCount uint32
	// LastPauseUs and MaxPauseUs are GC pause times in microseconds.
	LastPauseUs uint64
	MaxPauseUs  uint64
	// SysMB is the memory obtained from the OS.
	SysMB float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Reports through the engine logger at a configurable interval. A Profiler is used
// from a single render loop and is not safe for concurrent Tick calls.
type Profiler struct {
	label          string
	clock          func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - label: identifies the render loop in log output (the viewport id)
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(label string, options ...ProfilerOption) *Profiler {
	p := &Profiler{
		label:          label,
		clock:          time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.clock()
	return p
}

// Label returns the profiler's label.
func (p *Profiler) Label() string {
	return p.label
}

// Last returns the stats from the most recent report.
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed: FPS, heap usage,
// allocation rate, GC count and pause times, total memory.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.clock()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS: float64(p.frameCount) / elapsed.Seconds(),
		// Alloc is live heap; Sys is the process footprint.
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Info("profile",
		"viewport", p.label,
		"fps", s.FPS,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
