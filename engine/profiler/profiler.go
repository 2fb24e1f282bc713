package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-rp/common"
)

// FrameStats summarises one pipeline frame.
type FrameStats struct {
	Cameras     int
	Skipped     int
	Temporaries int
	Duration    time.Duration
}

// Profiler aggregates frame statistics and reports them through the package logger at an interval.
type Profiler struct {
	mu *sync.Mutex

	updateInterval time.Duration
	lastReport     time.Time
	now            func() time.Time

	frames      int
	cameras     int
	skipped     int
	temporaries int
	busy        time.Duration

	memStats       runtime.MemStats
	lastTotalAlloc uint64
	lastGCCount    uint32

	last Report
}

// Report is the aggregate of the frames between two reports.
type Report struct {
	FPS                  float64
	Frames               int
	CamerasPerFrame      float64
	SkippedCameras       int
	TemporariesPerFrame  float64
	AverageFrameDuration time.Duration
	HeapMB               float64
	AllocRateMB          float64
	GCCount              uint32
}

// NewProfiler creates a Profiler that reports once per second.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the profiler
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastReport = p.now()
	return p
}

// Tick records one frame and logs a report when the update interval has elapsed.
//
// Parameters:
//   - stats: the frame's statistics
//
// Returns:
//   - bool: true if a report was logged by this call
func (p *Profiler) Tick(stats FrameStats) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frames++
	p.cameras += stats.Cameras
	p.skipped += stats.Skipped
	p.temporaries += stats.Temporaries
	p.busy += stats.Duration

	now := p.now()
	elapsed := now.Sub(p.lastReport)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	frames := float64(p.frames)
	r := Report{
		FPS:                  frames / elapsed.Seconds(),
		Frames:               p.frames,
		CamerasPerFrame:      float64(p.cameras) / frames,
		SkippedCameras:       p.skipped,
		TemporariesPerFrame:  float64(p.temporaries) / frames,
		AverageFrameDuration: p.busy / time.Duration(p.frames),
		HeapMB:               float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:          float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:              p.memStats.NumGC - p.lastGCCount,
	}
	common.Logger().Info("[Profiler]",
		"fps", r.FPS,
		"cameras", r.CamerasPerFrame,
		"skipped", r.SkippedCameras,
		"temporaries", r.TemporariesPerFrame,
		"frame", r.AverageFrameDuration,
		"heapMB", r.HeapMB,
		"allocMBps", r.AllocRateMB,
		"gc", r.GCCount,
	)

	p.last = r
	p.frames, p.cameras, p.skipped, p.temporaries, p.busy = 0, 0, 0, 0, 0
	p.lastReport = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastGCCount = p.memStats.NumGC
	return true
}

// LastReport returns the most recent report, or the zero Report before the first one.
func (p *Profiler) LastReport() Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
