package profiler

import (
	"log"
	"runtime"
	"time"
)

// GPUTimeFunc returns the GPU time of the previous frame in nanoseconds, or 0 when unknown.
type GPUTimeFunc func() uint64

// Profiler tracks frame rate, GPU frame time, and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	gpuTime    GPUTimeFunc
	gpuTotalNs uint64
	gpuSamples int
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are logged.
//
// Parameters:
//   - d: the logging interval (default 1 second)
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithGPUTime samples the GPU frame time once per Tick.
//
// Parameters:
//   - fn: returns the previous frame's GPU time in nanoseconds
//
// Returns:
//   - ProfilerOption: option function to apply
func WithGPUTime(fn GPUTimeFunc) ProfilerOption {
	return func(p *Profiler) {
		p.gpuTime = fn
	}
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// SetGPUTime replaces the GPU frame time source. A nil fn stops GPU sampling.
func (p *Profiler) SetGPUTime(fn GPUTimeFunc) {
	p.gpuTime = fn
	p.gpuTotalNs, p.gpuSamples = 0, 0
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	if p.gpuTime != nil {
		if ns := p.gpuTime(); ns > 0 {
			p.gpuTotalNs += ns
			p.gpuSamples++
		}
	}

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	lastPauseUs, maxPauseUs := p.gcPauses(gcCount)

	log.Printf("[Profiler] FPS: %.2f | GPU: %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, p.gpuSummary(), allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.gpuTotalNs, p.gpuSamples = 0, 0
	return true
}

// AverageGPUTime returns the mean GPU frame time sampled since the last log line.
func (p *Profiler) AverageGPUTime() time.Duration {
	if p.gpuSamples == 0 {
		return 0
	}
	return time.Duration(p.gpuTotalNs / uint64(p.gpuSamples))
}

func (p *Profiler) gpuSummary() string {
	if p.gpuTime == nil || p.gpuSamples == 0 {
		return "n/a"
	}
	return p.AverageGPUTime().String()
}

// gcPauses returns the last and the largest GC pause since the previous log line.
// PauseNs is a circular buffer of the last 256 pauses.
func (p *Profiler) gcPauses(gcCount uint32) (lastUs, maxUs uint64) {
	if gcCount == 0 {
		return 0, 0
	}
	lastUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		maxUs = max(maxUs, p.memStats.PauseNs[i%256]/1000)
	}
	return lastUs, maxUs
}
