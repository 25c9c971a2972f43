package profiler

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickSamplesGPUTime(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	samples := []uint64{2_000_000, 0, 4_000_000}
	i := 0
	p := NewProfiler(WithInterval(time.Hour), WithGPUTime(func() uint64 {
		ns := samples[i%len(samples)]
		i++
		return ns
	}))

	for range 3 {
		assert.False(t, p.Tick())
	}
	assert.Equal(t, 3*time.Millisecond, p.AverageGPUTime(), "zero samples are skipped")

	p.lastTime = time.Now().Add(-2 * time.Hour)
	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "[Profiler] FPS:")
	assert.Zero(t, p.AverageGPUTime())
}

func TestTickWithoutGPUTime(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	p := NewProfiler(WithInterval(time.Nanosecond))
	time.Sleep(time.Millisecond)
	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "GPU: n/a")

	p.SetGPUTime(func() uint64 { return 1 })
	assert.Zero(t, p.AverageGPUTime())
}
