package renderer

import (
	"log"
	"runtime"
	"sync"
)

// NumTimerQueries is the number of timestamp slots per frame bank.
const NumTimerQueries = 8

const (
	// TimerQueryFrameRef is the slot stamped at the start of a frame.
	TimerQueryFrameRef = 0
	// TimerQueryFrameEnd is the slot stamped after the last draw of a frame.
	TimerQueryFrameEnd = NumTimerQueries - 1
)

// TimerQueries is the driver side of GPU timestamp queries.
// Slots are numbered 0 to 2*NumTimerQueries-1.
type TimerQueries interface {
	// Stamp records the GPU timestamp into slot once all prior commands complete.
	Stamp(slot int)

	// Available reports whether the result of slot can be read without stalling.
	Available(slot int) bool

	// Result returns the recorded timestamp of slot in nanoseconds.
	Result(slot int) uint64

	// Delete releases the driver query objects.
	Delete()
}

// FrameTimer is a double-buffered ring of GPU timestamps.
// Frame parity selects the bank written by Stamp; Delta reads the other bank,
// so values stamped during frame K are read during frame K+1.
type FrameTimer struct {
	mu      sync.Mutex
	queries TimerQueries
	frame   uint64

	// written marks slots stamped at least once, so Delta never waits on a slot the driver never saw.
	written [2 * NumTimerQueries]bool
}

// NewFrameTimer creates a timer ring over queries.
// A nil queries value produces a timer whose Stamp is a no-op and whose Delta is always 0.
func NewFrameTimer(queries TimerQueries) *FrameTimer {
	return &FrameTimer{queries: queries}
}

// SetFrame sets the current draw frame, which selects the banks used by Stamp and Delta.
func (t *FrameTimer) SetFrame(frame uint64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if frame == t.frame {
		return
	}
	// The write bank is reused from two frames back; the read bank is only valid
	// when it was written by the immediately preceding frame.
	t.clearBank(frame & 1)
	if frame != t.frame+1 {
		t.clearBank(1 - frame&1)
	}
	t.frame = frame
}

func (t *FrameTimer) clearBank(bank uint64) {
	clear(t.written[NumTimerQueries*int(bank) : NumTimerQueries*int(bank+1)])
}

// Enabled reports whether the timer has a driver behind it.
func (t *FrameTimer) Enabled() bool {
	return t != nil && t.queries != nil
}

// Stamp records a timestamp into slot idx of the current frame's bank.
func (t *FrameTimer) Stamp(idx int) {
	if !t.Enabled() {
		return
	}
	if idx < 0 || idx >= NumTimerQueries {
		log.Printf("[Renderer] warning: timer query slot %d out of range", idx)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	slot := NumTimerQueries*int(t.frame&1) + idx
	t.queries.Stamp(slot)
	t.written[slot] = true
}

// Delta returns the GPU time in nanoseconds between slots a and b as stamped during the
// previous frame. It waits until the driver has the result for b.
// Returns 0 unless a < b < NumTimerQueries, or when either slot was never stamped.
func (t *FrameTimer) Delta(a, b int) uint64 {
	if !t.Enabled() {
		return 0
	}
	if a < 0 || a >= b || b >= NumTimerQueries {
		log.Printf("[Renderer] warning: invalid timer query range [%d, %d]", a, b)
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	base := NumTimerQueries * int(1-(t.frame&1))
	sa, sb := base+a, base+b
	if !t.written[sa] || !t.written[sb] {
		return 0
	}

	for !t.queries.Available(sb) {
		runtime.Gosched()
	}

	ta, tb := t.queries.Result(sa), t.queries.Result(sb)
	if tb < ta {
		return 0
	}
	return tb - ta
}

// Delete releases the driver queries.
func (t *FrameTimer) Delete() {
	if !t.Enabled() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queries.Delete()
	t.queries = nil
}
