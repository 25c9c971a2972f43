package renderer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimerReadsPreviousFrame(t *testing.T) {
	q := &fakeTimerQueries{pendingPolls: 3}
	timer := NewFrameTimer(q)
	require.True(t, timer.Enabled())

	// frame 1 writes bank 1
	timer.SetFrame(1)
	q.clock = 1000
	timer.Stamp(TimerQueryFrameRef)
	q.clock = 1750
	timer.Stamp(TimerQueryFrameEnd)
	assert.Zero(t, timer.Delta(TimerQueryFrameRef, TimerQueryFrameEnd), "bank 0 was never stamped")

	// frame 2 writes bank 0 and reads bank 1
	timer.SetFrame(2)
	q.clock = 5000
	timer.Stamp(TimerQueryFrameRef)
	q.clock = 5200
	timer.Stamp(TimerQueryFrameEnd)
	assert.Equal(t, uint64(750), timer.Delta(TimerQueryFrameRef, TimerQueryFrameEnd))
	assert.Greater(t, q.polls, q.pendingPolls, "Delta waits for availability")

	// frame 3 reads what frame 2 wrote
	timer.SetFrame(3)
	assert.Equal(t, uint64(200), timer.Delta(TimerQueryFrameRef, TimerQueryFrameEnd))
}

func TestFrameTimerNeverReturnsStaleSlots(t *testing.T) {
	q := &fakeTimerQueries{}
	timer := NewFrameTimer(q)

	timer.SetFrame(1)
	q.clock = 10
	timer.Stamp(TimerQueryFrameRef)
	q.clock = 60
	timer.Stamp(3)

	timer.SetFrame(2)
	assert.Equal(t, uint64(50), timer.Delta(TimerQueryFrameRef, 3))

	// frame 3 reuses frame 1's bank without stamping slot 3
	timer.SetFrame(3)
	timer.Stamp(TimerQueryFrameRef)
	timer.SetFrame(4)
	assert.Zero(t, timer.Delta(TimerQueryFrameRef, 3))

	// a skipped frame leaves nothing to read
	timer.Stamp(TimerQueryFrameRef)
	timer.Stamp(3)
	timer.SetFrame(7)
	assert.Zero(t, timer.Delta(TimerQueryFrameRef, 3))
}

func TestFrameTimerRejectsBadRanges(t *testing.T) {
	captureLog(t)

	timer := NewFrameTimer(&fakeTimerQueries{})
	timer.SetFrame(2)
	for _, r := range [][2]int{{3, 3}, {5, 2}, {-1, 2}, {0, NumTimerQueries}} {
		assert.Zero(t, timer.Delta(r[0], r[1]), "range %v", r)
	}
}

func TestFrameTimerWithoutQueries(t *testing.T) {
	timer := NewFrameTimer(nil)
	assert.False(t, timer.Enabled())
	timer.SetFrame(4)
	timer.Stamp(0)
	assert.Zero(t, timer.Delta(0, 1))
	timer.Delete()

	var unset *FrameTimer
	unset.SetFrame(1)
	unset.Stamp(0)
	assert.Zero(t, unset.Delta(0, 1))
}

func TestFrameTimerDeleteOnce(t *testing.T) {
	q := &fakeTimerQueries{}
	timer := NewFrameTimer(q)
	timer.Delete()
	timer.Delete()
	assert.Equal(t, 1, q.deleted)
	assert.False(t, timer.Enabled())
}

func TestMainQueueRunsInOrderOnce(t *testing.T) {
	var q mainQueue
	var got []int
	for i := range 5 {
		q.push(func() { got = append(got, i) })
	}
	assert.Equal(t, 5, q.len())

	assert.Equal(t, 5, q.drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, q.drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestMainQueueDefersTasksQueuedWhileDraining(t *testing.T) {
	var q mainQueue
	ran := 0
	q.push(func() {
		ran++
		q.push(func() { ran++ })
	})

	assert.Equal(t, 1, q.drain())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, q.drain())
	assert.Equal(t, 2, ran)
}

func TestMainQueueConcurrentPush(t *testing.T) {
	var q mainQueue
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				q.push(func() {
					mu.Lock()
					count++
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, q.drain())
	assert.Equal(t, 800, count)
}

func TestContextGuardRejectsSecondOwner(t *testing.T) {
	var g contextGuard

	lease, err := g.acquire()
	require.NoError(t, err)
	assert.True(t, g.held())

	_, err = g.acquire()
	assert.ErrorIs(t, err, ErrContextBusy)

	assert.ErrorIs(t, g.release(&ContextLease{id: lease.id}), ErrContextNotOwned)
	assert.ErrorIs(t, g.release(nil), ErrContextNotOwned)

	require.NoError(t, g.release(lease))
	assert.False(t, g.held())
	assert.ErrorIs(t, g.release(lease), ErrContextNotOwned)

	next, err := g.acquire()
	require.NoError(t, err)
	assert.NotEqual(t, lease.id, next.id)
}

func TestDebugFilterWrapsIndices(t *testing.T) {
	assert.Equal(t, newDebugFilter(0, 0, 0), newDebugFilter(7, 10, 4))
	assert.Equal(t, newDebugFilter(6, 9, 3), newDebugFilter(-1, -1, -1))

	f := newDebugFilter(1, 1, 3)
	assert.Equal(t, "source=API type=ERROR severity=HIGH", f.String())
}

func TestHandleDebugMessageFiltersIDs(t *testing.T) {
	buf := captureLog(t)

	assert.False(t, handleDebugMessage(0x8246, 0x8251, 131185, 0x9148, "buffer placed in VIDEO memory", false))
	assert.Empty(t, buf.String())

	assert.True(t, handleDebugMessage(0x8246, 0x824C, 1282, 0x9146, "GL_INVALID_OPERATION", false))
	assert.Equal(t, "[OPENGL_DEBUG] id=1282 source=API type=ERROR severity=HIGH msg=\"GL_INVALID_OPERATION\"\n", buf.String())
}
