package uploader

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-render/common"
)

const (
	// DefaultChunkSize is the largest copy handed to a single worker task.
	DefaultChunkSize = 64 << 10

	defaultQueueSize   = 256
	defaultIdleTimeout = 1 * time.Second
)

// ErrRegionOutOfRange is returned when a region does not fit inside the mapped buffer.
var ErrRegionOutOfRange = errors.New("region out of range")

// Region is a block of bytes destined for Offset inside a mapped buffer.
type Region struct {
	Offset int
	Data   []byte
}

// RegionOf views a typed slice as a Region without copying.
// The slice must not be modified until the write completes.
//
// Parameters:
//   - offset: destination byte offset
//   - data: the source elements
//
// Returns:
//   - Region: the byte view of data at offset
func RegionOf[T any](offset int, data []T) Region {
	return Region{Offset: offset, Data: common.SliceToBytes(data)}
}

// End returns the exclusive end offset of the region.
func (r Region) End() int {
	return r.Offset + len(r.Data)
}

// uploader is the implementation of the Uploader interface.
type uploader struct {
	pool        worker.DynamicWorkerPool
	workers     int
	queueSize   int
	chunkSize   int
	idleTimeout time.Duration

	mu     sync.Mutex
	nextID int
}

// Uploader copies data into persistently mapped GPU buffers from a fixed set of workers.
//
// An Uploader never touches the graphics context: it only writes into byte slices that
// were mapped by the render thread, so it is safe to use from any goroutine.
type Uploader interface {
	// Write copies every region into dst in parallel and waits for all copies to finish.
	// All regions are bounds-checked before any byte is written.
	//
	// Parameters:
	//   - dst: the mapped buffer
	//   - regions: the blocks to copy; they must not overlap
	//
	// Returns:
	//   - error: ErrRegionOutOfRange if any region does not fit in dst
	Write(dst []byte, regions ...Region) error

	// Run calls fn for every index in [0, n) across the workers and waits for completion.
	//
	// Parameters:
	//   - n: the number of jobs
	//   - fn: the job body, receiving the job index
	//
	// Returns:
	//   - error: every error returned by fn, joined
	Run(n int, fn func(i int) error) error

	// Workers returns the configured worker count.
	Workers() int
}

var _ Uploader = &uploader{}

// NewUploader creates a new Uploader backed by a dynamic worker pool.
// Options are applied before the pool is started so WithWorkers can override the default.
//
// Parameters:
//   - options: functional options to configure the uploader
//
// Returns:
//   - Uploader: the newly created uploader
func NewUploader(options ...UploaderBuilderOption) Uploader {
	u := &uploader{
		workers:     max(runtime.NumCPU()-1, 1),
		queueSize:   defaultQueueSize,
		chunkSize:   DefaultChunkSize,
		idleTimeout: defaultIdleTimeout,
	}

	for _, opt := range options {
		opt(u)
	}

	u.pool = worker.NewDynamicWorkerPool(u.workers, u.queueSize, u.idleTimeout)
	log.Printf("[Uploader] started with %d workers, %d byte chunks", u.workers, u.chunkSize)
	return u
}

func (u *uploader) Workers() int {
	return u.workers
}

func (u *uploader) Write(dst []byte, regions ...Region) error {
	for i, r := range regions {
		if r.Offset < 0 || r.End() > len(dst) {
			return fmt.Errorf("failed to write region %d [%d, %d) into %d bytes: %w", i, r.Offset, r.End(), len(dst), ErrRegionOutOfRange)
		}
	}

	chunks := u.split(regions)
	return u.Run(len(chunks), func(i int) error {
		c := chunks[i]
		copy(dst[c.Offset:c.End()], c.Data)
		return nil
	})
}

// split cuts regions into chunks no larger than chunkSize.
func (u *uploader) split(regions []Region) []Region {
	chunks := make([]Region, 0, len(regions))
	for _, r := range regions {
		for off := 0; off < len(r.Data); off += u.chunkSize {
			end := min(off+u.chunkSize, len(r.Data))
			chunks = append(chunks, Region{Offset: r.Offset + off, Data: r.Data[off:end]})
		}
	}
	return chunks
}

func (u *uploader) Run(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	u.mu.Lock()
	base := u.nextID
	u.nextID += n
	u.mu.Unlock()

	wg.Add(n)
	for i := range n {
		u.pool.SubmitTask(worker.Task{
			ID: base + i,
			Do: func() (any, error) {
				defer wg.Done()
				if err := fn(i); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("job %d: %w", i, err))
					mu.Unlock()
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}
