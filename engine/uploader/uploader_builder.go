package uploader

// UploaderBuilderOption is a functional option for configuring an Uploader.
type UploaderBuilderOption func(*uploader)

// WithWorkers sets the number of pool workers. Values below 1 are raised to 1.
//
// Parameters:
//   - n: the worker count (default NumCPU-1)
//
// Returns:
//   - UploaderBuilderOption: option function to apply
func WithWorkers(n int) UploaderBuilderOption {
	return func(u *uploader) {
		u.workers = max(n, 1)
	}
}

// WithQueueSize sets the pending task capacity of the pool.
//
// Parameters:
//   - n: the queue capacity (default 256)
//
// Returns:
//   - UploaderBuilderOption: option function to apply
func WithQueueSize(n int) UploaderBuilderOption {
	return func(u *uploader) {
		if n > 0 {
			u.queueSize = n
		}
	}
}

// WithChunkSize sets the largest copy a single task performs.
//
// Parameters:
//   - n: the chunk size in bytes (default DefaultChunkSize)
//
// Returns:
//   - UploaderBuilderOption: option function to apply
func WithChunkSize(n int) UploaderBuilderOption {
	return func(u *uploader) {
		if n > 0 {
			u.chunkSize = n
		}
	}
}
