package renderer

import "sync"

// mainQueue collects closures posted from any goroutine for execution on the main thread.
// Tasks run in submission order; each task runs exactly once.
type mainQueue struct {
	mu    sync.Mutex
	tasks []func()
}

// push appends a task. Safe to call from any goroutine, including from a running task.
func (q *mainQueue) push(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// drain runs every task queued before the call and returns how many ran.
// Tasks queued while draining are left for the next drain.
func (q *mainQueue) drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

// len returns the number of pending tasks.
func (q *mainQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
