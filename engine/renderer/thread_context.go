package renderer

import (
	"fmt"
	"sync"
)

// ContextLease proves ownership of the graphics context.
// It is returned by AcquireThreadContext and must be passed back to ReleaseThreadContext.
type ContextLease struct {
	id uint64
}

// contextGuard enforces that at most one goroutine holds the graphics context.
type contextGuard struct {
	mu    sync.Mutex
	next  uint64
	owner *ContextLease
}

func (g *contextGuard) acquire() (*ContextLease, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.owner != nil {
		return nil, ErrContextBusy
	}
	g.next++
	g.owner = &ContextLease{id: g.next}
	return g.owner, nil
}

func (g *contextGuard) release(lease *ContextLease) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if lease == nil || g.owner != lease {
		return fmt.Errorf("failed to release context: %w", ErrContextNotOwned)
	}
	g.owner = nil
	return nil
}

func (g *contextGuard) held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.owner != nil
}
