package service

import (
	"context"
	"sync"
)

// ExportedInflight lets _test packages exercise the guard directly.
type ExportedInflight = inflight

// ─────────────────────────────────────────────────────────────
// inflight: at most one worker per key, and a way to drain them
// ─────────────────────────────────────────────────────────────

// inflight keeps the inbox from processing a file twice when fsnotify
// reports several events for it, and keeps prune runs from overlapping.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
	wg   sync.WaitGroup
}

// TryAcquire marks key busy. It returns false if key is already busy.
func (g *inflight) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys == nil {
		g.keys = make(map[string]struct{})
	}
	if _, busy := g.keys[key]; busy {
		return false
	}
	g.keys[key] = struct{}{}
	g.wg.Add(1)
	return true
}

// Release frees key. Call it exactly once per successful TryAcquire.
func (g *inflight) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	g.wg.Done()
}

// Wait blocks until every busy key is released or ctx ends.
func (g *inflight) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
