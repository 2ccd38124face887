package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const removeTimeout = 30 * time.Second

// Janitor removes superseded artifacts in the background. Removal is best-effort:
// failures are logged and never reported to the request that scheduled them.
type Janitor struct {
	l     *zap.Logger
	queue chan removal

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type removal struct {
	store Store
	path  string
}

// NewJanitor starts a janitor with a queue of the given capacity.
func NewJanitor(l *zap.Logger, capacity int) *Janitor {
	if capacity <= 0 {
		capacity = 1
	}
	j := &Janitor{
		l:     l,
		queue: make(chan removal, capacity),
	}

	j.wg.Add(1)
	go j.worker()

	return j
}

// Remove schedules deletion of path from store and never blocks on the store.
// When the queue is full the removal gets its own goroutine; once the janitor is
// closed it runs inline so no artifact is silently kept.
func (j *Janitor) Remove(store Store, path string) {
	if path == "" {
		return
	}
	r := removal{store: store, path: path}

	j.mu.RLock()
	if !j.closed {
		select {
		case j.queue <- r:
		default:
			j.l.Warn("cleanup queue full, removing out of band", zap.String("path", path))
			j.wg.Add(1)
			go func() {
				defer j.wg.Done()
				j.remove(r)
			}()
		}
		j.mu.RUnlock()
		return
	}
	j.mu.RUnlock()

	j.remove(r)
}

// Close stops accepting work and waits until queued removals are done.
func (j *Janitor) Close() {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *Janitor) worker() {
	defer j.wg.Done()
	for r := range j.queue {
		j.remove(r)
	}
}

func (j *Janitor) remove(r removal) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	err := r.store.Remove(ctx, r.path)
	switch {
	case err == nil:
		j.l.Debug("artifact removed", zap.String("path", r.path))
	case errors.Is(err, ErrNotExist):
		j.l.Warn("artifact already gone", zap.String("path", r.path))
	default:
		j.l.Error("failed to remove artifact", zap.String("path", r.path), zap.Error(err))
	}
}
