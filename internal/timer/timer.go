// Package timer provides the scheduling capability the generation
// engine consumes: one-shot and repeating timers behind an interface,
// so tests can drive the engine on a virtual clock.
package timer

import (
	"sync"
	"time"
)

// Handle identifies an armed timer. Stop is idempotent; stopping a
// timer guarantees its callback will not fire again, though a callback
// already in flight may still complete.
type Handle interface {
	Stop()
}

// Scheduler arms callbacks to fire after a delay or at an interval.
type Scheduler interface {
	// After fires fn once after d.
	After(d time.Duration, fn func()) Handle
	// Every fires fn repeatedly, every d, until stopped.
	Every(d time.Duration, fn func()) Handle
}

// New returns a Scheduler backed by the real clock.
func New() Scheduler {
	return realScheduler{}
}

type realScheduler struct{}

func (realScheduler) After(d time.Duration, fn func()) Handle {
	return afterHandle{t: time.AfterFunc(d, fn)}
}

func (realScheduler) Every(d time.Duration, fn func()) Handle {
	h := &everyHandle{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-h.ticker.C:
				fn()
			case <-h.done:
				return
			}
		}
	}()
	return h
}

type afterHandle struct {
	t *time.Timer
}

func (h afterHandle) Stop() {
	h.t.Stop()
}

type everyHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (h *everyHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}
