package timer

import (
	"sync"
	"time"
)

// Fake is a Scheduler driven by a virtual clock. Time only moves when
// Advance is called; due callbacks fire synchronously, in timestamp
// order with ties broken by arming order. Callbacks run without the
// Fake's lock held, so they may arm or stop timers themselves.
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	f        *Fake
	at       time.Duration
	interval time.Duration // zero means one-shot
	fn       func()
	stopped  bool
	seq      int
}

// NewFake returns a Scheduler on a virtual clock starting at zero.
func NewFake() *Fake {
	return &Fake{}
}

// After implements Scheduler.
func (f *Fake) After(d time.Duration, fn func()) Handle {
	return f.arm(d, 0, fn)
}

// Every implements Scheduler. The first fire is one interval from now.
func (f *Fake) Every(d time.Duration, fn func()) Handle {
	return f.arm(d, d, fn)
}

func (f *Fake) arm(d, interval time.Duration, fn func()) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{
		f:        f,
		at:       f.now + d,
		interval: interval,
		fn:       fn,
		seq:      f.seq,
	}
	f.seq++
	f.timers = append(f.timers, t)
	return t
}

// Now returns the virtual clock reading.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Pending reports how many timers are armed and not stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every due callback in
// order. A callback that arms a new timer due within the window will
// see that timer fire during the same Advance call.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	for {
		t := f.nextDueLocked(target)
		if t == nil {
			break
		}
		f.now = t.at
		if t.interval > 0 {
			t.at += t.interval
		} else {
			t.stopped = true
		}
		fn := t.fn
		f.mu.Unlock()
		fn()
		f.mu.Lock()
	}
	f.now = target
	f.compactLocked()
	f.mu.Unlock()
}

func (f *Fake) nextDueLocked(target time.Duration) *fakeTimer {
	var due *fakeTimer
	for _, t := range f.timers {
		if t.stopped || t.at > target {
			continue
		}
		if due == nil || t.at < due.at || (t.at == due.at && t.seq < due.seq) {
			due = t
		}
	}
	return due
}

func (f *Fake) compactLocked() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	f.timers = live
}

// Stop implements Handle.
func (t *fakeTimer) Stop() {
	t.f.mu.Lock()
	t.stopped = true
	t.f.mu.Unlock()
}
