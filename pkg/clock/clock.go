// Package clock lets timer driven code run against a fake time source in
// tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	NewTicker(d time.Duration) Ticker
}

type Timer interface {
	Stop() bool
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Real is backed by package time.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

func (Real) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Fake only moves when Advance is called. Timer callbacks run on the
// goroutine calling Advance; ticks are dropped when the channel is full,
// like time.Ticker.
type Fake struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	waiters []*waiter
}

type waiter struct {
	at      time.Time
	period  time.Duration
	fn      func()
	ch      chan time.Time
	stopped bool
	clock   *Fake
}

func NewFake(start time.Time) *Fake {
	f := &Fake{now: start}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return fakeTimer{f.add(&waiter{at: f.Now().Add(d), fn: fn})}
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	return fakeTicker{f.add(&waiter{at: f.Now().Add(d), period: d, ch: make(chan time.Time, 1)})}
}

func (f *Fake) add(w *waiter) *waiter {
	f.mu.Lock()
	w.clock = f
	f.waiters = append(f.waiters, w)
	f.cond.Broadcast()
	f.mu.Unlock()
	return w
}

// Pending counts live timers and tickers.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingLocked()
}

func (f *Fake) pendingLocked() int {
	n := 0
	for _, w := range f.waiters {
		if !w.stopped {
			n++
		}
	}
	return n
}

// BlockUntil waits until at least n timers or tickers are live.
func (f *Fake) BlockUntil(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.pendingLocked() < n {
		f.cond.Wait()
	}
}

// Advance moves time forward by d, firing everything due on the way in
// chronological order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		w := f.nextDueLocked(target)
		if w == nil {
			break
		}
		f.now = w.at
		if w.fn != nil {
			w.stopped = true
			f.removeStoppedLocked()
			fn := w.fn
			f.mu.Unlock()
			fn()
			f.mu.Lock()
			continue
		}
		select {
		case w.ch <- w.at:
		default:
		}
		w.at = w.at.Add(w.period)
	}
	f.now = target
	f.mu.Unlock()
}

func (f *Fake) nextDueLocked(target time.Time) *waiter {
	live := make([]*waiter, 0, len(f.waiters))
	for _, w := range f.waiters {
		if !w.stopped && !w.at.After(target) {
			live = append(live, w)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].at.Before(live[j].at) })
	return live[0]
}

func (f *Fake) removeStoppedLocked() {
	kept := f.waiters[:0]
	for _, w := range f.waiters {
		if !w.stopped {
			kept = append(kept, w)
		}
	}
	f.waiters = kept
}

func (w *waiter) stop() bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()
	was := !w.stopped
	w.stopped = true
	w.clock.removeStoppedLocked()
	return was
}

type fakeTimer struct{ w *waiter }

func (t fakeTimer) Stop() bool { return t.w.stop() }

type fakeTicker struct{ w *waiter }

func (t fakeTicker) C() <-chan time.Time { return t.w.ch }
func (t fakeTicker) Stop()               { t.w.stop() }
