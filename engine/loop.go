package engine

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Loop is the production Scheduler: one goroutine executes all submitted
// work in order. Timers are armed off-loop but their actions always execute
// on the loop, so a cancelled action never observes half-updated state.
type Loop struct {
	clk  clock.WithTicker
	work chan func()
	quit chan struct{}
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewLoop creates a stopped loop. Pass clock.RealClock{} outside of tests.
func NewLoop(clk clock.WithTicker) *Loop {
	return &Loop{
		clk:  clk,
		work: make(chan func(), 64),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

// Stop halts the loop and discards any queued work. Pending timers fire into
// nothing. Stopping a loop that was never started is a no-op and prevents a
// later Start from launching it.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.quit)
	})
	// if run never launched, nothing will ever close done
	l.startOnce.Do(func() {
		close(l.done)
	})
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.work:
			fn()
		case <-l.quit:
			return
		}
	}
}

// Now returns the loop clock's current time.
func (l *Loop) Now() time.Time {
	return l.clk.Now()
}

// Submit posts fn to the loop. Work submitted after Stop is dropped.
func (l *Loop) Submit(fn func()) {
	select {
	case l.work <- fn:
	case <-l.quit:
	}
}

type loopHandle struct {
	once sync.Once
	stop chan struct{}
}

func (h *loopHandle) Cancel() {
	h.once.Do(func() {
		close(h.stop)
	})
}

func (h *loopHandle) canceled() bool {
	select {
	case <-h.stop:
		return true
	default:
		return false
	}
}

// After schedules fn to run on the loop once, d from now.
func (l *Loop) After(d time.Duration, fn func()) Handle {
	h := &loopHandle{stop: make(chan struct{})}
	go func() {
		t := l.clk.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C():
			l.Submit(func() {
				// the cancel may have landed between the timer firing
				// and the loop getting here
				if !h.canceled() {
					fn()
				}
			})
		case <-h.stop:
		}
	}()
	return h
}

// Every schedules fn to run on the loop every d until cancelled.
func (l *Loop) Every(d time.Duration, fn func()) Handle {
	h := &loopHandle{stop: make(chan struct{})}
	go func() {
		t := l.clk.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-t.C():
				l.Submit(func() {
					if !h.canceled() {
						fn()
					}
				})
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

var _ Scheduler = (*Loop)(nil)
