package engine

import "time"

// Manual is a deterministic Scheduler for tests. Work executes inline and
// time only moves when Advance is called, so sequencer behavior can be
// probed tick by tick without a real clock. Manual is not goroutine safe.
type Manual struct {
	now    time.Time
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	at       time.Time
	interval time.Duration // 0 = one shot
	fn       func()
	canceled bool
	seq      int
}

func (t *manualTimer) Cancel() {
	t.canceled = true
}

// NewManual creates a manual scheduler starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual scheduler's current time.
func (m *Manual) Now() time.Time {
	return m.now
}

// Submit executes fn immediately.
func (m *Manual) Submit(fn func()) {
	fn()
}

// After schedules fn to run when Advance moves time past d from now.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	t := &manualTimer{at: m.now.Add(d), fn: fn, seq: m.seq}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

// Every schedules fn to run every d as Advance moves time forward.
func (m *Manual) Every(d time.Duration, fn func()) Handle {
	t := &manualTimer{at: m.now.Add(d), interval: d, fn: fn, seq: m.seq}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

// Advance moves time forward by d, firing every due action in deadline
// order. Actions scheduled by a firing action are themselves considered, so
// chains of follow-up work settle within a single Advance.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		t := m.nextDue(end)
		if t == nil {
			break
		}
		if t.at.After(m.now) {
			m.now = t.at
		}
		if t.interval > 0 {
			t.at = t.at.Add(t.interval)
		} else {
			t.canceled = true
		}
		t.fn()
	}
	m.now = end
	m.compact()
}

// nextDue returns the earliest live timer with a deadline <= end, breaking
// ties by scheduling order.
func (m *Manual) nextDue(end time.Time) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.canceled || t.at.After(end) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.canceled {
			live = append(live, t)
		}
	}
	m.timers = live
}

var _ Scheduler = (*Manual)(nil)
