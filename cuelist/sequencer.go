package cuelist

import (
	"time"

	"github.com/fogleman/ease"
	"github.com/robmorgan/beam/effect"
	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/logger"
	"github.com/robmorgan/beam/transport"
	"github.com/robmorgan/beam/utils"
	"github.com/sirupsen/logrus"
)

const (
	// snapStagger spaces out entry sends in snap mode so a burst of
	// commands does not contend on the link.
	snapStagger = 150 * time.Millisecond

	// fadeSampleInterval is the fade interpolation rate (10 Hz).
	fadeSampleInterval = 100 * time.Millisecond
)

// FiringMode selects how a cue's entries are realized.
type FiringMode int

const (
	// FireSnap sends every entry's target state as-is, staggered.
	FireSnap FiringMode = iota

	// FireFade interpolates every numeric channel from the previous
	// recorded state to the target over the cue's fade time.
	FireFade
)

// Status is the externally visible state of the sequencer.
type Status struct {
	CurrentCue int
	Running    bool
}

// Sequencer drives a cue list: delay, snap or fade to the target states,
// hold, end, optionally auto-follow into the next cue. All methods must be
// called on the scheduler's timeline; the demo binary and the OSC trigger
// submit through it.
type Sequencer struct {
	sched      engine.Scheduler
	fm         fixture.Manager
	dispatcher *effect.Dispatcher
	sink       transport.Sink
	mode       FiringMode
	easing     ease.Function

	list    *List
	current int
	running bool

	// at most one outstanding handle per logical timer; always
	// cancel-and-replace, never accumulate
	delayHandle    engine.Handle
	endHandle      engine.Handle
	fadeHandle     engine.Handle
	staggerHandles []engine.Handle
	settleHandles  []engine.Handle

	observers []func(Status)
}

// NewSequencer creates a cue sequencer sending through sink.
func NewSequencer(sched engine.Scheduler, fm fixture.Manager, sink transport.Sink, mode FiringMode) *Sequencer {
	return &Sequencer{
		sched:      sched,
		fm:         fm,
		dispatcher: effect.NewDispatcher(sched, sink),
		sink:       sink,
		mode:       mode,
		easing:     ease.Linear,
	}
}

// SetEasing changes the curve applied to fade progress. Linear by default.
func (s *Sequencer) SetEasing(fn ease.Function) {
	s.easing = fn
}

// Status returns a snapshot of the sequencer state.
func (s *Sequencer) Status() Status {
	return Status{CurrentCue: s.current, Running: s.running}
}

// OnChange registers a callback invoked whenever the current cue or the
// running flag changes. The callback runs on the scheduler's timeline.
func (s *Sequencer) OnChange(fn func(Status)) {
	s.observers = append(s.observers, fn)
}

func (s *Sequencer) notify() {
	st := s.Status()
	for _, fn := range s.observers {
		fn(st)
	}
}

// FireCue starts a cue. Firing while another cue is in flight is an
// implicit stop-then-start: every pending timer from the previous cue is
// cancelled first.
func (s *Sequencer) FireCue(cue *Cue, list *List) {
	log := logger.GetProjectLogger()

	s.cancelPending()
	s.list = list
	if idx := list.IndexOf(cue); idx >= 0 {
		s.current = idx
	}
	s.running = true
	log.WithFields(logrus.Fields{"cue": cue.Name, "index": s.current}).Info("firing cue")

	if cue.FollowDelay > 0 {
		s.delayHandle = s.sched.After(cue.FollowDelay, func() {
			s.executeCue(cue)
		})
	} else {
		s.executeCue(cue)
	}
	s.notify()
}

// Stop cancels all pending work and dims the current cue's lights. The cue
// pointer is left where it is.
func (s *Sequencer) Stop() {
	s.cancelPending()
	if s.running {
		s.dimCurrentCue()
	}
	s.running = false
	s.notify()
}

// Reset cancels all pending work and rewinds the cue pointer to the top of
// the list.
func (s *Sequencer) Reset() {
	s.cancelPending()
	s.running = false
	s.current = 0
	s.notify()
}

func (s *Sequencer) cancelPending() {
	cancel := func(h engine.Handle) {
		if h != nil {
			h.Cancel()
		}
	}
	cancel(s.delayHandle)
	cancel(s.endHandle)
	cancel(s.fadeHandle)
	s.delayHandle, s.endHandle, s.fadeHandle = nil, nil, nil
	for _, h := range s.staggerHandles {
		cancel(h)
	}
	for _, h := range s.settleHandles {
		cancel(h)
	}
	s.staggerHandles = nil
	s.settleHandles = nil
}

// resolved is a cue entry with its transport address figured out.
type resolved struct {
	entry LightEntry
	addr  uint16
	from  fixture.State
}

// resolveEntries maps cue entries to transport addresses, dropping entries
// whose light is unknown or unreachable. A dropped entry never aborts the
// rest of the cue.
func (s *Sequencer) resolveEntries(cue *Cue) []resolved {
	log := logger.GetProjectLogger()

	out := make([]resolved, 0, len(cue.Entries))
	for _, entry := range cue.Entries {
		addr := entry.Address
		if addr == 0 {
			f := s.fm.GetByID(entry.LightID)
			if f == nil || !f.Reachable() {
				log.WithFields(logrus.Fields{"light": entry.LightID}).
					Warn("skipping cue entry: no transport target")
				continue
			}
			addr = f.Address
		}
		r := resolved{entry: entry, addr: addr}
		if prev := s.fm.GetState(entry.LightID); prev != nil {
			r.from = *prev
		}
		out = append(out, r)
	}
	return out
}

func (s *Sequencer) executeCue(cue *Cue) {
	entries := s.resolveEntries(cue)

	if s.mode == FireFade && cue.FadeTime > 0 {
		s.startFade(cue, entries)
	} else {
		s.snapEntries(entries)
	}

	if cue.FadeTime > 0 {
		s.endHandle = s.sched.After(cue.FadeTime, func() {
			s.cueEnd(cue, entries)
		})
	}
}

// snapEntries sends every entry's full target state, staggered to keep the
// link happy.
func (s *Sequencer) snapEntries(entries []resolved) {
	for i, r := range entries {
		r := r
		send := func() {
			if h := s.dispatcher.Apply(r.addr, r.entry.State); h != nil {
				s.settleHandles = append(s.settleHandles, h)
			}
			s.fm.SetState(r.entry.LightID, r.entry.State)
		}
		if i == 0 {
			send()
		} else {
			s.staggerHandles = append(s.staggerHandles,
				s.sched.After(time.Duration(i)*snapStagger, send))
		}
	}
}

// startFade interpolates every entry from its previously recorded state to
// the target, sampling at a fixed rate. Effect channels are not
// interpolated; the full target (effects included) lands at the final
// sample.
func (s *Sequencer) startFade(cue *Cue, entries []resolved) {
	start := s.sched.Now()
	s.fadeHandle = s.sched.Every(fadeSampleInterval, func() {
		elapsed := s.sched.Now().Sub(start)
		progress := float64(elapsed) / float64(cue.FadeTime)
		if progress >= 1 {
			s.finishFade(entries)
			return
		}
		eased := s.easing(progress)
		for _, r := range entries {
			s.dispatcher.ApplyBase(r.addr, utils.LerpState(r.from, r.entry.State, eased))
		}
	})
}

func (s *Sequencer) finishFade(entries []resolved) {
	if s.fadeHandle != nil {
		s.fadeHandle.Cancel()
		s.fadeHandle = nil
	}
	for _, r := range entries {
		if h := s.dispatcher.Apply(r.addr, r.entry.State); h != nil {
			s.settleHandles = append(s.settleHandles, h)
		}
		s.fm.SetState(r.entry.LightID, r.entry.State)
	}
}

// cueEnd dims the ending cue's lights, stops their effects and advances the
// cue pointer; the next cue fires itself iff it is marked auto-follow.
func (s *Sequencer) cueEnd(cue *Cue, entries []resolved) {
	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"cue": cue.Name}).Debug("cue end")

	// a fade sample, a staggered send or an effect settle may still be
	// pending when the hold elapses; none of them may land after the dim
	if s.fadeHandle != nil {
		s.fadeHandle.Cancel()
		s.fadeHandle = nil
	}
	for _, h := range s.staggerHandles {
		h.Cancel()
	}
	for _, h := range s.settleHandles {
		h.Cancel()
	}
	s.staggerHandles = nil
	s.settleHandles = nil
	for _, r := range entries {
		s.dispatcher.Dim(r.addr, r.entry.State)
		off := r.entry.State
		off.Intensity = 0
		off.Mode = fixture.ModeCCT
		off.Effect = fixture.EffectNone
		s.fm.SetState(r.entry.LightID, off)
	}

	s.current++
	if s.list != nil && s.current < len(s.list.Cues) {
		next := s.list.Cues[s.current]
		if next.AutoFollow {
			s.FireCue(next, s.list)
			return
		}
	}
	s.running = false
	s.notify()
}

func (s *Sequencer) dimCurrentCue() {
	if s.list == nil || s.current >= len(s.list.Cues) {
		return
	}
	for _, r := range s.resolveEntries(s.list.Cues[s.current]) {
		s.dispatcher.Dim(r.addr, r.entry.State)
	}
}
