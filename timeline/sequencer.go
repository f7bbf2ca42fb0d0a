package timeline

import (
	"time"

	"github.com/robmorgan/beam/effect"
	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/logger"
	"github.com/robmorgan/beam/tempo"
	"github.com/robmorgan/beam/transport"
	"github.com/sirupsen/logrus"
)

const (
	// tickInterval is the control-loop cadence, matching a display
	// refresh clock.
	tickInterval = 16 * time.Millisecond

	// connectTimeout bounds how long the serialized discipline waits for
	// a light to become ready before abandoning that block.
	connectTimeout = 3 * time.Second

	// serializedSettle is the pause between consecutive block sends in
	// the serialized discipline.
	serializedSettle = 300 * time.Millisecond
)

// FiringDiscipline selects how newly crossed blocks reach their lights.
type FiringDiscipline int

const (
	// FireDirect sends each block best-effort: ready lights get their
	// state immediately, unready lights get a connect request and the
	// block is abandoned. Suited to relayed transports where most
	// lights stay connected.
	FireDirect FiringDiscipline = iota

	// FireSerialized fires one block at a time: connect, wait for
	// readiness up to a bounded timeout, send, settle, proceed. Suited
	// to point-to-point links that only hold one connection.
	FireSerialized
)

// Status is the externally visible playback state.
type Status struct {
	Playing bool
	Time    float64 // seconds
	Beat    float64 // meaningful in ModeBeats only
}

// Player is the audio collaborator started alongside a timeline that
// references an audio file.
type Player interface {
	Play(file string) error
	Stop()
}

// Sequencer drives a timeline. All methods must be called on the
// scheduler's timeline.
type Sequencer struct {
	sched      engine.Scheduler
	fm         fixture.Manager
	dispatcher *effect.Dispatcher
	sink       transport.Sink
	discipline FiringDiscipline
	audio      Player // optional

	tl       *Timeline
	tmap     tempo.Map
	hasTempo bool
	playing  bool

	// wall-clock anchor; the playhead is always startOffset plus the
	// time since startWall, never a sum of per-tick deltas
	startWall   time.Time
	startOffset float64
	prevTime    float64

	// per-run boundary state, rebuilt only by Seek
	fired map[string]bool
	ended map[string]bool

	tickHandle    engine.Handle
	settleHandles []engine.Handle

	// serialized firing
	queue       []pendingFire
	waitHandle  engine.Handle
	cancelReady func()
	processing  bool

	// generation guards late readiness callbacks from a previous run
	gen int

	observers     []func(Status)
	beatObservers []func(tempo.Tick)
}

type pendingFire struct {
	lightID string
	addr    uint16
	state   fixture.State
}

// NewSequencer creates a timeline sequencer sending through sink. The audio
// player may be nil.
func NewSequencer(sched engine.Scheduler, fm fixture.Manager, sink transport.Sink, discipline FiringDiscipline, audio Player) *Sequencer {
	return &Sequencer{
		sched:      sched,
		fm:         fm,
		dispatcher: effect.NewDispatcher(sched, sink),
		sink:       sink,
		discipline: discipline,
		audio:      audio,
	}
}

// Status returns a snapshot of the playback state.
func (s *Sequencer) Status() Status {
	st := Status{Playing: s.playing, Time: s.playhead()}
	if s.hasTempo {
		st.Beat = s.tmap.BeatAt(st.Time)
	}
	return st
}

// OnChange registers a callback invoked on play, stop and seek.
func (s *Sequencer) OnChange(fn func(Status)) {
	s.observers = append(s.observers, fn)
}

// OnBeat registers a metronome callback; it receives every beat boundary
// the playhead crosses while the metronome is enabled.
func (s *Sequencer) OnBeat(fn func(tempo.Tick)) {
	s.beatObservers = append(s.beatObservers, fn)
}

func (s *Sequencer) notify() {
	st := s.Status()
	for _, fn := range s.observers {
		fn(st)
	}
}

func (s *Sequencer) playhead() float64 {
	if !s.playing {
		return s.startOffset
	}
	return s.startOffset + s.sched.Now().Sub(s.startWall).Seconds()
}

// Play starts a timeline from the beginning. Playing while another run is
// in flight is an implicit stop-then-start.
func (s *Sequencer) Play(tl *Timeline) {
	log := logger.GetProjectLogger()

	s.Stop()

	s.tl = tl
	s.hasTempo = tl.Mode == ModeBeats
	if s.hasTempo {
		s.tmap = tempo.NewMap(tl.TempoEvents)
	}
	s.fired = make(map[string]bool)
	s.ended = make(map[string]bool)
	s.startWall = s.sched.Now()
	s.startOffset = 0
	s.prevTime = 0
	s.playing = true
	s.gen++

	if tl.AudioFile != "" && s.audio != nil {
		if err := s.audio.Play(tl.AudioFile); err != nil {
			log.WithFields(logrus.Fields{"file": tl.AudioFile}).Warnf("audio start failed: %v", err)
		}
	}

	log.WithFields(logrus.Fields{"timeline": tl.Name, "tracks": len(tl.Tracks)}).Info("timeline play")
	s.tickHandle = s.sched.Every(tickInterval, s.tick)
	s.notify()
}

// Stop halts playback, stops all effects, releases the audio resource and
// clears the run state. The playhead rewinds to zero.
func (s *Sequencer) Stop() {
	if s.tl == nil && !s.playing {
		return
	}
	s.cancelPending()
	s.playing = false
	s.startOffset = 0
	s.prevTime = 0
	s.fired = nil
	s.ended = nil
	s.hasTempo = false
	s.gen++

	if s.audio != nil {
		s.audio.Stop()
	}
	if s.tl != nil {
		if err := s.sink.StopAll(); err != nil {
			logger.GetProjectLogger().Warnf("stop all failed: %v", err)
		}
	}
	s.tl = nil
	s.notify()
}

// SetMetronomeEnabled toggles the metronome of the loaded timeline. This is
// the only mutation the sequencer ever performs on a timeline.
func (s *Sequencer) SetMetronomeEnabled(on bool) {
	if s.tl != nil {
		s.tl.MetronomeEnabled = on
	}
}

func (s *Sequencer) cancelPending() {
	if s.tickHandle != nil {
		s.tickHandle.Cancel()
		s.tickHandle = nil
	}
	if s.waitHandle != nil {
		s.waitHandle.Cancel()
		s.waitHandle = nil
	}
	if s.cancelReady != nil {
		s.cancelReady()
		s.cancelReady = nil
	}
	for _, h := range s.settleHandles {
		h.Cancel()
	}
	s.settleHandles = nil
	s.queue = nil
	s.processing = false
}

// total returns the playback bound in seconds.
func (s *Sequencer) total() float64 {
	if s.hasTempo && s.tl.TotalBeats > 0 {
		return s.tmap.SecondsAt(s.tl.TotalBeats)
	}
	return s.tl.TotalDuration
}

// bounds returns a block's start and end in seconds. ok is false when the
// block has no end.
func (s *Sequencer) bounds(b Block) (start, end float64, hasEnd bool) {
	if s.hasTempo {
		start = s.tmap.SecondsAt(b.Start)
		if b.Duration > 0 {
			end = s.tmap.SecondsAt(b.Start + b.Duration)
		}
	} else {
		start = b.Start
		if b.Duration > 0 {
			end = b.Start + b.Duration
		}
	}
	return start, end, b.Duration > 0
}

// tick advances the playhead and fires every newly crossed boundary.
func (s *Sequencer) tick() {
	if !s.playing {
		return
	}
	cur := s.playhead()

	if s.tl.MetronomeEnabled && s.hasTempo {
		for _, bt := range s.tmap.Ticks(s.prevTime, cur) {
			for _, fn := range s.beatObservers {
				fn(bt)
			}
		}
	}

	var newly []pendingFire
	for ti := range s.tl.Tracks {
		track := &s.tl.Tracks[ti]
		addr, reachable := s.resolveTrack(track)
		for _, b := range track.Blocks {
			start, end, hasEnd := s.bounds(b)
			if start <= cur && !s.fired[b.ID] {
				s.fired[b.ID] = true
				if reachable {
					newly = append(newly, pendingFire{lightID: track.LightID, addr: addr, state: b.State})
				}
			}
			if hasEnd && end <= cur && !s.ended[b.ID] {
				s.ended[b.ID] = true
				if reachable {
					s.dimTrack(track.LightID, addr, b.State)
				}
			}
		}
	}
	s.fireBlocks(newly)

	s.prevTime = cur

	if cur >= s.total() {
		s.Stop()
	}
}

// resolveTrack maps a track to its transport address. Unreachable tracks
// are skipped without aborting the tick.
func (s *Sequencer) resolveTrack(track *Track) (uint16, bool) {
	if track.Address != 0 {
		return track.Address, true
	}
	f := s.fm.GetByID(track.LightID)
	if f == nil || !f.Reachable() {
		logger.GetProjectLogger().WithFields(logrus.Fields{"light": track.LightID}).
			Warn("skipping track: no transport target")
		return 0, false
	}
	return f.Address, true
}

func (s *Sequencer) fireBlocks(blocks []pendingFire) {
	if len(blocks) == 0 {
		return
	}
	switch s.discipline {
	case FireSerialized:
		s.queue = append(s.queue, blocks...)
		if !s.processing {
			s.processing = true
			s.processQueue()
		}
	default:
		for _, p := range blocks {
			s.fireDirect(p)
		}
	}
}

// fireDirect sends a block to a ready light; an unready light gets a
// connect request and the block is abandoned so the rest of the tick is
// never held up.
func (s *Sequencer) fireDirect(p pendingFire) {
	if !s.sink.IsReady(p.addr) {
		logger.GetProjectLogger().WithFields(logrus.Fields{"light": p.lightID}).
			Debug("light not ready, requesting connect")
		s.sink.Connect(p.addr)
		return
	}
	s.send(p)
}

func (s *Sequencer) send(p pendingFire) {
	if h := s.dispatcher.Apply(p.addr, p.state); h != nil {
		s.settleHandles = append(s.settleHandles, h)
	}
	s.fm.SetState(p.lightID, p.state)
}

// processQueue works through queued blocks one at a time: send if ready,
// otherwise connect and wait for readiness up to connectTimeout, then move
// on either way.
func (s *Sequencer) processQueue() {
	if len(s.queue) == 0 {
		s.processing = false
		return
	}
	p := s.queue[0]
	s.queue = s.queue[1:]

	if s.sink.IsReady(p.addr) {
		s.send(p)
		s.waitHandle = s.sched.After(serializedSettle, s.processQueue)
		return
	}

	gen := s.gen
	s.sink.Connect(p.addr)
	s.cancelReady = s.sink.OnReady(p.addr, func() {
		// may arrive from the transport's goroutine
		s.sched.Submit(func() {
			if gen != s.gen {
				return
			}
			if s.waitHandle != nil {
				s.waitHandle.Cancel()
			}
			s.cancelReady = nil
			s.send(p)
			s.waitHandle = s.sched.After(serializedSettle, s.processQueue)
		})
	})
	s.waitHandle = s.sched.After(connectTimeout, func() {
		logger.GetProjectLogger().WithFields(logrus.Fields{"light": p.lightID}).
			Warn("connect timed out, abandoning block")
		if s.cancelReady != nil {
			s.cancelReady()
			s.cancelReady = nil
		}
		s.processQueue()
	})
}

func (s *Sequencer) dimTrack(lightID string, addr uint16, last fixture.State) {
	s.dispatcher.Dim(addr, last)
	off := last
	off.Intensity = 0
	off.Mode = fixture.ModeCCT
	off.Effect = fixture.EffectNone
	s.fm.SetState(lightID, off)
}

// Seek moves the playhead. The fired and ended sets are rebuilt from
// scratch against the new position, so blocks already behind the playhead
// never re-fire and blocks already past their end are marked ended, no
// matter how the playhead got there.
func (s *Sequencer) Seek(t float64) {
	if s.tl == nil {
		return
	}
	if t < 0 {
		t = 0
	}
	if max := s.total(); t > max {
		t = max
	}

	// abandon in-flight serialized work; it belongs to the old position
	if s.waitHandle != nil {
		s.waitHandle.Cancel()
		s.waitHandle = nil
	}
	if s.cancelReady != nil {
		s.cancelReady()
		s.cancelReady = nil
	}
	s.queue = nil
	s.processing = false
	s.gen++

	s.startOffset = t
	s.startWall = s.sched.Now()
	s.prevTime = t

	s.fired = make(map[string]bool)
	s.ended = make(map[string]bool)
	for ti := range s.tl.Tracks {
		for _, b := range s.tl.Tracks[ti].Blocks {
			start, end, hasEnd := s.bounds(b)
			if start <= t {
				s.fired[b.ID] = true
			}
			if hasEnd && end <= t {
				s.ended[b.ID] = true
			}
		}
	}
	s.notify()
}
