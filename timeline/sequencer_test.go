package timeline

import (
	"testing"
	"time"

	"github.com/robmorgan/beam/config"
	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/tempo"
	"github.com/robmorgan/beam/transport"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	played  []string
	stopped int
}

func (p *fakePlayer) Play(file string) error {
	p.played = append(p.played, file)
	return nil
}

func (p *fakePlayer) Stop() {
	p.stopped++
}

func newTestRig(t *testing.T, d FiringDiscipline) (*engine.Manual, *transport.Mock, *Sequencer) {
	t.Helper()

	sched := engine.NewManual(time.Unix(100, 0))
	sink := transport.NewMock()
	fm, err := fixture.NewManager(config.GetBeamConfig())
	require.NoError(t, err)
	return sched, sink, NewSequencer(sched, fm, sink, d, nil)
}

func onState(intensity float64) fixture.State {
	return fixture.State{On: true, Mode: fixture.ModeCCT, Intensity: intensity, CCT: 5600}
}

func clockTimeline() *Timeline {
	return &Timeline{
		Name: "test",
		Mode: ModeClock,
		Tracks: []Track{
			{
				LightID: "a", Address: 0x0100,
				Blocks: []Block{
					{ID: "a1", Start: 0.5, Duration: 1, State: onState(100)},
					{ID: "a2", Start: 2, State: onState(60)}, // indefinite
				},
			},
			{
				LightID: "b", Address: 0x0200,
				Blocks: []Block{
					{ID: "b1", Start: 1, Duration: 0.5, State: onState(80)},
				},
			},
		},
		TotalDuration: 10,
	}
}

func setCCTCount(sink *transport.Mock, addr uint16) int {
	n := 0
	for _, c := range sink.CallsFor(addr) {
		if c.Op == "setCCT" {
			n++
		}
	}
	return n
}

func TestBlockFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireDirect)
	seq.Play(clockTimeline())

	// cross a1's start boundary with ticks of wildly varying size
	sched.Advance(490 * time.Millisecond)
	require.Zero(t, setCCTCount(sink, 0x0100))
	sched.Advance(3 * time.Millisecond)
	sched.Advance(11 * time.Millisecond)
	sched.Advance(time.Millisecond)
	sched.Advance(300 * time.Millisecond)
	require.Equal(t, 1, setCCTCount(sink, 0x0100))
}

func TestBlockEndDimsTrack(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireDirect)
	seq.Play(clockTimeline())

	sched.Advance(1400 * time.Millisecond)
	require.Equal(t, 1, setCCTCount(sink, 0x0100), "a1 fired, not yet ended")

	sched.Advance(200 * time.Millisecond)
	calls := sink.CallsFor(0x0100)
	last := calls[len(calls)-1]
	require.Equal(t, "setCCT", last.Op)
	require.Equal(t, 0.0, last.Intensity, "a1 end dims the track")
}

func TestIndefiniteBlockNeverEnds(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireDirect)
	tl := clockTimeline()
	seq.Play(tl)

	sched.Advance(9 * time.Second)
	// a2 fired once and was never dimmed by an end boundary; the only
	// zero-intensity write for track a belongs to a1's end
	zeros := 0
	for _, c := range sink.CallsFor(0x0100) {
		if c.Op == "setCCT" && c.Intensity == 0 {
			zeros++
		}
	}
	require.Equal(t, 1, zeros)
}

func TestPlaybackStopsAtTotalDuration(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireDirect)
	tl := clockTimeline()
	tl.TotalDuration = 3
	seq.Play(tl)

	sched.Advance(3100 * time.Millisecond)
	st := seq.Status()
	require.False(t, st.Playing)
	require.Zero(t, st.Time, "playhead resets to zero")
	require.Contains(t, sink.Ops(), "stopAll")

	// the loop is really stopped
	n := len(sink.Calls())
	sched.Advance(time.Hour)
	require.Len(t, sink.Calls(), n)
}

func TestSeekRebuildsBoundarySets(t *testing.T) {
	t.Parallel()

	_, sink, seq := newTestRig(t, FireDirect)
	seq.Play(clockTimeline())

	seq.Seek(1.6)
	require.True(t, seq.fired["a1"], "a1 started before 1.6")
	require.True(t, seq.ended["a1"], "a1 ended at 1.5")
	require.True(t, seq.fired["b1"])
	require.True(t, seq.ended["b1"])
	require.False(t, seq.fired["a2"], "a2 starts at 2")

	// seeking sends no commands
	require.NotContains(t, sink.Ops(), "setCCT")

	seq.Seek(0.2)
	require.False(t, seq.fired["a1"])
	require.False(t, seq.ended["a1"])
}

func TestSeekMatchesTickedStateExactly(t *testing.T) {
	t.Parallel()

	target := 1.6

	schedA, _, seqA := newTestRig(t, FireDirect)
	seqA.Play(clockTimeline())
	schedA.Advance(time.Duration(target * float64(time.Second)))

	_, _, seqB := newTestRig(t, FireDirect)
	seqB.Play(clockTimeline())
	seqB.Seek(target)

	require.Equal(t, seqA.fired, seqB.fired)
	require.Equal(t, seqA.ended, seqB.ended)
}

func TestSeekClampsToTimelineBounds(t *testing.T) {
	t.Parallel()

	_, _, seq := newTestRig(t, FireDirect)
	seq.Play(clockTimeline())

	seq.Seek(-5)
	require.Zero(t, seq.Status().Time)

	seq.Seek(99)
	require.Equal(t, 10.0, seq.Status().Time)
}

func TestBeatsModeConvertsBlockBoundaries(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireDirect)
	tl := &Timeline{
		Name: "beats",
		Mode: ModeBeats,
		TempoEvents: []tempo.Event{
			{Beat: 0, BPM: 120, Sig: tempo.CommonTime},
		},
		Tracks: []Track{
			{
				LightID: "a", Address: 0x0100,
				// beat 2 = 1.0s at 120 BPM, 2 beats long
				Blocks: []Block{{ID: "a1", Start: 2, Duration: 2, State: onState(100)}},
			},
		},
		TotalBeats: 16,
	}
	seq.Play(tl)

	sched.Advance(990 * time.Millisecond)
	require.Zero(t, setCCTCount(sink, 0x0100))
	sched.Advance(20 * time.Millisecond)
	require.Equal(t, 1, setCCTCount(sink, 0x0100))

	// end boundary at beat 4 = 2.0s
	sched.Advance(time.Second)
	calls := sink.CallsFor(0x0100)
	require.Equal(t, 0.0, calls[len(calls)-1].Intensity)
}

func TestMetronomeEmitsBeatTicks(t *testing.T) {
	t.Parallel()

	sched, _, seq := newTestRig(t, FireDirect)
	tl := &Timeline{
		Name:             "beats",
		Mode:             ModeBeats,
		TempoEvents:      []tempo.Event{{Beat: 0, BPM: 120, Sig: tempo.CommonTime}},
		MetronomeEnabled: true,
		TotalBeats:       32,
	}

	var ticks []tempo.Tick
	seq.OnBeat(func(bt tempo.Tick) { ticks = append(ticks, bt) })
	seq.Play(tl)

	sched.Advance(2050 * time.Millisecond)
	require.Len(t, ticks, 4, "beats 1-4 inside (0, 2.05]")
	require.False(t, ticks[0].Downbeat)
	require.True(t, ticks[3].Downbeat, "beat 4 opens bar 2")

	// disabling the metronome silences it without stopping playback
	seq.SetMetronomeEnabled(false)
	sched.Advance(2 * time.Second)
	require.Len(t, ticks, 4)
	require.True(t, seq.Status().Playing)
}

func TestDirectDisciplineSkipsUnreadyLight(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireDirect)
	sink.SetReady(0x0100, false)

	tl := &Timeline{
		Name: "direct",
		Mode: ModeClock,
		Tracks: []Track{
			{LightID: "a", Address: 0x0100, Blocks: []Block{{ID: "a1", Start: 0.1, State: onState(100)}}},
			{LightID: "b", Address: 0x0200, Blocks: []Block{{ID: "b1", Start: 0.1, State: onState(80)}}},
		},
		TotalDuration: 60,
	}
	seq.Play(tl)

	sched.Advance(200 * time.Millisecond)
	// a1 was abandoned with a connect request; b1 fired anyway
	require.Zero(t, setCCTCount(sink, 0x0100))
	require.Contains(t, sink.Connects(), uint16(0x0100))
	require.Equal(t, 1, setCCTCount(sink, 0x0200))

	// the block stays consumed: readiness later never replays it
	sink.SetReady(0x0100, true)
	sched.Advance(time.Second)
	require.Zero(t, setCCTCount(sink, 0x0100))
}

func TestSerializedDisciplineWaitsForReadiness(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireSerialized)
	sink.SetReady(0x0100, false)

	tl := &Timeline{
		Name: "serial",
		Mode: ModeClock,
		Tracks: []Track{
			{LightID: "a", Address: 0x0100, Blocks: []Block{{ID: "a1", Start: 0.1, State: onState(100)}}},
			{LightID: "b", Address: 0x0200, Blocks: []Block{{ID: "b1", Start: 0.1, State: onState(80)}}},
		},
		TotalDuration: 60,
	}
	seq.Play(tl)

	sched.Advance(200 * time.Millisecond)
	require.Zero(t, setCCTCount(sink, 0x0100))
	require.Zero(t, setCCTCount(sink, 0x0200), "b waits behind a in the queue")
	require.Contains(t, sink.Connects(), uint16(0x0100))

	sink.SetReady(0x0100, true)
	require.Equal(t, 1, setCCTCount(sink, 0x0100), "sent as soon as ready")
	require.Zero(t, setCCTCount(sink, 0x0200), "settle delay before the next block")

	sched.Advance(serializedSettle)
	require.Equal(t, 1, setCCTCount(sink, 0x0200))
}

func TestSerializedDisciplineTimesOut(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireSerialized)
	sink.SetReady(0x0100, false)

	tl := &Timeline{
		Name: "serial",
		Mode: ModeClock,
		Tracks: []Track{
			{LightID: "a", Address: 0x0100, Blocks: []Block{{ID: "a1", Start: 0.1, State: onState(100)}}},
			{LightID: "b", Address: 0x0200, Blocks: []Block{{ID: "b1", Start: 0.1, State: onState(80)}}},
		},
		TotalDuration: 60,
	}
	seq.Play(tl)

	sched.Advance(200 * time.Millisecond)
	require.Zero(t, setCCTCount(sink, 0x0200))

	// a never becomes ready; after the bounded wait b proceeds
	sched.Advance(connectTimeout)
	require.Zero(t, setCCTCount(sink, 0x0100))
	require.Equal(t, 1, setCCTCount(sink, 0x0200))

	// the abandoned wait is truly cancelled: a late readiness signal
	// does not resurrect the block
	sink.SetReady(0x0100, true)
	sched.Advance(time.Second)
	require.Zero(t, setCCTCount(sink, 0x0100))
}

func TestPlayStartsAndStopsAudio(t *testing.T) {
	t.Parallel()

	sched := engine.NewManual(time.Unix(100, 0))
	sink := transport.NewMock()
	fm, err := fixture.NewManager(config.GetBeamConfig())
	require.NoError(t, err)

	player := &fakePlayer{}
	seq := NewSequencer(sched, fm, sink, FireDirect, player)

	tl := clockTimeline()
	tl.AudioFile = "show.wav"
	seq.Play(tl)
	require.Equal(t, []string{"show.wav"}, player.played)

	seq.Stop()
	require.Equal(t, 1, player.stopped)
}

func TestMissingTrackTargetIsSkipped(t *testing.T) {
	t.Parallel()

	sched, sink, seq := newTestRig(t, FireDirect)
	tl := &Timeline{
		Name: "partial",
		Mode: ModeClock,
		Tracks: []Track{
			{LightID: "ghost", Blocks: []Block{{ID: "g1", Start: 0.1, State: onState(100)}}},
			{LightID: "tube_1", Blocks: []Block{{ID: "t1", Start: 0.1, State: onState(50)}}},
		},
		TotalDuration: 10,
	}
	seq.Play(tl)

	sched.Advance(500 * time.Millisecond)
	require.Equal(t, 1, setCCTCount(sink, 0x0008), "patched light fired")
	require.True(t, seq.fired["g1"], "missing target still consumes the boundary")
}
