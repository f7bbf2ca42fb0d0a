// Package tempo implements a tempo map: a piecewise-linear mapping between
// musical beat positions and elapsed seconds, built from a sorted list of
// tempo-change events. A Map is a value; once constructed it is never
// mutated, so it is safe to share between goroutines.
package tempo

import (
	"math"

	"golang.org/x/exp/slices"
)

// DefaultBPM is used when a map is built without an event at beat zero.
const DefaultBPM = 120.0

// Signature is a musical time signature, e.g. 4/4 or 6/8.
type Signature struct {
	BeatsPerBar int
	BeatUnit    int
}

// CommonTime is the 4/4 signature assumed when none is supplied.
var CommonTime = Signature{BeatsPerBar: 4, BeatUnit: 4}

// BarBeats returns the bar length in quarter-note beats.
func (s Signature) BarBeats() float64 {
	return float64(s.BeatsPerBar) * 4.0 / float64(s.BeatUnit)
}

// Event is a tempo change at a given beat position.
type Event struct {
	Beat float64
	BPM  float64
	Sig  Signature
}

// secondsPerBeat returns the duration of one quarter-note beat at this
// event's tempo.
func (e Event) secondsPerBeat() float64 {
	return 60.0 / e.BPM
}

// Tick is a single beat boundary produced by Map.Ticks.
type Tick struct {
	Seconds  float64
	Beat     float64
	Downbeat bool
}

// Map converts between beat positions and elapsed seconds.
type Map struct {
	events []Event
	// elapsed seconds at the start of each event, precomputed once
	seconds []float64
}

// NewMap builds a tempo map from events in any order. Malformed input is
// normalized rather than rejected: the list is sorted by beat position and a
// default event (120 BPM, common time) is inserted at beat zero when none is
// supplied there.
func NewMap(events []Event) Map {
	evs := make([]Event, 0, len(events)+1)
	for _, e := range events {
		if e.Beat < 0 || e.BPM <= 0 {
			continue
		}
		if e.Sig.BeatsPerBar <= 0 || e.Sig.BeatUnit <= 0 {
			e.Sig = CommonTime
		}
		evs = append(evs, e)
	}
	slices.SortStableFunc(evs, func(a, b Event) bool {
		return a.Beat < b.Beat
	})
	if len(evs) == 0 || evs[0].Beat > 0 {
		evs = append([]Event{{Beat: 0, BPM: DefaultBPM, Sig: CommonTime}}, evs...)
	}

	secs := make([]float64, len(evs))
	for i := 1; i < len(evs); i++ {
		prev := evs[i-1]
		secs[i] = secs[i-1] + (evs[i].Beat-prev.Beat)*prev.secondsPerBeat()
	}
	return Map{events: evs, seconds: secs}
}

// Events returns a copy of the normalized event list.
func (m Map) Events() []Event {
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// segmentForBeat returns the index of the last event whose beat position is
// <= b. Queries before beat zero resolve to the first segment, whose linear
// extrapolation then yields negative values; callers clamp if they care.
func (m Map) segmentForBeat(b float64) int {
	i := 0
	for i+1 < len(m.events) && m.events[i+1].Beat <= b {
		i++
	}
	return i
}

// segmentForSeconds returns the index of the last event whose cumulative
// start time is <= s.
func (m Map) segmentForSeconds(s float64) int {
	i := 0
	for i+1 < len(m.events) && m.seconds[i+1] <= s {
		i++
	}
	return i
}

// SecondsAt converts a beat position to elapsed seconds.
func (m Map) SecondsAt(beat float64) float64 {
	i := m.segmentForBeat(beat)
	ev := m.events[i]
	return m.seconds[i] + (beat-ev.Beat)*ev.secondsPerBeat()
}

// BeatAt converts elapsed seconds to a beat position. It is the exact
// inverse of SecondsAt within a segment, up to floating-point precision.
func (m Map) BeatAt(seconds float64) float64 {
	i := m.segmentForSeconds(seconds)
	ev := m.events[i]
	return ev.Beat + (seconds-m.seconds[i])/ev.secondsPerBeat()
}

// BarBeat converts a beat position to a 1-based bar number plus the offset
// in quarter-note beats within that bar, walking whole bars through each
// tempo segment's signature. A signature change always starts a new bar,
// even when it lands mid-bar.
func (m Map) BarBeat(beat float64) (int, float64) {
	bar := 1
	pos := 0.0
	for i, ev := range m.events {
		barLen := ev.Sig.BarBeats()
		// the change beat itself belongs to the new segment's bar
		last := i+1 >= len(m.events) || m.events[i+1].Beat > beat
		segEnd := beat
		if !last {
			segEnd = m.events[i+1].Beat
		}
		if span := segEnd - pos; span > 0 {
			whole := math.Floor(span / barLen)
			bar += int(whole)
			pos += whole * barLen
		}
		if last {
			return bar, beat - pos
		}
		if pos < segEnd {
			bar++
			pos = segEnd
		}
	}
	return bar, beat - pos
}

// BeatForBar returns the beat position at which the given 1-based bar
// starts. It is the inverse of BarBeat for zero in-bar offsets.
func (m Map) BeatForBar(bar int) float64 {
	if bar <= 1 {
		return 0
	}
	remaining := bar - 1
	pos := 0.0
	for i, ev := range m.events {
		barLen := ev.Sig.BarBeats()
		if i+1 < len(m.events) {
			segSpan := m.events[i+1].Beat - pos
			whole := int(math.Floor(segSpan / barLen))
			if remaining <= whole {
				return pos + float64(remaining)*barLen
			}
			segBars := whole
			if segSpan > float64(whole)*barLen {
				// short bar cut off by the signature change
				segBars++
			}
			remaining -= segBars
			pos = m.events[i+1].Beat
			if remaining <= 0 {
				return pos
			}
			continue
		}
		return pos + float64(remaining)*barLen
	}
	return pos
}

// Ticks enumerates every integer beat boundary strictly inside
// (fromSeconds, toSeconds], tagging the first beat of each bar as a
// downbeat. Callers scan only the window since their previous tick, so
// repeated calls over adjacent windows enumerate each beat exactly once.
func (m Map) Ticks(fromSeconds, toSeconds float64) []Tick {
	if toSeconds <= fromSeconds {
		return nil
	}
	const eps = 1e-9
	first := math.Floor(m.BeatAt(fromSeconds)+eps) + 1
	last := math.Floor(m.BeatAt(toSeconds) + eps)
	if last < first || first < 0 {
		if first < 0 {
			first = 0
		}
		if last < first {
			return nil
		}
	}
	var out []Tick
	for b := first; b <= last; b++ {
		sec := m.SecondsAt(b)
		if sec <= fromSeconds+eps || sec > toSeconds+eps {
			continue
		}
		_, inBar := m.BarBeat(b)
		out = append(out, Tick{
			Seconds:  sec,
			Beat:     b,
			Downbeat: math.Abs(inBar) < eps,
		})
	}
	return out
}

// SnapBeat rounds a beat position to the nearest 1/subdivision grid line.
// A subdivision of 0 or less leaves the position untouched.
func SnapBeat(beat float64, subdivision int) float64 {
	if subdivision <= 0 {
		return beat
	}
	n := float64(subdivision)
	return math.Round(beat*n) / n
}

// SnapToBar rounds a beat position to the nearer bar boundary, using the
// bar length of the tempo segment containing the position.
func (m Map) SnapToBar(beat float64) float64 {
	bar, offset := m.BarBeat(beat)
	barLen := m.events[m.segmentForBeat(beat)].Sig.BarBeats()
	if offset*2 < barLen {
		return m.BeatForBar(bar)
	}
	return m.BeatForBar(bar + 1)
}
