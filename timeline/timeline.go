// Package timeline drives a continuous playhead across parallel tracks of
// time-boxed light states, in wall-clock time or synchronized to a tempo
// map.
package timeline

import (
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/tempo"
)

// Mode selects the time base of a timeline.
type Mode int

const (
	// ModeClock positions blocks in seconds.
	ModeClock Mode = iota

	// ModeBeats positions blocks in beats, converted through the
	// timeline's tempo map.
	ModeBeats
)

// Block is a time-boxed target state within a track.
type Block struct {
	// ID must be unique within the timeline.
	ID string

	// Start is in seconds or beats, per the timeline mode.
	Start float64

	// Duration is in the same unit as Start. Zero means the block never
	// ends on its own.
	Duration float64

	State fixture.State
}

// Track is one light's lane of blocks. Blocks may overlap; firing is purely
// event driven on boundary crossings.
type Track struct {
	LightID string

	// Address optionally pins the unicast address, bypassing the patch.
	Address uint16

	Blocks []Block
}

// Timeline is a playhead-driven arrangement of per-light blocks. The show
// document owns it; the sequencer only references it during playback and
// never mutates it, except for toggling MetronomeEnabled.
type Timeline struct {
	Name   string
	Tracks []Track

	// AudioFile optionally names an audio file started alongside play.
	AudioFile string

	Mode Mode

	// TempoEvents define the tempo map in ModeBeats.
	TempoEvents []tempo.Event

	// TotalBeats bounds playback in ModeBeats; when zero, TotalDuration
	// is used instead.
	TotalBeats float64

	// TotalDuration bounds playback, in seconds.
	TotalDuration float64

	MetronomeEnabled bool
}
