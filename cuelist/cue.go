package cuelist

import (
	"time"

	"github.com/robmorgan/beam/fixture"
)

// LightEntry is one light's target state within a cue.
type LightEntry struct {
	// LightID names a patched fixture. Resolved through the fixture
	// manager unless Address is set directly.
	LightID string

	// Address optionally pins the unicast address, bypassing the patch.
	Address uint16

	State fixture.State
}

// Cue is an ordered snapshot of target states for a set of lights, plus the
// timing rules for entering, holding and leaving it.
type Cue struct {
	Name string

	Entries []LightEntry

	// FollowDelay is how long after the "go" the cue starts executing.
	FollowDelay time.Duration

	// FadeTime is the cue's total time: the fade (in fade mode) runs
	// across it and the cue ends when it elapses. Zero means the cue
	// holds indefinitely, awaiting the next explicit trigger.
	FadeTime time.Duration

	// AutoFollow fires this cue automatically when the previous cue in
	// the list ends.
	AutoFollow bool
}

// List stores an ordered list of cues. The show document owns the list; the
// sequencer only references it while running.
type List struct {
	Name string
	Cues []*Cue
}

// NewList creates an empty cue list.
func NewList(name string) *List {
	return &List{
		Name: name,
		Cues: make([]*Cue, 0),
	}
}

// Append adds a cue to the end of the list.
func (cl *List) Append(c *Cue) {
	cl.Cues = append(cl.Cues, c)
}

// IndexOf returns the position of a cue in the list, or -1.
func (cl *List) IndexOf(c *Cue) int {
	for i, cue := range cl.Cues {
		if cue == c {
			return i
		}
	}
	return -1
}
