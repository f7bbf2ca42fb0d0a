package main

import (
	"time"

	"github.com/robmorgan/beam/cuelist"
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/tempo"
	"github.com/robmorgan/beam/timeline"
)

// buildShowCues assembles the demo cue list against the patched rig: two key
// lights up front, three tubes behind.
func buildShowCues() *cuelist.List {
	list := cuelist.NewList("demo show")
	list.Append(getOpeningCue())
	list.Append(getPartyCue())
	list.Append(getStrobeCue())
	list.Append(getBlackoutCue())
	return list
}

// Cue #1: warm wash on the key lights, fade in over 3s then hand over.
func getOpeningCue() *cuelist.Cue {
	cue := &cuelist.Cue{
		Name:     "opening wash",
		FadeTime: 3 * time.Second,
	}
	for _, id := range []string{"key_left", "key_right"} {
		cue.Entries = append(cue.Entries, cuelist.LightEntry{
			LightID: id,
			State:   fixture.State{On: true, Mode: fixture.ModeCCT, Intensity: 80, CCT: 3200},
		})
	}
	return cue
}

// Cue #2: keys down, party effect on the tubes. Holds until the next go.
func getPartyCue() *cuelist.Cue {
	cue := &cuelist.Cue{
		Name:       "tube party",
		AutoFollow: true,
	}
	cue.Entries = append(cue.Entries, entriesToClear("key_left", "key_right")...)

	party := fixture.State{
		On:               true,
		Mode:             fixture.ModeEffects,
		Intensity:        100,
		Effect:           fixture.EffectParty,
		EffectFrequency:  0.5,
		EffectPoints:     4,
		EffectTransition: 1.2,
	}
	party.EffectColorModes[fixture.EffectParty] = fixture.ColorModeHSI
	for _, id := range []string{"tube_1", "tube_2", "tube_3"} {
		cue.Entries = append(cue.Entries, cuelist.LightEntry{LightID: id, State: party})
	}
	return cue
}

// Cue #3: white strobe on the keys for five seconds.
func getStrobeCue() *cuelist.Cue {
	cue := &cuelist.Cue{
		Name:     "key strobe",
		FadeTime: 5 * time.Second,
	}
	strobe := fixture.State{
		On:              true,
		Mode:            fixture.ModeEffects,
		Intensity:       100,
		CCT:             6500,
		Effect:          fixture.EffectStrobe,
		EffectFrequency: 10,
		EffectMin:       0,
		EffectMax:       100,
	}
	for _, id := range []string{"key_left", "key_right"} {
		cue.Entries = append(cue.Entries, cuelist.LightEntry{LightID: id, State: strobe})
	}
	return cue
}

// Cue #4: everything out.
func getBlackoutCue() *cuelist.Cue {
	cue := &cuelist.Cue{
		Name:       "blackout",
		AutoFollow: true,
	}
	cue.Entries = entriesToClear("key_left", "key_right", "tube_1", "tube_2", "tube_3")
	return cue
}

func entriesToClear(ids ...string) []cuelist.LightEntry {
	entries := make([]cuelist.LightEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, cuelist.LightEntry{
			LightID: id,
			State:   fixture.State{On: true, Mode: fixture.ModeCCT, Intensity: 0, CCT: 5600},
		})
	}
	return entries
}

// buildShowTimeline assembles a beat-locked demo timeline at 128 BPM: fire on
// the tubes for the first 16 bars, a cop car hit on the keys at bar 9.
func buildShowTimeline() *timeline.Timeline {
	fire := fixture.State{
		On:              true,
		Mode:            fixture.ModeEffects,
		Intensity:       70,
		Effect:          fixture.EffectFire,
		EffectFrequency: 2,
		EffectWarmth:    0.8,
		EffectMin:       30,
		EffectMax:       90,
	}
	copCar := fixture.State{
		On:              true,
		Mode:            fixture.ModeEffects,
		Intensity:       100,
		Effect:          fixture.EffectCopCar,
		EffectFrequency: 4,
		CopCar:          fixture.CopCarRedBlue,
	}

	tl := &timeline.Timeline{
		Name: "demo timeline",
		Mode: timeline.ModeBeats,
		TempoEvents: []tempo.Event{
			{Beat: 0, BPM: 128, Sig: tempo.CommonTime},
		},
		TotalBeats:       64,
		MetronomeEnabled: true,
	}

	for _, id := range []string{"tube_1", "tube_2", "tube_3"} {
		tl.Tracks = append(tl.Tracks, timeline.Track{
			LightID: id,
			Blocks: []timeline.Block{
				{ID: id + "-fire", Start: 0, Duration: 32, State: fire},
			},
		})
	}
	for _, id := range []string{"key_left", "key_right"} {
		tl.Tracks = append(tl.Tracks, timeline.Track{
			LightID: id,
			Blocks: []timeline.Block{
				{ID: id + "-copcar", Start: 32, Duration: 16, State: copCar},
			},
		})
	}
	return tl
}
