package main

import (
	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/beam/cuelist"
	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/logger"
	"github.com/robmorgan/beam/timeline"
	"github.com/sirupsen/logrus"
)

// oscTrigger maps incoming OSC messages onto sequencer operations. Messages
// arrive on the OSC server's goroutine, so every handler submits onto the
// scheduler loop instead of touching the sequencers directly.
type oscTrigger struct {
	loop *engine.Loop

	cues *cuelist.Sequencer
	list *cuelist.List

	tl   *timeline.Sequencer
	show *timeline.Timeline
}

func newOSCTrigger(loop *engine.Loop, cues *cuelist.Sequencer, list *cuelist.List, tl *timeline.Sequencer, show *timeline.Timeline) *oscTrigger {
	return &oscTrigger{loop: loop, cues: cues, list: list, tl: tl, show: show}
}

// ListenAndServe blocks serving OSC over UDP on addr.
func (t *oscTrigger) ListenAndServe(addr string) error {
	server := &osc.Server{Addr: addr, Dispatcher: t}
	return server.ListenAndServe()
}

// Dispatch implements osc.Dispatcher.
func (t *oscTrigger) Dispatch(packet osc.Packet) {
	switch packet := packet.(type) {
	case *osc.Message:
		t.dispatchMessage(packet)
	case *osc.Bundle:
		for _, msg := range packet.Messages {
			t.dispatchMessage(msg)
		}
		for _, child := range packet.Bundles {
			t.Dispatch(child)
		}
	}
}

func (t *oscTrigger) dispatchMessage(msg *osc.Message) {
	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"address": msg.Address}).Info("osc trigger")

	switch msg.Address {
	case "/beam/cue/go":
		t.loop.Submit(t.fireNextCue)
	case "/beam/cue/stop":
		t.loop.Submit(t.cues.Stop)
	case "/beam/cue/reset":
		t.loop.Submit(t.cues.Reset)
	case "/beam/timeline/play":
		t.loop.Submit(func() { t.tl.Play(t.show) })
	case "/beam/timeline/stop":
		t.loop.Submit(t.tl.Stop)
	case "/beam/timeline/seek":
		sec, ok := floatArg(msg)
		if !ok {
			log.Warn("seek without a numeric argument")
			return
		}
		t.loop.Submit(func() { t.tl.Seek(sec) })
	case "/beam/timeline/metronome":
		on, ok := floatArg(msg)
		if !ok {
			return
		}
		t.loop.Submit(func() { t.tl.SetMetronomeEnabled(on != 0) })
	default:
		log.WithFields(logrus.Fields{"address": msg.Address}).Debug("unhandled osc address")
	}
}

// fireNextCue advances through the list: the current cue if nothing has run
// yet, otherwise the one after it, wrapping at the end.
func (t *oscTrigger) fireNextCue() {
	if len(t.list.Cues) == 0 {
		return
	}
	st := t.cues.Status()
	idx := st.CurrentCue
	if st.Running {
		idx = (idx + 1) % len(t.list.Cues)
	}
	t.cues.FireCue(t.list.Cues[idx], t.list)
}

func floatArg(msg *osc.Message) (float64, bool) {
	if len(msg.Arguments) == 0 {
		return 0, false
	}
	switch v := msg.Arguments[0].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
