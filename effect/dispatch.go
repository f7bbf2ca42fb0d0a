package effect

import (
	"time"

	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/logger"
	"github.com/robmorgan/beam/transport"
	"github.com/sirupsen/logrus"
)

// settleDelay is how long a fixture gets to apply its base color before an
// effect command follows.
const settleDelay = 200 * time.Millisecond

// Dispatcher turns a desired light state into the minimal command sequence
// for the transport: one base-state command, plus at most one effect
// start/set command after a short settle delay.
type Dispatcher struct {
	sched engine.Scheduler
	sink  transport.Sink
}

// NewDispatcher creates a dispatcher issuing commands through sink on the
// given scheduler.
func NewDispatcher(sched engine.Scheduler, sink transport.Sink) *Dispatcher {
	return &Dispatcher{sched: sched, sink: sink}
}

// ApplyBase realizes only the base color/intensity of a state. Fades call
// this for every interpolation sample.
func (d *Dispatcher) ApplyBase(addr uint16, s fixture.State) {
	log := logger.GetProjectLogger()

	var err error
	switch {
	case !s.On:
		err = d.sink.SetSleep(addr, true)
	case s.Mode == fixture.ModeHSI:
		err = d.sink.SetHSI(addr, s.Intensity, s.Hue, s.Saturation, s.HSICct, false)
	case s.Mode == fixture.ModeEffects && s.Effect != fixture.EffectNone:
		if s.ColorModeFor(s.Effect) == fixture.ColorModeHSI {
			err = d.sink.SetHSI(addr, s.Intensity, s.Hue, s.Saturation, s.HSICct, false)
		} else {
			err = d.sink.SetCCT(addr, s.Intensity, s.CCT, false)
		}
	default:
		// plain CCT, including effects mode with no effect selected
		err = d.sink.SetCCT(addr, s.Intensity, s.CCT, false)
	}
	if err != nil {
		log.WithFields(logrus.Fields{"addr": addr}).Warnf("base state send failed: %v", err)
	}
}

// Apply realizes a full target state: the base command immediately, then the
// effect command once the fixture has settled. The returned handle cancels
// the pending effect command; it is nil when the state carries no effect.
// Cancel is safe after the command has already gone out.
func (d *Dispatcher) Apply(addr uint16, s fixture.State) engine.Handle {
	d.ApplyBase(addr, s)

	if !s.On || s.Mode != fixture.ModeEffects || s.Effect == fixture.EffectNone {
		return nil
	}

	state := s
	return d.sched.After(settleDelay, func() {
		d.startEffect(addr, state)
	})
}

func (d *Dispatcher) startEffect(addr uint16, s fixture.State) {
	log := logger.GetProjectLogger()

	var err error
	if RequiresEngine(s) {
		err = d.sink.StartSoftwareEffect(addr, EngineName(s.Effect), EngineParams(s))
	} else {
		err = d.sink.SetHardwareEffect(addr, HardwarePayload(s))
	}
	if err != nil {
		log.WithFields(logrus.Fields{"addr": addr, "effect": s.Effect.String()}).
			Warnf("effect send failed: %v", err)
	}
}

// Dim sends the neutral end-of-cue state for a light: effects stopped,
// intensity zero.
func (d *Dispatcher) Dim(addr uint16, last fixture.State) {
	log := logger.GetProjectLogger()

	if err := d.sink.StopEffect(addr); err != nil {
		log.WithFields(logrus.Fields{"addr": addr}).Warnf("stop effect failed: %v", err)
	}
	kelvin := last.CCT
	if kelvin == 0 {
		kelvin = 5600
	}
	if err := d.sink.SetCCT(addr, 0, kelvin, false); err != nil {
		log.WithFields(logrus.Fields{"addr": addr}).Warnf("dim failed: %v", err)
	}
}
