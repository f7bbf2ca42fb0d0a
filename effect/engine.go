package effect

import (
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/transport"
)

// updateRate is the cadence at which software effects rewrite base state.
const updateRate = 40 * time.Millisecond

// BaseWriter is the slice of the transport a software effect drives. A Sink
// implementation that embeds an Engine passes its own raw setters here.
type BaseWriter interface {
	SetCCT(addr uint16, intensity float64, kelvin int, sleep bool) error
	SetHSI(addr uint16, intensity, hue, saturation float64, kelvin int, sleep bool) error
}

// Engine emulates effects the fixture cannot render natively, by
// periodically rewriting the light's base color and intensity.
type Engine struct {
	sched   engine.Scheduler
	out     BaseWriter
	running map[uint16]*softwareEffect
}

type softwareEffect struct {
	name   string
	params transport.Params
	start  time.Time
	handle engine.Handle

	rng       *rand.Rand
	darkUntil time.Time
}

// NewEngine creates a software effect engine writing through out.
func NewEngine(sched engine.Scheduler, out BaseWriter) *Engine {
	return &Engine{
		sched:   sched,
		out:     out,
		running: make(map[uint16]*softwareEffect),
	}
}

// Start begins (or replaces) the software effect on a light.
func (e *Engine) Start(addr uint16, name string, params transport.Params) {
	e.Stop(addr)
	fx := &softwareEffect{
		name:   name,
		params: params,
		start:  e.sched.Now(),
		rng:    rand.New(rand.NewSource(e.sched.Now().UnixNano())),
	}
	fx.handle = e.sched.Every(updateRate, func() {
		e.step(addr, fx)
	})
	e.running[addr] = fx
}

// Update swaps the parameter bag of a running effect in place.
func (e *Engine) Update(addr uint16, params transport.Params) {
	if fx, ok := e.running[addr]; ok {
		fx.params = params
	}
}

// Stop halts the software effect on a light, if any.
func (e *Engine) Stop(addr uint16) {
	if fx, ok := e.running[addr]; ok {
		fx.handle.Cancel()
		delete(e.running, addr)
	}
}

// StopAll halts every running software effect.
func (e *Engine) StopAll() {
	for addr := range e.running {
		e.Stop(addr)
	}
}

// Running reports whether a software effect is active on a light.
func (e *Engine) Running(addr uint16) bool {
	_, ok := e.running[addr]
	return ok
}

func (f *softwareEffect) param(key string, def float64) float64 {
	if v, ok := f.params[key]; ok {
		return v
	}
	return def
}

func (e *Engine) step(addr uint16, fx *softwareEffect) {
	now := e.sched.Now()
	t := now.Sub(fx.start).Seconds()

	freq := fx.param("frequency", 1)
	intensity := fx.param("intensity", 100)
	lo := fx.param("min", 0)
	hi := fx.param("max", intensity)
	hue := fx.param("hue", 0)
	sat := fx.param("saturation", 100)
	kelvin := int(fx.param("cct", 5600))

	level := intensity
	switch fx.name {
	case "pulsing":
		level = lo + (hi-lo)*Shaped(fx.param("shape", 1))(t, freq)

	case "strobe":
		level = lo + (hi-lo)*Square(0.5)(t, freq)

	case "faulty_bulb":
		if now.Before(fx.darkUntil) {
			level = 0
		} else if fx.rng.Float64() < fx.param("bias", 0.2)*freq*updateRate.Seconds() {
			fx.darkUntil = now.Add(time.Duration(fx.param("recovery", 0.3) * float64(time.Second)))
			level = 0
		}

	case "party":
		hue, sat = partyColor(t, fx)

	case "fire", "candle":
		// slow warm flicker with a random shimmer on top
		flick := 0.7*SineWave(t, freq) + 0.3*fx.rng.Float64()
		level = lo + (hi-lo)*flick
		kelvin -= int(fx.param("warmth", 0.5) * 800 * flick)

	case "lightning":
		level = 0
		if fx.rng.Float64() < fx.param("bias", 0.1)*freq*updateRate.Seconds() {
			level = hi
		}

	case "tv":
		level = lo + (hi-lo)*(0.4*SineWave(t, freq*1.7)+0.6*fx.rng.Float64())

	case "paparazzi":
		level = 0
		if fx.rng.Float64() < fx.param("bias", 0.3) {
			level = intensity
		}

	case "fireworks":
		level = hi * (1 - Sawtooth(t, freq))
		hue = hueAt(t, fx)

	default:
		level = lo + (hi-lo)*SineWave(t, freq)
	}

	if fx.param("hsi", 0) != 0 || fx.name == "party" || fx.name == "fireworks" {
		e.out.SetHSI(addr, level, hue, sat, kelvin, false)
	} else {
		e.out.SetCCT(addr, level, kelvin, false)
	}
}

// partyColor blends around an evenly spaced hue palette, one transition per
// palette point.
func partyColor(t float64, fx *softwareEffect) (hue, sat float64) {
	n := int(fx.param("points", 4))
	if n < 2 {
		n = 2
	}
	transition := fx.param("transition", 1)
	if transition <= 0 {
		transition = 1
	}
	pos := t / transition
	i := int(pos) % n
	frac := pos - float64(int(pos))

	a := colorful.Hsv(paletteHue(i, n, fx), 1, 1)
	b := colorful.Hsv(paletteHue(i+1, n, fx), 1, 1)
	h, s, _ := a.BlendHcl(b, frac).Clamped().Hsv()
	return h, s * 100
}

func paletteHue(i, n int, fx *softwareEffect) float64 {
	base := fx.param("hue_bias", 0)
	h := base + 360*float64(i%n)/float64(n)
	for h >= 360 {
		h -= 360
	}
	return h
}

func hueAt(t float64, fx *softwareEffect) float64 {
	h := fx.param("hue_bias", 0) + 360*Sawtooth(t, 0.2)
	for h >= 360 {
		h -= 360
	}
	return h
}
