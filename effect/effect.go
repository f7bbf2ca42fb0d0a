// Package effect decides how a light effect is realized: natively on the
// fixture hardware, or emulated client-side by repeatedly rewriting the
// fixture's base state. It also owns the per-effect parameter serialization
// lists, so only the fields an effect actually needs go over the link.
package effect

import (
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/transport"
)

// RequiresEngine reports whether the configured effect must be driven by
// the software engine. Pulsing, strobe, faulty-bulb and party have no
// hardware rendition at all; cop-car always renders on the fixture. Every
// other effect renders natively in CCT mode only, so it falls back to the
// engine when its configured color mode is HSI.
func RequiresEngine(s fixture.State) bool {
	switch s.Effect {
	case fixture.EffectNone:
		return false
	case fixture.EffectPulsing, fixture.EffectStrobe, fixture.EffectFaultyBulb, fixture.EffectParty:
		return true
	case fixture.EffectCopCar:
		return false
	default:
		return s.ColorModeFor(s.Effect) == fixture.ColorModeHSI
	}
}

// EngineName returns the software engine identifier for an effect.
func EngineName(e fixture.EffectType) string {
	return e.String()
}

// EngineParams assembles the parameter bag for a software-driven effect.
// Each effect has an explicit serialization list; fields outside that list
// are never sent, no matter what the state carries.
func EngineParams(s fixture.State) transport.Params {
	p := transport.Params{
		"intensity": s.Intensity,
		"frequency": s.EffectFrequency,
	}
	if s.ColorModeFor(s.Effect) == fixture.ColorModeHSI {
		p["hsi"] = 1
		p["hue"] = s.Hue
		p["saturation"] = s.Saturation
		p["cct"] = float64(s.HSICct)
	} else {
		p["hsi"] = 0
		p["cct"] = float64(s.CCT)
	}

	switch s.Effect {
	case fixture.EffectPulsing:
		p["min"] = s.EffectMin
		p["max"] = s.EffectMax
		p["shape"] = s.EffectShape
	case fixture.EffectStrobe:
		p["min"] = s.EffectMin
		p["max"] = s.EffectMax
	case fixture.EffectFaultyBulb:
		p["bias"] = s.EffectBias
		p["recovery"] = s.EffectRecovery
	case fixture.EffectParty:
		p["points"] = float64(s.EffectPoints)
		p["transition"] = s.EffectTransition
		p["palette"] = float64(s.EffectPalette)
		p["hue_bias"] = s.EffectHueBias
	case fixture.EffectFire, fixture.EffectCandle:
		p["warmth"] = s.EffectWarmth
		p["min"] = s.EffectMin
		p["max"] = s.EffectMax
	case fixture.EffectLightning:
		p["bias"] = s.EffectBias
		p["recovery"] = s.EffectRecovery
	case fixture.EffectTV:
		p["min"] = s.EffectMin
		p["max"] = s.EffectMax
		p["transition"] = s.EffectTransition
	case fixture.EffectPaparazzi:
		p["bias"] = s.EffectBias
	case fixture.EffectFireworks:
		p["points"] = float64(s.EffectPoints)
		p["transition"] = s.EffectTransition
	}
	return p
}

// HardwarePayload assembles the single set-effect command for effects the
// fixture renders natively.
func HardwarePayload(s fixture.State) transport.HardwareEffect {
	fx := transport.HardwareEffect{
		Effect:    s.Effect,
		Intensity: s.Intensity,
		Frequency: s.EffectFrequency,
		ColorMode: s.ColorModeFor(s.Effect),
	}
	if fx.ColorMode == fixture.ColorModeHSI {
		fx.Hue = s.Hue
		fx.Saturation = s.Saturation
		fx.CCT = s.HSICct
	} else {
		fx.CCT = s.CCT
	}
	if s.Effect == fixture.EffectCopCar {
		fx.Extra = float64(s.CopCar)
	}
	return fx
}
