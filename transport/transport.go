// Package transport defines the capability interface the sequencers use to
// realize a state change on a physical light. The wire details (mesh proxy
// PDUs, encryption, BLE connection management, bridged relays) live behind
// this interface and are not part of this repo.
package transport

import "github.com/robmorgan/beam/fixture"

// Params is the parameter bag handed to a software effect engine. Each
// effect serializes an explicit list of fields; see the effect package.
type Params map[string]float64

// HardwareEffect is the payload of a single "set effect" command for
// fixtures that render the effect natively.
type HardwareEffect struct {
	Effect     fixture.EffectType
	Intensity  float64
	Frequency  float64
	CCT        int
	ColorMode  fixture.ColorMode
	Hue        float64
	Saturation float64

	// Extra carries the effect-specific scalar, e.g. the cop car color
	// scheme.
	Extra float64
}

// Sink delivers commands to lights. Delivery is best effort; the sequencers
// never retry, so a Sink implementation owns whatever retry or buffering the
// link needs. All methods must be safe for use from the sequencer scheduler
// goroutine.
type Sink interface {
	SetCCT(addr uint16, intensity float64, kelvin int, sleep bool) error
	SetHSI(addr uint16, intensity, hue, saturation float64, kelvin int, sleep bool) error
	SetSleep(addr uint16, on bool) error
	SetHardwareEffect(addr uint16, fx HardwareEffect) error
	StartSoftwareEffect(addr uint16, engine string, params Params) error
	UpdateEffect(addr uint16, params Params) error
	StopEffect(addr uint16) error
	StopAll() error

	// IsReady reports whether the light can receive commands right now.
	IsReady(addr uint16) bool

	// Connect asks the transport to bring up a link to the light. It
	// returns immediately; readiness is observed via OnReady.
	Connect(addr uint16)

	// OnReady registers fn to be invoked once, when the light transitions
	// to ready. The returned cancel must be idempotent and must drop the
	// registration if fn has not fired yet.
	OnReady(addr uint16, fn func()) (cancel func())
}
