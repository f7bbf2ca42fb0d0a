package fixture

// Mode selects which color system a state drives on the fixture.
type Mode int

const (
	ModeCCT Mode = iota
	ModeHSI
	ModeEffects
)

func (m Mode) String() string {
	switch m {
	case ModeCCT:
		return "cct"
	case ModeHSI:
		return "hsi"
	case ModeEffects:
		return "effects"
	}
	return "unknown"
}

// EffectType identifies a built-in light effect.
type EffectType int

const (
	EffectNone EffectType = iota
	EffectPulsing
	EffectStrobe
	EffectFaultyBulb
	EffectParty
	EffectCopCar
	EffectFire
	EffectCandle
	EffectLightning
	EffectTV
	EffectPaparazzi
	EffectFireworks

	numEffectTypes
)

func (e EffectType) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectPulsing:
		return "pulsing"
	case EffectStrobe:
		return "strobe"
	case EffectFaultyBulb:
		return "faulty_bulb"
	case EffectParty:
		return "party"
	case EffectCopCar:
		return "cop_car"
	case EffectFire:
		return "fire"
	case EffectCandle:
		return "candle"
	case EffectLightning:
		return "lightning"
	case EffectTV:
		return "tv"
	case EffectPaparazzi:
		return "paparazzi"
	case EffectFireworks:
		return "fireworks"
	}
	return "unknown"
}

// ColorMode is the color system an effect renders its base color in.
type ColorMode int

const (
	ColorModeCCT ColorMode = iota
	ColorModeHSI
)

// CopCarColor selects the beacon color scheme of the cop car effect.
type CopCarColor int

const (
	CopCarRedBlue CopCarColor = iota
	CopCarRed
	CopCarBlue
)

// State is the complete desired output state for one light. States are
// captured into cues and timeline blocks and copied by value whenever the
// sequencer reads them; the sequencer never mutates a captured state.
type State struct {
	On        bool
	Mode      Mode
	Intensity float64 // 0-100

	// CCT mode
	CCT int // kelvin

	// HSI mode
	Hue        float64 // 0-360
	Saturation float64 // 0-100
	HSICct     int     // kelvin fallback when the fixture has no color engine

	// Effects mode
	Effect          EffectType
	EffectFrequency float64 // Hz

	// Per-effect color mode. Indexed by EffectType so the struct keeps
	// plain value semantics when copied.
	EffectColorModes [numEffectTypes]ColorMode

	// Effect-specific parameters. Only the fields named by an effect's
	// serialization list are ever sent; see the effect package.
	EffectMin        float64 // 0-100
	EffectMax        float64 // 0-100
	EffectShape      float64 // 0-1 waveform shape
	EffectBias       float64 // 0-1
	EffectRecovery   float64 // seconds
	EffectWarmth     float64 // 0-1
	EffectPoints     int
	EffectTransition float64 // seconds
	EffectPalette    int
	EffectHueBias    float64 // degrees
	CopCar           CopCarColor
}

// ColorModeFor returns the configured color mode for the given effect.
func (s State) ColorModeFor(e EffectType) ColorMode {
	if e < 0 || e >= numEffectTypes {
		return ColorModeCCT
	}
	return s.EffectColorModes[e]
}
