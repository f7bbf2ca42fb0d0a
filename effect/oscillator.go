package effect

import "math"

const twoPi = 2 * math.Pi

// ShapeFn maps elapsed seconds and a frequency in Hz to a waveform value in
// [0, 1].
type ShapeFn func(t, frequency float64) float64

// SineWave oscillates smoothly between 0 and 1.
func SineWave(t, frequency float64) float64 {
	return 0.5 + 0.5*math.Sin(twoPi*frequency*t)
}

// Sawtooth ramps from 0 to 1 and drops back each period.
func Sawtooth(t, frequency float64) float64 {
	phase := math.Mod(t*frequency, 1)
	if phase < 0 {
		phase += 1
	}
	return phase
}

// Square flips between 0 and 1, spending duty of each period high.
func Square(duty float64) ShapeFn {
	if duty <= 0 || duty >= 1 {
		duty = 0.5
	}
	return func(t, frequency float64) float64 {
		if Sawtooth(t, frequency) < duty {
			return 1
		}
		return 0
	}
}

// Shaped blends a sawtooth toward a sine as shape goes from 0 to 1; cue
// authors use it to soften a pulse without picking a different effect.
func Shaped(shape float64) ShapeFn {
	if shape < 0 {
		shape = 0
	}
	if shape > 1 {
		shape = 1
	}
	return func(t, frequency float64) float64 {
		return (1-shape)*Sawtooth(t, frequency) + shape*SineWave(t, frequency)
	}
}
