package utils

import (
	"math"

	"github.com/robmorgan/beam/fixture"
)

// Lerp linearly interpolates between a and b. Progress 0 yields exactly a,
// progress 1 yields exactly b.
func Lerp(a, b, progress float64) float64 {
	if progress >= 1 {
		return b
	}
	if progress <= 0 {
		return a
	}
	return a + (b-a)*progress
}

// Clamp limits t to the interval [min, max].
func Clamp(t, minVal, maxVal float64) float64 {
	minVal, maxVal = math.Min(minVal, maxVal), math.Max(minVal, maxVal)
	return math.Max(math.Min(t, maxVal), minVal)
}

// LerpState interpolates every numeric channel of a light state from a
// previous state toward a target. Discrete channels (power, mode, effect
// selection and parameters) are taken from the target so the right command
// family is sent mid-fade, but they only take real effect at the final
// sample: at progress >= 1 the target is returned unchanged, bit for bit.
func LerpState(from, to fixture.State, progress float64) fixture.State {
	if progress >= 1 {
		return to
	}
	out := to
	out.Intensity = Lerp(from.Intensity, to.Intensity, progress)
	out.CCT = lerpInt(from.CCT, to.CCT, progress)
	out.Hue = Lerp(from.Hue, to.Hue, progress)
	out.Saturation = Lerp(from.Saturation, to.Saturation, progress)
	out.HSICct = lerpInt(from.HSICct, to.HSICct, progress)
	return out
}

func lerpInt(a, b int, progress float64) int {
	return int(math.Round(Lerp(float64(a), float64(b), progress)))
}
