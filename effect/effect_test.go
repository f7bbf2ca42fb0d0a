package effect

import (
	"testing"
	"time"

	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/transport"
	"github.com/stretchr/testify/require"
)

func effectState(e fixture.EffectType, mode fixture.ColorMode) fixture.State {
	s := fixture.State{
		On:              true,
		Mode:            fixture.ModeEffects,
		Intensity:       75,
		CCT:             5600,
		Hue:             210,
		Saturation:      90,
		HSICct:          6500,
		Effect:          e,
		EffectFrequency: 2,
	}
	s.EffectColorModes[e] = mode
	return s
}

func TestRequiresEngine(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		effect   fixture.EffectType
		mode     fixture.ColorMode
		expected bool
	}{
		{fixture.EffectNone, fixture.ColorModeHSI, false},
		{fixture.EffectPulsing, fixture.ColorModeCCT, true},
		{fixture.EffectPulsing, fixture.ColorModeHSI, true},
		{fixture.EffectStrobe, fixture.ColorModeCCT, true},
		{fixture.EffectFaultyBulb, fixture.ColorModeCCT, true},
		{fixture.EffectParty, fixture.ColorModeCCT, true},
		{fixture.EffectCopCar, fixture.ColorModeCCT, false},
		{fixture.EffectCopCar, fixture.ColorModeHSI, false},
		{fixture.EffectFire, fixture.ColorModeCCT, false},
		{fixture.EffectFire, fixture.ColorModeHSI, true},
		{fixture.EffectLightning, fixture.ColorModeCCT, false},
		{fixture.EffectLightning, fixture.ColorModeHSI, true},
	}

	for _, tc := range testCases {
		got := RequiresEngine(effectState(tc.effect, tc.mode))
		require.Equal(t, tc.expected, got, "effect=%s mode=%v", tc.effect, tc.mode)
	}
}

func TestEngineParamsSerializationLists(t *testing.T) {
	t.Parallel()

	s := effectState(fixture.EffectPulsing, fixture.ColorModeCCT)
	s.EffectMin = 10
	s.EffectMax = 90
	s.EffectShape = 0.5
	s.EffectBias = 0.7 // not on pulsing's list

	p := EngineParams(s)
	require.Equal(t, 10.0, p["min"])
	require.Equal(t, 90.0, p["max"])
	require.Equal(t, 0.5, p["shape"])
	require.Equal(t, 5600.0, p["cct"])
	require.NotContains(t, p, "bias")
	require.NotContains(t, p, "hue")

	s = effectState(fixture.EffectParty, fixture.ColorModeHSI)
	s.EffectPoints = 6
	s.EffectTransition = 0.5
	s.EffectHueBias = 30
	p = EngineParams(s)
	require.Equal(t, 6.0, p["points"])
	require.Equal(t, 0.5, p["transition"])
	require.Equal(t, 30.0, p["hue_bias"])
	require.Equal(t, 210.0, p["hue"])
	require.NotContains(t, p, "shape")
}

func TestHardwarePayloadCopCar(t *testing.T) {
	t.Parallel()

	s := effectState(fixture.EffectCopCar, fixture.ColorModeCCT)
	s.CopCar = fixture.CopCarBlue

	fx := HardwarePayload(s)
	require.Equal(t, fixture.EffectCopCar, fx.Effect)
	require.Equal(t, 5600, fx.CCT)
	require.Equal(t, float64(fixture.CopCarBlue), fx.Extra)
}

func TestDispatcherBaseThenEffectAfterSettle(t *testing.T) {
	t.Parallel()

	sched := engine.NewManual(time.Unix(0, 0))
	sink := transport.NewMock()
	d := NewDispatcher(sched, sink)

	d.Apply(1, effectState(fixture.EffectPulsing, fixture.ColorModeCCT))
	require.Equal(t, []string{"setCCT"}, sink.Ops())

	sched.Advance(settleDelay)
	require.Equal(t, []string{"setCCT", "startSoftwareEffect"}, sink.Ops())
	require.Equal(t, "pulsing", sink.Calls()[1].Engine)
}

func TestDispatcherCancelStopsPendingEffect(t *testing.T) {
	t.Parallel()

	sched := engine.NewManual(time.Unix(0, 0))
	sink := transport.NewMock()
	d := NewDispatcher(sched, sink)

	h := d.Apply(1, effectState(fixture.EffectStrobe, fixture.ColorModeCCT))
	require.NotNil(t, h)
	h.Cancel()

	sched.Advance(time.Second)
	require.Equal(t, []string{"setCCT"}, sink.Ops())
}

func TestDispatcherHardwareEffectPath(t *testing.T) {
	t.Parallel()

	sched := engine.NewManual(time.Unix(0, 0))
	sink := transport.NewMock()
	d := NewDispatcher(sched, sink)

	d.Apply(2, effectState(fixture.EffectCopCar, fixture.ColorModeCCT))
	sched.Advance(settleDelay)

	ops := sink.Ops()
	require.Equal(t, []string{"setCCT", "setHardwareEffect"}, ops)
}

func TestSoftwareEngineLifecycle(t *testing.T) {
	t.Parallel()

	sched := engine.NewManual(time.Unix(0, 0))
	sink := transport.NewMock()
	e := NewEngine(sched, sink)

	e.Start(1, "pulsing", transport.Params{"frequency": 1, "min": 0, "max": 100, "shape": 1})
	require.True(t, e.Running(1))

	sched.Advance(400 * time.Millisecond)
	require.Equal(t, 10, len(sink.Calls()), "one base write per update tick")

	e.Stop(1)
	require.False(t, e.Running(1))
	sink.Reset()
	sched.Advance(time.Second)
	require.Empty(t, sink.Calls())

	// starting again replaces rather than stacks
	e.Start(1, "strobe", transport.Params{"frequency": 2})
	e.Start(1, "strobe", transport.Params{"frequency": 2})
	sched.Advance(updateRate)
	require.Len(t, sink.Calls(), 1)
	e.StopAll()
	require.False(t, e.Running(1))
}
