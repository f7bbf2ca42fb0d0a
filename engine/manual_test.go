package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualAfterFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	m := NewManual(time.Unix(0, 0))
	var got []string

	m.After(2*time.Second, func() { got = append(got, "b") })
	m.After(1*time.Second, func() { got = append(got, "a") })
	m.After(5*time.Second, func() { got = append(got, "c") })

	m.Advance(3 * time.Second)
	require.Equal(t, []string{"a", "b"}, got)
	require.Equal(t, time.Unix(3, 0), m.Now())

	m.Advance(2 * time.Second)
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestManualCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	m := NewManual(time.Unix(0, 0))
	fired := 0

	h := m.After(time.Second, func() { fired++ })
	h.Cancel()
	h.Cancel()
	m.Advance(5 * time.Second)
	require.Zero(t, fired)

	// cancelling after the action ran is a no-op too
	h2 := m.After(time.Second, func() { fired++ })
	m.Advance(2 * time.Second)
	h2.Cancel()
	require.Equal(t, 1, fired)
}

func TestManualEvery(t *testing.T) {
	t.Parallel()

	m := NewManual(time.Unix(0, 0))
	ticks := 0
	h := m.Every(100*time.Millisecond, func() { ticks++ })

	m.Advance(time.Second)
	require.Equal(t, 10, ticks)

	h.Cancel()
	m.Advance(time.Second)
	require.Equal(t, 10, ticks)
}

func TestManualChainedActionsSettleWithinAdvance(t *testing.T) {
	t.Parallel()

	m := NewManual(time.Unix(0, 0))
	var got []string

	m.After(time.Second, func() {
		got = append(got, "first")
		m.After(time.Second, func() {
			got = append(got, "second")
		})
	})

	m.Advance(3 * time.Second)
	require.Equal(t, []string{"first", "second"}, got)
}
