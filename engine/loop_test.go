package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func TestLoopStopWithoutStart(t *testing.T) {
	t.Parallel()

	l := NewLoop(clocktesting.NewFakeClock(time.Unix(100, 0)))

	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a loop that was never started")
	}
}

func TestLoopAfterFiresOnFakeClock(t *testing.T) {
	t.Parallel()

	fc := clocktesting.NewFakeClock(time.Unix(100, 0))
	l := NewLoop(fc)
	l.Start()
	defer l.Stop()

	fired := make(chan struct{}, 1)
	l.After(time.Second, func() { fired <- struct{}{} })

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	fc.Step(time.Second)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer action never ran")
	}
}

func TestLoopEveryRepeatsUntilCancelled(t *testing.T) {
	t.Parallel()

	fc := clocktesting.NewFakeClock(time.Unix(100, 0))
	l := NewLoop(fc)
	l.Start()
	defer l.Stop()

	fired := make(chan struct{}, 4)
	h := l.Every(time.Second, func() { fired <- struct{}{} })

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	for i := 0; i < 2; i++ {
		fc.Step(time.Second)
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatalf("tick %d never ran", i+1)
		}
	}

	h.Cancel()
	fc.Step(time.Second)
	select {
	case <-fired:
		t.Fatal("ticker action ran after cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLoopCancelBeforeFire(t *testing.T) {
	t.Parallel()

	fc := clocktesting.NewFakeClock(time.Unix(100, 0))
	l := NewLoop(fc)
	l.Start()
	defer l.Stop()

	fired := make(chan struct{}, 1)
	h := l.After(time.Second, func() { fired <- struct{}{} })
	h.Cancel()
	h.Cancel() // idempotent

	fc.Step(time.Second)
	select {
	case <-fired:
		t.Fatal("cancelled timer action ran")
	case <-time.After(100 * time.Millisecond):
	}
}
