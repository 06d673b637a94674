package anim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(t *testing.T, s *Sequencer, us *UpdateState, d time.Duration) Result {
	t.Helper()
	us.Advance(d)
	res, err := s.Update(us)
	require.NoError(t, err)
	return res
}

func TestSequencerIdle(t *testing.T) {
	s := NewSequencer()
	res, err := s.Update(NewUpdateState())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, Infinite, s.TimeTillCurrentAnimationStepFinished())
}

func TestApplyBecomesLiveOnNextUpdate(t *testing.T) {
	s := NewSequencer()
	ran := false
	require.NoError(t, s.BuildSequence().CallAction(func() { ran = true }).Apply())
	assert.Equal(t, 0, s.CountRunningAnimations())

	res := step(t, s, NewUpdateState(), time.Millisecond)
	assert.True(t, ran)
	assert.Equal(t, 1, res.Completed)
	assert.Equal(t, 0, res.Running)
}

func TestOrderingOfNonBlockingAnimations(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := NewSequencer()
			var order []int
			b := s.BuildSequence()
			for i := 0; i < n; i++ {
				b.CallAction(func() { order = append(order, i) })
			}
			require.NoError(t, b.Apply())

			us := NewUpdateState()
			for i := 0; i < n; i++ {
				step(t, s, us, time.Second)
			}
			require.Len(t, order, n)
			for i, v := range order {
				assert.Equal(t, i, v)
			}
			assert.Equal(t, 0, s.CountRunningAnimations())
		})
	}
}

func TestBlockingStepHoldsBackLaterSteps(t *testing.T) {
	steps := []time.Duration{
		300 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
	}
	for _, d := range steps {
		t.Run(d.String(), func(t *testing.T) {
			s := NewSequencer()
			us := NewUpdateState()
			var startedAt time.Duration = -1
			require.NoError(t, s.BuildSequence().
				Delay(2*time.Second).
				CallAction(func() { startedAt = us.Total }).
				Apply())

			for i := 0; i < 20 && startedAt < 0; i++ {
				step(t, s, us, d)
			}
			assert.GreaterOrEqual(t, startedAt, 2*time.Second)
		})
	}
}

func TestCancelIsDeferredToNextPass(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	require.NoError(t, s.BuildSequence(p).
		ChangeAccentuationTo(p, 1, time.Second).
		RotateEulerTo(p, mgl32.Vec3{1, 0, 0}, time.Second).
		Apply())

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	require.Equal(t, 2, s.CountRunningAnimations())

	assert.Equal(t, 2, s.CancelAnimations())
	assert.Equal(t, 2, s.CountRunningAnimations())

	res := step(t, s, us, 100*time.Millisecond)
	assert.Equal(t, 2, res.Canceled)
	assert.Equal(t, 0, s.CountRunningAnimations())
}

func TestCancelAnimationsOfTarget(t *testing.T) {
	s := NewSequencer()
	x, y := newDummy(), newDummy()
	require.NoError(t, s.BuildSequence(x).ChangeAccentuationTo(x, 1, time.Second).Apply())
	require.NoError(t, s.BuildSequence(y).ChangeAccentuationTo(y, 1, time.Second).Apply())

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	s.CancelAnimationsOf(x)
	step(t, s, us, 100*time.Millisecond)

	assert.False(t, s.IsObjectAnimated(x))
	assert.True(t, s.IsObjectAnimated(y))
	assert.Equal(t, 1, s.CountRunningAnimations())
}

func TestCancelOfTargetRemovesBoundWaitsAndActions(t *testing.T) {
	s := NewSequencer()
	x := newDummy()
	fired := false
	require.NoError(t, s.BuildSequence(x).
		Delay(time.Second).
		CallAction(func() { fired = true }).
		Apply())

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	assert.True(t, s.IsObjectAnimated(x))

	s.CancelAnimationsOf(x)
	step(t, s, us, 2*time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, s.CountRunningAnimations())
}

func TestCancelOfTargetInSecondaryQueue(t *testing.T) {
	s := NewSequencer()
	x, y := newDummy(), newDummy()
	require.NoError(t, s.BuildSequence(x).ChangeAccentuationTo(x, 1, time.Second).ApplyAsSecondary())
	require.NoError(t, s.BuildSequence(y).ChangeAccentuationTo(y, 1, time.Second).ApplyAsSecondary())

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	s.CancelAnimationsOf(y)
	step(t, s, us, 100*time.Millisecond)

	assert.True(t, s.IsObjectAnimated(x))
	assert.False(t, s.IsObjectAnimated(y))
}

func TestSecondaryQueuesRunIndependently(t *testing.T) {
	s := NewSequencer()
	us := NewUpdateState()
	var primaryAt, secondaryAt time.Duration
	require.NoError(t, s.BuildSequence().
		Delay(3*time.Second).
		CallAction(func() { primaryAt = us.Total }).
		Apply())
	require.NoError(t, s.BuildSequence().
		Delay(time.Second).
		CallAction(func() { secondaryAt = us.Total }).
		ApplyAsSecondary())

	for i := 0; i < 50; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	assert.Equal(t, 1100*time.Millisecond, secondaryAt)
	assert.Equal(t, 3100*time.Millisecond, primaryAt)
}

func TestPauseSkipsAnimationsThatDoNotIgnoreIt(t *testing.T) {
	s := NewSequencer()
	paused, ignoring := newDummy(), newDummy()
	require.NoError(t, s.BuildSequence(paused).ChangeAccentuationTo(paused, 1, time.Second).ApplyAsSecondary())
	require.NoError(t, s.BuildSequence(ignoring).ChangeAccentuationTo(ignoring, 1, time.Second).ApplyAsSecondary(IgnorePause(true)))

	us := NewUpdateState()
	us.Paused = true
	step(t, s, us, 500*time.Millisecond)
	assert.Equal(t, float32(0), paused.accent)
	assert.InDelta(t, 0.5, ignoring.accent, 1e-5)

	us.Paused = false
	step(t, s, us, 500*time.Millisecond)
	assert.InDelta(t, 0.5, paused.accent, 1e-5)
	assert.Equal(t, float32(1), ignoring.accent)
}

func TestPausedBlockingStepStillBlocks(t *testing.T) {
	s := NewSequencer()
	fired := false
	require.NoError(t, s.BuildSequence().
		Delay(0).
		CallAction(func() { fired = true }).
		Apply())

	us := NewUpdateState()
	us.Paused = true
	step(t, s, us, time.Second)
	step(t, s, us, time.Second)
	assert.False(t, fired)
	assert.Equal(t, 2, s.CountRunningAnimations())
}

func TestOnFinishedWaitsForEveryStep(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	us := NewUpdateState()
	var doneAt time.Duration
	require.NoError(t, s.BuildSequence(p).
		ChangeAccentuationTo(p, 1, time.Second).
		MoveTo(p, p.pos.Add(p.pos), 2*time.Second).
		Apply(OnFinished(func() { doneAt = us.Total })))

	for i := 0; i < 30; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	assert.Equal(t, 2100*time.Millisecond, doneAt)
}

func TestOnCanceledRunsOnCancel(t *testing.T) {
	s := NewSequencer()
	var finished, canceled bool
	require.NoError(t, s.BuildSequence().
		Delay(time.Second).
		Apply(OnFinished(func() { finished = true }), OnCanceled(func() { canceled = true })))

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	s.CancelAnimations()
	step(t, s, us, 100*time.Millisecond)
	assert.False(t, finished)
	assert.True(t, canceled)
}

func TestApplyAsync(t *testing.T) {
	s := NewSequencer()
	c, err := s.BuildSequence().Delay(time.Second).ApplyAsync()
	require.NoError(t, err)

	us := NewUpdateState()
	for i := 0; i < 15; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	select {
	case <-c.Done():
	default:
		t.Fatal("completion should be resolved")
	}
	assert.NoError(t, c.Wait(context.Background()))
}

func TestApplyAsyncCanceled(t *testing.T) {
	s := NewSequencer()
	c, err := s.BuildSequence().Delay(time.Second).ApplyAsSecondaryAsync()
	require.NoError(t, err)

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	s.BeginCancelAnimations()
	step(t, s, us, 100*time.Millisecond)

	assert.ErrorIs(t, c.Err(), ErrCanceled)
}

func TestApplyAsyncCanceledThroughTarget(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	finished := false
	c, err := s.BuildSequence().
		RotateEulerTo(p, mgl32.Vec3{0, 1, 0}, time.Second).
		ApplyAsync(OnFinished(func() { finished = true }))
	require.NoError(t, err)

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	s.CancelAnimationsOf(p)
	for i := 0; i < 3; i++ {
		step(t, s, us, 100*time.Millisecond)
	}

	require.True(t, isDone(c))
	assert.ErrorIs(t, c.Err(), ErrCanceled)
	assert.False(t, finished)
}

func TestOnCanceledRunsWhenFailedStepIsRemoved(t *testing.T) {
	s := NewOwnerSequencer(newDummy())
	var finished, canceled bool
	c, err := s.BuildSequence().
		Call(func() error { return errors.New("boom") }, nil).
		Delay(100*time.Millisecond).
		ApplyAsync(OnFinished(func() { finished = true }), OnCanceled(func() { canceled = true }))
	require.NoError(t, err)

	us := NewUpdateState()
	for i := 0; i < 4; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	assert.False(t, finished)
	assert.True(t, canceled)
	assert.ErrorIs(t, c.Err(), ErrCanceled)
	assert.Zero(t, s.CountRunningAnimations())
}

func isDone(c *Completion) bool {
	select {
	case <-c.Done():
		return true
	default:
		return false
	}
}

func TestCompletionWaitHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, newCompletion().Wait(ctx), context.Canceled)
}

func TestWaitTaskFinishedOnAnotherSequence(t *testing.T) {
	s := NewSequencer()
	c, err := s.BuildSequence().Delay(time.Second).ApplyAsSecondaryAsync()
	require.NoError(t, err)

	fired := false
	require.NoError(t, s.BuildSequence().WaitTaskFinished(c).CallAction(func() { fired = true }).Apply())

	us := NewUpdateState()
	for i := 0; i < 5; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	assert.False(t, fired)
	for i := 0; i < 10; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	assert.True(t, fired)
}

func TestBuilderReusePanics(t *testing.T) {
	s := NewSequencer()
	b := s.BuildSequence().Delay(time.Second)
	require.NoError(t, b.Apply())

	assert.PanicsWithValue(t, ErrBuilderApplied, func() { b.Delay(time.Second) })
	assert.PanicsWithValue(t, ErrBuilderApplied, func() { _ = b.Apply() })
}

func TestBuilderReturnsFirstConstructionError(t *testing.T) {
	s := NewSequencer()
	err := s.BuildSequence().
		Delay(-time.Second).
		ChangeAccentuationTo(newDummy(), 3, time.Second).
		Apply()
	assert.ErrorIs(t, err, ErrInvalidDuration)

	err = s.BuildSequence(nil).Apply()
	assert.ErrorIs(t, err, ErrNilArgument)

	err = s.BuildSequence().ApplyAndRewind()
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestWaitUntilTimePassedIsSequenceRelative(t *testing.T) {
	s := NewSequencer()
	us := NewUpdateState()
	step(t, s, us, 5*time.Second)

	var firedAt time.Duration
	require.NoError(t, s.BuildSequence().
		Delay(500*time.Millisecond).
		WaitUntilTimePassed(time.Second).
		CallAction(func() { firedAt = us.Total }).
		Apply())

	for i := 0; i < 20; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	// The first tick of the sequence covers 5.0s-5.1s, so the wait ends at
	// 6.0s and the action runs on the tick after.
	assert.Equal(t, 6100*time.Millisecond, firedAt)
}

func TestRotateLoop(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	require.NoError(t, s.BuildSequence(p).
		RotateEulerTo(p, mgl32.Vec3{0, math.Pi, 0}, 2*time.Second).
		WaitFinished().
		RotateEulerTo(p, mgl32.Vec3{0, 2 * math.Pi, 0}, 2*time.Second).
		WaitFinished().
		CallAction(func() { p.euler = mgl32.Vec3{} }).
		ApplyAndRewind())

	us := NewUpdateState()
	const dt = 10 * time.Millisecond
	advanceTo := func(total time.Duration) {
		for us.Total < total {
			step(t, s, us, dt)
		}
	}

	advanceTo(2 * time.Second)
	assert.InDelta(t, math.Pi, p.euler.Y(), 0.05)

	advanceTo(4 * time.Second)
	assert.InDelta(t, 2*math.Pi, p.euler.Y(), 0.05)

	advanceTo(4*time.Second + 3*dt)
	assert.InDelta(t, 0, p.euler.Y(), 0.05)

	advanceTo(6*time.Second + 3*dt)
	assert.InDelta(t, math.Pi, p.euler.Y(), 0.05)
	assert.Greater(t, s.CountRunningAnimations(), 0)
}

func TestRewindRepeatsWithSequencePeriod(t *testing.T) {
	s := NewSequencer()
	count := 0
	require.NoError(t, s.BuildSequence().
		CallAction(func() { count++ }).
		Delay(time.Second).
		ApplyAndRewind())

	us := NewUpdateState()
	for i := 0; i < 100; i++ {
		step(t, s, us, 100*time.Millisecond)
		require.Greater(t, s.CountRunningAnimations(), 0)
	}
	assert.Equal(t, 10, count)
}

func TestCancelStopsRewind(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	require.NoError(t, s.BuildSequence(p).Delay(100*time.Millisecond).ApplyAndRewind())

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	s.CancelAnimationsOf(p)
	step(t, s, us, 100*time.Millisecond)
	step(t, s, us, 100*time.Millisecond)
	assert.Equal(t, 0, s.CountRunningAnimations())
}

func TestCancelOfTargetStopsUntargetedRewind(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	require.NoError(t, s.BuildSequence().
		RotateEulerTo(p, mgl32.Vec3{0, 1, 0}, 200*time.Millisecond).
		WaitFinished().
		ApplyAndRewind())

	us := NewUpdateState()
	step(t, s, us, 100*time.Millisecond)
	s.CancelAnimationsOf(p)
	for i := 0; i < 10; i++ {
		step(t, s, us, 100*time.Millisecond)
	}

	assert.Zero(t, s.CountRunningAnimations())
	assert.False(t, s.IsObjectAnimated(p))
}

func TestLazyMaterializesAtItsSlot(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	us := NewUpdateState()
	var builtAt time.Duration = -1
	require.NoError(t, s.BuildSequence(p).
		Delay(time.Second).
		Lazy(func(b *Builder) {
			builtAt = us.Total
			b.ChangeAccentuationTo(p, 1, time.Second)
			require.NoError(t, b.Apply())
		}).
		CallAction(func() { p.accent = 0.5 }).
		Apply())

	for i := 0; i < 10; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	assert.Equal(t, time.Duration(-1), builtAt)

	step(t, s, us, 100*time.Millisecond)
	assert.Equal(t, 1100*time.Millisecond, builtAt)
	assert.InDelta(t, 0.1, p.accent, 1e-5)

	for i := 0; i < 12; i++ {
		step(t, s, us, 100*time.Millisecond)
	}
	assert.Equal(t, float32(0.5), p.accent)
	assert.Equal(t, 0, s.CountRunningAnimations())
}

func TestLazyBuilderRules(t *testing.T) {
	t.Run("empty_is_applied", func(t *testing.T) {
		s := NewSequencer()
		fired := false
		require.NoError(t, s.BuildSequence().
			Lazy(func(*Builder) {}).
			CallAction(func() { fired = true }).
			Apply())
		us := NewUpdateState()
		step(t, s, us, time.Millisecond)
		step(t, s, us, time.Millisecond)
		assert.True(t, fired)
	})

	t.Run("steps_not_applied", func(t *testing.T) {
		s := NewSequencer()
		require.NoError(t, s.BuildSequence().
			Lazy(func(b *Builder) { b.Delay(time.Second) }).
			Apply())
		us := NewUpdateState()
		us.Advance(time.Millisecond)
		_, err := s.Update(us)
		assert.ErrorIs(t, err, ErrBuilderNotApplied)
	})

	t.Run("secondary_goes_to_sequencer", func(t *testing.T) {
		s := NewSequencer()
		fired := false
		require.NoError(t, s.BuildSequence().
			Lazy(func(b *Builder) {
				require.NoError(t, b.Delay(time.Second).CallAction(func() { fired = true }).ApplyAsSecondary())
			}).
			Apply())
		us := NewUpdateState()
		step(t, s, us, 100*time.Millisecond)
		assert.Equal(t, 2, s.CountRunningAnimations())
		for i := 0; i < 12; i++ {
			step(t, s, us, 100*time.Millisecond)
		}
		assert.True(t, fired)
	})
}

func TestFailurePolicies(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name    string
		seq     func() *Sequencer
		wantErr bool
	}{
		{"bare_aborts", func() *Sequencer { return NewSequencer() }, true},
		{"owner_removes", func() *Sequencer { return NewOwnerSequencer("hero") }, false},
		{"explicit_remove", func() *Sequencer { return NewSequencer(WithFailurePolicy(AlwaysRemove)) }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := c.seq()
			assert.Equal(t, c.name == "owner_removes", s.Owner() == "hero")
			var failures []Failure
			s.OnFailure(func(f Failure) { failures = append(failures, f) })
			after := false
			require.NoError(t, s.BuildSequence().
				Call(func() error { return boom }, nil).
				CallAction(func() { after = true }).
				ApplyAsSecondary())

			us := NewUpdateState()
			us.Advance(time.Millisecond)
			_, err := s.Update(us)
			require.Len(t, failures, 1)
			assert.ErrorIs(t, failures[0].Err, boom)
			assert.True(t, failures[0].Secondary)
			if c.wantErr {
				assert.ErrorIs(t, err, boom)
				assert.False(t, after)
				return
			}
			assert.NoError(t, err)
			assert.True(t, after)
		})
	}
}

func TestPanicIsRecovered(t *testing.T) {
	s := NewOwnerSequencer(newDummy())
	s.OnFailure(func(Failure) { panic("handler") })
	var got []Failure
	s.OnFailure(func(f Failure) { got = append(got, f) })

	require.NoError(t, s.BuildSequence().CallAction(func() { panic("kaboom") }).Apply())
	us := NewUpdateState()
	us.Advance(time.Millisecond)
	_, err := s.Update(us)
	require.NoError(t, err)
	require.Len(t, got, 1)

	var pe *PanicError
	require.ErrorAs(t, got[0].Err, &pe)
	assert.Equal(t, "kaboom", pe.Value)
}

func TestUnknownReactionIsInternalError(t *testing.T) {
	s := NewSequencer(WithFailurePolicy(func(Failure) Reaction { return Reaction(42) }))
	require.NoError(t, s.BuildSequence().Call(func() error { return errors.New("x") }, nil).Apply())
	us := NewUpdateState()
	us.Advance(time.Millisecond)
	_, err := s.Update(us)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestTimeTillCurrentAnimationStepFinished(t *testing.T) {
	s := NewSequencer()
	p := newDummy()
	require.NoError(t, s.BuildSequence(p).
		ChangeAccentuationTo(p, 1, 3*time.Second).
		Delay(time.Second).
		Apply())
	require.NoError(t, s.Precalculate())
	assert.Equal(t, time.Second, s.TimeTillCurrentAnimationStepFinished())

	us := NewUpdateState()
	step(t, s, us, 400*time.Millisecond)
	assert.Equal(t, 600*time.Millisecond, s.TimeTillCurrentAnimationStepFinished())

	step(t, s, us, 600*time.Millisecond)
	assert.Equal(t, 2*time.Second, s.TimeTillCurrentAnimationStepFinished())
}

func TestTimeTillIsFlooredAtDefaultCycle(t *testing.T) {
	s := NewSequencer(WithDefaultCycle(10 * time.Millisecond))
	require.NoError(t, s.BuildSequence().WaitForCondition(func() bool { return false }).Apply())
	require.NoError(t, s.Precalculate())
	assert.Equal(t, s.DefaultCycle(), s.TimeTillCurrentAnimationStepFinished())

	us := NewUpdateState()
	step(t, s, us, 50*time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, s.TimeTillCurrentAnimationStepFinished())
}

func TestAbortedTickRefreshesTiming(t *testing.T) {
	s := NewSequencer()
	require.NoError(t, s.BuildSequence().Delay(time.Second).ApplyAsSecondary())
	require.NoError(t, s.BuildSequence().Call(func() error { return errors.New("boom") }, nil).Apply())
	require.NoError(t, s.Precalculate())
	require.Equal(t, s.DefaultCycle(), s.TimeTillCurrentAnimationStepFinished())

	us := NewUpdateState()
	us.Advance(100 * time.Millisecond)
	_, err := s.Update(us)
	require.Error(t, err)

	// The primary aborted before the secondary queue advanced.
	assert.Equal(t, time.Second, s.TimeTillCurrentAnimationStepFinished())
}

func TestReset(t *testing.T) {
	s := NewSequencer()
	require.NoError(t, s.BuildSequence().Delay(time.Second).Apply())
	step(t, s, NewUpdateState(), time.Millisecond)
	require.NoError(t, s.BuildSequence().Delay(time.Second).ApplyAsSecondary())

	s.Reset()
	res := step(t, s, NewUpdateState(), time.Millisecond)
	assert.Equal(t, 0, res.Running)
	assert.Equal(t, Infinite, s.TimeTillCurrentAnimationStepFinished())
}

func TestConcurrentAccessPanics(t *testing.T) {
	s := NewSequencer(WithConcurrencyCheck(true))
	entered := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.BuildSequence().CallAction(func() {
		close(entered)
		<-release
	}).Apply())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		us := NewUpdateState()
		us.Advance(time.Millisecond)
		_, _ = s.Update(us)
	}()

	<-entered
	assert.PanicsWithValue(t, ErrConcurrentAccess, func() { s.CountRunningAnimations() })
	close(release)
	wg.Wait()

	assert.NotPanics(t, func() { s.CountRunningAnimations() })
}

func TestNestedCallsFromSameGoroutine(t *testing.T) {
	s := NewSequencer(WithConcurrencyCheck(true))
	require.NoError(t, s.BuildSequence().CallAction(func() { s.CancelAnimations() }).Delay(time.Second).Apply())
	assert.NotPanics(t, func() {
		step(t, s, NewUpdateState(), time.Millisecond)
	})
}
