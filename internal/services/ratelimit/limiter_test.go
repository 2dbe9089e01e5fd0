package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(offset time.Duration, start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = start.Add(offset)
}

func newTestLimiter(t *testing.T, quota int, window time.Duration) (*Limiter, *fakeClock, time.Time) {
	t.Helper()
	clock := newFakeClock()
	l, err := New(quota, window, WithClock(clock.Now))
	require.NoError(t, err)
	return l, clock, clock.Now()
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	_, err := New(0, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = New(8, 0)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestEmptyLimiter(t *testing.T) {
	l, _, _ := newTestLimiter(t, 8, time.Minute)

	assert.True(t, l.CanAdmit())
	assert.Equal(t, 8, l.RemainingCapacity())
	assert.Equal(t, time.Duration(0), l.WaitTime())
}

func TestCanAdmitDoesNotRecord(t *testing.T) {
	l, _, _ := newTestLimiter(t, 1, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, l.CanAdmit())
	}
	assert.Equal(t, 1, l.RemainingCapacity())
}

// quota=8, window=60s: 8 admissions at t=0 are blocking at 59s and gone at 61s.
func TestPruningAfterWindow(t *testing.T) {
	l, clock, start := newTestLimiter(t, 8, 60*time.Second)

	for i := 0; i < 8; i++ {
		l.RecordAdmission()
	}

	clock.Set(59*time.Second, start)
	assert.False(t, l.CanAdmit())

	clock.Set(61*time.Second, start)
	assert.True(t, l.CanAdmit())
	assert.Equal(t, 8, l.RemainingCapacity())
}

func TestRemainingMatchesAdmissionsInWindow(t *testing.T) {
	l, clock, start := newTestLimiter(t, 5, 10*time.Second)

	offsets := []time.Duration{0, 2 * time.Second, 4 * time.Second, 9 * time.Second, 11 * time.Second}
	for _, off := range offsets {
		clock.Set(off, start)
		l.RecordAdmission()
	}

	probes := []time.Duration{11 * time.Second, 13 * time.Second, 15 * time.Second, 19 * time.Second, 21 * time.Second, 30 * time.Second}
	for _, probe := range probes {
		clock.Set(probe, start)
		inWindow := 0
		for _, off := range offsets {
			if probe-off < 10*time.Second {
				inWindow++
			}
		}
		remaining := l.RemainingCapacity()
		assert.GreaterOrEqual(t, remaining, 0)
		assert.Equal(t, 5-inWindow, remaining, "probe at %s", probe)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	l, _, _ := newTestLimiter(t, 2, time.Minute)

	// RecordAdmission does not refuse; callers are expected to check first.
	for i := 0; i < 5; i++ {
		l.RecordAdmission()
	}
	assert.Equal(t, 0, l.RemainingCapacity())
	assert.False(t, l.CanAdmit())
}

func TestWaitTimeDecreasesWithClock(t *testing.T) {
	l, clock, start := newTestLimiter(t, 3, time.Minute)
	l.RecordAdmission()

	clock.Set(5*time.Second, start)
	first := l.WaitTime()

	clock.Set(17*time.Second, start)
	second := l.WaitTime()

	assert.Equal(t, 55*time.Second, first)
	assert.Equal(t, 12*time.Second, first-second)
}

func TestRepeatedReadsAreIdempotent(t *testing.T) {
	l, clock, start := newTestLimiter(t, 4, time.Minute)
	l.RecordAdmission()
	clock.Set(10*time.Second, start)
	l.RecordAdmission()

	clock.Set(65*time.Second, start)
	want := l.RemainingCapacity()
	for i := 0; i < 10; i++ {
		l.CanAdmit()
		assert.Equal(t, want, l.RemainingCapacity())
	}
	assert.Equal(t, 3, want)
}

func TestStaggeredScenario(t *testing.T) {
	l, clock, start := newTestLimiter(t, 8, 60*time.Second)

	for i := 0; i < 8; i++ {
		clock.Set(time.Duration(i)*time.Second, start)
		l.RecordAdmission()
	}

	clock.Set(8*time.Second, start)
	assert.False(t, l.CanAdmit())
	assert.Equal(t, 52*time.Second, l.WaitTime())

	// Only the t=0 entry has left the window.
	clock.Set(60*time.Second+time.Millisecond, start)
	assert.True(t, l.CanAdmit())
	assert.Equal(t, 1, l.RemainingCapacity())

	clock.Set(67*time.Second+time.Millisecond, start)
	assert.Equal(t, 8, l.RemainingCapacity())
}

func TestTryAdmit(t *testing.T) {
	l, clock, start := newTestLimiter(t, 2, 30*time.Second)

	ok, wait := l.TryAdmit()
	assert.True(t, ok)
	assert.Zero(t, wait)

	clock.Set(10*time.Second, start)
	ok, _ = l.TryAdmit()
	assert.True(t, ok)

	clock.Set(12*time.Second, start)
	ok, wait = l.TryAdmit()
	assert.False(t, ok)
	assert.Equal(t, 18*time.Second, wait)
	assert.Equal(t, 0, l.RemainingCapacity())
}

func TestTryAdmitConcurrentCallers(t *testing.T) {
	l, _, _ := newTestLimiter(t, 5, time.Minute)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.TryAdmit(); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, admitted)
}

func TestSnapshot(t *testing.T) {
	l, clock, start := newTestLimiter(t, 2, time.Minute)

	snap := l.Snapshot()
	assert.Equal(t, 2, snap.Limit)
	assert.Equal(t, 2, snap.Remaining)
	assert.Nil(t, snap.ResetAt)

	l.RecordAdmission()
	clock.Set(time.Second, start)
	l.RecordAdmission()

	clock.Set(1500*time.Millisecond, start)
	snap = l.Snapshot()
	assert.Equal(t, 0, snap.Remaining)
	assert.Equal(t, 58500*time.Millisecond, snap.WaitTime)
	assert.Equal(t, 59, snap.WaitSeconds)
	require.NotNil(t, snap.ResetAt)
	assert.Equal(t, start.Add(time.Minute), *snap.ResetAt)
}

func TestWaitSeconds(t *testing.T) {
	assert.Equal(t, 0, WaitSeconds(0))
	assert.Equal(t, 0, WaitSeconds(-time.Second))
	assert.Equal(t, 1, WaitSeconds(time.Millisecond))
	assert.Equal(t, 52, WaitSeconds(52*time.Second))
	assert.Equal(t, 53, WaitSeconds(52*time.Second+time.Nanosecond))
}
