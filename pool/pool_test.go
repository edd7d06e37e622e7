package pool

import "testing"

func TestInitializeWithoutSlowGathererPanics(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Initialize to panic without a bound slow gatherer")
		}
	}()
	e.Initialize()
}

func TestInitializeIsIdempotent(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine()
	first := e.rnd

	e.Initialize()
	if &e.rnd[0] != &first[0] {
		t.Fatalf("second Initialize call reallocated the pool buffer")
	}
}

func TestDefaultReturnsSameInstance(t *testing.T) {
	t.Parallel()

	if Default() != Default() {
		t.Fatalf("Default() returned different instances across calls")
	}
}

func TestStatsTrackPolls(t *testing.T) {
	t.Parallel()

	e, _, fast := newTestEngine()

	e.mu.Lock()
	e.doFastPoll()
	e.mu.Unlock()

	if fast.polls == 0 {
		t.Fatalf("doFastPoll did not invoke the bound fast gatherer")
	}
	if e.Stats().FastPolls == 0 {
		t.Fatalf("doFastPoll did not update FastPolls stat")
	}
}

func TestEnableQuickGenDegradesVeryStrong(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine()
	e.EnableQuickGen()

	if !e.IsFaked() {
		t.Fatalf("EnableQuickGen did not set the quick-gen flag")
	}

	out := make([]byte, 8)
	e.Randomize(out, VeryStrong)

	e.mu.Lock()
	extraSeeded := e.extraSeeded
	e.mu.Unlock()

	if extraSeeded {
		t.Fatalf("quick-gen should have degraded VeryStrong to Strong, skipping extra seeding")
	}
}

func TestCloseZeroesPool(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine()
	out := make([]byte, 16)
	e.Randomize(out, Strong)

	if err := e.Close(); err != nil {
		t.Fatalf("unexpected error from Close: %s", err)
	}

	for _, b := range e.rnd[:PoolSize] {
		if b != 0 {
			t.Fatalf("Close did not zero the pool")
		}
	}
}
