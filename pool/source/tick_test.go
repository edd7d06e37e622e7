package source

import "testing"

func TestTickFlushesEveryEightPolls(t *testing.T) {
	t.Parallel()

	tick := &Tick{}
	flushes := 0
	sink := func(data []byte, origin Origin) {
		flushes++
		if len(data) != 1 {
			t.Fatalf("tick sink expected a single accumulated byte, got %d", len(data))
		}
	}

	for i := 0; i < 24; i++ {
		tick.Poll(sink, OriginFastPoll)
	}

	if flushes != 3 {
		t.Fatalf("expected 3 flushes over 24 polls, got %d", flushes)
	}
}

func TestOriginContributesToFill(t *testing.T) {
	t.Parallel()

	cases := map[Origin]bool{
		OriginInit:      true,
		OriginSlowPoll:  true,
		OriginFastPoll:  false,
		OriginExtraPoll: true,
		OriginExternal:  true,
	}
	for origin, want := range cases {
		if got := origin.ContributesToFill(); got != want {
			t.Errorf("%s.ContributesToFill() = %v, want %v", origin, got, want)
		}
	}
}
