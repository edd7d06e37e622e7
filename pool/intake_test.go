package pool

import "testing"

func TestAddFillsPoolOnASingleWrappingWrite(t *testing.T) {
	t.Parallel()

	e := &Engine{rnd: make([]byte, PoolSize+BlockLen), filled: newTestBroadcastFlag()}

	if e.poolFilled {
		t.Fatalf("fresh engine should not report the pool as filled")
	}

	e.add(make([]byte, PoolSize), OriginSlowPoll)
	if !e.poolFilled {
		t.Fatalf("pool should be filled after one call wraps with a full PoolSize of SlowPoll bytes")
	}
}

func TestAddFillCounterDoesNotCarryAcrossNonWrappingCalls(t *testing.T) {
	t.Parallel()

	e := &Engine{rnd: make([]byte, PoolSize+BlockLen), filled: newTestBroadcastFlag()}

	// Two calls that together write a full pool's worth of bytes. The
	// first call does not wrap and contributes nothing to the fill
	// counter; the second call does wrap, but only counts the bytes seen
	// since ITS OWN start, not the first call's. Half a pool's worth of
	// counted bytes must not be enough to fill it.
	e.add(make([]byte, PoolSize/2), OriginSlowPoll)
	e.add(make([]byte, PoolSize/2), OriginSlowPoll)

	if e.poolFilled {
		t.Fatalf("pool filled from fewer counted bytes than PoolSize")
	}
}

func TestAddFastPollNeverFillsPool(t *testing.T) {
	t.Parallel()

	e := &Engine{rnd: make([]byte, PoolSize+BlockLen), filled: newTestBroadcastFlag()}

	e.add(make([]byte, PoolSize*2), OriginFastPoll)

	if e.poolFilled {
		t.Fatalf("FastPoll-origin bytes must never advance pool_filled")
	}
}

func TestAddSetsJustMixedOnlyAtFinalWrapByte(t *testing.T) {
	t.Parallel()

	e := &Engine{rnd: make([]byte, PoolSize+BlockLen), filled: newTestBroadcastFlag()}

	// Exactly one wrap, consumed by the very last byte: justMixed must end true.
	e.add(make([]byte, PoolSize), OriginInit)
	if !e.justMixed {
		t.Fatalf("expected justMixed after a wrap landing on the last input byte")
	}

	// One more wrap followed by trailing bytes that don't wrap again: justMixed
	// must end false, since the wrap did not consume the final input byte.
	e.add(append(make([]byte, PoolSize), 0, 0, 0), OriginInit)
	if e.justMixed {
		t.Fatalf("expected justMixed cleared when trailing bytes follow a wrap")
	}
}

func TestAddXORIsReversible(t *testing.T) {
	t.Parallel()

	e := &Engine{rnd: make([]byte, PoolSize+BlockLen), filled: newTestBroadcastFlag()}

	data := make([]byte, PoolSize/2)
	for i := range data {
		data[i] = byte(i)
	}

	before := append([]byte(nil), e.rnd[:PoolSize]...)
	e.add(data, OriginExternal)
	// Rewind the cursor so the second add hits the same offsets.
	e.writePos = 0
	e.add(data, OriginExternal)

	for i := range data {
		if e.rnd[i] != before[i] {
			t.Fatalf("XORing the same bytes in twice did not cancel out at offset %d", i)
		}
	}
}
