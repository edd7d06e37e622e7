package pool

import (
	"bytes"
	"testing"
)

func newMixBuffer(fill byte) []byte {
	buf := make([]byte, PoolSize+BlockLen)
	for i := range buf[:PoolSize] {
		buf[i] = fill
	}
	return buf
}

func TestMixDeterministic(t *testing.T) {
	t.Parallel()

	e := &Engine{}

	a := newMixBuffer(0x42)
	b := newMixBuffer(0x42)

	e.mix(a, false)
	e.mix(b, false)

	if !bytes.Equal(a[:PoolSize], b[:PoolSize]) {
		t.Fatalf("mix is not deterministic for identical inputs")
	}
}

func TestMixChangesPool(t *testing.T) {
	t.Parallel()

	e := &Engine{}
	buf := newMixBuffer(0x00)
	before := append([]byte(nil), buf[:PoolSize]...)

	e.mix(buf, false)

	if bytes.Equal(before, buf[:PoolSize]) {
		t.Fatalf("mix left an all-zero pool unchanged")
	}
}

func TestMixAvalanche(t *testing.T) {
	t.Parallel()

	e := &Engine{}

	a := newMixBuffer(0x00)
	b := newMixBuffer(0x00)
	b[0] ^= 0x01 // flip a single bit before mixing

	e.mix(a, false)
	e.mix(b, false)

	diff := 0
	for i := 0; i < PoolSize; i++ {
		if a[i] != b[i] {
			diff++
		}
	}

	// A single flipped input bit should cascade across a large fraction of
	// the pool; this is a coarse sanity check, not a statistical proof.
	if diff < PoolSize/4 {
		t.Fatalf("mix does not diffuse a single bit flip widely enough: only %d/%d bytes differ", diff, PoolSize)
	}
}

func TestMixCanonicalSetsFailsafe(t *testing.T) {
	t.Parallel()

	e := &Engine{}

	if e.failsafeValid {
		t.Fatalf("failsafe digest should not be valid before any canonical mix")
	}

	e.mix(newMixBuffer(0x11), true)

	if !e.failsafeValid {
		t.Fatalf("canonical mix did not set failsafeValid")
	}

	// Re-mix the same raw starting content now that a failsafe digest is on
	// record; the failsafe XOR injection must make this diverge from a mix
	// of identical content with no failsafe available yet.
	withFailsafe := newMixBuffer(0x11)
	e.mix(withFailsafe, true)

	fresh := &Engine{}
	withoutFailsafe := newMixBuffer(0x11)
	fresh.mix(withoutFailsafe, true)

	if bytes.Equal(withFailsafe[:DigestLen], withoutFailsafe[:DigestLen]) {
		t.Fatalf("failsafe XOR injection had no observable effect")
	}
}
