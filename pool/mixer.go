package pool

import "crypto/sha1" //nolint:gosec // used as a compression primitive, not for a security property of SHA-1 itself.

// mix applies the overlapping SHA-1 cascade to buf in place. buf must be
// exactly PoolSize+BlockLen bytes: the first PoolSize bytes are the pool,
// the trailing BlockLen bytes are mixer scratch space. canonical marks
// whether buf is the engine's canonical rnd pool, which alone participates
// in the failsafe-digest XOR/snapshot.
//
// Must only be called with the pool lock held.
func (e *Engine) mix(buf []byte, canonical bool) {
	pool := buf[:PoolSize]
	scratch := buf[PoolSize : PoolSize+BlockLen]

	ctx := mixblockInit()

	// Iteration 0 (wrap-join): the last DigestLen bytes of the pool and
	// the first BlockLen-DigestLen bytes give the first window both of
	// its neighbors in the ring.
	copy(scratch[:DigestLen], pool[PoolSize-DigestLen:])
	copy(scratch[DigestLen:], pool[:BlockLen-DigestLen])

	var block [BlockLen]byte
	copy(block[:], scratch)
	ctx.mixblock(&block)
	d := ctx.digest()
	copy(pool[:DigestLen], d[:])

	// Failsafe injection: defend against a mixer bug producing a fixed
	// point by always XORing in a strong digest of the pool's prior
	// state before it gets mixed again.
	if canonical && e.failsafeValid {
		for i := 0; i < DigestLen; i++ {
			pool[i] ^= e.failsafeDigest[i]
		}
	}

	// Remaining PoolBlocks-1 windows. Each window is read with wrap-around
	// indexing unconditionally; when a window does not actually cross the
	// end of the pool this is equivalent to a straight copy, so there is
	// no separate fast path.
	p := 0
	for n := 1; n < PoolBlocks; n++ {
		for i := 0; i < BlockLen; i++ {
			scratch[i] = pool[(p+i)%PoolSize]
		}
		copy(block[:], scratch)
		ctx.mixblock(&block)
		p += DigestLen
		d = ctx.digest()
		copy(pool[p:p+DigestLen], d[:])
	}

	if canonical {
		e.failsafeDigest = sha1.Sum(pool)
		e.failsafeValid = true
	}
}
