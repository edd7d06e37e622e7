package pool

// add XORs bytes into the pool at the write cursor, mixing whenever the
// cursor wraps. Must be called with the pool lock held. See spec.md §4.C.
func (e *Engine) add(data []byte, origin Origin) {
	e.stats.AddBytes += uint64(len(data))
	e.stats.NAddBytes++

	sinceWrap := 0
	for i, b := range data {
		e.rnd[e.writePos] ^= b
		e.writePos++
		sinceWrap++

		if e.writePos >= PoolSize {
			// FastPoll bytes never advance the initial-fill counter, so
			// that an attacker controlling only fast-poll timing content
			// cannot trip pool_filled on their own.
			if origin.ContributesToFill() && !e.poolFilled {
				e.fillCounter += sinceWrap
				sinceWrap = 0
				if e.fillCounter >= PoolSize {
					e.setPoolFilled(true)
				}
			}
			e.writePos = 0

			e.mix(e.rnd, true)
			e.stats.MixRnd++

			// justMixed only reflects the freshest wrap: true iff this
			// wrap consumed the last byte of the input, false otherwise.
			// It is deliberately not reset on non-wrapping adds, matching
			// add_randomness in the original: a small, non-wrapping add
			// layers unmixed entropy onto an already-mixed pool, which
			// read's "mix if !justMixed" step will still catch up on.
			e.justMixed = i == len(data)-1
		}
	}
}

func (e *Engine) setPoolFilled(v bool) {
	if e.poolFilled == v {
		return
	}
	e.poolFilled = v
	if v {
		e.filled.NotifyAndReset()
	}
}
