package pool

import (
	"encoding/binary"
	"os"
)

func pidBytes(pid int) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(int64(pid)))
	return b
}

// deriveKey fills e.key with e.rnd advanced by addValue, word-wise, per
// spec.md §4.A's ADD_VALUE scheme. PoolSize is a multiple of 8 by
// construction (30 * 20 = 600), so this covers the whole pool with no
// remainder.
func (e *Engine) deriveKey() {
	for i := 0; i < PoolSize; i += 8 {
		v := binary.LittleEndian.Uint64(e.rnd[i : i+8])
		v += addValue
		binary.LittleEndian.PutUint64(e.key[i:i+8], v)
	}
}

// Randomize fills out with random bytes at the given quality level. It is
// the sole public entry point for reading. Randomize takes the pool lock
// (e.mu) once for the whole call, looping read internally over
// PoolSize-sized chunks, while AddBytes re-acquires it per chunk (see
// DESIGN.md, a deliberate asymmetry inherited from the original's randomize
// vs. add_bytes).
func (e *Engine) Randomize(out []byte, level Level) {
	e.Initialize()

	if e.quickTest.IsSet() && level > Strong {
		level = Strong
	}
	level = level.Mask()

	e.mu.Lock()
	defer e.mu.Unlock()

	if level >= VeryStrong {
		e.stats.GetBytes2 += uint64(len(out))
		e.stats.NGetBytes2++
	} else {
		e.stats.GetBytes1 += uint64(len(out))
		e.stats.NGetBytes1++
	}

	for len(out) > 0 {
		n := len(out)
		if n > PoolSize {
			n = PoolSize
		}
		e.readChunk(out[:n], level)
		out = out[n:]
	}
}

// readChunk implements read_pool for a single chunk no larger than
// PoolSize. Must be called with the pool lock held.
func (e *Engine) readChunk(out []byte, level Level) {
	if len(out) > PoolSize {
		e.logCritical("readChunk called with a chunk larger than the pool")
		panic(ErrRequestTooLarge)
	}

retry:
	pidNow := os.Getpid()
	if e.lastPID == -1 {
		e.lastPID = pidNow
	}
	if e.lastPID != pidNow {
		e.onFork(pidNow)
	}

	if !e.poolFilled {
		if e.loadSeedFile() {
			e.setPoolFilled(true)
		}
	}

	if level == VeryStrong && !e.extraSeeded {
		e.balance = 0
		needed := len(out)
		if needed < 16 {
			needed = 16
		}
		e.readRandomSource(OriginExtraPoll, needed, VeryStrong)
		e.balance += needed
		e.extraSeeded = true
	}
	if level == VeryStrong && e.balance < len(out) {
		needed := len(out) - e.balance
		e.readRandomSource(OriginExtraPoll, needed, VeryStrong)
		e.balance += needed
	}

	for !e.poolFilled {
		e.doSlowPoll()
	}

	e.doFastPoll()

	e.add(pidBytes(e.lastPID), OriginInit)

	if !e.justMixed {
		e.mix(e.rnd, true)
		e.stats.MixRnd++
	}

	e.deriveKey()

	e.mix(e.rnd, true)
	e.stats.MixRnd++
	e.mix(e.key, false)
	e.stats.MixKey++

	for i := range out {
		out[i] = e.key[e.readPos]
		e.readPos++
		if e.readPos >= PoolSize {
			e.readPos = 0
		}
		if e.balance > 0 {
			e.balance--
		}
	}

	for i := range e.key {
		e.key[i] = 0
	}

	if pidAfter := os.Getpid(); pidAfter != pidNow {
		e.onFork(pidAfter)
		goto retry
	}
}

// onFork stirs the new pid into the pool as INIT entropy and clears
// justMixed, since the parent's last mix is now shared state the child
// must not rely on being fresh for it alone (spec.md §4.E step 1/12).
func (e *Engine) onFork(pid int) {
	e.add(pidBytes(pid), OriginInit)
	e.justMixed = false
	e.lastPID = pid
}
