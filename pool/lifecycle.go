package pool

// Initialize allocates the pool buffers and checks that a slow entropy
// source has been bound. Idempotent: subsequent calls are a cheap no-op.
// Every public entry point that touches pool state calls it first, so a
// caller never has to sequence Initialize by hand (spec.md §6.3).
func (e *Engine) Initialize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return
	}
	if e.slow == nil {
		e.logCritical("no slow entropy source bound, cannot initialize pool")
		panic(ErrNoEntropySource)
	}

	size := PoolSize + BlockLen
	e.rnd = make([]byte, size)
	e.key = make([]byte, size)
	if e.secureMem {
		if err := mlockBuffer(e.rnd); err != nil {
			e.logWarn("mlock of entropy pool failed: %s", err)
		}
		if err := mlockBuffer(e.key); err != nil {
			e.logWarn("mlock of scratch pool failed: %s", err)
		}
	}

	e.initialized = true
}

// Close saves the seed file (if one is registered and permitted), releases
// any file descriptors held by the bound entropy sources, and resets the
// engine's cursors and flags so a subsequent Initialize starts from a clean
// state rather than one that merely looks empty. pool_filled's only
// permitted true->false transition is across a close (spec.md invariant
// 4), which this reset is what makes true.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var saveErr error
	if e.initialized {
		saveErr = e.saveSeedFile()
	}

	e.closeFDsLocked()

	for i := range e.rnd {
		e.rnd[i] = 0
	}
	for i := range e.key {
		e.key[i] = 0
	}

	e.writePos = 0
	e.readPos = 0
	e.setPoolFilled(false)
	e.fillCounter = 0
	e.extraSeeded = false
	e.balance = 0
	e.justMixed = false
	e.initialized = false

	return saveErr
}

// CloseFDs releases file descriptors held by the bound entropy sources
// without touching pool state, mirroring the original's close_fds(), which
// is meant to be callable from a pre-fork or pre-sandbox hook independent
// of a full shutdown.
func (e *Engine) CloseFDs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeFDsLocked()
}

func (e *Engine) closeFDsLocked() {
	if e.slow != nil {
		e.slow.Close()
	}
}
