package pool

import (
	"fmt"
	"time"

	"github.com/ypcs/libgcrypt/base/utils"
	"github.com/ypcs/libgcrypt/pool/source"
)

// fastPollLimiter bundles concurrent calls to the public FastPoll entry
// point so that many independent callers triggering it in a tight loop
// collapse into a single underlying poll instead of hammering the fast
// gatherers. It never throttles the Reader's own internal fast poll (step 6
// of the read state machine), which must run unconditionally on every read.
var fastPollLimiter = utils.NewCallLimiter2(0)

// sink adapts add into the source.Sink shape gatherers call into.
func (e *Engine) sink(data []byte, origin source.Origin) {
	e.add(data, origin)
}

// doFastPoll runs the registered fast gatherer (if any), then the built-in
// belt-and-suspenders clock sources, then the hardware poll (if any). Must
// be called with the pool lock held. See spec.md §4.D.
func (e *Engine) doFastPoll() {
	e.stats.FastPolls++

	if e.fast != nil {
		e.fast.Poll(e.sink, OriginFastPoll)
	}

	now := time.Now()
	e.add([]byte(fmt.Sprintf("%d", now.UnixNano())), OriginFastPoll)
	e.add([]byte(fmt.Sprintf("%d", now.Unix())), OriginFastPoll)

	if e.hw != nil {
		if err := e.hw.Poll(e.sink, OriginFastPoll); err != nil {
			e.stats.HWRNGFailed = true
			e.logWarn("hardware rng poll failed: %s", err)
		}
	}
}

// doSlowPoll requests POOLSIZE/5 bytes from the slow gatherer at Strong
// level, tagged SlowPoll. Blocking is permitted; called repeatedly by the
// reader until the pool is filled. Must be called with the pool lock held.
func (e *Engine) doSlowPoll() {
	e.stats.SlowPolls++
	e.readRandomSource(OriginSlowPoll, slowPollChunk, Strong)
}

// readRandomSource is the single choke point through which the engine asks
// the bound slow gatherer for more bytes. A non-nil return from the
// gatherer is fatal, per spec.md §7 tier 1: an RNG that silently produces
// less-random output on gatherer failure is a worse hazard than crashing.
func (e *Engine) readRandomSource(origin source.Origin, length int, level Level) {
	if e.slow == nil {
		e.logCritical("no slow entropy source bound")
		panic(ErrNoEntropySource)
	}
	if err := e.slow.Gather(e.sink, origin, length, level); err != nil {
		e.logCritical("slow entropy source failed: %s", err)
		panic(fmt.Errorf("%w: %s", ErrNoEntropySource, err))
	}
}

// FastPoll triggers a fast poll iff the pool has already been allocated,
// matching spec.md §6.3's fast_poll(): a no-op before Initialize so that
// merely linking this package does not start perturbing pool state.
func (e *Engine) FastPoll() {
	fastPollLimiter.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.initialized {
			return
		}
		e.doFastPoll()
	})
}

// SetSlowGatherer binds the slow entropy source. Must be called before
// Initialize (or immediately after, before the first read); re-binding
// after the engine has started serving reads is not supported, mirroring
// the original's fixed-for-process-lifetime selection (spec.md §6.1).
func (e *Engine) SetSlowGatherer(g source.SlowGatherer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slow = g
}

// SetFastGatherer binds the optional fast entropy source.
func (e *Engine) SetFastGatherer(g source.FastGatherer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fast = g
}

// SetHWGatherer binds the optional hardware-RNG poll.
func (e *Engine) SetHWGatherer(g source.HWGatherer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hw = g
}
