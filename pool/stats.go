package pool

import (
	"fmt"

	"github.com/ypcs/libgcrypt/base/log"
)

// Stats mirrors the counters the original keeps for dump_stats: how often
// the pool was mixed, how often fast/slow polls ran, and how many bytes
// were added or emitted at each output tier.
type Stats struct {
	MixRnd     uint64
	MixKey     uint64
	SlowPolls  uint64
	FastPolls  uint64
	GetBytes1  uint64 // Weak/Strong output bytes
	GetBytes2  uint64 // VeryStrong output bytes
	NGetBytes1 uint64
	NGetBytes2 uint64
	NAddBytes  uint64
	AddBytes   uint64

	// HWRNGFailed is a sticky flag set once a hardware RNG poll fails; it
	// is never cleared, matching _gcry_rndhw_failed_p's sticky semantics.
	HWRNGFailed bool
}

// Stats returns a snapshot of the engine's usage counters. It intentionally
// does not take the pool lock: dump_stats in the original is documented as
// callable from cleanup/shutdown paths that must not risk blocking on the
// pool mutex, so this rewrite preserves that by reading the counters
// without synchronization. A torn read here yields at worst a slightly
// stale or momentarily inconsistent count, never a crash, since Stats holds
// only plain counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// DumpStats logs the stats counters in a stable line format, matching the
// single log_info call in _gcry_rngcsprng_dump_stats.
func (e *Engine) DumpStats() {
	s := e.Stats()
	hw := ""
	if s.HWRNGFailed {
		hw = " (hwrng failed)"
	}
	log.Infof(
		"random usage [%s]: poolsize=%d mixed=%d polls=%d/%d added=%d/%d "+
			"outmix=%d getlvl1=%d/%d getlvl2=%d/%d%s",
		e.instanceID, PoolSize, s.MixRnd, s.SlowPolls, s.FastPolls, s.NAddBytes, s.AddBytes,
		s.MixKey, s.NGetBytes1, s.GetBytes1, s.NGetBytes2, s.GetBytes2, hw,
	)
}

func (s Stats) String() string {
	return fmt.Sprintf("%+v", s)
}
