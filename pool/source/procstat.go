package source

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/shirou/gopsutil/process"
)

// ProcStat is a FastGatherer modeled on the original's getrusage() call in
// do_fast_random_poll: process-level resource counters change in ways that
// are hard for an attacker to predict or replay, even though individually
// they carry little entropy, which is why fast-poll bytes never count
// toward the initial pool_filled threshold (see Origin.ContributesToFill).
type ProcStat struct {
	proc *process.Process
}

// NewProcStat builds a ProcStat bound to the calling process.
func NewProcStat() *ProcStat {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return &ProcStat{}
	}
	return &ProcStat{proc: p}
}

// Poll samples a handful of process counters and sinks them as one blob.
// Any individual counter that fails to read is simply omitted; a fast poll
// backend is a logged-and-ignored-on-failure source (spec.md §7 tier 2),
// never a fatal one.
func (p *ProcStat) Poll(sink Sink, origin Origin) {
	if p.proc == nil {
		return
	}

	buf := make([]byte, 0, 64)

	if times, err := p.proc.Times(); err == nil {
		buf = appendFloatBits(buf, times.User)
		buf = appendFloatBits(buf, times.System)
	}
	if mem, err := p.proc.MemoryInfo(); err == nil {
		buf = appendUint64(buf, mem.RSS)
		buf = appendUint64(buf, mem.VMS)
	}
	if nctx, err := p.proc.NumCtxSwitches(); err == nil {
		buf = appendUint64(buf, uint64(nctx.Voluntary))
		buf = appendUint64(buf, uint64(nctx.Involuntary))
	}
	if nfds, err := p.proc.NumFDs(); err == nil {
		buf = appendUint64(buf, uint64(nfds))
	}

	if len(buf) > 0 {
		sink(buf, origin)
	}
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendFloatBits(buf []byte, f float64) []byte {
	return appendUint64(buf, math.Float64bits(f))
}
