// Package module wires the pool engine into a process lifecycle: binding
// entropy-source backends, running Initialize, and keeping the pool warm
// with a background fast-poll/reseed ticker while the process runs.
package module

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ypcs/libgcrypt/pool"
	"github.com/ypcs/libgcrypt/pool/source"
	"github.com/ypcs/libgcrypt/service/mgr"
)

// reseedInterval is how often the background worker forces a fast poll,
// independent of whatever FastPoll calls callers make on their own. It
// mirrors the original's belt-and-suspenders stance that entropy collection
// should happen continuously, not only on demand.
const reseedInterval = 2 * time.Minute

// RNG wraps a *pool.Engine with the Start/Stop lifecycle the rest of a
// portmaster-style service expects from its modules.
type RNG struct {
	mgr    *mgr.Manager
	engine *pool.Engine

	instance instance
}

var (
	module     *RNG
	shimLoaded atomic.Bool
)

// New constructs the module's singleton instance. Only one may exist per
// process, matching the original's one-CSPRNG-per-process model.
func New(instance instance) (*RNG, error) {
	if !shimLoaded.CompareAndSwap(false, true) {
		return nil, errors.New("only one rng module instance allowed")
	}

	module = &RNG{
		engine:   pool.Default(),
		instance: instance,
	}
	return module, nil
}

// Engine returns the pool engine this module manages.
func (r *RNG) Engine() *pool.Engine {
	return r.engine
}

// Start binds the default backend set (OS slow source, scheduler-tick and
// process-resource-usage fast sources), initializes the pool, and launches
// the background reseed ticker. A seed file path set via Engine().SetSeedFile
// before Start is honored; without one the pool runs without persistence,
// per spec.md §6.2's "seed file is optional" stance.
func (r *RNG) Start(m *mgr.Manager) error {
	r.mgr = m

	r.engine.SetSlowGatherer(source.OSRandom{})
	r.engine.SetFastGatherer(compositeFast{
		tick: &source.Tick{},
		proc: source.NewProcStat(),
	})
	// No HWGatherer is bound by default: most hosts don't expose a
	// hardware RNG device, and its absence is not an error (spec.md §6.1).
	// A caller with one available can r.Engine().SetHWGatherer(source.HWRNG{...}).

	r.engine.Initialize()

	m.Go("entropy reseed", func(w *mgr.WorkerCtx) error {
		ticker := time.NewTicker(reseedInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.engine.FastPoll()
			case <-w.Done():
				return nil
			}
		}
	})

	return nil
}

// WorkerInfo reports the status of this module's background workers (the
// entropy reseed ticker, and anything else registered on the same manager),
// for operator diagnostics such as csprngctl's workers subcommand.
func (r *RNG) WorkerInfo() (*mgr.WorkerInfo, error) {
	if r.mgr == nil {
		return nil, errors.New("rng module not started")
	}
	return r.mgr.WorkerInfo(nil)
}

// Stop saves the seed file (if one was registered) and releases entropy
// source file descriptors.
func (r *RNG) Stop(m *mgr.Manager) error {
	if err := r.engine.Close(); err != nil {
		return fmt.Errorf("closing rng pool: %w", err)
	}
	return nil
}

type instance interface{}

// compositeFast runs both of the module's built-in fast-poll backends on
// every call: the scheduling-jitter tick accumulator and, when available,
// process resource counters.
type compositeFast struct {
	tick *source.Tick
	proc *source.ProcStat
}

func (c compositeFast) Poll(sink source.Sink, origin source.Origin) {
	c.tick.Poll(sink, origin)
	c.proc.Poll(sink, origin)
}
