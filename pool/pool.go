package pool

import (
	"sync"

	"github.com/gofrs/uuid"
	"github.com/tevino/abool"

	"github.com/ypcs/libgcrypt/base/log"
	"github.com/ypcs/libgcrypt/base/utils"
	"github.com/ypcs/libgcrypt/pool/source"
)

// Pool geometry, fixed by the mixing algorithm in mixer.go.
const (
	// BlockLen is the size of one SHA-1 compression block.
	BlockLen = 64
	// DigestLen is the size of a SHA-1 digest.
	DigestLen = 20
	// PoolBlocks is the number of digest-sized windows that make up the pool.
	PoolBlocks = 30
	// PoolSize is the size of the entropy pool in bytes.
	PoolSize = PoolBlocks * DigestLen

	// addValue is added (wrapping), word-wise, to the pool at read-out time to
	// derive the scratch "key" pool from "rnd" without exposing rnd bytes
	// directly. This rewrite fixes the word width at 64 bits regardless of
	// host, a deliberate break from the original's host-word-size-dependent
	// seed-file format (see SPEC_FULL.md §4.A).
	addValue uint64 = 0xA5A5A5A5A5A5A5A5

	// slowPollChunk is the amount requested per slow poll (POOLSIZE/5).
	slowPollChunk = PoolSize / 5
)

// Level and Origin are aliased from pool/source so that callers configuring
// gatherers and callers driving reads/adds share one vocabulary.
type (
	Level  = source.Level
	Origin = source.Origin
)

const (
	Weak       = source.Weak
	Strong     = source.Strong
	VeryStrong = source.VeryStrong

	OriginInit      = source.OriginInit
	OriginSlowPoll  = source.OriginSlowPoll
	OriginFastPoll  = source.OriginFastPoll
	OriginExtraPoll = source.OriginExtraPoll
	OriginExternal  = source.OriginExternal
)

// Engine is the process-wide singleton handle holding the pool state. Every
// operation that touches it takes mu first and releases it on every
// exit path; see SPEC_FULL.md §5.
//
// Engine must be created with NewEngine; the zero value is not usable.
type Engine struct {
	mu sync.Mutex

	// rnd is the canonical entropy pool, with a trailing BlockLen-byte
	// mixer scratch area. key mirrors its shape and is used as the
	// read-out scratch copy.
	rnd []byte
	key []byte

	writePos int
	readPos  int

	poolFilled   bool
	fillCounter  int
	extraSeeded  bool
	balance      int
	justMixed    bool

	failsafeDigest [DigestLen]byte
	failsafeValid  bool

	// lastPID is the pid last observed at a read entry/exit check, used to
	// detect a fork so the child can be re-stirred before it emits output
	// indistinguishable from its parent's stream. -1 means "never checked".
	lastPID int

	secureMem bool
	quickTest *abool.AtomicBool

	seedFilePath    string
	seedFileSet     bool
	allowSeedUpdate bool

	slow source.SlowGatherer
	fast source.FastGatherer
	hw   source.HWGatherer

	initialized bool

	stats Stats

	// filled broadcasts the false->true transition of poolFilled, so
	// callers can opt in to waiting for it instead of polling.
	filled *utils.BroadcastFlag

	instanceID uuid.UUID
}

// NewEngine allocates a new, not-yet-initialized Engine. Most callers should
// use the package-level Default() instance instead of creating their own;
// independent instances make little sense given the seed-file and
// entropy-source singletons each Engine binds to (see SPEC_FULL.md §9).
func NewEngine() *Engine {
	return &Engine{
		quickTest:  abool.New(),
		lastPID:    -1,
		filled:     utils.NewBroadcastFlag(),
		instanceID: utils.RandomUUID("pool-engine"),
	}
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the lazily-initialized package-level Engine instance.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine()
	})
	return defaultEngine
}

// SecureAlloc marks that both pool buffers should be allocated in locked,
// non-swappable memory. Must be called before the first Initialize; per
// spec.md §6.3 this is a pre-init knob, not something that can be toggled
// later.
func (e *Engine) SecureAlloc() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.secureMem = true
}

// EnableQuickGen degrades VeryStrong requests to Strong, for fast test
// suites.
func (e *Engine) EnableQuickGen() {
	e.quickTest.Set()
}

// IsFaked reports whether quick-gen degradation is active.
func (e *Engine) IsFaked() bool {
	e.initializeBasics()
	return e.quickTest.IsSet()
}

// initializeBasics is the idempotent half of lifecycle setup that does not
// require the pool lock. It exists, as in the original, so that merely
// linking against this package does not itself start filling the pool.
func (e *Engine) initializeBasics() {
	// Nothing beyond struct construction is required in this rewrite: the
	// mutex and buffers are either zero-value-safe or allocated lazily
	// under Initialize. This function is kept as an explicit, named step
	// to mirror the original's initialize_basics / initialize split and
	// as the hook future invariant assertions would attach to.
}

func (e *Engine) logWarn(format string, args ...any) {
	log.Warningf("pool: "+format, args...)
}

func (e *Engine) logCritical(format string, args ...any) {
	log.Criticalf("pool: "+format, args...)
}
