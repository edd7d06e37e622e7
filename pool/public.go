package pool

import (
	"github.com/ypcs/libgcrypt/base/log"
	"github.com/ypcs/libgcrypt/base/utils"
)

// AddBytes mixes externally supplied entropy into the pool, tagged
// OriginExternal. quality is a 0-100 estimate of bits of entropy per byte;
// -1 means "use the default estimate" (35), values above 100 are clamped
// down, negative values other than -1 are clamped to 0. A call supplying no
// bytes, or whose quality estimate floors below 10, is silently accepted as
// a no-op: the original treats this as "not worth the lock", not an error.
//
// Unlike Randomize, AddBytes re-acquires the pool lock once per PoolSize-
// sized chunk rather than once for the whole call: a deliberate asymmetry
// inherited from the original (see DESIGN.md).
func (e *Engine) AddBytes(buf []byte, quality int) error {
	if buf == nil {
		return ErrInvalidArgument
	}

	switch {
	case quality == -1:
		quality = 35
	case quality > 100:
		quality = 100
	case quality < 0:
		quality = 0
	}
	if len(buf) == 0 || quality < 10 {
		log.Debugf("pool: ignoring low-quality AddBytes call (quality=%d, preview=%s)",
			quality, utils.SafeFirst16Bytes(buf))
		return nil
	}

	e.Initialize()

	for len(buf) > 0 {
		n := len(buf)
		if n > PoolSize {
			n = PoolSize
		}
		e.mu.Lock()
		e.add(buf[:n], OriginExternal)
		e.mu.Unlock()
		buf = buf[n:]
	}
	return nil
}

// AddBytes mixes entropy into the default Engine. See (*Engine).AddBytes.
func AddBytes(buf []byte, quality int) error {
	return Default().AddBytes(buf, quality)
}

// Randomize fills out with random bytes from the default Engine. See
// (*Engine).Randomize.
func Randomize(out []byte, level Level) {
	Default().Randomize(out, level)
}

// FastPoll triggers a fast poll on the default Engine. See (*Engine).FastPoll.
func FastPoll() {
	Default().FastPoll()
}

// DumpStats logs usage counters for the default Engine. See (*Engine).DumpStats.
func DumpStats() {
	Default().DumpStats()
}

// CloseFDs releases entropy-source file descriptors held by the default
// Engine. See (*Engine).CloseFDs.
func CloseFDs() {
	Default().CloseFDs()
}

// IsFaked reports whether the default Engine has quick-gen degradation
// enabled. See (*Engine).IsFaked.
func IsFaked() bool {
	return Default().IsFaked()
}

// EnableQuickGen enables quick-gen degradation on the default Engine. See
// (*Engine).EnableQuickGen.
func EnableQuickGen() {
	Default().EnableQuickGen()
}

// SecureAlloc requests locked memory for the default Engine's buffers. See
// (*Engine).SecureAlloc.
func SecureAlloc() {
	Default().SecureAlloc()
}

// SetSeedFile registers the seed file path for the default Engine. See
// (*Engine).SetSeedFile.
func SetSeedFile(path string) {
	Default().SetSeedFile(path)
}
