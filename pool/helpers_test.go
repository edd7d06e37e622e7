package pool

import (
	"github.com/ypcs/libgcrypt/base/utils"
	"github.com/ypcs/libgcrypt/pool/source"
)

func newTestBroadcastFlag() *utils.BroadcastFlag {
	return utils.NewBroadcastFlag()
}

// stubSlow is a deterministic SlowGatherer for tests: it hands out bytes
// from an incrementing counter rather than real randomness, so tests can
// reason about pool contents without depending on an entropy source.
type stubSlow struct {
	closed bool
	next   byte
}

func (s *stubSlow) Gather(sink source.Sink, origin source.Origin, length int, level source.Level) error {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = s.next
		s.next++
	}
	sink(buf, origin)
	return nil
}

func (s *stubSlow) Close() { s.closed = true }

// stubFast is a no-op FastGatherer: tests that don't care about fast-poll
// content just need doFastPoll to not panic on a nil gatherer reference.
type stubFast struct{ polls int }

func (f *stubFast) Poll(sink source.Sink, origin source.Origin) {
	f.polls++
}

// newTestEngine returns an Engine wired to deterministic stub backends and
// already Initialized, ready for Randomize/AddBytes calls.
func newTestEngine() (*Engine, *stubSlow, *stubFast) {
	e := NewEngine()
	slow := &stubSlow{}
	fast := &stubFast{}
	e.SetSlowGatherer(slow)
	e.SetFastGatherer(fast)
	e.Initialize()
	return e, slow, fast
}
