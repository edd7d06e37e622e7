package module

import (
	"testing"
	"time"

	"github.com/ypcs/libgcrypt/pool"
	"github.com/ypcs/libgcrypt/service/mgr"
)

func TestStartStopServesRandomData(t *testing.T) {
	t.Parallel()

	m, err := New(struct{}{})
	// A second call in the same process must fail: only one instance is
	// allowed. We don't assert on it here since other tests in this package
	// may run in parallel and legitimately win the race to call New first;
	// this test only needs *a* working instance, not to own the singleton.
	if err != nil {
		t.Skip("rng module instance already created by another test in this package")
	}

	mgrInst := mgr.New("rng-test")
	if err := m.Start(mgrInst); err != nil {
		t.Fatalf("Start: %s", err)
	}

	out := make([]byte, 32)
	m.Engine().Randomize(out, pool.Strong)

	allZero := true
	for _, b := range out {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Errorf("Randomize via the module-managed engine returned all zeroes")
	}

	mgrInst.Cancel()
	time.Sleep(10 * time.Millisecond) // let the reseed worker observe cancellation

	if err := m.Stop(mgrInst); err != nil {
		t.Errorf("Stop: %s", err)
	}
}
