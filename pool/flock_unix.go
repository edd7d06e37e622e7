//go:build unix

package pool

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockFile takes an advisory whole-file lock on f: shared for read,
// exclusive for write. The lock is requested without blocking; on
// contention (EAGAIN/EACCES) or EINTR it retries with a bounded backoff
// (sleeps growing by 100ms per attempt, at most 1s each, up to 10 retries),
// and never treats a failure to lock as fatal: the caller falls back to not
// using the file, per spec.md §6.2/§7 tier 2.
func flockFile(f *os.File, forWrite bool) error {
	how := unix.LOCK_SH
	if forWrite {
		how = unix.LOCK_EX
	}
	how |= unix.LOCK_NB

	backoff := 0
	for {
		err := unix.Flock(int(f.Fd()), how)
		if err == nil {
			return nil
		}
		if err != unix.EAGAIN && err != unix.EACCES && err != unix.EINTR {
			return err
		}
		if backoff >= 10 {
			return err
		}
		sleepBackoff(backoff)
		backoff++
	}
}

func unflockFile(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// mlockBuffer best-effort pins buf against being paged to swap, backing
// SecureAlloc. A failure is logged and otherwise ignored: refusing to start
// the RNG because the host denied mlock would be a worse outcome than
// serving random numbers from unlocked memory (spec.md §7 tier 2).
func mlockBuffer(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return unix.Mlock(buf)
}
