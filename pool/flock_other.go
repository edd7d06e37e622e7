//go:build !unix

package pool

import "os"

// flockFile is a no-op on platforms without flock(2); the seed file is
// still written via truncate+write, just without the advisory lock
// guarding against a second concurrent process. Best effort, per
// spec.md §7 tier 2.
func flockFile(f *os.File, forWrite bool) error {
	return nil
}

func unflockFile(f *os.File) {}

func mlockBuffer(buf []byte) error { return nil }
