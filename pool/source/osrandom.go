package source

import (
	"crypto/rand"
	"fmt"
)

// OSRandom is a SlowGatherer backed by the operating system's CSPRNG
// (getrandom(2)/getentropy(2) on the platforms Go's crypto/rand supports),
// the first backend probed by the original's getfnc_gather_random. It
// never blocks on a starved /dev/random the way the classic fallback path
// could, since the modern OS-level primitives Go uses don't block under
// normal operation.
type OSRandom struct{}

// Gather reads length bytes from the OS CSPRNG and sinks them tagged with
// origin. level is accepted for interface conformance but does not change
// behavior: the OS source is already as strong as this process can ask for.
func (OSRandom) Gather(sink Sink, origin Origin, length int, level Level) error {
	buf := make([]byte, length)
	n, err := rand.Read(buf)
	if err != nil {
		return fmt.Errorf("os random source: %w", err)
	}
	if n != length {
		return fmt.Errorf("os random source: got %d bytes, wanted %d", n, length)
	}
	sink(buf, origin)
	return nil
}

// Close is a no-op: crypto/rand holds no file descriptor a caller needs to
// release.
func (OSRandom) Close() {}
