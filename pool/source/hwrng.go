package source

import (
	"fmt"
	"os"
)

// HWRNG is an HWGatherer that reads from a hardware RNG device node, e.g.
// Linux's /dev/hwrng. Not bound by default: most hosts don't expose one,
// and per spec.md §6.1 its absence is not an error, just a feature the
// engine runs without. Polling a missing device must behave exactly like
// any other failed fast-poll backend: logged, not fatal.
type HWRNG struct {
	Path string
}

// Poll reads up to 16 bytes from the device and sinks what it got tagged
// with origin.
func (h HWRNG) Poll(sink Sink, origin Origin) error {
	f, err := os.Open(h.Path)
	if err != nil {
		return fmt.Errorf("hwrng: open %s: %w", h.Path, err)
	}
	defer f.Close()

	buf := make([]byte, 16)
	n, err := f.Read(buf)
	if err != nil {
		return fmt.Errorf("hwrng: read %s: %w", h.Path, err)
	}
	if n > 0 {
		sink(buf[:n], origin)
	}
	return nil
}
