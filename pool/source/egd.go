package source

import (
	"fmt"
	"net"
	"time"
)

// EGD is a SlowGatherer that speaks the entropy-gathering-daemon protocol
// over a Unix domain socket, the fallback backend the original probes when
// no getentropy/dev-random style source is available on the host. Each
// request asks for at most 255 bytes, EGD's protocol limit, so Gather loops
// internally for larger requests.
type EGD struct {
	SocketPath string
	Timeout    time.Duration
}

const egdMaxChunk = 255

// opCodes for the subset of the EGD protocol used here: 0x01 reads
// non-blocking (returns whatever is available, possibly short), 0x02 reads
// blocking (returns no bytes until it has exactly what was asked for).
const (
	egdOpReadBlocking = 0x02
)

func (g EGD) dial() (net.Conn, error) {
	timeout := g.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return net.DialTimeout("unix", g.SocketPath, timeout)
}

// Gather requests length bytes from the EGD socket at the given level,
// chunked to the protocol's 255-byte request limit, and sinks each chunk
// tagged with origin as it arrives.
func (g EGD) Gather(sink Sink, origin Origin, length int, level Level) error {
	conn, err := g.dial()
	if err != nil {
		return fmt.Errorf("egd: dial %s: %w", g.SocketPath, err)
	}
	defer conn.Close()

	for length > 0 {
		n := length
		if n > egdMaxChunk {
			n = egdMaxChunk
		}

		if _, err := conn.Write([]byte{egdOpReadBlocking, byte(n)}); err != nil {
			return fmt.Errorf("egd: request: %w", err)
		}

		buf := make([]byte, n)
		got := 0
		for got < n {
			m, err := conn.Read(buf[got:])
			if err != nil {
				return fmt.Errorf("egd: read: %w", err)
			}
			got += m
		}

		sink(buf, origin)
		length -= n
	}
	return nil
}

// Close closes nothing: Gather dials a fresh connection per call rather
// than holding one open, since slow-poll requests are infrequent.
func (EGD) Close() {}
