package rng

import (
	"errors"
	"io"
)

// Reader provides a global instance to read from the RNG.
var Reader io.Reader

// reader provides an io.Reader interface.
type reader struct{}

func init() {
	Reader = reader{}
}

// Read reads random bytes into the supplied byte slice.
func Read(b []byte) (n int, err error) {
	rngLock.Lock()
	defer rngLock.Unlock()

	if !rngReady {
		return 0, errors.New("rng is not ready yet")
	}

	return copy(b, rng.PseudoRandomData(uint(len(b)))), nil
}

// Read implements the io.Reader interface.
func (r reader) Read(b []byte) (n int, err error) {
	return Read(b)
}

// Bytes allocates a new byte slice of given length and fills it with random data.
func Bytes(n int) ([]byte, error) {
	rngLock.Lock()
	defer rngLock.Unlock()

	if !rngReady {
		return nil, errors.New("rng is not ready yet")
	}

	return rng.PseudoRandomData(uint(n)), nil
}
