// FILE: logdot/src/internal/capture/nonblock_other.go
//go:build !unix

package capture

import (
	"errors"
	"os"
)

func readNonblocking(_ *os.File, _ []byte) (int, error) {
	return 0, errors.ErrUnsupported
}
