// FILE: logdot/src/internal/capture/nonblock_unix.go
//go:build unix

package capture

import (
	"os"

	"golang.org/x/sys/unix"
)

// readNonblocking makes a single read attempt on a pipe. An empty pipe
// returns EAGAIN instead of waiting.
func readNonblocking(f *os.File, p []byte) (int, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, err
	}

	var n int
	var rerr error
	if err := rc.Read(func(fd uintptr) bool {
		n, rerr = unix.Read(int(fd), p)
		return true
	}); err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	return n, rerr
}
