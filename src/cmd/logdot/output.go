// FILE: logdot/src/cmd/logdot/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// OutputHandler prints CLI errors unless quiet mode is on
type OutputHandler struct {
	quiet  bool
	mu     sync.RWMutex
	stderr io.Writer
}

var output *OutputHandler

func InitOutputHandler(quiet bool) {
	output = &OutputHandler{
		quiet:  quiet,
		stderr: os.Stderr,
	}
}

// Error writes to stderr if not in quiet mode
func (o *OutputHandler) Error(format string, args ...any) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if !o.quiet {
		fmt.Fprintf(o.stderr, format, args...)
	}
}

// FatalError writes to stderr and exits
func (o *OutputHandler) FatalError(code int, format string, args ...any) {
	o.Error(format, args...)
	os.Exit(code)
}

func FatalError(code int, format string, args ...any) {
	if output != nil {
		output.FatalError(code, format, args...)
	} else {
		fmt.Fprintf(os.Stderr, format, args...)
		os.Exit(code)
	}
}
