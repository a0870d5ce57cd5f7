// FILE: logdot/src/internal/capture/logr.go
package capture

import (
	"io"
	stdlog "log"
	"log/slog"

	"github.com/go-logr/logr"
)

// NewLogr exposes h as a logr.Logger for libraries that log through logr.
// logr verbosity V(n) arrives as slog level -n.
func NewLogr(h *Handler) logr.Logger {
	return logr.FromSlogHandler(h)
}

// InstallDefault makes h the slog default. Output of the standard library
// log package is routed through h as well. The returned func restores the
// previous default logger and log package output.
func InstallDefault(h *Handler) (restore func()) {
	prev := slog.Default()
	prevWriter := stdlog.Writer()
	prevFlags := stdlog.Flags()

	slog.SetDefault(slog.New(h))

	return func() {
		slog.SetDefault(prev)
		restoreStdlog(prevWriter, prevFlags)
	}
}

func restoreStdlog(w io.Writer, flags int) {
	stdlog.SetOutput(w)
	stdlog.SetFlags(flags)
}
