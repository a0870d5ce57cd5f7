// FILE: logdot/src/internal/capture/stream.go
package capture

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"logdot/src/internal/core"

	"golang.org/x/term"
	"golang.org/x/time/rate"
)

var ErrAlreadyCaptured = errors.New("print capture is already enabled")

// drainTimeout bounds how long DisablePrintCapture waits for a pump to
// forward what was written before the streams were restored.
const drainTimeout = 5 * time.Second

// maxDrainBytes bounds one non-blocking drain of a capture pipe.
const maxDrainBytes = 1 << 20

// PrintOptions configures EnablePrintCapture.
type PrintOptions struct {
	// Forwards per second across each stream; <= 0 is unlimited
	Rate  float64
	Burst int
}

type capturedStream struct {
	original *os.File
	writer   *os.File
	tee      *StreamTee
	done     chan struct{}
}

// registry owns the process-wide stdout/stderr replacement.
type registry struct {
	mu        sync.Mutex
	installed bool
	stdout    *capturedStream
	stderr    *capturedStream
}

var streams registry

// EnablePrintCapture replaces os.Stdout and os.Stderr with pipes whose
// contents are written to the original streams and forwarded to sink at
// info (stdout) and error (stderr) severity.
//
// Only writes made through os.Stdout/os.Stderr after this call are seen;
// writers that kept a reference to the original *os.File (the standard
// library log package among them) bypass capture.
func EnablePrintCapture(sink Sink, opts PrintOptions) error {
	streams.mu.Lock()
	defer streams.mu.Unlock()

	if streams.installed {
		return ErrAlreadyCaptured
	}

	stdout, err := captureStream(os.Stdout, sink, core.SeverityInfo, NewLimiter(opts.Rate, opts.Burst))
	if err != nil {
		return fmt.Errorf("failed to capture stdout: %w", err)
	}
	stderr, err := captureStream(os.Stderr, sink, core.SeverityError, NewLimiter(opts.Rate, opts.Burst))
	if err != nil {
		stdout.release()
		return fmt.Errorf("failed to capture stderr: %w", err)
	}

	streams.stdout = stdout
	streams.stderr = stderr
	os.Stdout = stdout.writer
	os.Stderr = stderr.writer
	streams.installed = true
	return nil
}

// DisablePrintCapture restores the original streams. It is a no-op when
// capture is not enabled, so calling it repeatedly is safe.
func DisablePrintCapture() {
	streams.mu.Lock()
	defer streams.mu.Unlock()

	if !streams.installed {
		return
	}

	os.Stdout = streams.stdout.original
	os.Stderr = streams.stderr.original
	streams.stdout.release()
	streams.stderr.release()

	streams.stdout = nil
	streams.stderr = nil
	streams.installed = false
}

// PrintCaptureEnabled reports whether the streams are currently replaced.
func PrintCaptureEnabled() bool {
	streams.mu.Lock()
	defer streams.mu.Unlock()
	return streams.installed
}

// StdoutIsTerminal reports whether the real stdout is a terminal, looking
// through an active capture.
func StdoutIsTerminal() bool {
	streams.mu.Lock()
	f := os.Stdout
	if streams.installed {
		f = streams.stdout.original
	}
	streams.mu.Unlock()
	return term.IsTerminal(int(f.Fd()))
}

// PrintCaptureStats returns per-stream forwarding counters, nil when disabled.
func PrintCaptureStats() map[string]any {
	streams.mu.Lock()
	defer streams.mu.Unlock()
	if !streams.installed {
		return nil
	}
	return map[string]any{
		"stdout": streams.stdout.tee.GetStats(),
		"stderr": streams.stderr.tee.GetStats(),
	}
}

func captureStream(original *os.File, sink Sink, severity core.Severity, limiter *rate.Limiter) (*capturedStream, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	cs := &capturedStream{
		original: original,
		writer:   w,
		tee:      NewStreamTee(original, sink, severity, limiter),
		done:     make(chan struct{}),
	}
	go pump(r, cs.tee, cs.done)
	return cs, nil
}

// release closes the write end and waits for the pump to drain.
func (cs *capturedStream) release() {
	_ = cs.writer.Close()
	select {
	case <-cs.done:
	case <-time.After(drainTimeout):
	}
}

// pump copies the pipe through tee. Before forwarding it takes in whatever
// is already queued so earlier output is not mistaken for nested output.
// Bytes that become readable while lines are being forwarded were written
// during the sink call, possibly by the sink itself, and are only written
// through; forwarding them could feed back without end.
func pump(r *os.File, tee *StreamTee, done chan struct{}) {
	defer close(done)
	defer r.Close()

	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = tee.passThrough(buf[:n])
			drainQueued(r, buf, tee.passThrough)
			if tee.forwardLines(false) > 0 {
				drainQueued(r, buf, tee.writeOnly)
			}
		}
		if err != nil {
			tee.forwardLines(true)
			return
		}
	}
}

// drainQueued hands fn what r can deliver without blocking, up to
// maxDrainBytes. It does nothing where non-blocking reads are unsupported.
func drainQueued(r *os.File, buf []byte, fn func([]byte) (int, error)) {
	total := 0
	for total < maxDrainBytes {
		n, err := readNonblocking(r, buf)
		if n > 0 {
			_, _ = fn(buf[:n])
			total += n
		}
		if err != nil || n == 0 {
			return
		}
	}
}
