// FILE: logdot/src/internal/capture/tee.go
package capture

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"logdot/src/internal/core"
	"logdot/src/internal/truncate"

	"golang.org/x/time/rate"
)

// maxLineBytes caps one forwarded line. A longer line is forwarded in
// pieces cut on rune boundaries.
const maxLineBytes = 64 * 1024

// StreamTee writes through to an underlying stream and forwards captured
// output to a Sink as log entries tagged source=print. A direct Write is
// one entry; streamed input (ReadFrom, the capture pump) is one entry per
// line.
//
// A tee expects a single writer goroutine (the capture pump, or the copier
// of an exec.Cmd). A write that arrives while that goroutine is still
// forwarding is written through but not forwarded again.
type StreamTee struct {
	original io.Writer
	sink     Sink
	severity core.Severity
	limiter  *rate.Limiter

	forwarding atomic.Bool

	// Unterminated tail of streamed input, owned by the reading goroutine
	pending []byte

	forwarded  atomic.Uint64
	dropped    atomic.Uint64
	suppressed atomic.Uint64
}

// NewStreamTee creates a tee. A nil limiter forwards every write.
func NewStreamTee(original io.Writer, sink Sink, severity core.Severity, limiter *rate.Limiter) *StreamTee {
	return &StreamTee{
		original: original,
		sink:     sink,
		severity: severity,
		limiter:  limiter,
	}
}

// Write always writes p to the original stream first.
func (t *StreamTee) Write(p []byte) (int, error) {
	n, err := t.original.Write(p)
	t.forward(p)
	return n, err
}

// ReadFrom copies r through the tee until EOF. Every read goes to the
// original stream as-is and each complete line is forwarded on its own;
// an unterminated tail waits for the next read or EOF. io.Copy and
// exec.Cmd use this path when the tee is the destination.
func (t *StreamTee) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			written, werr := t.passThrough(buf[:n])
			total += int64(written)
			t.forwardLines(false)
			if werr != nil {
				return total, werr
			}
		}
		if err != nil {
			t.forwardLines(true)
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
	}
}

// passThrough writes p to the original stream and queues it for line
// splitting.
func (t *StreamTee) passThrough(p []byte) (int, error) {
	t.pending = append(t.pending, p...)
	return t.original.Write(p)
}

// writeOnly writes p to the original stream without forwarding it.
func (t *StreamTee) writeOnly(p []byte) (int, error) {
	t.suppressed.Add(uint64(len(p)))
	return t.original.Write(p)
}

// forwardLines forwards every complete line queued by passThrough and
// returns how many reached the sink. With atEOF the unterminated tail is
// forwarded too.
func (t *StreamTee) forwardLines(atEOF bool) int {
	sent := 0
	for len(t.pending) > 0 {
		advance, line, _ := splitLine(t.pending, atEOF)
		if advance == 0 {
			break
		}
		if t.forward(line) {
			sent++
		}
		t.pending = t.pending[advance:]
	}
	if len(t.pending) == 0 {
		t.pending = nil
	} else {
		t.pending = append([]byte(nil), t.pending...)
	}
	return sent
}

// splitLine is bufio.ScanLines with a length cap: a line longer than
// maxLineBytes is cut at the last rune boundary before the cap.
func splitLine(data []byte, atEOF bool) (int, []byte, error) {
	advance, token, err := bufio.ScanLines(data, atEOF)
	if advance > 0 || err != nil {
		return advance, token, err
	}
	if len(data) >= maxLineBytes {
		cut := completeRunes(data[:maxLineBytes])
		if cut == 0 {
			cut = maxLineBytes
		}
		return cut, data[:cut], nil
	}
	return 0, nil, nil
}

// completeRunes returns the length of the longest prefix of b that does not
// end inside a multi-byte UTF-8 sequence.
func completeRunes(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return len(b)
		}
		return i
	}
	return len(b)
}

// forward sends p to the sink and reports whether the sink was called.
func (t *StreamTee) forward(p []byte) (sent bool) {
	text := strings.TrimSpace(strings.ToValidUTF8(string(p), ""))
	if text == "" {
		return false
	}

	if !t.forwarding.CompareAndSwap(false, true) {
		return false
	}
	defer t.forwarding.Store(false)
	defer func() {
		_ = recover()
	}()

	if t.limiter != nil && !t.limiter.Allow() {
		t.dropped.Add(1)
		return false
	}

	sent = true
	t.sink.Log(context.Background(), t.severity, truncate.Default(text), core.Tags{core.TagSource: core.SourcePrint})
	t.forwarded.Add(1)
	return sent
}

// GetStats returns forwarding counters.
func (t *StreamTee) GetStats() map[string]any {
	return map[string]any{
		"severity":   t.severity.String(),
		"forwarded":  t.forwarded.Load(),
		"dropped":    t.dropped.Load(),
		"suppressed": t.suppressed.Load(),
	}
}

// NewLimiter builds a limiter from a rate; rate <= 0 means unlimited.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
