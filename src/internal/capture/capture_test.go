// FILE: logdot/src/internal/capture/capture_test.go
package capture

import (
	"bytes"
	"context"
	"sync"

	"logdot/src/internal/core"
)

type record struct {
	ctx      context.Context
	severity core.Severity
	msg      string
	tags     core.Tags
}

// recordingSink stores every forwarded record. onLog, if set, runs inside Log.
type recordingSink struct {
	mu      sync.Mutex
	records []record
	onLog   func(ctx context.Context, msg string)
}

func (s *recordingSink) Log(ctx context.Context, severity core.Severity, msg string, tags core.Tags) bool {
	s.mu.Lock()
	s.records = append(s.records, record{ctx: ctx, severity: severity, msg: msg, tags: tags})
	hook := s.onLog
	s.mu.Unlock()
	if hook != nil {
		hook(ctx, msg)
	}
	return true
}

func (s *recordingSink) all() []record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]record, len(s.records))
	copy(out, s.records)
	return out
}

type panicSink struct{}

func (panicSink) Log(context.Context, core.Severity, string, core.Tags) bool {
	panic("sink exploded")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}
