// FILE: logdot/src/internal/capture/sink.go
package capture

import (
	"context"
	"sync/atomic"

	"logdot/src/internal/core"
	"logdot/src/internal/filter"
)

// Sink receives captured records. *logging.Client satisfies it.
type Sink interface {
	Log(ctx context.Context, severity core.Severity, msg string, tags core.Tags) bool
}

// maxInFlight caps records a handler family forwards at once. Emissions
// from the forwarding path that drop the context (slog.Info without a
// context) recurse one level per record and stop here.
const maxInFlight = 256

// guard marks a context as already forwarding for one handler family.
// Records arriving with a marked context were emitted by the forwarding
// path itself and are dropped.
type guard struct {
	inFlight atomic.Int32
	dropped  atomic.Uint64
}

func newGuard() *guard {
	return &guard{}
}

func (g *guard) active(ctx context.Context) bool {
	return ctx.Value(g) != nil
}

// acquire reserves a forwarding slot; false means the cap is reached and
// the record is dropped. Every true result needs a release.
func (g *guard) acquire() bool {
	if g.inFlight.Add(1) > maxInFlight {
		g.inFlight.Add(-1)
		g.dropped.Add(1)
		return false
	}
	return true
}

func (g *guard) release() {
	g.inFlight.Add(-1)
}

// enter returns a child of ctx carrying the mark. The mark ends with the
// child context, so release needs no explicit step.
func (g *guard) enter(ctx context.Context) context.Context {
	return context.WithValue(ctx, g, struct{}{})
}

// Filtered returns a Sink that forwards only entries passing chain. Dropped
// entries count as handled. An empty chain returns next unchanged.
func Filtered(next Sink, chain *filter.Chain) Sink {
	if chain.Empty() {
		return next
	}
	return &filteredSink{next: next, chain: chain}
}

type filteredSink struct {
	next  Sink
	chain *filter.Chain
}

func (f *filteredSink) Log(ctx context.Context, severity core.Severity, msg string, tags core.Tags) bool {
	if !f.chain.Apply(core.LogEntry{Severity: severity, Message: msg, Tags: tags}) {
		return true
	}
	return f.next.Log(ctx, severity, msg, tags)
}
