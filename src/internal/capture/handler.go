// FILE: logdot/src/internal/capture/handler.go
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"logdot/src/internal/core"
	"logdot/src/internal/truncate"
)

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Minimum level forwarded. Default: slog.LevelDebug.
	Level slog.Leveler
	// Reported as logger_name. Default: "root".
	Name string
}

// Handler is a slog.Handler that forwards records to a Sink.
//
// Forwarding runs with a marked context; any record logged with that context
// while the forward is in flight (for example by a Transport) is dropped
// instead of being forwarded again. Handlers derived with WithAttrs and
// WithGroup share the mark. Failures inside the sink are never returned or
// propagated to the caller.
type Handler struct {
	sink   Sink
	level  slog.Leveler
	name   string
	guard  *guard
	prefix string
	attrs  core.Tags
}

var _ slog.Handler = (*Handler)(nil)

func NewHandler(sink Sink, opts *HandlerOptions) *Handler {
	h := &Handler{
		sink:  sink,
		level: slog.LevelDebug,
		name:  "root",
		guard: newGuard(),
		attrs: core.Tags{},
	}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		if opts.Name != "" {
			h.name = opts.Name
		}
	}
	return h
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if ctx != nil && h.guard.active(ctx) {
		return false
	}
	return level >= h.level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if h.guard.active(ctx) || !h.guard.acquire() {
		return nil
	}
	defer h.guard.release()

	defer func() {
		if rec := recover(); rec != nil {
			err = nil
		}
	}()

	fwdCtx := h.guard.enter(ctx)

	tags := h.attrs.Clone()
	var recErr error
	r.Attrs(func(a slog.Attr) bool {
		if e := flattenAttr(tags, h.prefix, a); e != nil && recErr == nil {
			recErr = e
		}
		return true
	})

	tags[core.TagLoggerName] = h.name
	tags[core.TagSource] = core.SourceSlog
	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			tags[core.TagPathname] = frame.File
		}
		// Line 0 is still a reported line
		tags[core.TagLineno] = frame.Line
		if frame.Function != "" {
			tags[core.TagFuncName] = frame.Function
		}
	}
	if recErr != nil {
		tags[core.TagExceptionType] = fmt.Sprintf("%T", recErr)
		tags[core.TagExceptionMessage] = truncate.Prefix(recErr.Error(), core.MaxExceptionMessageBytes)
	}

	h.sink.Log(fwdCtx, SeverityForLevel(r.Level), truncate.Default(r.Message), tags)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = h.attrs.Clone()
	for _, a := range attrs {
		flattenAttr(h2.attrs, h.prefix, a)
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// SeverityForLevel maps slog levels onto the four wire severities. Levels
// above error (custom critical levels) map to error.
func SeverityForLevel(level slog.Level) core.Severity {
	switch {
	case level < slog.LevelInfo:
		return core.SeverityDebug
	case level < slog.LevelWarn:
		return core.SeverityInfo
	case level < slog.LevelError:
		return core.SeverityWarn
	default:
		return core.SeverityError
	}
}

// LevelFor parses a severity name into the slog level that starts it.
func LevelFor(name string) (slog.Level, error) {
	sev, err := core.ParseSeverity(name)
	if err != nil {
		return slog.LevelDebug, err
	}
	switch sev {
	case core.SeverityDebug:
		return slog.LevelDebug, nil
	case core.SeverityWarn:
		return slog.LevelWarn, nil
	case core.SeverityError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, nil
	}
}

// flattenAttr writes a into tags under prefix, expanding groups into dotted
// keys. It returns the first error value found.
func flattenAttr(tags core.Tags, prefix string, a slog.Attr) error {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return nil
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		var first error
		for _, ga := range group {
			if e := flattenAttr(tags, p, ga); e != nil && first == nil {
				first = e
			}
		}
		return first
	case slog.KindAny:
		if e, ok := a.Value.Any().(error); ok {
			tags[prefix+a.Key] = e.Error()
			return e
		}
		tags[prefix+a.Key] = a.Value.Any()
	case slog.KindTime:
		tags[prefix+a.Key] = a.Value.Time()
	case slog.KindDuration:
		tags[prefix+a.Key] = a.Value.Duration().String()
	default:
		tags[prefix+a.Key] = a.Value.Any()
	}
	return nil
}

