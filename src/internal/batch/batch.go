// FILE: logdot/src/internal/batch/batch.go
package batch

import "errors"

var (
	ErrInactive     = errors.New("batch mode is not active")
	ErrKindMismatch = errors.New("item does not match the active batch kind")
	ErrEmpty        = errors.New("batch is empty")
)

// Kind identifies what an Accumulator collects while batch mode is on.
type Kind int

const (
	KindNone Kind = iota
	KindLog
	KindMetric      // one metric name and unit, many values
	KindMultiMetric // fully specified samples
)

func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindMetric:
		return "metric"
	case KindMultiMetric:
		return "multi_metric"
	default:
		return "none"
	}
}

// Accumulator is an ordered queue of pending items with an explicit
// begin/end lifecycle. It is owned by a single client and is not safe for
// concurrent mutation; callers sharing a client across goroutines must
// synchronize batch operations themselves.
type Accumulator[T any] struct {
	kind  Kind
	items []T
}

// Begin turns batch mode on for the given kind. Items queued under a
// previous kind are dropped and their count returned.
func (a *Accumulator[T]) Begin(kind Kind) int {
	dropped := 0
	if a.kind != kind {
		dropped = len(a.items)
		a.items = nil
	}
	a.kind = kind
	return dropped
}

// End turns batch mode off. Unsent items are discarded; the count is
// returned so the owner can warn about it.
func (a *Accumulator[T]) End() int {
	dropped := len(a.items)
	a.kind = KindNone
	a.items = nil
	return dropped
}

// Active reports whether batch mode is on.
func (a *Accumulator[T]) Active() bool {
	return a.kind != KindNone
}

// Kind returns the active batch kind, KindNone when off.
func (a *Accumulator[T]) Kind() Kind {
	return a.kind
}

// Add appends item if batch mode is on for the given kind.
func (a *Accumulator[T]) Add(kind Kind, item T) error {
	if a.kind == KindNone {
		return ErrInactive
	}
	if a.kind != kind {
		return ErrKindMismatch
	}
	a.items = append(a.items, item)
	return nil
}

// Len returns the number of pending items.
func (a *Accumulator[T]) Len() int {
	return len(a.items)
}

// Clear drops pending items without changing the mode.
func (a *Accumulator[T]) Clear() {
	a.items = nil
}

// Items returns a copy of the pending items in insertion order.
func (a *Accumulator[T]) Items() []T {
	out := make([]T, len(a.items))
	copy(out, a.items)
	return out
}

// Flush hands the pending items to send. On success the queue is cleared;
// on failure it is left intact for a retry. Flushing an empty or inactive
// batch never calls send.
func (a *Accumulator[T]) Flush(send func(items []T) error) error {
	if a.kind == KindNone {
		return ErrInactive
	}
	if len(a.items) == 0 {
		return ErrEmpty
	}
	if err := send(a.Items()); err != nil {
		return err
	}
	a.items = nil
	return nil
}
