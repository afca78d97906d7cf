// Package stream implements the pull-stream primitive described in
// spec.md §4.1 and the concurrency model in §5: a single `Advance`
// operation expressed in continuation-passing style, so the same stream
// shape drives both synchronous and suspending hosts without the core
// ever choosing a scheduler.
//
// The shape is grounded on two patterns in the retrieved pack: the
// Carrier/Processor pipeline in benoit-pereira-da-silva/textual (a
// zero-dependency generic stream-processing toolkit built the same way,
// one item at a time, with errors carried as data) and the
// Handler/Anchor event contract in creachadair/jtree's streaming parser
// (BeginObject/EndObject/... delivered as the scanner advances, with a
// location attached to every event).
package stream

// OnError is invoked at most once per Advance call, when the upstream
// source fails. The stream is not advanced past the error (spec.md §4.1).
type OnError func(err error)

// OnEnd is invoked when the stream is exhausted. End-of-stream is sticky:
// once OnEnd has fired, every subsequent Advance must also deliver OnEnd.
type OnEnd func()

// OnValue is invoked with the next value in the stream.
type OnValue[T any] func(v T)

// Stream is a single-consumer pull stream of element type T. The zero
// value of a struct embedding Stream is not valid; construct one with
// FromFunc or one of the combinators below.
//
// Push-back is a small LIFO buffer rather than a single slot: several
// tokenizer states (spec.md §4.5's "look-ahead... use a small explicit
// buffer", e.g. matching "DOCTYPE" or "]]>") tentatively consume a run of
// values and push all of them back on mismatch, in reverse order, so that
// replaying the buffer reproduces the original sequence. Peek is built on
// top of this as a one-element push-back-and-re-read.
type Stream[T any] struct {
	next func(onErr OnError, onEnd OnEnd, onVal OnValue[T])

	pushback []T // stack; last element is the next to be delivered

	ended bool
	erred bool
	err   error
}

// FromFunc wraps a producer callback as a Stream. The callback has the
// same three-continuation contract as Advance itself, so FromFunc is the
// single place host-specific suspension enters the pipeline (spec.md §5:
// "Suspension points are exactly and only at the byte-source boundary").
func FromFunc[T any](produce func(onErr OnError, onEnd OnEnd, onVal OnValue[T])) *Stream[T] {
	return &Stream[T]{next: produce}
}

// Advance invokes exactly one of onErr, onEnd, onVal exactly once.
func (s *Stream[T]) Advance(onErr OnError, onEnd OnEnd, onVal OnValue[T]) {
	if n := len(s.pushback); n > 0 {
		v := s.pushback[n-1]
		s.pushback = s.pushback[:n-1]
		onVal(v)
		return
	}
	if s.erred {
		onErr(s.err)
		return
	}
	if s.ended {
		onEnd()
		return
	}
	s.next(
		func(err error) { s.erred = true; s.err = err; onErr(err) },
		func() { s.ended = true; onEnd() },
		func(v T) { onVal(v) },
	)
}

// Peek observes the next value without consuming it, by advancing and
// immediately pushing the result back.
func (s *Stream[T]) Peek(onErr OnError, onEnd OnEnd, onVal OnValue[T]) {
	s.Advance(onErr, onEnd, func(v T) {
		s.PushBack(v)
		onVal(v)
	})
}

// PushBack inserts a previously-observed value at the head of the stream,
// to be delivered by the next Advance. It is how the tokenizer's
// "reconsume" is modeled (spec.md §9): push the current code point back
// and re-enter a different state. Repeated calls stack, most-recent-first,
// so pushing back v1 then v2 delivers v2 then v1 on the next two Advances —
// callers restoring a multi-value look-ahead buffer must push it back in
// reverse order to reproduce the original sequence.
func (s *Stream[T]) PushBack(v T) {
	s.pushback = append(s.pushback, v)
}

// Map transforms each value lazily; errors and end propagate unchanged.
func Map[T, U any](s *Stream[T], f func(T) U) *Stream[U] {
	return FromFunc(func(onErr OnError, onEnd OnEnd, onVal OnValue[U]) {
		s.Advance(onErr, onEnd, func(v T) { onVal(f(v)) })
	})
}

// Filter drops values that do not satisfy pred, pulling upstream until one
// does (or until end/error).
func Filter[T any](s *Stream[T], pred func(T) bool) *Stream[T] {
	var step func(onErr OnError, onEnd OnEnd, onVal OnValue[T])
	step = func(onErr OnError, onEnd OnEnd, onVal OnValue[T]) {
		s.Advance(onErr, onEnd, func(v T) {
			if pred(v) {
				onVal(v)
				return
			}
			step(onErr, onEnd, onVal)
		})
	}
	return FromFunc(step)
}

// Concat delivers every value of a, then every value of b.
func Concat[T any](a, b *Stream[T]) *Stream[T] {
	onA := true
	return FromFunc(func(onErr OnError, onEnd OnEnd, onVal OnValue[T]) {
		if onA {
			a.Advance(onErr, func() {
				onA = false
				b.Advance(onErr, onEnd, onVal)
			}, onVal)
			return
		}
		b.Advance(onErr, onEnd, onVal)
	})
}

// FromSlice delivers each element of vs in order, then ends. Mainly
// useful for feeding a fixed, already-in-memory sequence (e.g. test
// fixtures) into a Stream-consuming stage.
func FromSlice[T any](vs []T) *Stream[T] {
	i := 0
	return FromFunc(func(onErr OnError, onEnd OnEnd, onVal OnValue[T]) {
		if i >= len(vs) {
			onEnd()
			return
		}
		v := vs[i]
		i++
		onVal(v)
	})
}

// ToList drains s eagerly, for tests and for the writer's finite-output
// boundary. It returns the first error encountered, if any.
func ToList[T any](s *Stream[T]) ([]T, error) {
	var out []T
	var retErr error
	done := false
	for !done {
		s.Advance(
			func(err error) { retErr = err; done = true },
			func() { done = true },
			func(v T) { out = append(out, v) },
		)
	}
	return out, retErr
}
