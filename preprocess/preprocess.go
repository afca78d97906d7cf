// Package preprocess implements spec.md §4.4: newline normalization (CR,
// CRLF, and CR followed by anything all become a single LF) plus location
// tracking, applied lazily over a pull stream of decoded code points.
package preprocess

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

// Positioned pairs a code point with the location it occupies in the
// normalized stream.
type Positioned struct {
	R   rune
	Loc signal.Location
}

// New wraps src, a stream of raw decoded code points, with newline
// normalization and location tracking. report receives a diagnostic (and
// a U+FFFD substitution) for any surrogate code point encountered (spec.md
// §4.4 "Rejects the surrogate range").
func New(src *stream.Stream[rune], report diag.Reporter) *stream.Stream[Positioned] {
	if report == nil {
		report = diag.Discard
	}
	line, col := 1, 1

	advance := func(r rune) Positioned {
		loc := signal.Location{Line: line, Column: col}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		return Positioned{R: r, Loc: loc}
	}

	return stream.FromFunc(func(onErr stream.OnError, onEnd stream.OnEnd, onVal stream.OnValue[Positioned]) {
		src.Advance(onErr, onEnd, func(r rune) {
			switch r {
			case '\r':
				// CR LF and CR-followed-by-anything both collapse to a
				// single LF (spec.md §4.4); peek one code point to tell
				// them apart, pushing back a non-LF follower.
				src.Advance(
					func(err error) { onVal(advance('\n')) }, // upstream error on peek: still emit the LF for the CR itself
					func() { onVal(advance('\n')) },
					func(next rune) {
						if next != '\n' {
							src.PushBack(next)
						}
						onVal(advance('\n'))
					},
				)
			case 0xFFFE, 0xFFFF:
				// Noncharacters are not surrogates, but U+FFFE/U+FFFF are
				// commonly rejected alongside them by decoders; left as
				// pass-through here since spec.md only mandates rejecting
				// the surrogate range itself.
				onVal(advance(r))
			default:
				if r >= 0xD800 && r <= 0xDFFF {
					loc := signal.Location{Line: line, Column: col}
					report(diag.New(loc, diag.DecodingError, "surrogate code point rejected, substituting U+FFFD"))
					onVal(advance(0xFFFD))
					return
				}
				onVal(advance(r))
			}
		})
	})
}

// FromString is a convenience constructor for tests and small inputs:
// wraps a decoded UTF-8 string as a rune stream, then normalizes it.
func FromString(s string, report diag.Reporter) *stream.Stream[Positioned] {
	runes := []rune(s)
	i := 0
	raw := stream.FromFunc(func(onErr stream.OnError, onEnd stream.OnEnd, onVal stream.OnValue[rune]) {
		if i >= len(runes) {
			onEnd()
			return
		}
		r := runes[i]
		i++
		onVal(r)
	})
	return New(raw, report)
}
