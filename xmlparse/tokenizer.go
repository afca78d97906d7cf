// Package xmlparse implements the XML tokenizer and parser of spec.md
// §4.7: XML 1.0 fifth-edition syntax (declaration, doctype with opaque
// external IDs, elements, attributes, CDATA, comments, processing
// instructions, predefined character/entity references), well-formedness
// checking, and namespace resolution with graceful recovery.
//
// Grounded on the shape of the pack's independent XML tokenizers
// (other_examples' shapestone-shape-xml tokenizer.go and
// muktihari-xmltokenizer/mdelah-xmltokenizer tokenizer_test.go for token
// kind coverage) and antchfx-xmlquery's parse.go for the overall
// streaming-tree-builder structure, reusing `signal.Token` directly since
// spec.md §3 already defines Token as the shared HTML/XML tokenizer
// output type.
package xmlparse

import (
	"strings"

	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/preprocess"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

const eof = rune(-1)

// Tokenizer is the XML tokenizer. Unlike htmltoken's one-code-point state
// machine (mandated by the HTML specification's exact per-character
// conformance requirements), spec.md §4.7 only asks for "a simpler state
// machine", so each call to next reads however many runes one token needs
// directly, matching the reference tokenizers' scan-a-token style.
type Tokenizer struct {
	input  *stream.Stream[preprocess.Positioned]
	report diag.Reporter

	loc  signal.Location
	done bool
}

// NewTokenizer constructs a Tokenizer reading from input.
func NewTokenizer(input *stream.Stream[preprocess.Positioned], report diag.Reporter) *Tokenizer {
	if report == nil {
		report = diag.Discard
	}
	return &Tokenizer{input: input, report: report, loc: signal.Location{Line: 1, Column: 1}}
}

// Tokens exposes the tokenizer as a pull stream of Token, EOF-terminated.
func (z *Tokenizer) Tokens() *stream.Stream[signal.Token] {
	sawEOF := false
	return stream.FromFunc(func(onErr stream.OnError, onEnd stream.OnEnd, onVal stream.OnValue[signal.Token]) {
		if sawEOF {
			onEnd()
			return
		}
		tok, err := z.next()
		if err != nil {
			onErr(err)
			return
		}
		if tok.Kind == signal.TokenEOF {
			sawEOF = true
		}
		onVal(tok)
	})
}

func (z *Tokenizer) readRune() (rune, signal.Location, bool, error) {
	var pr preprocess.Positioned
	var ended bool
	var rerr error
	z.input.Advance(
		func(e error) { rerr = e },
		func() { ended = true },
		func(v preprocess.Positioned) { pr = v },
	)
	if rerr != nil {
		return 0, signal.Location{}, false, rerr
	}
	if ended {
		return eof, z.loc, true, nil
	}
	z.loc = pr.Loc
	return pr.R, pr.Loc, false, nil
}

func (z *Tokenizer) pushBack(r rune, loc signal.Location) {
	if r == eof {
		return
	}
	z.input.PushBack(preprocess.Positioned{R: r, Loc: loc})
}

func (z *Tokenizer) err(kind diag.Kind, loc signal.Location, msg string) {
	z.report(diag.New(loc, kind, msg))
}

// next scans exactly one token.
func (z *Tokenizer) next() (signal.Token, error) {
	r, loc, ended, err := z.readRune()
	if err != nil {
		return signal.Token{}, err
	}
	if ended {
		return signal.Token{Kind: signal.TokenEOF, Loc: loc}, nil
	}
	if r != '<' {
		return z.scanText(r, loc)
	}
	return z.scanMarkup(loc)
}

// scanText reads up to the next '<' or EOF, resolving character/entity
// references inline (spec.md §4.7 "predefined only; other general
// entities are not expanded but reported").
func (z *Tokenizer) scanText(first rune, startLoc signal.Location) (signal.Token, error) {
	var sb strings.Builder
	r := first
	for {
		if r == eof || r == '<' {
			break
		}
		if r == '&' {
			text, rerr := z.resolveReference()
			if rerr != nil {
				return signal.Token{}, rerr
			}
			sb.WriteString(text)
		} else if r == ']' {
			if z.peekLiteral("]]>") {
				z.err(diag.BadToken, z.loc, "literal ]]> in text content")
			}
			sb.WriteRune(r)
		} else {
			sb.WriteRune(r)
		}
		var loc signal.Location
		var ended bool
		var err error
		r, loc, ended, err = z.readRune()
		_ = loc
		if err != nil {
			return signal.Token{}, err
		}
		if ended {
			r = eof
		}
	}
	if r == '<' {
		z.pushBack(r, z.loc)
	}
	return signal.Token{Kind: signal.TokenChars, Loc: startLoc, Text: sb.String()}, nil
}

// peekLiteral checks (without consuming on mismatch) whether the upcoming
// runes spell lit; on a match the runes ARE consumed (used only for the
// "]]>" text-content check, where either way the bracket itself was
// already written by the caller).
func (z *Tokenizer) peekLiteral(lit string) bool {
	var consumed []preprocess.Positioned
	ok := true
	for _, want := range lit[1:] { // first char already consumed by caller
		r, loc, ended, err := z.readRune()
		if err != nil || ended || r != want {
			ok = false
			if !ended && err == nil {
				consumed = append(consumed, preprocess.Positioned{R: r, Loc: loc})
			}
			break
		}
		consumed = append(consumed, preprocess.Positioned{R: r, Loc: loc})
	}
	if !ok {
		for i := len(consumed) - 1; i >= 0; i-- {
			z.pushBack(consumed[i].R, consumed[i].Loc)
		}
		return false
	}
	return true
}

var predefinedEntities = map[string]string{
	"amp": "&", "lt": "<", "gt": ">", "apos": "'", "quot": "\"",
}

// resolveReference resolves a '&'-introduced reference: numeric character
// references always resolve; predefined general entities resolve; any
// other name is reported and left as the literal reference text.
func (z *Tokenizer) resolveReference() (string, error) {
	start := z.loc
	var sb strings.Builder
	sb.WriteRune('&')
	r, loc, ended, err := z.readRune()
	if err != nil {
		return "", err
	}
	if ended {
		z.err(diag.BadToken, start, "unterminated character reference")
		return sb.String(), nil
	}
	if r == '#' {
		sb.WriteRune('#')
		hex := false
		r, loc, ended, err = z.readRune()
		if err != nil {
			return "", err
		}
		if !ended && (r == 'x' || r == 'X') {
			hex = true
			sb.WriteRune(r)
			r, loc, ended, err = z.readRune()
			if err != nil {
				return "", err
			}
		}
		code := 0
		digits := 0
		for !ended && r != ';' {
			d, ok := digitVal(r, hex)
			if !ok {
				break
			}
			base := 10
			if hex {
				base = 16
			}
			code = code*base + d
			digits++
			sb.WriteRune(r)
			r, loc, ended, err = z.readRune()
			if err != nil {
				return "", err
			}
		}
		if digits == 0 || ended || r != ';' {
			z.err(diag.BadToken, start, "malformed character reference")
			if !ended {
				z.pushBack(r, loc)
			}
			return sb.String(), nil
		}
		return string(rune(code)), nil
	}
	var name strings.Builder
	name.WriteRune(r)
	for {
		r, loc, ended, err = z.readRune()
		if err != nil {
			return "", err
		}
		if ended || r == ';' {
			break
		}
		name.WriteRune(r)
	}
	if ended || r != ';' {
		z.err(diag.BadToken, start, "unterminated entity reference")
		if !ended {
			z.pushBack(r, loc)
		}
		return "&" + name.String(), nil
	}
	if v, ok := predefinedEntities[name.String()]; ok {
		return v, nil
	}
	z.err(diag.BadToken, start, "undeclared general entity &"+name.String()+";")
	return "&" + name.String() + ";", nil
}

func digitVal(r rune, hex bool) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case hex && r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case hex && r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}
