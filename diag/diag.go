// Package diag implements the diagnostic channel described in spec.md §7:
// a stream of recoverable parse problems, co-produced alongside signals,
// that never aborts the pipeline.
package diag

import (
	"fmt"

	"github.com/ucarion/streamdoc/signal"
)

// Kind enumerates the diagnostic kinds from spec.md §7. Kinds, not types:
// every diagnostic is a plain Diagnostic value carrying one of these.
type Kind string

const (
	DecodingError       Kind = "decoding-error"
	BadToken            Kind = "bad-token"
	BadDocument         Kind = "bad-document"
	UnmatchedEndTag     Kind = "unmatched-end-tag"
	MisnestedTag        Kind = "misnested-tag"
	BadNamespace        Kind = "bad-namespace"
	AttributeDuplicated Kind = "attribute-duplicated"
	BadContent          Kind = "bad-content"
)

// Diagnostic is a single recoverable parse problem, located and
// human-readable.
type Diagnostic struct {
	Loc     signal.Location
	Kind    Kind
	Message string
	// Context carries kind-specific detail, e.g. the discarded value of a
	// duplicated attribute (SPEC_FULL.md §12).
	Context string
}

func (d Diagnostic) Error() string {
	if d.Context != "" {
		return fmt.Sprintf("%d:%d: %s: %s (%s)", d.Loc.Line, d.Loc.Column, d.Kind, d.Message, d.Context)
	}
	return fmt.Sprintf("%d:%d: %s: %s", d.Loc.Line, d.Loc.Column, d.Kind, d.Message)
}

// Reporter is a diagnostic sink. Report is called once per diagnostic, in
// the order diagnostics are attached to the token/signal stream (spec.md
// §7 "ordered with respect to the signals they affect").
type Reporter func(Diagnostic)

// Discard is the default Reporter (spec.md §6 "report (sink) ... default
// discards").
func Discard(Diagnostic) {}

// New constructs a Diagnostic.
func New(loc signal.Location, kind Kind, message string) Diagnostic {
	return Diagnostic{Loc: loc, Kind: kind, Message: message}
}

// WithContext returns a copy of d carrying the given context string.
func (d Diagnostic) WithContext(context string) Diagnostic {
	d.Context = context
	return d
}
