// Package htmlwrite implements the HTML writer of spec.md §4.8: renders a
// stream of Signal values back to HTML text — text escaping, raw
// `<script>`/`<style>` bodies, void elements without a closing tag, and
// double-quoted attribute values.
//
// Grounded on the same hand-rolled-escaping style as the teacher's
// (ucarion-c14n) `c14n.go` XML writer (also not using a stdlib
// EscapeText helper, since none of the stdlib escapers implement this
// exact rule set) and on htmltree.VoidElements for the void-element list,
// so the writer and the tree constructor can never disagree about which
// elements are void.
package htmlwrite

import (
	"bytes"
	"fmt"

	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/htmltree"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

// rawTextElements never escape their text content (HTML specification
// §12.1.2 "raw text elements"), so the writer must match the tokenizer's
// rawtext switch rather than blindly escaping everything.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// Writer renders a Signal stream to HTML text.
type Writer struct {
	report   diag.Reporter
	openTags []string
}

// New constructs a Writer.
func New(report diag.Reporter) *Writer {
	if report == nil {
		report = diag.Discard
	}
	return &Writer{report: report}
}

// Write drains signals and returns the rendered document.
func Write(signals *stream.Stream[signal.Signal], report diag.Reporter) ([]byte, error) {
	w := New(report)
	var buf bytes.Buffer
	vals, err := stream.ToList(signals)
	if err != nil {
		return nil, err
	}
	for _, sig := range vals {
		w.writeOne(&buf, sig)
	}
	return buf.Bytes(), nil
}

var (
	amp     = []byte("&")
	escAmp  = []byte("&amp;")
	lt      = []byte("<")
	escLt   = []byte("&lt;")
	gt      = []byte(">")
	escGt   = []byte("&gt;")
	quot    = []byte(`"`)
	escQuot = []byte("&quot;")
)

func escapeText(s string) []byte {
	b := []byte(s)
	b = bytes.ReplaceAll(b, amp, escAmp)
	b = bytes.ReplaceAll(b, lt, escLt)
	b = bytes.ReplaceAll(b, gt, escGt)
	return b
}

func escapeAttr(s string) []byte {
	b := []byte(s)
	b = bytes.ReplaceAll(b, amp, escAmp)
	b = bytes.ReplaceAll(b, quot, escQuot)
	return b
}

func (w *Writer) inRawText() bool {
	if len(w.openTags) == 0 {
		return false
	}
	return rawTextElements[w.openTags[len(w.openTags)-1]]
}

func (w *Writer) writeOne(buf *bytes.Buffer, sig signal.Signal) {
	switch sig.Kind {
	case signal.SignalDoctype:
		buf.WriteString("<!DOCTYPE ")
		buf.WriteString(sig.Doctype.Name)
		buf.WriteString(">")
	case signal.SignalComment:
		buf.WriteString("<!--")
		buf.WriteString(sig.Text)
		buf.WriteString("-->")
	case signal.SignalText:
		w.writeText(buf, sig)
	case signal.SignalStartElement:
		w.writeStart(buf, sig)
	case signal.SignalEndElement:
		w.writeEnd(buf, sig)
	case signal.SignalPI:
		// HTML has no processing instructions; a PI signal reaching the
		// HTML writer (e.g. a document built programmatically, not parsed)
		// is rendered as a bogus comment the way the HTML tokenizer itself
		// would re-parse a "<?" token (HTML specification §12.2.5.1).
		buf.WriteString("<!--?")
		buf.WriteString(sig.PITarget)
		buf.WriteString(" ")
		buf.WriteString(sig.Text)
		buf.WriteString("-->")
	}
}

func (w *Writer) writeText(buf *bytes.Buffer, sig signal.Signal) {
	raw := w.inRawText()
	for _, run := range sig.Runs {
		if raw {
			buf.WriteString(run)
			continue
		}
		buf.Write(escapeText(run))
	}
}

func (w *Writer) writeStart(buf *bytes.Buffer, sig signal.Signal) {
	buf.WriteString("<")
	buf.WriteString(sig.QName.Local)
	for _, a := range sig.Attributes {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name.Local, escapeAttr(a.Value))
	}
	buf.WriteString(">")
	if !htmltree.VoidElements[sig.QName.Local] {
		w.openTags = append(w.openTags, sig.QName.Local)
	}
}

func (w *Writer) writeEnd(buf *bytes.Buffer, sig signal.Signal) {
	if htmltree.VoidElements[sig.QName.Local] {
		// Void elements have no end tag; an EndElement signal for one is
		// simply not rendered (spec.md §4.8 "void elements are emitted
		// without an end tag").
		return
	}
	if len(w.openTags) == 0 || w.openTags[len(w.openTags)-1] != sig.QName.Local {
		w.report(diag.New(sig.Loc, diag.BadDocument, "unbalanced end element "+sig.QName.Local))
		return
	}
	w.openTags = w.openTags[:len(w.openTags)-1]
	buf.WriteString("</")
	buf.WriteString(sig.QName.Local)
	buf.WriteString(">")
}
