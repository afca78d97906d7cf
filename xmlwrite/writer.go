// Package xmlwrite implements the XML writer of spec.md §4.8: renders a
// stream of Signal values back to XML text, maintaining a namespace-prefix
// stack and synthesizing `xmlns:nsN` prefixes for URIs that have no prefix
// already in scope.
//
// Grounded on the teacher's (ucarion-c14n) `c14n.go`: the element
// start/end rendering, the push-on-start/pop-on-end namespace-stack
// discipline, and the hand-rolled escaping (deliberately not
// `xml.EscapeText`, which doesn't implement this module's exact escaping
// rules either) are all carried over. Generalized from canonicalization's
// "only render namespaces actually visibly used, matching canonical rules
// exactly" to spec.md §4.8's simpler "declare whatever isn't already in
// scope," and from a single finite token sequence to an indefinite pull
// stream terminated by the writer's caller.
package xmlwrite

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/internal/sortattr"
	"github.com/ucarion/streamdoc/internal/stack"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

// Writer renders a Signal stream to XML text.
type Writer struct {
	report diag.Reporter
	// namespaceHint is the optional `namespace` configuration callback of
	// spec.md §6 ("callback URI->prefix"): consulted before synthesizing an
	// nsN prefix for a URI with no prefix already in scope.
	namespaceHint func(uri string) (prefix string, ok bool)

	ns       stack.Stack // prefix -> URI, one frame per open element
	synth    int         // counter for synthesized ns1, ns2, ... prefixes
	openTags []signal.Name
}

// New constructs a Writer. namespaceHint may be nil.
func New(report diag.Reporter, namespaceHint func(uri string) (string, bool)) *Writer {
	if report == nil {
		report = diag.Discard
	}
	return &Writer{report: report, namespaceHint: namespaceHint}
}

// Write drains signals and returns the rendered document.
func Write(signals *stream.Stream[signal.Signal], report diag.Reporter, namespaceHint func(uri string) (string, bool)) ([]byte, error) {
	w := New(report, namespaceHint)
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
	apos    = []byte("'")
	escApos = []byte("&apos;")
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
	b = bytes.ReplaceAll(b, lt, escLt)
	b = bytes.ReplaceAll(b, gt, escGt)
	b = bytes.ReplaceAll(b, quot, escQuot)
	b = bytes.ReplaceAll(b, apos, escApos)
	return b
}

func (w *Writer) writeOne(buf *bytes.Buffer, sig signal.Signal) {
	switch sig.Kind {
	case signal.SignalXMLDecl:
		fmt.Fprintf(buf, `<?xml version="%s"`, sig.XMLVersion)
		if sig.HasEncoding {
			fmt.Fprintf(buf, ` encoding="%s"`, sig.XMLEncoding)
		}
		if sig.HasStandalone {
			v := "no"
			if sig.XMLStandalone {
				v = "yes"
			}
			fmt.Fprintf(buf, ` standalone="%s"`, v)
		}
		buf.WriteString("?>")
	case signal.SignalDoctype:
		w.writeDoctype(buf, sig.Doctype)
	case signal.SignalPI:
		fmt.Fprintf(buf, "<?%s %s?>", sig.PITarget, sig.Text)
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
	}
}

func (w *Writer) writeDoctype(buf *bytes.Buffer, d signal.Doctype) {
	buf.WriteString("<!DOCTYPE ")
	buf.WriteString(d.Name)
	if d.HasPublicID {
		fmt.Fprintf(buf, ` PUBLIC "%s"`, d.PublicID)
		if d.HasSystemID {
			fmt.Fprintf(buf, ` "%s"`, d.SystemID)
		}
	} else if d.HasSystemID {
		fmt.Fprintf(buf, ` SYSTEM "%s"`, d.SystemID)
	}
	buf.WriteString(">")
}

func (w *Writer) writeText(buf *bytes.Buffer, sig signal.Signal) {
	for _, run := range sig.Runs {
		if sig.CDATA {
			buf.WriteString("<![CDATA[")
			buf.WriteString(run)
			buf.WriteString("]]>")
			continue
		}
		buf.Write(escapeText(run))
	}
}

// elemPrefixFor resolves uri to a prefix already visible anywhere in
// scope, preferring the default (empty) prefix; the empty string means
// "write unprefixed," which is only ever valid for an element, never for
// an attribute (XML Namespaces §5.2: the default namespace does not apply
// to attributes).
func (w *Writer) elemPrefixFor(uri string) (string, bool) {
	if uri == "" {
		return "", true
	}
	if uri == signal.NamespaceXML {
		return "xml", true
	}
	if w.ns.Get("") == uri {
		return "", true
	}
	best := ""
	for p, u := range w.ns.GetAll() {
		if p != "" && u == uri && (best == "" || p < best) {
			best = p
		}
	}
	return best, best != ""
}

// assignPrefix picks a prefix for a URI with nothing bound to it yet,
// preferring the caller-supplied namespaceHint (spec.md §6) and falling
// back to a synthesized nsN.
func (w *Writer) assignPrefix(uri string) string {
	if w.namespaceHint != nil {
		if p, ok := w.namespaceHint(uri); ok && p != "" {
			return p
		}
	}
	w.synth++
	return "ns" + strconv.Itoa(w.synth)
}

func (w *Writer) attrPrefixFor(uri string) (string, bool) {
	if uri == "" {
		return "", true
	}
	if uri == signal.NamespaceXML {
		return "xml", true
	}
	best := ""
	for p, u := range w.ns.GetAll() {
		if p != "" && u == uri && (best == "" || p < best) {
			best = p
		}
	}
	return best, best != ""
}

// writeStart pushes a namespace frame, assigns/synthesizes a prefix for
// the element's own namespace and every attribute's namespace not already
// in scope, then renders the tag (grounded on c14n.go's StartElement case,
// minus the canonical-subset "only if visibly used" filtering, since
// spec.md §4.8 asks only that missing bindings get declared, not that
// redundant ones get suppressed).
func (w *Writer) writeStart(buf *bytes.Buffer, sig signal.Signal) {
	declare := map[string]string{} // prefix -> URI, newly declared on this element

	elemPrefix, ok := w.elemPrefixFor(sig.QName.Space)
	if !ok {
		elemPrefix = w.assignPrefix(sig.QName.Space)
		declare[elemPrefix] = sig.QName.Space
	}

	// Sort by resolved namespace URI/local name (sortattr.SortAttr, adapted
	// from the teacher's c14n attribute order) before prefixes are assigned,
	// since the ordering is defined over resolved names, not rendered text.
	sorted := append([]signal.Attribute(nil), sig.Attributes...)
	sort.Sort(sortattr.SortAttr{Attrs: sorted})

	type rendered struct {
		local string
		value string
	}
	dataAttrs := make([]rendered, len(sorted))
	for i, a := range sorted {
		p, ok := w.attrPrefixFor(a.Name.Space)
		if !ok {
			p = w.assignPrefix(a.Name.Space)
			declare[p] = a.Name.Space
		}
		local := a.Name.Local
		if p != "" {
			local = p + ":" + local
		}
		dataAttrs[i] = rendered{local: local, value: a.Value}
	}

	w.ns.Push(declare)

	if elemPrefix == "" {
		fmt.Fprintf(buf, "<%s", sig.QName.Local)
	} else {
		fmt.Fprintf(buf, "<%s:%s", elemPrefix, sig.QName.Local)
	}

	var declPrefixes []string
	for p := range declare {
		declPrefixes = append(declPrefixes, p)
	}
	sort.Strings(declPrefixes)
	for _, p := range declPrefixes {
		if p == "" {
			fmt.Fprintf(buf, ` xmlns="%s"`, declare[p])
		} else {
			fmt.Fprintf(buf, ` xmlns:%s="%s"`, p, declare[p])
		}
	}

	for _, a := range dataAttrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.local, escapeAttr(a.value))
	}

	buf.WriteString(">")
	w.openTags = append(w.openTags, sig.QName)
}

func (w *Writer) writeEnd(buf *bytes.Buffer, sig signal.Signal) {
	if len(w.openTags) == 0 {
		w.report(diag.New(sig.Loc, diag.BadDocument, "end element with no matching open element"))
		return
	}
	top := w.openTags[len(w.openTags)-1]
	if top != sig.QName {
		w.report(diag.New(sig.Loc, diag.BadDocument, "unbalanced end element"))
		return
	}
	w.openTags = w.openTags[:len(w.openTags)-1]

	elemPrefix, _ := w.elemPrefixFor(sig.QName.Space)
	if elemPrefix == "" {
		fmt.Fprintf(buf, "</%s>", sig.QName.Local)
	} else {
		fmt.Fprintf(buf, "</%s:%s>", elemPrefix, sig.QName.Local)
	}
	w.ns.Pop()
}
