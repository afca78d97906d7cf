package xmlparse

import (
	"strings"

	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

// openElement is one entry of the stack of open elements: the raw
// qualified name as written (for matching end tags against the source
// text) and the resolved Name emitted on EndElement.
type openElement struct {
	qname string
	name  signal.Name
	loc   signal.Location
}

// Parser is the XML well-formedness checker, namespace resolver, and
// error-recovering tree builder of spec.md §4.7. Grounded on
// antchfx-xmlquery's parse.go for the overall "pull a token, maintain a
// stack of open elements, emit tree events" shape, generalized from
// `encoding/xml`'s fatal-on-malformed-input behavior to spec.md §7's
// "never aborts" recovery contract.
type Parser struct {
	tokens *stream.Stream[signal.Token]
	report diag.Reporter

	ns    *nsStack
	stack []openElement

	sawDecl    bool
	sawDoctype bool
	rootCount  int
	afterRoot  bool

	emitted []signal.Signal
	done    bool
}

// NewParser constructs a Parser reading tokens from tokens.
func NewParser(tokens *stream.Stream[signal.Token], report diag.Reporter) *Parser {
	if report == nil {
		report = diag.Discard
	}
	return &Parser{tokens: tokens, report: report, ns: newNSStack()}
}

// Signals exposes the parser as a pull stream of Signal.
func (p *Parser) Signals() *stream.Stream[signal.Signal] {
	return stream.FromFunc(func(onErr stream.OnError, onEnd stream.OnEnd, onVal stream.OnValue[signal.Signal]) {
		for len(p.emitted) == 0 {
			if p.done {
				onEnd()
				return
			}
			if err := p.stepOnce(); err != nil {
				onErr(err)
				return
			}
		}
		sig := p.emitted[0]
		p.emitted = p.emitted[1:]
		onVal(sig)
	})
}

func (p *Parser) emit(sig signal.Signal) { p.emitted = append(p.emitted, sig) }

func (p *Parser) err(loc signal.Location, kind diag.Kind, msg string) {
	p.report(diag.New(loc, kind, msg))
}

func (p *Parser) stepOnce() error {
	var tok signal.Token
	var rerr error
	var ended bool
	p.tokens.Advance(
		func(e error) { rerr = e },
		func() { ended = true },
		func(v signal.Token) { tok = v },
	)
	if rerr != nil {
		return rerr
	}
	if ended || tok.Kind == signal.TokenEOF {
		p.handleEOF(tok.Loc)
		return nil
	}

	switch tok.Kind {
	case signal.TokenPI:
		p.handlePI(tok)
	case signal.TokenDoctype:
		p.handleDoctype(tok)
	case signal.TokenComment:
		p.emit(signal.Signal{Kind: signal.SignalComment, Loc: tok.Loc, Text: tok.Text})
	case signal.TokenChars:
		p.handleChars(tok)
	case signal.TokenStart:
		p.handleStart(tok)
	case signal.TokenEnd:
		p.handleEnd(tok)
	}
	return nil
}

func (p *Parser) handleEOF(loc signal.Location) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		e := p.stack[i]
		p.err(loc, diag.BadDocument, "unclosed element <"+e.qname+">")
		p.emit(signal.EndElement(loc, e.name))
	}
	p.stack = nil
	if p.rootCount == 0 {
		p.err(loc, diag.BadDocument, "document has no root element")
	}
	p.done = true
}

// handlePI reinterprets a target of exactly "xml", at the very start of
// the document, as the XML declaration (spec.md §4.8 XmlDecl); any other
// PI (including a later, non-conforming "<?xml ... ?>") is emitted as an
// ordinary SignalPI.
func (p *Parser) handlePI(tok signal.Token) {
	if tok.PITarget == "xml" && !p.sawDecl && len(p.stack) == 0 && p.rootCount == 0 {
		p.sawDecl = true
		sig := signal.Signal{Kind: signal.SignalXMLDecl, Loc: tok.Loc, XMLVersion: "1.0"}
		attrs := parsePseudoAttrs(tok.Text)
		if v, ok := attrs["version"]; ok {
			sig.XMLVersion = v
		}
		if v, ok := attrs["encoding"]; ok {
			sig.XMLEncoding = v
			sig.HasEncoding = true
		}
		if v, ok := attrs["standalone"]; ok {
			sig.HasStandalone = true
			sig.XMLStandalone = v == "yes"
		}
		p.emit(sig)
		return
	}
	if tok.PITarget == "xml" {
		p.err(tok.Loc, diag.BadToken, "xml declaration must be the first thing in the document")
	}
	p.emit(signal.Signal{Kind: signal.SignalPI, Loc: tok.Loc, PITarget: tok.PITarget, Text: tok.Text})
}

// parsePseudoAttrs parses the pseudo-attribute list of an XML declaration
// (version="1.0" encoding="UTF-8" standalone="yes"), which is not regular
// XML attribute syntax but is conventionally formatted the same way.
func parsePseudoAttrs(s string) map[string]string {
	out := map[string]string{}
	i := 0
	n := len(s)
	for i < n {
		for i < n && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
			i++
		}
		start := i
		for i < n && s[i] != '=' && s[i] != ' ' {
			i++
		}
		name := s[start:i]
		for i < n && (s[i] == ' ' || s[i] == '=') {
			i++
		}
		if i >= n || (s[i] != '"' && s[i] != '\'') {
			break
		}
		q := s[i]
		i++
		vstart := i
		for i < n && s[i] != q {
			i++
		}
		if name != "" {
			out[name] = s[vstart:i]
		}
		if i < n {
			i++
		}
	}
	return out
}

func (p *Parser) handleDoctype(tok signal.Token) {
	if p.sawDoctype {
		p.err(tok.Loc, diag.BadDocument, "multiple doctype declarations")
	}
	if len(p.stack) > 0 || p.rootCount > 0 {
		p.err(tok.Loc, diag.BadDocument, "doctype must precede the root element")
	}
	p.sawDoctype = true
	p.emit(signal.Signal{Kind: signal.SignalDoctype, Loc: tok.Loc, Doctype: tok.Doctype})
}

func (p *Parser) handleChars(tok signal.Token) {
	if len(p.stack) == 0 {
		if strings.TrimFunc(tok.Text, isXMLSpace) != "" {
			p.err(tok.Loc, diag.BadDocument, "character data outside the root element")
		}
		return
	}
	p.emit(signal.Signal{Kind: signal.SignalText, Loc: tok.Loc, Runs: []string{tok.Text}, CDATA: tok.CDATA})
}

func splitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// resolveStart declares any xmlns/xmlns:prefix attributes into a freshly
// pushed namespace frame, then resolves every attribute and the element
// name itself against it. Unprefixed attribute names are never subject to
// the default namespace (XML Namespaces §5.2: "the default namespace does
// not apply to attribute names").
func (p *Parser) resolveStart(tok signal.Token) (signal.Name, []signal.Attribute) {
	p.ns.push()
	for _, a := range tok.Attributes {
		prefix, local := splitQName(a.Name.Local)
		if prefix == "xmlns" {
			p.ns.declare(local, a.Value)
		} else if prefix == "" && a.Name.Local == "xmlns" {
			p.ns.declareDefault(a.Value)
		}
	}

	elemPrefix, elemLocal := splitQName(tok.Name)
	var elemName signal.Name
	if elemPrefix == "" {
		elemName = signal.Name{Space: p.ns.resolveDefault(), Local: elemLocal}
	} else if uri, ok := p.ns.resolve(elemPrefix); ok {
		elemName = signal.Name{Space: uri, Local: elemLocal}
	} else {
		p.err(tok.Loc, diag.BadNamespace, "undeclared namespace prefix "+elemPrefix)
		elemName = signal.Name{Local: tok.Name}
	}

	attrs := make([]signal.Attribute, 0, len(tok.Attributes))
	for _, a := range tok.Attributes {
		prefix, local := splitQName(a.Name.Local)
		if prefix == "xmlns" || (prefix == "" && a.Name.Local == "xmlns") {
			continue // namespace declarations are bookkeeping, not data attributes
		}
		if prefix == "" {
			attrs = append(attrs, signal.Attribute{Name: signal.Name{Local: local}, Value: a.Value})
			continue
		}
		uri, ok := p.ns.resolve(prefix)
		if !ok {
			p.err(tok.Loc, diag.BadNamespace, "undeclared namespace prefix "+prefix)
			attrs = append(attrs, signal.Attribute{Name: signal.Name{Local: a.Name.Local}, Value: a.Value})
			continue
		}
		attrs = append(attrs, signal.Attribute{Name: signal.Name{Space: uri, Local: local}, Value: a.Value})
	}
	return elemName, attrs
}

func (p *Parser) handleStart(tok signal.Token) {
	if len(p.stack) == 0 {
		p.rootCount++
		if p.rootCount > 1 {
			p.err(tok.Loc, diag.BadDocument, "multiple root elements")
		}
	}

	name, attrs := p.resolveStart(tok)
	p.emit(signal.StartElement(tok.Loc, name, attrs))

	if tok.SelfClosing {
		p.emit(signal.EndElement(tok.Loc, name))
		p.ns.pop()
		if len(p.stack) == 0 {
			p.afterRoot = true
		}
		return
	}

	p.stack = append(p.stack, openElement{qname: tok.Name, name: name, loc: tok.Loc})
}

// handleEnd matches an end tag against the stack of open elements,
// recovering from a mismatch by closing every element above the matching
// one (spec.md §8's worked example: "<a><b></a>" recovers as
// "Start a, Start b, End b, End a" with a single unmatched-end-tag
// diagnostic at the </a>).
func (p *Parser) handleEnd(tok signal.Token) {
	found := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].qname == tok.Name {
			found = i
			break
		}
	}
	if found < 0 {
		p.err(tok.Loc, diag.UnmatchedEndTag, "end tag </"+tok.Name+"> has no matching start tag")
		return
	}
	if found != len(p.stack)-1 {
		p.err(tok.Loc, diag.UnmatchedEndTag, "end tag </"+tok.Name+"> does not match innermost open element <"+p.stack[len(p.stack)-1].qname+">")
	}
	for i := len(p.stack) - 1; i >= found; i-- {
		e := p.stack[i]
		p.emit(signal.EndElement(tok.Loc, e.name))
		p.ns.pop()
	}
	p.stack = p.stack[:found]
	if len(p.stack) == 0 {
		p.afterRoot = true
	}
}
