// Package signal defines the data model shared by every stage of the
// streamdoc pipeline: the Location attached to tokens and signals, the
// Name/Attribute pair used for both HTML and XML elements, and the Token
// and Signal discriminated unions themselves.
package signal

// Location is a 1-based (line, column) position, attached to every token
// and signal so diagnostics can point at source.
type Location struct {
	Line   int
	Column int
}

// Before reports whether l sorts strictly before other in document order.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Name is a (namespace-URI, local-name) pair. The namespace is empty for
// unqualified XML names and for the HTML namespace is one of the constants
// below.
type Name struct {
	Space string
	Local string
}

// The six HTML-relevant namespace URIs, inferred by the tree constructor
// (spec.md §3 "Name").
const (
	NamespaceHTML  = "http://www.w3.org/1999/xhtml"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
	NamespaceSVG   = "http://www.w3.org/2000/svg"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
	NamespaceXML   = "http://www.w3.org/XML/1998/namespace"
	NamespaceXMLNS = "http://www.w3.org/2000/xmlns/"
)

// Attribute is a (name, value, explicit-or-injected) triple. Injected
// marks an attribute synthesized by a stage rather than present verbatim
// in the source; no stage in this module sets it (the foreign-content
// xlink:/xml: adjustment only assigns a namespace and leaves it false).
type Attribute struct {
	Name     Name
	Value    string
	Injected bool
}

// Doctype carries the parsed DOCTYPE fields common to both the HTML token
// stream and the XML token stream.
type Doctype struct {
	Name        string
	PublicID    string
	HasPublicID bool
	SystemID    string
	HasSystemID bool
	ForceQuirks bool
}

// TokenKind discriminates the Token union.
type TokenKind int

const (
	TokenDoctype TokenKind = iota
	TokenStart
	TokenEnd
	TokenChars
	TokenComment
	TokenPI
	TokenEOF
)

// Token is the tokenizer's output (spec.md §3 "Token").
type Token struct {
	Kind       TokenKind
	Loc        Location
	Doctype    Doctype
	Name       string
	Attributes []Attribute
	SelfClosing bool
	Text       string
	PITarget   string
	// CDATA marks a TokenChars run that came from a CDATA section, so the
	// parser can propagate Signal.CDATA (spec.md §4.8).
	CDATA bool
}

// SignalKind discriminates the Signal union.
type SignalKind int

const (
	SignalStartElement SignalKind = iota
	SignalEndElement
	SignalText
	SignalComment
	SignalPI
	SignalDoctype
	SignalXMLDecl
)

// Signal is the parser's output and the writer's input (spec.md §3
// "Signal").
type Signal struct {
	Kind       SignalKind
	Loc        Location
	QName      Name
	Attributes []Attribute

	// Text holds one or more runs for SignalText, concatenation-free.
	Runs []string

	// Comment / PI
	Text     string
	PITarget string

	// Doctype
	Doctype Doctype

	// XmlDecl
	XMLVersion    string
	XMLEncoding   string
	HasEncoding   bool
	XMLStandalone bool
	HasStandalone bool

	// CDATA requests CDATA-section emission from the XML writer for a
	// SignalText signal (spec.md §4.8 "CDATA sections are emitted only
	// when the source signal explicitly requests them").
	CDATA bool
}

// Text builds a SignalText signal from one or more runs.
func Text(loc Location, runs ...string) Signal {
	return Signal{Kind: SignalText, Loc: loc, Runs: runs}
}

// StartElement builds a SignalStartElement signal.
func StartElement(loc Location, name Name, attrs []Attribute) Signal {
	return Signal{Kind: SignalStartElement, Loc: loc, QName: name, Attributes: attrs}
}

// EndElement builds a SignalEndElement signal.
func EndElement(loc Location, name Name) Signal {
	return Signal{Kind: SignalEndElement, Loc: loc, QName: name}
}
