// Package sortattr orders a start tag's attributes for XML writer output:
// namespace declarations first (default namespace least, then other
// prefixes lexicographically), then data attributes ordered by namespace
// URI then local name.
//
// Adapted from the teacher's (ucarion-c14n) c14n-specific attribute sort,
// generalized from xml.Attr to signal.Attribute. The teacher resolved each
// attribute's namespace prefix to a URI via its stack.Stack before
// comparing, because its RawTokenReader input left Attr.Name.Space holding
// a raw prefix; here Signal.Attribute.Name.Space is already the resolved
// URI (this pipeline's parser does that resolution earlier), so the
// comparison reads it directly and the stack lookup drops out.
package sortattr

import "github.com/ucarion/streamdoc/signal"

// SortAttr sorts signal.Attribute values in the order XML writer output
// uses: namespace nodes before data attributes, then namespace URI then
// local name.
type SortAttr struct {
	Attrs []signal.Attribute
}

func (s SortAttr) Len() int { return len(s.Attrs) }

func (s SortAttr) Swap(i, j int) { s.Attrs[i], s.Attrs[j] = s.Attrs[j], s.Attrs[i] }

// Less implements the c14n document-order rules this is grounded on:
// namespace nodes sort before attribute nodes, the default namespace node
// sorts least among namespace nodes, and attribute nodes sort by namespace
// URI then local name.
func (s SortAttr) Less(i, j int) bool {
	ai, aj := s.Attrs[i], s.Attrs[j]

	isDefaultNS := func(a signal.Attribute) bool {
		return a.Name.Space == signal.NamespaceXMLNS && a.Name.Local == ""
	}
	isNS := func(a signal.Attribute) bool { return a.Name.Space == signal.NamespaceXMLNS }

	if isDefaultNS(ai) {
		return true
	}
	if isDefaultNS(aj) {
		return false
	}
	if isNS(ai) && !isNS(aj) {
		return true
	}
	if !isNS(ai) && isNS(aj) {
		return false
	}
	if isNS(ai) && isNS(aj) {
		return ai.Name.Local < aj.Name.Local
	}

	if ai.Name.Space != aj.Name.Space {
		return ai.Name.Space < aj.Name.Space
	}
	return ai.Name.Local < aj.Name.Local
}
