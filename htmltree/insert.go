package htmltree

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/internal/nodepool"
	"github.com/ucarion/streamdoc/signal"
)

// insertHTMLElement pushes a new element for tok onto the stack of open
// elements and emits its StartElement signal, per the HTML specification's
// "insert an HTML element" algorithm (spec.md §4.6).
//
// A table element's own StartElement is withheld rather than emitted
// immediately: it is only proven to belong in the stream once something
// else forces it out (via emit), which gives anything foster-parented in
// the meantime (fosterText, fosterNode) a chance to land ahead of it via
// emitRaw, per the HTML specification §12.2.6.1.
func (p *Parser) insertHTMLElement(tok signal.Token) int {
	idx := p.pool.Add(nodepool.Element{
		Name:      tok.Name,
		Namespace: signal.NamespaceHTML,
		Attrs:     tok.Attributes,
		Loc:       tok.Loc,
	})
	p.oe.Push(idx)
	sig := signal.StartElement(tok.Loc, htmlName(tok.Name), tok.Attributes)
	if tok.Name == "table" {
		p.flushPendingTableStarts()
		p.pendingTableStarts = append(p.pendingTableStarts, sig)
	} else {
		p.emit(sig)
	}
	return idx
}

func (p *Parser) insertForeignElement(tok signal.Token, ns string) int {
	idx := p.pool.Add(nodepool.Element{
		Name:      tok.Name,
		Namespace: ns,
		Attrs:     tok.Attributes,
		Loc:       tok.Loc,
	})
	p.oe.Push(idx)
	p.emit(signal.StartElement(tok.Loc, signal.Name{Space: ns, Local: tok.Name}, tok.Attributes))
	return idx
}

func (p *Parser) insertText(loc signal.Location, text string) {
	if text == "" {
		return
	}
	if p.fosterParentingActive() {
		p.fosterText(loc, text)
		return
	}
	p.emit(signal.Text(loc, text))
}

func (p *Parser) insertComment(loc signal.Location, text string) {
	p.emit(signal.Signal{Kind: signal.SignalComment, Loc: loc, Text: text})
}

// popCurrentElement pops the stack of open elements, emitting the matching
// EndElement signal.
func (p *Parser) popCurrentElement() {
	e := p.top()
	idx := p.oe.Pop()
	_ = idx
	p.emit(signal.EndElement(e.Loc, signal.Name{Space: e.Namespace, Local: e.Name}))
}

// popUntilName pops elements (emitting EndElement for each) until one named
// name is popped, inclusive. The name is matched in any namespace.
func (p *Parser) popUntilName(name string) {
	for p.oe.Len() > 0 {
		e := p.top()
		match := e.Name == name
		p.popCurrentElement()
		if match {
			return
		}
	}
}

// popUntilOneOf pops until the top element's name is in names, inclusive.
func (p *Parser) popUntilOneOf(names map[string]bool) {
	for p.oe.Len() > 0 {
		e := p.top()
		match := names[e.Name]
		p.popCurrentElement()
		if match {
			return
		}
	}
}

// generateImpliedEndTags pops elements in impliedEndTags, skipping except
// when its name equals exclude.
func (p *Parser) generateImpliedEndTags(exclude string) {
	for p.oe.Len() > 0 {
		name := p.topName()
		if name == exclude || !impliedEndTags[name] {
			return
		}
		p.popCurrentElement()
	}
}

// hasInScope reports whether name is in the given scope, per the HTML
// specification's generic "has an element in the specific scope" algorithm.
func (p *Parser) hasInScope(name string, stop map[string]bool) bool {
	for i := p.oe.Len() - 1; i >= 0; i-- {
		e := p.pool.Get(p.oe.At(i))
		if e.Namespace == signal.NamespaceHTML && e.Name == name {
			return true
		}
		if e.Namespace == signal.NamespaceHTML && stop[e.Name] {
			return false
		}
	}
	return false
}

func (p *Parser) hasInButtonScope(name string) bool { return p.hasInScope(name, buttonScopeStop) }
func (p *Parser) hasInListItemScope(name string) bool {
	return p.hasInScope(name, listItemScopeStop)
}
func (p *Parser) hasInTableScope(name string) bool { return p.hasInScope(name, tableScopeStop) }

// indexOf returns the stack position of the topmost open element named
// name (in any namespace), or -1 if there is none. Unlike hasInScope it
// does not stop at scope boundaries.
func (p *Parser) indexOf(name string) int {
	for i := p.oe.Len() - 1; i >= 0; i-- {
		if p.pool.Get(p.oe.At(i)).Name == name {
			return i
		}
	}
	return -1
}

func (p *Parser) indexOfElement(target int) int {
	for i := 0; i < p.oe.Len(); i++ {
		if p.oe.At(i) == target {
			return i
		}
	}
	return -1
}

// closePElement implements "close a p element": generate implied end tags
// except for p, then pop until a p has been popped.
func (p *Parser) closePElement() {
	p.generateImpliedEndTags("p")
	if p.topName() != "p" {
		p.err(diag.MisnestedTag, "p element not at top of stack at close")
	}
	p.popUntilName("p")
}
