package htmltree

import "github.com/ucarion/streamdoc/signal"

// fosterParentingActive reports whether the current insertion point needs
// foster parenting: the current node is a table/tbody/tfoot/thead/tr
// (HTML specification §12.2.6.1 "foster parenting"). This keys off the
// current node alone, not the insertion mode: several insertion modes
// (inTableText's non-whitespace flush, inTable's "anything else" branch)
// temporarily swap p.mode to modeInBody and reuse body-mode's character/
// element handling while the current node is still a table-context
// element, and foster parenting must still apply in that detour.
func (p *Parser) fosterParentingActive() bool {
	return isFosterParentingTrigger(p.topName())
}

func isFosterParentingTrigger(name string) bool {
	switch name {
	case "table", "tbody", "tfoot", "thead", "tr":
		return true
	}
	return false
}

// fosterText and fosterNode relocate the text/element to immediately
// before the nearest enclosing table, per the foster-parenting algorithm.
// A table's own StartElement signal is withheld by insertHTMLElement
// until something proves it must be emitted (see Parser.emit); fosterText
// and fosterNode bypass that flush with emitRaw, so the fostered signal
// lands in the stream ahead of the table it's being parented out of,
// rather than inside it.
func (p *Parser) fosterText(loc signal.Location, text string) {
	p.emitRaw(signal.Text(loc, text))
}

func (p *Parser) fosterNode(poolIdx int) {
	e := p.pool.Get(poolIdx)
	p.emitRaw(signal.StartElement(e.Loc, signal.Name{Space: e.Namespace, Local: e.Name}, e.Attrs))
}
