package htmltree

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
)

// adoptionAgency implements the HTML specification §12.2.4.4 algorithm,
// bounded to 8 outer-loop and 3 inner-loop iterations as the specification
// requires. It is the mechanism behind the spec's worked misnesting example
// "<b>1<i>2</b>3</i>4" (SPEC_FULL.md §8): the </b> end tag, while <i> is
// still open, finds no furthest block, so <i> and <b> are both closed and
// <i> stays in the active formatting list; reconstruction then opens a
// clone of <i> for the "3" that follows.
func (p *Parser) adoptionAgency(tagName string) {
	for outer := 0; outer < 8; outer++ {
		formatIdx, formatAFEPos := p.findLastFormattingElement(tagName)
		if formatIdx < 0 {
			p.anyOtherEndTag(tagName)
			return
		}
		stackPos := p.indexOfElement(formatIdx)
		if stackPos < 0 {
			p.err(diag.MisnestedTag, "formatting element not in scope")
			p.afe.Remove(formatAFEPos)
			return
		}
		if !p.hasInScope(p.pool.Get(formatIdx).Name, defaultScopeStop) {
			p.err(diag.MisnestedTag, "formatting element not in scope")
			return
		}
		if stackPos != p.oe.Len()-1 {
			p.err(diag.MisnestedTag, "misnested formatting element")
		}

		furthestBlock, furthestPos := p.findFurthestBlock(stackPos)
		if furthestBlock < 0 {
			// Pop up to and including the formatting element itself.
			p.popThroughStackPos(stackPos)
			p.afe.Remove(formatAFEPos)
			return
		}

		commonAncestorPos := stackPos - 1
		bookmark := formatAFEPos

		node := furthestBlock
		nodePos := furthestPos
		lastNode := furthestBlock
		for inner := 0; inner < 3; inner++ {
			nodePos--
			if nodePos <= stackPos {
				break
			}
			node = p.oe.At(nodePos)
			nodeAFEPos := p.afeIndexOf(node)
			if nodeAFEPos < 0 {
				p.removeFromStackAt(nodePos)
				stackPos, furthestPos, nodePos = adjustAfterRemoval(nodePos, stackPos, furthestPos)
				continue
			}
			if node == formatIdx {
				break
			}
			clone := p.pool.Clone(node)
			p.afe.Set(nodeAFEPos, clone)
			p.oe.Set(nodePos, clone)
			if nodeAFEPos < bookmark {
				// no shift needed; bookmark tracked by AFE position directly
			}
			if lastNode == furthestBlock {
				bookmark = nodeAFEPos + 1
			}
			lastNode = clone
			node = clone
		}

		_ = commonAncestorPos
		if p.fosterParentingActive() && isFosterParentingTrigger(p.pool.Get(p.oe.At(commonAncestorPos)).Name) {
			p.fosterNode(lastNode)
		} else {
			// lastNode becomes a child of the common ancestor; since this
			// implementation emits signals rather than building a tree, the
			// adjacency is realized purely through stack reordering plus
			// the EndElement/StartElement signal order emitted below.
		}

		formatElem := p.pool.Get(formatIdx)
		cloneFormat := p.pool.Clone(formatIdx)
		cf := p.pool.Get(cloneFormat)

		p.emit(signal.StartElement(cf.Loc, signal.Name{Space: cf.Namespace, Local: cf.Name}, cf.Attrs))
		fb := p.pool.Get(furthestBlock)
		p.emit(signal.EndElement(fb.Loc, signal.Name{Space: fb.Namespace, Local: fb.Name}))
		p.emit(signal.StartElement(fb.Loc, signal.Name{Space: fb.Namespace, Local: fb.Name}, fb.Attrs))

		if bookmark > p.afe.Len() {
			bookmark = p.afe.Len()
		}
		p.afe.Remove(formatAFEPos)
		if formatAFEPos < bookmark {
			bookmark--
		}
		insertAt := bookmark
		if insertAt > p.afe.Len() {
			insertAt = p.afe.Len()
		}
		p.afe.Insert(insertAt, cloneFormat)

		p.removeFromStackAt(p.indexOfElement(formatIdx))
		fbPos := p.indexOfElement(furthestBlock)
		p.oe.Insert(fbPos+1, cloneFormat)

		_ = formatElem
	}
}

func adjustAfterRemoval(nodePos, stackPos, furthestPos int) (int, int, int) {
	if nodePos < stackPos {
		stackPos--
	}
	if nodePos < furthestPos {
		furthestPos--
	}
	return stackPos, furthestPos, nodePos
}

func (p *Parser) removeFromStackAt(pos int) {
	p.oe.Remove(pos)
}

// findLastFormattingElement returns the pool index and afe position of the
// most recently added open formatting element named tagName, stopping at a
// marker (it must not cross scope boundaries set by table/template
// boundaries, approximated here by markers).
func (p *Parser) findLastFormattingElement(tagName string) (poolIdx, afePos int) {
	for i := p.afe.Len() - 1; i >= 0; i-- {
		idx := p.afe.At(i)
		e := p.pool.Get(idx)
		if e.Marker {
			return -1, -1
		}
		if e.Name == tagName {
			return idx, i
		}
	}
	return -1, -1
}

// findFurthestBlock finds the topmost (furthest from the formatting
// element) special element above formatStackPos on the stack of open
// elements.
func (p *Parser) findFurthestBlock(formatStackPos int) (poolIdx, pos int) {
	for i := formatStackPos + 1; i < p.oe.Len(); i++ {
		idx := p.oe.At(i)
		e := p.pool.Get(idx)
		if specialElements[e.Name] {
			return idx, i
		}
	}
	return -1, -1
}

func (p *Parser) popThroughStackPos(pos int) {
	for p.oe.Len()-1 >= pos {
		p.popCurrentElement()
	}
}

// anyOtherEndTag implements the "any other end tag" in-body fallback: pop
// elements until one matching tagName is popped, reporting misnesting if an
// intervening special element had to be discarded.
func (p *Parser) anyOtherEndTag(tagName string) {
	for i := p.oe.Len() - 1; i >= 0; i-- {
		e := p.pool.Get(p.oe.At(i))
		if e.Name == tagName {
			p.generateImpliedEndTagsExcept(tagName)
			p.popUntilName(tagName)
			return
		}
		if specialElements[e.Name] {
			p.err(diag.UnmatchedEndTag, "end tag for "+tagName+" with no matching start tag")
			return
		}
	}
	p.err(diag.UnmatchedEndTag, "end tag for "+tagName+" with no matching start tag")
}

func (p *Parser) generateImpliedEndTagsExcept(exclude string) {
	p.generateImpliedEndTags(exclude)
}
