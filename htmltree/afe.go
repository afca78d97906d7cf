package htmltree

import (
	"github.com/ucarion/streamdoc/internal/nodepool"
	"github.com/ucarion/streamdoc/signal"
)

// pushFormattingElement appends idx to the active-formatting-elements list,
// applying the Noah's Ark clause: if three elements already on the list
// since the last marker have the same tag name, namespace, and attributes,
// the earliest is removed (HTML specification §12.2.3.3).
func (p *Parser) pushFormattingElement(idx int) {
	target := p.pool.Get(idx)
	matches := 0
	firstMatch := -1
	for i := p.afe.Len() - 1; i >= 0; i-- {
		e := p.pool.Get(p.afe.At(i))
		if e.Marker {
			break
		}
		if sameFormattingElement(e, target) {
			matches++
			firstMatch = i
		}
	}
	if matches >= 3 {
		p.afe.Remove(firstMatch)
	}
	p.afe.Push(idx)
}

func sameFormattingElement(a, b *nodepool.Element) bool {
	if a.Name != b.Name || a.Namespace != b.Namespace || len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for _, av := range a.Attrs {
		found := false
		for _, bv := range b.Attrs {
			if av.Name == bv.Name && av.Value == bv.Value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (p *Parser) pushFormattingMarker() {
	idx := p.pool.Add(nodepool.Element{Marker: true})
	p.afe.Push(idx)
}

func (p *Parser) clearFormattingToMarker() {
	for p.afe.Len() > 0 {
		idx := p.afe.Pop()
		if p.pool.Get(idx).Marker {
			return
		}
	}
}

// reconstructActiveFormattingElements re-opens formatting elements whose
// start tags are recorded in afe but were implicitly closed by an
// intervening table/foster-parenting detour (HTML specification §12.2.4.3).
func (p *Parser) reconstructActiveFormattingElements() {
	if p.afe.Len() == 0 {
		return
	}
	last := p.afe.Top()
	le := p.pool.Get(last)
	if le.Marker || p.onStack(last) {
		return
	}
	i := p.afe.Len() - 1
	for {
		if i == 0 {
			break
		}
		i--
		idx := p.afe.At(i)
		e := p.pool.Get(idx)
		if e.Marker || p.onStack(idx) {
			i++
			break
		}
	}
	for ; i < p.afe.Len(); i++ {
		idx := p.afe.At(i)
		e := p.pool.Get(idx)
		clone := p.pool.Clone(idx)
		p.oe.Push(clone)
		p.afe.Set(i, clone)
		p.emit(signal.StartElement(e.Loc, signal.Name{Space: e.Namespace, Local: e.Name}, p.pool.Get(clone).Attrs))
	}
}

func (p *Parser) onStack(poolIdx int) bool {
	for i := 0; i < p.oe.Len(); i++ {
		if p.oe.At(i) == poolIdx {
			return true
		}
	}
	return false
}

func (p *Parser) afeIndexOf(poolIdx int) int {
	for i := 0; i < p.afe.Len(); i++ {
		if p.afe.At(i) == poolIdx {
			return i
		}
	}
	return -1
}
