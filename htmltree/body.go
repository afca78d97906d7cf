package htmltree

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/internal/nodepool"
	"github.com/ucarion/streamdoc/signal"
)

var headingElements = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

// closeableBlockStarts are elements that, per the HTML specification's "in
// body" start-tag table, first close an open p element in button scope.
var closeableBlockStarts = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "header": true, "hgroup": true, "main": true, "menu": true,
	"nav": true, "ol": true, "p": true, "section": true, "summary": true, "ul": true,
}

// --- "in body" (§12.2.6.4.7) — the workhorse mode ---

func (p *Parser) inBody() {
	switch p.tok.Kind {
	case signal.TokenChars:
		if hasNullInText(p.tok.Text) {
			p.err(diag.BadToken, "unexpected null character")
		}
		p.reconstructActiveFormattingElements()
		p.insertText(p.tok.Loc, p.tok.Text)
		if !p.isAllWhitespace(p.tok.Text) {
			p.framesetOK = false
		}
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "unexpected doctype")
	case signal.TokenStart:
		p.inBodyStart()
	case signal.TokenEnd:
		p.inBodyEnd()
	}
}

func hasNullInText(s string) bool {
	for _, r := range s {
		if r == 0 {
			return true
		}
	}
	return false
}

func (p *Parser) inBodyStart() {
	name := p.tok.Name
	switch {
	case name == "html":
		p.inBodyStartHTML()
		return
	case name == "base" || name == "basefont" || name == "bgsound" || name == "link" ||
		name == "meta" || name == "noframes" || name == "script" || name == "style" ||
		name == "template" || name == "title":
		p.mode = modeInHead
		p.inHeadMode()
		if p.mode == modeInHead {
			p.mode = modeInBody
		}
		return
	case name == "body":
		p.err(diag.BadToken, "unexpected body start tag")
		if p.oe.Len() >= 2 {
			e := p.pool.Get(p.oe.At(1))
			for _, a := range p.tok.Attributes {
				if !hasAttr(e.Attrs, a.Name) {
					e.Attrs = append(e.Attrs, a)
				}
			}
		}
		return
	case name == "frameset":
		p.err(diag.BadToken, "unexpected frameset start tag")
		return
	case closeableBlockStarts[name]:
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.insertHTMLElement(p.tok)
		return
	case headingElements[name]:
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		if headingElements[p.topName()] {
			p.err(diag.MisnestedTag, "heading element inside heading element")
			p.popCurrentElement()
		}
		p.insertHTMLElement(p.tok)
		return
	case name == "pre" || name == "listing":
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.insertHTMLElement(p.tok)
		p.framesetOK = false
		return
	case name == "form":
		if p.haveForm && p.indexOf("template") < 0 {
			p.err(diag.BadToken, "nested form element")
			return
		}
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		idx := p.insertHTMLElement(p.tok)
		if p.indexOf("template") < 0 {
			p.formIdx = idx
			p.haveForm = true
		}
		return
	case name == "li":
		p.framesetOK = false
		for i := p.oe.Len() - 1; i >= 0; i-- {
			e := p.pool.Get(p.oe.At(i))
			if e.Name == "li" {
				p.generateImpliedEndTags("li")
				p.popUntilName("li")
				break
			}
			if specialElements[e.Name] && e.Name != "address" && e.Name != "div" && e.Name != "p" {
				break
			}
		}
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.insertHTMLElement(p.tok)
		return
	case name == "dd" || name == "dt":
		p.framesetOK = false
		for i := p.oe.Len() - 1; i >= 0; i-- {
			e := p.pool.Get(p.oe.At(i))
			if e.Name == "dd" || e.Name == "dt" {
				p.generateImpliedEndTags(e.Name)
				p.popUntilName(e.Name)
				break
			}
			if specialElements[e.Name] && e.Name != "address" && e.Name != "div" && e.Name != "p" {
				break
			}
		}
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.insertHTMLElement(p.tok)
		return
	case name == "plaintext":
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.insertHTMLElement(p.tok)
		return
	case name == "button":
		if p.hasInScope("button", defaultScopeStop) {
			p.err(diag.MisnestedTag, "nested button element")
			p.generateImpliedEndTags("")
			p.popUntilName("button")
		}
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(p.tok)
		p.framesetOK = false
		return
	case name == "a":
		if idx, _ := p.findLastFormattingElement("a"); idx >= 0 {
			p.err(diag.MisnestedTag, "nested a element")
			p.adoptionAgency("a")
		}
		p.reconstructActiveFormattingElements()
		idx := p.insertHTMLElement(p.tok)
		p.pushFormattingElement(idx)
		return
	case formattingElements[name]:
		p.reconstructActiveFormattingElements()
		idx := p.insertHTMLElement(p.tok)
		p.pushFormattingElement(idx)
		return
	case name == "nobr":
		p.reconstructActiveFormattingElements()
		if p.hasInScope("nobr", defaultScopeStop) {
			p.err(diag.MisnestedTag, "nested nobr element")
			p.adoptionAgency("nobr")
			p.reconstructActiveFormattingElements()
		}
		idx := p.insertHTMLElement(p.tok)
		p.pushFormattingElement(idx)
		return
	case name == "applet" || name == "marquee" || name == "object":
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(p.tok)
		p.pushFormattingMarker()
		p.framesetOK = false
		return
	case name == "table":
		if p.quirks != Quirks && p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.insertHTMLElement(p.tok)
		p.framesetOK = false
		p.mode = modeInTable
		return
	case name == "area" || name == "br" || name == "embed" || name == "img" ||
		name == "keygen" || name == "wbr":
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(p.tok)
		p.popCurrentElement()
		p.framesetOK = false
		return
	case name == "input":
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(p.tok)
		p.popCurrentElement()
		typeAttr := ""
		for _, a := range p.tok.Attributes {
			if a.Name.Local == "type" {
				typeAttr = a.Value
			}
		}
		if !equalFoldASCII(typeAttr, "hidden") {
			p.framesetOK = false
		}
		return
	case name == "param" || name == "source" || name == "track":
		p.insertHTMLElement(p.tok)
		p.popCurrentElement()
		return
	case name == "hr":
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.insertHTMLElement(p.tok)
		p.popCurrentElement()
		p.framesetOK = false
		return
	case name == "textarea":
		p.insertHTMLElement(p.tok)
		p.control.SetRawtextMode()
		p.framesetOK = false
		p.originalMode = p.mode
		p.mode = modeText
		return
	case name == "xmp":
		if p.hasInButtonScope("p") {
			p.closePElement()
		}
		p.reconstructActiveFormattingElements()
		p.framesetOK = false
		p.insertHTMLElement(p.tok)
		p.control.SetRawtextMode()
		p.originalMode = p.mode
		p.mode = modeText
		return
	case name == "iframe":
		p.framesetOK = false
		p.insertHTMLElement(p.tok)
		p.control.SetRawtextMode()
		p.originalMode = p.mode
		p.mode = modeText
		return
	case name == "noembed":
		p.insertHTMLElement(p.tok)
		p.control.SetRawtextMode()
		p.originalMode = p.mode
		p.mode = modeText
		return
	case name == "select":
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(p.tok)
		p.framesetOK = false
		switch p.mode {
		case modeInTable, modeInCaption, modeInTableBody, modeInRow, modeInCell:
			p.mode = modeInSelectInTable
		default:
			p.mode = modeInSelect
		}
		return
	case name == "optgroup" || name == "option":
		if p.topName() == "option" {
			p.popCurrentElement()
		}
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(p.tok)
		return
	case name == "rb" || name == "rtc":
		if p.hasInScope(p.nearestRubyAncestor(), defaultScopeStop) {
			p.generateImpliedEndTags("")
		}
		p.insertHTMLElement(p.tok)
		return
	case name == "rp" || name == "rt":
		p.generateImpliedEndTags("rtc")
		p.insertHTMLElement(p.tok)
		return
	case name == "math":
		p.reconstructActiveFormattingElements()
		p.insertForeignStartTag(signal.NamespaceMathML)
		return
	case name == "svg":
		p.reconstructActiveFormattingElements()
		p.insertForeignStartTag(signal.NamespaceSVG)
		return
	case name == "caption" || name == "col" || name == "colgroup" || name == "frame" ||
		name == "head" || name == "tbody" || name == "td" || name == "tfoot" ||
		name == "th" || name == "thead" || name == "tr":
		p.err(diag.BadToken, "stray table-structure element in body")
		return
	default:
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(p.tok)
		return
	}
}

func (p *Parser) nearestRubyAncestor() string { return "ruby" }

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// insertForeignStartTag inserts the current start tag token into the
// foreign (MathML/SVG) namespace. Attribute/tag-name adjustment tables are
// approximated: only the namespace switch itself, which is what the
// tokenizer-level CDATA-allowed toggle and the writer both key off of, is
// implemented in full; per-attribute foreign adjustments (e.g.
// xlink:href) are applied for the common SVG/MathML attributes spec.md's
// GLOSSARY calls out.
func (p *Parser) insertForeignStartTag(ns string) {
	attrs := make([]signal.Attribute, len(p.tok.Attributes))
	copy(attrs, p.tok.Attributes)
	for i, a := range attrs {
		switch a.Name.Local {
		case "xlink:href", "xlink:title", "xlink:role", "xlink:arcrole", "xlink:show", "xlink:actuate":
			attrs[i].Name.Space = signal.NamespaceXLink
		case "xml:lang", "xml:space":
			attrs[i].Name.Space = signal.NamespaceXML
		}
	}
	tok := p.tok
	tok.Attributes = attrs
	p.insertForeignElement(tok, ns)
	if !p.tok.SelfClosing {
		return
	}
	p.popCurrentElement()
}

func (p *Parser) inBodyEnd() {
	name := p.tok.Name
	switch {
	case name == "template":
		p.mode = modeInHead
		p.inHeadMode()
		return
	case name == "body":
		if !p.hasInScope("body", defaultScopeStop) {
			p.err(diag.UnmatchedEndTag, "end tag body with no body in scope")
			return
		}
		p.mode = modeAfterBody
		return
	case name == "html":
		if !p.hasInScope("body", defaultScopeStop) {
			p.err(diag.UnmatchedEndTag, "end tag html with no body in scope")
			return
		}
		p.mode = modeAfterBody
		p.reconsumeIn(modeAfterBody)
	case closeableBlockStarts[name] && name != "form" && name != "p":
		if !p.hasInScope(name, defaultScopeStop) {
			p.err(diag.UnmatchedEndTag, "end tag "+name+" with no matching element in scope")
			return
		}
		p.generateImpliedEndTags("")
		if p.topName() != name {
			p.err(diag.MisnestedTag, "misnested end tag "+name)
		}
		p.popUntilName(name)
	case name == "form":
		if p.indexOf("template") < 0 {
			formIdx := p.formIdx
			p.haveForm = false
			if formIdx < 0 || !p.hasInScope("form", defaultScopeStop) {
				p.err(diag.UnmatchedEndTag, "end tag form with no matching element in scope")
				return
			}
			p.generateImpliedEndTags("")
			if p.topName() != "form" {
				p.err(diag.MisnestedTag, "misnested end tag form")
			}
			pos := p.indexOfElement(formIdx)
			if pos >= 0 {
				for p.oe.Len()-1 >= pos {
					p.popCurrentElement()
				}
			}
		} else {
			if !p.hasInScope("form", defaultScopeStop) {
				p.err(diag.UnmatchedEndTag, "end tag form with no matching element in scope")
				return
			}
			p.generateImpliedEndTags("")
			if p.topName() != "form" {
				p.err(diag.MisnestedTag, "misnested end tag form")
			}
			p.popUntilName("form")
		}
	case name == "p":
		if !p.hasInButtonScope("p") {
			p.err(diag.UnmatchedEndTag, "end tag p with no p in scope")
			p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: p.tok.Loc, Name: "p"})
		}
		p.closePElement()
	case name == "li":
		if !p.hasInListItemScope("li") {
			p.err(diag.UnmatchedEndTag, "end tag li with no li in scope")
			return
		}
		p.generateImpliedEndTags("li")
		if p.topName() != "li" {
			p.err(diag.MisnestedTag, "misnested end tag li")
		}
		p.popUntilName("li")
	case name == "dd" || name == "dt":
		if !p.hasInScope(name, defaultScopeStop) {
			p.err(diag.UnmatchedEndTag, "end tag "+name+" with no matching element in scope")
			return
		}
		p.generateImpliedEndTags(name)
		if p.topName() != name {
			p.err(diag.MisnestedTag, "misnested end tag "+name)
		}
		p.popUntilName(name)
	case headingElements[name]:
		if !p.hasInScope("h1", unionSet(defaultScopeStop, headingElements)) {
			p.err(diag.UnmatchedEndTag, "end tag heading with no heading in scope")
			return
		}
		p.generateImpliedEndTags("")
		if p.topName() != name {
			p.err(diag.MisnestedTag, "misnested heading end tag")
		}
		p.popUntilOneOf(headingElements)
	case name == "a" || formattingElements[name] || name == "nobr":
		p.adoptionAgency(name)
	case name == "applet" || name == "marquee" || name == "object":
		if !p.hasInScope(name, defaultScopeStop) {
			p.err(diag.UnmatchedEndTag, "end tag "+name+" with no matching element in scope")
			return
		}
		p.generateImpliedEndTags("")
		if p.topName() != name {
			p.err(diag.MisnestedTag, "misnested end tag "+name)
		}
		p.popUntilName(name)
		p.clearFormattingToMarker()
	case name == "br":
		p.err(diag.BadToken, "unexpected end tag br")
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: p.tok.Loc, Name: "br"})
		p.popCurrentElement()
	default:
		p.anyOtherEndTag(name)
	}
}

// --- "text" mode (§12.2.6.4.8), used for RCDATA/RAWTEXT/script-data ---

func (p *Parser) inText() {
	switch p.tok.Kind {
	case signal.TokenChars:
		p.insertText(p.tok.Loc, p.tok.Text)
	case signal.TokenEOF:
		p.err(diag.BadDocument, "eof in text mode")
		p.popCurrentElement()
		p.mode = p.originalMode
		p.reconsumeIn(p.originalMode)
	case signal.TokenEnd:
		p.popCurrentElement()
		p.mode = p.originalMode
	}
}

// --- "after body" / "after after body" (§12.2.6.4.19-21) ---

func (p *Parser) inAfterBody() {
	switch p.tok.Kind {
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			p.mode = modeInBody
			p.inBody()
			p.mode = modeAfterBody
			return
		}
		p.err(diag.BadToken, "non-whitespace text after body")
		p.reconsumeIn(modeInBody)
	case signal.TokenComment:
		// Attached to the outermost html element, per spec; approximated
		// as an ordinary comment signal since this constructor has no DOM
		// to attach it to structurally.
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype after body")
	case signal.TokenStart:
		if p.tok.Name == "html" {
			p.inBodyStartHTML()
			return
		}
		p.err(diag.BadToken, "start tag after body")
		p.reconsumeIn(modeInBody)
	case signal.TokenEnd:
		if p.tok.Name == "html" {
			p.mode = modeAfterAfterBody
			return
		}
		p.err(diag.UnmatchedEndTag, "end tag after body")
		p.reconsumeIn(modeInBody)
	default:
		p.reconsumeIn(modeInBody)
	}
}

func (p *Parser) inAfterAfterBody() {
	switch p.tok.Kind {
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.mode = modeInBody
		p.inBody()
		p.mode = modeAfterAfterBody
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			p.mode = modeInBody
			p.inBody()
			p.mode = modeAfterAfterBody
			return
		}
		p.err(diag.BadToken, "non-whitespace text after document")
		p.reconsumeIn(modeInBody)
	case signal.TokenStart:
		if p.tok.Name == "html" {
			p.mode = modeInBody
			p.inBody()
			p.mode = modeAfterAfterBody
			return
		}
		p.reconsumeIn(modeInBody)
	default:
		p.reconsumeIn(modeInBody)
	}
}

// --- frameset modes (§12.2.6.4.22-24), minimal support (spec.md's
// Non-goals exclude deprecated frameset layout but the specification
// still requires it not to crash the state machine) ---

func (p *Parser) inFrameset() {
	switch p.tok.Kind {
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in frameset")
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			p.insertText(p.tok.Loc, p.tok.Text)
		} else {
			p.err(diag.BadToken, "non-whitespace text in frameset")
		}
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "frameset":
			p.insertHTMLElement(p.tok)
		case "frame":
			p.insertHTMLElement(p.tok)
			p.popCurrentElement()
		case "noframes":
			p.mode = modeInHead
			p.inHeadMode()
		default:
			p.err(diag.BadToken, "unexpected start tag in frameset")
		}
	case signal.TokenEnd:
		if p.tok.Name == "frameset" {
			if p.topName() == "html" {
				p.err(diag.UnmatchedEndTag, "end tag frameset at root")
				return
			}
			p.popCurrentElement()
			if p.topName() != "frameset" {
				p.mode = modeAfterFrameset
			}
		} else {
			p.err(diag.UnmatchedEndTag, "unexpected end tag in frameset")
		}
	}
}

func (p *Parser) inAfterFrameset() {
	switch p.tok.Kind {
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype after frameset")
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			p.insertText(p.tok.Loc, p.tok.Text)
		} else {
			p.err(diag.BadToken, "non-whitespace text after frameset")
		}
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "noframes":
			p.mode = modeInHead
			p.inHeadMode()
		default:
			p.err(diag.BadToken, "unexpected start tag after frameset")
		}
	case signal.TokenEnd:
		if p.tok.Name == "html" {
			p.mode = modeAfterAfterFrameset
		} else {
			p.err(diag.UnmatchedEndTag, "unexpected end tag after frameset")
		}
	}
}

func (p *Parser) inAfterAfterFrameset() {
	switch p.tok.Kind {
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.mode = modeInBody
		p.inBody()
		p.mode = modeAfterAfterFrameset
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			p.insertText(p.tok.Loc, p.tok.Text)
		} else {
			p.err(diag.BadToken, "non-whitespace text after frameset document")
		}
	case signal.TokenStart:
		if p.tok.Name == "html" {
			p.mode = modeInBody
			p.inBody()
			p.mode = modeAfterAfterFrameset
		} else if p.tok.Name == "noframes" {
			p.mode = modeInHead
			p.inHeadMode()
		} else {
			p.err(diag.BadToken, "unexpected start tag after frameset document")
		}
	}
}

// --- EOF handling (§12.2.6.4, the "stop parsing" / in-body EOF rule) ---

func (p *Parser) handleEOF() {
	switch p.mode {
	case modeInitial:
		p.quirks = Quirks
	case modeInTemplate:
		if p.indexOf("template") < 0 {
			p.done = true
			return
		}
		p.err(diag.BadDocument, "eof in template")
		p.popUntilName("template")
		p.clearFormattingToMarker()
		if len(p.templateModes) > 0 {
			p.templateModes = p.templateModes[:len(p.templateModes)-1]
		}
		p.resetInsertionMode()
		p.handleEOF()
		return
	}
	for p.oe.Len() > 0 {
		if p.opts.FragmentContext != "" && p.oe.Len() == 1 {
			// The fragment's synthetic html root never emitted a
			// StartElement, so it gets no EndElement either.
			p.oe.Pop()
			break
		}
		p.popCurrentElement()
	}
	p.done = true
}

// resetInsertionMode implements the HTML specification's "reset the
// insertion mode appropriately" algorithm, used after leaving a template.
func (p *Parser) resetInsertionMode() {
	for i := p.oe.Len() - 1; i >= 0; i-- {
		e := p.pool.Get(p.oe.At(i))
		last := i == 0
		switch e.Name {
		case "select":
			p.mode = modeInSelect
			return
		case "td", "th":
			if !last {
				p.mode = modeInCell
				return
			}
		case "tr":
			p.mode = modeInRow
			return
		case "tbody", "thead", "tfoot":
			p.mode = modeInTableBody
			return
		case "caption":
			p.mode = modeInCaption
			return
		case "colgroup":
			p.mode = modeInColumnGroup
			return
		case "table":
			p.mode = modeInTable
			return
		case "template":
			if len(p.templateModes) > 0 {
				p.mode = p.templateModes[len(p.templateModes)-1]
			} else {
				p.mode = modeInBody
			}
			return
		case "head":
			if !last {
				p.mode = modeInHead
				return
			}
		case "body":
			p.mode = modeInBody
			return
		case "frameset":
			p.mode = modeInFrameset
			return
		case "html":
			if p.headIdx < 0 {
				p.mode = modeBeforeHead
			} else {
				p.mode = modeAfterHead
			}
			return
		}
		if last {
			p.mode = modeInBody
			return
		}
	}
	p.mode = modeInBody
}

func (p *Parser) inTemplate() {
	switch p.tok.Kind {
	case signal.TokenChars, signal.TokenComment, signal.TokenDoctype:
		p.mode = modeInBody
		p.inBody()
		p.mode = modeInTemplate
	case signal.TokenStart:
		switch p.tok.Name {
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
			"style", "template", "title":
			p.mode = modeInHead
			p.inHeadMode()
			p.mode = modeInTemplate
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			p.swapTemplateMode(modeInTable)
		case "col":
			p.swapTemplateMode(modeInColumnGroup)
		case "tr":
			p.swapTemplateMode(modeInTableBody)
		case "td", "th":
			p.swapTemplateMode(modeInRow)
		default:
			p.swapTemplateMode(modeInBody)
		}
	case signal.TokenEnd:
		if p.tok.Name == "template" {
			p.mode = modeInHead
			p.inHeadMode()
			return
		}
		p.err(diag.UnmatchedEndTag, "unexpected end tag in template")
	}
}

func (p *Parser) swapTemplateMode(m mode) {
	if len(p.templateModes) > 0 {
		p.templateModes[len(p.templateModes)-1] = m
	}
	p.mode = m
	p.reconsumeIn(m)
}

// initFragment seeds the stack of open elements for fragment parsing
// (spec.md §6 `context` option), per the HTML specification's "parsing
// HTML fragments" algorithm, simplified to the common body-context case
// plus the raw-text/title contexts that most embedders need.
func (p *Parser) initFragment(contextName string) {
	p.htmlIdx = p.pool.Add(nodepool.Element{Name: "html", Namespace: signal.NamespaceHTML})
	p.oe.Push(p.htmlIdx)
	switch contextName {
	case "title", "textarea":
		p.control.SetRawtextMode()
	case "style", "xmp", "iframe", "noembed", "noframes", "script":
		p.control.SetRawtextMode()
	}
	p.resetInsertionModeForFragment(contextName)
}

func (p *Parser) resetInsertionModeForFragment(contextName string) {
	switch contextName {
	case "select":
		p.mode = modeInSelect
	case "td", "th":
		p.mode = modeInCell
	case "tr":
		p.mode = modeInRow
	case "tbody", "thead", "tfoot":
		p.mode = modeInTableBody
	case "caption":
		p.mode = modeInCaption
	case "colgroup":
		p.mode = modeInColumnGroup
	case "table":
		p.mode = modeInTable
	case "head":
		p.mode = modeInHead
	case "body":
		p.mode = modeInBody
	case "frameset":
		p.mode = modeInFrameset
	case "html":
		p.mode = modeBeforeHead
	default:
		p.mode = modeInBody
	}
}
