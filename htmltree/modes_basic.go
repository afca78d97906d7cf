package htmltree

import (
	"strings"

	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
)

func (p *Parser) isAllWhitespace(s string) bool {
	return strings.TrimFunc(s, isHTMLSpace) == ""
}

func isHTMLSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

// --- "initial" insertion mode (HTML specification §12.2.6.4.1) ---

func (p *Parser) inInitial() {
	switch p.tok.Kind {
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			return
		}
		p.quirks = Quirks
		p.reconsumeIn(modeBeforeHTML)
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.emit(signal.Signal{Kind: signal.SignalDoctype, Loc: p.tok.Loc, Doctype: p.tok.Doctype})
		p.quirks = classifyQuirks(p.tok.Doctype)
		p.mode = modeBeforeHTML
	default:
		p.quirks = Quirks
		p.reconsumeIn(modeBeforeHTML)
	}
}

func classifyQuirks(d signal.Doctype) QuirksMode {
	if d.ForceQuirks || !strings.EqualFold(d.Name, "html") {
		return Quirks
	}
	if d.HasPublicID {
		pub := strings.ToLower(d.PublicID)
		for _, q := range quirksPublicPrefixes {
			if strings.HasPrefix(pub, q) {
				return Quirks
			}
		}
		for _, q := range limitedQuirksPublicPrefixes {
			if strings.HasPrefix(pub, q) {
				return LimitedQuirks
			}
		}
	}
	if d.HasSystemID && strings.EqualFold(d.SystemID, "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd") {
		return Quirks
	}
	return NoQuirks
}

var quirksPublicPrefixes = []string{
	"-//w3o//dtd w3 html strict 3.0//en//", "-/w3d/dtd html 4.0 transitional/en",
	"html", "+//silmaril//dtd html pro v0r11 19970101//",
	"-//as//dtd html 3.0 aswedit + extensions//", "-//advasoft ltd//dtd html 3.0 aswedit + extensions//",
	"-//ietf//dtd html 2.0 level 1//", "-//ietf//dtd html 2.0 level 2//",
	"-//ietf//dtd html 2.0 strict level 1//", "-//ietf//dtd html 2.0 strict level 2//",
	"-//ietf//dtd html 2.0 strict//", "-//ietf//dtd html 2.0//",
	"-//ietf//dtd html 2.1e//", "-//ietf//dtd html 3.0//",
	"-//ietf//dtd html 3.2 final//", "-//ietf//dtd html 3.2//",
	"-//ietf//dtd html 3//", "-//ietf//dtd html level 0//",
	"-//ietf//dtd html level 1//", "-//ietf//dtd html level 2//",
	"-//ietf//dtd html level 3//", "-//ietf//dtd html strict level 0//",
	"-//ietf//dtd html strict level 1//", "-//ietf//dtd html strict level 2//",
	"-//ietf//dtd html strict level 3//", "-//ietf//dtd html strict//",
	"-//ietf//dtd html//", "-//metrius//dtd metrius presentational//",
	"-//microsoft//dtd internet explorer 2.0 html strict//",
	"-//microsoft//dtd internet explorer 2.0 html//",
	"-//microsoft//dtd internet explorer 2.0 tables//",
	"-//microsoft//dtd internet explorer 3.0 html strict//",
	"-//microsoft//dtd internet explorer 3.0 html//",
	"-//microsoft//dtd internet explorer 3.0 tables//",
	"-//netscape comm. corp.//dtd html//", "-//netscape comm. corp.//dtd strict html//",
	"-//o'reilly and associates//dtd html 2.0//",
	"-//o'reilly and associates//dtd html extended 1.0//",
	"-//o'reilly and associates//dtd html extended relaxed 1.0//",
	"-//sq//dtd html 2.0 hotmetal + extensions//",
	"-//softquad software//dtd hotmetal pro 6.0::19990601::extensions to html 4.0//",
	"-//softquad//dtd hotmetal pro 4.0::19971010::extensions to html 4.0//",
	"-//spyglass//dtd html 2.0 extended//", "-//sun microsystems corp.//dtd hotjava html//",
	"-//sun microsystems corp.//dtd hotjava strict html//",
	"-//w3c//dtd html 3 1995-03-24//", "-//w3c//dtd html 3.2 draft//",
	"-//w3c//dtd html 3.2 final//", "-//w3c//dtd html 3.2//",
	"-//w3c//dtd html 3.2s draft//", "-//w3c//dtd html 4.0 frameset//",
	"-//w3c//dtd html 4.0 transitional//", "-//w3c//dtd html experimental 19960712//",
	"-//w3c//dtd html experimental 970421//", "-//w3c//dtd w3 html//",
	"-//w3o//dtd w3 html 3.0//", "-//webtechs//dtd mozilla html 2.0//",
	"-//webtechs//dtd mozilla html//",
}

var limitedQuirksPublicPrefixes = []string{
	"-//w3c//dtd xhtml 1.0 frameset//", "-//w3c//dtd xhtml 1.0 transitional//",
}

// --- "before html" (§12.2.6.4.2) ---

func (p *Parser) inBeforeHTML() {
	switch p.tok.Kind {
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in before html")
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			return
		}
		p.startHTMLImplicit(p.tok.Loc)
		p.reconsumeIn(modeBeforeHead)
	case signal.TokenStart:
		if p.tok.Name == "html" {
			p.htmlIdx = p.insertHTMLElement(p.tok)
			p.mode = modeBeforeHead
			return
		}
		p.startHTMLImplicit(p.tok.Loc)
		p.reconsumeIn(modeBeforeHead)
	case signal.TokenEnd:
		switch p.tok.Name {
		case "head", "body", "html", "br":
			p.startHTMLImplicit(p.tok.Loc)
			p.reconsumeIn(modeBeforeHead)
		default:
			p.err(diag.UnmatchedEndTag, "unexpected end tag before html")
		}
	default:
		p.startHTMLImplicit(p.tok.Loc)
		p.reconsumeIn(modeBeforeHead)
	}
}

func (p *Parser) startHTMLImplicit(loc signal.Location) {
	p.htmlIdx = p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: loc, Name: "html"})
}

// --- "before head" (§12.2.6.4.3) ---

func (p *Parser) inBeforeHead() {
	switch p.tok.Kind {
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			return
		}
		p.insertHeadImplicit(p.tok.Loc)
		p.reconsumeIn(modeInHead)
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in before head")
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "head":
			p.headIdx = p.insertHTMLElement(p.tok)
			p.mode = modeInHead
		default:
			p.insertHeadImplicit(p.tok.Loc)
			p.reconsumeIn(modeInHead)
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "head", "body", "html", "br":
			p.insertHeadImplicit(p.tok.Loc)
			p.reconsumeIn(modeInHead)
		default:
			p.err(diag.UnmatchedEndTag, "unexpected end tag before head")
		}
	default:
		p.insertHeadImplicit(p.tok.Loc)
		p.reconsumeIn(modeInHead)
	}
}

func (p *Parser) insertHeadImplicit(loc signal.Location) {
	p.headIdx = p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: loc, Name: "head"})
}

func (p *Parser) inBodyStartHTML() {
	if p.tok.Name != "html" {
		return
	}
	e := p.pool.Get(p.htmlIdx)
	for _, a := range p.tok.Attributes {
		if !hasAttr(e.Attrs, a.Name) {
			e.Attrs = append(e.Attrs, a)
		}
	}
}

func hasAttr(attrs []signal.Attribute, name signal.Name) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// --- "in head" (§12.2.6.4.4) ---

func (p *Parser) inHeadMode() {
	switch p.tok.Kind {
	case signal.TokenChars:
		ws, rest := splitLeadingWhitespace(p.tok.Text)
		if ws != "" {
			p.insertText(p.tok.Loc, ws)
		}
		if rest == "" {
			return
		}
		p.popCurrentElement()
		p.mode = modeAfterHead
		p.tok.Text = rest
		p.reconsumeIn(modeAfterHead)
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in head")
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "base", "basefont", "bgsound", "link", "meta":
			p.insertHTMLElement(p.tok)
			p.popCurrentElement()
		case "title":
			p.insertHTMLElement(p.tok)
			p.control.SetRawtextMode()
			p.originalMode = p.mode
			p.mode = modeText
		case "noscript":
			if p.opts.Scripting {
				p.insertHTMLElement(p.tok)
				p.control.SetRawtextMode()
				p.originalMode = p.mode
				p.mode = modeText
			} else {
				p.insertHTMLElement(p.tok)
				p.mode = modeInHeadNoscript
			}
		case "noframes", "style":
			p.insertHTMLElement(p.tok)
			p.control.SetRawtextMode()
			p.originalMode = p.mode
			p.mode = modeText
		case "script":
			p.insertHTMLElement(p.tok)
			p.originalMode = p.mode
			p.mode = modeText
		case "template":
			p.insertHTMLElement(p.tok)
			p.pushFormattingMarker()
			p.framesetOK = false
			p.originalMode = p.mode
			p.templateModes = append(p.templateModes, modeInTemplate)
			p.mode = modeInTemplate
		case "head":
			p.err(diag.BadToken, "unexpected head start tag")
		default:
			p.popCurrentElement()
			p.mode = modeAfterHead
			p.reconsumeIn(modeAfterHead)
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "head":
			p.popCurrentElement()
			p.mode = modeAfterHead
		case "body", "html", "br":
			p.popCurrentElement()
			p.mode = modeAfterHead
			p.reconsumeIn(modeAfterHead)
		case "template":
			p.endTemplate()
		default:
			p.err(diag.UnmatchedEndTag, "unexpected end tag in head")
		}
	default:
		p.popCurrentElement()
		p.mode = modeAfterHead
		p.reconsumeIn(modeAfterHead)
	}
}

func splitLeadingWhitespace(s string) (ws, rest string) {
	i := 0
	for i < len(s) && isHTMLSpace(rune(s[i])) {
		i++
	}
	return s[:i], s[i:]
}

func (p *Parser) endTemplate() {
	if p.indexOf("template") < 0 {
		p.err(diag.UnmatchedEndTag, "end tag template with no template open")
		return
	}
	p.popUntilName("template")
	p.clearFormattingToMarker()
	if len(p.templateModes) > 0 {
		p.templateModes = p.templateModes[:len(p.templateModes)-1]
	}
	p.resetInsertionMode()
}

// --- "in head noscript" (§12.2.6.4.5) ---

func (p *Parser) inHeadNoscript() {
	switch p.tok.Kind {
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in head noscript")
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			p.inHeadModeDelegate()
		case "head", "noscript":
			p.err(diag.BadToken, "unexpected start tag in head noscript")
		default:
			p.popCurrentElement()
			p.mode = modeInHead
			p.reconsumeIn(modeInHead)
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "noscript":
			p.popCurrentElement()
			p.mode = modeInHead
		case "br":
			p.popCurrentElement()
			p.mode = modeInHead
			p.reconsumeIn(modeInHead)
		default:
			p.err(diag.UnmatchedEndTag, "unexpected end tag in head noscript")
		}
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenChars:
		if p.isAllWhitespace(p.tok.Text) {
			p.inHeadModeDelegate()
			return
		}
		p.popCurrentElement()
		p.mode = modeInHead
		p.reconsumeIn(modeInHead)
	default:
		p.popCurrentElement()
		p.mode = modeInHead
		p.reconsumeIn(modeInHead)
	}
}

func (p *Parser) inHeadModeDelegate() {
	saved := p.mode
	p.mode = modeInHead
	p.inHeadMode()
	if p.mode == modeInHead {
		p.mode = saved
	}
}

// --- "after head" (§12.2.6.4.6) ---

func (p *Parser) inAfterHead() {
	switch p.tok.Kind {
	case signal.TokenChars:
		ws, rest := splitLeadingWhitespace(p.tok.Text)
		if ws != "" {
			p.insertText(p.tok.Loc, ws)
		}
		if rest == "" {
			return
		}
		p.insertBodyImplicit(p.tok.Loc)
		p.tok.Text = rest
		p.reconsumeIn(modeInBody)
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype after head")
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "body":
			p.insertHTMLElement(p.tok)
			p.framesetOK = false
			p.mode = modeInBody
		case "frameset":
			p.insertHTMLElement(p.tok)
			p.mode = modeInFrameset
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
			"style", "template", "title":
			p.oe.Push(p.headIdx)
			p.mode = modeInHead
			p.inHeadMode()
			p.removeFromOpenElements(p.headIdx)
			if p.mode == modeInHead {
				p.mode = modeAfterHead
			}
		case "head":
			p.err(diag.BadToken, "unexpected head start tag after head")
		default:
			p.insertBodyImplicit(p.tok.Loc)
			p.reconsumeIn(modeInBody)
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "template":
			p.mode = modeInHead
			p.inHeadMode()
		case "body", "html", "br":
			p.insertBodyImplicit(p.tok.Loc)
			p.reconsumeIn(modeInBody)
		default:
			p.err(diag.UnmatchedEndTag, "unexpected end tag after head")
		}
	default:
		p.insertBodyImplicit(p.tok.Loc)
		p.reconsumeIn(modeInBody)
	}
}

func (p *Parser) insertBodyImplicit(loc signal.Location) {
	p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: loc, Name: "body"})
	p.mode = modeInBody
}

func (p *Parser) removeFromOpenElements(poolIdx int) {
	pos := p.indexOfElement(poolIdx)
	if pos >= 0 {
		p.oe.Remove(pos)
	}
}
