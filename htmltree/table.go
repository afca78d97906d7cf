package htmltree

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
)

// --- "in table" (§12.2.6.4.9) ---

func (p *Parser) inTable() {
	switch p.tok.Kind {
	case signal.TokenChars:
		if isTableTextContext(p.topName()) {
			p.pendingTableText = nil
			p.pendingTableTextHadNonWS = false
			p.originalMode = p.mode
			p.mode = modeInTableText
			p.reconsumeIn(modeInTableText)
			return
		}
		p.inTableFosterText()
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in table")
	case signal.TokenStart:
		switch p.tok.Name {
		case "caption":
			p.clearStackBackToTableContext()
			p.pushFormattingMarker()
			p.insertHTMLElement(p.tok)
			p.mode = modeInCaption
		case "colgroup":
			p.clearStackBackToTableContext()
			p.insertHTMLElement(p.tok)
			p.mode = modeInColumnGroup
		case "col":
			p.clearStackBackToTableContext()
			p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: p.tok.Loc, Name: "colgroup"})
			p.mode = modeInColumnGroup
			p.reconsumeIn(modeInColumnGroup)
		case "tbody", "tfoot", "thead":
			p.clearStackBackToTableContext()
			p.insertHTMLElement(p.tok)
			p.mode = modeInTableBody
		case "td", "th", "tr":
			p.clearStackBackToTableContext()
			p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: p.tok.Loc, Name: "tbody"})
			p.mode = modeInTableBody
			p.reconsumeIn(modeInTableBody)
		case "table":
			p.err(diag.MisnestedTag, "table start tag inside table")
			if p.hasInTableScope("table") {
				p.popUntilName("table")
				p.resetInsertionMode()
				p.reconsumeIn(p.mode)
			}
		case "style", "script", "template", "base", "basefont", "bgsound",
			"link", "meta", "noframes", "title":
			p.mode = modeInHead
			p.inHeadMode()
			if p.mode == modeInHead {
				p.mode = modeInTable
			}
		case "input":
			typeAttr := ""
			for _, a := range p.tok.Attributes {
				if a.Name.Local == "type" {
					typeAttr = a.Value
				}
			}
			if !equalFoldASCII(typeAttr, "hidden") {
				p.err(diag.BadToken, "unexpected input in table")
				p.inTableFosterElement()
				return
			}
			p.err(diag.BadToken, "unexpected input in table")
			p.insertHTMLElement(p.tok)
			p.popCurrentElement()
		case "form":
			if p.haveForm || p.indexOf("template") >= 0 {
				p.err(diag.BadToken, "unexpected form in table")
				return
			}
			idx := p.insertHTMLElement(p.tok)
			p.formIdx = idx
			p.haveForm = true
			p.popCurrentElement()
		default:
			p.err(diag.BadToken, "unexpected start tag in table, foster parenting")
			p.inTableFosterElement()
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "table":
			if !p.hasInTableScope("table") {
				p.err(diag.UnmatchedEndTag, "end tag table with no table in scope")
				return
			}
			p.popUntilName("table")
			p.resetInsertionMode()
		case "body", "caption", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			p.err(diag.UnmatchedEndTag, "unexpected end tag in table")
		case "template":
			p.mode = modeInHead
			p.inHeadMode()
		default:
			p.err(diag.BadToken, "unexpected end tag in table, foster parenting")
			p.mode = modeInBody
			p.inBody()
			p.mode = modeInTable
		}
	default:
		p.inTableFosterElement()
	}
}

func isTableTextContext(name string) bool {
	switch name {
	case "table", "tbody", "tfoot", "thead", "tr":
		return true
	}
	return false
}

// inTableFosterText/inTableFosterElement run the enclosed token through "in
// body" processing while foster-parenting is active (fosterParentingActive
// keys off the current node alone, so the temporary modeInBody swap does
// not turn it off).
func (p *Parser) inTableFosterText() {
	p.err(diag.BadToken, "text in table, foster parenting")
	p.mode = modeInBody
	p.inBody()
	p.mode = modeInTable
}

func (p *Parser) inTableFosterElement() {
	p.mode = modeInBody
	p.inBody()
	p.mode = modeInTable
}

func (p *Parser) clearStackBackToTableContext() {
	for p.oe.Len() > 0 {
		name := p.topName()
		if name == "table" || name == "template" || name == "html" {
			return
		}
		p.popCurrentElement()
	}
}

// --- "in table text" (§12.2.6.4.10) ---

func (p *Parser) inTableText() {
	if p.tok.Kind == signal.TokenChars {
		if hasNullInText(p.tok.Text) {
			p.err(diag.BadToken, "unexpected null character")
			return
		}
		p.pendingTableText = append(p.pendingTableText, p.tok.Text)
		if !p.isAllWhitespace(p.tok.Text) {
			p.pendingTableTextHadNonWS = true
		}
		return
	}
	text := joinStrings(p.pendingTableText)
	p.pendingTableText = nil
	if p.pendingTableTextHadNonWS {
		p.err(diag.BadToken, "non-whitespace text in table, foster parenting")
		p.mode = modeInBody
		saved := p.tok
		p.tok = signal.Token{Kind: signal.TokenChars, Loc: p.tok.Loc, Text: text}
		p.inBody()
		p.tok = saved
	} else {
		p.insertText(p.tok.Loc, text)
	}
	p.mode = p.originalMode
	p.reconsumeIn(p.originalMode)
}

func joinStrings(ss []string) string {
	total := 0
	for _, s := range ss {
		total += len(s)
	}
	out := make([]byte, 0, total)
	for _, s := range ss {
		out = append(out, s...)
	}
	return string(out)
}

// --- "in caption" (§12.2.6.4.11) ---

func (p *Parser) inCaption() {
	switch p.tok.Kind {
	case signal.TokenEnd:
		switch p.tok.Name {
		case "caption":
			p.closeCaption()
		case "table":
			if !p.hasInTableScope("caption") {
				p.err(diag.UnmatchedEndTag, "end tag table with no caption in scope")
				return
			}
			p.closeCaption()
			p.reconsumeIn(modeInTable)
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			p.err(diag.UnmatchedEndTag, "unexpected end tag in caption")
		default:
			p.mode = modeInBody
			p.inBody()
			p.mode = modeInCaption
		}
	case signal.TokenStart:
		switch p.tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !p.hasInTableScope("caption") {
				p.err(diag.UnmatchedEndTag, "stray table structure in caption")
				return
			}
			p.closeCaption()
			p.reconsumeIn(modeInTable)
		default:
			p.mode = modeInBody
			p.inBody()
			p.mode = modeInCaption
		}
	default:
		p.mode = modeInBody
		p.inBody()
		p.mode = modeInCaption
	}
}

func (p *Parser) closeCaption() {
	p.generateImpliedEndTags("")
	if p.topName() != "caption" {
		p.err(diag.MisnestedTag, "misnested caption")
	}
	p.popUntilName("caption")
	p.clearFormattingToMarker()
	p.mode = modeInTable
}

// --- "in column group" (§12.2.6.4.12) ---

func (p *Parser) inColumnGroup() {
	switch p.tok.Kind {
	case signal.TokenChars:
		ws, rest := splitLeadingWhitespace(p.tok.Text)
		if ws != "" {
			p.insertText(p.tok.Loc, ws)
		}
		if rest == "" {
			return
		}
		p.leaveColumnGroup()
		p.tok.Text = rest
		p.reconsumeIn(modeInTable)
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in column group")
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "col":
			p.insertHTMLElement(p.tok)
			p.popCurrentElement()
		case "template":
			p.mode = modeInHead
			p.inHeadMode()
		default:
			p.leaveColumnGroup()
			p.reconsumeIn(modeInTable)
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "colgroup":
			if p.topName() != "colgroup" {
				p.err(diag.UnmatchedEndTag, "end tag colgroup with no colgroup open")
				return
			}
			p.popCurrentElement()
			p.mode = modeInTable
		case "col":
			p.err(diag.UnmatchedEndTag, "unexpected end tag col")
		case "template":
			p.mode = modeInHead
			p.inHeadMode()
		default:
			p.leaveColumnGroup()
			p.reconsumeIn(modeInTable)
		}
	default:
		p.leaveColumnGroup()
		p.reconsumeIn(modeInTable)
	}
}

func (p *Parser) leaveColumnGroup() {
	if p.topName() != "colgroup" {
		p.err(diag.MisnestedTag, "unexpected content in column group")
		return
	}
	p.popCurrentElement()
	p.mode = modeInTable
}

// --- "in table body" (§12.2.6.4.13) ---

func (p *Parser) inTableBody() {
	switch p.tok.Kind {
	case signal.TokenStart:
		switch p.tok.Name {
		case "tr":
			p.clearStackBackToTableBodyContext()
			p.insertHTMLElement(p.tok)
			p.mode = modeInRow
		case "th", "td":
			p.err(diag.MisnestedTag, "cell without row in table body")
			p.clearStackBackToTableBodyContext()
			p.insertHTMLElement(signal.Token{Kind: signal.TokenStart, Loc: p.tok.Loc, Name: "tr"})
			p.mode = modeInRow
			p.reconsumeIn(modeInRow)
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !p.hasInTableScope("tbody") && !p.hasInTableScope("thead") && !p.hasInTableScope("tfoot") {
				p.err(diag.UnmatchedEndTag, "stray table-section content")
				return
			}
			p.clearStackBackToTableBodyContext()
			p.popCurrentElement()
			p.mode = modeInTable
			p.reconsumeIn(modeInTable)
		default:
			p.mode = modeInTable
			p.inTable()
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "tbody", "tfoot", "thead":
			if !p.hasInTableScope(p.tok.Name) {
				p.err(diag.UnmatchedEndTag, "end tag with no matching table section")
				return
			}
			p.clearStackBackToTableBodyContext()
			p.popCurrentElement()
			p.mode = modeInTable
		case "table":
			if !p.hasInTableScope("tbody") && !p.hasInTableScope("thead") && !p.hasInTableScope("tfoot") {
				p.err(diag.UnmatchedEndTag, "end tag table with no section in scope")
				return
			}
			p.clearStackBackToTableBodyContext()
			p.popCurrentElement()
			p.mode = modeInTable
			p.reconsumeIn(modeInTable)
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			p.err(diag.UnmatchedEndTag, "unexpected end tag in table body")
		default:
			p.mode = modeInTable
			p.inTable()
		}
	default:
		p.mode = modeInTable
		p.inTable()
	}
}

func (p *Parser) clearStackBackToTableBodyContext() {
	for p.oe.Len() > 0 {
		switch p.topName() {
		case "tbody", "tfoot", "thead", "template", "html":
			return
		}
		p.popCurrentElement()
	}
}

// --- "in row" (§12.2.6.4.14) ---

func (p *Parser) inRow() {
	switch p.tok.Kind {
	case signal.TokenStart:
		switch p.tok.Name {
		case "th", "td":
			p.clearStackBackToRowContext()
			p.insertHTMLElement(p.tok)
			p.mode = modeInCell
			p.pushFormattingMarker()
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !p.hasInTableScope("tr") {
				p.err(diag.UnmatchedEndTag, "stray content outside row")
				return
			}
			p.clearStackBackToRowContext()
			p.popCurrentElement()
			p.mode = modeInTableBody
			p.reconsumeIn(modeInTableBody)
		default:
			p.mode = modeInTable
			p.inTable()
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "tr":
			if !p.hasInTableScope("tr") {
				p.err(diag.UnmatchedEndTag, "end tag tr with no tr in scope")
				return
			}
			p.clearStackBackToRowContext()
			p.popCurrentElement()
			p.mode = modeInTableBody
		case "table":
			if !p.hasInTableScope("tr") {
				p.err(diag.UnmatchedEndTag, "end tag table with no tr in scope")
				return
			}
			p.clearStackBackToRowContext()
			p.popCurrentElement()
			p.mode = modeInTableBody
			p.reconsumeIn(modeInTableBody)
		case "tbody", "tfoot", "thead":
			if !p.hasInTableScope(p.tok.Name) || !p.hasInTableScope("tr") {
				p.err(diag.UnmatchedEndTag, "end tag with no matching section/row")
				return
			}
			p.clearStackBackToRowContext()
			p.popCurrentElement()
			p.mode = modeInTableBody
			p.reconsumeIn(modeInTableBody)
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			p.err(diag.UnmatchedEndTag, "unexpected end tag in row")
		default:
			p.mode = modeInTable
			p.inTable()
		}
	default:
		p.mode = modeInTable
		p.inTable()
	}
}

func (p *Parser) clearStackBackToRowContext() {
	for p.oe.Len() > 0 {
		switch p.topName() {
		case "tr", "template", "html":
			return
		}
		p.popCurrentElement()
	}
}

// --- "in cell" (§12.2.6.4.15) ---

func (p *Parser) inCell() {
	switch p.tok.Kind {
	case signal.TokenEnd:
		switch p.tok.Name {
		case "td", "th":
			if !p.hasInTableScope(p.tok.Name) {
				p.err(diag.UnmatchedEndTag, "end tag with no matching cell in scope")
				return
			}
			p.generateImpliedEndTags("")
			if p.topName() != p.tok.Name {
				p.err(diag.MisnestedTag, "misnested end tag "+p.tok.Name)
			}
			p.popUntilName(p.tok.Name)
			p.clearFormattingToMarker()
			p.mode = modeInRow
		case "body", "caption", "col", "colgroup", "html":
			p.err(diag.UnmatchedEndTag, "unexpected end tag in cell")
		case "table", "tbody", "tfoot", "thead", "tr":
			if !p.hasInTableScope(p.tok.Name) {
				p.err(diag.UnmatchedEndTag, "end tag with no matching element in scope")
				return
			}
			p.closeCellForAncestor()
			p.reconsumeIn(modeInRow)
		default:
			p.mode = modeInBody
			p.inBody()
			p.mode = modeInCell
		}
	case signal.TokenStart:
		switch p.tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !p.hasInTableScope("td") && !p.hasInTableScope("th") {
				p.err(diag.UnmatchedEndTag, "stray table structure in cell")
				return
			}
			p.closeCellForAncestor()
			p.reconsumeIn(modeInRow)
		default:
			p.mode = modeInBody
			p.inBody()
			p.mode = modeInCell
		}
	default:
		p.mode = modeInBody
		p.inBody()
		p.mode = modeInCell
	}
}

func (p *Parser) closeCellForAncestor() {
	name := "td"
	if p.hasInTableScope("th") {
		name = "th"
	}
	p.generateImpliedEndTags("")
	if p.topName() != name {
		p.err(diag.MisnestedTag, "misnested cell close")
	}
	p.popUntilName(name)
	p.clearFormattingToMarker()
	p.mode = modeInRow
}

// --- "in select" / "in select in table" (§12.2.6.4.16-17) ---

func (p *Parser) inSelect(inTable bool) {
	switch p.tok.Kind {
	case signal.TokenChars:
		if hasNullInText(p.tok.Text) {
			p.err(diag.BadToken, "unexpected null character")
			return
		}
		p.insertText(p.tok.Loc, p.tok.Text)
	case signal.TokenComment:
		p.insertComment(p.tok.Loc, p.tok.Text)
	case signal.TokenDoctype:
		p.err(diag.BadDocument, "doctype in select")
	case signal.TokenStart:
		switch p.tok.Name {
		case "html":
			p.inBodyStartHTML()
		case "option":
			if p.topName() == "option" {
				p.popCurrentElement()
			}
			p.insertHTMLElement(p.tok)
		case "optgroup":
			if p.topName() == "option" {
				p.popCurrentElement()
			}
			if p.topName() == "optgroup" {
				p.popCurrentElement()
			}
			p.insertHTMLElement(p.tok)
		case "select":
			p.err(diag.MisnestedTag, "nested select start tag")
			if p.hasInScope("select", selectScopeVia()) {
				p.popUntilName("select")
				p.resetInsertionMode()
			}
		case "input", "keygen", "textarea":
			p.err(diag.BadToken, "unexpected start tag in select")
			if p.hasInScope("select", selectScopeVia()) {
				p.popUntilName("select")
				p.resetInsertionMode()
				p.reconsumeIn(p.mode)
			}
		case "script", "template":
			p.mode = modeInHead
			p.inHeadMode()
		default:
			p.err(diag.BadToken, "unexpected start tag in select")
		}
	case signal.TokenEnd:
		switch p.tok.Name {
		case "optgroup":
			if p.topName() == "option" && p.secondFromTopIsOptgroup() {
				p.popCurrentElement()
			}
			if p.topName() == "optgroup" {
				p.popCurrentElement()
			} else {
				p.err(diag.UnmatchedEndTag, "end tag optgroup without matching start")
			}
		case "option":
			if p.topName() == "option" {
				p.popCurrentElement()
			} else {
				p.err(diag.UnmatchedEndTag, "end tag option without matching start")
			}
		case "select":
			if !p.hasInScope("select", selectScopeVia()) {
				p.err(diag.UnmatchedEndTag, "end tag select with no select in scope")
				return
			}
			p.popUntilName("select")
			p.resetInsertionMode()
		case "template":
			p.mode = modeInHead
			p.inHeadMode()
		default:
			p.err(diag.UnmatchedEndTag, "unexpected end tag in select")
		}
	default:
		if inTable {
			p.err(diag.BadDocument, "eof in select in table")
		}
	}
}

func selectScopeVia() map[string]bool { return map[string]bool{"html": true} }

func (p *Parser) secondFromTopIsOptgroup() bool {
	if p.oe.Len() < 2 {
		return false
	}
	return p.pool.Get(p.oe.At(p.oe.Len()-2)).Name == "optgroup"
}
