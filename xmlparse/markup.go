package xmlparse

import (
	"strings"

	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
)

// scanMarkup is called with the '<' already consumed. It dispatches on the
// next rune to one of: comment, CDATA, doctype, processing instruction, end
// tag, or start tag.
func (z *Tokenizer) scanMarkup(loc signal.Location) (signal.Token, error) {
	r, rloc, ended, err := z.readRune()
	if err != nil {
		return signal.Token{}, err
	}
	if ended {
		z.err(diag.BadToken, loc, "unexpected end of input after '<'")
		return signal.Token{Kind: signal.TokenEOF, Loc: loc}, nil
	}
	switch {
	case r == '?':
		return z.scanPI(loc)
	case r == '!':
		return z.scanBang(loc)
	case r == '/':
		return z.scanEndTag(loc)
	default:
		z.pushBack(r, rloc)
		return z.scanStartTag(loc)
	}
}

// scanPI reads a processing instruction: <?target data?>. A target of
// exactly "xml" (case-sensitively, per the XML specification) is the XML
// declaration; the parser, not the tokenizer, decides whether that's valid
// here, so it is still emitted as an ordinary TokenPI and reinterpreted
// there (SPEC_FULL.md §4.7/§4.8 XmlDecl).
func (z *Tokenizer) scanPI(loc signal.Location) (signal.Token, error) {
	target, err := z.readName()
	if err != nil {
		return signal.Token{}, err
	}
	if target == "" {
		z.err(diag.BadToken, loc, "processing instruction missing target")
	}
	var sb strings.Builder
	for {
		r, _, ended, rerr := z.readRune()
		if rerr != nil {
			return signal.Token{}, rerr
		}
		if ended {
			z.err(diag.BadToken, loc, "unterminated processing instruction")
			break
		}
		if r == '?' {
			r2, loc2, ended2, rerr2 := z.readRune()
			if rerr2 != nil {
				return signal.Token{}, rerr2
			}
			if !ended2 && r2 == '>' {
				break
			}
			sb.WriteRune('?')
			if !ended2 {
				z.pushBack(r2, loc2)
			}
			continue
		}
		sb.WriteRune(r)
	}
	text := strings.TrimPrefix(sb.String(), " ")
	return signal.Token{Kind: signal.TokenPI, Loc: loc, PITarget: target, Text: text}, nil
}

// scanBang handles the constructs introduced by "<!": comments, CDATA
// sections, and DOCTYPE.
func (z *Tokenizer) scanBang(loc signal.Location) (signal.Token, error) {
	// Try "--" (comment).
	r1, l1, e1, err := z.readRune()
	if err != nil {
		return signal.Token{}, err
	}
	if !e1 && r1 == '-' {
		r2, l2, e2, err := z.readRune()
		if err != nil {
			return signal.Token{}, err
		}
		if !e2 && r2 == '-' {
			return z.scanComment(loc)
		}
		z.err(diag.BadToken, loc, "malformed markup declaration")
		if !e2 {
			z.pushBack(r2, l2)
		}
		return z.next()
	}
	if !e1 {
		z.pushBack(r1, l1)
	}
	if z.matchLiteral("[CDATA[") {
		return z.scanCDATA(loc)
	}
	if z.matchLiteral("DOCTYPE") {
		return z.scanDoctype(loc)
	}
	z.err(diag.BadToken, loc, "unrecognized markup declaration")
	return z.skipToGT(loc)
}

// matchLiteral consumes lit if the upcoming runes spell it exactly
// (case-sensitively, as XML keywords are), otherwise pushes everything back
// and reports no match.
func (z *Tokenizer) matchLiteral(lit string) bool {
	var consumed []struct {
		r   rune
		loc signal.Location
	}
	for _, want := range lit {
		r, loc, ended, err := z.readRune()
		if err != nil || ended || r != want {
			for i := len(consumed) - 1; i >= 0; i-- {
				z.pushBack(consumed[i].r, consumed[i].loc)
			}
			return false
		}
		consumed = append(consumed, struct {
			r   rune
			loc signal.Location
		}{r, loc})
	}
	return true
}

func (z *Tokenizer) skipToGT(loc signal.Location) (signal.Token, error) {
	for {
		r, _, ended, err := z.readRune()
		if err != nil {
			return signal.Token{}, err
		}
		if ended || r == '>' {
			break
		}
	}
	return z.next()
}

func (z *Tokenizer) scanComment(loc signal.Location) (signal.Token, error) {
	var sb strings.Builder
	for {
		r, rloc, ended, err := z.readRune()
		if err != nil {
			return signal.Token{}, err
		}
		if ended {
			z.err(diag.BadToken, loc, "unterminated comment")
			break
		}
		if r == '-' && z.matchLiteral("->") {
			break
		}
		if r == '-' {
			r2, loc2, ended2, err := z.readRune()
			if err != nil {
				return signal.Token{}, err
			}
			if !ended2 && r2 == '-' {
				z.err(diag.BadToken, rloc, "'--' not allowed inside a comment")
			}
			sb.WriteRune('-')
			if !ended2 {
				z.pushBack(r2, loc2)
			}
			continue
		}
		sb.WriteRune(r)
	}
	return signal.Token{Kind: signal.TokenComment, Loc: loc, Text: sb.String()}, nil
}

func (z *Tokenizer) scanCDATA(loc signal.Location) (signal.Token, error) {
	var sb strings.Builder
	for {
		r, _, ended, err := z.readRune()
		if err != nil {
			return signal.Token{}, err
		}
		if ended {
			z.err(diag.BadToken, loc, "unterminated CDATA section")
			break
		}
		if r == ']' && z.matchLiteral("]>") {
			break
		}
		sb.WriteRune(r)
	}
	return signal.Token{Kind: signal.TokenChars, Loc: loc, Text: sb.String(), CDATA: true}, nil
}

// scanDoctype reads <!DOCTYPE name (SYSTEM "sysid" | PUBLIC "pubid" "sysid")? (internal subset, ignored)? >.
// External identifiers are recorded but never dereferenced or resolved
// (spec.md §4.7 "external IDs parsed but not resolved").
func (z *Tokenizer) scanDoctype(loc signal.Location) (signal.Token, error) {
	z.skipSpace()
	name, err := z.readName()
	if err != nil {
		return signal.Token{}, err
	}
	d := signal.Doctype{Name: name}
	z.skipSpace()
	if z.matchLiteral("PUBLIC") {
		z.skipSpace()
		pub, perr := z.readQuoted()
		if perr != nil {
			return signal.Token{}, perr
		}
		d.PublicID = pub
		d.HasPublicID = true
		z.skipSpace()
		if z.peekQuote() {
			sys, serr := z.readQuoted()
			if serr != nil {
				return signal.Token{}, serr
			}
			d.SystemID = sys
			d.HasSystemID = true
		}
	} else if z.matchLiteral("SYSTEM") {
		z.skipSpace()
		sys, serr := z.readQuoted()
		if serr != nil {
			return signal.Token{}, serr
		}
		d.SystemID = sys
		d.HasSystemID = true
	}
	z.skipSpace()
	// Skip an internal subset "[ ... ]" verbatim; its declarations are out
	// of scope (spec.md lists doctype as "external IDs parsed but not
	// resolved", nothing about internal-subset DTD processing).
	r, rloc, ended, rerr := z.readRune()
	if rerr != nil {
		return signal.Token{}, rerr
	}
	if !ended && r == '[' {
		depth := 1
		for depth > 0 {
			r, _, ended, rerr := z.readRune()
			if rerr != nil {
				return signal.Token{}, rerr
			}
			if ended {
				z.err(diag.BadToken, loc, "unterminated doctype internal subset")
				break
			}
			if r == '[' {
				depth++
			} else if r == ']' {
				depth--
			}
		}
		z.skipSpace()
	} else if !ended {
		z.pushBack(r, rloc)
	}
	if !z.matchLiteral(">") {
		z.err(diag.BadToken, loc, "malformed doctype")
		return z.skipToGT(loc)
	}
	return signal.Token{Kind: signal.TokenDoctype, Loc: loc, Doctype: d}, nil
}

func (z *Tokenizer) peekQuote() bool {
	r, loc, ended, err := z.readRune()
	if err != nil || ended {
		return false
	}
	z.pushBack(r, loc)
	return r == '"' || r == '\''
}

func (z *Tokenizer) readQuoted() (string, error) {
	q, _, ended, err := z.readRune()
	if err != nil {
		return "", err
	}
	if ended || (q != '"' && q != '\'') {
		z.err(diag.BadToken, z.loc, "expected quoted literal")
		if !ended {
			z.pushBack(q, z.loc)
		}
		return "", nil
	}
	var sb strings.Builder
	for {
		r, _, ended, err := z.readRune()
		if err != nil {
			return "", err
		}
		if ended || r == q {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

func (z *Tokenizer) skipSpace() {
	for {
		r, loc, ended, err := z.readRune()
		if err != nil || ended {
			return
		}
		if !isXMLSpace(r) {
			z.pushBack(r, loc)
			return
		}
	}
}

func isXMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isNameStart(r rune) bool {
	return r == '_' || r == ':' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7F
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || r == '.' || (r >= '0' && r <= '9')
}

func (z *Tokenizer) readName() (string, error) {
	var sb strings.Builder
	r, loc, ended, err := z.readRune()
	if err != nil {
		return "", err
	}
	if ended || !isNameStart(r) {
		if !ended {
			z.pushBack(r, loc)
		}
		return "", nil
	}
	sb.WriteRune(r)
	for {
		r, loc, ended, err := z.readRune()
		if err != nil {
			return "", err
		}
		if ended || !isNameChar(r) {
			if !ended {
				z.pushBack(r, loc)
			}
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// scanEndTag reads </name [whitespace] >.
func (z *Tokenizer) scanEndTag(loc signal.Location) (signal.Token, error) {
	name, err := z.readName()
	if err != nil {
		return signal.Token{}, err
	}
	if name == "" {
		z.err(diag.BadToken, loc, "end tag missing name")
	}
	z.skipSpace()
	if !z.matchLiteral(">") {
		z.err(diag.BadToken, loc, "malformed end tag")
		return z.skipToGT(loc)
	}
	return signal.Token{Kind: signal.TokenEnd, Loc: loc, Name: name}, nil
}

// scanStartTag reads <name (whitespace attr="value")* whitespace? "/"? >.
func (z *Tokenizer) scanStartTag(loc signal.Location) (signal.Token, error) {
	name, err := z.readName()
	if err != nil {
		return signal.Token{}, err
	}
	if name == "" {
		z.err(diag.BadToken, loc, "start tag missing name")
	}
	var attrs []signal.Attribute
	selfClosing := false
	for {
		z.skipSpace()
		r, rloc, ended, rerr := z.readRune()
		if rerr != nil {
			return signal.Token{}, rerr
		}
		if ended {
			z.err(diag.BadToken, loc, "unterminated start tag")
			break
		}
		if r == '>' {
			break
		}
		if r == '/' {
			r2, _, ended2, rerr2 := z.readRune()
			if rerr2 != nil {
				return signal.Token{}, rerr2
			}
			if !ended2 && r2 == '>' {
				selfClosing = true
				break
			}
			z.err(diag.BadToken, rloc, "malformed start tag")
			return z.skipToGT(loc)
		}
		z.pushBack(r, rloc)
		attrName, aerr := z.readName()
		if aerr != nil {
			return signal.Token{}, aerr
		}
		if attrName == "" {
			z.err(diag.BadToken, rloc, "malformed attribute")
			return z.skipToGT(loc)
		}
		z.skipSpace()
		if !z.matchLiteral("=") {
			z.err(diag.BadToken, rloc, "attribute missing value")
			continue
		}
		z.skipSpace()
		value, verr := z.readAttrValue()
		if verr != nil {
			return signal.Token{}, verr
		}
		dup := false
		for _, a := range attrs {
			if a.Name.Local == attrName {
				z.err(diag.AttributeDuplicated, rloc, "duplicate attribute "+attrName)
				dup = true
				break
			}
		}
		if !dup {
			attrs = append(attrs, signal.Attribute{Name: signal.Name{Local: attrName}, Value: value})
		}
	}
	return signal.Token{
		Kind:        signal.TokenStart,
		Loc:         loc,
		Name:        name,
		Attributes:  attrs,
		SelfClosing: selfClosing,
	}, nil
}

// readAttrValue reads a quoted attribute value, resolving character and
// predefined entity references the same way text content does; unlike text
// content, a literal '<' inside the value is a well-formedness error under
// XML, reported but not fatal here.
func (z *Tokenizer) readAttrValue() (string, error) {
	q, qloc, ended, err := z.readRune()
	if err != nil {
		return "", err
	}
	if ended || (q != '"' && q != '\'') {
		z.err(diag.BadToken, qloc, "attribute value must be quoted")
		if !ended {
			z.pushBack(q, qloc)
		}
		return "", nil
	}
	var sb strings.Builder
	for {
		r, rloc, ended, err := z.readRune()
		if err != nil {
			return "", err
		}
		if ended {
			z.err(diag.BadToken, qloc, "unterminated attribute value")
			break
		}
		if r == q {
			break
		}
		if r == '<' {
			z.err(diag.BadToken, rloc, "'<' not allowed in attribute value")
			sb.WriteRune(r)
			continue
		}
		if r == '&' {
			text, rerr := z.resolveReference()
			if rerr != nil {
				return "", rerr
			}
			sb.WriteString(text)
			continue
		}
		if isXMLSpace(r) {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
