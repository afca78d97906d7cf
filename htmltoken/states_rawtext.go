package htmltoken

import "github.com/ucarion/streamdoc/signal"

// --- RCDATA/RAWTEXT/script-data "</" lookahead families. Each mirrors the
// HTML specification's shape: on "</" inside one of these text states,
// tentatively buffer a possible end tag name and only commit to leaving
// the text state if it matches the element that opened it (the
// "appropriate end tag token" rule, spec.md §4.5).

func (z *Tokenizer) rcdataLessThanSignState(r rune) {
	if r == '/' {
		z.tempBuf.Reset()
		z.state = stateRCDATAEndTagOpen
		return
	}
	z.appendChar(z.loc, '<')
	z.pushBack(positioned(r, z.loc))
	z.state = stateRCDATA
}

func (z *Tokenizer) rcdataEndTagOpenState(r rune) {
	if isASCIIAlpha(r) {
		z.startNewTag(true)
		z.pushBack(positioned(r, z.loc))
		z.state = stateRCDATAEndTagName
		return
	}
	z.appendChar(z.loc, '<')
	z.appendChar(z.loc, '/')
	z.pushBack(positioned(r, z.loc))
	z.state = stateRCDATA
}

func (z *Tokenizer) rcdataEndTagNameState(r rune) {
	z.genericEndTagNameState(r, stateRCDATA)
}

func (z *Tokenizer) rawtextLessThanSignState(r rune) {
	if r == '/' {
		z.tempBuf.Reset()
		z.state = stateRAWTEXTEndTagOpen
		return
	}
	z.appendChar(z.loc, '<')
	z.pushBack(positioned(r, z.loc))
	z.state = stateRAWTEXT
}

func (z *Tokenizer) rawtextEndTagOpenState(r rune) {
	if isASCIIAlpha(r) {
		z.startNewTag(true)
		z.pushBack(positioned(r, z.loc))
		z.state = stateRAWTEXTEndTagName
		return
	}
	z.appendChar(z.loc, '<')
	z.appendChar(z.loc, '/')
	z.pushBack(positioned(r, z.loc))
	z.state = stateRAWTEXT
}

func (z *Tokenizer) rawtextEndTagNameState(r rune) {
	z.genericEndTagNameState(r, stateRAWTEXT)
}

func (z *Tokenizer) scriptDataLessThanSignState(r rune) {
	if r == '/' {
		z.tempBuf.Reset()
		z.state = stateScriptDataEndTagOpen
		return
	}
	z.appendChar(z.loc, '<')
	z.pushBack(positioned(r, z.loc))
	z.state = stateScriptData
}

func (z *Tokenizer) scriptDataEndTagOpenState(r rune) {
	if isASCIIAlpha(r) {
		z.startNewTag(true)
		z.pushBack(positioned(r, z.loc))
		z.state = stateScriptDataEndTagName
		return
	}
	z.appendChar(z.loc, '<')
	z.appendChar(z.loc, '/')
	z.pushBack(positioned(r, z.loc))
	z.state = stateScriptData
}

func (z *Tokenizer) scriptDataEndTagNameState(r rune) {
	z.genericEndTagNameState(r, stateScriptData)
}

// genericEndTagNameState implements the three near-identical
// "Is this the appropriate end tag?" states: if the buffered name matches
// lastStartTag and is properly terminated, emit the end tag and return to
// Data; otherwise treat everything accumulated as literal text in the
// original RAWTEXT/RCDATA/script-data state.
func (z *Tokenizer) genericEndTagNameState(r rune, fallback state) {
	switch {
	case isWhitespace(r) && z.isAppropriateEndTag():
		z.state = stateBeforeAttributeName
	case r == '/' && z.isAppropriateEndTag():
		z.state = stateSelfClosingStartTag
	case r == '>' && z.isAppropriateEndTag():
		z.emitTagWithoutRawtextSwitch()
		z.state = stateData
	case isASCIIUpper(r):
		z.tagName.WriteRune(lower(r))
		z.tempBuf.WriteRune(r)
	case isASCIIAlpha(r):
		z.tagName.WriteRune(r)
		z.tempBuf.WriteRune(r)
	default:
		z.appendChar(z.loc, '<')
		z.appendChar(z.loc, '/')
		for _, c := range z.tempBuf.String() {
			z.appendChar(z.loc, c)
		}
		z.pushBack(positioned(r, z.loc))
		z.state = fallback
	}
}

func (z *Tokenizer) isAppropriateEndTag() bool {
	return z.tagName.String() == z.lastStartTag
}

func (z *Tokenizer) emitTagWithoutRawtextSwitch() {
	name := z.tagName.String()
	z.emit(signal.Token{Kind: signal.TokenEnd, Loc: z.tokStart, Name: name})
}
