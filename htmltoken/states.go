package htmltoken

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/preprocess"
	"github.com/ucarion/streamdoc/signal"
)

// step dispatches one input code point to the current state's handler.
func (z *Tokenizer) step(r rune) {
	switch z.state {
	case stateData:
		z.dataState(r)
	case stateRCDATA:
		z.rcdataState(r)
	case stateRAWTEXT:
		z.rawtextState(r)
	case stateScriptData:
		z.scriptDataState(r)
	case statePLAINTEXT:
		z.plaintextState(r)
	case stateTagOpen:
		z.tagOpenState(r)
	case stateEndTagOpen:
		z.endTagOpenState(r)
	case stateTagName:
		z.tagNameState(r)
	case stateRCDATALessThanSign:
		z.rcdataLessThanSignState(r)
	case stateRCDATAEndTagOpen:
		z.rcdataEndTagOpenState(r)
	case stateRCDATAEndTagName:
		z.rcdataEndTagNameState(r)
	case stateRAWTEXTLessThanSign:
		z.rawtextLessThanSignState(r)
	case stateRAWTEXTEndTagOpen:
		z.rawtextEndTagOpenState(r)
	case stateRAWTEXTEndTagName:
		z.rawtextEndTagNameState(r)
	case stateScriptDataLessThanSign:
		z.scriptDataLessThanSignState(r)
	case stateScriptDataEndTagOpen:
		z.scriptDataEndTagOpenState(r)
	case stateScriptDataEndTagName:
		z.scriptDataEndTagNameState(r)
	case stateBeforeAttributeName:
		z.beforeAttributeNameState(r)
	case stateAttributeName:
		z.attributeNameState(r)
	case stateAfterAttributeName:
		z.afterAttributeNameState(r)
	case stateBeforeAttributeValue:
		z.beforeAttributeValueState(r)
	case stateAttributeValueDoubleQuoted:
		z.attributeValueQuotedState(r, '"')
	case stateAttributeValueSingleQuoted:
		z.attributeValueQuotedState(r, '\'')
	case stateAttributeValueUnquoted:
		z.attributeValueUnquotedState(r)
	case stateAfterAttributeValueQuoted:
		z.afterAttributeValueQuotedState(r)
	case stateSelfClosingStartTag:
		z.selfClosingStartTagState(r)
	case stateBogusComment:
		z.bogusCommentState(r)
	case stateMarkupDeclarationOpen:
		z.markupDeclarationOpenState(r)
	case stateCommentStart:
		z.commentStartState(r)
	case stateCommentStartDash:
		z.commentStartDashState(r)
	case stateComment:
		z.commentState(r)
	case stateCommentEndDash:
		z.commentEndDashState(r)
	case stateCommentEnd:
		z.commentEndState(r)
	case stateCommentEndBang:
		z.commentEndBangState(r)
	case stateDoctype:
		z.doctypeState(r)
	case stateBeforeDoctypeName:
		z.beforeDoctypeNameState(r)
	case stateDoctypeName:
		z.doctypeNameState(r)
	case stateAfterDoctypeName:
		z.afterDoctypeNameState(r)
	case stateAfterDoctypePublicKeyword:
		z.afterDoctypePublicKeywordState(r)
	case stateBeforeDoctypePublicID:
		z.beforeDoctypePublicIDState(r)
	case stateDoctypePublicIDDoubleQuoted:
		z.doctypePublicIDQuotedState(r, '"')
	case stateDoctypePublicIDSingleQuoted:
		z.doctypePublicIDQuotedState(r, '\'')
	case stateAfterDoctypePublicID:
		z.afterDoctypePublicIDState(r)
	case stateBetweenDoctypePublicAndSystem:
		z.betweenDoctypePublicAndSystemState(r)
	case stateAfterDoctypeSystemKeyword:
		z.afterDoctypeSystemKeywordState(r)
	case stateBeforeDoctypeSystemID:
		z.beforeDoctypeSystemIDState(r)
	case stateDoctypeSystemIDDoubleQuoted:
		z.doctypeSystemIDQuotedState(r, '"')
	case stateDoctypeSystemIDSingleQuoted:
		z.doctypeSystemIDQuotedState(r, '\'')
	case stateAfterDoctypeSystemID:
		z.afterDoctypeSystemIDState(r)
	case stateBogusDoctype:
		z.bogusDoctypeState(r)
	case stateCDATASection:
		z.cdataSectionState(r)
	case stateCharacterReference:
		z.characterReferenceState(r)
	case stateNamedCharacterReference:
		z.namedCharacterReferenceState(r)
	case stateNumericCharacterReference:
		z.numericCharacterReferenceState(r)
	case stateHexCharacterReferenceStart:
		z.hexCharacterReferenceStartState(r)
	case stateDecimalCharacterReferenceStart:
		z.decimalCharacterReferenceStartState(r)
	case stateHexCharacterReference:
		z.hexCharacterReferenceState(r)
	case stateDecimalCharacterReference:
		z.decimalCharacterReferenceState(r)
	case stateNumericCharacterReferenceEnd:
		z.numericCharacterReferenceEndState(r)
	default:
		z.dataState(r)
	}
}

func isASCIIAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func lower(r rune) rune {
	if isASCIIUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}

func isWhitespace(r rune) bool {
	return r == '\t' || r == '\n' || r == '\f' || r == ' '
}

// --- §12.2.5.1 Data state ---

func (z *Tokenizer) dataState(r rune) {
	switch r {
	case '&':
		z.returnState = stateData
		z.state = stateCharacterReference
	case '<':
		z.state = stateTagOpen
	case 0:
		z.err(diag.BadToken, "unexpected null character")
		z.appendChar(z.loc, 0xFFFD)
	case eof:
		z.flushChars()
	default:
		z.appendChar(z.loc, r)
	}
}

// --- RCDATA / RAWTEXT / script data / PLAINTEXT: simplified per-family
// handling. These states differ from Data mainly in which characters can
// introduce tags (only the matching end tag) and whether character
// references are recognized (RCDATA only).

func (z *Tokenizer) rcdataState(r rune) {
	switch r {
	case '&':
		z.returnState = stateRCDATA
		z.state = stateCharacterReference
	case '<':
		z.state = stateRCDATALessThanSign
	case 0:
		z.appendChar(z.loc, 0xFFFD)
	case eof:
		z.flushChars()
	default:
		z.appendChar(z.loc, r)
	}
}

func (z *Tokenizer) rawtextState(r rune) {
	switch r {
	case '<':
		z.state = stateRAWTEXTLessThanSign
	case 0:
		z.appendChar(z.loc, 0xFFFD)
	case eof:
		z.flushChars()
	default:
		z.appendChar(z.loc, r)
	}
}

func (z *Tokenizer) scriptDataState(r rune) {
	switch r {
	case '<':
		z.state = stateScriptDataLessThanSign
	case 0:
		z.err(diag.BadToken, "unexpected null character")
		z.appendChar(z.loc, 0xFFFD)
	case eof:
		z.flushChars()
	default:
		z.appendChar(z.loc, r)
	}
}

func (z *Tokenizer) plaintextState(r rune) {
	switch r {
	case 0:
		z.appendChar(z.loc, 0xFFFD)
	case eof:
		z.flushChars()
	default:
		z.appendChar(z.loc, r)
	}
}

// --- Tag open family ---

func (z *Tokenizer) tagOpenState(r rune) {
	switch {
	case r == '!':
		z.state = stateMarkupDeclarationOpen
	case r == '/':
		z.state = stateEndTagOpen
	case isASCIIAlpha(r):
		z.flushChars()
		z.startNewTag(false)
		z.pushBack(positioned(r, z.loc))
		z.state = stateTagName
	case r == '?':
		z.err(diag.BadToken, "unexpected question mark instead of tag name")
		z.startBogusComment()
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusComment
	case r == eof:
		z.err(diag.BadToken, "eof before tag name")
		z.appendChar(z.loc, '<')
		z.flushChars()
	default:
		z.err(diag.BadToken, "invalid first character of tag name")
		z.appendChar(z.loc, '<')
		z.pushBack(positioned(r, z.loc))
		z.state = stateData
	}
}

func (z *Tokenizer) endTagOpenState(r rune) {
	switch {
	case isASCIIAlpha(r):
		z.flushChars()
		z.startNewTag(true)
		z.pushBack(positioned(r, z.loc))
		z.state = stateTagName
	case r == '>':
		z.err(diag.BadToken, "missing end tag name")
		z.state = stateData
	case r == eof:
		z.err(diag.BadToken, "eof before tag name")
		z.appendChar(z.loc, '<')
		z.appendChar(z.loc, '/')
		z.flushChars()
	default:
		z.err(diag.BadToken, "invalid first character of tag name")
		z.startBogusComment()
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusComment
	}
}

func (z *Tokenizer) startNewTag(isEnd bool) {
	z.isEndTag = isEnd
	z.tagName.Reset()
	z.selfClosing = false
	z.attrs = nil
	z.tokStart = z.loc
}

func (z *Tokenizer) tagNameState(r rune) {
	switch {
	case isWhitespace(r):
		z.state = stateBeforeAttributeName
	case r == '/':
		z.state = stateSelfClosingStartTag
	case r == '>':
		z.state = stateData
		z.emitTag()
	case isASCIIUpper(r):
		z.tagName.WriteRune(lower(r))
	case r == 0:
		z.tagName.WriteRune(0xFFFD)
	case r == eof:
		z.err(diag.BadToken, "eof in tag")
	default:
		z.tagName.WriteRune(r)
	}
}

func (z *Tokenizer) emitTag() {
	name := z.tagName.String()
	if !z.isEndTag {
		z.lastStartTag = name
	}
	if z.isEndTag && (len(z.attrs) > 0 || z.selfClosing) {
		z.err(diag.BadToken, "end tag with attributes or self-closing flag")
	}
	z.emit(signal.Token{
		Kind:        tokenKindForTag(z.isEndTag),
		Loc:         z.tokStart,
		Name:        name,
		Attributes:  z.attrs,
		SelfClosing: z.selfClosing,
	})
	z.applyRawtextSwitch(name)
}

func tokenKindForTag(isEnd bool) signal.TokenKind {
	if isEnd {
		return signal.TokenEnd
	}
	return signal.TokenStart
}

// applyRawtextSwitch is the tokenizer-owned half of spec.md §9's "shared
// mutable state" note: the tree constructor tells the tokenizer which
// raw-text elements to expect via SetRawtextMode, but a handful of
// elements (title, textarea, style, xmp, script, ...) the HTML
// specification always tokenizes as RCDATA/RAWTEXT regardless of tree
// context are handled here directly for convenience; the tree constructor
// may still override via SetRawtextMode for iframe/noembed/noframes/
// noscript, whose raw-text-ness depends on the scripting flag.
func (z *Tokenizer) applyRawtextSwitch(name string) {
	if z.isEndTag {
		return
	}
	switch name {
	case "title", "textarea":
		z.state = stateRCDATA
	case "style", "xmp", "iframe", "noembed", "noframes":
		z.state = stateRAWTEXT
	case "script":
		z.state = stateScriptData
	case "plaintext":
		z.state = statePLAINTEXT
	default:
		z.state = stateData
	}
}

// SetRawtextMode lets the tree constructor force RAWTEXT tokenization
// (used for <noscript> when scripting is enabled, per spec.md §9's
// cross-stage-state note).
func (z *Tokenizer) SetRawtextMode() {
	z.state = stateRAWTEXT
}

func positioned(r rune, loc signal.Location) preprocess.Positioned {
	return preprocess.Positioned{R: r, Loc: loc}
}
