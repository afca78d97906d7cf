package htmltoken

import "github.com/ucarion/streamdoc/diag"

// --- §12.2.5.32 onward: attributes ---

func (z *Tokenizer) beforeAttributeNameState(r rune) {
	switch {
	case isWhitespace(r):
		// ignore
	case r == '/' || r == '>' || r == eof:
		z.pushBack(positioned(r, z.loc))
		z.finishAttr()
		z.state = stateAfterAttributeName
	case r == '=':
		z.err(diag.BadToken, "unexpected equals sign before attribute name")
		z.attrName.Reset()
		z.attrValue.Reset()
		z.attrName.WriteRune(r)
		z.haveAttr = true
		z.state = stateAttributeName
	default:
		z.attrName.Reset()
		z.attrValue.Reset()
		z.haveAttr = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateAttributeName
	}
}

func (z *Tokenizer) attributeNameState(r rune) {
	switch {
	case isWhitespace(r) || r == '/' || r == '>' || r == eof:
		z.pushBack(positioned(r, z.loc))
		z.finishAttr()
		z.state = stateAfterAttributeName
	case r == '=':
		z.finishAttr()
		z.state = stateBeforeAttributeValue
	case isASCIIUpper(r):
		z.attrName.WriteRune(lower(r))
	case r == 0:
		z.attrName.WriteRune(0xFFFD)
	case r == '"' || r == '\'' || r == '<':
		z.err(diag.BadToken, "unexpected character in attribute name")
		z.attrName.WriteRune(r)
	default:
		z.attrName.WriteRune(r)
	}
}

// finishAttr commits the in-progress attribute name (value stays in
// attrValue to be committed by addAttribute once the value, if any, is
// fully read). Duplicate names are handled in addAttribute (spec.md §3
// "duplicates on a single start tag are resolved by keeping the first
// occurrence and reporting the duplicates").
func (z *Tokenizer) finishAttr() {
	if !z.haveAttr {
		return
	}
	z.haveAttr = false
	z.addAttribute(z.attrName.String(), z.attrValue.String())
}

func (z *Tokenizer) afterAttributeNameState(r rune) {
	switch {
	case isWhitespace(r):
	case r == '/':
		z.state = stateSelfClosingStartTag
	case r == '=':
		z.state = stateBeforeAttributeValue
	case r == '>':
		z.state = stateData
		z.emitTag()
	case r == eof:
		z.err(diag.BadToken, "eof in tag")
	default:
		z.attrName.Reset()
		z.attrValue.Reset()
		z.haveAttr = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateAttributeName
	}
}

func (z *Tokenizer) beforeAttributeValueState(r rune) {
	switch {
	case isWhitespace(r):
	case r == '"':
		z.attrValue.Reset()
		z.state = stateAttributeValueDoubleQuoted
	case r == '\'':
		z.attrValue.Reset()
		z.state = stateAttributeValueSingleQuoted
	case r == '>':
		z.err(diag.BadToken, "missing attribute value")
		z.finishAttrValue()
		z.state = stateData
		z.emitTag()
	default:
		z.attrValue.Reset()
		z.pushBack(positioned(r, z.loc))
		z.state = stateAttributeValueUnquoted
	}
}

func (z *Tokenizer) attributeValueQuotedState(r rune, quote rune) {
	switch r {
	case quote:
		z.finishAttrValue()
		z.state = stateAfterAttributeValueQuoted
	case '&':
		z.returnState = z.state
		z.state = stateCharacterReference
	case 0:
		z.attrValue.WriteRune(0xFFFD)
	case eof:
		z.err(diag.BadToken, "eof in tag")
	default:
		z.attrValue.WriteRune(r)
	}
}

func (z *Tokenizer) attributeValueUnquotedState(r rune) {
	switch {
	case isWhitespace(r):
		z.finishAttrValue()
		z.state = stateBeforeAttributeName
	case r == '&':
		z.returnState = stateAttributeValueUnquoted
		z.state = stateCharacterReference
	case r == '>':
		z.finishAttrValue()
		z.state = stateData
		z.emitTag()
	case r == 0:
		z.attrValue.WriteRune(0xFFFD)
	case r == eof:
		z.err(diag.BadToken, "eof in tag")
	default:
		z.attrValue.WriteRune(r)
	}
}

// finishAttrValue commits the attribute's value once its pending name is
// already recorded via finishAttr (called at '=' time). z.pendingAttrIndex
// pins down exactly which attribute this value belongs to, so a
// duplicate's value is dropped (index -1) instead of silently overwriting
// the first occurrence or a later, unrelated attribute.
func (z *Tokenizer) finishAttrValue() {
	if z.pendingAttrIndex < 0 || z.pendingAttrIndex >= len(z.attrs) {
		return
	}
	z.attrs[z.pendingAttrIndex].Value = z.attrValue.String()
}

func (z *Tokenizer) afterAttributeValueQuotedState(r rune) {
	switch {
	case isWhitespace(r):
		z.state = stateBeforeAttributeName
	case r == '/':
		z.state = stateSelfClosingStartTag
	case r == '>':
		z.state = stateData
		z.emitTag()
	case r == eof:
		z.err(diag.BadToken, "eof in tag")
	default:
		z.err(diag.BadToken, "missing whitespace between attributes")
		z.pushBack(positioned(r, z.loc))
		z.state = stateBeforeAttributeName
	}
}

func (z *Tokenizer) selfClosingStartTagState(r rune) {
	switch r {
	case '>':
		z.selfClosing = true
		z.state = stateData
		z.emitTag()
	case eof:
		z.err(diag.BadToken, "eof in tag")
	default:
		z.err(diag.BadToken, "unexpected solidus in tag")
		z.pushBack(positioned(r, z.loc))
		z.state = stateBeforeAttributeName
	}
}
