package htmltoken

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/preprocess"
	"github.com/ucarion/streamdoc/signal"
)

// --- Markup declaration open: routes <!-- to comments, <!DOCTYPE to
// doctype, <![CDATA[ to CDATA (only valid in foreign content; HTML
// content treats it as a bogus comment per the HTML specification), and
// anything else to a bogus comment (spec.md §4.5's Chars-token-or-PI note:
// HTML treats PIs as bogus comments too). ---

const cdataPrefix = "[CDATA["

func (z *Tokenizer) markupDeclarationOpenState(r rune) {
	// Greedy, bounded lookahead against the three fixed prefixes; each
	// mismatch pushes back everything consumed so bogus-comment fallback
	// sees the original text (spec.md §4.5 "states requiring look-ahead
	// ... use a small explicit buffer").
	if z.tryConsumeLiteral(r, "--") {
		z.commentText.Reset()
		z.tokStart = z.loc
		z.state = stateCommentStart
		return
	}
	if z.tryConsumeLiteralCI(r, "DOCTYPE") {
		z.resetDoctype()
		z.state = stateDoctype
		return
	}
	if z.cdataAllowed && z.tryConsumeLiteral(r, cdataPrefix) {
		z.tokStart = z.loc
		z.state = stateCDATASection
		return
	}
	z.err(diag.BadToken, "incorrectly opened comment")
	z.startBogusComment()
	z.pushBack(positioned(r, z.loc))
	z.state = stateBogusComment
}

// tryConsumeLiteral checks whether r plus the following code points spell
// literal (case-sensitively), consuming them on success and pushing back
// the code points read after r on failure (r itself stays with the caller).
func (z *Tokenizer) tryConsumeLiteral(r rune, literal string) bool {
	return z.tryConsumeLiteralMatch(r, literal, false)
}

func (z *Tokenizer) tryConsumeLiteralCI(r rune, literal string) bool {
	return z.tryConsumeLiteralMatch(r, literal, true)
}

// tryConsumeLiteralMatch checks whether r, the code point the caller
// already has in hand, plus some number of newly-read code points spell
// literal. r itself is never read from or pushed back onto the input
// stream here — it remains the caller's responsibility, exactly as with
// every other state's "current code point" parameter — only the extra
// code points read to complete the match are pushed back on failure, in
// reverse order, preserving their original locations.
func (z *Tokenizer) tryConsumeLiteralMatch(r rune, literal string, ci bool) bool {
	want := []rune(literal)
	if len(want) == 0 {
		return true
	}
	if !runeEquals(r, want[0], ci) {
		return false
	}
	var extra []preprocess.Positioned
	ok := true
	for i := 1; i < len(want); i++ {
		next, ended, err := z.readRune()
		if err != nil || ended {
			ok = false
			break
		}
		extra = append(extra, next)
		if !runeEquals(next.R, want[i], ci) {
			ok = false
			break
		}
	}
	if ok {
		return true
	}
	for i := len(extra) - 1; i >= 0; i-- {
		z.pushBack(extra[i])
	}
	return false
}

func runeEquals(a, b rune, ci bool) bool {
	if ci {
		return lower(a) == lower(b)
	}
	return a == b
}

// --- Bogus comment ---

func (z *Tokenizer) bogusCommentState(r rune) {
	switch r {
	case '>':
		z.emitComment()
		z.state = stateData
	case eof:
		z.emitComment()
	case 0:
		z.commentText.WriteRune(0xFFFD)
	default:
		z.commentText.WriteRune(r)
	}
}

func (z *Tokenizer) emitComment() {
	z.emit(signal.Token{Kind: signal.TokenComment, Loc: z.tokStart, Text: z.commentText.String()})
}

// --- Comment ---

func (z *Tokenizer) commentStartState(r rune) {
	switch r {
	case '-':
		z.state = stateCommentStartDash
	case '>':
		z.err(diag.BadToken, "abrupt closing of empty comment")
		z.emitComment()
		z.state = stateData
	default:
		z.pushBack(positioned(r, z.loc))
		z.state = stateComment
	}
}

func (z *Tokenizer) commentStartDashState(r rune) {
	switch r {
	case '-':
		z.state = stateCommentEnd
	case '>':
		z.err(diag.BadToken, "abrupt closing of empty comment")
		z.emitComment()
		z.state = stateData
	case eof:
		z.err(diag.BadToken, "eof in comment")
		z.emitComment()
	default:
		z.commentText.WriteRune('-')
		z.pushBack(positioned(r, z.loc))
		z.state = stateComment
	}
}

func (z *Tokenizer) commentState(r rune) {
	switch r {
	case '<':
		z.commentText.WriteRune(r)
	case '-':
		z.state = stateCommentEndDash
	case 0:
		z.commentText.WriteRune(0xFFFD)
	case eof:
		z.err(diag.BadToken, "eof in comment")
		z.emitComment()
	default:
		z.commentText.WriteRune(r)
	}
}

func (z *Tokenizer) commentEndDashState(r rune) {
	switch r {
	case '-':
		z.state = stateCommentEnd
	case eof:
		z.err(diag.BadToken, "eof in comment")
		z.emitComment()
	default:
		z.commentText.WriteRune('-')
		z.pushBack(positioned(r, z.loc))
		z.state = stateComment
	}
}

func (z *Tokenizer) commentEndState(r rune) {
	switch r {
	case '>':
		z.emitComment()
		z.state = stateData
	case '!':
		z.state = stateCommentEndBang
	case '-':
		z.commentText.WriteRune('-')
	case eof:
		z.err(diag.BadToken, "eof in comment")
		z.emitComment()
	default:
		z.commentText.WriteString("--")
		z.pushBack(positioned(r, z.loc))
		z.state = stateComment
	}
}

func (z *Tokenizer) commentEndBangState(r rune) {
	switch r {
	case '-':
		z.commentText.WriteString("--!")
		z.state = stateCommentEndDash
	case '>':
		z.err(diag.BadToken, "incorrectly closed comment")
		z.emitComment()
		z.state = stateData
	case eof:
		z.err(diag.BadToken, "eof in comment")
		z.emitComment()
	default:
		z.commentText.WriteString("--!")
		z.pushBack(positioned(r, z.loc))
		z.state = stateComment
	}
}

// --- Doctype ---

func (z *Tokenizer) resetDoctype() {
	z.docName.Reset()
	z.docPublic.Reset()
	z.docSystem.Reset()
	z.hasPublic = false
	z.hasSystem = false
	z.forceQuirks = false
	z.tokStart = z.loc
}

func (z *Tokenizer) emitDoctype() {
	z.emit(signal.Token{
		Kind: signal.TokenDoctype,
		Loc:  z.tokStart,
		Doctype: signal.Doctype{
			Name:        z.docName.String(),
			PublicID:    z.docPublic.String(),
			HasPublicID: z.hasPublic,
			SystemID:    z.docSystem.String(),
			HasSystemID: z.hasSystem,
			ForceQuirks: z.forceQuirks,
		},
	})
}

func (z *Tokenizer) doctypeState(r rune) {
	switch {
	case isWhitespace(r):
		z.state = stateBeforeDoctypeName
	case r == eof:
		z.forceQuirks = true
		z.err(diag.BadToken, "eof in doctype")
		z.emitDoctype()
	default:
		z.pushBack(positioned(r, z.loc))
		z.state = stateBeforeDoctypeName
	}
}

func (z *Tokenizer) beforeDoctypeNameState(r rune) {
	switch {
	case isWhitespace(r):
	case isASCIIUpper(r):
		z.docName.WriteRune(lower(r))
		z.state = stateDoctypeName
	case r == 0:
		z.docName.WriteRune(0xFFFD)
		z.state = stateDoctypeName
	case r == '>':
		z.forceQuirks = true
		z.err(diag.BadToken, "missing doctype name")
		z.emitDoctype()
		z.state = stateData
	case r == eof:
		z.forceQuirks = true
		z.err(diag.BadToken, "eof in doctype")
		z.emitDoctype()
	default:
		z.docName.WriteRune(r)
		z.state = stateDoctypeName
	}
}

func (z *Tokenizer) doctypeNameState(r rune) {
	switch {
	case isWhitespace(r):
		z.state = stateAfterDoctypeName
	case r == '>':
		z.emitDoctype()
		z.state = stateData
	case isASCIIUpper(r):
		z.docName.WriteRune(lower(r))
	case r == 0:
		z.docName.WriteRune(0xFFFD)
	case r == eof:
		z.forceQuirks = true
		z.err(diag.BadToken, "eof in doctype")
		z.emitDoctype()
	default:
		z.docName.WriteRune(r)
	}
}

func (z *Tokenizer) afterDoctypeNameState(r rune) {
	switch {
	case isWhitespace(r):
	case r == '>':
		z.emitDoctype()
		z.state = stateData
	case r == eof:
		z.forceQuirks = true
		z.err(diag.BadToken, "eof in doctype")
		z.emitDoctype()
	default:
		if z.tryConsumeLiteralCI(r, "PUBLIC") {
			z.state = stateAfterDoctypePublicKeyword
			return
		}
		if z.tryConsumeLiteralCI(r, "SYSTEM") {
			z.state = stateAfterDoctypeSystemKeyword
			return
		}
		z.err(diag.BadToken, "invalid character sequence after doctype name")
		z.forceQuirks = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) afterDoctypePublicKeywordState(r rune) {
	switch {
	case isWhitespace(r):
		z.state = stateBeforeDoctypePublicID
	case r == '"':
		z.hasPublic = true
		z.docPublic.Reset()
		z.state = stateDoctypePublicIDDoubleQuoted
	case r == '\'':
		z.hasPublic = true
		z.docPublic.Reset()
		z.state = stateDoctypePublicIDSingleQuoted
	case r == '>':
		z.forceQuirks = true
		z.emitDoctype()
		z.state = stateData
	default:
		z.forceQuirks = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) beforeDoctypePublicIDState(r rune) {
	switch {
	case isWhitespace(r):
	case r == '"':
		z.hasPublic = true
		z.docPublic.Reset()
		z.state = stateDoctypePublicIDDoubleQuoted
	case r == '\'':
		z.hasPublic = true
		z.docPublic.Reset()
		z.state = stateDoctypePublicIDSingleQuoted
	case r == '>':
		z.forceQuirks = true
		z.emitDoctype()
		z.state = stateData
	default:
		z.forceQuirks = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) doctypePublicIDQuotedState(r rune, quote rune) {
	switch r {
	case quote:
		z.state = stateAfterDoctypePublicID
	case 0:
		z.docPublic.WriteRune(0xFFFD)
	case '>':
		z.forceQuirks = true
		z.emitDoctype()
		z.state = stateData
	case eof:
		z.forceQuirks = true
		z.emitDoctype()
	default:
		z.docPublic.WriteRune(r)
	}
}

func (z *Tokenizer) afterDoctypePublicIDState(r rune) {
	switch {
	case isWhitespace(r):
		z.state = stateBetweenDoctypePublicAndSystem
	case r == '"':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDDoubleQuoted
	case r == '\'':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDSingleQuoted
	case r == '>':
		z.emitDoctype()
		z.state = stateData
	default:
		z.forceQuirks = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) betweenDoctypePublicAndSystemState(r rune) {
	switch {
	case isWhitespace(r):
	case r == '"':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDDoubleQuoted
	case r == '\'':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDSingleQuoted
	case r == '>':
		z.emitDoctype()
		z.state = stateData
	default:
		z.forceQuirks = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) afterDoctypeSystemKeywordState(r rune) {
	switch {
	case isWhitespace(r):
		z.state = stateBeforeDoctypeSystemID
	case r == '"':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDDoubleQuoted
	case r == '\'':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDSingleQuoted
	case r == '>':
		z.forceQuirks = true
		z.emitDoctype()
		z.state = stateData
	default:
		z.forceQuirks = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) beforeDoctypeSystemIDState(r rune) {
	switch {
	case isWhitespace(r):
	case r == '"':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDDoubleQuoted
	case r == '\'':
		z.hasSystem = true
		z.docSystem.Reset()
		z.state = stateDoctypeSystemIDSingleQuoted
	case r == '>':
		z.forceQuirks = true
		z.emitDoctype()
		z.state = stateData
	default:
		z.forceQuirks = true
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) doctypeSystemIDQuotedState(r rune, quote rune) {
	switch r {
	case quote:
		z.state = stateAfterDoctypeSystemID
	case 0:
		z.docSystem.WriteRune(0xFFFD)
	case '>':
		z.forceQuirks = true
		z.emitDoctype()
		z.state = stateData
	case eof:
		z.forceQuirks = true
		z.emitDoctype()
	default:
		z.docSystem.WriteRune(r)
	}
}

func (z *Tokenizer) afterDoctypeSystemIDState(r rune) {
	switch {
	case isWhitespace(r):
	case r == '>':
		z.emitDoctype()
		z.state = stateData
	case r == eof:
		z.forceQuirks = true
		z.emitDoctype()
	default:
		z.err(diag.BadToken, "unexpected character after doctype system identifier")
		z.pushBack(positioned(r, z.loc))
		z.state = stateBogusDoctype
	}
}

func (z *Tokenizer) bogusDoctypeState(r rune) {
	switch r {
	case '>':
		z.emitDoctype()
		z.state = stateData
	case eof:
		z.emitDoctype()
	default:
		// ignore
	}
}

// --- CDATA section (only reachable in foreign content; the tree
// constructor sets cdataAllowed per spec.md §9's tokenizer/parser
// shared-state note before the next token is requested) ---

func (z *Tokenizer) cdataSectionState(r rune) {
	switch r {
	case ']':
		if z.tryConsumeLiteral(r, "]]>") {
			z.flushChars()
			z.state = stateData
			return
		}
		z.appendChar(z.loc, ']')
	case eof:
		z.err(diag.BadToken, "eof in cdata")
		z.flushChars()
	default:
		z.appendChar(z.loc, r)
	}
}

// SetCDATAAllowed toggles whether "<![CDATA[" is recognized by
// MarkupDeclarationOpen. Only meaningful in foreign content (spec.md
// §4.6 "Foreign content"); the tree constructor calls this, mirroring the
// cross-stage RAWTEXT-mode call in applyRawtextSwitch/SetRawtextMode.
func (z *Tokenizer) SetCDATAAllowed(allowed bool) {
	z.cdataAllowed = allowed
}
