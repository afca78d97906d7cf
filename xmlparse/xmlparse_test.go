package xmlparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/preprocess"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
	"github.com/ucarion/streamdoc/xmlparse"
)

func tokensOf(t *testing.T, src string) ([]signal.Token, []diag.Diagnostic) {
	t.Helper()
	var diags []diag.Diagnostic
	report := func(d diag.Diagnostic) { diags = append(diags, d) }
	input := preprocess.FromString(src, report)
	tok := xmlparse.NewTokenizer(input, report)
	toks, err := stream.ToList(tok.Tokens())
	assert.NoError(t, err)
	return toks, diags
}

func signalsOf(t *testing.T, src string) ([]signal.Signal, []diag.Diagnostic) {
	t.Helper()
	var diags []diag.Diagnostic
	report := func(d diag.Diagnostic) { diags = append(diags, d) }
	input := preprocess.FromString(src, report)
	tok := xmlparse.NewTokenizer(input, report)
	p := xmlparse.NewParser(tok.Tokens(), report)
	sigs, err := stream.ToList(p.Signals())
	assert.NoError(t, err)
	return sigs, diags
}

func TestTokenizerStartEndTags(t *testing.T) {
	toks, diags := tokensOf(t, `<a href="x">hi</a>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.TokenStart, toks[0].Kind)
	assert.Equal(t, "a", toks[0].Name)
	assert.Equal(t, []signal.Attribute{{Name: signal.Name{Local: "href"}, Value: "x"}}, toks[0].Attributes)
	assert.Equal(t, signal.TokenChars, toks[1].Kind)
	assert.Equal(t, "hi", toks[1].Text)
	assert.Equal(t, signal.TokenEnd, toks[2].Kind)
	assert.Equal(t, "a", toks[2].Name)
}

func TestTokenizerSelfClosing(t *testing.T) {
	toks, diags := tokensOf(t, `<br/>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.TokenStart, toks[0].Kind)
	assert.True(t, toks[0].SelfClosing)
}

func TestTokenizerCDATA(t *testing.T) {
	toks, diags := tokensOf(t, `<a><![CDATA[<not a tag>]]></a>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.TokenChars, toks[1].Kind)
	assert.True(t, toks[1].CDATA)
	assert.Equal(t, "<not a tag>", toks[1].Text)
}

func TestTokenizerPredefinedEntities(t *testing.T) {
	toks, diags := tokensOf(t, `<a>&amp;&lt;&#65;</a>`)
	assert.Empty(t, diags)
	assert.Equal(t, "&<A", toks[1].Text)
}

func TestTokenizerUnknownEntityReportsAndIsLiteral(t *testing.T) {
	toks, diags := tokensOf(t, `<a>&foo;</a>`)
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.BadToken, diags[0].Kind)
	assert.Equal(t, "&foo;", toks[1].Text)
}

func TestTokenizerDuplicateAttribute(t *testing.T) {
	_, diags := tokensOf(t, `<a x="1" x="2"/>`)
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.AttributeDuplicated, diags[0].Kind)
}

func TestParserSimpleDocument(t *testing.T) {
	sigs, diags := signalsOf(t, `<root><child/></root>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.SignalStartElement, sigs[0].Kind)
	assert.Equal(t, "root", sigs[0].QName.Local)
	assert.Equal(t, signal.SignalStartElement, sigs[1].Kind)
	assert.Equal(t, "child", sigs[1].QName.Local)
	assert.Equal(t, signal.SignalEndElement, sigs[2].Kind)
	assert.Equal(t, "child", sigs[2].QName.Local)
	assert.Equal(t, signal.SignalEndElement, sigs[3].Kind)
	assert.Equal(t, "root", sigs[3].QName.Local)
}

// Worked example: mismatched end tag recovery closes everything above the
// matching start tag and reports a single diagnostic.
func TestParserMismatchedEndTagRecovery(t *testing.T) {
	sigs, diags := signalsOf(t, `<a><b></a>`)

	assert.Len(t, diags, 1)
	assert.Equal(t, diag.UnmatchedEndTag, diags[0].Kind)

	var kinds []string
	for _, s := range sigs {
		switch s.Kind {
		case signal.SignalStartElement:
			kinds = append(kinds, "start:"+s.QName.Local)
		case signal.SignalEndElement:
			kinds = append(kinds, "end:"+s.QName.Local)
		}
	}
	assert.Equal(t, []string{"start:a", "start:b", "end:b", "end:a"}, kinds)
}

func TestParserNamespaceResolution(t *testing.T) {
	sigs, diags := signalsOf(t, `<a xmlns:x="urn:test"><x:b/></a>`)
	assert.Empty(t, diags)
	assert.Equal(t, "", sigs[0].QName.Space)
	assert.Equal(t, "a", sigs[0].QName.Local)
	assert.Equal(t, "urn:test", sigs[1].QName.Space)
	assert.Equal(t, "b", sigs[1].QName.Local)
}

func TestParserUndeclaredPrefixReportsBadNamespace(t *testing.T) {
	_, diags := signalsOf(t, `<x:a/>`)
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.BadNamespace, diags[0].Kind)
}

func TestParserDefaultNamespaceDoesNotApplyToAttributes(t *testing.T) {
	sigs, diags := signalsOf(t, `<a xmlns="urn:test" attr="v"/>`)
	assert.Empty(t, diags)
	assert.Equal(t, "urn:test", sigs[0].QName.Space)
	assert.Equal(t, 1, len(sigs[0].Attributes))
	assert.Equal(t, "", sigs[0].Attributes[0].Name.Space)
	assert.Equal(t, "attr", sigs[0].Attributes[0].Name.Local)
}

func TestParserXMLDeclOnlyAtDocumentStart(t *testing.T) {
	sigs, diags := signalsOf(t, `<?xml version="1.0" encoding="UTF-8"?><root/>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.SignalXMLDecl, sigs[0].Kind)
	assert.Equal(t, "1.0", sigs[0].XMLVersion)
	assert.True(t, sigs[0].HasEncoding)
	assert.Equal(t, "UTF-8", sigs[0].XMLEncoding)
}

func TestParserMultipleRootElementsReportsBadDocument(t *testing.T) {
	_, diags := signalsOf(t, `<a/><b/>`)
	assert.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Kind == diag.BadDocument {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParserNoRootElementReportsBadDocument(t *testing.T) {
	_, diags := signalsOf(t, `<!-- just a comment -->`)
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.BadDocument, diags[0].Kind)
}
