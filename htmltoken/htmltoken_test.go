package htmltoken_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/entity"
	"github.com/ucarion/streamdoc/htmltoken"
	"github.com/ucarion/streamdoc/preprocess"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

func tokensOf(t *testing.T, src string) ([]signal.Token, []diag.Diagnostic) {
	t.Helper()
	var diags []diag.Diagnostic
	report := func(d diag.Diagnostic) { diags = append(diags, d) }
	input := preprocess.FromString(src, report)
	z := htmltoken.New(input, report, entity.New())
	toks, err := stream.ToList(z.Tokens())
	assert.NoError(t, err)
	return toks, diags
}

func TestTokenizeStartEndTags(t *testing.T) {
	toks, diags := tokensOf(t, `<p class="a">hi</p>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.TokenStart, toks[0].Kind)
	assert.Equal(t, "p", toks[0].Name)
	assert.Equal(t, []signal.Attribute{{Name: signal.Name{Local: "class"}, Value: "a"}}, toks[0].Attributes)
	assert.Equal(t, signal.TokenChars, toks[1].Kind)
	assert.Equal(t, "hi", toks[1].Text)
	assert.Equal(t, signal.TokenEnd, toks[2].Kind)
	assert.Equal(t, "p", toks[2].Name)
}

func TestTokenizeNamedCharacterReference(t *testing.T) {
	toks, diags := tokensOf(t, `&amp;&lt;&copy;`)
	assert.Empty(t, diags)
	assert.Equal(t, "&<©", toks[0].Text)
}

func TestTokenizeNumericCharacterReference(t *testing.T) {
	toks, diags := tokensOf(t, `&#65;&#x42;`)
	assert.Empty(t, diags)
	assert.Equal(t, "AB", toks[0].Text)
}

func TestTokenizeComment(t *testing.T) {
	toks, diags := tokensOf(t, `<!-- hello -->`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.TokenComment, toks[0].Kind)
	assert.Equal(t, " hello ", toks[0].Text)
}

func TestTokenizeDoctype(t *testing.T) {
	toks, diags := tokensOf(t, `<!DOCTYPE html>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.TokenDoctype, toks[0].Kind)
	assert.Equal(t, "html", toks[0].Doctype.Name)
}

func TestTokenizeSelfClosingTag(t *testing.T) {
	toks, diags := tokensOf(t, `<br/>`)
	assert.Empty(t, diags)
	assert.True(t, toks[0].SelfClosing)
}

func TestTokenizeScriptDataIsRaw(t *testing.T) {
	toks, diags := tokensOf(t, `<script>if (a < b) {}</script>`)
	assert.Empty(t, diags)
	assert.Equal(t, signal.TokenStart, toks[0].Kind)
	assert.Equal(t, signal.TokenChars, toks[1].Kind)
	assert.Equal(t, "if (a < b) {}", toks[1].Text)
	assert.Equal(t, signal.TokenEnd, toks[2].Kind)
}

func TestTokenizeDuplicateAttributeReportsDiagnostic(t *testing.T) {
	_, diags := tokensOf(t, `<a x="1" x="2">`)
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.AttributeDuplicated, diags[0].Kind)
}

func TestTokenizeUnquotedAttributeValue(t *testing.T) {
	toks, diags := tokensOf(t, `<a href=foo>`)
	assert.Empty(t, diags)
	assert.Equal(t, "foo", toks[0].Attributes[0].Value)
}
