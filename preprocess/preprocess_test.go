package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/preprocess"
	"github.com/ucarion/streamdoc/stream"
)

func runesOf(t *testing.T, src string) ([]rune, []signalLoc, []diag.Diagnostic) {
	t.Helper()
	var diags []diag.Diagnostic
	report := func(d diag.Diagnostic) { diags = append(diags, d) }
	vals, err := stream.ToList(preprocess.FromString(src, report))
	assert.NoError(t, err)

	var rs []rune
	var locs []signalLoc
	for _, p := range vals {
		rs = append(rs, p.R)
		locs = append(locs, signalLoc{p.Loc.Line, p.Loc.Column})
	}
	return rs, locs, diags
}

type signalLoc struct{ Line, Column int }

func TestNormalizesCRLF(t *testing.T) {
	rs, _, diags := runesOf(t, "a\r\nb")
	assert.Empty(t, diags)
	assert.Equal(t, []rune{'a', '\n', 'b'}, rs)
}

func TestNormalizesLoneCR(t *testing.T) {
	rs, _, diags := runesOf(t, "a\rb")
	assert.Empty(t, diags)
	assert.Equal(t, []rune{'a', '\n', 'b'}, rs)
}

func TestTracksLineAndColumn(t *testing.T) {
	_, locs, _ := runesOf(t, "ab\ncd")
	assert.Equal(t, []signalLoc{
		{1, 1}, {1, 2}, {1, 3}, {2, 1}, {2, 2},
	}, locs)
}

func TestRejectsSurrogateCodePoint(t *testing.T) {
	// preprocess.FromString round-trips through a Go string, which cannot
	// itself hold a lone surrogate; exercise the rejection directly
	// against a raw rune stream instead, as a decoder producing malformed
	// UTF-16 output might.
	var diags []diag.Diagnostic
	report := func(d diag.Diagnostic) { diags = append(diags, d) }
	raw := stream.FromSlice([]rune{'a', 0xD800, 'b'})
	vals, err := stream.ToList(preprocess.New(raw, report))
	assert.NoError(t, err)

	assert.Len(t, diags, 1)
	assert.Equal(t, diag.DecodingError, diags[0].Kind)

	var rs []rune
	for _, p := range vals {
		rs = append(rs, p.R)
	}
	assert.Equal(t, []rune{'a', 0xFFFD, 'b'}, rs)
}
