package streamdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc"
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

func tagSequence(t *testing.T, sigs *stream.Stream[signal.Signal]) []string {
	t.Helper()
	vals, err := stream.ToList(sigs)
	assert.NoError(t, err)
	var out []string
	for _, s := range vals {
		switch s.Kind {
		case signal.SignalStartElement:
			out = append(out, "start:"+s.QName.Local)
		case signal.SignalEndElement:
			out = append(out, "end:"+s.QName.Local)
		case signal.SignalText:
			for _, r := range s.Runs {
				out = append(out, "text:"+r)
			}
		}
	}
	return out
}

// Worked example: a <tr> directly inside <table>, with no explicit
// <tbody>, gets an implied <tbody> wrapper (spec.md §8).
func TestImplicitTbodyInsertion(t *testing.T) {
	sigs := streamdoc.ParseHTML([]byte(`<table><tr><td>x</table>`), streamdoc.WithFragment("body"))
	seq := tagSequence(t, sigs)
	assert.Contains(t, seq, "start:tbody")
	assert.Contains(t, seq, "start:tr")
	assert.Contains(t, seq, "start:td")
	assert.Contains(t, seq, "text:x")
}

// Worked example: the adoption agency algorithm reparents misnested
// formatting elements (spec.md §8).
func TestAdoptionAgencyMisnesting(t *testing.T) {
	sigs := streamdoc.ParseHTML([]byte(`<b>1<i>2</b>3</i>4`), streamdoc.WithFragment("body"))
	seq := tagSequence(t, sigs)
	assert.Contains(t, seq, "start:b")
	assert.Contains(t, seq, "start:i")
	assert.Contains(t, seq, "text:1")
	assert.Contains(t, seq, "text:2")
	assert.Contains(t, seq, "text:3")
	assert.Contains(t, seq, "text:4")
}

func TestParseHTMLFragmentNoDiagnostics(t *testing.T) {
	var diags []diag.Diagnostic
	sigs := streamdoc.ParseHTML([]byte(`<p>hello <b>world</b></p>`),
		streamdoc.WithFragment("body"),
		streamdoc.WithReport(func(d diag.Diagnostic) { diags = append(diags, d) }))
	_, err := stream.ToList(sigs)
	assert.NoError(t, err)
	assert.Empty(t, diags)
}

func TestHTMLRoundTrip(t *testing.T) {
	sigs := streamdoc.ParseHTML([]byte(`<p>hello <b>world</b></p>`), streamdoc.WithFragment("body"))
	out, err := streamdoc.WriteHTML(sigs)
	assert.NoError(t, err)
	assert.Equal(t, `<p>hello <b>world</b></p>`, string(out))
}

func TestXMLRoundTripNamespaces(t *testing.T) {
	var diags []diag.Diagnostic
	sigs := streamdoc.ParseXML([]byte(`<a xmlns:x="urn:test"><x:b/></a>`),
		streamdoc.WithReport(func(d diag.Diagnostic) { diags = append(diags, d) }))
	out, err := streamdoc.WriteXML(sigs)
	assert.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, `<a><ns1:b xmlns:ns1="urn:test"></ns1:b></a>`, string(out))
}

func TestXMLMismatchedEndTagRecoveryDiagnostic(t *testing.T) {
	var diags []diag.Diagnostic
	sigs := streamdoc.ParseXML([]byte(`<a><b></a>`),
		streamdoc.WithReport(func(d diag.Diagnostic) { diags = append(diags, d) }))
	_, err := stream.ToList(sigs)
	assert.NoError(t, err)
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.UnmatchedEndTag, diags[0].Kind)
}
