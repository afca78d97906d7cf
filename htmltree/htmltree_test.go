package htmltree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/entity"
	"github.com/ucarion/streamdoc/htmltoken"
	"github.com/ucarion/streamdoc/htmltree"
	"github.com/ucarion/streamdoc/preprocess"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

func parse(t *testing.T, src string, opts htmltree.Options) ([]signal.Signal, []diag.Diagnostic) {
	t.Helper()
	var diags []diag.Diagnostic
	report := func(d diag.Diagnostic) { diags = append(diags, d) }
	opts.Report = report
	input := preprocess.FromString(src, report)
	z := htmltoken.New(input, report, entity.New())
	p := htmltree.New(z.Tokens(), z, opts)
	sigs, err := stream.ToList(p.Signals())
	assert.NoError(t, err)
	return sigs, diags
}

func names(sigs []signal.Signal) []string {
	var out []string
	for _, s := range sigs {
		switch s.Kind {
		case signal.SignalStartElement:
			out = append(out, "start:"+s.QName.Local)
		case signal.SignalEndElement:
			out = append(out, "end:"+s.QName.Local)
		}
	}
	return out
}

func TestFullDocumentSynthesizesHTMLHeadBody(t *testing.T) {
	sigs, diags := parse(t, `<!DOCTYPE html><title>hi</title><p>text</p>`, htmltree.Options{})
	assert.Empty(t, diags)
	ns := names(sigs)
	assert.Contains(t, ns, "start:html")
	assert.Contains(t, ns, "start:head")
	assert.Contains(t, ns, "start:title")
	assert.Contains(t, ns, "start:body")
	assert.Contains(t, ns, "start:p")
}

func TestFragmentBodyContextSkipsWrapper(t *testing.T) {
	sigs, _ := parse(t, `<p>hi</p>`, htmltree.Options{FragmentContext: "body"})
	ns := names(sigs)
	assert.Equal(t, []string{"start:p", "end:p"}, ns)
}

func TestTableFosterParentsStrayText(t *testing.T) {
	sigs, _ := parse(t, `<table>foo<tr><td>bar</td></tr></table>`, htmltree.Options{FragmentContext: "body"})

	var order []string
	for _, s := range sigs {
		switch s.Kind {
		case signal.SignalStartElement:
			order = append(order, "start:"+s.QName.Local)
		case signal.SignalEndElement:
			order = append(order, "end:"+s.QName.Local)
		case signal.SignalText:
			for _, r := range s.Runs {
				order = append(order, "text:"+r)
			}
		}
	}
	// "foo" is foster-parented before the table, not inside it: the
	// table's own StartElement is withheld until the <tr> forces it out,
	// so "foo" (emitted via fosterText while it's still pending) ends up
	// ahead of it in the signal stream.
	assert.Equal(t, []string{
		"text:foo",
		"start:table", "start:tbody", "start:tr", "start:td",
		"text:bar",
		"end:td", "end:tr", "end:tbody", "end:table",
	}, order)
}

func TestUnknownEndTagInBodyIsIgnored(t *testing.T) {
	sigs, diags := parse(t, `<p>hi</notatag></p>`, htmltree.Options{FragmentContext: "body"})
	assert.NotEmpty(t, diags)
	ns := names(sigs)
	assert.Equal(t, []string{"start:p", "end:p"}, ns)
}

func TestSelectKeepsOptionStructure(t *testing.T) {
	sigs, _ := parse(t, `<select><option>a</option><option>b</option></select>`, htmltree.Options{FragmentContext: "body"})
	ns := names(sigs)
	assert.Equal(t, []string{"start:select", "start:option", "end:option", "start:option", "end:option", "end:select"}, ns)
}
