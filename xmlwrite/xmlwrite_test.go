package xmlwrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
	"github.com/ucarion/streamdoc/xmlwrite"
)

func write(t *testing.T, sigs []signal.Signal, hint func(string) (string, bool)) string {
	t.Helper()
	out, err := xmlwrite.Write(stream.FromSlice(sigs), nil, hint)
	assert.NoError(t, err)
	return string(out)
}

func TestWriteSimpleElement(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "root"}, []signal.Attribute{
			{Name: signal.Name{Local: "a"}, Value: "1"},
		}),
		signal.Text(loc, "hi"),
		signal.EndElement(loc, signal.Name{Local: "root"}),
	}
	assert.Equal(t, `<root a="1">hi</root>`, write(t, sigs, nil))
}

func TestWriteEscapesText(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "a"}, nil),
		signal.Text(loc, `<&>'"`),
		signal.EndElement(loc, signal.Name{Local: "a"}),
	}
	assert.Equal(t, `<a>&lt;&amp;&gt;'"</a>`, write(t, sigs, nil))
}

func TestWriteEscapesAttrValues(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "a"}, []signal.Attribute{
			{Name: signal.Name{Local: "x"}, Value: `<&>'"`},
		}),
		signal.EndElement(loc, signal.Name{Local: "a"}),
	}
	assert.Equal(t, `<a x="&lt;&amp;&gt;&apos;&quot;"></a>`, write(t, sigs, nil))
}

func TestWriteCDATA(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "a"}, nil),
		{Kind: signal.SignalText, Loc: loc, Runs: []string{"<raw>"}, CDATA: true},
		signal.EndElement(loc, signal.Name{Local: "a"}),
	}
	assert.Equal(t, `<a><![CDATA[<raw>]]></a>`, write(t, sigs, nil))
}

func TestWriteSynthesizesNamespacePrefix(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Space: "urn:test", Local: "root"}, nil),
		signal.EndElement(loc, signal.Name{Space: "urn:test", Local: "root"}),
	}
	assert.Equal(t, `<ns1:root xmlns:ns1="urn:test"></ns1:root>`, write(t, sigs, nil))
}

func TestWriteNamespaceHintOverridesSynth(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Space: "urn:test", Local: "root"}, nil),
		signal.EndElement(loc, signal.Name{Space: "urn:test", Local: "root"}),
	}
	hint := func(uri string) (string, bool) {
		if uri == "urn:test" {
			return "t", true
		}
		return "", false
	}
	assert.Equal(t, `<t:root xmlns:t="urn:test"></t:root>`, write(t, sigs, hint))
}

func TestWriteNestedInheritsNamespaceInScope(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Space: "urn:test", Local: "root"}, nil),
		signal.StartElement(loc, signal.Name{Space: "urn:test", Local: "child"}, nil),
		signal.EndElement(loc, signal.Name{Space: "urn:test", Local: "child"}),
		signal.EndElement(loc, signal.Name{Space: "urn:test", Local: "root"}),
	}
	got := write(t, sigs, nil)
	assert.Equal(t, `<ns1:root xmlns:ns1="urn:test"><ns1:child></ns1:child></ns1:root>`, got)
}

func TestWriteXMLDecl(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		{Kind: signal.SignalXMLDecl, Loc: loc, XMLVersion: "1.0", XMLEncoding: "UTF-8", HasEncoding: true},
		signal.StartElement(loc, signal.Name{Local: "root"}, nil),
		signal.EndElement(loc, signal.Name{Local: "root"}),
	}
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><root></root>`, write(t, sigs, nil))
}
