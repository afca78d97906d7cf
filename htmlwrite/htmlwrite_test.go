package htmlwrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/htmlwrite"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

func write(t *testing.T, sigs []signal.Signal) string {
	t.Helper()
	out, err := htmlwrite.Write(stream.FromSlice(sigs), nil)
	assert.NoError(t, err)
	return string(out)
}

func TestWriteSimpleElement(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "p"}, nil),
		signal.Text(loc, "hi"),
		signal.EndElement(loc, signal.Name{Local: "p"}),
	}
	assert.Equal(t, `<p>hi</p>`, write(t, sigs))
}

func TestWriteVoidElementHasNoEndTag(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "br"}, nil),
		signal.EndElement(loc, signal.Name{Local: "br"}),
	}
	assert.Equal(t, `<br>`, write(t, sigs))
}

func TestWriteEscapesTextButNotQuotes(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "p"}, nil),
		signal.Text(loc, `<&>'"`),
		signal.EndElement(loc, signal.Name{Local: "p"}),
	}
	assert.Equal(t, `<p>&lt;&amp;&gt;'"</p>`, write(t, sigs))
}

func TestWriteEscapesAttrValues(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "a"}, []signal.Attribute{
			{Name: signal.Name{Local: "href"}, Value: `x"y&z`},
		}),
		signal.EndElement(loc, signal.Name{Local: "a"}),
	}
	assert.Equal(t, `<a href="x&quot;y&amp;z"></a>`, write(t, sigs))
}

func TestWriteScriptBodyIsRaw(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		signal.StartElement(loc, signal.Name{Local: "script"}, nil),
		signal.Text(loc, `if (a < b) {}`),
		signal.EndElement(loc, signal.Name{Local: "script"}),
	}
	assert.Equal(t, `<script>if (a < b) {}</script>`, write(t, sigs))
}

func TestWriteComment(t *testing.T) {
	loc := signal.Location{Line: 1, Column: 1}
	sigs := []signal.Signal{
		{Kind: signal.SignalComment, Loc: loc, Text: " hi "},
	}
	assert.Equal(t, `<!-- hi -->`, write(t, sigs))
}
