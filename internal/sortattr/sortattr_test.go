package sortattr_test

import (
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/internal/sortattr"
	"github.com/ucarion/streamdoc/signal"
)

func TestSortAttr(t *testing.T) {
	type testCase struct {
		In  []signal.Attribute
		Out []signal.Attribute
	}

	ns := signal.NamespaceXMLNS

	testCases := []testCase{
		{
			In: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: ""}, Value: "https://example.com"},
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
			},
			Out: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: ""}, Value: "https://example.com"},
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
			},
		},
		{
			In: []signal.Attribute{
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
				{Name: signal.Name{Space: ns, Local: ""}, Value: "https://example.com"},
			},
			Out: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: ""}, Value: "https://example.com"},
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
			},
		},
		{
			In: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: "foo"}, Value: "https://example.com"},
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
			},
			Out: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: "foo"}, Value: "https://example.com"},
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
			},
		},
		{
			In: []signal.Attribute{
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
				{Name: signal.Name{Space: ns, Local: "foo"}, Value: "https://example.com"},
			},
			Out: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: "foo"}, Value: "https://example.com"},
				{Name: signal.Name{Space: "http://foo", Local: "bar"}, Value: "baz"},
			},
		},
		{
			In: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: "foo"}, Value: "https://example.com"},
				{Name: signal.Name{Space: ns, Local: "bar"}, Value: "https://example.com"},
			},
			Out: []signal.Attribute{
				{Name: signal.Name{Space: ns, Local: "bar"}, Value: "https://example.com"},
				{Name: signal.Name{Space: ns, Local: "foo"}, Value: "https://example.com"},
			},
		},
		{
			In: []signal.Attribute{
				{Name: signal.Name{Space: "http://a", Local: "attr"}, Value: "out"},
				{Name: signal.Name{Space: "http://b", Local: "attr"}, Value: "sorted"},
				{Name: signal.Name{Space: "", Local: "attr2"}, Value: "all"},
				{Name: signal.Name{Space: "", Local: "attr"}, Value: "I'm"},
			},
			Out: []signal.Attribute{
				{Name: signal.Name{Space: "", Local: "attr"}, Value: "I'm"},
				{Name: signal.Name{Space: "", Local: "attr2"}, Value: "all"},
				{Name: signal.Name{Space: "http://a", Local: "attr"}, Value: "out"},
				{Name: signal.Name{Space: "http://b", Local: "attr"}, Value: "sorted"},
			},
		},
	}

	for i, tt := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			attrs := sortattr.SortAttr{Attrs: append([]signal.Attribute(nil), tt.In...)}
			sort.Sort(attrs)
			assert.Equal(t, tt.Out, attrs.Attrs)
		})
	}
}
