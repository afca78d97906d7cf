package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/signal"
)

func TestLocationBefore(t *testing.T) {
	assert.True(t, (signal.Location{Line: 1, Column: 1}).Before(signal.Location{Line: 1, Column: 2}))
	assert.True(t, (signal.Location{Line: 1, Column: 5}).Before(signal.Location{Line: 2, Column: 1}))
	assert.False(t, (signal.Location{Line: 2, Column: 1}).Before(signal.Location{Line: 1, Column: 5}))
	assert.False(t, (signal.Location{Line: 1, Column: 1}).Before(signal.Location{Line: 1, Column: 1}))
}

func TestTextConstructor(t *testing.T) {
	s := signal.Text(signal.Location{Line: 1, Column: 1}, "a", "b")
	assert.Equal(t, signal.SignalText, s.Kind)
	assert.Equal(t, []string{"a", "b"}, s.Runs)
}

func TestStartEndElementConstructors(t *testing.T) {
	loc := signal.Location{Line: 3, Column: 4}
	name := signal.Name{Local: "p"}
	attrs := []signal.Attribute{{Name: signal.Name{Local: "id"}, Value: "x"}}

	start := signal.StartElement(loc, name, attrs)
	assert.Equal(t, signal.SignalStartElement, start.Kind)
	assert.Equal(t, name, start.QName)
	assert.Equal(t, attrs, start.Attributes)

	end := signal.EndElement(loc, name)
	assert.Equal(t, signal.SignalEndElement, end.Kind)
	assert.Equal(t, name, end.QName)
}
