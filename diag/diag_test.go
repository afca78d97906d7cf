package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
)

func TestDiagnosticErrorFormatting(t *testing.T) {
	d := diag.New(signal.Location{Line: 2, Column: 5}, diag.BadToken, "unexpected character")
	assert.Equal(t, "2:5: bad-token: unexpected character", d.Error())
}

func TestDiagnosticErrorFormattingWithContext(t *testing.T) {
	d := diag.New(signal.Location{Line: 1, Column: 1}, diag.AttributeDuplicated, "duplicate attribute").
		WithContext("discarded-value")
	assert.Equal(t, "1:1: attribute-duplicated: duplicate attribute (discarded-value)", d.Error())
}

func TestDiscardDoesNothing(t *testing.T) {
	assert.NotPanics(t, func() {
		diag.Discard(diag.New(signal.Location{}, diag.BadDocument, "whatever"))
	})
}
