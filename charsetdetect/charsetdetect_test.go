package charsetdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/charsetdetect"
	"github.com/ucarion/streamdoc/diag"
)

func TestDetectForcedEncodingWins(t *testing.T) {
	got := charsetdetect.Detect([]byte(`<html></html>`), charsetdetect.ModeHTML, "shift_jis")
	assert.Equal(t, "shift_jis", got)
}

func TestDetectUTF8BOM(t *testing.T) {
	got := charsetdetect.Detect([]byte("\xEF\xBB\xBF<html></html>"), charsetdetect.ModeHTML, "")
	assert.Equal(t, "utf-8", got)
}

func TestDetectXMLDeclarationEncoding(t *testing.T) {
	got := charsetdetect.Detect([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><root/>`), charsetdetect.ModeXML, "")
	assert.Equal(t, "ISO-8859-1", got)
}

func TestDetectXMLFallbackIsUTF8(t *testing.T) {
	got := charsetdetect.Detect([]byte(`<root/>`), charsetdetect.ModeXML, "")
	assert.Equal(t, "utf-8", got)
}

func TestDetectHTMLFallbackIsWindows1252(t *testing.T) {
	got := charsetdetect.Detect([]byte(`<p>plain</p>`), charsetdetect.ModeHTML, "")
	assert.Equal(t, "windows-1252", got)
}

func TestDetectHTMLMetaCharset(t *testing.T) {
	got := charsetdetect.Detect([]byte(`<meta charset="utf-8">`), charsetdetect.ModeHTML, "")
	assert.Equal(t, "utf-8", got)
}

func TestDecodeUTF8Passthrough(t *testing.T) {
	var diags []string
	dec := charsetdetect.NewDecoder("utf-8", func(d diag.Diagnostic) {
		diags = append(diags, d.Error())
	})
	got := dec.Decode([]byte("héllo"))
	assert.Equal(t, "héllo", got)
	assert.Empty(t, diags)
}

func TestDecodeWindows1252(t *testing.T) {
	dec := charsetdetect.NewDecoder("windows-1252", nil)
	// 0xE9 in windows-1252 is U+00E9 (é).
	got := dec.Decode([]byte{'h', 0xE9, 'l', 'l', 'o'})
	assert.Equal(t, "héllo", got)
}
