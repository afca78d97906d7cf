package charsetdetect

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
)

// Decoder maps bytes to Unicode code points for one of the encodings
// spec.md §4.3 requires at minimum: UTF-8, UTF-16 (both endiannesses),
// Latin-1/Windows-1252, and US-ASCII. Invalid sequences decode to U+FFFD
// with a diagnostic rather than stopping.
type Decoder struct {
	transform transform.Transformer
	report    diag.Reporter
	loc       signal.Location // synthetic location used only for the pre-preprocess diagnostic
}

// NewDecoder resolves name (as produced by Detect, or an IANA label from
// a forced-encoding override) to a decoder. Unknown labels fall back to
// UTF-8, matching charset.Lookup's own behavior, and report a decoding
// diagnostic.
func NewDecoder(name string, report diag.Reporter) *Decoder {
	if report == nil {
		report = diag.Discard
	}
	enc := lookupEncoding(name)
	if enc == nil {
		report(diag.New(signal.Location{Line: 1, Column: 1}, diag.DecodingError,
			"unknown encoding label, falling back to utf-8").WithContext(name))
		return &Decoder{transform: unicode.UTF8.NewDecoder(), report: report}
	}
	return &Decoder{transform: enc.NewDecoder(), report: report}
}

func lookupEncoding(name string) encoding.Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return unicode.UTF8
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "latin1", "iso-8859-1", "windows-1252", "cp1252":
		// spec.md §4.3: "treat 0x80-0x9F via the Windows-1252 table even
		// when the declared encoding is Latin-1, per the HTML
		// specification".
		return charmap.Windows1252
	}
	if e, _ := charset.Lookup(name); e != nil {
		return e
	}
	return nil
}

// Decode converts raw bytes to a UTF-8 string, substituting U+FFFD for any
// byte sequence the underlying encoding rejects and reporting a
// DecodingError diagnostic for each substitution.
func (d *Decoder) Decode(raw []byte) string {
	out, _, err := transform.Bytes(d.transform, raw)
	if err == nil {
		return string(out)
	}
	// transform.Bytes stops at the first error; decode what succeeded,
	// substitute one U+FFFD, and resume past the offending byte. This
	// mirrors the tolerant, never-stop contract spec.md §4.3 requires.
	var b strings.Builder
	rest := raw
	for {
		chunk, n, terr := transform.Bytes(d.transform, rest)
		b.Write(chunk)
		if terr == nil {
			break
		}
		d.report(diag.New(signal.Location{Line: 1, Column: 1}, diag.DecodingError,
			"invalid byte sequence for encoding, substituting U+FFFD"))
		b.WriteRune(utf8.RuneError)
		if n >= len(rest) {
			break
		}
		rest = rest[n+1:]
		if len(rest) == 0 {
			break
		}
	}
	return b.String()
}
