package htmltoken

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/signal"
)

// addAttribute records a freshly-named attribute, enforcing spec.md §3's
// duplicate rule: the first occurrence wins, and later duplicates are
// reported but not written into the token. It runs when the attribute's
// name ends, before any value is read, so the diagnostic's Context holds
// an empty string rather than the discarded duplicate's value.
//
// It sets z.pendingAttrIndex to the index finishAttrValue should later
// patch with the parsed value, or -1 if this occurrence is a duplicate
// and must be ignored — using an explicit index rather than "the last
// element of z.attrs" avoids mis-attributing a duplicate's value onto an
// unrelated, already-finished attribute.
func (z *Tokenizer) addAttribute(name, value string) {
	for _, a := range z.attrs {
		if a.Name.Local == name {
			z.report(diag.New(z.tokStart, diag.AttributeDuplicated,
				"duplicate attribute "+name).WithContext(value))
			z.pendingAttrIndex = -1
			return
		}
	}
	z.attrs = append(z.attrs, signal.Attribute{
		Name:  signal.Name{Local: name},
		Value: value,
	})
	z.pendingAttrIndex = len(z.attrs) - 1
}

func (z *Tokenizer) startBogusComment() {
	z.commentText.Reset()
	z.tokStart = z.loc
}
