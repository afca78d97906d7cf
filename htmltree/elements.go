package htmltree

import "github.com/ucarion/streamdoc/signal"

// VoidElements never have an end tag and self-close implicitly (HTML
// specification §12.2.6.1 "void elements"), re-exported so the writer can
// apply the same rule independently and testably (SPEC_FULL.md §12).
var VoidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// formattingElements is the set of tags the active-formatting-elements
// list tracks (HTML specification §12.2.3.3).
var formattingElements = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}

var defaultScopeStop = map[string]bool{
	"applet": true, "caption": true, "html": true, "table": true, "td": true,
	"th": true, "marquee": true, "object": true, "template": true,
}

var listItemScopeStop = unionSet(defaultScopeStop, map[string]bool{"ol": true, "ul": true})
var buttonScopeStop = unionSet(defaultScopeStop, map[string]bool{"button": true})
var tableScopeStop = map[string]bool{"html": true, "table": true, "template": true}
var selectScopeStop = map[string]bool{} // everything EXCEPT optgroup/option stops select scope; handled specially

func unionSet(a, b map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// impliedEndTags are elements popUntil-style algorithms close implicitly
// (HTML specification's "generate implied end tags").
var impliedEndTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

// specialElements is used by the adoption agency algorithm's "has another
// element in special category" check (approximated to the common HTML
// body-level special elements, which covers the spec's testable
// scenarios; the full list also includes MathML/SVG integration points).
var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true,
	"aside": true, "base": true, "basefont": true, "bgsound": true,
	"blockquote": true, "body": true, "br": true, "button": true,
	"caption": true, "center": true, "col": true, "colgroup": true, "dd": true,
	"details": true, "dir": true, "div": true, "dl": true, "dt": true,
	"embed": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "frame": true, "frameset": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"header": true, "hgroup": true, "hr": true, "html": true, "iframe": true,
	"img": true, "input": true, "li": true, "link": true, "listing": true,
	"main": true, "marquee": true, "menu": true, "meta": true, "nav": true,
	"noembed": true, "noframes": true, "noscript": true, "object": true,
	"ol": true, "optgroup": true, "option": true, "p": true, "param": true,
	"plaintext": true, "pre": true, "script": true, "section": true,
	"select": true, "source": true, "style": true, "summary": true,
	"table": true, "tbody": true, "td": true, "template": true,
	"textarea": true, "tfoot": true, "th": true, "thead": true, "title": true,
	"tr": true, "track": true, "ul": true, "wbr": true, "xmp": true,
}

func htmlName(local string) signal.Name {
	return signal.Name{Space: signal.NamespaceHTML, Local: local}
}
