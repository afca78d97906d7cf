// Command streamdoc reads a document from stdin and writes it back to
// stdout, round-tripped through the parse/write pipeline.
//
// Grounded on the teacher's (ucarion-c14n) cmd/c14n/main.go: read all of
// stdin, run it through the package's single top-level entry point,
// print the result, panic on error. Extended with flags since this
// module's entry point takes format and configuration options the
// teacher's single-purpose CLI didn't need.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ucarion/streamdoc"
	"github.com/ucarion/streamdoc/diag"
)

func main() {
	xmlMode := flag.Bool("xml", false, "parse input as XML instead of HTML")
	encoding := flag.String("encoding", "", "force a character encoding, overriding detection")
	fragment := flag.String("fragment", "", "parse as an HTML fragment in the context of this element name")
	flag.Parse()

	raw, err := streamdoc.ReadAll(os.Stdin)
	if err != nil {
		panic(err)
	}

	var diags []diag.Diagnostic
	report := func(d diag.Diagnostic) { diags = append(diags, d) }

	opts := []streamdoc.Option{streamdoc.WithReport(report)}
	if *encoding != "" {
		opts = append(opts, streamdoc.WithEncoding(*encoding))
	}

	var out []byte
	if *xmlMode {
		signals := streamdoc.ParseXML(raw, opts...)
		out, err = streamdoc.WriteXML(signals, streamdoc.WithReport(report))
	} else {
		if *fragment != "" {
			opts = append(opts, streamdoc.WithFragment(*fragment))
		}
		signals := streamdoc.ParseHTML(raw, opts...)
		out, err = streamdoc.WriteHTML(signals, streamdoc.WithReport(report))
	}
	if err != nil {
		panic(err)
	}

	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}

	os.Stdout.Write(out)
}
