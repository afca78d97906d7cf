// Package htmltree implements the HTML tree-construction state machine,
// spec.md §4.6 (HTML specification §12.2.6): insertion modes driven by
// (token, current mode, top of stack, template stack, foreign-content)
// tuples, the stack of open elements, the active-formatting-elements
// list, the adoption agency algorithm, and foster parenting — emitting
// Signal values instead of building a DOM.
//
// Grounded on the shape of golang.org/x/net/html's parser (vendored in
// the pack as .../go-src-pkg-html-parse.go.go): popUntil, addChild/
// addElement/addFormattingElement, and the overall insertion-mode
// dispatch are all adapted from that file, generalized from "build a
// *Node tree" to "emit a Signal and push an index into a nodepool.Pool".
package htmltree

import (
	"github.com/ucarion/streamdoc/diag"
	"github.com/ucarion/streamdoc/internal/nodepool"
	"github.com/ucarion/streamdoc/signal"
	"github.com/ucarion/streamdoc/stream"
)

type mode int

const (
	modeInitial mode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeInHeadNoscript
	modeAfterHead
	modeInBody
	modeText
	modeInTable
	modeInTableText
	modeInCaption
	modeInColumnGroup
	modeInTableBody
	modeInRow
	modeInCell
	modeInSelect
	modeInSelectInTable
	modeInTemplate
	modeAfterBody
	modeInFrameset
	modeAfterFrameset
	modeAfterAfterBody
	modeAfterAfterFrameset
)

// QuirksMode is the document-level quirks classification derived from a
// doctype (SPEC_FULL.md §12).
type QuirksMode int

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

// TokenizerControl is the subset of htmltoken.Tokenizer the tree
// constructor drives directly (spec.md §9: "Shared mutable state ...
// becomes an explicit method on the tokenizer called by the parser
// between tokens").
type TokenizerControl interface {
	SetRawtextMode()
	SetCDATAAllowed(bool)
}

// Options configures fragment parsing and scripting (spec.md §6).
type Options struct {
	Scripting bool
	// FragmentContext, if non-empty, parses the input as a fragment in
	// the context of this HTML element name (spec.md §6 `context`
	// "fragment with element name").
	FragmentContext string
	Report          diag.Reporter
}

// Parser is the HTML tree constructor.
type Parser struct {
	tokens  *stream.Stream[signal.Token]
	control TokenizerControl
	report  diag.Reporter
	opts    Options

	pool *nodepool.Pool
	oe   *nodepool.Stack // stack of open elements
	afe  *nodepool.Stack // active formatting elements, with markers

	htmlIdx  int
	headIdx  int
	formIdx  int
	haveForm bool

	mode         mode
	originalMode mode
	templateModes []mode

	framesetOK bool
	quirks     QuirksMode

	tok                 signal.Token
	hasSelfClosingToken bool
	reprocess           bool

	pendingTableText         []string
	pendingTableTextHadNonWS bool

	// pendingTableStarts holds a table element's own StartElement signal
	// between "insert an HTML element" and the next signal that proves it
	// needs to go out. Withholding it is what makes foster parenting
	// (HTML specification §12.2.6.1) possible in a flat signal stream:
	// content fostered "immediately before the table" is emitted via
	// emitRaw while the table's start is still pending, so it lands ahead
	// of the table in the stream once flushPendingTableStarts catches up.
	pendingTableStarts []signal.Signal

	emitted []signal.Signal
	done    bool
}

// New constructs a Parser reading tokens from tokens.
func New(tokens *stream.Stream[signal.Token], control TokenizerControl, opts Options) *Parser {
	report := opts.Report
	if report == nil {
		report = diag.Discard
	}
	p := &Parser{
		tokens:  tokens,
		control: control,
		report:  report,
		opts:    opts,
		pool:    &nodepool.Pool{},
		htmlIdx: -1,
		headIdx: -1,
		formIdx: -1,
		mode:    modeInitial,
		framesetOK: true,
	}
	p.oe = nodepool.NewStack(p.pool)
	p.afe = nodepool.NewStack(p.pool)
	if opts.FragmentContext != "" {
		p.initFragment(opts.FragmentContext)
	}
	return p
}

// Signals exposes the tree constructor as a pull stream of Signal.
func (p *Parser) Signals() *stream.Stream[signal.Signal] {
	return stream.FromFunc(func(onErr stream.OnError, onEnd stream.OnEnd, onVal stream.OnValue[signal.Signal]) {
		for len(p.emitted) == 0 {
			if p.done {
				onEnd()
				return
			}
			if err := p.stepOnce(); err != nil {
				onErr(err)
				return
			}
		}
		sig := p.emitted[0]
		p.emitted = p.emitted[1:]
		onVal(sig)
	})
}

func (p *Parser) stepOnce() error {
	if !p.reprocess {
		tok, err := p.readToken()
		if err != nil {
			return err
		}
		p.tok = tok
	}
	p.reprocess = false

	if p.tok.Kind == signal.TokenEOF {
		p.handleEOF()
		return nil
	}
	p.dispatch()
	if p.control != nil && p.oe.Len() > 0 {
		// CDATA sections are recognized only while the current node is a
		// foreign (MathML/SVG) element.
		p.control.SetCDATAAllowed(p.top().Namespace != signal.NamespaceHTML)
	}
	return nil
}

func (p *Parser) readToken() (signal.Token, error) {
	var tok signal.Token
	var rerr error
	var ended bool
	p.tokens.Advance(
		func(e error) { rerr = e },
		func() { ended = true },
		func(v signal.Token) { tok = v },
	)
	if rerr != nil {
		return signal.Token{}, rerr
	}
	if ended {
		return signal.Token{Kind: signal.TokenEOF}, nil
	}
	return tok, nil
}

// reconsume re-dispatches the current token under a new mode (the HTML
// specification's "reprocess the token").
func (p *Parser) reconsumeIn(m mode) {
	p.mode = m
	p.reprocess = true
}

// emit delivers sig in document order: any table StartElement signal still
// withheld by insertHTMLElement is flushed first, since sig proves that
// table needs to go out before whatever comes next.
func (p *Parser) emit(sig signal.Signal) {
	p.flushPendingTableStarts()
	p.emitRaw(sig)
}

// emitRaw appends sig without flushing pendingTableStarts, for fostered
// content that must land ahead of a still-withheld table start.
func (p *Parser) emitRaw(sig signal.Signal) {
	p.emitted = append(p.emitted, sig)
}

func (p *Parser) flushPendingTableStarts() {
	if len(p.pendingTableStarts) == 0 {
		return
	}
	pending := p.pendingTableStarts
	p.pendingTableStarts = nil
	p.emitted = append(p.emitted, pending...)
}

func (p *Parser) err(kind diag.Kind, msg string) {
	p.report(diag.New(p.tok.Loc, kind, msg))
}

func (p *Parser) top() *nodepool.Element {
	return p.oe.TopElement()
}

func (p *Parser) topName() string {
	if e := p.top(); e != nil {
		return e.Name
	}
	return ""
}

func (p *Parser) dispatch() {
	switch p.mode {
	case modeInitial:
		p.inInitial()
	case modeBeforeHTML:
		p.inBeforeHTML()
	case modeBeforeHead:
		p.inBeforeHead()
	case modeInHead:
		p.inHeadMode()
	case modeInHeadNoscript:
		p.inHeadNoscript()
	case modeAfterHead:
		p.inAfterHead()
	case modeInBody:
		p.inBody()
	case modeText:
		p.inText()
	case modeInTable:
		p.inTable()
	case modeInTableText:
		p.inTableText()
	case modeInCaption:
		p.inCaption()
	case modeInColumnGroup:
		p.inColumnGroup()
	case modeInTableBody:
		p.inTableBody()
	case modeInRow:
		p.inRow()
	case modeInCell:
		p.inCell()
	case modeInSelect:
		p.inSelect(false)
	case modeInSelectInTable:
		p.inSelect(true)
	case modeInTemplate:
		p.inTemplate()
	case modeAfterBody:
		p.inAfterBody()
	case modeInFrameset:
		p.inFrameset()
	case modeAfterFrameset:
		p.inAfterFrameset()
	case modeAfterAfterBody:
		p.inAfterAfterBody()
	case modeAfterAfterFrameset:
		p.inAfterAfterFrameset()
	}
}
