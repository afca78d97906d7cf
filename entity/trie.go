// Package entity implements the HTML named-character-reference trie
// described in spec.md §4.2: a static trie the HTML tokenizer walks one
// code point at a time, reporting after each step whether the path so
// far is a valid terminal and whether a longer match remains possible.
package entity

// node is one trie node. children is keyed by the next code point in the
// candidate entity name.
type node struct {
	children map[rune]*node
	// terminal is non-nil if the path ending at this node is itself a
	// valid entity name.
	terminal *entry
}

// Trie is the compiled named-character-reference table.
type Trie struct {
	root *node
}

// New builds a Trie from the embedded table. spec.md §9 describes the
// production version of this table as generated at build time from the
// official entity list and embedded as a flat array of
// (char, child-offset, terminal-value-offset) triples for allocation-free
// lookup; New's map-of-nodes construction is the equivalent, allocation-
// heavier structure used here so the trie stays a plain, readable Go type
// while preserving the same incremental-match contract.
func New() *Trie {
	root := &node{children: map[rune]*node{}}
	for i := range table {
		e := &table[i]
		cur := root
		for _, r := range e.name {
			next, ok := cur.children[r]
			if !ok {
				next = &node{children: map[rune]*node{}}
				cur.children[r] = next
			}
			cur = next
		}
		cur.terminal = e
	}
	return &Trie{root: root}
}

// Matcher walks the trie one code point at a time on behalf of the HTML
// tokenizer's character-reference states.
type Matcher struct {
	trie *Trie
	cur  *node
}

// NewMatcher starts a fresh match at the trie root.
func (t *Trie) NewMatcher() *Matcher {
	return &Matcher{trie: t, cur: t.root}
}

// StepResult reports the state of the match after consuming one code
// point.
type StepResult struct {
	// Consumed is false if r does not extend any known entity name from
	// the current position; the caller should stop feeding the matcher
	// and use the last successful Step's Terminal/Value, if any.
	Consumed bool
	// Terminal is true if the path consumed so far (including r, when
	// Consumed is true) is itself a complete entity name.
	Terminal bool
	// Value is the replacement text when Terminal is true.
	Value string
	// LegacyNoSemi is true when Terminal is true and the matched name is
	// one the specification allows without a trailing semicolon.
	LegacyNoSemi bool
	// MorePossible is true if at least one longer entity name extends the
	// path matched so far (spec.md §4.2 (b): "whether any longer match is
	// still possible").
	MorePossible bool
}

// Step consumes one code point, advancing the match.
func (m *Matcher) Step(r rune) StepResult {
	next, ok := m.cur.children[r]
	if !ok {
		return StepResult{Consumed: false}
	}
	m.cur = next
	res := StepResult{Consumed: true, MorePossible: len(next.children) > 0}
	if next.terminal != nil {
		res.Terminal = true
		res.Value = next.terminal.value
		res.LegacyNoSemi = next.terminal.legacyNoSemi
	}
	return res
}

// Reset returns the matcher to the trie root for reuse.
func (m *Matcher) Reset() {
	m.cur = m.trie.root
}
