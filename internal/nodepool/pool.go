// Package nodepool backs the HTML tree constructor's stack of open
// elements and list of active formatting elements with a single
// contiguous element store, addressed by index, per spec.md §9: "The
// stack of open elements and list of active formatting elements should be
// contiguous arrays of indices into a separate element pool so that scope
// queries and the adoption-agency cloning step do not thrash allocations."
package nodepool

import "github.com/ucarion/streamdoc/signal"

// Element is one entry in the pool: either a real HTML/foreign element or
// a scope marker (Marker true) used by the active-formatting-elements
// list.
type Element struct {
	Name      string
	Namespace string
	Attrs     []signal.Attribute
	Loc       signal.Location
	Marker    bool
}

// Pool owns the backing storage. Indices into it remain stable for the
// pool's lifetime; nothing is ever removed, only appended, so a stack of
// indices never needs to track reallocation.
type Pool struct {
	elems []Element
}

// Add appends e and returns its index.
func (p *Pool) Add(e Element) int {
	p.elems = append(p.elems, e)
	return len(p.elems) - 1
}

// Get returns a pointer to the element at index i, valid until the next
// Add call may grow the backing slice (callers needing a stable reference
// across an Add should re-fetch).
func (p *Pool) Get(i int) *Element {
	return &p.elems[i]
}

// Clone copies the element at index i into a new pool entry, for
// adoption-agency formatting-element cloning, which "preserves attributes"
// (spec.md §4.6).
func (p *Pool) Clone(i int) int {
	e := p.elems[i]
	attrs := make([]signal.Attribute, len(e.Attrs))
	copy(attrs, e.Attrs)
	e.Attrs = attrs
	return p.Add(e)
}

// Stack is a LIFO stack of pool indices.
type Stack struct {
	pool *Pool
	idx  []int
}

// NewStack constructs a Stack backed by pool.
func NewStack(pool *Pool) *Stack {
	return &Stack{pool: pool}
}

func (s *Stack) Push(i int)  { s.idx = append(s.idx, i) }
func (s *Stack) Len() int    { return len(s.idx) }
func (s *Stack) At(i int) int { return s.idx[i] }

// Pop removes and returns the top index. Panics if empty; callers must
// check Len first (mirrors the teacher's internal/stack, which has the
// same contract).
func (s *Stack) Pop() int {
	n := len(s.idx) - 1
	v := s.idx[n]
	s.idx = s.idx[:n]
	return v
}

// Truncate drops the stack down to length n.
func (s *Stack) Truncate(n int) { s.idx = s.idx[:n] }

// Top returns the index of the top element, or -1 if empty.
func (s *Stack) Top() int {
	if len(s.idx) == 0 {
		return -1
	}
	return s.idx[len(s.idx)-1]
}

// TopElement returns the top element, or nil if empty.
func (s *Stack) TopElement() *Element {
	t := s.Top()
	if t < 0 {
		return nil
	}
	return s.pool.Get(t)
}

// Remove deletes the entry at stack position i (not a pool index).
func (s *Stack) Remove(i int) {
	s.idx = append(s.idx[:i], s.idx[i+1:]...)
}

// Set overwrites the stack entry at position i with poolIdx.
func (s *Stack) Set(i, poolIdx int) { s.idx[i] = poolIdx }

// Insert places poolIdx at stack position i.
func (s *Stack) Insert(i, poolIdx int) {
	s.idx = append(s.idx, 0)
	copy(s.idx[i+1:], s.idx[i:])
	s.idx[i] = poolIdx
}

// Pool exposes the backing pool for element lookups by index.
func (s *Stack) Pool() *Pool { return s.pool }
