package expr

import (
	"strings"
)

// Node is one unit held by a Merger: a single connective keyword or a
// predicate made of several segments.
type Node struct {
	segments []Segment
}

// Segments returns a copy of the node's segments.
func (n Node) Segments() []Segment {
	return append([]Segment(nil), n.segments...)
}

// Connective returns the connective keyword if the node is one.
func (n Node) Connective() (Keyword, bool) {
	if len(n.segments) != 1 {
		return "", false
	}
	k, ok := n.segments[0].(Keyword)
	if !ok || !k.IsConnective() {
		return "", false
	}
	return k, true
}

// String renders the node. Function predicates take the segments up to the
// next keyword as arguments: FN(col, value) followed by the remainder.
func (n Node) String() string {
	if len(n.segments) == 0 {
		return ""
	}
	if fn, ok := n.segments[0].(Keyword); ok && fn.IsFunction() {
		rest := n.segments[1:]
		var args []string
		i := 0
		for ; i < len(rest); i++ {
			if rest[i].Kind() == KindKeyword {
				break
			}
			args = append(args, rest[i].String())
		}
		call := string(fn) + "(" + strings.Join(args, ", ") + ")"
		if tail := joinSegments(rest[i:]); tail != "" {
			return call + " " + tail
		}
		return call
	}
	return joinSegments(n.segments)
}

func joinSegments(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if text := s.String(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{segments: append([]Segment(nil), n.segments...)}
	}
	return out
}

// Merger accumulates nodes in call order and enforces connective placement.
type Merger struct {
	nodes []Node
}

// NewMerger returns an empty merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Append adds one unit. A single connective keyword is treated as a
// connective, anything else as a predicate. Calls with no segments are
// ignored.
func (m *Merger) Append(segments ...Segment) {
	if len(segments) == 0 {
		return
	}
	if len(segments) == 1 {
		if k, ok := segments[0].(Keyword); ok && k.IsConnective() {
			m.appendConnective(k)
			return
		}
	}
	if m.lastIsPredicate() {
		m.push(And)
	}
	m.push(segments...)
}

func (m *Merger) appendConnective(k Keyword) {
	last, hasLast := m.last()
	if k == Not {
		switch {
		case !hasLast:
		case last == Not:
			return
		case last == "":
			m.push(And)
		}
		m.push(Not)
		return
	}

	switch {
	case !hasLast:
		// nothing to join yet
	case last == Not:
		// NOT still waits for its operand
	case last.IsBinary():
		m.nodes[len(m.nodes)-1] = Node{segments: []Segment{k}}
	default:
		m.push(k)
	}
}

// last returns the trailing connective, "" for a trailing predicate, and
// false for an empty merger.
func (m *Merger) last() (Keyword, bool) {
	if len(m.nodes) == 0 {
		return "", false
	}
	k, _ := m.nodes[len(m.nodes)-1].Connective()
	return k, true
}

func (m *Merger) lastIsPredicate() bool {
	k, ok := m.last()
	return ok && k == ""
}

func (m *Merger) push(segments ...Segment) {
	m.nodes = append(m.nodes, Node{segments: append([]Segment(nil), segments...)})
}

// Nodes returns the renderable nodes: a copy of the sequence without
// trailing connectives.
func (m *Merger) Nodes() []Node {
	end := len(m.nodes)
	for end > 0 {
		if _, ok := m.nodes[end-1].Connective(); !ok {
			break
		}
		end--
	}
	return cloneNodes(m.nodes[:end])
}

// Render returns the linear expression. An empty merger renders "".
func (m *Merger) Render() string {
	nodes := m.Nodes()
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, " ")
}

// Len returns the number of stored nodes, connectives included.
func (m *Merger) Len() int { return len(m.nodes) }

// IsEmpty reports whether Render would return "".
func (m *Merger) IsEmpty() bool { return len(m.Nodes()) == 0 }

// Clear empties the merger in place.
func (m *Merger) Clear() {
	m.nodes = nil
}

// Clone returns an independent copy.
func (m *Merger) Clone() *Merger {
	return &Merger{nodes: cloneNodes(m.nodes)}
}
