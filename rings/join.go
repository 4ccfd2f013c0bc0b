// Package rings stitches path fragments into rings and rings into
// polygons.
package rings

// Fragment is one directed member of a ring: usually a path, with its node
// ids in path order.
type Fragment struct {
	ID    string
	Nodes []string

	// Reversed is set when the fragment was walked against its own order.
	Reversed bool
}

// Sequence is a run of fragments sharing endpoints.
type Sequence struct {
	Fragments []Fragment
	Nodes     []string
}

func (s *Sequence) Closed() bool {
	return len(s.Nodes) > 1 && s.Nodes[0] == s.Nodes[len(s.Nodes)-1]
}

// Join chains fragments into maximal sequences. Each sequence starts with
// the first unused fragment in input order and grows at either end; for
// every candidate a forward match is tried before a reversed one. A
// sequence that closes stops growing. Empty fragments are dropped.
func Join(fragments []Fragment) []*Sequence {
	todo := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if len(f.Nodes) > 0 {
			todo = append(todo, f)
		}
	}

	sequences := make([]*Sequence, 0)
	for len(todo) > 0 {
		current := todo[0]
		todo = todo[1:]

		seq := &Sequence{
			Fragments: []Fragment{current},
			Nodes:     append([]string(nil), current.Nodes...),
		}

		// Keep extending until nothing matches anymore.
		for !seq.Closed() {
			start := seq.Nodes[0]
			end := seq.Nodes[len(seq.Nodes)-1]

			found := false
			for i, f := range todo {
				first := f.Nodes[0]
				last := f.Nodes[len(f.Nodes)-1]

				switch {
				case end == first:
					seq.append(f, false)
				case end == last:
					seq.append(f, true)
				case start == last:
					seq.prepend(f, false)
				case start == first:
					seq.prepend(f, true)
				default:
					continue
				}

				todo = append(todo[:i], todo[i+1:]...)
				found = true
				break
			}
			if !found {
				break
			}
		}

		sequences = append(sequences, seq)
	}
	return sequences
}

func (s *Sequence) append(f Fragment, reverse bool) {
	nodes := f.Nodes
	if reverse {
		nodes = reversed(nodes)
		f.Reversed = !f.Reversed
	}
	s.Nodes = append(s.Nodes, nodes[1:]...)
	s.Fragments = append(s.Fragments, f)
}

func (s *Sequence) prepend(f Fragment, reverse bool) {
	nodes := f.Nodes
	if reverse {
		nodes = reversed(nodes)
		f.Reversed = !f.Reversed
	}
	joined := make([]string, 0, len(nodes)+len(s.Nodes)-1)
	joined = append(joined, nodes[:len(nodes)-1]...)
	s.Nodes = append(joined, s.Nodes...)
	s.Fragments = append([]Fragment{f}, s.Fragments...)
}

// Close appends the start id to an open sequence with at least two
// distinct ids. It reports whether the sequence ends up closed.
func Close(s *Sequence) bool {
	if s.Closed() {
		return true
	}
	seen := make(map[string]bool)
	for _, id := range s.Nodes {
		seen[id] = true
	}
	if len(seen) < 2 {
		return false
	}
	s.Nodes = append(s.Nodes, s.Nodes[0])
	return true
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
