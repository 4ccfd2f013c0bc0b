package entity

import "fmt"

type Path struct {
	meta
	nodes []string
}

func NewPath(id string, nodes []string, tags Tags) *Path {
	return &Path{
		meta:  meta{id: id, tags: tags},
		nodes: collapse(nodes),
	}
}

func (p *Path) Kind() Kind { return KindPath }

// Nodes returns the point ids in order. The slice must not be modified.
func (p *Path) Nodes() []string { return p.nodes }

func (p *Path) Refs() []string { return p.nodes }

func (p *Path) Stamped(version int64) Entity {
	c := *p
	c.version = version
	return &c
}

func (p *Path) WithTags(tags Tags) Entity {
	c := *p
	c.tags = tags
	return &c
}

func (p *Path) WithRemoteVersion(v string) *Path {
	c := *p
	c.remote = v
	return &c
}

func (p *Path) WithNodes(nodes []string) *Path {
	c := *p
	c.nodes = collapse(nodes)
	return &c
}

func (p *Path) First() string {
	if len(p.nodes) == 0 {
		return ""
	}
	return p.nodes[0]
}

func (p *Path) Last() string {
	if len(p.nodes) == 0 {
		return ""
	}
	return p.nodes[len(p.nodes)-1]
}

func (p *Path) Contains(id string) bool {
	for _, n := range p.nodes {
		if n == id {
			return true
		}
	}
	return false
}

func (p *Path) IsClosed() bool {
	return len(p.nodes) > 1 && p.First() == p.Last()
}

func (p *Path) IsDegenerate() bool {
	distinct := len(unique(p.nodes))
	if p.IsClosed() {
		return distinct < 3
	}
	return distinct < 2
}

// IsArea reports whether the path is closed and its tags describe an area.
func (p *Path) IsArea() bool {
	if v, ok := p.tags.Get("area"); ok && v == "yes" {
		return p.IsClosed()
	}
	return p.IsClosed() && p.tags.impliesArea()
}

// AreAdjacent reports whether a and b follow each other somewhere along the
// path, in either order.
func (p *Path) AreAdjacent(a, b string) bool {
	for i, n := range p.nodes {
		if n != a {
			continue
		}
		if i > 0 && p.nodes[i-1] == b {
			return true
		}
		if i < len(p.nodes)-1 && p.nodes[i+1] == b {
			return true
		}
	}
	return false
}

// Uniq returns the distinct node ids in first-seen order.
func (p *Path) Uniq() []string {
	return unique(p.nodes)
}

// AddNode inserts id at index. For a closed path the connector is kept at
// both ends and index counts positions before the closing connector.
// An index outside the path panics.
func (p *Path) AddNode(id string, index int) *Path {
	nodes := append([]string(nil), p.nodes...)
	closed := p.IsClosed()
	max := len(nodes)
	if closed {
		max--
	}
	if index < 0 || index > max {
		panic(fmt.Sprintf("index %d out of range 0..%d", index, max))
	}

	if closed {
		connector := nodes[0]
		for i := 1; i < len(nodes) && len(nodes) > 2 && nodes[i] == connector; {
			nodes = append(nodes[:i], nodes[i+1:]...)
			if index > i {
				index--
			}
		}
		for i := len(nodes) - 1; i > 0 && len(nodes) > 1 && nodes[i] == connector; i = len(nodes) - 1 {
			nodes = append(nodes[:i], nodes[i+1:]...)
			if index > i {
				index--
			}
		}
	}

	nodes = append(nodes, "")
	copy(nodes[index+1:], nodes[index:])
	nodes[index] = id
	nodes = collapse(nodes)

	if closed && (len(nodes) == 1 || nodes[0] != nodes[len(nodes)-1]) {
		nodes = append(nodes, nodes[0])
	}

	return p.WithNodes(nodes)
}

// AppendNode adds id before the closing connector of a closed path, or at
// the end of an open one.
func (p *Path) AppendNode(id string) *Path {
	if p.IsClosed() {
		return p.AddNode(id, len(p.nodes)-1)
	}
	return p.AddNode(id, len(p.nodes))
}

// UpdateNode replaces the id at index, keeping a closed path closed.
func (p *Path) UpdateNode(id string, index int) *Path {
	if index < 0 || index >= len(p.nodes) {
		panic(fmt.Sprintf("index %d out of range 0..%d", index, len(p.nodes)-1))
	}
	closed := p.IsClosed()
	nodes := append([]string(nil), p.nodes...)
	nodes[index] = id
	if closed {
		if index == 0 {
			nodes[len(nodes)-1] = id
		} else if index == len(nodes)-1 {
			nodes[0] = id
		}
	}
	return p.WithNodes(nodes)
}

// ReplaceNode swaps every occurrence of needle for replacement.
func (p *Path) ReplaceNode(needle, replacement string) *Path {
	nodes := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		if n == needle {
			n = replacement
		}
		nodes[i] = n
	}
	return p.WithNodes(nodes)
}

// RemoveNode drops every occurrence of id, keeping a closed path closed.
func (p *Path) RemoveNode(id string) *Path {
	closed := p.IsClosed()
	nodes := make([]string, 0, len(p.nodes))
	for _, n := range p.nodes {
		if n != id {
			nodes = append(nodes, n)
		}
	}
	nodes = collapse(nodes)
	if closed && len(nodes) > 0 && (len(nodes) == 1 || nodes[0] != nodes[len(nodes)-1]) {
		nodes = append(nodes, nodes[0])
	}
	return p.WithNodes(nodes)
}

func (p *Path) Close() *Path {
	if p.IsClosed() || len(p.nodes) <= 1 {
		return p
	}
	nodes := append([]string(nil), p.nodes...)
	nodes = append(nodes, nodes[0])
	return p.WithNodes(nodes)
}

func (p *Path) Unclose() *Path {
	if !p.IsClosed() {
		return p
	}
	nodes := append([]string(nil), p.nodes...)
	connector := nodes[0]
	for len(nodes) > 1 && nodes[len(nodes)-1] == connector {
		nodes = nodes[:len(nodes)-1]
	}
	return p.WithNodes(nodes)
}

func (p *Path) Reverse() *Path {
	nodes := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		nodes[len(nodes)-1-i] = n
	}
	return p.WithNodes(nodes)
}

// LastIndexOf returns the last position of id, or -1.
func (p *Path) LastIndexOf(id string) int {
	for i := len(p.nodes) - 1; i >= 0; i-- {
		if p.nodes[i] == id {
			return i
		}
	}
	return -1
}

func collapse(nodes []string) []string {
	if len(nodes) == 0 {
		return nodes
	}
	out := make([]string, 0, len(nodes))
	for i, n := range nodes {
		if i > 0 && nodes[i-1] == n {
			continue
		}
		out = append(out, n)
	}
	return out
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
