package export

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
)

// Change is an osmChange document.
type Change struct {
	XMLName   xml.Name     `xml:"osmChange"`
	Version   string       `xml:"version,attr"`
	Generator string       `xml:"generator,attr"`
	Create    *ChangeBlock `xml:"create,omitempty"`
	Modify    *ChangeBlock `xml:"modify,omitempty"`
	Delete    *DeleteBlock `xml:"delete,omitempty"`
}

type ChangeBlock struct {
	Nodes     []Node     `xml:"node"`
	Ways      []Way      `xml:"way"`
	Relations []Relation `xml:"relation"`
}

// DeleteBlock lists relations first, then ways, then nodes, so that nothing
// is deleted while still referenced.
type DeleteBlock struct {
	IfUnused  bool       `xml:"if-unused,attr,omitempty"`
	Relations []Relation `xml:"relation"`
	Ways      []Way      `xml:"way"`
	Nodes     []Node     `xml:"node"`
}

type Tag struct {
	Key   string `xml:"k,attr"`
	Value string `xml:"v,attr"`
}

type header struct {
	ID        string `xml:"id,attr"`
	Version   string `xml:"version,attr,omitempty"`
	Changeset string `xml:"changeset,attr"`
}

type Node struct {
	header
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Tags []Tag   `xml:"tag"`
}

type NodeRef struct {
	Ref string `xml:"ref,attr"`
}

type Way struct {
	header
	Nodes []NodeRef `xml:"nd"`
	Tags  []Tag     `xml:"tag"`
}

type Member struct {
	Type string `xml:"type,attr"`
	Ref  string `xml:"ref,attr"`
	Role string `xml:"role,attr"`
}

type Relation struct {
	header
	Members []Member `xml:"member"`
	Tags    []Tag    `xml:"tag"`
}

// NewChange builds the osmChange document that turns the base of d into
// its head. Relations referencing other relations of the same block are
// written after them.
func NewChange(d *graph.Diff, changeset string, deleteIfUnused bool) *Change {
	c := &Change{
		Version:   "0.6",
		Generator: "osmgraph",
	}

	if created := d.Created(); len(created) > 0 {
		c.Create = newBlock(created, changeset)
	}
	if modified := d.Modified(); len(modified) > 0 {
		c.Modify = newBlock(modified, changeset)
	}
	if deleted := d.Deleted(); len(deleted) > 0 {
		b := newBlock(deleted, changeset)
		for i, j := 0, len(b.Relations)-1; i < j; i, j = i+1, j-1 {
			b.Relations[i], b.Relations[j] = b.Relations[j], b.Relations[i]
		}
		c.Delete = &DeleteBlock{
			IfUnused:  deleteIfUnused,
			Relations: b.Relations,
			Ways:      b.Ways,
			Nodes:     b.Nodes,
		}
	}
	return c
}

func (c *Change) WriteTo(w io.Writer) (int64, error) {
	out, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, xml.Header)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(out)
	return int64(n + m), err
}

func newBlock(entities []entity.Entity, changeset string) *ChangeBlock {
	b := &ChangeBlock{}
	var groups []*entity.Group
	for _, e := range entities {
		switch v := e.(type) {
		case *entity.Point:
			b.Nodes = append(b.Nodes, Node{
				header: newHeader(v, changeset),
				Lat:    v.Loc()[1],
				Lon:    v.Loc()[0],
				Tags:   tags(v.Tags()),
			})
		case *entity.Path:
			refs := make([]NodeRef, len(v.Nodes()))
			for i, id := range v.Nodes() {
				refs[i] = NodeRef{Ref: osmID(id)}
			}
			b.Ways = append(b.Ways, Way{
				header: newHeader(v, changeset),
				Nodes:  refs,
				Tags:   tags(v.Tags()),
			})
		case *entity.Group:
			groups = append(groups, v)
		}
	}

	for _, r := range sortGroups(groups) {
		members := make([]Member, len(r.Members()))
		for i, m := range r.Members() {
			members[i] = Member{Type: m.Kind.String(), Ref: osmID(m.ID), Role: m.Role}
		}
		b.Relations = append(b.Relations, Relation{
			header:  newHeader(r, changeset),
			Members: members,
			Tags:    tags(r.Tags()),
		})
	}
	return b
}

// sortGroups orders groups so that members come before the groups that
// reference them. Reference cycles are broken at the first group visited.
func sortGroups(groups []*entity.Group) []*entity.Group {
	byID := make(map[string]*entity.Group, len(groups))
	for _, r := range groups {
		byID[r.ID()] = r
	}

	visited := make(map[string]bool, len(groups))
	out := make([]*entity.Group, 0, len(groups))
	var visit func(r *entity.Group)
	visit = func(r *entity.Group) {
		if visited[r.ID()] {
			return
		}
		visited[r.ID()] = true
		for _, m := range r.Members() {
			if dep, ok := byID[m.ID]; ok {
				visit(dep)
			}
		}
		out = append(out, r)
	}
	for _, r := range groups {
		visit(r)
	}
	return out
}

func newHeader(e entity.Entity, changeset string) header {
	return header{
		ID:        osmID(e.ID()),
		Version:   e.RemoteVersion(),
		Changeset: changeset,
	}
}

func osmID(id string) string {
	if _, ok := entity.KindOf(id); ok {
		return id[1:]
	}
	return id
}

func tags(t entity.Tags) []Tag {
	out := make([]Tag, 0, len(t))
	for _, k := range t.Keys() {
		out = append(out, Tag{Key: k, Value: t[k]})
	}
	return out
}

func (c *Change) String() string {
	var sb strings.Builder
	_, _ = c.WriteTo(&sb)
	return sb.String()
}
