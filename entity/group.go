package entity

import "fmt"

type Member struct {
	ID   string `json:"ref"`
	Kind Kind   `json:"type"`
	Role string `json:"role"`
}

type Group struct {
	meta
	members []Member
}

func NewGroup(id string, members []Member, tags Tags) *Group {
	return &Group{
		meta:    meta{id: id, tags: tags},
		members: members,
	}
}

func (g *Group) Kind() Kind { return KindGroup }

// Members returns the members in order. The slice must not be modified.
func (g *Group) Members() []Member { return g.members }

func (g *Group) Refs() []string {
	refs := make([]string, len(g.members))
	for i, m := range g.members {
		refs[i] = m.ID
	}
	return refs
}

func (g *Group) Stamped(version int64) Entity {
	c := *g
	c.version = version
	return &c
}

func (g *Group) WithTags(tags Tags) Entity {
	c := *g
	c.tags = tags
	return &c
}

func (g *Group) WithRemoteVersion(v string) *Group {
	c := *g
	c.remote = v
	return &c
}

func (g *Group) WithMembers(members []Member) *Group {
	c := *g
	c.members = members
	return &c
}

func (g *Group) IsDegenerate() bool {
	return len(g.members) == 0
}

func (g *Group) IsMultiArea() bool {
	v, _ := g.tags.Get("type")
	return v == "multipolygon"
}

func (g *Group) MemberByID(id string) (Member, int, bool) {
	for i, m := range g.members {
		if m.ID == id {
			return m, i, true
		}
	}
	return Member{}, -1, false
}

func (g *Group) MembersByRole(role string) []Member {
	out := make([]Member, 0)
	for _, m := range g.members {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// AddMember inserts m at index; a negative index appends.
func (g *Group) AddMember(m Member, index int) *Group {
	members := append([]Member(nil), g.members...)
	if index < 0 || index > len(members) {
		index = len(members)
	}
	members = append(members, Member{})
	copy(members[index+1:], members[index:])
	members[index] = m
	return g.WithMembers(members)
}

func (g *Group) UpdateMember(m Member, index int) *Group {
	if index < 0 || index >= len(g.members) {
		panic(fmt.Sprintf("member index %d out of range 0..%d", index, len(g.members)-1))
	}
	members := append([]Member(nil), g.members...)
	members[index] = m
	return g.WithMembers(members)
}

func (g *Group) RemoveMember(index int) *Group {
	if index < 0 || index >= len(g.members) {
		panic(fmt.Sprintf("member index %d out of range 0..%d", index, len(g.members)-1))
	}
	members := append([]Member(nil), g.members[:index]...)
	members = append(members, g.members[index+1:]...)
	return g.WithMembers(members)
}

func (g *Group) RemoveMembersWithID(id string) *Group {
	members := make([]Member, 0, len(g.members))
	for _, m := range g.members {
		if m.ID != id {
			members = append(members, m)
		}
	}
	return g.WithMembers(members)
}

// ReplaceMember points every reference to old at replacement, keeping the
// roles. Duplicates that result from the swap are dropped.
func (g *Group) ReplaceMember(old, replacement Entity) *Group {
	if _, _, ok := g.MemberByID(old.ID()); !ok {
		return g
	}

	seen := make(map[Member]bool)
	members := make([]Member, 0, len(g.members))
	for _, m := range g.members {
		if m.ID == old.ID() {
			m = Member{ID: replacement.ID(), Kind: replacement.Kind(), Role: m.Role}
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		members = append(members, m)
	}
	return g.WithMembers(members)
}

type Changeset struct {
	meta
}

func NewChangeset(id string, tags Tags) *Changeset {
	return &Changeset{meta: meta{id: id, tags: tags}}
}

func (c *Changeset) Kind() Kind     { return KindChangeset }
func (c *Changeset) Refs() []string { return nil }

func (c *Changeset) Stamped(version int64) Entity {
	cc := *c
	cc.version = version
	return &cc
}

func (c *Changeset) WithTags(tags Tags) Entity {
	cc := *c
	cc.tags = tags
	return &cc
}
