package entity

import (
	"fmt"
	"strconv"

	osm "github.com/omniscale/go-osm"
	"github.com/paulmach/orb"
)

// Record is the wire form of an entity as exchanged with a remote store.
type Record struct {
	Type    string   `json:"type"`
	ID      string   `json:"id"`
	Version string   `json:"version,omitempty"`
	Lon     float64  `json:"lon,omitempty"`
	Lat     float64  `json:"lat,omitempty"`
	Tags    Tags     `json:"tags,omitempty"`
	Nodes   []string `json:"nodes,omitempty"`
	Members []Member `json:"members,omitempty"`
}

// FromRecord builds the entity variant named by rec.Type. Bare numeric ids
// get the prefix of their kind.
func FromRecord(rec Record) (Entity, error) {
	kind, err := ParseKind(rec.Type)
	if err != nil {
		return nil, err
	}

	id, err := normalizeID(kind, rec.ID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPoint:
		return NewPoint(id, orb.Point{rec.Lon, rec.Lat}, rec.Tags).WithRemoteVersion(rec.Version), nil
	case KindPath:
		nodes := make([]string, len(rec.Nodes))
		for i, n := range rec.Nodes {
			nodes[i], err = normalizeID(KindPoint, n)
			if err != nil {
				return nil, err
			}
		}
		return NewPath(id, nodes, rec.Tags).WithRemoteVersion(rec.Version), nil
	case KindGroup:
		members := make([]Member, len(rec.Members))
		for i, m := range rec.Members {
			mid, err := normalizeID(m.Kind, m.ID)
			if err != nil {
				return nil, err
			}
			members[i] = Member{ID: mid, Kind: m.Kind, Role: m.Role}
		}
		return NewGroup(id, members, rec.Tags).WithRemoteVersion(rec.Version), nil
	case KindChangeset:
		return NewChangeset(id, rec.Tags), nil
	}
	return nil, fmt.Errorf("Unhandled entity type: %s", rec.Type)
}

func ToRecord(e Entity) Record {
	rec := Record{
		Type:    e.Kind().String(),
		ID:      e.ID(),
		Version: e.RemoteVersion(),
		Tags:    e.Tags(),
	}

	switch v := e.(type) {
	case *Point:
		rec.Lon = v.loc[0]
		rec.Lat = v.loc[1]
	case *Path:
		rec.Nodes = v.nodes
	case *Group:
		rec.Members = v.members
	}
	return rec
}

func normalizeID(kind Kind, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("Missing %s id", kind)
	}
	if k, ok := KindOf(id); ok {
		if k != kind {
			return "", fmt.Errorf("Id %s is not a %s", id, kind)
		}
		return id, nil
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return "", fmt.Errorf("Bad %s id: %q", kind, id)
	}
	return kind.Prefix() + id, nil
}

func PointFromEl(el osm.Node) *Point {
	return NewPoint(FromOSM(KindPoint, el.ID), orb.Point{el.Long, el.Lat}, tagsFromEl(el.Tags))
}

func PathFromEl(el osm.Way) *Path {
	nodes := make([]string, len(el.Refs))
	for i, ref := range el.Refs {
		nodes[i] = FromOSM(KindPoint, ref)
	}
	return NewPath(FromOSM(KindPath, el.ID), nodes, tagsFromEl(el.Tags))
}

func GroupFromEl(el osm.Relation) *Group {
	members := make([]Member, 0, len(el.Members))
	for _, m := range el.Members {
		var kind Kind
		switch m.Type {
		case osm.NodeMember:
			kind = KindPoint
		case osm.WayMember:
			kind = KindPath
		case osm.RelationMember:
			kind = KindGroup
		default:
			continue
		}
		members = append(members, Member{
			ID:   FromOSM(kind, m.ID),
			Kind: kind,
			Role: m.Role,
		})
	}
	return NewGroup(FromOSM(KindGroup, el.ID), members, tagsFromEl(el.Tags))
}

func tagsFromEl(t osm.Tags) Tags {
	if len(t) == 0 {
		return nil
	}
	tags := make(Tags, len(t))
	for k, v := range t {
		tags[k] = v
	}
	return tags
}
