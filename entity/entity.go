// Package entity holds the versioned map entities: points, paths, groups
// and changesets.
//
// Entities are values. Every method that changes an entity returns a copy;
// the version stamp of that copy is assigned when the copy is staged into a
// graph.
package entity

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

type Kind int

const (
	KindPoint Kind = iota
	KindPath
	KindGroup
	KindChangeset
)

var kindNames = [...]string{"node", "way", "relation", "changeset"}
var kindPrefixes = [...]string{"n", "w", "r", "c"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Prefix() string {
	return kindPrefixes[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("Unknown entity kind: %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("Unknown entity type: %q", s)
}

// Entity is implemented by *Point, *Path, *Group and *Changeset only.
type Entity interface {
	ID() string
	Kind() Kind
	Version() int64
	RemoteVersion() string
	Tags() Tags

	// Refs lists the ids this entity references: path nodes or group
	// members. Nil for points and changesets.
	Refs() []string

	Stamped(version int64) Entity
	WithTags(tags Tags) Entity

	sealed()
}

type meta struct {
	id      string
	version int64
	remote  string
	tags    Tags
}

func (m *meta) ID() string            { return m.id }
func (m *meta) Version() int64        { return m.version }
func (m *meta) RemoteVersion() string { return m.remote }
func (m *meta) Tags() Tags            { return m.tags }
func (m *meta) sealed()               {}

// Clock hands out version stamps. Versions are never reused, so undoing to
// an earlier state and redoing never reproduces a version number.
type Clock struct {
	n atomic.Int64
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Next() int64 {
	return c.n.Add(1)
}

func (c *Clock) Now() int64 {
	return c.n.Load()
}

// IDs allocates local ids (n-1, n-2, w-1, ...) for entities that have not
// been uploaded yet.
type IDs struct {
	mu   sync.Mutex
	next map[Kind]int64
}

func NewIDs() *IDs {
	return &IDs{next: make(map[Kind]int64)}
}

func (i *IDs) Next(k Kind) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.next[k]--
	return FromOSM(k, i.next[k])
}

func FromOSM(k Kind, id int64) string {
	return k.Prefix() + strconv.FormatInt(id, 10)
}

func ToOSM(id string) (int64, error) {
	if len(id) < 2 {
		return 0, fmt.Errorf("Bad entity id: %q", id)
	}
	return strconv.ParseInt(id[1:], 10, 64)
}

func KindOf(id string) (Kind, bool) {
	if id == "" {
		return 0, false
	}
	for i, p := range kindPrefixes {
		if strings.HasPrefix(id, p) {
			return Kind(i), true
		}
	}
	return 0, false
}

// IsNew reports whether id was allocated locally.
func IsNew(id string) bool {
	n, err := ToOSM(id)
	return err == nil && n < 0
}

// Oldest picks the id that was created first: uploaded ids beat local ones,
// lower uploaded numbers beat higher ones and local ids closer to zero beat
// those further away.
func Oldest(ids []string) string {
	if len(ids) == 0 {
		return ""
	}

	best := ids[0]
	bestN, _ := ToOSM(best)
	for _, id := range ids[1:] {
		n, err := ToOSM(id)
		if err != nil {
			continue
		}

		switch {
		case n >= 0 && bestN < 0:
			best, bestN = id, n
		case n >= 0 && bestN >= 0 && n < bestN:
			best, bestN = id, n
		case n < 0 && bestN < 0 && n > bestN:
			best, bestN = id, n
		}
	}
	return best
}
