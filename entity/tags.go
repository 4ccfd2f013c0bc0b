package entity

import (
	"sort"
	"strings"
)

type Tags map[string]string

func (t Tags) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t[key]
	return v, ok
}

func (t Tags) Clone() Tags {
	if t == nil {
		return nil
	}
	c := make(Tags, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

func (t Tags) Equal(o Tags) bool {
	if len(t) != len(o) {
		return false
	}
	for k, v := range t {
		if w, ok := o[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func (t Tags) Without(keys ...string) Tags {
	c := t.Clone()
	for _, k := range keys {
		delete(c, k)
	}
	return c
}

func (t Tags) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MergeTags unions a and b. A key present in both with different values
// ends up with the distinct values joined by ";".
func MergeTags(a, b Tags) Tags {
	out := a.Clone()
	if out == nil {
		out = make(Tags, len(b))
	}

	for k, v := range b {
		old, ok := out[k]
		if !ok || old == "" {
			out[k] = v
			continue
		}
		if old == v || v == "" {
			continue
		}

		values := strings.Split(old, ";")
		seen := false
		for _, s := range values {
			if s == v {
				seen = true
				break
			}
		}
		if !seen {
			values = append(values, v)
		}
		out[k] = strings.Join(values, ";")
	}
	return out
}

// Keys whose presence makes a closed path an area. A listed value opts that
// value out (natural=coastline is a line).
var areaKeys = map[string]map[string]bool{
	"building": {},
	"landuse":  {},
	"natural":  {"coastline": true, "cliff": true, "ridge": true, "tree_row": true, "arete": true},
	"leisure":  {"track": true, "slipway": true},
	"amenity":  {"bench": true},
	"shop":     {},
	"tourism":  {"artwork": true},
	"place":    {},
	"aeroway":  {"taxiway": true, "runway": true},
	"waterway": {"canal": true, "river": true, "stream": true, "ditch": true, "drain": true},
	"man_made": {"pipeline": true, "embankment": true, "cutline": true, "groyne": true},
	"historic": {},
	"military": {},
	"power":    {"line": true, "minor_line": true, "cable": true},
}

func (t Tags) impliesArea() bool {
	if v, ok := t["area"]; ok {
		return v == "yes"
	}
	for k, v := range t {
		exceptions, ok := areaKeys[k]
		if !ok || v == "no" {
			continue
		}
		if !exceptions[v] {
			return true
		}
	}
	return false
}
