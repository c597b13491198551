// Package mounts reconciles host/container bind-mount mappings.
//
// Mappings are keyed by container path: applying a mapping for a container
// path that already has one replaces it, so later stages (user -m entries,
// fixed ssh/X11/work-dir mounts) override profile defaults without having
// to know what the defaults were.
package mounts

import (
	"fmt"
	"sort"
	"strings"
)

// Mapping is a single host to container bind mount.
type Mapping struct {
	Source   string // host path
	Target   string // container path
	ReadOnly bool
}

// Table accumulates mappings with last-write-wins semantics per container
// path. The zero value is not usable; call NewTable.
type Table struct {
	entries map[string]Mapping
	order   []string
}

// NewTable returns an empty mapping table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Mapping)}
}

// Put inserts a mapping, replacing any existing mapping for the same
// container path.
func (t *Table) Put(m Mapping) {
	if _, ok := t.entries[m.Target]; !ok {
		t.order = append(t.order, m.Target)
	}
	t.entries[m.Target] = m
}

// PutAll inserts each mapping in order.
func (t *Table) PutAll(ms []Mapping) {
	for _, m := range ms {
		t.Put(m)
	}
}

// Get returns the mapping for a container path.
func (t *Table) Get(target string) (Mapping, bool) {
	m, ok := t.entries[target]
	return m, ok
}

// Len returns the number of distinct container paths.
func (t *Table) Len() int {
	return len(t.entries)
}

// List returns the mappings in first-insertion order of their container
// paths. Stable ordering keeps the resulting Docker mount list, and
// therefore container identity for diffing, deterministic.
func (t *Table) List() []Mapping {
	out := make([]Mapping, 0, len(t.entries))
	for _, target := range t.order {
		out = append(out, t.entries[target])
	}
	return out
}

// Targets returns the container paths in sorted order.
func (t *Table) Targets() []string {
	out := make([]string, 0, len(t.entries))
	for target := range t.entries {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// ParseSpec parses a semicolon-delimited list of host:container[:ro]
// mapping triples. A missing :ro suffix means read-write. Malformed
// entries (missing colon, empty host or container field) are an error;
// nothing is silently dropped.
func ParseSpec(spec string) ([]Mapping, error) {
	var out []Mapping
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		m, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseEntry(entry string) (Mapping, error) {
	host, rest, ok := strings.Cut(entry, ":")
	if !ok {
		return Mapping{}, fmt.Errorf("invalid mapping %q: expected host:container[:ro]", entry)
	}

	target := rest
	readOnly := false
	if ctr, flag, hasFlag := strings.Cut(rest, ":"); hasFlag {
		if flag != "ro" {
			return Mapping{}, fmt.Errorf("invalid mapping %q: unknown flag %q", entry, flag)
		}
		target = ctr
		readOnly = true
	}

	if host == "" || target == "" {
		return Mapping{}, fmt.Errorf("invalid mapping %q: empty host or container path", entry)
	}

	expanded, err := ExpandPath(host)
	if err != nil {
		return Mapping{}, fmt.Errorf("invalid mapping %q: %w", entry, err)
	}

	return Mapping{Source: expanded, Target: target, ReadOnly: readOnly}, nil
}
