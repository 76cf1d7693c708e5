package modules

import "sort"

// Set is an unordered collection of module names
type Set map[string]struct{}

// NewSet creates a set holding names
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Add inserts name into the set
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union adds every member of other to s
func (s Set) Union(other Set) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Sorted returns the members in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
