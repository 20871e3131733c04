// Package structures provides a few generic data structures.
package structures

import (
	"cmp"
	"maps"
	"slices"
)

type Set[Node comparable] map[Node]struct{}

// Add adds the node to the set. If the node was already in the set, nothing changes.
func (s Set[Node]) Add(n Node) {
	s[n] = struct{}{}
}

// Has checks whether the node is already in the set.
func (s Set[Node]) Has(n Node) bool {
	_, ok := s[n]
	return ok
}

// Remove removes the node from the set. If the node already wasn't in the set, nothing changes.
func (s Set[Node]) Remove(n Node) {
	delete(s, n)
}

// Sorted returns the members of the set in ascending order.
func Sorted[Node cmp.Ordered](s Set[Node]) []Node {
	return slices.Sorted(maps.Keys(s))
}
