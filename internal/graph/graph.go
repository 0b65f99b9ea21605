// Package graph builds the lookup structures the diagnoser reasons over.
//
// Everything here is computed from one inventory snapshot and never mutated
// afterwards.
package graph

// Groups is the result of a group-by: keys in first-seen order, and for each key
// its values in input order.
type Groups[K comparable, V any] struct {
	Keys   []K
	Values map[K][]V
}

// Get returns the values grouped under k, or nil.
func (g Groups[K, V]) Get(k K) []V {
	return g.Values[k]
}

func (g Groups[K, V]) Len() int {
	return len(g.Keys)
}

// GroupBy groups seq by key.
func GroupBy[K comparable, V any](seq []V, key func(V) K) Groups[K, V] {
	return GroupByEach(seq, func(v V) []K { return []K{key(v)} })
}

// GroupByEach groups seq under every key returned for an element. An element
// listing the same key twice is grouped under it twice.
func GroupByEach[K comparable, V any](seq []V, keys func(V) []K) Groups[K, V] {
	g := Groups[K, V]{Values: map[K][]V{}}
	for _, v := range seq {
		for _, k := range keys(v) {
			if _, seen := g.Values[k]; !seen {
				g.Keys = append(g.Keys, k)
			}
			g.Values[k] = append(g.Values[k], v)
		}
	}
	return g
}
