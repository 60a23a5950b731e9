// Package grouping provides the group-by-key-then-reduce primitive used by the
// exchange resolver, the receivable netter and the ledger aggregator.
package grouping

import (
	"regexp"
	"strings"
)

// Groups holds items bucketed by key, remembering the order in which keys
// were first seen so that reductions are deterministic.
type Groups[K comparable, T any] struct {
	keys  []K
	items map[K][]T
}

// By buckets items by keyFn. Items for which keyFn returns false are dropped.
func By[K comparable, T any](items []T, keyFn func(T) (K, bool)) *Groups[K, T] {
	g := &Groups[K, T]{items: make(map[K][]T)}
	for _, item := range items {
		key, ok := keyFn(item)
		if !ok {
			continue
		}
		if _, seen := g.items[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.items[key] = append(g.items[key], item)
	}
	return g
}

// Keys returns keys in first-seen order.
func (g *Groups[K, T]) Keys() []K {
	out := make([]K, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the items of key in input order.
func (g *Groups[K, T]) Get(key K) []T {
	return g.items[key]
}

// Len is the number of distinct keys.
func (g *Groups[K, T]) Len() int {
	return len(g.keys)
}

// Reduce folds each group into a value, in first-seen key order. Groups for
// which reduce returns false are omitted.
func Reduce[K comparable, T any, A any](g *Groups[K, T], reduce func(key K, items []T) (A, bool)) []A {
	out := make([]A, 0, len(g.keys))
	for _, key := range g.keys {
		if v, ok := reduce(key, g.items[key]); ok {
			out = append(out, v)
		}
	}
	return out
}

// Fold accumulates items into per-key accumulators without materializing the
// groups first. init creates the accumulator for a new key.
func Fold[K comparable, T any, A any](items []T, keyFn func(T) (K, bool), init func(K) A, step func(A, T) A) ([]K, map[K]A) {
	var order []K
	acc := make(map[K]A)
	for _, item := range items {
		key, ok := keyFn(item)
		if !ok {
			continue
		}
		cur, seen := acc[key]
		if !seen {
			order = append(order, key)
			cur = init(key)
		}
		acc[key] = step(cur, item)
	}
	return order, acc
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeText trims, collapses inner whitespace and lower-cases s so that
// "  Dinner  Split" and "dinner split" share a key.
func NormalizeText(s string) string {
	return strings.ToLower(spaceRe.ReplaceAllString(strings.TrimSpace(s), " "))
}
