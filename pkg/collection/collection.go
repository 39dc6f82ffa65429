// Package collection provides generic slice helpers for working with
// reference lists:
//
//	refs := collection.FlatMap(products, func(p models.Product) []primitive.ObjectID { return p.VariantIDs })
//	byID := collection.KeyBy(found, func(v models.Variant) primitive.ObjectID { return v.ID })
//	variants := collection.Resolve(p.VariantIDs, byID)
package collection

// FlatMap concatenates fn(v) for every element of s.
func FlatMap[T, R any](s []T, fn func(T) []R) []R {
	out := make([]R, 0, len(s))
	for _, v := range s {
		out = append(out, fn(v)...)
	}
	return out
}

// Unique returns s with duplicates removed, keeping first occurrences.
// The result is never nil.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// KeyBy turns s into a map using the key produced by fn.
// If two elements produce the same key, the last one wins.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}

// Resolve looks up every key in order, skipping keys with no entry.
// The result is never nil.
func Resolve[K comparable, V any](keys []K, byKey map[K]V) []V {
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		if v, ok := byKey[k]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Without returns s minus every occurrence of x, and whether any was removed.
// s is not modified.
func Without[T comparable](s []T, x T) ([]T, bool) {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if v != x {
			out = append(out, v)
		}
	}
	return out, len(out) != len(s)
}
