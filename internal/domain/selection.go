package domain

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// RemoveValue returns pool without the first occurrence of a, by value.
// Removing a value that is not present leaves the pool unchanged:
// removal must stay idempotent because a concurrent double-tap can
// re-enter after the value was already taken out.
func RemoveValue(pool []Activity, a Activity) []Activity {
	for i, entry := range pool {
		if entry == a {
			out := make([]Activity, 0, len(pool)-1)
			out = append(out, pool[:i]...)
			return append(out, pool[i+1:]...)
		}
	}
	return pool
}

// RemoveIndices removes the given zero-based indices from pool and
// returns the surviving entries plus the removed ones in removal order.
// Indices are processed in descending order so earlier removals do not
// shift the positions of later ones. Out-of-range and duplicate
// indices are ignored.
func RemoveIndices(pool []Activity, indices []int) (kept, removed []Activity) {
	ordered := make([]int, 0, len(indices))
	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(pool) {
			continue
		}
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		ordered = append(ordered, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	kept = make([]Activity, len(pool))
	copy(kept, pool)
	removed = make([]Activity, 0, len(ordered))
	for _, idx := range ordered {
		removed = append(removed, kept[idx])
		kept = append(kept[:idx], kept[idx+1:]...)
	}

	return kept, removed
}

// ParseIndices extracts every integer token from free text (any
// separators) and returns the deduplicated zero-based indices that fall
// within a pool of length n, in first-seen order. An empty result means
// no token parsed to a valid in-range index and the caller must reject
// the input without mutating anything.
func ParseIndices(text string, n int) []int {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsDigit(r)
	})

	indices := make([]int, 0, len(tokens))
	seen := make(map[int]struct{}, len(tokens))
	for _, token := range tokens {
		value, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if value < 1 || value > n {
			continue
		}
		idx := value - 1
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}

	return indices
}
