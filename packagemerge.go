package bjpeg

import (
	"math/bits"
	"sort"
)

// pmNode is one item in a package-merge level: a weight and the flat
// multiset of original symbols packaged into it (duplicates allowed —
// a symbol appears once per level it was packaged into, and counting
// its total occurrences across the chosen items yields its code
// length).
type pmNode struct {
	weight int
	syms   []byte
}

// packageMerge computes length-limited (≤maxLen bits) optimal code
// lengths for freq via the Package-Merge algorithm: symbols sorted by
// ascending frequency, each level built by pairing adjacent items of the
// previous level ("packaging") and merging the result back in with the
// original leaves by weight, stopping after maxLen levels; a symbol's
// code length is how many times it appears among the first 2|S|-2 items
// of the final level. Ported from original_source/src/package_merge.rs
// (package_merge, package). Ties are broken by ascending symbol value
// (sort.SliceStable) so the result is deterministic for a given
// frequency table. Returns ErrAlphabetTooLarge if maxLen is too small to
// encode len(freq) symbols at all (⌈log2|S|⌉ > maxLen).
func packageMerge(freq map[byte]int, maxLen int) (map[byte]int, error) {
	n := len(freq)
	if n == 0 {
		return map[byte]int{}, nil
	}
	if n == 1 {
		for s := range freq {
			return map[byte]int{s: 1}, nil
		}
	}

	minLen := bits.Len(uint(n - 1))
	if minLen > maxLen {
		return nil, wrap(ErrAlphabetTooLarge, "packagemerge", nil)
	}

	type weighted struct {
		sym byte
		w   int
	}
	ordered := make([]weighted, 0, n)
	for s, w := range freq {
		ordered = append(ordered, weighted{s, w})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].w != ordered[j].w {
			return ordered[i].w < ordered[j].w
		}
		return ordered[i].sym < ordered[j].sym
	})

	leaves := make([]pmNode, n)
	for i, o := range ordered {
		leaves[i] = pmNode{weight: o.w, syms: []byte{o.sym}}
	}

	level := leaves
	for l := 1; l < maxLen; l++ {
		level = mergeByWeight(packageLevel(level), leaves)
	}

	take := 2*n - 2
	if take > len(level) {
		take = len(level)
	}

	lengths := make(map[byte]int, n)
	for _, o := range ordered {
		lengths[o.sym] = 0
	}
	for _, node := range level[:take] {
		for _, s := range node.syms {
			lengths[s]++
		}
	}
	return lengths, nil
}

// packageLevel pairs adjacent items of level (already weight-sorted)
// into combined packages, dropping a trailing unpaired item if level has
// odd length.
func packageLevel(level []pmNode) []pmNode {
	out := make([]pmNode, 0, len(level)/2)
	for i := 0; i+1 < len(level); i += 2 {
		a, b := level[i], level[i+1]
		syms := make([]byte, 0, len(a.syms)+len(b.syms))
		syms = append(syms, a.syms...)
		syms = append(syms, b.syms...)
		out = append(out, pmNode{weight: a.weight + b.weight, syms: syms})
	}
	return out
}

// mergeByWeight merges two weight-ascending-sorted node lists into one
// weight-ascending-sorted list (a stable merge: ties keep a before b).
func mergeByWeight(a, b []pmNode) []pmNode {
	out := make([]pmNode, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].weight <= b[j].weight {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
