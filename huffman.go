package bjpeg

import "sort"

// huffmanCode is one canonical Huffman code: Code's low Length bits, MSB
// first, encode Symbol.
type huffmanCode struct {
	Symbol byte
	Length uint8
	Code   uint16
}

// assignCanonicalCodes builds canonical Huffman codes from a code-length
// table (component H): symbols sorted by (length, symbol) ascending,
// codes assigned numerically starting at 0 and left-shifted whenever
// length increases (spec.md §4.H steps 1–2), then the "no all-ones code"
// fix is applied to the last (longest, highest-valued) code so no valid
// code is the all-ones pattern of its length — JPEG reserves that
// pattern. This is the "inflate the last max-length code by one bit"
// variant rather than a tree-rightmost-leaf walk (see
// original_source/src/huffman.rs::remove_only_ones_code for the
// tree-walk variant this is ported in spirit from), chosen because it
// composes with the array-based, non-recursive representation used
// here.
func assignCanonicalCodes(lengths map[byte]int) []huffmanCode {
	symbols := make([]byte, 0, len(lengths))
	for s := range lengths {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		li, lj := lengths[symbols[i]], lengths[symbols[j]]
		if li != lj {
			return li < lj
		}
		return symbols[i] < symbols[j]
	})

	codes := make([]huffmanCode, len(symbols))
	var code uint16
	prevLen := 0
	for i, s := range symbols {
		l := lengths[s]
		code <<= uint(l - prevLen)
		codes[i] = huffmanCode{Symbol: s, Length: uint8(l), Code: code}
		code++
		prevLen = l
	}

	fixAllOnesCode(codes)
	return codes
}

// fixAllOnesCode inflates the last code's length by one bit if its
// pattern is all ones at its current length — the all-ones pattern at
// the longest length is reserved in JPEG bitstreams, so no assigned code
// may use it. Inflating keeps the code unique (it remains strictly
// larger, in (length, code) order, than every other assigned code) and
// ends in a 0 bit, so it no longer reads as all ones.
func fixAllOnesCode(codes []huffmanCode) {
	if len(codes) == 0 {
		return
	}
	last := &codes[len(codes)-1]
	allOnes := uint16(1)<<last.Length - 1
	if last.Code == allOnes {
		last.Code <<= 1
		last.Length++
	}
}

// HuffmanTable is a symbol -> code lookup built from assignCanonicalCodes,
// plus the DHT-ready counts-per-length/symbols-per-length arrays.
type HuffmanTable struct {
	codes     map[byte]huffmanCode
	Counts    [16]byte
	Symbols   []byte
}

// BuildHuffmanTable runs Package-Merge then canonical code assignment
// over freq, returning a ready-to-use table.
//
// Package-Merge runs against maxLen-1, one bit short of the real limit:
// a complete code (the normal outcome whenever the alphabet is large
// enough to need the length limit at all) always assigns the all-ones
// pattern to its longest code, forcing fixAllOnesCode's "+1" inflation,
// so that headroom has to be reserved up front rather than assumed
// spare. packageMerge still reports ErrAlphabetTooLarge if maxLen-1
// leaves no room at all.
func BuildHuffmanTable(freq map[byte]int, maxLen int) (*HuffmanTable, error) {
	if maxLen > 16 {
		// HuffmanTable.Counts is the fixed 16-entry DHT length histogram
		// the JFIF wire format mandates; no valid call site needs more.
		return nil, wrap(ErrInvalidInput, "huffman", nil)
	}
	lengths, err := packageMerge(freq, maxLen-1)
	if err != nil {
		return nil, err
	}
	codes := assignCanonicalCodes(lengths)

	t := &HuffmanTable{codes: make(map[byte]huffmanCode, len(codes))}
	byLen := make([][]byte, maxLen+1)
	for _, c := range codes {
		t.codes[c.Symbol] = c
		byLen[c.Length] = append(byLen[c.Length], c.Symbol)
	}
	for l := 1; l <= maxLen; l++ {
		syms := byLen[l]
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		t.Counts[l-1] = byte(len(syms))
		t.Symbols = append(t.Symbols, syms...)
	}
	return t, nil
}

// Lookup returns the canonical code for symbol and whether it exists in
// the table.
func (t *HuffmanTable) Lookup(symbol byte) (code uint16, length uint8, ok bool) {
	c, ok := t.codes[symbol]
	if !ok {
		return 0, 0, false
	}
	return c.Code, c.Length, true
}
