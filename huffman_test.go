package bjpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAssignCanonicalCodesPrefixFree(t *testing.T) {
	lengths := map[byte]int{1: 2, 2: 2, 3: 2, 4: 3, 5: 3}
	codes := assignCanonicalCodes(lengths)
	assertPrefixFree(t, codes)
}

func TestAssignCanonicalCodesNoAllOnes(t *testing.T) {
	// A length table that would naturally assign the all-ones pattern
	// to the last code: two symbols at length 1 consumes the whole
	// 1-bit space (codes 0 and 1), so anything beyond must inflate.
	lengths := map[byte]int{1: 1, 2: 1}
	codes := assignCanonicalCodes(lengths)
	for _, c := range codes {
		allOnes := uint16(1)<<c.Length - 1
		assert.NotEqual(t, allOnes, c.Code, "code for symbol %d is all-ones at length %d", c.Symbol, c.Length)
	}
}

func TestBuildHuffmanTableDHTCounts(t *testing.T) {
	freq := map[byte]int{10: 5, 20: 5, 30: 1, 40: 1, 50: 1}
	table, err := BuildHuffmanTable(freq, 8)
	require.NoError(t, err)
	total := 0
	for _, c := range table.Counts {
		total += int(c)
	}
	assert.Equal(t, len(freq), total)
	assert.Len(t, table.Symbols, len(freq))
}

// TestBuildHuffmanTableCompleteCodeStaysWithinLimit regression-tests the
// case where Package-Merge is forced to produce a complete code (Kraft
// sum exactly 1) whose canonical numbering ends in the all-ones pattern
// at the length limit — the common case whenever an alphabet is large
// enough to need the limit at all, not a contrived edge case. Fibonacci
// frequencies are the classic construction that forces a maximally
// unbalanced, complete Huffman tree: for 17 symbols it forces max depth
// 16, the JPEG limit. Before BuildHuffmanTable reserved headroom for
// fixAllOnesCode's "+1" inflation, this input panicked on an
// out-of-range Counts/byLen index.
func TestBuildHuffmanTableCompleteCodeStaysWithinLimit(t *testing.T) {
	fib := []int{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987, 1597}
	freq := make(map[byte]int, len(fib))
	for i, f := range fib {
		freq[byte(i)] = f
	}

	table, err := BuildHuffmanTable(freq, 16)
	require.NoError(t, err)

	var codes []huffmanCode
	for s := range freq {
		code, length, ok := table.Lookup(s)
		require.Truef(t, ok, "symbol %d missing from table", s)
		assert.LessOrEqual(t, length, uint8(16))
		allOnes := uint16(1)<<length - 1
		assert.NotEqualf(t, allOnes, code, "code for symbol %d is all-ones at length %d", s, length)
		codes = append(codes, huffmanCode{Symbol: s, Code: code, Length: length})
	}
	assertPrefixFree(t, codes)
}

func TestBuildHuffmanTableRejectsLengthOverLimit(t *testing.T) {
	_, err := BuildHuffmanTable(map[byte]int{1: 1, 2: 1}, 17)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHuffmanPrefixFreeProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 30).Draw(rt, "n")
		freq := make(map[byte]int, n)
		for i := 0; i < n; i++ {
			freq[byte(i)] = rapid.IntRange(1, 500).Draw(rt, "freq")
		}
		table, err := BuildHuffmanTable(freq, 16)
		if err != nil {
			return
		}
		var codes []huffmanCode
		for s := range freq {
			code, length, ok := table.Lookup(s)
			if !ok {
				rt.Fatalf("symbol %d missing from table", s)
			}
			codes = append(codes, huffmanCode{Symbol: s, Code: code, Length: length})
		}
		assertPrefixFree(rt, codes)
	})
}

func assertPrefixFree(t fataler, codes []huffmanCode) {
	for i := range codes {
		for j := range codes {
			if i == j {
				continue
			}
			a, b := codes[i], codes[j]
			if a.Length > b.Length {
				continue // the symmetric (j,i) pass covers this case
			}
			if a.Length == b.Length {
				if a.Code == b.Code {
					t.Fatalf("duplicate code %d/%d for distinct symbols %d and %d", a.Code, a.Length, a.Symbol, b.Symbol)
				}
				continue
			}
			shift := b.Length - a.Length
			if b.Code>>shift == a.Code {
				t.Fatalf("code for symbol %d (len %d) is a prefix of symbol %d's code (len %d)", a.Symbol, a.Length, b.Symbol, b.Length)
			}
		}
	}
}
