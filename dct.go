package bjpeg

import "math"

// araiC holds cos(kπ/16) for k=1..7, indexed araiC[k-1]. Used by both the
// fast and direct/matrix DCT modes so all three agree on the same
// constants.
var araiC = [7]float32{
	float32(math.Cos(1 * math.Pi / 16)),
	float32(math.Cos(2 * math.Pi / 16)),
	float32(math.Cos(3 * math.Pi / 16)),
	float32(math.Cos(4 * math.Pi / 16)),
	float32(math.Cos(5 * math.Pi / 16)),
	float32(math.Cos(6 * math.Pi / 16)),
	float32(math.Cos(7 * math.Pi / 16)),
}

// araiS are the post-butterfly scale factors that turn the fast
// algorithm's raw output into true (half-normalized) DCT-II coefficients:
// S(0) = 1/(2√2), S(k) = 1/(4·cos(kπ/16)) for k=1..7.
var araiS = [8]float32{
	1 / (2 * float32(math.Sqrt2)),
	1 / (4 * araiC[0]),
	1 / (4 * araiC[1]),
	1 / (4 * araiC[2]),
	1 / (4 * araiC[3]),
	1 / (4 * araiC[4]),
	1 / (4 * araiC[5]),
	1 / (4 * araiC[6]),
}

// fdctArai applies the separable 2-D Arai/AAN fast DCT to b in place: the
// 1-D transform over each row, then over each column. Ported from
// original_source/src/arai.rs, whose four stages
// (additions_before_first_multiplication, first_multiplications,
// additions_before_second_multiplication, second_multiplications) are
// kept as the four phases of fdct1DArai below, followed by the same
// per-coefficient Sₖ scaling arai.rs applies before returning.
func fdctArai(b *Block) {
	var row, col [8]float32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			row[x] = b.at(x, y)
		}
		fdct1DArai(&row)
		for x := 0; x < 8; x++ {
			b.set(x, y, row[x])
		}
	}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			col[y] = b.at(x, y)
		}
		fdct1DArai(&col)
		for y := 0; y < 8; y++ {
			b.set(x, y, col[y])
		}
	}
}

// fdct1DArai is the 8-point Arai/AAN fast forward DCT, operating in
// place on v.
func fdct1DArai(v *[8]float32) {
	// Stage 1: additions_before_first_multiplication.
	t0 := v[0] + v[7]
	t7 := v[0] - v[7]
	t1 := v[1] + v[6]
	t6 := v[1] - v[6]
	t2 := v[2] + v[5]
	t5 := v[2] - v[5]
	t3 := v[3] + v[4]
	t4 := v[3] - v[4]

	t10 := t0 + t3
	t13 := t0 - t3
	t11 := t1 + t2
	t12 := t1 - t2

	// Stage 2: first_multiplications (even part).
	c4 := araiC[3]
	z1 := (t12 + t13) * c4

	// Stage 3: additions_before_second_multiplication (odd part).
	o10 := t4 + t5
	o11 := t5 + t6
	o12 := t6 + t7

	// Stage 4: second_multiplications (odd part).
	c2, c6 := araiC[1], araiC[5]
	z5 := (o10 - o12) * c6
	z2 := o10*(c2-c6) + z5
	z4 := o12*(c6+c2) + z5
	z3 := o11 * c4

	z11 := t7 + z3
	z13 := t7 - z3

	v[0] = t10 + t11
	v[4] = t10 - t11
	v[2] = t13 + z1
	v[6] = t13 - z1
	v[5] = z13 + z2
	v[3] = z13 - z2
	v[1] = z11 + z4
	v[7] = z11 - z4

	for k := 0; k < 8; k++ {
		v[k] *= araiS[k]
	}
}

// dctAlpha returns the DCT-II normalization factor for coefficient u:
// 1/√2 for u==0, 1 otherwise.
func dctAlpha(u int) float32 {
	if u == 0 {
		return 1 / float32(math.Sqrt2)
	}
	return 1
}

// dctBasis returns cos((2x+1)uπ/16), the direct-formula basis value.
func dctBasis(u, x int) float32 {
	return float32(math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16))
}

// fdct1DDirect is the textbook O(n²) 8-point forward DCT-II:
// F(u) = alpha(u)/2 * sum_x f(x) cos((2x+1)uπ/16).
func fdct1DDirect(v *[8]float32) {
	var out [8]float32
	for u := 0; u < 8; u++ {
		var sum float32
		for x := 0; x < 8; x++ {
			sum += v[x] * dctBasis(u, x)
		}
		out[u] = dctAlpha(u) / 2 * sum
	}
	*v = out
}

// fdctDirect applies the separable 2-D direct DCT-II to b in place, the
// reference mode selected by --dct direct: mathematically identical to
// fdctArai, computed the slow way so the two can be cross-checked against
// each other.
func fdctDirect(b *Block) {
	var row, col [8]float32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			row[x] = b.at(x, y)
		}
		fdct1DDirect(&row)
		for x := 0; x < 8; x++ {
			b.set(x, y, row[x])
		}
	}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			col[y] = b.at(x, y)
		}
		fdct1DDirect(&col)
		for y := 0; y < 8; y++ {
			b.set(x, y, col[y])
		}
	}
}

// dctMatrix is the 8x8 DCT-II basis matrix M[u][x] = alpha(u)/2 *
// cos((2x+1)uπ/16), built once at init so fdctMatrix is a plain matrix
// multiply. Grounded in spirit on the original's use of nalgebra for a
// matrix-form DCT; translated to plain [8][8]float32 arithmetic since no
// Go linear-algebra dependency appears anywhere in the corpus (see
// DESIGN.md).
var dctMatrix = func() [8][8]float32 {
	var m [8][8]float32
	for u := 0; u < 8; u++ {
		for x := 0; x < 8; x++ {
			m[u][x] = dctAlpha(u) / 2 * dctBasis(u, x)
		}
	}
	return m
}()

// fdctMatrix applies the separable 2-D DCT-II to b in place as two
// matrix multiplies, F = M · f · Mᵀ, selected by --dct matrix.
func fdctMatrix(b *Block) {
	var tmp [8][8]float32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			tmp[y][x] = b.at(x, y)
		}
	}

	var stage1 [8][8]float32
	for u := 0; u < 8; u++ {
		for x := 0; x < 8; x++ {
			var sum float32
			for y := 0; y < 8; y++ {
				sum += dctMatrix[u][y] * tmp[y][x]
			}
			stage1[u][x] = sum
		}
	}

	var stage2 [8][8]float32
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			var sum float32
			for x := 0; x < 8; x++ {
				sum += stage1[u][x] * dctMatrix[v][x]
			}
			stage2[u][v] = sum
		}
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b.set(x, y, stage2[y][x])
		}
	}
}

// DCTMode selects which forward-DCT implementation Encode uses; all
// three are mathematically equivalent and differ only in how they reach
// the result.
type DCTMode int

const (
	DCTArai DCTMode = iota
	DCTDirect
	DCTMatrix
)

// ParseDCTMode parses the CLI's --dct values.
func ParseDCTMode(s string) (DCTMode, error) {
	switch s {
	case "arai", "":
		return DCTArai, nil
	case "direct":
		return DCTDirect, nil
	case "matrix":
		return DCTMatrix, nil
	default:
		return 0, wrap(ErrInvalidInput, "parse-dct-mode", nil)
	}
}

// forwardDCT dispatches to the DCT implementation named by mode.
func forwardDCT(mode DCTMode, b *Block) {
	switch mode {
	case DCTDirect:
		fdctDirect(b)
	case DCTMatrix:
		fdctMatrix(b)
	default:
		fdctArai(b)
	}
}
