package bjpeg

// Subsampling selects the chroma subsampling ratio used by Encode.
type Subsampling int

const (
	Sampling444 Subsampling = iota
	Sampling422
	Sampling420
)

// Factors returns the (a, b, vertical) downsampling parameters Downsample
// expects for this ratio.
func (s Subsampling) Factors() (a, b int, vertical bool) {
	switch s {
	case Sampling422:
		return 4, 2, false
	case Sampling420:
		return 4, 2, true
	default:
		return 4, 4, false
	}
}

func (s Subsampling) String() string {
	switch s {
	case Sampling422:
		return "4:2:2"
	case Sampling420:
		return "4:2:0"
	default:
		return "4:4:4"
	}
}

// ParseSubsampling parses the CLI's --subsampling values.
func ParseSubsampling(s string) (Subsampling, error) {
	switch s {
	case "4:4:4":
		return Sampling444, nil
	case "4:2:2":
		return Sampling422, nil
	case "4:2:0":
		return Sampling420, nil
	default:
		return 0, wrap(ErrInvalidInput, "parse-subsampling", nil)
	}
}

// MCU names the block indices (into the Y, Cb, Cr block slices,
// row-major over each component's own block grid) that make up one
// Minimum Coded Unit.
type MCU struct {
	Y      []int
	Cb, Cr int
}

// BuildMCUs computes MCU interleaving order (component J) for a Y block
// grid of yBW x yBH blocks under sampling, returning the MCU list plus
// the chroma block grid dimensions. 4:4:4 emits one Y/Cb/Cr block per
// MCU; 4:2:2 emits two horizontally-adjacent Y blocks then one Cb, one
// Cr; 4:2:0 emits four Y blocks (top-left, top-right, bottom-left,
// bottom-right) then one Cb, one Cr. Ported from
// original_source/src/image_data_writer.rs::write_image_data_to_stream,
// which hardcodes only the 4:2:0 case; this generalizes the same
// block-grouping idea to all three ratios.
func BuildMCUs(yBW, yBH int, sampling Subsampling) (mcus []MCU, chromaBW, chromaBH int) {
	switch sampling {
	case Sampling422:
		chromaBW, chromaBH = yBW/2, yBH
		mcus = make([]MCU, 0, chromaBW*chromaBH)
		for my := 0; my < chromaBH; my++ {
			for mx := 0; mx < chromaBW; mx++ {
				y0 := my*yBW + 2*mx
				cidx := my*chromaBW + mx
				mcus = append(mcus, MCU{Y: []int{y0, y0 + 1}, Cb: cidx, Cr: cidx})
			}
		}
	case Sampling420:
		chromaBW, chromaBH = yBW/2, yBH/2
		mcus = make([]MCU, 0, chromaBW*chromaBH)
		for my := 0; my < chromaBH; my++ {
			for mx := 0; mx < chromaBW; mx++ {
				topLeft := (2*my)*yBW + 2*mx
				cidx := my*chromaBW + mx
				mcus = append(mcus, MCU{
					Y:  []int{topLeft, topLeft + 1, topLeft + yBW, topLeft + yBW + 1},
					Cb: cidx, Cr: cidx,
				})
			}
		}
	default:
		chromaBW, chromaBH = yBW, yBH
		mcus = make([]MCU, 0, yBW*yBH)
		for my := 0; my < yBH; my++ {
			for mx := 0; mx < yBW; mx++ {
				idx := my*yBW + mx
				mcus = append(mcus, MCU{Y: []int{idx}, Cb: idx, Cr: idx})
			}
		}
	}
	return mcus, chromaBW, chromaBH
}
