package bjpeg

// Downsample reduces a chroma plane according to the 4:a:b:c JPEG
// convention (component B): a is the reference window width (always 4
// here), b the number of distinct samples kept per window, and vertical
// requests an additional 2:1 vertical reduction. Supported shapes are
// 4:4:4 (a==b, vertical==false, a no-op), 4:2:2 (a=4,b=2,vertical=false)
// and 4:2:0 (a=4,b=2,vertical=true); anything else returns
// ErrUnsupportedSampling.
//
// Ported from original_source/src/downsample.rs
// (downsample_channel/downsample_rows/downsample_segment_of_row/
// downsample_vec_by_two): pad-by-repeat at window boundaries, reduce by
// repeated halving rather than an arbitrary ratio, optional vertical
// pairing. The Rust original paired rows even for purely-horizontal
// (4:2:2, non-vertical) subsampling for no semantic reason (rows are
// never combined in that path); this port processes rows independently
// when vertical is false, which is simpler and behaviorally identical.
func Downsample(p *Plane, a, b int, vertical bool) (*Plane, error) {
	switch {
	case a == b && !vertical:
		out := NewPlane(p.Width, p.Height)
		copy(out.Pix, p.Pix)
		return out, nil
	case a == 4 && b == 2:
		// 4:2:2 or 4:2:0, handled below.
	default:
		return nil, wrap(ErrUnsupportedSampling, "subsample", nil)
	}

	outWidth := downsampledRowLen(p.Width, a, b)
	if !vertical {
		out := NewPlane(outWidth, p.Height)
		for y := 0; y < p.Height; y++ {
			copy(out.Row(y), downsampleRow(p.Row(y), a, b))
		}
		return out, nil
	}

	outHeight := (p.Height + 1) / 2
	out := NewPlane(outWidth, outHeight)
	for y, oy := 0, 0; y < p.Height; y, oy = y+2, oy+1 {
		upper := downsampleRow(p.Row(y), a, b)
		var lower []uint16
		if y+1 < p.Height {
			lower = downsampleRow(p.Row(y+1), a, b)
		} else {
			lower = upper
		}
		dst := out.Row(oy)
		for i := range upper {
			dst[i] = uint16((uint32(upper[i]) + uint32(lower[i])) / 2)
		}
	}
	return out, nil
}

// downsampledRowLen returns the output width after downsampling a row of
// the given width by factor a/b, windows padded by repeating the last
// sample.
func downsampledRowLen(width, a, b int) int {
	windows := (width + a - 1) / a
	return windows * b
}

// downsampleRow downsamples one row, window by window.
func downsampleRow(row []uint16, a, b int) []uint16 {
	out := make([]uint16, 0, downsampledRowLen(len(row), a, b))
	for x := 0; x < len(row); x += a {
		segment := copyAndPad(row, x, a)
		out = append(out, downsampleSegment(segment, a, b)...)
	}
	return out
}

// copyAndPad copies row[offset:offset+length], padding the tail by
// repeating the last in-bounds sample if the segment runs past the end
// of row.
func copyAndPad(row []uint16, offset, length int) []uint16 {
	end := offset + length
	if end > len(row) {
		end = len(row)
	}
	seg := make([]uint16, end-offset, length)
	copy(seg, row[offset:end])
	for len(seg) < length {
		seg = append(seg, seg[len(seg)-1])
	}
	return seg
}

// downsampleSegment halves segment repeatedly until it has b samples
// (segment starts with a samples).
func downsampleSegment(segment []uint16, a, b int) []uint16 {
	factor := b
	for factor != a {
		segment = halveSamples(segment)
		factor *= 2
	}
	return segment
}

// halveSamples averages adjacent pairs, repeating the last sample if the
// input has odd length.
func halveSamples(v []uint16) []uint16 {
	n := len(v)/2 + len(v)%2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		j := 2*i + 1
		if j >= len(v) {
			j = 2 * i
		}
		out[i] = uint16((uint32(v[2*i]) + uint32(v[j])) / 2)
	}
	return out
}
