package bjpeg

// ColorConvert transforms RGB planes (component A) into Y, Cb, Cr planes
// using the JFIF matrix, with Cb/Cr offset so their midpoint is 32768.
// Ported from the teacher's per-pixel color.RGBToYCbCr calls in
// writer.go (toYCbCr/rgbaToYCbCr/yCbCrToYCbCr), generalized from 8-bit
// image.Image samples to the 16-bit Plane model and the exact JFIF
// coefficients spec.md specifies (the teacher used the coarser 8-bit
// approximation baked into the standard library's color package).
func ColorConvert(r, g, b *Plane) (y, cb, cr *Plane) {
	w, h := r.Width, r.Height
	y = NewPlane(w, h)
	cb = NewPlane(w, h)
	cr = NewPlane(w, h)

	for i := range r.Pix {
		rf := float64(r.Pix[i])
		gf := float64(g.Pix[i])
		bf := float64(b.Pix[i])

		yy := 0.299*rf + 0.587*gf + 0.114*bf
		cbv := -0.168736*rf - 0.331264*gf + 0.5*bf + 32768
		crv := 0.5*rf - 0.418688*gf - 0.081312*bf + 32768

		y.Pix[i] = clampU16(yy)
		cb.Pix[i] = clampU16(cbv)
		cr.Pix[i] = clampU16(crv)
	}
	return y, cb, cr
}

// clampU16 rounds and clamps a float64 to the [0, 65535] range.
func clampU16(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 65535 {
		return 65535
	}
	return uint16(v + 0.5)
}
