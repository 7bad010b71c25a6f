// Package ppmimage reads binary PPM (P6) images into a bjpeg.Image.
// PPM decoding is an ambient collaborator for the CLI, not part of the
// core encoder: the core package never imports this one.
package ppmimage

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/tjaden/bjpeg"
)

// Read parses a binary PPM (P6) stream into a *bjpeg.Image, scaling
// samples from the file's maxval up to the full 16-bit plane range
// spec.md §3 requires. Grounded in shape (header fields, row/width
// validation) on original_source/src/ppm_parser.rs, but implemented
// against a bufio.Reader (token reads for the header, io.ReadFull for
// the binary rows) rather than the
// original's regex-based ASCII P3 parser — PPM decoding is out of
// scope for the core encoder, and the CLI only needs the common binary
// P6 variant.
func Read(r io.Reader) (*bjpeg.Image, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "ppmimage: read magic")
	}
	if magic != "P6" {
		return nil, errors.Errorf("ppmimage: unsupported PPM variant %q (only binary P6 is supported)", magic)
	}

	width, err := readIntToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "ppmimage: read width")
	}
	height, err := readIntToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "ppmimage: read height")
	}
	maxval, err := readIntToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "ppmimage: read maxval")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("ppmimage: invalid dimensions %dx%d", width, height)
	}
	if maxval <= 0 || maxval > 65535 {
		return nil, errors.Errorf("ppmimage: unsupported maxval %d", maxval)
	}

	img := bjpeg.NewImage(width, height)
	bytesPerSample := 1
	if maxval > 255 {
		bytesPerSample = 2
	}
	row := make([]byte, width*3*bytesPerSample)

	for y := 0; y < height; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, errors.Wrapf(err, "ppmimage: read row %d", y)
		}
		for x := 0; x < width; x++ {
			var rv, gv, bv int
			if bytesPerSample == 1 {
				rv = int(row[x*3])
				gv = int(row[x*3+1])
				bv = int(row[x*3+2])
			} else {
				rv = int(row[x*6])<<8 | int(row[x*6+1])
				gv = int(row[x*6+2])<<8 | int(row[x*6+3])
				bv = int(row[x*6+4])<<8 | int(row[x*6+5])
			}
			img.R.Set(x, y, scaleSample(rv, maxval))
			img.G.Set(x, y, scaleSample(gv, maxval))
			img.B.Set(x, y, scaleSample(bv, maxval))
		}
	}
	return img, nil
}

// scaleSample scales a sample in [0,maxval] up to the 16-bit plane range
// [0,65535].
func scaleSample(v, maxval int) uint16 {
	return uint16(v * 65535 / maxval)
}

// readToken reads one whitespace-delimited token, skipping '#' comments
// the way the PPM format requires.
func readToken(r *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		if b == '#' {
			for {
				c, err := r.ReadByte()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		if isPPMSpace(b) {
			if len(tok) > 0 {
				return string(tok), nil
			}
			continue
		}
		tok = append(tok, b)
	}
}

func readIntToken(r *bufio.Reader) (int, error) {
	tok, err := readToken(r)
	if err != nil {
		return 0, err
	}
	var v int
	if _, err := fmt.Sscanf(tok, "%d", &v); err != nil {
		return 0, errors.Wrapf(err, "ppmimage: invalid integer token %q", tok)
	}
	return v, nil
}

func isPPMSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}
