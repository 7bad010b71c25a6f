package bjpeg

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// component identifies which of the three planes a block belongs to,
// for frequency accounting and table selection.
type component int

const (
	componentY component = iota
	componentCb
	componentCr
)

// Options configures Encode. A nil *Options (or zero value) uses
// quality 75, 4:4:4 subsampling (Subsampling's zero value) and the Arai
// fast DCT. Quality and DCT mode match a bare `bjpeg encode` CLI
// invocation; the CLI's default subsampling is 4:2:0.
type Options struct {
	Quality     int
	Subsampling Subsampling
	DCTMode     DCTMode

	// QuantLuma/QuantChroma override the quality-derived quantization
	// tables when set.
	QuantLuma   *QuantTable
	QuantChroma *QuantTable

	// Logger receives structured per-stage diagnostics. Defaults to a
	// no-op logger, never a package-level global.
	Logger *zap.Logger
}

func (o *Options) withDefaults() *Options {
	out := *o
	if out.Quality <= 0 {
		out.Quality = 75
	}
	if out.Quality > 100 {
		out.Quality = 100
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return &out
}

// Encode converts img (three same-sized R, G, B planes) into a baseline
// JFIF byte stream written to w, per spec.md §6's external interface.
// The pipeline runs components A–K in order: color convert, chroma
// subsample, block tile, forward DCT, quantize, zig-zag, DC/AC
// coefficient coding, Package-Merge + canonical Huffman table
// construction, and the MCU-interleaved byte-stuffed bitstream. Stages
// D–E (DCT, then quantize+zig-zag) fork-join over the dispatcher
// (component K); stages A–C (color convert, subsample, tile) run
// serially on the calling goroutine and are not dispatched, as do
// stages F–J, since DC prediction and the bit writer carry state across
// blocks. ctx is checked by each dispatcher worker and every 256 MCUs
// while the scan is written; a cancelled context aborts the remaining
// work and its error is returned wrapped.
func Encode(ctx context.Context, w io.Writer, img *Image, opts *Options) error {
	if img == nil || img.R == nil || img.G == nil || img.B == nil {
		return wrap(ErrInvalidInput, "encode", nil)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return wrap(ErrInvalidInput, "encode", nil)
	}
	if opts == nil {
		opts = &Options{}
	}
	opts = opts.withDefaults()
	log := opts.Logger

	// Padding an unaligned image to a whole number of MCUs is the
	// external caller's responsibility, not Encode's: silently padding
	// here would make DimensionError unreachable through the public
	// entry point for any input that needed it.
	mcuW, mcuH := mcuPixelSize(opts.Subsampling)
	if img.Width%mcuW != 0 || img.Height%mcuH != 0 {
		return wrap(ErrDimension, "encode", nil)
	}

	log.Debug("color convert", zap.Int("width", img.Width), zap.Int("height", img.Height))
	y, cb, cr := ColorConvert(img.R, img.G, img.B)

	a, bFac, vertical := opts.Subsampling.Factors()
	if a != bFac || vertical {
		var err error
		cb, err = Downsample(cb, a, bFac, vertical)
		if err != nil {
			return err
		}
		cr, err = Downsample(cr, a, bFac, vertical)
		if err != nil {
			return err
		}
	}

	yBlocks, yBW, yBH, err := TileBlocks(y)
	if err != nil {
		return err
	}
	cbBlocks, _, _, err := TileBlocks(cb)
	if err != nil {
		return err
	}
	crBlocks, _, _, err := TileBlocks(cr)
	if err != nil {
		return err
	}

	quantLuma := opts.QuantLuma
	if quantLuma == nil {
		quantLuma = LuminanceQuantTable(opts.Quality)
	}
	quantChroma := opts.QuantChroma
	if quantChroma == nil {
		quantChroma = ChrominanceQuantTable(opts.Quality)
	}

	log.Debug("dct+quantize",
		zap.Int("y_blocks", len(yBlocks)),
		zap.Int("cb_blocks", len(cbBlocks)),
		zap.Int("cr_blocks", len(crBlocks)),
		zap.String("dct_mode", dctModeName(opts.DCTMode)),
	)

	yCoeff, err := transformAndQuantize(ctx, yBlocks, quantLuma, opts.DCTMode)
	if err != nil {
		return err
	}
	cbCoeff, err := transformAndQuantize(ctx, cbBlocks, quantChroma, opts.DCTMode)
	if err != nil {
		return err
	}
	crCoeff, err := transformAndQuantize(ctx, crBlocks, quantChroma, opts.DCTMode)
	if err != nil {
		return err
	}

	mcus, _, _ := BuildMCUs(yBW, yBH, opts.Subsampling)

	eb := newEntropyBuilder()
	for _, mcu := range mcus {
		for _, yi := range mcu.Y {
			eb.addBlock(componentY, yCoeff[yi])
		}
		eb.addBlock(componentCb, cbCoeff[mcu.Cb])
		eb.addBlock(componentCr, crCoeff[mcu.Cr])
	}

	lumaDC, err := BuildHuffmanTable(eb.dcFreq[componentY], 16)
	if err != nil {
		return err
	}
	chromaDC, err := BuildHuffmanTable(mergeFreq(eb.dcFreq[componentCb], eb.dcFreq[componentCr]), 16)
	if err != nil {
		return err
	}
	lumaAC, err := BuildHuffmanTable(eb.acFreq[componentY], 16)
	if err != nil {
		return err
	}
	chromaAC, err := BuildHuffmanTable(mergeFreq(eb.acFreq[componentCb], eb.acFreq[componentCr]), 16)
	if err != nil {
		return err
	}

	log.Debug("huffman tables built",
		zap.Int("luma_dc_symbols", len(lumaDC.Symbols)),
		zap.Int("luma_ac_symbols", len(lumaAC.Symbols)),
		zap.Int("chroma_dc_symbols", len(chromaDC.Symbols)),
		zap.Int("chroma_ac_symbols", len(chromaAC.Symbols)),
	)

	sw := newSegmentWriter(w)
	if err := writeHeader(sw, img.Width, img.Height, opts.Subsampling, quantLuma, quantChroma, lumaDC, lumaAC, chromaDC, chromaAC); err != nil {
		return err
	}

	bw := newBitWriter(w)
	var dcPredY, dcPredCb, dcPredCr int32
	for mi, mcu := range mcus {
		if mi%256 == 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return wrap(ErrIO, "encode", ctxErr)
			}
		}
		for _, yi := range mcu.Y {
			if err := writeBlockEntropy(bw, lumaDC, lumaAC, yCoeff[yi], &dcPredY); err != nil {
				return err
			}
		}
		if err := writeBlockEntropy(bw, chromaDC, chromaAC, cbCoeff[mcu.Cb], &dcPredCb); err != nil {
			return err
		}
		if err := writeBlockEntropy(bw, chromaDC, chromaAC, crCoeff[mcu.Cr], &dcPredCr); err != nil {
			return err
		}
	}
	if err := bw.Close(); err != nil {
		return err
	}

	return sw.writeEOI()
}

// transformAndQuantize runs the forward DCT then quantize+zigzag over
// blocks, dispatched across the machine's cores (components D and E).
// blocks is mutated in place by the DCT pass; the quantize pass is a
// second, independent dispatch writing into a freshly allocated result
// slice, matching spec.md §5's "one fork-join between DCT and
// quantize" concurrency boundary.
func transformAndQuantize(ctx context.Context, blocks []Block, q *QuantTable, mode DCTMode) ([][64]int32, error) {
	if err := dispatch(ctx, len(blocks), func(i int) {
		forwardDCT(mode, &blocks[i])
	}); err != nil {
		return nil, err
	}

	out := make([][64]int32, len(blocks))
	if err := dispatch(ctx, len(blocks), func(i int) {
		natural := Quantize(&blocks[i], q)
		out[i] = zigzag(&natural)
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// mcuPixelSize returns the pixel dimensions of one MCU under sampling,
// the alignment Encode requires img.Width/img.Height to already satisfy.
func mcuPixelSize(s Subsampling) (w, h int) {
	switch s {
	case Sampling422:
		return 16, 8
	case Sampling420:
		return 16, 16
	default:
		return 8, 8
	}
}

func mergeFreq(a, b map[byte]int) map[byte]int {
	out := make(map[byte]int, len(a)+len(b))
	for s, c := range a {
		out[s] += c
	}
	for s, c := range b {
		out[s] += c
	}
	return out
}

func dctModeName(m DCTMode) string {
	switch m {
	case DCTDirect:
		return "direct"
	case DCTMatrix:
		return "matrix"
	default:
		return "arai"
	}
}
