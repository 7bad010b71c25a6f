package bjpeg

import (
	"io"

	"github.com/icza/bitio"
)

// stuffingSink wraps the destination io.Writer and inserts a 0x00 byte
// after every 0xFF byte written, the JPEG entropy-stream byte-stuffing
// rule. Ported from original_source/src/byte_stuffing_writer.rs, whose
// ByteStuffingWriter tracks trailing/leading run-of-ones across partial
// bit writes so it can detect an emerging 0xFF pattern before a full
// byte is even assembled. bitio.Writer already buffers partial bits
// internally and only ever calls Write with complete bytes, so that
// bit-level bookkeeping collapses here to the equivalent, simpler
// byte-level check: a byte is 0xFF exactly when all eight of its bits
// are the trailing-ones run the original tracks.
type stuffingSink struct {
	dst io.Writer
}

func (s *stuffingSink) Write(p []byte) (int, error) {
	for _, b := range p {
		if _, err := s.dst.Write([]byte{b}); err != nil {
			return 0, wrap(ErrIO, "bitwriter", err)
		}
		if b == 0xFF {
			if _, err := s.dst.Write([]byte{0x00}); err != nil {
				return 0, wrap(ErrIO, "bitwriter", err)
			}
		}
	}
	return len(p), nil
}

// bitWriter MSB-first packs Huffman codes and verbatim extra bits over a
// stuffingSink, using icza/bitio.Writer as the bit-packing primitive
// (component J). No library in this corpus's dependency surface exposes
// JPEG-style byte stuffing, so that escaping logic is bjpeg's own, layered
// underneath bitio rather than reimplementing bit packing.
type bitWriter struct {
	sink     *stuffingSink
	bw       *bitio.Writer
	bitCount int
}

// newBitWriter wraps w with byte stuffing and returns a ready bitWriter.
func newBitWriter(w io.Writer) *bitWriter {
	sink := &stuffingSink{dst: w}
	return &bitWriter{sink: sink, bw: bitio.NewWriter(sink)}
}

// WriteBits writes the low n bits of value, MSB first.
func (bw *bitWriter) WriteBits(value uint64, n uint8) error {
	if n == 0 {
		return nil
	}
	if err := bw.bw.WriteBits(value, n); err != nil {
		return wrap(ErrIO, "bitwriter", err)
	}
	bw.bitCount += int(n)
	return nil
}

// WriteSymbol writes one Huffman code, then its category's verbatim
// extra bits.
func (bw *bitWriter) WriteSymbol(t *HuffmanTable, sym CoeffSymbol) error {
	code, length, ok := t.Lookup(sym.Symbol)
	if !ok {
		return wrap(ErrInvalidInput, "bitwriter", nil)
	}
	if err := bw.WriteBits(uint64(code), length); err != nil {
		return err
	}
	return bw.WriteBits(uint64(sym.Bits), sym.NBits)
}

// Close pads the final byte out with 1 bits (the conventional JPEG
// entropy-stream padding, distinguishing "end of data" from the
// structural zero-padding bitio.Writer would otherwise use) and flushes.
func (bw *bitWriter) Close() error {
	if rem := bw.bitCount % 8; rem != 0 {
		pad := uint8(8 - rem)
		if err := bw.WriteBits(uint64(1<<pad-1), pad); err != nil {
			return err
		}
	}
	if err := bw.bw.Close(); err != nil {
		return wrap(ErrIO, "bitwriter", err)
	}
	return nil
}
