package bjpeg

import "io"

// JPEG marker codes used by this encoder (baseline sequential only — no
// progressive/hierarchical/arithmetic markers).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerAPP0 = 0xE0
	markerDQT  = 0xDB
	markerSOF0 = 0xC0
	markerDHT  = 0xC4
	markerSOS  = 0xDA
)

// segmentWriter writes JFIF marker segments to the raw (non-stuffed)
// output path (component I). Byte layouts follow spec.md §6 exactly,
// cross-checked against original_source/src/jpg_writer.rs; segment
// dispatch and structure are grounded on the teacher's
// writeMarkerHeader/writeDQT/writeSOF/writeDHT in writer.go.
type segmentWriter struct {
	w io.Writer
}

func newSegmentWriter(w io.Writer) *segmentWriter {
	return &segmentWriter{w: w}
}

func (sw *segmentWriter) writeBytes(p []byte) error {
	if _, err := sw.w.Write(p); err != nil {
		return wrap(ErrIO, "segment", err)
	}
	return nil
}

// writeMarker writes a bare (payload-less) marker: SOI or EOI.
func (sw *segmentWriter) writeMarker(marker byte) error {
	return sw.writeBytes([]byte{0xFF, marker})
}

// writeSegment writes a marker followed by its big-endian length
// (payload length + 2, per the JFIF convention of counting the length
// field itself) and payload.
func (sw *segmentWriter) writeSegment(marker byte, payload []byte) error {
	length := len(payload) + 2
	header := []byte{0xFF, marker, byte(length >> 8), byte(length)}
	if err := sw.writeBytes(header); err != nil {
		return err
	}
	return sw.writeBytes(payload)
}

func (sw *segmentWriter) writeSOI() error { return sw.writeMarker(markerSOI) }
func (sw *segmentWriter) writeEOI() error { return sw.writeMarker(markerEOI) }

// writeAPP0 writes the JFIF identification segment: version 1.1, no
// density units, a fixed 1x1 pixel aspect ratio (spec.md §6 specifies a
// fixed density rather than deriving one from the source image, unlike
// original_source/src/jpg_writer.rs's aspect-ratio-via-gcd — the
// simpler fixed layout is the authoritative output contract here), and
// no embedded thumbnail.
func (sw *segmentWriter) writeAPP0() error {
	payload := []byte{
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.1
		0x00,       // density units: none
		0x00, 0x01, // Xdensity
		0x00, 0x01, // Ydensity
		0x00, 0x00, // thumbnail width, height
	}
	return sw.writeSegment(markerAPP0, payload)
}

// sofComponent describes one SOF0 component entry.
type sofComponent struct {
	ID     byte
	H, V   byte
	QTable byte
}

// writeSOF0 writes the baseline frame header: 8-bit precision, image
// dimensions, and per-component sampling factors / quantization table
// selectors.
func (sw *segmentWriter) writeSOF0(width, height int, components []sofComponent) error {
	payload := []byte{
		8, // sample precision
		byte(height >> 8), byte(height),
		byte(width >> 8), byte(width),
		byte(len(components)),
	}
	for _, c := range components {
		payload = append(payload, c.ID, c.H<<4|c.V, c.QTable)
	}
	return sw.writeSegment(markerSOF0, payload)
}

// writeDQT writes one quantization table, reordered into zig-zag scan
// order as JFIF requires (8-bit precision only — this encoder never
// produces 12-bit tables, per spec.md's Non-goals).
func (sw *segmentWriter) writeDQT(id byte, q *QuantTable) error {
	payload := make([]byte, 0, 65)
	payload = append(payload, id&0x0F)
	var zz [64]byte
	for k, nat := range zigzagOrder {
		zz[k] = byte(q.Values[nat])
	}
	payload = append(payload, zz[:]...)
	return sw.writeSegment(markerDQT, payload)
}

// writeDHT writes one Huffman table: class (0=DC, 1=AC), table ID, the
// 16 per-length symbol counts, then the symbols themselves in
// (length, symbol)-sorted order — the same order
// original_source/src/jpg_writer.rs::write_dht_segment uses.
func (sw *segmentWriter) writeDHT(class, id byte, t *HuffmanTable) error {
	payload := make([]byte, 0, 1+16+len(t.Symbols))
	payload = append(payload, class<<4|id&0x0F)
	payload = append(payload, t.Counts[:]...)
	payload = append(payload, t.Symbols...)
	return sw.writeSegment(markerDHT, payload)
}

// sosComponent describes one SOS component's Huffman table selectors.
type sosComponent struct {
	ID           byte
	DCTable      byte
	ACTable      byte
}

// writeSOS writes the scan header. Ss/Se/Ah/Al are fixed at 0,63,0,0:
// baseline sequential always codes the full 0..63 spectral range in one
// pass.
func (sw *segmentWriter) writeSOS(components []sosComponent) error {
	payload := []byte{byte(len(components))}
	for _, c := range components {
		payload = append(payload, c.ID, c.DCTable<<4|c.ACTable)
	}
	payload = append(payload, 0, 63, 0)
	return sw.writeSegment(markerSOS, payload)
}
