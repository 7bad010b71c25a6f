// Package bjpeg implements a baseline JFIF (JPEG) encoder: color transform
// and chroma subsampling, block DCT, quantization, Huffman coding via
// Package-Merge length-limited codes, and a byte-stuffing bit writer.
//
// It produces a conforming JFIF byte stream from decoded RGB pixel planes.
// Decoding, progressive/hierarchical modes, and arithmetic coding are not
// implemented; use the standard library's image/jpeg package to decode the
// output of this encoder.
package bjpeg
