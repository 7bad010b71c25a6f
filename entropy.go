package bjpeg

// entropyBuilder accumulates per-component DC/AC symbol frequencies over
// every block in MCU order (stage F, run serially since DC prediction
// carries state from block to block), producing the frequency tables
// component G's Package-Merge needs before any Huffman code can be
// assigned.
type entropyBuilder struct {
	dcFreq [3]map[byte]int
	acFreq [3]map[byte]int
	dcPred [3]int32
}

func newEntropyBuilder() *entropyBuilder {
	eb := &entropyBuilder{}
	for i := range eb.dcFreq {
		eb.dcFreq[i] = make(map[byte]int)
		eb.acFreq[i] = make(map[byte]int)
	}
	return eb
}

// addBlock folds one block's DC/AC symbols into the running frequency
// tables for component c, predicting its DC value from the previous
// block of the same component.
func (eb *entropyBuilder) addBlock(c component, coeff [64]int32) {
	diff := coeff[0] - eb.dcPred[c]
	eb.dcPred[c] = coeff[0]

	dcSym := EncodeDC(diff)
	eb.dcFreq[c][dcSym.Symbol]++

	for _, s := range EncodeAC(coeff[1:]) {
		eb.acFreq[c][s.Symbol]++
	}
}

// writeBlockEntropy Huffman-codes one block's DC difference and AC
// run-length symbols to bw, advancing dcPred in place.
func writeBlockEntropy(bw *bitWriter, dcTable, acTable *HuffmanTable, coeff [64]int32, dcPred *int32) error {
	diff := coeff[0] - *dcPred
	*dcPred = coeff[0]

	if err := bw.WriteSymbol(dcTable, EncodeDC(diff)); err != nil {
		return err
	}
	for _, s := range EncodeAC(coeff[1:]) {
		if err := bw.WriteSymbol(acTable, s); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader writes every marker segment preceding the entropy-coded
// scan data: SOI, APP0, DQT (luma then chroma), SOF0, DHT (DC/AC for
// each of the two table sets), and SOS. Component IDs 1/2/3 (Y/Cb/Cr)
// and quantization-table/huffman-table selectors follow the conventional
// JFIF assignment.
func writeHeader(sw *segmentWriter, width, height int, sampling Subsampling, quantLuma, quantChroma *QuantTable, lumaDC, lumaAC, chromaDC, chromaAC *HuffmanTable) error {
	if err := sw.writeSOI(); err != nil {
		return err
	}
	if err := sw.writeAPP0(); err != nil {
		return err
	}
	if err := sw.writeDQT(0, quantLuma); err != nil {
		return err
	}
	if err := sw.writeDQT(1, quantChroma); err != nil {
		return err
	}

	hY, vY := 1, 1
	switch sampling {
	case Sampling422:
		hY, vY = 2, 1
	case Sampling420:
		hY, vY = 2, 2
	}
	components := []sofComponent{
		{ID: 1, H: byte(hY), V: byte(vY), QTable: 0},
		{ID: 2, H: 1, V: 1, QTable: 1},
		{ID: 3, H: 1, V: 1, QTable: 1},
	}
	if err := sw.writeSOF0(width, height, components); err != nil {
		return err
	}

	if err := sw.writeDHT(0, 0, lumaDC); err != nil {
		return err
	}
	if err := sw.writeDHT(1, 0, lumaAC); err != nil {
		return err
	}
	if err := sw.writeDHT(0, 1, chromaDC); err != nil {
		return err
	}
	if err := sw.writeDHT(1, 1, chromaAC); err != nil {
		return err
	}

	sosComponents := []sosComponent{
		{ID: 1, DCTable: 0, ACTable: 0},
		{ID: 2, DCTable: 1, ACTable: 1},
		{ID: 3, DCTable: 1, ACTable: 1},
	}
	return sw.writeSOS(sosComponents)
}
