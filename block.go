package bjpeg

// levelShift centers a 16-bit unsigned sample (0..65535, midpoint 32768)
// around zero before the DCT, the 16-bit analogue of JPEG's classic
// "subtract 128" level shift for 8-bit samples.
const levelShift = 32768

// Block is one 8x8 tile of level-shifted samples, row-major
// (blk[y*8+x]), ready for the forward DCT. Kept as a value array rather
// than a slice so it stays on the stack and copies cheaply across
// pipeline stages.
type Block [64]float32

// at returns the element at row y, column x.
func (b *Block) at(x, y int) float32 { return b[y*8+x] }

// set stores v at row y, column x.
func (b *Block) set(x, y int, v float32) { b[y*8+x] = v }

// TileBlocks splits a plane into 8x8 blocks (component C), left-to-right
// then top-to-bottom, level-shifting each sample by levelShift into
// float32. The plane's dimensions must already be multiples of 8 (the
// caller pads during subsampling/capture); TileBlocks itself never pads,
// it only reports ErrDimension when the invariant doesn't hold.
func TileBlocks(p *Plane) (blocks []Block, blocksWide, blocksHigh int, err error) {
	if p.Width%8 != 0 || p.Height%8 != 0 {
		return nil, 0, 0, wrap(ErrDimension, "block", nil)
	}
	blocksWide = p.Width / 8
	blocksHigh = p.Height / 8
	blocks = make([]Block, blocksWide*blocksHigh)

	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			var blk Block
			for y := 0; y < 8; y++ {
				row := p.Row(by*8 + y)
				for x := 0; x < 8; x++ {
					blk.set(x, y, float32(row[bx*8+x])-levelShift)
				}
			}
			blocks[by*blocksWide+bx] = blk
		}
	}
	return blocks, blocksWide, blocksHigh, nil
}
