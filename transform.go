package jpeg

import "math"

// zigzag maps a zig-zag scan position to its natural row-major position in
// an 8x8 block (ITU-T T.81 Figure A.6), adapted from the teacher's
// zigZagRowCol table in decode.go.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// inverseBlock un-zigzags coeff into natural order, applies the inverse
// DCT, and level-shifts and clamps the result to [0,255] (spec.md §4.4).
func inverseBlock(coeff *[64]int32, out *[64]uint8) {
	var natural [64]float64
	for zz, nat := range zigzag {
		natural[nat] = float64(coeff[zz])
	}
	var samples [64]float64
	inverseDCT8(&natural, &samples)
	for i, s := range samples {
		v := int(math.Round(s)) + 128
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		out[i] = uint8(v)
	}
}

// inverseDCT8 computes the 2-D inverse DCT-II of an 8x8 block, adapted
// from the reference form kept (commented, as an accuracy check against the
// butterfly fast path) in the teacher's decode.go: each output sample is
// evaluated directly as the full 8x8 double sum (idctSum), without
// splitting it into row and column passes. spec.md
// §4.4 permits any mathematically equivalent IDCT; this module favors the
// direct sum for clarity since decode time is dominated by entropy
// decoding, not transform, at the image sizes this package targets.
func inverseDCT8(in, out *[64]float64) {
	var tmp [64]float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			tmp[y*8+x] = idctSum(in, y, x)
		}
	}
	*out = tmp
}

// idctSum computes one output sample of the 2-D inverse DCT at natural
// (row, col) position (y, x):
//
//	S(x,y) = 1/4 * sum_u sum_v C(u) C(v) F(v,u) cos((2x+1)u*pi/16) cos((2y+1)v*pi/16)
//
// with C(0) = 1/sqrt2 and C(k) = 1 for k > 0 (ITU-T T.81 Annex A.3.3).
func idctSum(coeff *[64]float64, y, x int) float64 {
	sum := 0.0
	for v := 0; v < 8; v++ {
		cv := 1.0
		if v == 0 {
			cv = invSqrt2
		}
		cosY := math.Cos(float64(2*y+1) * float64(v) * math.Pi / 16)
		for u := 0; u < 8; u++ {
			cu := 1.0
			if u == 0 {
				cu = invSqrt2
			}
			cosX := math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
			sum += cu * cv * coeff[v*8+u] * cosX * cosY
		}
	}
	return sum / 4
}

var invSqrt2 = 1.0 / math.Sqrt2

// writeBlock copies an 8x8 spatial-domain block into a componentPlane at
// the given block coordinates (measured in 8x8 blocks, not pixels).
func writeBlock(plane *componentPlane, blockX, blockY uint, block *[64]uint8) {
	stride := int(plane.width)
	baseX := int(blockX) * 8
	baseY := int(blockY) * 8
	for row := 0; row < 8; row++ {
		dst := (baseY+row)*stride + baseX
		copy(plane.data[dst:dst+8], block[row*8:row*8+8])
	}
}
