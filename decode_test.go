package jpeg

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

// sof0Payload builds a baseline SOF0 segment payload for the given
// components, each with its own sampling factors and quant table id.
func sof0Payload(width, height uint16, comps []component) []byte {
	p := []byte{8}
	p = append(p, u16be(height)...)
	p = append(p, u16be(width)...)
	p = append(p, byte(len(comps)))
	for _, c := range comps {
		p = append(p, c.id, c.h<<4|c.v, c.tq)
	}
	return p
}

func sosPayload(comps []component) []byte {
	p := []byte{byte(len(comps))}
	for _, c := range comps {
		p = append(p, c.id, c.dcTable<<4|c.acTable)
	}
	p = append(p, 0, 63, 0)
	return p
}

// buildMinimalGray builds the scenario-1 stream from spec.md §8: a 1x1
// grayscale image, one block, DC=0 and an immediate EOB.
func buildMinimalGray() []byte {
	var b []byte
	b = appendSOI(b)
	b = append(b, segment(dqt, onesQuantTable(0))...)
	b = append(b, segment(dht, singleSymbolHuffTable(0, 0, 0x00))...)
	b = append(b, segment(dht, singleSymbolHuffTable(1, 0, 0x00))...)
	comps := []component{{id: 1, h: 1, v: 1, tq: 0, dcTable: 0, acTable: 0}}
	b = append(b, segment(sof0, sof0Payload(1, 1, comps))...)
	b = append(b, segment(sos, sosPayload(comps))...)
	// DC category-0 bit, then AC EOB bit: "0", "0".
	b = append(b, bitsToBytes([]int{0, 0})...)
	b = appendEOI(b)
	return b
}

func TestDecodeMinimalGray(t *testing.T) {
	c := qt.New(t)
	img, err := Decode(buildMinimalGray())
	c.Assert(err, qt.IsNil)
	c.Assert(img.Width(), qt.Equals, 1)
	c.Assert(img.Height(), qt.Equals, 1)
	c.Assert(img.NumComponents(), qt.Equals, 1)
	c.Assert(img.Gray(), qt.IsTrue)
	r, g, bl := img.At(0, 0)
	c.Assert([]byte{r, g, bl}, qt.DeepEquals, []byte{128, 128, 128})
}

// buildColor444 builds the scenario-2 stream: an 8x8 4:4:4 image, one MCU,
// all-EOB blocks, producing a flat (128,128,128) raster.
func buildColor444() []byte {
	var b []byte
	b = appendSOI(b)
	b = append(b, segment(dqt, onesQuantTable(0))...)
	b = append(b, segment(dht, singleSymbolHuffTable(0, 0, 0x00))...)
	b = append(b, segment(dht, singleSymbolHuffTable(1, 0, 0x00))...)
	comps := []component{
		{id: 1, h: 1, v: 1, tq: 0, dcTable: 0, acTable: 0},
		{id: 2, h: 1, v: 1, tq: 0, dcTable: 0, acTable: 0},
		{id: 3, h: 1, v: 1, tq: 0, dcTable: 0, acTable: 0},
	}
	b = append(b, segment(sof0, sof0Payload(8, 8, comps))...)
	b = append(b, segment(sos, sosPayload(comps))...)
	// One block per component, each DC=0 AC=EOB: 3 * "0 0" = 6 bits.
	b = append(b, bitsToBytes([]int{0, 0, 0, 0, 0, 0})...)
	b = appendEOI(b)
	return b
}

func TestDecodeColor444(t *testing.T) {
	c := qt.New(t)
	img, err := Decode(buildColor444())
	c.Assert(err, qt.IsNil)
	c.Assert(img.Width(), qt.Equals, 8)
	c.Assert(img.Height(), qt.Equals, 8)
	c.Assert(img.NumComponents(), qt.Equals, 3)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, bl := img.At(x, y)
			c.Assert([]byte{r, g, bl}, qt.DeepEquals, []byte{128, 128, 128})
		}
	}
}

// buildTruncatedDQT declares a DQT segment length one byte short of what
// its actual table payload requires (spec.md §8 scenario 5: "remove the
// final coefficient byte" of the segment's accounting).
func buildTruncatedDQT() []byte {
	var b []byte
	b = appendSOI(b)
	full := segment(dqt, onesQuantTable(0))
	full[3]-- // declared length one short
	b = append(b, full...)
	b = appendEOI(b)
	return b
}

func TestDecodeTruncatedDQT(t *testing.T) {
	c := qt.New(t)
	_, err := Decode(buildTruncatedDQT())
	c.Assert(err, qt.Not(qt.IsNil))
	jerr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(jerr.Kind, qt.Equals, TruncatedSegment)
}

// buildProgressive presents a SOF2 (progressive) marker in place of SOF0
// (spec.md §8 scenario 6).
func buildProgressive() []byte {
	var b []byte
	b = appendSOI(b)
	b = append(b, segment(dqt, onesQuantTable(0))...)
	comps := []component{{id: 1, h: 1, v: 1, tq: 0}}
	b = append(b, segment(0xc2, sof0Payload(8, 8, comps))...) // SOF2
	return b
}

func TestDecodeProgressiveRejected(t *testing.T) {
	c := qt.New(t)
	_, err := Decode(buildProgressive())
	c.Assert(err, qt.Not(qt.IsNil))
	jerr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(jerr.Kind, qt.Equals, UnsupportedMode)
}

// TestDecodeColor444FrameInfo checks the reported frame layout against a
// hand-built expectation with cmp.Diff, since FrameInfo nests a slice of
// Component values that qt.DeepEquals would report as an opaque mismatch
// rather than a field-by-field diff.
func TestDecodeColor444FrameInfo(t *testing.T) {
	c := qt.New(t)
	img, err := Decode(buildColor444())
	c.Assert(err, qt.IsNil)

	want := FrameInfo{
		Precision: 8,
		Width:     8,
		Height:    8,
		Components: []Component{
			{ID: 1, H: 1, V: 1, QuantID: 0},
			{ID: 2, H: 1, V: 1, QuantID: 0},
			{ID: 3, H: 1, V: 1, QuantID: 0},
		},
	}
	got := img.Info()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frame info mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMissingSOI(t *testing.T) {
	c := qt.New(t)
	_, err := Decode([]byte{0x00, 0x01, 0x02})
	c.Assert(err, qt.Not(qt.IsNil))
	jerr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(jerr.Kind, qt.Equals, NotJpeg)
}
