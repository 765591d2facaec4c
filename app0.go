package jpeg

import "bytes"

// jfifHeader is the parsed payload of an APP0/JFIF segment (spec.md §4.2).
// It has no bearing on the decoded raster but is kept, adapted from the
// teacher's jfif.go, as supplemental metadata (SPEC_FULL.md §5).
type jfifHeader struct {
	versionMajor, versionMinor byte
	densityUnits               byte
	densityX, densityY         uint16
	thumbnailW, thumbnailH     byte
}

const jfifIdentSize = 5 // "JFIF\x00"
const jfifFixedSize = jfifIdentSize + 2 + 1 + 2 + 2 + 2

func (d *Decoder) parseAPP0() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	if n < jfifIdentSize {
		return newError(TruncatedSegment, start, "APP0 segment too short for identifier")
	}
	ident, err := d.r.readBytes(jfifIdentSize)
	if err != nil {
		return newError(TruncatedSegment, start, "APP0 segment shorter than declared length")
	}
	if !bytes.Equal(ident, []byte("JFIF\x00")) {
		// Non-JFIF APP0 (e.g. JFXX): skip the remainder by length, per
		// spec.md §4.2 "Non-JFIF APP0 ... skipped by length".
		return d.r.skip(n - jfifIdentSize)
	}
	if n < jfifFixedSize {
		return newError(TruncatedSegment, start, "JFIF APP0 segment too short")
	}
	h := &jfifHeader{}
	vMajor, err := d.r.readU8()
	if err != nil {
		return err
	}
	vMinor, err := d.r.readU8()
	if err != nil {
		return err
	}
	units, err := d.r.readU8()
	if err != nil {
		return err
	}
	x, err := d.r.readU16BE()
	if err != nil {
		return err
	}
	y, err := d.r.readU16BE()
	if err != nil {
		return err
	}
	tw, err := d.r.readU8()
	if err != nil {
		return err
	}
	th, err := d.r.readU8()
	if err != nil {
		return err
	}
	h.versionMajor, h.versionMinor = vMajor, vMinor
	h.densityUnits = units
	h.densityX, h.densityY = x, y
	h.thumbnailW, h.thumbnailH = tw, th
	d.jfif = h

	// Discard the thumbnail pixels themselves (spec.md §4.2).
	thumbBytes := uint(tw) * uint(th) * 3
	remaining := n - jfifFixedSize
	if thumbBytes > remaining {
		return newError(TruncatedSegment, start, "JFIF thumbnail larger than segment")
	}
	if err := d.r.skip(thumbBytes); err != nil {
		return err
	}
	return d.r.skip(remaining - thumbBytes)
}

// JFIFDensity exposes the parsed APP0/JFIF resolution metadata, if present.
// It has no effect on decoding; callers that do not need it can ignore it.
func (img *Image) JFIFDensity() (units byte, x, y uint16, ok bool) {
	if img.jfif == nil {
		return 0, 0, 0, false
	}
	return img.jfif.densityUnits, img.jfif.densityX, img.jfif.densityY, true
}

// Comments returns the text of every COM segment encountered, in stream
// order (SPEC_FULL.md §5).
func (img *Image) Comments() []string {
	return img.comments
}
