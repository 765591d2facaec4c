// Package jpeg decodes baseline sequential JFIF/JPEG images into an RGB
// raster and serializes that raster as a P6 PPM. It is deliberately narrow:
// progressive, hierarchical, lossless and arithmetic-coded JPEG are detected
// and rejected rather than decoded.
package jpeg

import "fmt"

// JPEG marker definitions (ISO/IEC 10918-1 Table B.1), kept under the
// teacher's naming convention of one named constant per marker.
const (
	soi  = 0xd8
	eoi  = 0xd9
	sos  = 0xda
	dqt  = 0xdb
	dnl  = 0xdc
	dri  = 0xdd
	dhp  = 0xde
	exp  = 0xdf
	com  = 0xfe
	dht  = 0xc4
	dac  = 0xcc
	sof0 = 0xc0
	app0 = 0xe0
	app1 = 0xe1
	rst0 = 0xd0
	rst7 = 0xd7
)

func isSOF(marker byte) bool {
	if marker < 0xc0 || marker > 0xcf {
		return false
	}
	return marker != dht && marker != dac
}

func isAPPn(marker byte) bool {
	return marker >= 0xe0 && marker <= 0xef
}

func isRST(marker byte) bool {
	return marker >= rst0 && marker <= rst7
}

func markerName(marker byte) string {
	switch marker {
	case soi:
		return "SOI"
	case eoi:
		return "EOI"
	case sos:
		return "SOS"
	case dqt:
		return "DQT"
	case dnl:
		return "DNL"
	case dri:
		return "DRI"
	case dhp:
		return "DHP"
	case exp:
		return "EXP"
	case com:
		return "COM"
	case dht:
		return "DHT"
	case dac:
		return "DAC"
	}
	if isSOF(marker) {
		return fmt.Sprintf("SOF%d", marker-sof0)
	}
	if isAPPn(marker) {
		return fmt.Sprintf("APP%d", marker-app0)
	}
	if isRST(marker) {
		return fmt.Sprintf("RST%d", marker-rst0)
	}
	return fmt.Sprintf("0x%02x", marker)
}

// parseState drives the outer marker state machine (spec.md §4.2), a
// tagged-variant simplification of the teacher's hierarchical/progressive
// state machine: this decoder only ever needs to know whether it is still
// reading header segments, reading one interleaved scan, or done.
type parseState int

const (
	stateStart parseState = iota
	stateHeaderWait
	stateFrame
	stateScan
	stateFinal
)

// quantTable holds the 64 zig-zag-ordered coefficients of one DQT
// destination (spec.md §3 QuantizationTable).
type quantTable struct {
	defined   bool
	precision uint8 // 0 = 8-bit, 1 = 16-bit
	values    [64]uint16
}

// component records one frame component's identifier, sampling factors and
// quantization table selector (spec.md §3 FrameHeader); once selected by a
// scan, it also carries the DC/AC Huffman tables and the running DC
// predictor for that scan.
type component struct {
	id      byte
	h, v    byte // sampling factors
	tq      byte // quantization table selector
	dcTable byte
	acTable byte

	predictor int32
}

// frameHeader holds the parsed SOF0 fields (spec.md §3 FrameHeader).
type frameHeader struct {
	precision  byte
	width      uint16
	height     uint16
	components []component
	hMax, vMax byte
}

// Decoder holds all state accumulated while walking the marker stream: the
// explicit cursor (byteReader) plus whatever tables and headers earlier
// markers have populated. A Decoder is used for exactly one Decode call and
// discarded afterward; there is no process-wide or reusable state (spec.md
// §5).
type Decoder struct {
	r     *byteReader
	state parseState

	jfif       *jfifHeader
	quantTabs  [4]quantTable
	huffTabs   [2][4]huffTable // [class][destination], class 0=DC 1=AC
	frame      *frameHeader
	restartInt uint16
	comments   []string

	scanComponents []component // order fixed by SOS, subset/perm of frame.components
}

// Decode parses a complete JFIF/JPEG byte sequence and produces an Image.
// This is the core API entry point of spec.md §6.
func Decode(input []byte) (*Image, error) {
	d := &Decoder{r: newByteReader(input)}
	return d.decode()
}

func (d *Decoder) decode() (*Image, error) {
	if err := d.expectSOI(); err != nil {
		return nil, err
	}

	var planes []*componentPlane
	for d.state != stateFinal {
		marker, err := d.nextMarker()
		if err != nil {
			return nil, err
		}

		switch {
		case marker == eoi:
			if d.state != stateScan && d.state != stateFrame {
				return nil, newError(InternalError, d.r.position(), "EOI in state %d", d.state)
			}
			d.state = stateFinal

		case marker == app0:
			if err := d.parseAPP0(); err != nil {
				return nil, err
			}
		case marker == app1 || (isAPPn(marker) && marker != app0):
			if err := d.skipSegment(); err != nil {
				return nil, err
			}
		case marker == com:
			if err := d.parseCOM(); err != nil {
				return nil, err
			}
		case marker == dqt:
			if err := d.parseDQT(); err != nil {
				return nil, err
			}
		case marker == dht:
			if err := d.parseDHT(); err != nil {
				return nil, err
			}
		case marker == dri:
			if err := d.parseDRI(); err != nil {
				return nil, err
			}
		case marker == sof0:
			if err := d.parseSOF0(); err != nil {
				return nil, err
			}
		case isSOF(marker):
			return nil, newError(UnsupportedMode, d.r.position(), "unsupported frame marker %s", markerName(marker))
		case marker == sos:
			if planes != nil {
				return nil, newError(UnsupportedMode, d.r.position(), "second scan in stream")
			}
			ps, err := d.parseScan()
			if err != nil {
				return nil, err
			}
			planes = ps
			d.state = stateFrame // baseline is a single scan; accept trailing markers up to EOI
		case marker == dnl:
			if err := d.skipSegment(); err != nil { // number of lines is already known from SOF0
				return nil, err
			}
		case isRST(marker):
			// RST markers only ever appear inside a scan's entropy-coded
			// segment, where parseScan's bitReader consumes them directly;
			// one reaching the outer marker loop means the stream is
			// corrupt or the scan ended early.
			return nil, newError(RestartOutOfSync, d.r.position(), "unexpected restart marker %s outside scan", markerName(marker))
		default:
			return nil, newError(UnknownMarker, d.r.position(), "marker %s in state %d", markerName(marker), d.state)
		}
	}

	if d.frame == nil || planes == nil {
		return nil, newError(InternalError, d.r.position(), "complete stream without a decoded scan")
	}
	return d.assemble(planes)
}

func (d *Decoder) expectSOI() error {
	b0, err := d.r.readU8()
	if err != nil {
		return newError(NotJpeg, 0, "missing SOI")
	}
	b1, err := d.r.readU8()
	if err != nil || b0 != 0xff || b1 != soi {
		return newError(NotJpeg, 0, "missing SOI signature")
	}
	d.state = stateHeaderWait
	return nil
}

// nextMarker consumes 0xFF followed by any number of 0xFF fill bytes and
// then a non-zero marker byte, per spec.md §4.2.
func (d *Decoder) nextMarker() (byte, error) {
	b, err := d.r.readU8()
	if err != nil {
		return 0, err
	}
	if b != 0xff {
		return 0, newError(InvalidBitstream, d.r.position()-1, "expected marker, found 0x%02x", b)
	}
	for {
		m, err := d.r.readU8()
		if err != nil {
			return 0, err
		}
		if m == 0xff {
			continue // fill byte
		}
		if m == 0x00 {
			return 0, newError(InvalidBitstream, d.r.position()-1, "stuffed byte where marker expected")
		}
		return m, nil
	}
}

// segmentLength reads the 16-bit big-endian length field common to every
// segment except SOI/EOI/RSTn, and returns the length of the payload that
// follows the two length bytes.
func (d *Decoder) segmentLength() (uint, error) {
	l, err := d.r.readU16BE()
	if err != nil {
		return 0, err
	}
	if l < 2 {
		return 0, newError(TruncatedSegment, d.r.position()-2, "segment length %d smaller than its own field", l)
	}
	return uint(l) - 2, nil
}

func (d *Decoder) skipSegment() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	if err := d.r.skip(n); err != nil {
		return newError(TruncatedSegment, start, "segment shorter than declared length")
	}
	return nil
}

func (d *Decoder) parseCOM() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	text, err := d.r.readBytes(n)
	if err != nil {
		return newError(TruncatedSegment, start, "COM segment shorter than declared length")
	}
	d.comments = append(d.comments, string(text))
	return nil
}

func (d *Decoder) parseDRI() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	if n != 2 {
		return newError(TruncatedSegment, start, "DRI length %d, want 2", n)
	}
	ri, err := d.r.readU16BE()
	if err != nil {
		return err
	}
	d.restartInt = ri
	return nil
}
