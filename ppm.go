package jpeg

import (
	"bufio"
	"fmt"
	"io"
)

const ppmWriteBufferSize = 1 << 16

// cumulativeWriter accumulates a byte count and the first error across a
// sequence of writes, so callers can issue several Write/format calls in a
// row and check the outcome once at the end, adapted from the teacher's
// jpeg.go writer of the same name.
type cumulativeWriter struct {
	w     io.Writer
	count int
	err   error
}

func newCumulativeWriter(w io.Writer) *cumulativeWriter {
	return &cumulativeWriter{w: w}
}

func (cw *cumulativeWriter) format(f string, a ...interface{}) {
	if cw.err != nil {
		return
	}
	n, err := fmt.Fprintf(cw.w, f, a...)
	cw.err = err
	cw.count += n
}

func (cw *cumulativeWriter) Write(v []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(v)
	cw.err = err
	cw.count += n
	return n, err
}

func (cw *cumulativeWriter) result() (int, error) {
	return cw.count, cw.err
}

// WritePPM serializes img as a binary PPM (P6): the header
// "P6\n<width> <height>\n255\n" followed by width*height*3 raw interleaved
// RGB bytes, no trailing newline (spec.md §5).
func WritePPM(w io.Writer, img *Image) (int, error) {
	bw := bufio.NewWriterSize(w, ppmWriteBufferSize)
	cw := newCumulativeWriter(bw)

	cw.format("P6\n%d %d\n255\n", img.width, img.height)
	cw.Write(img.RGB())

	n, err := cw.result()
	if err != nil {
		return n, err
	}
	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, nil
}

// ReadPPM parses a binary PPM (P6) image back into an Image. It exists to
// support round-tripping decoded output through external tools and tests
// (SPEC_FULL.md §2); it does not need to handle the full PNM family, only
// what WritePPM produces: no comments, whitespace-separated header tokens,
// maxval 255.
func ReadPPM(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := readPPMToken(br)
	if err != nil {
		return nil, err
	}
	if magic != "P6" {
		return nil, fmt.Errorf("ppm: unsupported magic %q", magic)
	}
	width, err := readPPMInt(br)
	if err != nil {
		return nil, err
	}
	height, err := readPPMInt(br)
	if err != nil {
		return nil, err
	}
	maxval, err := readPPMInt(br)
	if err != nil {
		return nil, err
	}
	if maxval != 255 {
		return nil, fmt.Errorf("ppm: unsupported maxval %d", maxval)
	}
	// readPPMToken already consumed the single whitespace byte that
	// terminates the maxval token, so the reader is positioned exactly at
	// the start of the pixel data.

	data := make([]byte, width*height*3)
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, err
	}
	return &Image{width: width, height: height, nComp: 3, rgb: data}, nil
}

func readPPMToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			for {
				c, err := br.ReadByte()
				if err != nil {
					return "", err
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		if isPPMSpace(b) {
			if len(tok) > 0 {
				return string(tok), nil
			}
			continue
		}
		tok = append(tok, b)
	}
}

func readPPMInt(br *bufio.Reader) (int, error) {
	tok, err := readPPMToken(br)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range []byte(tok) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("ppm: malformed integer %q", tok)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func isPPMSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
