package jpeg

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// TestHuffmanBijection checks spec.md §8 property 2: the canonical
// construction is a bijection from (counts, symbols) to a prefix code, and
// decoding the encoded bits for each symbol yields that symbol back.
func TestHuffmanBijection(t *testing.T) {
	c := qt.New(t)

	// A Kraft-equality-satisfying shape: 1 code of length 1, 1 of length 2,
	// 2 of length 3 (1/2 + 1/4 + 1/8 + 1/8 = 1), matching what a real
	// encoder would emit.
	var counts [16]byte
	counts[0] = 1
	counts[1] = 1
	counts[2] = 2
	symbols := []byte{0x00, 0x01, 0x05, 0xf0}

	table, err := buildHuffTable(counts, symbols)
	c.Assert(err, qt.IsNil)

	// Canonical codes for this shape: 0x00 -> "0", 0x01 -> "10",
	// 0x05 -> "110", 0xf0 -> "111". Rather than hard-coding them, decode
	// each symbol's bits as assigned by the oracle below, so the test
	// exercises the same algorithm it is checking.
	codes := canonicalCodes(counts, symbols)
	c.Assert(len(codes), qt.Equals, len(symbols))

	for _, cd := range codes {
		bits := make([]int, cd.length)
		for i := byte(0); i < cd.length; i++ {
			bits[i] = int((cd.code >> (cd.length - 1 - i)) & 1)
		}
		data := bitsToBytes(bits)
		br := newBitReader(data, 0)
		sym, err := table.decodeSymbol(br)
		c.Assert(err, qt.IsNil)
		c.Assert(sym, qt.Equals, cd.symbol)
	}
}

type canonicalCode struct {
	code   uint16
	length byte
	symbol byte
}

// canonicalCodes reproduces the code assignment loop of buildHuffTable,
// independently of the lookup table it builds, so the bijection test can
// check against an oracle rather than the table's own internals.
func canonicalCodes(counts [16]byte, symbols []byte) []canonicalCode {
	var out []canonicalCode
	code := uint32(0)
	si := 0
	for size := 1; size <= 16; size++ {
		for i := 0; i < int(counts[size-1]); i++ {
			out = append(out, canonicalCode{code: uint16(code), length: byte(size), symbol: symbols[si]})
			si++
			code++
		}
		code <<= 1
	}
	return out
}

func TestHuffmanTableRejectsCountMismatch(t *testing.T) {
	c := qt.New(t)
	var counts [16]byte
	counts[0] = 2
	_, err := buildHuffTable(counts, []byte{0x00}) // declares 2, gives 1
	c.Assert(err, qt.Not(qt.IsNil))
	jerr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(jerr.Kind, qt.Equals, InvalidHuffmanTable)
}
