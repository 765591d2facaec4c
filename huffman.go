package jpeg

// huffTable is the decoder's materialization of (L1..L16, symbols) into a
// lookup structure, per spec.md §4.3. Codes are assigned by the canonical
// JPEG algorithm; an 8-bit direct-index table handles the common case, and
// codes longer than 8 bits fall back to a per-length code/symbol list, per
// DESIGN NOTES §9.
type huffTable struct {
	defined bool

	// fast[b] is valid when a code of length <= 8 bits matches the top 8
	// bits of the stream as b; fastLen records that code's true length (0
	// if no code that short matches, in which case the slow path is used).
	fast    [256]uint8 // symbol
	fastLen [256]uint8 // code length, 0 = no match

	// slow holds every code of length > 8 bits, checked in ascending
	// length order after the fast table misses.
	slow []slowCode
}

type slowCode struct {
	code   uint16
	length uint8
	symbol byte
}

// buildHuffTable assigns canonical codes to symbols given the 16 per-length
// counts and the concatenated symbol list, then materializes the two-level
// lookup described above.
//
// Canonical assignment (spec.md §4.3): code = 0, size = 1; for each size in
// 1..16, the next L_size symbols receive codes code, code+1, ...; then
// code = (code + L_size) << 1 before moving to the next size.
func buildHuffTable(counts [16]byte, symbols []byte) (*huffTable, error) {
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	if total > 256 || total != len(symbols) {
		return nil, newError(InvalidHuffmanTable, 0, "%d code lengths but %d symbols", total, len(symbols))
	}

	t := &huffTable{defined: true}
	code := uint32(0)
	si := 0
	for size := 1; size <= 16; size++ {
		n := int(counts[size-1])
		for i := 0; i < n; i++ {
			sym := symbols[si]
			si++
			if size <= 8 {
				fillFast(t, uint16(code), uint8(size), sym)
			} else {
				t.slow = append(t.slow, slowCode{code: uint16(code), length: uint8(size), symbol: sym})
			}
			code++
		}
		code <<= 1
	}
	return t, nil
}

// fillFast populates every 8-bit index whose top `length` bits equal code
// with (sym, length), matching the direct-index scheme spec.md §4.3 and
// DESIGN NOTES §9 describe.
func fillFast(t *huffTable, code uint16, length uint8, sym byte) {
	shift := 8 - length
	base := uint16(code) << shift
	count := uint16(1) << shift
	for i := uint16(0); i < count; i++ {
		idx := base + i
		t.fast[idx] = sym
		t.fastLen[idx] = length
	}
}

// decodeSymbol consumes a Huffman code from br and returns the matching
// symbol. It returns InvalidBitstream if no code in the table matches the
// next 16 bits (a corrupt or mismatched-table bitstream).
func (t *huffTable) decodeSymbol(br *bitReader) (byte, error) {
	for br.nBits < 8 {
		ok, err := br.fill()
		if err != nil {
			return 0, err
		}
		if !ok {
			break // a marker was reached: peek at whatever bits remain
		}
	}

	// Fewer than 8 bits can only remain right before a marker. bitBuf is
	// zero below its valid bits, so the peek still finds any short code that
	// fits entirely within those bits.
	if br.nBits > 0 {
		peek := uint8(br.bitBuf >> 24)
		if l := t.fastLen[peek]; l != 0 && uint(l) <= br.nBits {
			br.bitBuf <<= l
			br.nBits -= uint(l)
			return t.fast[peek], nil
		}
	}

	// Slow path: codes longer than 8 bits.
	var code uint32
	var length uint8
	for length < 16 {
		bit, err := br.receive(1)
		if err != nil {
			return 0, err
		}
		code = code<<1 | uint32(bit)
		length++
		for _, sc := range t.slow {
			if uint8(sc.length) == length && uint16(code) == sc.code {
				return sc.symbol, nil
			}
		}
	}
	return 0, newError(InvalidBitstream, br.position(), "no Huffman code matched")
}
