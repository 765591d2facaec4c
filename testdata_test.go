package jpeg

// Helpers for assembling minimal, hand-built JFIF/JPEG byte streams for
// the end-to-end scenarios below. Real encoders interleave more segments
// (APP0, COM, DRI); these builders emit only what each scenario exercises.

func u16be(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func segment(marker byte, payload []byte) []byte {
	length := u16be(uint16(len(payload) + 2))
	out := []byte{0xff, marker}
	out = append(out, length...)
	out = append(out, payload...)
	return out
}

// onesQuantTable returns a DQT payload for one 8-bit table of all 1s at
// destination tq, chosen so dequantization is a no-op and lets tests reason
// about raw coefficient values directly.
func onesQuantTable(tq byte) []byte {
	payload := []byte{tq} // Pq=0 (8-bit) << 4 | Tq
	for i := 0; i < 64; i++ {
		payload = append(payload, 1)
	}
	return payload
}

// singleSymbolHuffTable returns a DHT payload assigning the single 1-bit
// code 0 to sym at class tc, destination th. Used throughout the tests
// below to keep entropy-coded test data to a handful of bits.
func singleSymbolHuffTable(tc, th, sym byte) []byte {
	payload := []byte{tc<<4 | th}
	counts := make([]byte, 16)
	counts[0] = 1 // one code of length 1
	payload = append(payload, counts...)
	payload = append(payload, sym)
	return payload
}

// bitsToBytes packs a sequence of 0/1 values MSB-first into bytes, padding
// the final byte with 1 bits (the conventional JPEG stuffing pad) and
// byte-stuffing any resulting 0xFF byte.
func bitsToBytes(bits []int) []byte {
	for len(bits)%8 != 0 {
		bits = append(bits, 1)
	}
	var out []byte
	for i := 0; i < len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | byte(bits[i+j])
		}
		out = append(out, b)
		if b == 0xff {
			out = append(out, 0x00)
		}
	}
	return out
}

func appendSOI(b []byte) []byte {
	return append(b, 0xff, 0xd8)
}

func appendEOI(b []byte) []byte {
	return append(b, 0xff, 0xd9)
}
