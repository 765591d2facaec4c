package jpeg

// parseScan reads the SOS header, then decodes the single entropy-coded
// segment that follows it into one componentPlane per scan component
// (spec.md §4.1, §4.3). Baseline JPEG permits only one scan, always
// interleaved across every frame component, so that is the only shape
// handled here; a second SOS would have already been rejected as
// UnsupportedMode by the caller's frame-state check.
func (d *Decoder) parseScan() ([]*componentPlane, error) {
	if err := d.parseSOSHeader(); err != nil {
		return nil, err
	}

	f := d.frame
	mcusPerLine := ceilDiv(uint(f.width), uint(f.hMax)*8)
	mcusPerColumn := ceilDiv(uint(f.height), uint(f.vMax)*8)

	planes := make([]*componentPlane, len(d.scanComponents))
	for i, c := range d.scanComponents {
		blocksPerLine := mcusPerLine * uint(c.h)
		blocksPerColumn := mcusPerColumn * uint(c.v)
		planes[i] = &componentPlane{
			id:     c.id,
			h:      c.h,
			v:      c.v,
			width:  uint16(blocksPerLine * 8),
			height: uint16(blocksPerColumn * 8),
			data:   make([]byte, blocksPerLine*8*blocksPerColumn*8),
		}
	}

	for i := range d.scanComponents {
		d.scanComponents[i].predictor = 0
	}

	br := newBitReader(d.r.data, d.r.position())
	mcusSinceRestart := uint(0)
	nextRST := byte(0)
	totalMCUs := mcusPerLine * mcusPerColumn

	for mcu := uint(0); mcu < totalMCUs; mcu++ {
		mx := mcu % mcusPerLine
		my := mcu / mcusPerLine

		for ci := range d.scanComponents {
			comp := &d.scanComponents[ci]
			plane := planes[ci]
			quant := &d.quantTabs[comp.tq]
			if !quant.defined {
				return nil, newError(MissingTable, br.position(), "component %d references undefined quant table %d", comp.id, comp.tq)
			}
			dc := &d.huffTabs[0][comp.dcTable]
			ac := &d.huffTabs[1][comp.acTable]
			if !dc.defined {
				return nil, newError(MissingTable, br.position(), "component %d references undefined DC table %d", comp.id, comp.dcTable)
			}
			if !ac.defined {
				return nil, newError(MissingTable, br.position(), "component %d references undefined AC table %d", comp.id, comp.acTable)
			}

			for by := byte(0); by < comp.v; by++ {
				for bx := byte(0); bx < comp.h; bx++ {
					var coeff [64]int32
					if err := decodeBlock(br, dc, ac, quant, &comp.predictor, &coeff); err != nil {
						return nil, err
					}
					var spatial [64]uint8
					inverseBlock(&coeff, &spatial)

					blockX := uint(mx)*uint(comp.h) + uint(bx)
					blockY := uint(my)*uint(comp.v) + uint(by)
					writeBlock(plane, blockX, blockY, &spatial)
				}
			}
		}

		mcusSinceRestart++
		if d.restartInt != 0 && mcusSinceRestart == uint(d.restartInt) && mcu+1 < totalMCUs {
			if err := br.expectMarker(rst0 + nextRST); err != nil {
				return nil, err
			}
			nextRST = (nextRST + 1) % 8
			mcusSinceRestart = 0
			for i := range d.scanComponents {
				d.scanComponents[i].predictor = 0
			}
		}
	}

	br.alignToByte()
	if !br.atMark {
		// Force detection of the marker that terminates the scan (EOI, DNL,
		// or, irregularly, a stray RST) so the outer parser resumes cleanly.
		if _, err := br.fill(); err != nil {
			return nil, err
		}
	}
	d.r.pos = br.bytePos
	return planes, nil
}

func ceilDiv(a, b uint) uint {
	return (a + b - 1) / b
}

// decodeBlock decodes one 8x8 block's worth of DC and AC coefficients in
// zig-zag order, dequantizing each as it is produced (spec.md §4.3-4.4).
// coeff is returned in zig-zag order; inverseBlock un-zigzags it.
func decodeBlock(br *bitReader, dc, ac *huffTable, quant *quantTable, predictor *int32, coeff *[64]int32) error {
	s, err := dc.decodeSymbol(br)
	if err != nil {
		return err
	}
	if s > 11 {
		return newError(InvalidBitstream, br.position(), "DC magnitude category %d out of range", s)
	}
	diff := int32(0)
	if s > 0 {
		bits, err := br.receive(uint(s))
		if err != nil {
			return err
		}
		diff = extend(int32(bits), s)
	}
	*predictor += diff
	coeff[0] = *predictor * int32(quant.values[0])

	k := 1
	for k < 64 {
		rs, err := ac.decodeSymbol(br)
		if err != nil {
			return err
		}
		r := rs >> 4
		ssss := rs & 0x0f
		if ssss == 0 {
			if r == 15 {
				k += 16 // ZRL: 16 zero coefficients
				continue
			}
			break // EOB: remaining coefficients are zero
		}
		k += int(r)
		if k >= 64 {
			return newError(InvalidBitstream, br.position(), "AC run exceeds block")
		}
		bits, err := br.receive(uint(ssss))
		if err != nil {
			return err
		}
		v := extend(int32(bits), ssss)
		coeff[k] = v * int32(quant.values[k])
		k++
	}
	return nil
}

// extend implements the JPEG sign-extension rule (ITU-T T.81 §F.2.2.1): an
// s-bit magnitude v in [0, 2^s) represents the signed value v if v is in the
// upper half of that range, or v - 2^s + 1 if in the lower half.
func extend(v int32, s byte) int32 {
	if s == 0 {
		return 0
	}
	vt := int32(1) << (s - 1)
	if v < vt {
		return v - (int32(1)<<s - 1)
	}
	return v
}
