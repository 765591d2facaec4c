package jpeg

// parseDQT reads one DQT segment, which may carry several quantization
// tables back to back (spec.md §4.2).
func (d *Decoder) parseDQT() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	end := d.r.position() + n
	for d.r.position() < end {
		pqTq, err := d.r.readU8()
		if err != nil {
			return err
		}
		pq := pqTq >> 4
		tq := pqTq & 0x0f
		if tq > 3 {
			return newError(InvalidBitstream, start, "DQT destination %d out of range", tq)
		}
		if pq > 1 {
			return newError(UnsupportedMode, start, "DQT precision %d not supported", pq)
		}
		var values [64]uint16
		for i := 0; i < 64; i++ {
			if pq == 0 {
				v, err := d.r.readU8()
				if err != nil {
					return err
				}
				values[i] = uint16(v)
			} else {
				v, err := d.r.readU16BE()
				if err != nil {
					return err
				}
				values[i] = v
			}
		}
		d.quantTabs[tq] = quantTable{defined: true, precision: pq, values: values}
	}
	if d.r.position() != end {
		return newError(TruncatedSegment, start, "DQT segment length mismatch")
	}
	return nil
}

// parseDHT reads one DHT segment, which may likewise carry several Huffman
// tables back to back (spec.md §4.3).
func (d *Decoder) parseDHT() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	end := d.r.position() + n
	for d.r.position() < end {
		tcTh, err := d.r.readU8()
		if err != nil {
			return err
		}
		tc := tcTh >> 4
		th := tcTh & 0x0f
		if tc > 1 || th > 3 {
			return newError(InvalidBitstream, start, "DHT class %d destination %d out of range", tc, th)
		}
		var counts [16]byte
		total := 0
		for i := 0; i < 16; i++ {
			c, err := d.r.readU8()
			if err != nil {
				return err
			}
			counts[i] = c
			total += int(c)
		}
		symbols, err := d.r.readBytes(uint(total))
		if err != nil {
			return newError(TruncatedSegment, start, "DHT symbol list shorter than declared counts")
		}
		table, err := buildHuffTable(counts, symbols)
		if err != nil {
			return err
		}
		d.huffTabs[tc][th] = *table
	}
	if d.r.position() != end {
		return newError(TruncatedSegment, start, "DHT segment length mismatch")
	}
	return nil
}

// parseSOF0 reads the baseline frame header (spec.md §3 FrameHeader, §4.2).
func (d *Decoder) parseSOF0() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	if d.frame != nil {
		return newError(UnsupportedMode, start, "second SOF in stream (hierarchical/differential not supported)")
	}

	precision, err := d.r.readU8()
	if err != nil {
		return err
	}
	if precision != 8 {
		return newError(UnsupportedMode, start, "sample precision %d not supported", precision)
	}
	height, err := d.r.readU16BE()
	if err != nil {
		return err
	}
	width, err := d.r.readU16BE()
	if err != nil {
		return err
	}
	if width == 0 || height == 0 {
		return newError(InvalidBitstream, start, "zero-sized image")
	}
	nf, err := d.r.readU8()
	if err != nil {
		return err
	}
	if nf == 0 || nf > 4 {
		return newError(UnsupportedMode, start, "%d components not supported", nf)
	}
	expect := 6 + 3*uint(nf)
	if n != expect {
		return newError(TruncatedSegment, start, "SOF0 length %d, want %d for %d components", n, expect, nf)
	}

	comps := make([]component, nf)
	var hMax, vMax byte
	for i := 0; i < int(nf); i++ {
		id, err := d.r.readU8()
		if err != nil {
			return err
		}
		hv, err := d.r.readU8()
		if err != nil {
			return err
		}
		tq, err := d.r.readU8()
		if err != nil {
			return err
		}
		h, v := hv>>4, hv&0x0f
		if h == 0 || h > 4 || v == 0 || v > 4 {
			return newError(InvalidBitstream, start, "component %d sampling factors %d/%d out of range", id, h, v)
		}
		if tq > 3 {
			return newError(InvalidBitstream, start, "component %d quant table %d out of range", id, tq)
		}
		comps[i] = component{id: id, h: h, v: v, tq: tq}
		if h > hMax {
			hMax = h
		}
		if v > vMax {
			vMax = v
		}
	}

	d.frame = &frameHeader{
		precision:  precision,
		width:      width,
		height:     height,
		components: comps,
		hMax:       hMax,
		vMax:       vMax,
	}
	d.state = stateFrame
	return nil
}

// parseSOSHeader reads the scan header (component selectors and the
// spectral-selection/successive-approximation bytes, which baseline fixes
// at Ss=0, Se=63, Ah=Al=0) and fixes d.scanComponents to the scan's order,
// each entry carrying its selected DC/AC tables (spec.md §4.2).
func (d *Decoder) parseSOSHeader() error {
	start := d.r.position()
	n, err := d.segmentLength()
	if err != nil {
		return err
	}
	if d.frame == nil {
		return newError(InvalidBitstream, start, "SOS before SOF")
	}
	ns, err := d.r.readU8()
	if err != nil {
		return err
	}
	if ns == 0 || int(ns) > len(d.frame.components) {
		return newError(InvalidBitstream, start, "SOS component count %d invalid", ns)
	}
	expect := 4 + 2*uint(ns)
	if n != expect {
		return newError(TruncatedSegment, start, "SOS length %d, want %d for %d components", n, expect, ns)
	}

	scan := make([]component, ns)
	for i := 0; i < int(ns); i++ {
		cs, err := d.r.readU8()
		if err != nil {
			return err
		}
		tdTa, err := d.r.readU8()
		if err != nil {
			return err
		}
		fc, ok := d.frame.componentByID(cs)
		if !ok {
			return newError(InvalidBitstream, start, "SOS selects undefined component %d", cs)
		}
		td, ta := tdTa>>4, tdTa&0x0f
		if td > 3 || ta > 3 {
			return newError(InvalidBitstream, start, "SOS component %d table selectors out of range", cs)
		}
		fc.dcTable = td
		fc.acTable = ta
		scan[i] = fc
	}

	ss, err := d.r.readU8()
	if err != nil {
		return err
	}
	se, err := d.r.readU8()
	if err != nil {
		return err
	}
	ahAl, err := d.r.readU8()
	if err != nil {
		return err
	}
	if ss != 0 || se != 63 || ahAl != 0 {
		return newError(UnsupportedMode, start, "non-baseline spectral selection Ss=%d Se=%d AhAl=%#x", ss, se, ahAl)
	}

	d.scanComponents = scan
	return nil
}

// componentByID finds the frame component with the given id.
func (f *frameHeader) componentByID(id byte) (component, bool) {
	for _, c := range f.components {
		if c.id == id {
			return c, true
		}
	}
	return component{}, false
}
