package jpeg

import "fmt"

// Component describes one frame component's identifier, sampling factors
// and quantization table selector, mirroring the fields a caller would
// need to reconstruct the subsampling layout without redoing the decode
// (SPEC_FULL.md §5, adapted from the teacher's format.go Component/FrameInfo
// introspection surface).
type Component struct {
	ID      byte
	H, V    byte
	QuantID byte
}

// FrameInfo summarizes the decoded frame header: sample precision, pixel
// dimensions, and per-component sampling layout.
type FrameInfo struct {
	Precision     byte
	Width, Height int
	Components    []Component
}

// Info returns the frame header details captured during decoding.
func (img *Image) Info() FrameInfo {
	comps := make([]Component, len(img.components))
	for i, c := range img.components {
		comps[i] = Component{ID: c.id, H: c.h, V: c.v, QuantID: c.tq}
	}
	return FrameInfo{
		Precision:  8,
		Width:      img.width,
		Height:     img.height,
		Components: comps,
	}
}

// RestartInterval returns the DRI-declared number of MCUs between restart
// markers, or 0 if the stream had no DRI segment.
func (img *Image) RestartInterval() uint16 {
	return img.restartInt
}

// FormatInfo returns a short human-readable summary of the frame header and
// any APP0/JFIF density and COM comments, in the spirit of the teacher's
// FormatImageInfo/FormatSegments but reduced to what this decoder actually
// retains.
func (img *Image) FormatInfo() string {
	info := img.Info()
	s := fmt.Sprintf("Image: %dx%d, %d component(s)\n", info.Width, info.Height, len(info.Components))
	for _, c := range info.Components {
		s += fmt.Sprintf("  component %d: sampling %dx%d, quant table %d\n", c.ID, c.H, c.V, c.QuantID)
	}
	if units, x, y, ok := img.JFIFDensity(); ok {
		s += fmt.Sprintf("  JFIF density: units=%d x=%d y=%d\n", units, x, y)
	}
	for _, c := range img.comments {
		s += fmt.Sprintf("  comment: %s\n", c)
	}
	return s
}
