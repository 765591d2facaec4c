package jpeg

import "math"

// componentPlane holds one scan component's fully decoded samples, padded
// out to a whole number of 8x8 blocks (spec.md §4.4/§4.5). width/height are
// the padded plane dimensions, not the final image dimensions.
type componentPlane struct {
	id     byte
	h, v   byte
	width  uint16
	height uint16
	data   []byte // row-major, width*height bytes
}

// at returns the sample at (x, y) in plane-local coordinates, clamping to
// the plane's bounds. Used by upsampling, which must read past the
// nominal image size into the MCU padding for border MCUs.
func (p *componentPlane) at(x, y int) byte {
	if x < 0 {
		x = 0
	} else if x >= int(p.width) {
		x = int(p.width) - 1
	}
	if y < 0 {
		y = 0
	} else if y >= int(p.height) {
		y = int(p.height) - 1
	}
	return p.data[y*int(p.width)+x]
}

// assemble upsamples every plane to full (luma) resolution, crops to the
// frame's declared width/height, converts to RGB if there is more than one
// component, and returns the finished Image (spec.md §4.5, §4.6).
func (d *Decoder) assemble(planes []*componentPlane) (*Image, error) {
	f := d.frame
	w, h := int(f.width), int(f.height)

	img := &Image{
		width:      w,
		height:     h,
		nComp:      len(planes),
		jfif:       d.jfif,
		comments:   d.comments,
		components: f.components,
		restartInt: d.restartInt,
	}

	if len(planes) == 1 {
		img.rgb = make([]byte, w*h) // single-component: stored as gray, one byte per pixel
		p := planes[0]
		for y := 0; y < h; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				img.rgb[row+x] = p.at(x, y)
			}
		}
		return img, nil
	}

	// Locate the three standard JFIF components by scan order. Baseline
	// YCbCr assumed for any 3-component frame (spec.md §4.6); CMYK/4
	// component frames are out of scope (Non-goal).
	if len(planes) != 3 {
		return nil, newError(UnsupportedMode, 0, "%d-component color frame not supported", len(planes))
	}
	yp, cbp, crp := planes[0], planes[1], planes[2]

	img.rgb = make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yy := float64(sampleUpsampled(yp, f.hMax, f.vMax, x, y))
			cb := float64(sampleUpsampled(cbp, f.hMax, f.vMax, x, y)) - 128
			cr := float64(sampleUpsampled(crp, f.hMax, f.vMax, x, y)) - 128

			r := yy + 1.402*cr
			g := yy - 0.344136*cb - 0.714136*cr
			b := yy + 1.772*cb

			off := (y*w + x) * 3
			img.rgb[off] = clampSample(r)
			img.rgb[off+1] = clampSample(g)
			img.rgb[off+2] = clampSample(b)
		}
	}
	return img, nil
}

// sampleUpsampled maps full-resolution pixel (x, y) down to plane p's own
// sampling grid and returns the nearest sample, i.e. nearest-neighbour
// upsampling (spec.md §4.5's required minimum). hMax/vMax are the frame's
// maximum sampling factors, against which every plane's own h/v express its
// subsampling ratio.
func sampleUpsampled(p *componentPlane, hMax, vMax byte, x, y int) byte {
	px := x * int(p.h) / int(hMax)
	py := y * int(p.v) / int(vMax)
	return p.at(px, py)
}

func clampSample(v float64) byte {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return byte(r)
}
