package jpeg

// Image is the decoded result of Decode: a full-resolution raster, either
// single-component gray or 3-component RGB, plus whatever header metadata
// was carried alongside the pixel data (spec.md §3 Image, SPEC_FULL.md §5).
type Image struct {
	width, height int
	nComp         int
	rgb           []byte // gray: width*height bytes; color: width*height*3, RGB interleaved

	jfif       *jfifHeader
	comments   []string
	components []component
	restartInt uint16
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// NumComponents returns 1 for a grayscale image, 3 for an RGB image.
func (img *Image) NumComponents() int { return img.nComp }

// Gray reports whether the image has a single (luma-only) component.
func (img *Image) Gray() bool { return img.nComp == 1 }

// At returns the RGB value of the pixel at (x, y). For a grayscale image,
// r, g and b are all equal to the luma sample.
func (img *Image) At(x, y int) (r, g, b byte) {
	if img.Gray() {
		v := img.rgb[y*img.width+x]
		return v, v, v
	}
	off := (y*img.width + x) * 3
	return img.rgb[off], img.rgb[off+1], img.rgb[off+2]
}

// RGB returns the image's raw raster: width*height*3 bytes of interleaved
// RGB samples in row-major order. A grayscale image is expanded to RGB on
// the fly (each channel equal to the luma sample); the more compact
// single-channel form is available directly from At or from the internal
// rgb field for callers that care about the distinction.
func (img *Image) RGB() []byte {
	if !img.Gray() {
		return img.rgb
	}
	out := make([]byte, img.width*img.height*3)
	for i, v := range img.rgb {
		out[i*3] = v
		out[i*3+1] = v
		out[i*3+2] = v
	}
	return out
}
