package frames

import (
	"image"
)

// Frame is a single decoded video frame in packed RGB24 layout. Pix holds
// width*height*3 bytes, rows top to bottom.
type Frame struct {
	Index     int
	Timestamp float64
	Width     int
	Height    int
	Pix       []byte
}

// Gray converts the frame to 8-bit grayscale using BT.601 luma weights,
// matching what common video tooling produces for RGB input.
func (f Frame) Gray() *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := y * f.Width * 3
		dst := y * gray.Stride
		for x := 0; x < f.Width; x++ {
			r := uint32(f.Pix[src])
			g := uint32(f.Pix[src+1])
			b := uint32(f.Pix[src+2])
			// 0.299 R + 0.587 G + 0.114 B in 16-bit fixed point.
			gray.Pix[dst+x] = uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 16)
			src += 3
		}
	}
	return gray
}

// Image converts the frame to an NRGBA image for encoding.
func (f Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := y * f.Width * 3
		dst := y * img.Stride
		for x := 0; x < f.Width; x++ {
			img.Pix[dst] = f.Pix[src]
			img.Pix[dst+1] = f.Pix[src+1]
			img.Pix[dst+2] = f.Pix[src+2]
			img.Pix[dst+3] = 0xff
			src += 3
			dst += 4
		}
	}
	return img
}
