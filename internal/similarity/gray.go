package similarity

import "image"

// CompareWidth is the width comparison images are reduced to. Downscaling
// keeps SSIM cheap without hurting change detection on slide content.
const CompareWidth = 320

// Reduce returns a comparison-sized copy of the grayscale image. Images at or
// below CompareWidth pass through untouched; wider images are downsampled
// proportionally with an area-averaging filter to suppress aliasing, since
// the result feeds a perceptual metric.
func Reduce(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= CompareWidth {
		return gray
	}
	scale := float64(CompareWidth) / float64(w)
	newH := int(float64(h) * scale)
	if newH < 1 {
		newH = 1
	}
	return areaResize(gray, CompareWidth, newH)
}

// areaResize shrinks src to dstW x dstH with a box filter. Each destination
// pixel averages the source region it covers, with fractional rows and
// columns weighted by their overlap.
func areaResize(src *image.Gray, dstW, dstH int) *image.Gray {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, dstW, dstH))

	scaleX := float64(srcW) / float64(dstW)
	scaleY := float64(srcH) / float64(dstH)

	for dy := 0; dy < dstH; dy++ {
		y0 := float64(dy) * scaleY
		y1 := y0 + scaleY
		for dx := 0; dx < dstW; dx++ {
			x0 := float64(dx) * scaleX
			x1 := x0 + scaleX

			var sum, weight float64
			for sy := int(y0); sy < srcH && float64(sy) < y1; sy++ {
				wy := rowOverlap(float64(sy), y0, y1)
				if wy <= 0 {
					continue
				}
				row := sy * src.Stride
				for sx := int(x0); sx < srcW && float64(sx) < x1; sx++ {
					wx := rowOverlap(float64(sx), x0, x1)
					if wx <= 0 {
						continue
					}
					sum += wy * wx * float64(src.Pix[row+sx])
					weight += wy * wx
				}
			}
			if weight > 0 {
				dst.Pix[dy*dst.Stride+dx] = uint8(sum/weight + 0.5)
			}
		}
	}
	return dst
}

// rowOverlap returns how much of the unit cell starting at pos lies inside
// [lo, hi).
func rowOverlap(pos, lo, hi float64) float64 {
	start := pos
	if lo > start {
		start = lo
	}
	end := pos + 1
	if hi < end {
		end = hi
	}
	if end <= start {
		return 0
	}
	return end - start
}
