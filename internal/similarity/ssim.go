package similarity

import (
	"fmt"
	"image"

	"lectern/internal/services"
)

// SSIM window and stabilization constants for 8-bit images.
const (
	windowSize = 7
	c1         = 6.5025  // (0.01 * 255)^2
	c2         = 58.5225 // (0.03 * 255)^2
)

// Score computes the mean structural similarity index between two
// equally-shaped grayscale images. 1.0 means identical; lower values mean
// more different, and strongly anti-correlated inputs can go negative. The
// computation is pure and deterministic.
func Score(a, b *image.Gray) (float64, error) {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()
	if aw != bw || ah != bh {
		return 0, services.Wrap(services.ErrInvalidInput, "similarity", "score",
			fmt.Sprintf("image shapes differ: %dx%d vs %dx%d", aw, ah, bw, bh), nil)
	}
	if aw == 0 || ah == 0 {
		return 0, services.Wrap(services.ErrInvalidInput, "similarity", "score", "empty image", nil)
	}
	if aw < windowSize || ah < windowSize {
		return globalSSIM(a, b, aw, ah), nil
	}
	return windowedSSIM(a, b, aw, ah), nil
}

// windowedSSIM averages local SSIM over every fully interior window,
// using summed-area tables so each window is O(1).
func windowedSSIM(a, b *image.Gray, w, h int) float64 {
	sumA := integral(a, nil, w, h)
	sumB := integral(b, nil, w, h)
	sumAA := integral(a, a, w, h)
	sumBB := integral(b, b, w, h)
	sumAB := integral(a, b, w, h)

	n := float64(windowSize * windowSize)
	norm := n / (n - 1) // sample statistics over each window

	var total float64
	var count int
	for y := 0; y+windowSize <= h; y++ {
		for x := 0; x+windowSize <= w; x++ {
			sa := boxSum(sumA, w, x, y)
			sb := boxSum(sumB, w, x, y)
			saa := boxSum(sumAA, w, x, y)
			sbb := boxSum(sumBB, w, x, y)
			sab := boxSum(sumAB, w, x, y)

			muA := sa / n
			muB := sb / n
			varA := (saa/n - muA*muA) * norm
			varB := (sbb/n - muB*muB) * norm
			cov := (sab/n - muA*muB) * norm

			total += ((2*muA*muB + c1) * (2*cov + c2)) /
				((muA*muA + muB*muB + c1) * (varA + varB + c2))
			count++
		}
	}
	return total / float64(count)
}

// globalSSIM covers images smaller than one window with whole-image
// statistics.
func globalSSIM(a, b *image.Gray, w, h int) float64 {
	n := float64(w * h)
	var sa, sb, saa, sbb, sab float64
	for y := 0; y < h; y++ {
		ra := y * a.Stride
		rb := y * b.Stride
		for x := 0; x < w; x++ {
			va := float64(a.Pix[ra+x])
			vb := float64(b.Pix[rb+x])
			sa += va
			sb += vb
			saa += va * va
			sbb += vb * vb
			sab += va * vb
		}
	}
	muA := sa / n
	muB := sb / n
	varA := saa/n - muA*muA
	varB := sbb/n - muB*muB
	cov := sab/n - muA*muB
	if n > 1 {
		norm := n / (n - 1)
		varA *= norm
		varB *= norm
		cov *= norm
	}
	return ((2*muA*muB + c1) * (2*cov + c2)) /
		((muA*muA + muB*muB + c1) * (varA + varB + c2))
}

// integral builds a summed-area table of img[i]*other[i], or of img alone
// when other is nil. Passing the image itself yields squared sums.
func integral(img, other *image.Gray, w, h int) []float64 {
	table := make([]float64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		row := y * img.Stride
		var rowSum float64
		for x := 0; x < w; x++ {
			v := float64(img.Pix[row+x])
			if other != nil {
				v *= float64(other.Pix[y*other.Stride+x])
			}
			rowSum += v
			table[(y+1)*(w+1)+x+1] = table[y*(w+1)+x+1] + rowSum
		}
	}
	return table
}

// boxSum reads the windowSize x windowSize sum with top-left corner (x, y)
// from a summed-area table.
func boxSum(table []float64, w, x, y int) float64 {
	stride := w + 1
	x1 := x + windowSize
	y1 := y + windowSize
	return table[y1*stride+x1] - table[y*stride+x1] - table[y1*stride+x] + table[y*stride+x]
}
