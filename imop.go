package evotri

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/exp/constraints"
)

// Grayscale converts the image to a single luminance value replicated over the RGB channels.
func Grayscale(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		lum := uint8(float32(r)*0.299 + float32(g)*0.587 + float32(b)*0.114)
		dst.Pix[i+0] = lum
		dst.Pix[i+1] = lum
		dst.Pix[i+2] = lum
		dst.Pix[i+3] = 0xff
	}
	return dst
}

// ImgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
// The alpha channel is dropped: every destination pixel is fully opaque.
func ImgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+dstW*4], src.Pix[si:si+dstW*4])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				di += 4
			}
		}
	case *image.Gray:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := src.Pix[si]
				dst.Pix[di+0] = c
				dst.Pix[di+1] = c
				dst.Pix[di+2] = c
				di += 4
				si++
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				di += 4
			}
		}
	}

	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// convolutionFilter applies a mathematical operation over the source image by taking
// the matrix table as input parameter and convolving the matrix values over the pixels data.
// Only the red channel is read, so the source is expected to be grayscale.
// Pixels outside the image replicate the nearest border pixel.
func convolutionFilter(matrix []float64, img *image.NRGBA, divisor float64) {
	scaleMatrix(matrix, divisor)
	lum := convolveChannel(matrix, img, 0)
	for i, v := range lum {
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2] = v, v, v
	}
}

// Denoise smooths every color channel of img in place with a box blur of the given radius.
func Denoise(img *image.NRGBA, radius int) {
	if radius < 1 {
		return
	}
	matrix := setBlurMatrix(radius)
	scaleMatrix(matrix, float64(len(matrix)))

	var channels [3][]uint8
	for ch := range channels {
		channels[ch] = convolveChannel(matrix, img, ch)
	}
	for ch, values := range channels {
		for i, v := range values {
			img.Pix[i*4+ch] = v
		}
	}
}

func scaleMatrix(matrix []float64, divisor float64) {
	divscalar := 1 / divisor
	if divscalar != 1 {
		for k := 0; k < len(matrix); k++ {
			matrix[k] *= divscalar
		}
	}
}

// convolveChannel convolves one channel of img with a square matrix and
// returns the result, one value per pixel. img is not modified.
func convolveChannel(matrix []float64, img *image.NRGBA, ch int) []uint8 {
	var (
		width  = img.Bounds().Dx()
		height = img.Bounds().Dy()
		size   = int(math.Sqrt(float64(len(matrix))))
		dim    = size / 2
	)

	src := make([]int, width*height)
	for i := range src {
		src[i] = int(img.Pix[i*4+ch])
	}

	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		istep := y * width

		for x := 0; x < width; x++ {
			var r float64

			for row := -dim; row <= dim; row++ {
				jstep := Clamp(y+row, 0, height-1) * width
				kstep := (row + dim) * size

				for col := -dim; col <= dim; col++ {
					sx := Clamp(x+col, 0, width-1)
					r += float64(src[sx+jstep]) * matrix[(col+dim)+kstep]
				}
			}
			out[x+istep] = uint8(Clamp(int(math.Round(r)), 0, 255))
		}
	}
	return out
}

// setBlurMatrix populates a box blur matrix used in conjunction with the convolution filter operator.
func setBlurMatrix(size int) []float64 {
	var (
		side   = size*2 + 1
		length = side * side
		matrix = make([]float64, length)
	)

	for i := 0; i < length; i++ {
		matrix[i] = 1
	}

	return matrix
}

// Min returns the smallest value between the provided numbers.
func Min[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// Max returns the biggest value between the provided numbers.
func Max[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}
