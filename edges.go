package evotri

import (
	"image"
	"math"
)

type kernel [3][3]int

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelMagnitude returns the gradient magnitude of a grayscale image, one value per pixel
// in row-major order. Border pixels replicate their nearest neighbour.
func SobelMagnitude(gray *image.NRGBA) []float64 {
	width, height := gray.Bounds().Dx(), gray.Bounds().Dy()
	magnitudes := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumX, sumY int
			for row := -1; row <= 1; row++ {
				sy := Clamp(y+row, 0, height-1)
				for col := -1; col <= 1; col++ {
					sx := Clamp(x+col, 0, width-1)
					// Grayscale input, so the red channel holds the luminance.
					lum := int(gray.Pix[gray.PixOffset(sx, sy)])
					sumX += lum * kernelX[row+1][col+1]
					sumY += lum * kernelY[row+1][col+1]
				}
			}
			magnitudes[x+y*width] = math.Sqrt(float64(sumX*sumX + sumY*sumY))
		}
	}
	return magnitudes
}

// GetEdgePoints returns the coordinates of every pixel whose Sobel gradient
// exceeds the threshold, after blurring the grayscale image with the given radius.
func GetEdgePoints(img *image.NRGBA, blurRadius int, threshold float64) []image.Point {
	width := img.Bounds().Dx()
	gray := Grayscale(img)
	if blurRadius > 0 {
		matrix := setBlurMatrix(blurRadius)
		convolutionFilter(matrix, gray, float64(len(matrix)))
	}

	var points []image.Point
	for i, m := range SobelMagnitude(gray) {
		if m > threshold {
			points = append(points, image.Pt(i%width, i/width))
		}
	}
	return points
}
