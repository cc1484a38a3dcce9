package evotri

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

const (
	// DefaultEdgeThreshold is the Sobel magnitude above which a pixel counts as an edge.
	DefaultEdgeThreshold = 100
	// DefaultBlurRadius is the box blur applied before edge detection.
	DefaultBlurRadius = 1
	// DefaultDenoiseRadius is the color smoothing applied to the reference itself.
	DefaultDenoiseRadius = 1
	// minAutoVertices includes the four canvas corners.
	minAutoVertices = 5
)

// Reference is the immutable source image a run approximates.
// It is safe to share across goroutines once constructed.
type Reference struct {
	Width  int
	Height int
	// Pix holds opaque NRGBA pixels, 4 bytes per pixel, row-major.
	Pix []uint8
	// Edges holds the high gradient pixels used to bias initialization.
	Edges []image.Point
}

// RefOptions controls how a source image is turned into a Reference.
type RefOptions struct {
	// Width and Height resize the source. When only one is set the other
	// follows the source aspect ratio. Zero keeps the source size.
	Width  int
	Height int
	// EdgeThreshold is the Sobel magnitude cut-off. Negative disables edge detection.
	EdgeThreshold float64
	BlurRadius    int
	// Denoise is the radius of the per channel box blur applied to the
	// reference before fitness and edge detection. Zero disables it.
	Denoise int
}

// DefaultRefOptions returns the options used by the command line tool.
func DefaultRefOptions() RefOptions {
	return RefOptions{
		EdgeThreshold: DefaultEdgeThreshold,
		BlurRadius:    DefaultBlurRadius,
		Denoise:       DefaultDenoiseRadius,
	}
}

// NewReference prepares src for a run: optional resize, conversion to opaque
// NRGBA, optional denoising and edge point detection.
func NewReference(src image.Image, opts RefOptions) (*Reference, error) {
	if opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("%w: negative target size %dx%d", ErrConfig, opts.Width, opts.Height)
	}
	if opts.Denoise < 0 {
		return nil, fmt.Errorf("%w: negative denoise radius %d", ErrConfig, opts.Denoise)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrConfig)
	}

	img := ImgToNRGBA(resize(src, opts.Width, opts.Height))
	Denoise(img, opts.Denoise)
	ref := &Reference{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Pix:    img.Pix,
	}
	if opts.EdgeThreshold >= 0 {
		ref.Edges = GetEdgePoints(img, opts.BlurRadius, opts.EdgeThreshold)
	}
	return ref, nil
}

// resize scales src to the requested size. Zero dimensions are derived from the aspect ratio.
func resize(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	switch {
	case w == 0 && h == 0:
		return src
	case w == 0:
		w = Max(1, h*b.Dx()/b.Dy())
	case h == 0:
		h = Max(1, w*b.Dy()/b.Dx())
	}
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// At returns the reference color at (x, y), clamped into the image bounds.
func (r *Reference) At(x, y int) color.NRGBA {
	x = Clamp(x, 0, r.Width-1)
	y = Clamp(y, 0, r.Height-1)
	i := (y*r.Width + x) * 4
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: 0xff}
}

// Image returns the reference as an *image.NRGBA sharing the pixel buffer.
func (r *Reference) Image() *image.NRGBA {
	return &image.NRGBA{Pix: r.Pix, Stride: r.Width * 4, Rect: image.Rect(0, 0, r.Width, r.Height)}
}

// Entropy returns the Shannon entropy, in bits, of the concatenated RGB channel histograms.
func (r *Reference) Entropy() float64 {
	var hist [3 * 256]int
	for i := 0; i+3 < len(r.Pix); i += 4 {
		hist[r.Pix[i]]++
		hist[256+int(r.Pix[i+1])]++
		hist[512+int(r.Pix[i+2])]++
	}
	total := float64(3 * r.Width * r.Height)
	var e float64
	for _, n := range hist {
		if n == 0 {
			continue
		}
		p := float64(n) / total
		e -= p * math.Log2(p)
	}
	return e
}

// AutoVertexCount derives the number of interior vertices from the image entropy.
// The four corners the codec always adds are not included.
func (r *Reference) AutoVertexCount() int {
	n := Max(int(math.Pow(2, r.Entropy()+3)), minAutoVertices)
	return n - 4
}
