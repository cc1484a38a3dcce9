package evotri

import "fmt"

// EvalFunc scores a genome. Lower is better.
type EvalFunc func(genome []int) (float64, error)

// Evaluate renders genome and returns the mean squared RGB error per pixel
// against the reference.
func (c *Codec) Evaluate(genome []int) (float64, error) {
	img, err := c.Decode(genome)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	var sum uint64
	w, h := c.Ref.Width, c.Ref.Height
	for y := 0; y < h; y++ {
		si := img.PixOffset(0, y)
		ri := y * w * 4
		for x := 0; x < w; x++ {
			for ch := 0; ch < 3; ch++ {
				d := int64(img.Pix[si+ch]) - int64(c.Ref.Pix[ri+ch])
				sum += uint64(d * d)
			}
			si += 4
			ri += 4
		}
	}
	return float64(sum) / float64(w*h), nil
}

// Evaluate scores genome with the default codec.
func Evaluate(genome []int, ref *Reference) (float64, error) {
	return NewCodec(ref).Evaluate(genome)
}
