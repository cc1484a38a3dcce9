package evotri

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/fogleman/delaunay"
	"github.com/fogleman/gg"
)

// Triangulator splits a point set into triangles given as index triples into points.
type Triangulator interface {
	Triangulate(points []image.Point) ([][3]int, error)
}

// DelaunayTriangulator triangulates with github.com/fogleman/delaunay.
type DelaunayTriangulator struct{}

// Triangulate implements Triangulator.
func (DelaunayTriangulator) Triangulate(points []image.Point) ([][3]int, error) {
	pts := make([]delaunay.Point, len(points))
	for i, p := range points {
		pts[i] = delaunay.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, err
	}
	triangles := make([][3]int, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		triangles = append(triangles, [3]int{tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]})
	}
	return triangles, nil
}

// Codec renders genomes against a reference image. All methods are safe for concurrent use.
type Codec struct {
	Ref *Reference
	// Outline strokes every triangle when set.
	Outline      color.Color
	Triangulator Triangulator
}

// NewCodec returns a codec using the Delaunay triangulator and no outline.
func NewCodec(ref *Reference) *Codec {
	return &Codec{Ref: ref, Triangulator: DelaunayTriangulator{}}
}

// Decode renders genome with the default codec.
func Decode(genome []int, ref *Reference) (*image.RGBA, error) {
	return NewCodec(ref).Decode(genome)
}

// Vertices clamps the genome coordinates into the image and appends the four canvas corners.
func (c *Codec) Vertices(genome []int) ([]image.Point, error) {
	if len(genome)%2 != 0 {
		return nil, fmt.Errorf("genome length %d is not a whole number of vertices", len(genome))
	}
	w, h := c.Ref.Width, c.Ref.Height

	points := make([]image.Point, 0, len(genome)/2+4)
	for i := 0; i < len(genome); i += 2 {
		points = append(points, image.Pt(
			Clamp(genome[i], 0, w-1),
			Clamp(genome[i+1], 0, h-1),
		))
	}
	// The corners guarantee the triangulation covers the whole canvas.
	points = append(points, image.Pt(0, 0), image.Pt(0, h), image.Pt(w, 0), image.Pt(w, h))
	return points, nil
}

// Triangles returns the clamped vertices of genome and their triangulation.
func (c *Codec) Triangles(genome []int) ([]image.Point, [][3]int, error) {
	points, err := c.Vertices(genome)
	if err != nil {
		return nil, nil, err
	}
	tr := c.Triangulator
	if tr == nil {
		tr = DelaunayTriangulator{}
	}
	triangles, err := tr.Triangulate(points)
	if err != nil {
		return nil, nil, fmt.Errorf("triangulate %d vertices: %w", len(points), err)
	}
	return points, triangles, nil
}

// Decode renders genome as flat colored triangles, each filled with the
// reference color found under its centroid.
func (c *Codec) Decode(genome []int) (*image.RGBA, error) {
	points, triangles, err := c.Triangles(genome)
	if err != nil {
		return nil, err
	}

	ctx := gg.NewContext(c.Ref.Width, c.Ref.Height)
	ctx.SetRGB(0, 0, 0)
	ctx.Clear()

	for _, t := range triangles {
		p0, p1, p2 := points[t[0]], points[t[1]], points[t[2]]

		ctx.MoveTo(float64(p0.X), float64(p0.Y))
		ctx.LineTo(float64(p1.X), float64(p1.Y))
		ctx.LineTo(float64(p2.X), float64(p2.Y))
		ctx.ClosePath()

		cx := (p0.X + p1.X + p2.X) / 3
		cy := (p0.Y + p1.Y + p2.Y) / 3
		ctx.SetColor(c.Ref.At(cx, cy))

		if c.Outline == nil {
			ctx.Fill()
			continue
		}
		ctx.FillPreserve()
		ctx.SetColor(c.Outline)
		ctx.SetLineWidth(1)
		ctx.Stroke()
	}

	img, ok := ctx.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected canvas type %T", ctx.Image())
	}
	return img, nil
}

// Canonicalize sorts the (x, y) pairs of genome in place, lexicographically.
func Canonicalize(genome []int) {
	sort.Sort(vertexPairs(genome))
}

type vertexPairs []int

func (v vertexPairs) Len() int { return len(v) / 2 }

func (v vertexPairs) Less(i, j int) bool {
	if v[2*i] != v[2*j] {
		return v[2*i] < v[2*j]
	}
	return v[2*i+1] < v[2*j+1]
}

func (v vertexPairs) Swap(i, j int) {
	v[2*i], v[2*j] = v[2*j], v[2*i]
	v[2*i+1], v[2*j+1] = v[2*j+1], v[2*i+1]
}
