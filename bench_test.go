package evotri

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"testing"
)

func BenchmarkEvaluate(b *testing.B) {
	buf, err := os.ReadFile("./testdata/sample.png")
	if err != nil {
		b.Skipf("Failed opening test file: %v", err)
	}
	img, _, err := image.Decode(bytes.NewBuffer(buf))
	if err != nil {
		b.Skipf("Failed decoding image: %v", err)
	}
	ref, err := NewReference(img, RefOptions{Width: 256, EdgeThreshold: DefaultEdgeThreshold, BlurRadius: DefaultBlurRadius})
	if err != nil {
		b.Fatalf("Failed preparing reference: %v", err)
	}
	genome := Initialize(rand.New(rand.NewSource(1)), ref, 500, 0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Evaluate(genome, ref); err != nil {
			b.Fatalf("Failed evaluating genome: %v", err)
		}
	}
}

func BenchmarkRun(b *testing.B) {
	ref := newGradientRef(b, 64, 64)
	cfg := DefaultConfig()
	cfg.Mu, cfg.Lambda, cfg.NGen = 20, 20, 5
	cfg.VertexCount = 50
	cfg.Workers = 4
	cfg.Seed = 1

	engine, err := NewEngine(ref, cfg)
	if err != nil {
		b.Fatalf("Failed creating engine: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Run(context.Background(), RunOptions{}); err != nil {
			b.Fatalf("Failed running engine: %v", err)
		}
	}
}
