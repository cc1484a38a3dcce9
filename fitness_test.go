package evotri

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateIsDeterministic(t *testing.T) {
	ref := newGradientRef(t, 32, 24)
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 10; trial++ {
		genome := Initialize(rng, ref, 8, 0)
		a, err := Evaluate(genome, ref)
		require.NoError(t, err)
		b, err := Evaluate(genome, ref)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.GreaterOrEqual(t, a, 0.0)
	}
}

func TestEvaluateUniformReference(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	ref := newUniformRef(t, 16, 16, red)

	fit, err := Evaluate([]int{4, 4, 11, 9}, ref)
	require.NoError(t, err)
	// Only anti-aliased triangle seams differ from the reference, and by at most a quarter of the range.
	assert.Less(t, fit, 3*64.0*64.0)

	// A render that missed every pixel would score the full red error.
	assert.Less(t, fit, 255.0*255.0)
}

func TestEvaluateConcurrentCallsAgree(t *testing.T) {
	ref := newGradientRef(t, 24, 24)
	codec := NewCodec(ref)
	genome := []int{2, 3, 12, 12, 20, 5}

	want, err := codec.Evaluate(genome)
	require.NoError(t, err)

	results := make(chan float64, 8)
	for i := 0; i < 8; i++ {
		go func() {
			fit, err := codec.Evaluate(genome)
			if err != nil {
				fit = -1
			}
			results <- fit
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-results)
	}
}
