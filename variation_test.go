package evotri

import (
	"image"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeUniform(t *testing.T) {
	ref := newGradientRef(t, 30, 20)
	rng := rand.New(rand.NewSource(3))

	genome := Initialize(rng, ref, 25, 0)
	require.Len(t, genome, 50)
	for i := 0; i < len(genome); i += 2 {
		assert.True(t, genome[i] >= 0 && genome[i] < ref.Width)
		assert.True(t, genome[i+1] >= 0 && genome[i+1] < ref.Height)
	}
	assert.True(t, sort.IsSorted(vertexPairs(genome)), "vertices must be canonically ordered")
}

func TestInitializeOnEdgesOnly(t *testing.T) {
	ref := newGradientRef(t, 30, 20)
	ref.Edges = []image.Point{{1, 2}, {10, 11}, {29, 0}}
	rng := rand.New(rand.NewSource(4))

	genome := Initialize(rng, ref, 40, 1.0)
	require.Len(t, genome, 80)
	for i := 0; i < len(genome); i += 2 {
		assert.Contains(t, ref.Edges, image.Pt(genome[i], genome[i+1]))
	}
}

func TestInitializeWithoutEdgesFallsBackToUniform(t *testing.T) {
	ref := newGradientRef(t, 30, 20)
	rng := rand.New(rand.NewSource(5))

	genome := Initialize(rng, ref, 10, 1.0)
	assert.Len(t, genome, 20)
}

func TestMutate(t *testing.T) {
	rng := rand.New(rand.NewSource(6))

	ind := &Individual{Genome: []int{1, 2, 3, 4}, Fitness: 12, Valid: true}
	Mutate(rng, ind, 5, 5, 0)
	assert.Equal(t, []int{1, 2, 3, 4}, ind.Genome)
	assert.False(t, ind.Valid)

	ind = &Individual{Genome: []int{50, 50, 50, 50, 50, 50}, Valid: true}
	Mutate(rng, ind, 10, 10, 1)
	assert.Len(t, ind.Genome, 6)
	assert.NotEqual(t, []int{50, 50, 50, 50, 50, 50}, ind.Genome)
	assert.False(t, ind.Valid)
}

func TestCrossoverTwoPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	for trial := 0; trial < 100; trial++ {
		a := &Individual{Genome: []int{0, 1, 2, 3, 4, 5, 6, 7}, Valid: true}
		b := &Individual{Genome: []int{10, 11, 12, 13, 14, 15, 16, 17}, Valid: true}
		CrossoverTwoPoint(rng, a, b)

		assert.False(t, a.Valid)
		assert.False(t, b.Valid)
		require.Len(t, a.Genome, 8)
		require.Len(t, b.Genome, 8)

		swapped := 0
		for i := range a.Genome {
			pair := []int{a.Genome[i], b.Genome[i]}
			assert.ElementsMatch(t, []int{i, 10 + i}, pair)
			if a.Genome[i] != i {
				swapped++
			}
		}
		assert.Greater(t, swapped, 0)
		// The first gene is never part of the swapped segment.
		assert.Equal(t, 0, a.Genome[0])
	}
}

func TestCrossoverShortGenome(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a := &Individual{Genome: []int{1}, Valid: true}
	b := &Individual{Genome: []int{2}, Valid: true}
	CrossoverTwoPoint(rng, a, b)
	assert.Equal(t, []int{1}, a.Genome)
	assert.False(t, a.Valid)
	assert.False(t, b.Valid)
}

func TestVaryOrLeavesParentsUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	pop := Population{
		{Genome: []int{1, 1, 2, 2}, Fitness: 1, Valid: true},
		{Genome: []int{3, 3, 4, 4}, Fitness: 2, Valid: true},
		{Genome: []int{5, 5, 6, 6}, Fitness: 3, Valid: true},
	}
	before := pop.Clone()

	v := variation{cxpb: 0.5, mutpb: 0.3, sigmaX: 3, sigmaY: 3, indpb: 1}
	offspring := v.varyOr(rng, pop, 30)

	require.Len(t, offspring, 30)
	assert.Equal(t, before, pop)
	for _, child := range offspring {
		assert.Len(t, child.Genome, 4)
		for _, parent := range pop {
			assert.NotSame(t, parent, child)
		}
	}
}

func TestVaryOrReproductionKeepsFitness(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pop := Population{
		{Genome: []int{1, 1}, Fitness: 1.5, Valid: true},
		{Genome: []int{2, 2}, Fitness: 2.5, Valid: true},
	}

	offspring := variation{}.varyOr(rng, pop, 10)
	require.Len(t, offspring, 10)
	for _, child := range offspring {
		assert.True(t, child.Valid)
		if child.Genome[0] == 1 {
			assert.Equal(t, 1.5, child.Fitness)
		} else {
			assert.Equal(t, 2.5, child.Fitness)
		}
	}
}

func TestVaryOrOperatorsInvalidate(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	pop := Population{
		{Genome: []int{1, 1, 9, 9}, Fitness: 1, Valid: true},
		{Genome: []int{2, 2, 8, 8}, Fitness: 2, Valid: true},
	}

	offspring := variation{cxpb: 1}.varyOr(rng, pop, 10)
	for _, child := range offspring {
		assert.False(t, child.Valid)
	}
	offspring = variation{mutpb: 1, sigmaX: 1, sigmaY: 1, indpb: 0.5}.varyOr(rng, pop, 10)
	for _, child := range offspring {
		assert.False(t, child.Valid)
	}
}
