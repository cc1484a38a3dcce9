package evotri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batch scores fitnesses with genomes {first+i, first+i}, so batches built
// from different first values never share a genome.
func batch(first int, fitnesses ...float64) Population {
	pop := make(Population, len(fitnesses))
	for i, f := range fitnesses {
		pop[i] = &Individual{Genome: []int{first + i, first + i}, Fitness: f, Valid: true}
	}
	return pop
}

func TestHallOfFameKeepsBest(t *testing.T) {
	hof := NewHallOfFame(1, nil)
	hof.Update(batch(0, 5, 3, 4))
	require.Equal(t, 1, hof.Len())
	assert.Equal(t, 3.0, hof.Best().Fitness)

	hof.Update(batch(10, 7, 8))
	assert.Equal(t, 3.0, hof.Best().Fitness)

	hof.Update(batch(20, 9, 1))
	assert.Equal(t, 1.0, hof.Best().Fitness)
	assert.Equal(t, []int{21, 21}, hof.Best().Genome)
}

func TestHallOfFameRejectsArchivedGenome(t *testing.T) {
	hof := NewHallOfFame(1, nil)
	hof.Update(batch(0, 5, 3))

	// Same genome as the archived entry, better fitness: still a duplicate.
	hof.Update(Population{{Genome: []int{1, 1}, Fitness: 1, Valid: true}})
	require.Equal(t, 1, hof.Len())
	assert.Equal(t, 3.0, hof.Best().Fitness)
}

func TestHallOfFameFollowsComparison(t *testing.T) {
	hof := NewHallOfFame(2, maximize{})
	hof.Update(batch(0, 5, 3, 9, 4))

	assert.Equal(t, []float64{9, 5}, hof.Items().Fitnesses())
}

func TestHallOfFameTiesKeepFirstSeen(t *testing.T) {
	hof := NewHallOfFame(1, nil)
	first := &Individual{Genome: []int{1, 1}, Fitness: 2, Valid: true}
	second := &Individual{Genome: []int{2, 2}, Fitness: 2, Valid: true}
	hof.Update(Population{first, second})

	assert.Equal(t, first.Genome, hof.Best().Genome)
}

func TestHallOfFameOrderAndDuplicates(t *testing.T) {
	hof := NewHallOfFame(3, nil)
	a := &Individual{Genome: []int{1, 1}, Fitness: 4, Valid: true}
	b := &Individual{Genome: []int{2, 2}, Fitness: 2, Valid: true}
	c := &Individual{Genome: []int{3, 3}, Fitness: 3, Valid: true}
	d := &Individual{Genome: []int{2, 2}, Fitness: 2, Valid: true}
	e := &Individual{Genome: []int{4, 4}, Fitness: 1, Valid: true}
	hof.Update(Population{a, b, c, d, e})

	items := hof.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []float64{1, 2, 3}, items.Fitnesses())
}

func TestHallOfFameStoresCopies(t *testing.T) {
	hof := NewHallOfFame(1, nil)
	ind := &Individual{Genome: []int{1, 1}, Fitness: 1, Valid: true}
	hof.Update(Population{ind})
	ind.Genome[0] = 99

	assert.Equal(t, []int{1, 1}, hof.Best().Genome)
}

func TestHallOfFameIgnoresInvalid(t *testing.T) {
	hof := NewHallOfFame(2, nil)
	hof.Update(Population{{Genome: []int{1, 1}, Fitness: 0}})
	assert.Equal(t, 0, hof.Len())
	assert.Nil(t, hof.Best())
}
