package evotri

import (
	"math"
	"math/rand"
)

// Initialize draws n vertices for a fresh genome. Each vertex is either a
// uniformly random pixel or, with probability edgeRate, a random edge point.
// The resulting pairs are canonically ordered.
func Initialize(rng *rand.Rand, ref *Reference, n int, edgeRate float64) []int {
	genome := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		if len(ref.Edges) > 0 && rng.Float64() < edgeRate {
			p := ref.Edges[rng.Intn(len(ref.Edges))]
			genome = append(genome, p.X, p.Y)
			continue
		}
		genome = append(genome, rng.Intn(ref.Width), rng.Intn(ref.Height))
	}
	Canonicalize(genome)
	return genome
}

// Mutate shifts each vertex with probability indpb by a gaussian offset of
// standard deviation sigmaX and sigmaY. Coordinates are not clamped here.
func Mutate(rng *rand.Rand, ind *Individual, sigmaX, sigmaY, indpb float64) {
	g := ind.Genome
	for i := 0; i+1 < len(g); i += 2 {
		if rng.Float64() < indpb {
			g[i] += int(math.Round(rng.NormFloat64() * sigmaX))
			g[i+1] += int(math.Round(rng.NormFloat64() * sigmaY))
		}
	}
	ind.Invalidate()
}

// CrossoverTwoPoint swaps the gene segment between two random cut points of a and b in place.
func CrossoverTwoPoint(rng *rand.Rand, a, b *Individual) {
	a.Invalidate()
	b.Invalidate()

	size := Min(len(a.Genome), len(b.Genome))
	if size < 2 {
		return
	}
	p1 := 1 + rng.Intn(size)
	p2 := 1 + rng.Intn(size-1)
	if p2 >= p1 {
		p2++
	} else {
		p1, p2 = p2, p1
	}
	for i := p1; i < p2; i++ {
		a.Genome[i], b.Genome[i] = b.Genome[i], a.Genome[i]
	}
}

// variation holds the operator parameters shared by every offspring of a run.
type variation struct {
	cxpb, mutpb    float64
	sigmaX, sigmaY float64
	indpb          float64
}

// varyOr produces lambda offspring. Each one comes from exactly one of
// crossover, mutation or reproduction. Parents are never modified.
func (v variation) varyOr(rng *rand.Rand, pop Population, lambda int) Population {
	offspring := make(Population, 0, lambda)
	for i := 0; i < lambda; i++ {
		switch op := rng.Float64(); {
		case op < v.cxpb:
			j := rng.Intn(len(pop))
			k := rng.Intn(len(pop) - 1)
			if k >= j {
				k++
			}
			a, b := pop[j].Clone(), pop[k].Clone()
			CrossoverTwoPoint(rng, a, b)
			offspring = append(offspring, a)
		case op < v.cxpb+v.mutpb:
			ind := pop[rng.Intn(len(pop))].Clone()
			Mutate(rng, ind, v.sigmaX, v.sigmaY, v.indpb)
			offspring = append(offspring, ind)
		default:
			offspring = append(offspring, pop[rng.Intn(len(pop))].Clone())
		}
	}
	return offspring
}
