package evotri

import (
	"fmt"
	"math/rand"
	"sort"
)

// Selector reduces a candidate pool to k survivors.
type Selector interface {
	Name() string
	Select(rng *rand.Rand, candidates Population, k int) Population
}

// NewSelector maps a strategy identifier to its Selector ranking with cmp.
// A nil cmp means Minimize.
func NewSelector(name string, tournamentSize int, cmp Comparison) (Selector, error) {
	cmp = orMinimize(cmp)
	switch name {
	case SelectBest:
		return BestSelector{Compare: cmp}, nil
	case SelectTournament:
		if tournamentSize < 1 {
			return nil, fmt.Errorf("%w: tournament size must be greater than 0", ErrConfig)
		}
		return TournamentSelector{Size: tournamentSize, Compare: cmp}, nil
	default:
		return nil, fmt.Errorf("%w: unknown selection %q, must be one of: %s, %s", ErrConfig, name, SelectBest, SelectTournament)
	}
}

// BestSelector keeps the k fittest candidates, best first.
type BestSelector struct {
	Compare Comparison
}

func (BestSelector) Name() string {
	return SelectBest
}

func (s BestSelector) Select(_ *rand.Rand, candidates Population, k int) Population {
	cmp := orMinimize(s.Compare)
	sorted := make(Population, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return cmp.Better(sorted[i].Fitness, sorted[j].Fitness)
	})
	return sorted[:Min(k, len(sorted))]
}

// TournamentSelector runs k tournaments of Size contestants drawn with replacement.
type TournamentSelector struct {
	Size    int
	Compare Comparison
}

func (TournamentSelector) Name() string {
	return SelectTournament
}

// Select returns copies of the winners, since one candidate may win several tournaments.
func (s TournamentSelector) Select(rng *rand.Rand, candidates Population, k int) Population {
	cmp := orMinimize(s.Compare)
	selected := make(Population, 0, k)
	for i := 0; i < k; i++ {
		best := candidates[rng.Intn(len(candidates))]
		for j := 1; j < s.Size; j++ {
			c := candidates[rng.Intn(len(candidates))]
			if cmp.Better(c.Fitness, best.Fitness) {
				best = c
			}
		}
		selected = append(selected, best.Clone())
	}
	return selected
}
