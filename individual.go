package evotri

// Individual is a flat list of 2N vertex coordinates with its cached fitness.
// Fitness is only meaningful while Valid is set.
type Individual struct {
	Genome  []int
	Fitness float64
	Valid   bool
}

// NewIndividual wraps genome in an unevaluated individual.
func NewIndividual(genome []int) *Individual {
	return &Individual{Genome: genome}
}

// Clone returns a deep copy, keeping the cached fitness.
func (ind *Individual) Clone() *Individual {
	genome := make([]int, len(ind.Genome))
	copy(genome, ind.Genome)
	return &Individual{Genome: genome, Fitness: ind.Fitness, Valid: ind.Valid}
}

// Invalidate marks the cached fitness as stale.
func (ind *Individual) Invalidate() {
	ind.Valid = false
}

// Population is an ordered set of individuals.
type Population []*Individual

// Fitnesses returns the cached fitness of every member.
func (p Population) Fitnesses() []float64 {
	out := make([]float64, len(p))
	for i, ind := range p {
		out[i] = ind.Fitness
	}
	return out
}

// Invalid returns the members whose fitness must be recomputed.
func (p Population) Invalid() Population {
	var out Population
	for _, ind := range p {
		if !ind.Valid {
			out = append(out, ind)
		}
	}
	return out
}

// Best returns the evaluated member with the lowest fitness, nil if none is evaluated.
// Ties keep the earliest member.
func (p Population) Best() *Individual {
	return p.BestBy(Minimize{})
}

// BestBy is Best under the cmp ordering.
func (p Population) BestBy(cmp Comparison) *Individual {
	var best *Individual
	for _, ind := range p {
		if ind.Valid && (best == nil || cmp.Better(ind.Fitness, best.Fitness)) {
			best = ind
		}
	}
	return best
}

// Clone deep copies every member.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	for i, ind := range p {
		out[i] = ind.Clone()
	}
	return out
}
