package evotri

import (
	"slices"
	"sort"
)

// HallOfFame archives the best individuals seen during a run, best first.
type HallOfFame struct {
	capacity int
	cmp      Comparison
	items    Population
}

// NewHallOfFame returns an empty archive holding at most capacity individuals
// ranked by cmp. A nil cmp means Minimize.
func NewHallOfFame(capacity int, cmp Comparison) *HallOfFame {
	return &HallOfFame{capacity: Max(capacity, 1), cmp: orMinimize(cmp)}
}

// Update offers every evaluated individual of pop to the archive. A newcomer
// enters while there is room or when it beats the worst entry, unless an
// identical genome is already archived.
func (h *HallOfFame) Update(pop Population) {
	for _, ind := range pop {
		if !ind.Valid {
			continue
		}
		if len(h.items) >= h.capacity && !h.cmp.Better(ind.Fitness, h.items[len(h.items)-1].Fitness) {
			continue
		}
		if h.contains(ind) {
			continue
		}
		if len(h.items) >= h.capacity {
			h.items = h.items[:len(h.items)-1]
		}
		h.insert(ind.Clone())
	}
}

// insert keeps the archive best first; equal fitness goes after existing entries.
func (h *HallOfFame) insert(ind *Individual) {
	i := sort.Search(len(h.items), func(i int) bool {
		return h.cmp.Better(ind.Fitness, h.items[i].Fitness)
	})
	h.items = slices.Insert(h.items, i, ind)
}

func (h *HallOfFame) contains(ind *Individual) bool {
	for _, it := range h.items {
		if slices.Equal(it.Genome, ind.Genome) {
			return true
		}
	}
	return false
}

// Len returns the number of archived individuals.
func (h *HallOfFame) Len() int { return len(h.items) }

// Best returns the best archived individual, nil when empty.
func (h *HallOfFame) Best() *Individual {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// Items returns the archive, best first.
func (h *HallOfFame) Items() Population {
	return slices.Clone(h.items)
}
