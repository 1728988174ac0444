// Package optim searches field parameter space for settings that satisfy
// the configured bounds while minimizing a caller-supplied objective.
package optim

import "math"

// GridSearch enumerates the cartesian product of per-field value lists.
type GridSearch struct {
	fields []string
	ranges [][]float64
}

// NewGridSearch pairs each field path with its candidate values. The two
// slices must have equal length.
func NewGridSearch(fields []string, ranges [][]float64) *GridSearch {
	if len(fields) != len(ranges) {
		panic("optim: fields/ranges length mismatch")
	}
	return &GridSearch{fields: fields, ranges: ranges}
}

// Objective scores one assignment of field values. Lower is better.
// Returning feasible=false skips the candidate.
type Objective func(assign map[string]float64) (score float64, feasible bool)

// Search returns the feasible assignment with the lowest score. ok is
// false when no candidate was feasible.
func (g *GridSearch) Search(obj Objective) (best map[string]float64, score float64, ok bool) {
	score = math.Inf(1)
	g.searchRecursive(0, make(map[string]float64), obj, &best, &score)
	return best, score, best != nil
}

func (g *GridSearch) searchRecursive(
	depth int,
	current map[string]float64,
	obj Objective,
	best *map[string]float64,
	bestScore *float64,
) {
	if depth == len(g.fields) {
		val, feasible := obj(current)
		if !feasible || val >= *bestScore {
			return
		}
		*bestScore = val
		picked := make(map[string]float64, len(current))
		for k, v := range current {
			picked[k] = v
		}
		*best = picked
		return
	}

	field := g.fields[depth]
	for _, v := range g.ranges[depth] {
		current[field] = v
		g.searchRecursive(depth+1, current, obj, best, bestScore)
	}
	delete(current, field)
}
