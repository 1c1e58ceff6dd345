// Package importance ranks the most important columns of every run and accumulates the
// ranks per feature kind.
package importance

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"authorship-lab/vectorize"
	"fmt"
	"sort"
)

// TopK sorts the column indices by ascending importance and returns the last k of them,
// so the most important column comes last. Equal scores keep their column order.
// When there are fewer than k columns every column is returned.
func TopK(importances []float64, k int) []int {
	order := make([]int, len(importances))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return importances[order[i]] < importances[order[j]]
	})
	if k <= 0 {
		return nil
	}
	return order[max(0, len(order)-k):]
}

// Accumulator sums, per feature kind, the ranks of the top k columns of every run.
// Rank 1 is the least important of the top k and rank k the most important.
type Accumulator struct {
	k          int
	runs       int
	scores     map[domain.FeatureKind]float64
	normalized bool
}

func NewAccumulator(k int) *Accumulator {
	return &Accumulator{k: k, scores: make(map[domain.FeatureKind]float64)}
}

// Add ranks the columns of one run. Every top column is mapped back to its gram with the
// vocabulary and to its kind with the sampler's index.
func (a *Accumulator) Add(importances []float64, vocabulary vectorize.Vocabulary, kindIndex domain.KindIndex) error {
	if a.normalized {
		return errors.ErrAlreadyNormalized
	}
	if len(importances) != vocabulary.Len() {
		return fmt.Errorf("%d importances for %d columns: %w", len(importances), vocabulary.Len(), errors.ErrShapeMismatch)
	}

	columns := vocabulary.Columns()
	for i, column := range TopK(importances, a.k) {
		key := columns[column]
		kind, ok := kindIndex[key]
		if !ok {
			kind = key.Kind()
		}
		a.scores[kind] += float64(i + 1)
	}
	a.runs++
	return nil
}

// Merge adds the ranks of an accumulator filled independently, such as one per worker.
func (a *Accumulator) Merge(other *Accumulator) error {
	if a.normalized || other.normalized {
		return errors.ErrAlreadyNormalized
	}
	if a.k != other.k {
		return fmt.Errorf("merging top %d ranks into top %d ranks: %w", other.k, a.k, errors.ErrShapeMismatch)
	}
	for kind, score := range other.scores {
		a.scores[kind] += score
	}
	a.runs += other.runs
	return nil
}

// Normalize divides every score by (k+1)*(k/2)*runs, the total of the ranks handed out
// over all runs, so that the scores of a full ranking sum to 1. Further Adds fail.
func (a *Accumulator) Normalize() error {
	if a.normalized {
		return errors.ErrAlreadyNormalized
	}
	a.normalized = true
	total := float64(a.k+1) * (float64(a.k) / 2) * float64(a.runs)
	if total == 0 {
		return nil
	}
	for kind := range a.scores {
		a.scores[kind] /= total
	}
	return nil
}

func (a *Accumulator) Runs() int {
	return a.runs
}

// Score returns the accumulated score of one kind, zero when the kind never ranked.
func (a *Accumulator) Score(kind domain.FeatureKind) float64 {
	return a.scores[kind]
}

// Ranking orders kinds by score, best first. Equal scores keep the order of kinds.
// The input slice is not modified.
func (a *Accumulator) Ranking(kinds []domain.FeatureKind) []domain.FeatureKind {
	ranked := make([]domain.FeatureKind, len(kinds))
	copy(ranked, kinds)
	sort.SliceStable(ranked, func(i, j int) bool {
		return a.scores[ranked[i]] > a.scores[ranked[j]]
	})
	return ranked
}
