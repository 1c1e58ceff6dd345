package importance

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"authorship-lab/vectorize"
	"testing"

	"github.com/stretchr/testify/require"
)

func word(units ...string) domain.FeatureKey {
	return domain.NewFeatureKey(domain.SourceWord, units)
}

func pos(units ...string) domain.FeatureKey {
	return domain.NewFeatureKey(domain.SourcePos, units)
}

func TestTopK(t *testing.T) {
	tests := []struct {
		name        string
		importances []float64
		k           int
		expected    []int
	}{
		{"ascending tail", []float64{0.1, 0.5, 0.2, 0.9}, 2, []int{1, 3}},
		{"ties keep column order", []float64{0.3, 0.3, 0.1}, 2, []int{0, 1}},
		{"fewer columns than k", []float64{0.2, 0.1}, 5, []int{1, 0}},
		{"k zero", []float64{0.2}, 0, nil},
		{"no columns", nil, 3, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.expected, TopK(tt.importances, tt.k))
		})
	}
}

func TestAccumulator_RankConvention(t *testing.T) {
	req := require.New(t)
	vocabulary := vectorize.NewVocabulary([]domain.FeatureKey{word("a"), word("a", "b"), pos("NN"), word("c")})
	kindIndex := domain.KindIndex{
		word("a"):      domain.Word1Gram,
		word("a", "b"): domain.Word2Gram,
		pos("NN"):      domain.Pos1Gram,
		word("c"):      domain.Word1Gram,
	}

	accumulator := NewAccumulator(3)
	// Top 3 ascending: word-2-gram (rank 1), word("c") (rank 2), pos (rank 3).
	req.NoError(accumulator.Add([]float64{0.05, 0.2, 0.45, 0.3}, vocabulary, kindIndex))
	req.Equal(1.0, accumulator.Score(domain.Word2Gram))
	req.Equal(2.0, accumulator.Score(domain.Word1Gram))
	req.Equal(3.0, accumulator.Score(domain.Pos1Gram))
	req.Equal([]domain.FeatureKind{domain.Pos1Gram, domain.Word1Gram, domain.Word2Gram, domain.Char4Gram},
		accumulator.Ranking([]domain.FeatureKind{domain.Char4Gram, domain.Word1Gram, domain.Word2Gram, domain.Pos1Gram}))
}

func TestAccumulator_NormalizationBound(t *testing.T) {
	req := require.New(t)
	vocabulary := vectorize.NewVocabulary([]domain.FeatureKey{word("a"), word("b"), pos("NN"), pos("VB")})
	kindIndex := domain.KindIndex{word("a"): domain.Word1Gram, word("b"): domain.Word1Gram, pos("NN"): domain.Pos1Gram, pos("VB"): domain.Pos1Gram}

	accumulator := NewAccumulator(2)
	runs := [][]float64{
		{0.4, 0.3, 0.2, 0.1},
		{0.1, 0.2, 0.3, 0.4},
		{0.1, 0.5, 0.4, 0.0},
	}
	for _, importances := range runs {
		req.NoError(accumulator.Add(importances, vocabulary, kindIndex))
	}
	req.NoError(accumulator.Normalize())

	total := 0.0
	for _, kind := range domain.AllFeatureKinds() {
		score := accumulator.Score(kind)
		req.GreaterOrEqual(score, 0.0)
		req.LessOrEqual(score, 1.0)
		total += score
	}
	req.InDelta(1.0, total, 1e-12)

	req.ErrorIs(accumulator.Add(runs[0], vocabulary, kindIndex), errors.ErrAlreadyNormalized)
	req.ErrorIs(accumulator.Normalize(), errors.ErrAlreadyNormalized)
}

func TestAccumulator_MergeEqualsSequentialAdds(t *testing.T) {
	req := require.New(t)
	vocabulary := vectorize.NewVocabulary([]domain.FeatureKey{word("a"), pos("NN"), word("a", "b")})
	kindIndex := domain.KindIndex{word("a"): domain.Word1Gram, pos("NN"): domain.Pos1Gram, word("a", "b"): domain.Word2Gram}
	first := []float64{0.6, 0.3, 0.1}
	second := []float64{0.1, 0.3, 0.6}

	sequential := NewAccumulator(2)
	req.NoError(sequential.Add(first, vocabulary, kindIndex))
	req.NoError(sequential.Add(second, vocabulary, kindIndex))

	left, right := NewAccumulator(2), NewAccumulator(2)
	req.NoError(left.Add(first, vocabulary, kindIndex))
	req.NoError(right.Add(second, vocabulary, kindIndex))
	req.NoError(left.Merge(right))
	req.Equal(sequential.Runs(), left.Runs())
	for _, kind := range domain.AllFeatureKinds() {
		req.Equal(sequential.Score(kind), left.Score(kind))
	}

	req.ErrorIs(left.Merge(NewAccumulator(3)), errors.ErrShapeMismatch)
}

func TestAccumulator_ShapeMismatch(t *testing.T) {
	req := require.New(t)
	vocabulary := vectorize.NewVocabulary([]domain.FeatureKey{word("a")})
	err := NewAccumulator(1).Add([]float64{0.5, 0.5}, vocabulary, domain.KindIndex{})
	req.ErrorIs(err, errors.ErrShapeMismatch)
}
