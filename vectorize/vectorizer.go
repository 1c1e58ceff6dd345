// Package vectorize turns feature maps into binary numeric matrices.
package vectorize

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Vocabulary assigns a column to every feature key seen while fitting.
// Columns are sorted with FeatureKey.Less so a given training set always gives the same layout.
type Vocabulary struct {
	columns []domain.FeatureKey
	index   map[domain.FeatureKey]int
}

// NewVocabulary builds a vocabulary from an ordered column list, such as one read back from disk.
func NewVocabulary(columns []domain.FeatureKey) Vocabulary {
	index := make(map[domain.FeatureKey]int, len(columns))
	for i, key := range columns {
		index[key] = i
	}
	return Vocabulary{columns: columns, index: index}
}

func (v Vocabulary) Len() int {
	return len(v.columns)
}

// Columns returns the feature key of every column.
func (v Vocabulary) Columns() []domain.FeatureKey {
	return v.columns
}

// Column returns the column of a key and false when the key was never seen.
func (v Vocabulary) Column(key domain.FeatureKey) (int, bool) {
	i, ok := v.index[key]
	return i, ok
}

// Fit collects the keys of every map.
func Fit(maps []domain.Histogram) (Vocabulary, error) {
	seen := make(map[domain.FeatureKey]struct{})
	for _, histogram := range maps {
		for key := range histogram {
			seen[key] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return Vocabulary{}, errors.ErrEmptyVocabulary
	}

	columns := make([]domain.FeatureKey, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Slice(columns, func(i, j int) bool {
		return columns[i].Less(columns[j])
	})
	return NewVocabulary(columns), nil
}

// FitTransform learns the vocabulary of the maps and returns their binary matrix,
// one row per map.
func FitTransform(maps []domain.Histogram) (*mat.Dense, Vocabulary, error) {
	vocabulary, err := Fit(maps)
	if err != nil {
		return nil, Vocabulary{}, err
	}
	return Transform(vocabulary, maps), vocabulary, nil
}

// Transform projects every map on an already fitted vocabulary.
// It returns nil when there is no map.
func Transform(vocabulary Vocabulary, maps []domain.Histogram) *mat.Dense {
	if len(maps) == 0 || vocabulary.Len() == 0 {
		return nil
	}
	m := mat.NewDense(len(maps), vocabulary.Len(), nil)
	for row, histogram := range maps {
		for column, value := range Project(vocabulary, histogram) {
			m.Set(row, column, value)
		}
	}
	return m
}

// Project returns the sparse binary vector of a single map. Keys absent from the
// vocabulary are dropped, and so are keys with a zero count.
func Project(vocabulary Vocabulary, histogram domain.Histogram) map[int]float64 {
	vector := make(map[int]float64, len(histogram))
	for key, count := range histogram {
		column, ok := vocabulary.index[key]
		if !ok || count <= 0 {
			continue
		}
		vector[column] = 1
	}
	return vector
}
