package domain

import (
	"authorship-lab/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFeatureKinds(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []FeatureKind
		wantErr error
	}{
		{"All token", "all", AllFeatureKinds(), nil},
		{"Canonical order", "pos-2-gram, word-1-gram,char-4-gram", []FeatureKind{Char4Gram, Word1Gram, Pos2Gram}, nil},
		{"Duplicates removed", "word-1-gram,word-1-gram", []FeatureKind{Word1Gram}, nil},
		{"Unknown kind", "word-6-gram", nil, errors.ErrUnknownFeature},
		{"Empty list", " , ", nil, errors.ErrNoFeatures},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFeatureKinds(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFeatureKind_SourceAndSize(t *testing.T) {
	req := require.New(t)
	for _, kind := range AllFeatureKinds() {
		rebuilt, err := NewFeatureKind(kind.Source(), kind.Size())
		req.NoError(err)
		req.Equal(kind, rebuilt)
	}

	_, err := NewFeatureKind(SourceChar, 3)
	req.ErrorIs(err, errors.ErrUnknownFeature)
}

func TestFeatureKey_Discriminator(t *testing.T) {
	req := require.New(t)
	word := NewFeatureKey(SourceWord, []string{"NN", "VB"})
	pos := NewFeatureKey(SourcePos, []string{"NN", "VB"})

	req.NotEqual(word, pos)
	histogram := Histogram{word: 1}
	histogram.Update(Histogram{pos: 3})
	req.Len(histogram, 2)
	req.Equal(1, histogram[word])

	req.Equal(Word2Gram, word.Kind())
	req.Equal(Pos2Gram, pos.Kind())
	req.Equal([]string{"NN", "VB"}, pos.Units())
	req.True(word.Less(pos))
}
