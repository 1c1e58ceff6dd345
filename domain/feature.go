// Package domain contains core concepts of the authorship attribution system.
// This file defines feature kinds and the keys used in n-gram histograms.
package domain

import (
	"authorship-lab/errors"
	"fmt"
	"strconv"
	"strings"
)

// Source is the discriminator of a FeatureKey: the stream a gram was cut from.
type Source int

const (
	SourceChar Source = iota + 1
	SourceWord
	SourcePos
)

func (s Source) String() string {
	switch s {
	case SourceChar:
		return "char"
	case SourceWord:
		return "word"
	case SourcePos:
		return "pos"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// MaxGramSize is the largest window used for word and POS grams.
const MaxGramSize = 5

// CharGramSize is the only window used over raw characters.
const CharGramSize = 4

// FeatureKind is one label of the closed set of stylometric feature kinds.
type FeatureKind string

const (
	Char4Gram FeatureKind = "char-4-gram"
	Word1Gram FeatureKind = "word-1-gram"
	Word2Gram FeatureKind = "word-2-gram"
	Word3Gram FeatureKind = "word-3-gram"
	Word4Gram FeatureKind = "word-4-gram"
	Word5Gram FeatureKind = "word-5-gram"
	Pos1Gram  FeatureKind = "pos-1-gram"
	Pos2Gram  FeatureKind = "pos-2-gram"
	Pos3Gram  FeatureKind = "pos-3-gram"
	Pos4Gram  FeatureKind = "pos-4-gram"
	Pos5Gram  FeatureKind = "pos-5-gram"
)

// AllFeaturesToken is the literal meaning "every feature kind".
const AllFeaturesToken = "all"

// AllFeatureKinds returns every feature kind in canonical order.
func AllFeatureKinds() []FeatureKind {
	return []FeatureKind{
		Char4Gram,
		Word1Gram, Word2Gram, Word3Gram, Word4Gram, Word5Gram,
		Pos1Gram, Pos2Gram, Pos3Gram, Pos4Gram, Pos5Gram,
	}
}

// NewFeatureKind builds the kind label of a (source, window size) pair.
func NewFeatureKind(source Source, size int) (FeatureKind, error) {
	switch {
	case source == SourceChar && size == CharGramSize:
		return Char4Gram, nil
	case (source == SourceWord || source == SourcePos) && size >= 1 && size <= MaxGramSize:
		return FeatureKind(fmt.Sprintf("%s-%d-gram", source, size)), nil
	default:
		return "", fmt.Errorf("%w: %s window of %d", errors.ErrUnknownFeature, source, size)
	}
}

// Source returns the stream the kind is cut from.
func (k FeatureKind) Source() Source {
	switch {
	case strings.HasPrefix(string(k), "char-"):
		return SourceChar
	case strings.HasPrefix(string(k), "word-"):
		return SourceWord
	case strings.HasPrefix(string(k), "pos-"):
		return SourcePos
	default:
		return 0
	}
}

// Size returns the window length of the kind.
func (k FeatureKind) Size() int {
	parts := strings.Split(string(k), "-")
	if len(parts) != 3 {
		return 0
	}
	size, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return size
}

// Valid reports whether the kind belongs to the closed set.
func (k FeatureKind) Valid() bool {
	for _, kind := range AllFeatureKinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// ParseFeatureKinds reads a comma separated list of kind labels, or the "all" token.
// The result follows the canonical order and holds no duplicates.
func ParseFeatureKinds(raw string) ([]FeatureKind, error) {
	requested := make(map[FeatureKind]struct{})
	for _, part := range strings.Split(raw, ",") {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		if label == AllFeaturesToken {
			return AllFeatureKinds(), nil
		}
		kind := FeatureKind(label)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFeature, label)
		}
		requested[kind] = struct{}{}
	}
	if len(requested) == 0 {
		return nil, errors.ErrNoFeatures
	}

	var kinds []FeatureKind
	for _, kind := range AllFeatureKinds() {
		if _, ok := requested[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// UnitSeparator joins the units of a gram inside a FeatureKey.
const UnitSeparator = "\x1f"

// FeatureKey identifies a gram. Source tags the key so that a POS gram and a word gram
// with the same surface text never share a histogram or vocabulary entry.
type FeatureKey struct {
	Source Source
	Tokens string
}

func NewFeatureKey(source Source, units []string) FeatureKey {
	return FeatureKey{Source: source, Tokens: strings.Join(units, UnitSeparator)}
}

// Units splits the key back into the window it was built from.
func (k FeatureKey) Units() []string {
	return strings.Split(k.Tokens, UnitSeparator)
}

// Size is the window length of the gram.
func (k FeatureKey) Size() int {
	return strings.Count(k.Tokens, UnitSeparator) + 1
}

// Kind derives the feature kind label from the key. It returns an empty kind for keys
// outside the closed set.
func (k FeatureKey) Kind() FeatureKind {
	kind, err := NewFeatureKind(k.Source, k.Size())
	if err != nil {
		return ""
	}
	return kind
}

// Less orders keys by source, window size and tokens.
func (k FeatureKey) Less(other FeatureKey) bool {
	if k.Source != other.Source {
		return k.Source < other.Source
	}
	if size, otherSize := k.Size(), other.Size(); size != otherSize {
		return size < otherSize
	}
	return k.Tokens < other.Tokens
}

func (k FeatureKey) String() string {
	return fmt.Sprintf("%s:%q", k.Source, strings.Join(k.Units(), " "))
}

// Histogram maps a gram to its positive occurrence count.
type Histogram map[FeatureKey]int

// Clone returns an independent copy of the histogram.
func (h Histogram) Clone() Histogram {
	clone := make(Histogram, len(h))
	for key, count := range h {
		clone[key] = count
	}
	return clone
}

// Update copies every entry of other into h, overwriting keys already present.
func (h Histogram) Update(other Histogram) {
	for key, count := range other {
		h[key] = count
	}
}
