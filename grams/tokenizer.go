// Package grams cuts messages into character, word and part-of-speech n-grams,
// counts them into histograms and prunes hapax legomena.
package grams

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"fmt"
	"strings"
)

const (
	BeginMarker = "\x02"
	EndMarker   = "\x03"
)

// punctuation is the ASCII punctuation set stripped before word splitting.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// CharUnits returns the characters of the text padded with one space on both ends.
func CharUnits(text string) []string {
	runes := []rune(" " + text + " ")
	units := make([]string, len(runes))
	for i, r := range runes {
		units[i] = string(r)
	}
	return units
}

// WordUnits strips punctuation, splits on white space and brackets the words
// with the begin/end markers.
func WordUnits(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, text)
	return bracket(strings.Fields(cleaned))
}

// PosUnits splits a POS tag string and brackets the tags with the begin/end markers.
func PosUnits(tags string) ([]string, error) {
	fields := strings.Fields(tags)
	if len(fields) == 0 {
		return nil, errors.ErrEmptyPosTags
	}
	return bracket(fields), nil
}

func bracket(units []string) []string {
	bracketed := make([]string, 0, len(units)+2)
	bracketed = append(bracketed, BeginMarker)
	bracketed = append(bracketed, units...)
	return append(bracketed, EndMarker)
}

// Windows constructs every contiguous window of n units, L-n+1 of them.
// A stream shorter than n yields no window.
func Windows(n int, units []string) ([][]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: window size %d", errors.ErrNotEnoughUnits, n)
	}
	if len(units) < n {
		return nil, nil
	}
	windows := make([][]string, 0, len(units)-n+1)
	for i := 0; i+n <= len(units); i++ {
		windows = append(windows, units[i:i+n:i+n])
	}
	return windows, nil
}

// Grams cuts the message into the windows of the given kind.
// Unigrams of word and POS streams never contain the begin/end markers.
func Grams(kind domain.FeatureKind, message domain.Message) ([][]string, error) {
	var units []string
	switch kind.Source() {
	case domain.SourceChar:
		return Windows(domain.CharGramSize, CharUnits(message.Text))
	case domain.SourceWord:
		units = WordUnits(message.Text)
	case domain.SourcePos:
		tags, err := PosUnits(message.PosTags)
		if err != nil {
			return nil, err
		}
		units = tags
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFeature, kind)
	}

	if kind.Size() == 1 {
		units = units[1 : len(units)-1]
	}
	return Windows(kind.Size(), units)
}
