package grams

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindows_Count(t *testing.T) {
	req := require.New(t)
	units := strings.Split("how to check if a script", " ")

	for n := 1; n <= len(units); n++ {
		windows, err := Windows(n, units)
		req.NoError(err)
		req.Len(windows, len(units)-n+1)
		for _, window := range windows {
			req.Len(window, n)
		}
	}

	windows, err := Windows(2, units)
	req.NoError(err)
	req.Equal([]string{"how", "to"}, windows[0])
	req.Equal([]string{"a", "script"}, windows[4])

	windows, err = Windows(7, units)
	req.NoError(err)
	req.Empty(windows)

	windows, err = Windows(0, units)
	req.ErrorIs(err, errors.ErrNotEnoughUnits)
	req.Nil(windows)
}

func TestWindows_DoNotAlias(t *testing.T) {
	req := require.New(t)
	units := []string{"a", "b", "c"}
	windows, err := Windows(2, units)
	req.NoError(err)

	windows[0] = append(windows[0], "z")
	req.Equal([]string{"a", "b", "c"}, units)
}

func TestCharUnits_Padding(t *testing.T) {
	req := require.New(t)
	windows, err := Grams(domain.Char4Gram, domain.Message{Text: "ab"})
	req.NoError(err)
	req.Equal([][]string{{" ", "a", "b", " "}}, windows)

	windows, err = Grams(domain.Char4Gram, domain.Message{Text: "héllo"})
	req.NoError(err)
	req.Len(windows, 7-4+1)
	req.Equal([]string{" ", "h", "é", "l"}, windows[0])
}

func TestWordUnits_StripsPunctuation(t *testing.T) {
	req := require.New(t)
	units := WordUnits("Hello, world! it's   me...")
	req.Equal([]string{BeginMarker, "Hello", "world", "its", "me", EndMarker}, units)

	units = WordUnits("")
	req.Equal([]string{BeginMarker, EndMarker}, units)
}

func TestGrams_UnigramsExcludeMarkers(t *testing.T) {
	req := require.New(t)
	message := domain.Message{Text: "a b c", PosTags: "DT NN VB"}

	for _, kind := range []domain.FeatureKind{domain.Word1Gram, domain.Pos1Gram} {
		windows, err := Grams(kind, message)
		req.NoError(err)
		req.Len(windows, 3)
		for _, window := range windows {
			req.NotContains(window, BeginMarker)
			req.NotContains(window, EndMarker)
		}
	}

	for _, kind := range []domain.FeatureKind{domain.Word2Gram, domain.Pos2Gram} {
		windows, err := Grams(kind, message)
		req.NoError(err)
		req.Len(windows, 5-2+1)
		req.Equal(BeginMarker, windows[0][0])
		req.Equal(EndMarker, windows[len(windows)-1][1])
	}
}

func TestGrams_LongWindowOnShortMessage(t *testing.T) {
	req := require.New(t)
	windows, err := Grams(domain.Word5Gram, domain.Message{Text: "a b"})
	req.NoError(err)
	req.Empty(windows)
}

func TestGrams_EmptyPosTags(t *testing.T) {
	req := require.New(t)
	_, err := Grams(domain.Pos2Gram, domain.Message{Text: "a b", PosTags: "  "})
	req.ErrorIs(err, errors.ErrEmptyPosTags)
}
