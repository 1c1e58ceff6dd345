package grams

import "authorship-lab/domain"

// Histogram counts the windows of one message. Every key is tagged with its source.
func Histogram(source domain.Source, windows [][]string) domain.Histogram {
	histogram := make(domain.Histogram, len(windows))
	for _, window := range windows {
		histogram[domain.NewFeatureKey(source, window)]++
	}
	return histogram
}

// RemoveHapaxLegomena deletes, from every histogram of the collection, the grams whose
// total count across the whole collection is exactly one. It works in place and
// returns the number of grams removed.
func RemoveHapaxLegomena(histograms []domain.Histogram) int {
	if len(histograms) == 0 {
		return 0
	}

	totals := make(map[domain.FeatureKey]int)
	for _, histogram := range histograms {
		for key, count := range histogram {
			totals[key] += count
		}
	}

	removed := 0
	for key, total := range totals {
		if total != 1 {
			continue
		}
		for _, histogram := range histograms {
			delete(histogram, key)
		}
		removed++
	}
	return removed
}
