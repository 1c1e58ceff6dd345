// Package sampling draws the authors and messages of one experimental run.
package sampling

import (
	"authorship-lab/domain"
	"authorship-lab/infrastructure/storage"
	"fmt"
	"log/slog"
	"math/rand"
)

type Sampler struct {
	store storage.IFeatureReader
	log   *slog.Logger
}

func NewSampler(store storage.IFeatureReader, log *slog.Logger) Sampler {
	return Sampler{store: store, log: log}
}

// SampleTweets loads every requested kind of every author and merges the histograms
// of the same message into one feature map. The maps keep their on-disk order and are
// truncated to the first sampleSize ones. The returned index tells which kind produced
// each gram met while merging.
func (s Sampler) SampleTweets(authors []string, sampleSize int, kinds []domain.FeatureKind) ([]domain.AuthorBundle, domain.KindIndex, error) {
	bundles := make([]domain.AuthorBundle, 0, len(authors))
	kindIndex := make(domain.KindIndex)

	for _, author := range authors {
		var merged []domain.Histogram
		for i, kind := range kinds {
			histograms, err := s.store.Read(author, kind)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load %s of author %s: %w", kind, author, err)
			}
			for _, histogram := range histograms {
				kindIndex.Record(kind, histogram)
			}

			if i == 0 {
				merged = make([]domain.Histogram, len(histograms))
				for j, histogram := range histograms {
					merged[j] = histogram.Clone()
				}
				continue
			}
			if len(histograms) < len(merged) {
				s.log.Debug("Feature list shorter than the first kind", "author", author, "kind", kind,
					"histograms", len(histograms), "expected", len(merged))
			}
			for j := range merged {
				if j < len(histograms) {
					merged[j].Update(histograms[j])
				}
			}
		}

		if len(merged) < sampleSize {
			s.log.Warn("Author has fewer messages than the sample size", "author", author,
				"messages", len(merged), "sample_size", sampleSize)
		}
		bundles = append(bundles, domain.AuthorBundle{
			Author:   author,
			Features: merged[:min(sampleSize, len(merged))],
		})
	}
	return bundles, kindIndex, nil
}

// SampleAuthors draws n authors. The draw only depends on the order of authors and on
// the state of rng, so a seeded rng reproduces it. The input slice is not modified.
func SampleAuthors(authors []string, n int, rng *rand.Rand) []string {
	sampled := make([]string, len(authors))
	copy(sampled, authors)
	rng.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})
	return sampled[:min(n, len(sampled))]
}
