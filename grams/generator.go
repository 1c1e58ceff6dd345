package grams

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
)

// KindHistograms is the pruned histogram list of one feature kind for one author,
// one histogram per message in corpus order.
type KindHistograms struct {
	Kind       domain.FeatureKind
	Histograms []domain.Histogram
}

type Generator struct {
	kinds []domain.FeatureKind
	log   *slog.Logger
}

func NewGenerator(kinds []domain.FeatureKind, log *slog.Logger) Generator {
	return Generator{kinds: kinds, log: log}
}

// Generate builds the histogram lists of every requested kind for one author's messages.
// Messages without POS tags are left out of the POS lists only. Char and word lists hold
// one histogram per message, so when one of them is requested a POS list of another
// size means the author's data is inconsistent and ErrPosCountMismatch is returned,
// whatever the order of the kinds.
func (g Generator) Generate(author string, messages []domain.Message) ([]KindHistograms, error) {
	withCharWord := lo.ContainsBy(g.kinds, func(kind domain.FeatureKind) bool {
		return kind.Source() != domain.SourcePos
	})

	generated := make([]KindHistograms, 0, len(g.kinds))
	for _, kind := range g.kinds {
		histograms := make([]domain.Histogram, 0, len(messages))
		for i, message := range messages {
			if kind.Source() == domain.SourcePos && !message.HasPosTags() {
				g.log.Debug("Skipping message POS grams", "author", author, "kind", kind, "message", i)
				continue
			}
			windows, err := Grams(kind, message)
			if err != nil {
				return nil, fmt.Errorf("%s grams for author %s: %w", kind, author, err)
			}
			histograms = append(histograms, Histogram(kind.Source(), windows))
		}

		if kind.Source() == domain.SourcePos && withCharWord && len(histograms) != len(messages) {
			return nil, fmt.Errorf("%w for author %s: %d and %d respectively",
				errors.ErrPosCountMismatch, author, len(messages), len(histograms))
		}

		removed := RemoveHapaxLegomena(histograms)
		g.log.Debug("Removed hapax legomena", "author", author, "kind", kind, "removed", removed)
		generated = append(generated, KindHistograms{Kind: kind, Histograms: histograms})
	}
	return generated, nil
}
