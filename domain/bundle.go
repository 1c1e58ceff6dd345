package domain

// AuthorBundle holds the merged feature maps sampled for one author during a run.
// It is rebuilt every run and never persisted.
type AuthorBundle struct {
	Author   string
	Features []Histogram
}

// KindIndex maps every gram met while sampling to the kind that produced it.
type KindIndex map[FeatureKey]FeatureKind

// Record stores the kind of every key of the histogram.
func (k KindIndex) Record(kind FeatureKind, histogram Histogram) {
	for key := range histogram {
		k[key] = kind
	}
}
