//go:generate go run go.uber.org/mock/mockgen -source=feature_store.go -destination=../../mocks/mock_feature_store.go -package=mocks
package storage

import (
	"authorship-lab/domain"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
)

// FeatureFileExtension is appended to the feature kind label to name a histogram file.
const FeatureFileExtension = ".hist"

type IFeatureReader interface {
	Read(authorDir string, kind domain.FeatureKind) ([]domain.Histogram, error)
}

type IFeatureStore interface {
	IFeatureReader
	Write(authorDir string, kind domain.FeatureKind, histograms []domain.Histogram) error
}

// FeatureStore keeps one histogram list file per (author directory, feature kind).
type FeatureStore struct {
	log *slog.Logger
}

func NewFeatureStore(log *slog.Logger) *FeatureStore {
	return &FeatureStore{log: log}
}

// FeaturePath returns the file holding the histograms of one kind for an author.
func FeaturePath(authorDir string, kind domain.FeatureKind) string {
	return filepath.Join(authorDir, string(kind)+FeatureFileExtension)
}

// Write persists the histogram list, one histogram per message in corpus order.
// Deterministic marshalling makes the same list always produce the same bytes.
func (f FeatureStore) Write(authorDir string, kind domain.FeatureKind, histograms []domain.Histogram) error {
	if err := os.MkdirAll(authorDir, 0o755); err != nil {
		return err
	}
	path := FeaturePath(authorDir, kind)
	raw, err := marshalHistograms(histograms)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	data := snappy.Encode(nil, raw)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	f.log.Debug("Feature file written", "path", path, "histograms", len(histograms), "bytes", len(data))
	return nil
}

// Read loads the histogram list written by Write, in the same order.
func (f FeatureStore) Read(authorDir string, kind domain.FeatureKind) ([]domain.Histogram, error) {
	path := FeaturePath(authorDir, kind)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	histograms, err := unmarshalHistograms(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return histograms, nil
}
