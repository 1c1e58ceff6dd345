package storage

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"bufio"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

const (
	FilteredAuthorsFile     = "filtered_authors.txt"
	FilteredTestAuthorsFile = "filtered_authors_test.txt"
	SampledAuthorsFile      = "sampled_authors.txt"
	SampledTestAuthorsFile  = "sampled_authors_test.txt"
	VocabularyFile          = "vectorizer_vocabulary.bin"
	ImportancesFile         = "rf_model_feature_importances.bin"
	LedgerDir               = "ledger"
)

// CreateDestination creates dir and its parents. An already existing dir is refused
// so that a previous output is never partially overwritten.
func CreateDestination(dir string) error {
	_, err := os.Stat(dir)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", errors.ErrDestinationExists, dir)
	case !stderrors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// RunDir names the directory of one repetition, run_NNN.
func RunDir(outputDir string, run int) string {
	return filepath.Join(outputDir, fmt.Sprintf("run_%03d", run))
}

// WriteManifest stores the lines as newline delimited plain text.
func WriteManifest(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

// ReadManifest loads a file written by WriteManifest.
func ReadManifest(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// WriteVocabulary stores the vocabulary as its column ordered keys.
func WriteVocabulary(path string, columns []domain.FeatureKey) error {
	raw, err := marshalVocabulary(columns)
	if err != nil {
		return err
	}
	return os.WriteFile(path, snappy.Encode(nil, raw), 0o644)
}

func ReadVocabulary(path string) ([]domain.FeatureKey, error) {
	raw, err := readSnappy(path)
	if err != nil {
		return nil, err
	}
	return unmarshalVocabulary(raw)
}

// WriteImportances stores the per column importance scores of a fitted forest.
func WriteImportances(path string, scores []float64) error {
	raw, err := marshalImportances(scores)
	if err != nil {
		return err
	}
	return os.WriteFile(path, snappy.Encode(nil, raw), 0o644)
}

func ReadImportances(path string) ([]float64, error) {
	raw, err := readSnappy(path)
	if err != nil {
		return nil, err
	}
	return unmarshalImportances(raw)
}

func readSnappy(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrCorruptedFile, path, err)
	}
	return raw, nil
}
