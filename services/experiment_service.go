package services

import (
	"authorship-lab/classifier"
	"authorship-lab/domain"
	"authorship-lab/errors"
	"authorship-lab/grams"
	"authorship-lab/importance"
	"authorship-lab/infrastructure/storage"
	"authorship-lab/internal"
	"authorship-lab/repositories"
	"authorship-lab/sampling"
	"authorship-lab/vectorize"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Selection is the outcome of the author filtering done once per experiment.
type Selection struct {
	TrainAuthors []string
	// TestAuthors maps an author name to its test feature directory.
	TestAuthors map[string]string
}

// ExperimentService runs the repeated sampling, training and ranking of an attribution
// experiment.
type ExperimentService struct {
	config  internal.ExperimentConfig
	kinds   []domain.FeatureKind
	sampler sampling.Sampler
	log     *slog.Logger
}

func NewExperimentService(config internal.ExperimentConfig, kinds []domain.FeatureKind, store storage.IFeatureReader, log *slog.Logger) *ExperimentService {
	return &ExperimentService{
		config:  config,
		kinds:   kinds,
		sampler: sampling.NewSampler(store, log),
		log:     log,
	}
}

// Prepare filters the training and test authors, then creates the output directory and
// writes both author lists into it. Nothing is written when it fails.
func (s ExperimentService) Prepare() (Selection, error) {
	train, err := repositories.FilterAuthors(s.config.SourceDir, s.config.MinTweets)
	if err != nil {
		return Selection{}, err
	}
	if len(train) < s.config.NumAuthors {
		return Selection{}, fmt.Errorf("%w: %d selected with at least %d tweets, %d requested",
			errors.ErrTooFewAuthors, len(train), s.config.MinTweets, s.config.NumAuthors)
	}
	test, err := repositories.FilterAuthors(s.config.TestDir, s.config.MinTweets)
	if err != nil {
		return Selection{}, err
	}

	if err := storage.CreateDestination(s.config.OutputDir); err != nil {
		return Selection{}, err
	}
	if err := storage.WriteManifest(filepath.Join(s.config.OutputDir, storage.FilteredAuthorsFile), train); err != nil {
		return Selection{}, err
	}
	if err := storage.WriteManifest(filepath.Join(s.config.OutputDir, storage.FilteredTestAuthorsFile), test); err != nil {
		return Selection{}, err
	}
	s.log.Info("Authors selected for the experiment", "train", len(train), "test", len(test))

	return Selection{
		TrainAuthors: train,
		TestAuthors: lo.SliceToMap(test, func(dir string) (string, string) {
			return authorName(dir), dir
		}),
	}, nil
}

// Run executes every repetition, stores each outcome in the ledger and returns the
// experiment report with normalized feature kind scores.
func (s ExperimentService) Run(ctx context.Context, selection Selection, ledger repositories.IRunRepository) (Report, error) {
	report := Report{ExperimentID: uuid.New(), Kinds: s.kinds}
	accumulator := importance.NewAccumulator(s.config.NumMostImportantFeatures)

	for run := 1; run <= s.config.Repetitions; run++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		record, ranks, err := s.runOnce(ctx, run, selection)
		if err != nil {
			return report, fmt.Errorf("run %d: %w", run, err)
		}
		if err := accumulator.Merge(ranks); err != nil {
			return report, err
		}
		record.ExperimentID = report.ExperimentID
		if err := ledger.StoreRun(record); err != nil {
			return report, fmt.Errorf("failed to store run %d: %w", run, err)
		}
		report.Runs = append(report.Runs, record)
		s.log.Info("Run finished", "run", run, "columns", record.Columns,
			"forest_accuracy", record.ForestAccuracy, "margin_accuracy", record.MarginAccuracy)
	}

	if err := accumulator.Normalize(); err != nil {
		return report, err
	}
	report.Scores = lo.SliceToMap(s.kinds, func(kind domain.FeatureKind) (domain.FeatureKind, float64) {
		return kind, accumulator.Score(kind)
	})
	report.Ranking = accumulator.Ranking(s.kinds)
	s.log.Info("Feature kinds ranked", "runs", accumulator.Runs(), "best", report.Ranking[0])
	return report, nil
}

// runOnce returns the outcome of one repetition and the ranks its forest hands out.
func (s ExperimentService) runOnce(ctx context.Context, run int, selection Selection) (repositories.RunRecord, *importance.Accumulator, error) {
	runDir := storage.RunDir(s.config.OutputDir, run)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return repositories.RunRecord{}, nil, err
	}

	// 1. Draw the authors of this run
	rng := rand.New(rand.NewSource(int64(s.config.Seed + run)))
	sampled := sampling.SampleAuthors(selection.TrainAuthors, s.config.NumAuthors, rng)
	if err := storage.WriteManifest(filepath.Join(runDir, storage.SampledAuthorsFile), sampled); err != nil {
		return repositories.RunRecord{}, nil, err
	}
	sampledTest := lo.FilterMap(sampled, func(dir string, _ int) (string, bool) {
		testDir, ok := selection.TestAuthors[authorName(dir)]
		return testDir, ok
	})
	if err := storage.WriteManifest(filepath.Join(runDir, storage.SampledTestAuthorsFile), sampledTest); err != nil {
		return repositories.RunRecord{}, nil, err
	}

	// 2. Sample the messages and prune the grams seen once in the whole training set
	trainBundles, kindIndex, err := s.sampler.SampleTweets(sampled, s.config.NumTweets, s.kinds)
	if err != nil {
		return repositories.RunRecord{}, nil, err
	}
	trainMaps, yTrain := flatten(trainBundles)
	removed := grams.RemoveHapaxLegomena(trainMaps)
	s.log.Debug("Removed hapax legomena from the training set", "run", run, "removed", removed)

	testBundles, _, err := s.sampler.SampleTweets(sampledTest, s.config.NumTweets, s.kinds)
	if err != nil {
		return repositories.RunRecord{}, nil, err
	}
	testMaps, yTest := flatten(testBundles)

	// 3. Vectorize, train and predict
	xTrain, vocabulary, err := vectorize.FitTransform(trainMaps)
	if err != nil {
		return repositories.RunRecord{}, nil, err
	}
	xTest := vectorize.Transform(vocabulary, testMaps)
	result, err := classifier.FitClassify(ctx, s.config.NumTrees, int64(s.config.Seed+run), xTrain, yTrain, xTest, yTest)
	if err != nil {
		return repositories.RunRecord{}, nil, err
	}

	// 4. Rank the feature kinds and keep the artifacts of the last run
	importances := result.Forest.FeatureImportances()
	ranks := importance.NewAccumulator(s.config.NumMostImportantFeatures)
	if err := ranks.Add(importances, vocabulary, kindIndex); err != nil {
		return repositories.RunRecord{}, nil, err
	}
	if err := storage.WriteVocabulary(filepath.Join(s.config.OutputDir, storage.VocabularyFile), vocabulary.Columns()); err != nil {
		return repositories.RunRecord{}, nil, err
	}
	if err := storage.WriteImportances(filepath.Join(s.config.OutputDir, storage.ImportancesFile), importances); err != nil {
		return repositories.RunRecord{}, nil, err
	}

	return repositories.RunRecord{
		Run:               run,
		TrainAuthors:      lo.Map(sampled, func(dir string, _ int) string { return authorName(dir) }),
		TestAuthors:       yTest,
		ForestPredictions: result.ForestPredictions,
		MarginPredictions: result.MarginPredictions,
		ForestAccuracy:    classifier.Accuracy(result.ForestPredictions, yTest),
		MarginAccuracy:    classifier.Accuracy(result.MarginPredictions, yTest),
		Columns:           vocabulary.Len(),
		At:                time.Now().UTC(),
	}, ranks, nil
}

// flatten lists the feature maps of every bundle with the author name as label.
func flatten(bundles []domain.AuthorBundle) ([]domain.Histogram, []string) {
	var maps []domain.Histogram
	var labels []string
	for _, bundle := range bundles {
		name := authorName(bundle.Author)
		for _, histogram := range bundle.Features {
			maps = append(maps, histogram)
			labels = append(labels, name)
		}
	}
	return maps, labels
}

func authorName(dir string) string {
	return repositories.AuthorName(filepath.Base(dir))
}
