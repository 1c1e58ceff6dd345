package services

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"authorship-lab/grams"
	"authorship-lab/infrastructure/storage"
	"authorship-lab/internal"
	"authorship-lab/mocks"
	"authorship-lab/repositories"
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var corpus = map[string][]domain.Message{
	"00006_alice": {
		{Text: "i really love my cat", PosTags: "PRP RB VBP PRP$ NN"},
		{Text: "my cat really loves me", PosTags: "PRP$ NN RB VBZ PRP"},
		{Text: "i love the sun", PosTags: "PRP VBP DT NN"},
		{Text: "the cat and the sun", PosTags: "DT NN CC DT NN"},
		{Text: "i really do", PosTags: "PRP RB VBP"},
		{Text: "love love love", PosTags: "NN NN NN"},
	},
	"00006_bob": {
		{Text: "stocks went down today", PosTags: "NNS VBD RB NN"},
		{Text: "today stocks went up", PosTags: "NN NNS VBD RB"},
		{Text: "buy the dip today", PosTags: "VB DT NN NN"},
		{Text: "the market went down", PosTags: "DT NN VBD RB"},
		{Text: "market up market down", PosTags: "NN RB NN RB"},
		{Text: "buy buy buy", PosTags: "VB VB VB"},
	},
	"00002_carol": {
		{Text: "hello there", PosTags: "UH RB"},
		{Text: "hello again", PosTags: "UH RB"},
	},
}

func writeCorpus(t *testing.T, dir string, authors map[string][]domain.Message) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, messages := range authors {
		require.NoError(t, repositories.WriteMessages(filepath.Join(dir, name+repositories.MessageFileExtension), messages))
	}
}

func generate(t *testing.T, sourceDir, destDir string, kinds []domain.FeatureKind) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	service := NewNgramService(storage.NewFeatureStore(log), grams.NewGenerator(kinds, log), log)
	processed, err := service.Run(context.Background(), sourceDir, destDir)
	require.NoError(t, err)
	require.Equal(t, len(corpus), processed)
}

func setupLedger(t *testing.T) repositories.IRunRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repositories.NewRunRepository(db, slog.Default())
}

func TestNgramService_Run(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	source, dest := filepath.Join(root, "corpus"), filepath.Join(root, "features")
	writeCorpus(t, source, corpus)

	kinds := []domain.FeatureKind{domain.Word1Gram, domain.Pos2Gram}
	generate(t, source, dest, kinds)

	store := storage.NewFeatureStore(slog.Default())
	histograms, err := store.Read(filepath.Join(dest, "00006_alice"), domain.Word1Gram)
	req.NoError(err)
	req.Len(histograms, 6)
	// "do" is said once by alice, so it is pruned.
	req.NotContains(histograms[4], domain.NewFeatureKey(domain.SourceWord, []string{"do"}))
	req.Equal(3, histograms[5][domain.NewFeatureKey(domain.SourceWord, []string{"love"})])

	posHistograms, err := store.Read(filepath.Join(dest, "00002_carol"), domain.Pos2Gram)
	req.NoError(err)
	req.Len(posHistograms, 2)
}

func TestNgramService_DestinationExists(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	source, dest := filepath.Join(root, "corpus"), filepath.Join(root, "features")
	writeCorpus(t, source, corpus)
	req.NoError(os.MkdirAll(dest, 0o755))
	marker := filepath.Join(dest, "keep.txt")
	req.NoError(os.WriteFile(marker, []byte("untouched"), 0o644))

	ctrl := gomock.NewController(t)
	store := mocks.NewMockIFeatureStore(ctrl)
	store.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	log := slog.Default()
	service := NewNgramService(store, grams.NewGenerator([]domain.FeatureKind{domain.Word1Gram}, log), log)
	_, err := service.Run(context.Background(), source, dest)
	req.ErrorIs(err, errors.ErrDestinationExists)

	entries, err := os.ReadDir(dest)
	req.NoError(err)
	req.Len(entries, 1)
	content, err := os.ReadFile(marker)
	req.NoError(err)
	req.Equal("untouched", string(content))
}

func TestNgramService_Cancelled(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	source := filepath.Join(root, "corpus")
	writeCorpus(t, source, corpus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	log := slog.Default()
	service := NewNgramService(storage.NewFeatureStore(log), grams.NewGenerator([]domain.FeatureKind{domain.Word1Gram}, log), log)
	processed, err := service.Run(ctx, source, filepath.Join(root, "features"))
	req.ErrorIs(err, context.Canceled)
	req.Equal(0, processed)
}

func experimentConfig(root string) internal.ExperimentConfig {
	return internal.ExperimentConfig{
		SourceDir:                filepath.Join(root, "train"),
		OutputDir:                filepath.Join(root, "out"),
		TestDir:                  filepath.Join(root, "test"),
		MinTweets:                5,
		Repetitions:              2,
		NumAuthors:               2,
		NumTweets:                4,
		NumTrees:                 5,
		NumMostImportantFeatures: 3,
		Seed:                     3,
	}
}

func TestExperimentService_EndToEnd(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	kinds := []domain.FeatureKind{domain.Word1Gram, domain.Pos1Gram}

	writeCorpus(t, filepath.Join(root, "corpus"), corpus)
	generate(t, filepath.Join(root, "corpus"), filepath.Join(root, "train"), kinds)
	writeCorpus(t, filepath.Join(root, "corpus_test"), corpus)
	generate(t, filepath.Join(root, "corpus_test"), filepath.Join(root, "test"), kinds)

	config := experimentConfig(root)
	log := slog.Default()
	service := NewExperimentService(config, kinds, storage.NewFeatureStore(log), log)

	selection, err := service.Prepare()
	req.NoError(err)
	req.Len(selection.TrainAuthors, 2)
	req.Contains(selection.TestAuthors, "alice")
	req.Contains(selection.TestAuthors, "bob")
	req.NotContains(selection.TestAuthors, "carol")

	ledger := setupLedger(t)
	report, err := service.Run(context.Background(), selection, ledger)
	req.NoError(err)
	req.Len(report.Runs, 2)

	total := 0.0
	for _, kind := range kinds {
		req.GreaterOrEqual(report.Scores[kind], 0.0)
		req.LessOrEqual(report.Scores[kind], 1.0)
		total += report.Scores[kind]
	}
	req.InDelta(1.0, total, 1e-9)
	req.ElementsMatch(kinds, report.Ranking)
	req.GreaterOrEqual(report.Scores[report.Ranking[0]], report.Scores[report.Ranking[1]])

	for _, record := range report.Runs {
		req.ElementsMatch([]string{"alice", "bob"}, record.TrainAuthors)
		req.Len(record.TestAuthors, 8)
		req.Len(record.ForestPredictions, 8)
		req.Len(record.MarginPredictions, 8)
	}

	for _, name := range []string{storage.FilteredAuthorsFile, storage.FilteredTestAuthorsFile, storage.VocabularyFile, storage.ImportancesFile} {
		req.FileExists(filepath.Join(config.OutputDir, name))
	}
	sampled, err := storage.ReadManifest(filepath.Join(storage.RunDir(config.OutputDir, 1), storage.SampledAuthorsFile))
	req.NoError(err)
	req.Len(sampled, 2)

	columns, err := storage.ReadVocabulary(filepath.Join(config.OutputDir, storage.VocabularyFile))
	req.NoError(err)
	importances, err := storage.ReadImportances(filepath.Join(config.OutputDir, storage.ImportancesFile))
	req.NoError(err)
	req.Len(importances, len(columns))
	req.Equal(report.Runs[1].Columns, len(columns))

	stored, err := ledger.GetRuns(&report.ExperimentID)
	req.NoError(err)
	req.Len(stored, 2)
	req.Equal(1, stored[0].Run)

	var out bytes.Buffer
	report.Print(&out, false)
	req.Contains(out.String(), string(domain.Word1Gram))
	req.Contains(out.String(), "Random forest accuracy")
}

func TestExperimentService_Reproducible(t *testing.T) {
	req := require.New(t)
	kinds := []domain.FeatureKind{domain.Word1Gram}
	var reports []Report

	for range 2 {
		root := t.TempDir()
		writeCorpus(t, filepath.Join(root, "corpus"), corpus)
		generate(t, filepath.Join(root, "corpus"), filepath.Join(root, "train"), kinds)
		writeCorpus(t, filepath.Join(root, "corpus_test"), corpus)
		generate(t, filepath.Join(root, "corpus_test"), filepath.Join(root, "test"), kinds)

		service := NewExperimentService(experimentConfig(root), kinds, storage.NewFeatureStore(slog.Default()), slog.Default())
		selection, err := service.Prepare()
		req.NoError(err)
		report, err := service.Run(context.Background(), selection, setupLedger(t))
		req.NoError(err)
		reports = append(reports, report)
	}

	req.Equal(reports[0].Scores, reports[1].Scores)
	for i := range reports[0].Runs {
		req.Equal(reports[0].Runs[i].ForestPredictions, reports[1].Runs[i].ForestPredictions)
		req.Equal(reports[0].Runs[i].MarginPredictions, reports[1].Runs[i].MarginPredictions)
	}
}

func TestExperimentService_Prepare_Conflicts(t *testing.T) {
	kinds := []domain.FeatureKind{domain.Word1Gram}

	t.Run("too few authors leaves no output", func(t *testing.T) {
		req := require.New(t)
		root := t.TempDir()
		writeCorpus(t, filepath.Join(root, "corpus"), corpus)
		generate(t, filepath.Join(root, "corpus"), filepath.Join(root, "train"), kinds)
		req.NoError(os.MkdirAll(filepath.Join(root, "test"), 0o755))

		config := experimentConfig(root)
		config.NumAuthors = 3
		_, err := NewExperimentService(config, kinds, storage.NewFeatureStore(slog.Default()), slog.Default()).Prepare()
		req.ErrorIs(err, errors.ErrTooFewAuthors)
		req.NoDirExists(config.OutputDir)
	})

	t.Run("existing output is left untouched", func(t *testing.T) {
		req := require.New(t)
		root := t.TempDir()
		writeCorpus(t, filepath.Join(root, "corpus"), corpus)
		generate(t, filepath.Join(root, "corpus"), filepath.Join(root, "train"), kinds)
		req.NoError(os.MkdirAll(filepath.Join(root, "test"), 0o755))

		config := experimentConfig(root)
		req.NoError(os.MkdirAll(config.OutputDir, 0o755))
		_, err := NewExperimentService(config, kinds, storage.NewFeatureStore(slog.Default()), slog.Default()).Prepare()
		req.ErrorIs(err, errors.ErrDestinationExists)
		req.NoFileExists(filepath.Join(config.OutputDir, storage.FilteredAuthorsFile))
	})
}

func TestPreprocessService_Stages(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	raw := filepath.Join(root, "raw")
	writeCorpus(t, raw, map[string][]domain.Message{
		"alice": {
			{Text: "RT @bob: the quick brown fox jumps over the lazy dog near the river bank today", PosTags: "NNP"},
			{Text: "vejo você às 10:45 no dia 23/12/1977 com @bob #festa http://example.com/x", PosTags: "VB PRP IN"},
			{Text: "the quick brown fox jumps over the lazy dog near the river bank today"},
			{Text: "too short"},
		},
	})

	log := slog.Default()
	tagged := filepath.Join(root, "tagged")
	processed, err := NewPreprocessService(internal.PreprocessConfig{
		SourceDir: raw, DestDir: tagged, Stage: internal.StageTag,
		TagURL: true, TagUserRef: true, TagHashtag: true, TagDate: true, TagTime: true, TagNumber: true,
	}, log).Run(context.Background())
	req.NoError(err)
	req.Equal(1, processed)
	messages, err := repositories.ReadMessages(filepath.Join(tagged, "alice.dat"))
	req.NoError(err)
	req.Equal("vejo você às TIM no dia DAT com REF TAG URL", messages[1].Text)
	req.Equal("VB PRP IN", messages[1].PosTags)

	filtered := filepath.Join(root, "filtered")
	_, err = NewPreprocessService(internal.PreprocessConfig{
		SourceDir: tagged, DestDir: filtered, Stage: internal.StageFilter, FilterRetweets: true, MinWords: 3,
	}, log).Run(context.Background())
	req.NoError(err)
	messages, err = repositories.ReadMessages(filepath.Join(filtered, "alice.dat"))
	req.NoError(err)
	req.Len(messages, 2)

	language := filepath.Join(root, "language")
	_, err = NewPreprocessService(internal.PreprocessConfig{
		SourceDir: filtered, DestDir: language, Stage: internal.StageLanguage, Language: "en",
	}, log).Run(context.Background())
	req.NoError(err)
	messages, err = repositories.ReadMessages(filepath.Join(language, "00001_alice.dat"))
	req.NoError(err)
	req.Len(messages, 1)
	count, ok := repositories.TweetCount("00001_alice.dat")
	req.True(ok)
	req.Equal(1, count)

	_, err = NewPreprocessService(internal.PreprocessConfig{
		SourceDir: raw, DestDir: filepath.Join(root, "other"), Stage: "stem",
	}, log).Run(context.Background())
	req.ErrorIs(err, errors.ErrUnknownStage)
}
