package services

import (
	"authorship-lab/grams"
	"authorship-lab/infrastructure/storage"
	"authorship-lab/repositories"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

type INgramService interface {
	Run(ctx context.Context, sourceDir, destDir string) (int, error)
}

// NgramService turns every author message file into one feature directory holding a
// histogram list per requested kind.
type NgramService struct {
	store     storage.IFeatureStore
	generator grams.Generator
	log       *slog.Logger
}

func NewNgramService(store storage.IFeatureStore, generator grams.Generator, log *slog.Logger) *NgramService {
	return &NgramService{store: store, generator: generator, log: log}
}

// Run processes the author files of sourceDir in name order and returns the number of
// authors written. destDir must not exist yet.
func (s NgramService) Run(ctx context.Context, sourceDir, destDir string) (int, error) {
	// 1. List the inputs before creating anything
	paths, err := repositories.ListMessageFiles(sourceDir)
	if err != nil {
		return 0, err
	}
	if err := storage.CreateDestination(destDir); err != nil {
		return 0, err
	}
	s.log.Info("Generating n-grams", "source", sourceDir, "destination", destDir, "authors", len(paths))

	// 2. One feature directory per author
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		author := repositories.AuthorID(path)
		messages, err := repositories.ReadMessages(path)
		if err != nil {
			return i, fmt.Errorf("failed to read author %s: %w", author, err)
		}

		generated, err := s.generator.Generate(author, messages)
		if err != nil {
			return i, err
		}

		authorDir := filepath.Join(destDir, author)
		for _, kh := range generated {
			if err := s.store.Write(authorDir, kh.Kind, kh.Histograms); err != nil {
				return i, err
			}
		}
		s.log.Info("Author processed", "author", author, "messages", len(messages),
			"progress", fmt.Sprintf("%d/%d", i+1, len(paths)))
	}
	return len(paths), nil
}
