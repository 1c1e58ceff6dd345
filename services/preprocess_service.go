package services

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"authorship-lab/infrastructure/storage"
	"authorship-lab/internal"
	"authorship-lab/preprocess"
	"authorship-lab/repositories"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/samber/lo"
)

// stageStep rewrites the messages of one author and names the output file.
type stageStep func(path string, messages []domain.Message) (string, []domain.Message)

// PreprocessService applies one cleaning stage to every author file of a directory and
// writes the results into a new directory.
type PreprocessService struct {
	config internal.PreprocessConfig
	log    *slog.Logger
}

func NewPreprocessService(config internal.PreprocessConfig, log *slog.Logger) *PreprocessService {
	return &PreprocessService{config: config, log: log}
}

// Run returns the number of author files written.
func (s PreprocessService) Run(ctx context.Context) (int, error) {
	step, err := s.step()
	if err != nil {
		return 0, err
	}
	paths, err := repositories.ListMessageFiles(s.config.SourceDir)
	if err != nil {
		return 0, err
	}
	if err := storage.CreateDestination(s.config.DestDir); err != nil {
		return 0, err
	}
	s.log.Info("Preprocessing authors", "stage", s.config.Stage, "source", s.config.SourceDir,
		"destination", s.config.DestDir, "authors", len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		messages, err := repositories.ReadMessages(path)
		if err != nil {
			return i, err
		}
		name, kept := step(path, messages)
		if err := repositories.WriteMessages(filepath.Join(s.config.DestDir, name), kept); err != nil {
			return i, err
		}
		s.log.Debug("Author preprocessed", "author", repositories.AuthorID(path),
			"messages", len(messages), "kept", len(kept))
	}
	return len(paths), nil
}

func (s PreprocessService) step() (stageStep, error) {
	switch s.config.Stage {
	case internal.StageTag:
		tagger := preprocess.NewTagger(preprocess.TagOptions{
			URL:     s.config.TagURL,
			UserRef: s.config.TagUserRef,
			Hashtag: s.config.TagHashtag,
			Date:    s.config.TagDate,
			Time:    s.config.TagTime,
			Number:  s.config.TagNumber,
		})
		return func(path string, messages []domain.Message) (string, []domain.Message) {
			return filepath.Base(path), lo.Map(messages, func(message domain.Message, _ int) domain.Message {
				message.Text = tagger.Tag(message.Text)
				return message
			})
		}, nil

	case internal.StageFilter:
		blocklist, err := preprocess.NewBlocklist(s.config.Terms())
		if err != nil {
			return nil, fmt.Errorf("failed to build the blocked terms automaton: %w", err)
		}
		filter := preprocess.NewMessageFilter(s.config.FilterRetweets, s.config.MinWords, blocklist)
		return func(path string, messages []domain.Message) (string, []domain.Message) {
			return filepath.Base(path), lo.Filter(messages, func(message domain.Message, _ int) bool {
				return filter.Keep(message)
			})
		}, nil

	case internal.StageLanguage:
		filter := preprocess.NewLanguageFilter(s.config.Language)
		return func(path string, messages []domain.Message) (string, []domain.Message) {
			kept := lo.Filter(messages, func(message domain.Message, _ int) bool {
				return filter.Keep(message)
			})
			// The kept count prefixes the name so that authors can later be filtered on it.
			return fmt.Sprintf("%05d_%s", len(kept), filepath.Base(path)), kept
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownStage, s.config.Stage)
}
