package internal

import (
	"authorship-lab/domain"
	"fmt"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NgramConfig drives the offline generation of feature files.
type NgramConfig struct {
	SourceDir string `env:"SOURCE_DIR,required=true" validate:"required"`
	DestDir   string `env:"DEST_DIR,required=true" validate:"required,nefield=SourceDir"`
	Features  string `env:"FEATURES,default=all" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL,required=true"`
}

// ExperimentConfig drives the repeated sampling, training and ranking runs.
type ExperimentConfig struct {
	SourceDir                string `env:"SOURCE_DIR,required=true" validate:"required"`
	OutputDir                string `env:"OUTPUT_DIR,required=true" validate:"required"`
	TestDir                  string `env:"TEST_DIR,required=true" validate:"required"`
	MinTweets                int    `env:"MIN_TWEETS,default=0" validate:"gte=0"`
	Repetitions              int    `env:"REPETITIONS,default=1" validate:"gte=1"`
	NumAuthors               int    `env:"NUM_AUTHORS,required=true" validate:"gte=2"`
	NumTweets                int    `env:"NUM_TWEETS,required=true" validate:"gte=1"`
	Features                 string `env:"FEATURES,default=all" validate:"required"`
	NumTrees                 int    `env:"NUM_TREES,default=100" validate:"gte=1"`
	NumMostImportantFeatures int    `env:"NUM_MOST_IMPORTANT_FEATURES,default=100" validate:"gte=1"`
	Seed                     int    `env:"SEED,default=1"`
	// InspectorPort serves the run ledger over HTTP while the experiment runs, when not zero
	// and the log level is DEBUG.
	InspectorPort int    `env:"INSPECTOR_PORT,default=0" validate:"gte=0,lte=65535"`
	LogLevel      string `env:"LOG_LEVEL,required=true"`
}

type Stage string

const (
	StageTag      Stage = "tag"
	StageFilter   Stage = "filter"
	StageLanguage Stage = "language"
)

// PreprocessConfig drives one cleaning stage over a directory of author files.
type PreprocessConfig struct {
	SourceDir      string `env:"SOURCE_DIR,required=true" validate:"required"`
	DestDir        string `env:"DEST_DIR,required=true" validate:"required,nefield=SourceDir"`
	Stage          Stage  `env:"STAGE,required=true" validate:"oneof=tag filter language"`
	Language       string `env:"LANGUAGE,default=en" validate:"len=2"`
	FilterRetweets bool   `env:"FILTER_RETWEETS,default=true"`
	MinWords       int    `env:"MIN_WORDS,default=0" validate:"gte=0"`
	BlockedTerms   string `env:"BLOCKED_TERMS"`
	TagURL         bool   `env:"TAG_URL,default=true"`
	TagUserRef     bool   `env:"TAG_USER_REF,default=true"`
	TagHashtag     bool   `env:"TAG_HASHTAG,default=true"`
	TagDate        bool   `env:"TAG_DATE,default=true"`
	TagTime        bool   `env:"TAG_TIME,default=true"`
	TagNumber      bool   `env:"TAG_NUMBER,default=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`
}

func LoadNgramConfig() (NgramConfig, error) {
	var config NgramConfig
	if err := load(&config); err != nil {
		return NgramConfig{}, err
	}
	return config, nil
}

func LoadExperimentConfig() (ExperimentConfig, error) {
	var config ExperimentConfig
	if err := load(&config); err != nil {
		return ExperimentConfig{}, err
	}
	return config, nil
}

func LoadPreprocessConfig() (PreprocessConfig, error) {
	var config PreprocessConfig
	if err := load(&config); err != nil {
		return PreprocessConfig{}, err
	}
	return config, nil
}

func load(config any) error {
	if _, err := env.UnmarshalFromEnviron(config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c NgramConfig) FeatureKinds() ([]domain.FeatureKind, error) {
	return domain.ParseFeatureKinds(c.Features)
}

func (c ExperimentConfig) FeatureKinds() ([]domain.FeatureKind, error) {
	return domain.ParseFeatureKinds(c.Features)
}

// Terms splits the comma separated blocked terms, ignoring blank entries.
func (c PreprocessConfig) Terms() []string {
	var terms []string
	for _, term := range strings.Split(c.BlockedTerms, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
