package errors

import "fmt"

var (
	ErrDestinationExists = fmt.Errorf("destination directory already exists")
	ErrTooFewAuthors     = fmt.Errorf("too few author's filenames to sample")
	ErrPosCountMismatch  = fmt.Errorf("tweet messages and POS tags with different sizes")
	ErrEmptyPosTags      = fmt.Errorf("message has no POS tags")
	ErrNotEnoughUnits    = fmt.Errorf("not enough units for n-grams")
	ErrUnknownFeature    = fmt.Errorf("unknown feature kind")
	ErrNoFeatures        = fmt.Errorf("no feature kind requested")
	ErrTooFewSamples     = fmt.Errorf("training samples need at least two distinct labels")
	ErrShapeMismatch     = fmt.Errorf("matrix and labels have different sizes")
	ErrEmptyVocabulary   = fmt.Errorf("vocabulary is empty")
	ErrNotTextFile       = fmt.Errorf("file content is not text")
	ErrAlreadyNormalized = fmt.Errorf("importance accumulator already normalized")
	ErrCorruptedFile     = fmt.Errorf("corrupted feature file")
	ErrUnknownStage      = fmt.Errorf("unknown preprocessing stage")
)
