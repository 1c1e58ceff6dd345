// Package classifier trains the two models of an attribution run: a random forest,
// whose feature importances drive the ranking, and a linear margin model.
package classifier

import (
	"authorship-lab/errors"
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Result holds the fitted forest and the test predictions of both models.
type Result struct {
	Forest            Forest
	ForestPredictions []string
	MarginPredictions []string
}

// FitClassify fits both models on the training rows and predicts the test rows.
// xTest may be nil when there is nothing to predict. Cancelling ctx stops the forest fit.
func FitClassify(ctx context.Context, trees int, seed int64, xTrain *mat.Dense, yTrain []string, xTest *mat.Dense, yTest []string) (Result, error) {
	if xTrain == nil {
		return Result{}, fmt.Errorf("no training matrix: %w", errors.ErrShapeMismatch)
	}
	rows, cols := xTrain.Dims()
	if rows != len(yTrain) {
		return Result{}, fmt.Errorf("%d training rows and %d labels: %w", rows, len(yTrain), errors.ErrShapeMismatch)
	}
	if xTest != nil {
		testRows, testCols := xTest.Dims()
		if testRows != len(yTest) || testCols != cols {
			return Result{}, fmt.Errorf("test matrix %dx%d with %d labels against %d columns: %w",
				testRows, testCols, len(yTest), cols, errors.ErrShapeMismatch)
		}
	}

	classes := lo.Uniq(yTrain)
	sort.Strings(classes)
	if len(classes) < 2 {
		return Result{}, fmt.Errorf("%d rows for %d distinct labels: %w", rows, len(classes), errors.ErrTooFewSamples)
	}
	index := make(map[string]int, len(classes))
	for i, class := range classes {
		index[class] = i
	}
	y := lo.Map(yTrain, func(label string, _ int) int {
		return index[label]
	})

	forest, err := FitForest(ctx, xTrain, y, classes, trees, seed)
	if err != nil {
		return Result{}, err
	}
	margin := FitMarginModel(xTrain, y, classes, seed)
	return Result{
		Forest:            forest,
		ForestPredictions: forest.Predict(xTest),
		MarginPredictions: margin.Predict(xTest),
	}, nil
}

// Accuracy is the share of predictions equal to the truth, over the rows whose truth
// is known. It returns 0 when no row has a known truth.
func Accuracy(predictions, truth []string) float64 {
	known, correct := 0, 0
	for i, label := range truth {
		if label == "" || i >= len(predictions) {
			continue
		}
		known++
		if predictions[i] == label {
			correct++
		}
	}
	if known == 0 {
		return 0
	}
	return float64(correct) / float64(known)
}
