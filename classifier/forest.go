package classifier

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Forest is a random forest of classification trees.
type Forest struct {
	Trees []DecisionTree
	// Classes maps a class index of the tree outputs to its label.
	Classes     []string
	importances []float64
}

// FitForest grows trees on bootstrap draws of the rows, each split looking at sqrt(p)
// candidate features. Tree i is seeded with seed+i, so the forest does not depend on
// how the goroutines are scheduled. Trees not started when ctx is done are skipped and
// the context error is returned.
func FitForest(ctx context.Context, x *mat.Dense, y []int, classes []string, trees int, seed int64) (Forest, error) {
	rows, cols := x.Dims()
	maxFeatures := max(1, int(math.Sqrt(float64(cols))))

	forest := Forest{Trees: make([]DecisionTree, trees), Classes: classes}
	perTree := make([][]float64, trees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed + int64(i)))
			samples := make([]int, rows)
			for j := range samples {
				samples[j] = rng.Intn(rows)
			}
			forest.Trees[i], perTree[i] = growTree(x, y, len(classes), maxFeatures, samples, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Forest{}, err
	}

	forest.importances = averageImportances(perTree, cols)
	return forest, nil
}

// averageImportances normalizes the impurity decreases of every tree, averages the trees
// that split at least once, and normalizes the mean so that it sums to 1.
func averageImportances(perTree [][]float64, cols int) []float64 {
	mean := make([]float64, cols)
	splitting := 0
	for _, importances := range perTree {
		total := floats.Sum(importances)
		if total <= 0 {
			continue
		}
		floats.AddScaled(mean, 1/total, importances)
		splitting++
	}
	if splitting == 0 {
		return mean
	}
	if total := floats.Sum(mean); total > 0 {
		floats.Scale(1/total, mean)
	}
	return mean
}

// FeatureImportances returns the mean impurity decrease of every column, summing to 1
// unless no tree could split.
func (f Forest) FeatureImportances() []float64 {
	return f.importances
}

// PredictProba averages the class distributions of the trees for one row.
func (f Forest) PredictProba(x []float64) []float64 {
	proba := make([]float64, len(f.Classes))
	for i := range f.Trees {
		floats.Add(proba, f.Trees[i].Evaluate(x))
	}
	if len(f.Trees) > 0 {
		floats.Scale(1/float64(len(f.Trees)), proba)
	}
	return proba
}

// Predict returns the most probable label of every row. Ties go to the first class.
func (f Forest) Predict(x *mat.Dense) []string {
	if x == nil {
		return nil
	}
	rows, _ := x.Dims()
	predictions := make([]string, rows)
	for i := range rows {
		predictions[i] = f.Classes[argmax(f.PredictProba(x.RawRowView(i)))]
	}
	return predictions
}

func argmax(values []float64) int {
	best := 0
	for i, value := range values {
		if value > values[best] {
			best = i
		}
	}
	return best
}
