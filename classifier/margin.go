package classifier

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	marginCost      = 1.0
	marginBias      = 1.0
	marginTolerance = 0.1
	marginMaxIter   = 1000
)

// MarginModel is a one-vs-rest linear support vector classifier with hinge loss.
// Every class owns a weight vector whose last entry multiplies the constant bias feature.
type MarginModel struct {
	Weights [][]float64
	Classes []string
}

// FitMarginModel solves the dual of every binary problem by coordinate descent.
func FitMarginModel(x *mat.Dense, y []int, classes []string, seed int64) MarginModel {
	rows, cols := x.Dims()
	augmented := make([][]float64, rows)
	norms := make([]float64, rows)
	for i := range rows {
		row := make([]float64, cols+1)
		copy(row, x.RawRowView(i))
		row[cols] = marginBias
		augmented[i] = row
		norms[i] = floats.Dot(row, row)
	}

	model := MarginModel{Weights: make([][]float64, len(classes)), Classes: classes}
	for c := range classes {
		signs := make([]float64, rows)
		for i, label := range y {
			signs[i] = -1
			if label == c {
				signs[i] = 1
			}
		}
		model.Weights[c] = solveDual(augmented, norms, signs, rand.New(rand.NewSource(seed+int64(c))))
	}
	return model
}

// solveDual runs dual coordinate descent for the L2 regularized hinge loss.
func solveDual(rows [][]float64, norms, signs []float64, rng *rand.Rand) []float64 {
	w := make([]float64, len(rows[0]))
	alpha := make([]float64, len(rows))

	for range marginMaxIter {
		maxPG, minPG := math.Inf(-1), math.Inf(1)
		for _, i := range rng.Perm(len(rows)) {
			if norms[i] == 0 {
				continue
			}
			gradient := signs[i]*floats.Dot(w, rows[i]) - 1

			projected := gradient
			switch {
			case alpha[i] == 0:
				projected = math.Min(gradient, 0)
			case alpha[i] == marginCost:
				projected = math.Max(gradient, 0)
			}
			maxPG = math.Max(maxPG, projected)
			minPG = math.Min(minPG, projected)
			if math.Abs(projected) < 1e-12 {
				continue
			}

			previous := alpha[i]
			alpha[i] = math.Min(math.Max(alpha[i]-gradient/norms[i], 0), marginCost)
			floats.AddScaled(w, (alpha[i]-previous)*signs[i], rows[i])
		}
		if maxPG-minPG <= marginTolerance {
			break
		}
	}
	return w
}

// Decision returns the score of every class for one row.
func (m MarginModel) Decision(x []float64) []float64 {
	scores := make([]float64, len(m.Classes))
	for c, w := range m.Weights {
		last := len(w) - 1
		scores[c] = floats.Dot(w[:last], x) + w[last]*marginBias
	}
	return scores
}

// Predict returns the highest scoring label of every row. A single class model always
// predicts that class.
func (m MarginModel) Predict(x *mat.Dense) []string {
	if x == nil {
		return nil
	}
	rows, _ := x.Dims()
	predictions := make([]string, rows)
	for i := range rows {
		predictions[i] = m.Classes[argmax(m.Decision(x.RawRowView(i)))]
	}
	return predictions
}
