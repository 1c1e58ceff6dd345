package classifier

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// A Node represents a splitting decision of the form "x[FeatureIndex] < Threshold ?".
type Node struct {
	FeatureIndex int
	Threshold    float64
	// LeftChild indexes Nodes, or Outputs when LeftIsLeaf is set.
	LeftChild  int
	LeftIsLeaf bool
	// RightChild indexes Nodes, or Outputs when RightIsLeaf is set.
	RightChild  int
	RightIsLeaf bool
}

// DecisionTree is a classification tree stored as a flat list of nodes.
// A tree without nodes is a single leaf.
type DecisionTree struct {
	Nodes []Node
	// Outputs holds the class distribution of every leaf.
	Outputs [][]float64
	// FeatureSize is the length of feature vectors processed by this tree.
	FeatureSize int
}

// Bin drops a feature vector down the tree and returns the index of the leaf it ends up in.
func (t *DecisionTree) Bin(x []float64) int {
	if len(t.Nodes) == 0 {
		return 0
	}
	cur := t.Nodes[0]
	for {
		if x[cur.FeatureIndex] < cur.Threshold {
			if cur.LeftIsLeaf {
				return cur.LeftChild
			}
			cur = t.Nodes[cur.LeftChild]
		} else {
			if cur.RightIsLeaf {
				return cur.RightChild
			}
			cur = t.Nodes[cur.RightChild]
		}
	}
}

// Evaluate returns the class distribution of the leaf reached by x.
func (t *DecisionTree) Evaluate(x []float64) []float64 {
	return t.Outputs[t.Bin(x)]
}

type split struct {
	feature   int
	threshold float64
	decrease  float64
}

// grower builds one tree with CART and Gini impurity. samples may repeat a row, which
// is how a bootstrap draw weights it.
type grower struct {
	x           *mat.Dense
	y           []int
	classes     int
	maxFeatures int
	rng         *rand.Rand
	tree        *DecisionTree
	// importances accumulates the weighted impurity decrease of every split feature.
	importances []float64
}

func growTree(x *mat.Dense, y []int, classes, maxFeatures int, samples []int, rng *rand.Rand) (DecisionTree, []float64) {
	_, cols := x.Dims()
	g := &grower{
		x:           x,
		y:           y,
		classes:     classes,
		maxFeatures: maxFeatures,
		rng:         rng,
		tree:        &DecisionTree{FeatureSize: cols},
		importances: make([]float64, cols),
	}
	g.grow(samples)
	return *g.tree, g.importances
}

// grow returns the reference of the subtree built on samples and whether it is a leaf.
func (g *grower) grow(samples []int) (int, bool) {
	counts := g.classCounts(samples)
	best, ok := g.bestSplit(samples, counts)
	if !ok {
		return g.leaf(counts, len(samples)), true
	}

	idx := len(g.tree.Nodes)
	g.tree.Nodes = append(g.tree.Nodes, Node{FeatureIndex: best.feature, Threshold: best.threshold})
	g.importances[best.feature] += best.decrease

	var left, right []int
	for _, s := range samples {
		if g.x.At(s, best.feature) < best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	leftChild, leftIsLeaf := g.grow(left)
	rightChild, rightIsLeaf := g.grow(right)

	node := &g.tree.Nodes[idx]
	node.LeftChild, node.LeftIsLeaf = leftChild, leftIsLeaf
	node.RightChild, node.RightIsLeaf = rightChild, rightIsLeaf
	return idx, false
}

func (g *grower) leaf(counts []float64, n int) int {
	output := make([]float64, g.classes)
	for c, count := range counts {
		output[c] = count / float64(n)
	}
	g.tree.Outputs = append(g.tree.Outputs, output)
	return len(g.tree.Outputs) - 1
}

func (g *grower) classCounts(samples []int) []float64 {
	counts := make([]float64, g.classes)
	for _, s := range samples {
		counts[g.y[s]]++
	}
	return counts
}

// bestSplit draws features in random order until maxFeatures non constant ones were
// examined, and keeps the threshold with the largest impurity decrease.
// A pure node, or one where every feature is constant, is not split.
func (g *grower) bestSplit(samples []int, counts []float64) (split, bool) {
	n := float64(len(samples))
	parent := gini(counts, n)
	if parent == 0 {
		return split{}, false
	}

	_, cols := g.x.Dims()
	sorted := make([]int, len(samples))
	left := make([]float64, g.classes)
	right := make([]float64, g.classes)
	best := split{decrease: -1}
	found := false
	visited := 0

	for _, feature := range g.rng.Perm(cols) {
		if visited >= g.maxFeatures {
			break
		}
		copy(sorted, samples)
		sort.SliceStable(sorted, func(i, j int) bool {
			return g.x.At(sorted[i], feature) < g.x.At(sorted[j], feature)
		})
		if g.x.At(sorted[0], feature) == g.x.At(sorted[len(sorted)-1], feature) {
			continue
		}
		visited++

		clear(left)
		copy(right, counts)
		for i := 0; i < len(sorted)-1; i++ {
			class := g.y[sorted[i]]
			left[class]++
			right[class]--
			value, next := g.x.At(sorted[i], feature), g.x.At(sorted[i+1], feature)
			if value == next {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			decrease := n*parent - nl*gini(left, nl) - nr*gini(right, nr)
			if decrease > best.decrease {
				best = split{feature: feature, threshold: (value + next) / 2, decrease: decrease}
				found = true
			}
		}
	}
	return best, found
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, count := range counts {
		p := count / n
		impurity -= p * p
	}
	return impurity
}
