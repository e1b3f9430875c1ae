package forest

import (
	"math/rand/v2"
	"sort"
)

// decisionTree is a CART classification tree over numeric predictors,
// splitting on the gini criterion with a random feature subset per split.
type decisionTree struct {
	root       *treeNode
	mtry       int
	minSplit   int
	numClasses int
}

type treeNode struct {
	leaf      bool
	class     int
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode
}

func newDecisionTree(mtry, numClasses int) *decisionTree {
	return &decisionTree{
		mtry:       mtry,
		minSplit:   2,
		numClasses: numClasses,
	}
}

// fit grows the tree on the rows of x named by indices. Duplicated indices
// (bootstrap resamples) are expected. rng drives feature subsampling only.
func (t *decisionTree) fit(x [][]float64, y []int, indices []int, rng *rand.Rand) {
	t.root = t.buildNode(x, y, indices, rng)
}

func (t *decisionTree) buildNode(x [][]float64, y []int, indices []int, rng *rand.Rand) *treeNode {
	counts := make([]int, t.numClasses)
	for _, i := range indices {
		counts[y[i]]++
	}

	if len(indices) < t.minSplit || isPure(counts) {
		return &treeNode{leaf: true, class: argmax(counts)}
	}

	numFeatures := len(x[0])
	features := make([]int, numFeatures)
	for j := range features {
		features[j] = j
	}
	if t.mtry > 0 && t.mtry < numFeatures {
		rng.Shuffle(numFeatures, func(i, j int) {
			features[i], features[j] = features[j], features[i]
		})
		features = features[:t.mtry]
		// Fixed candidate order keeps the best-split scan deterministic for
		// a given random sequence.
		sort.Ints(features)
	}

	parent := gini(counts, len(indices))
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	type valueIndex struct {
		v float64
		i int
	}
	values := make([]valueIndex, len(indices))

	for _, f := range features {
		for k, i := range indices {
			values[k] = valueIndex{v: x[i][f], i: i}
		}
		sort.Slice(values, func(a, b int) bool { return values[a].v < values[b].v })

		// Scan split points between distinct values, moving class counts
		// from right to left.
		leftCounts := make([]int, t.numClasses)
		rightCounts := make([]int, t.numClasses)
		copy(rightCounts, counts)
		nLeft := 0
		nRight := len(indices)

		for s := 1; s < len(values); s++ {
			label := y[values[s-1].i]
			leftCounts[label]++
			rightCounts[label]--
			nLeft++
			nRight--

			if values[s].v == values[s-1].v {
				continue
			}

			weighted := (float64(nLeft)*gini(leftCounts, nLeft) +
				float64(nRight)*gini(rightCounts, nRight)) / float64(len(indices))
			gain := parent - weighted
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (values[s-1].v + values[s].v) / 2
			}
		}
	}

	if bestFeature < 0 {
		return &treeNode{leaf: true, class: argmax(counts)}
	}

	var leftIdx, rightIdx []int
	for _, i := range indices {
		if x[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		return &treeNode{leaf: true, class: argmax(counts)}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      t.buildNode(x, y, leftIdx, rng),
		right:     t.buildNode(x, y, rightIdx, rng),
	}
}

func (t *decisionTree) predict(x []float64) int {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.class
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		res += p * (1 - p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// argmax returns the index of the largest count; ties resolve to the
// smaller index.
func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
