// Package modelsel provides cross-validation splitting and hyperparameter
// selection for the benchmark harness.
package modelsel

import (
	"math/rand/v2"
	"sort"
)

// Fold is a single train/test index split.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates cross-validation folds over n samples with labels y.
type Splitter interface {
	Split(n int, y []int) []Fold
	NumSplits() int
}

// KFold splits samples into k consecutive folds, optionally shuffled.
type KFold struct {
	NumFolds int
	Shuffle  bool
	Seed     int64
}

// NewKFold creates a k-fold splitter. Fold counts below 2 fall back to 5.
func NewKFold(numFolds int, shuffle bool, seed int64) *KFold {
	if numFolds < 2 {
		numFolds = 5
	}
	return &KFold{NumFolds: numFolds, Shuffle: shuffle, Seed: seed}
}

// NumSplits returns the number of folds.
func (kf *KFold) NumSplits() int {
	return kf.NumFolds
}

// Split generates train/test indices for each fold. Labels are ignored. The
// fold count is clamped to n so no fold has an empty test side; fewer than 2
// samples cannot be split at all and yield no folds.
func (kf *KFold) Split(n int, _ []int) []Fold {
	if n < 2 {
		return nil
	}
	numFolds := kf.NumFolds
	if numFolds > n {
		numFolds = n
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.Seed), uint64(kf.Seed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, numFolds)
	foldSize := n / numFolds
	remainder := n % numFolds

	current := 0
	for i := 0; i < numFolds; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}
		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])
		train := make([]int, 0, n-testSize)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+testSize:]...)
		folds[i] = Fold{TrainIndices: sorted(train), TestIndices: sorted(test)}
		current += testSize
	}
	return folds
}

// StratifiedKFold distributes each class across folds so every fold keeps
// the class proportions of the whole sample.
type StratifiedKFold struct {
	NumFolds int
	Shuffle  bool
	Seed     int64
}

// NewStratifiedKFold creates a stratified k-fold splitter. Fold counts below
// 2 fall back to 5.
func NewStratifiedKFold(numFolds int, shuffle bool, seed int64) *StratifiedKFold {
	if numFolds < 2 {
		numFolds = 5
	}
	return &StratifiedKFold{NumFolds: numFolds, Shuffle: shuffle, Seed: seed}
}

// NumSplits returns the number of folds.
func (skf *StratifiedKFold) NumSplits() int {
	return skf.NumFolds
}

// Split generates stratified train/test indices for each fold. The fold
// count is clamped to the smallest class size (but never below 2) so no fold
// has an empty test side when a class is smaller than the requested count.
// Fewer than 2 samples yield no folds.
func (skf *StratifiedKFold) Split(n int, y []int) []Fold {
	if n < 2 {
		return nil
	}

	// Group indices by class, preserving input order.
	classIndices := make(map[int][]int)
	var classOrder []int
	for i := 0; i < n; i++ {
		label := y[i]
		if _, ok := classIndices[label]; !ok {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}

	minClass := n
	for _, label := range classOrder {
		if len(classIndices[label]) < minClass {
			minClass = len(classIndices[label])
		}
	}
	numFolds := skf.NumFolds
	if numFolds > minClass {
		numFolds = minClass
	}
	if numFolds < 2 {
		numFolds = 2
	}

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.Seed), uint64(skf.Seed)))
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, numFolds)

	// Deal each class's indices across the folds in turn.
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / numFolds
		remainder := nClass % numFolds

		current := 0
		for i := 0; i < numFolds; i++ {
			take := foldSize
			if i < remainder {
				take++
			}
			for j := 0; j < take && current < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[current])
				current++
			}
		}
	}

	// Train sets are everything outside the fold's test set.
	for i := range folds {
		inTest := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			inTest[idx] = true
		}
		for j := 0; j < n; j++ {
			if !inTest[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
		folds[i].TestIndices = sorted(folds[i].TestIndices)
	}
	return folds
}

// RepeatedStratifiedKFold repeats stratified k-fold splitting with a
// different shuffle per repeat, yielding NumFolds*Repeats folds. Repeat r is
// seeded Seed+r so the full fold sequence is deterministic.
type RepeatedStratifiedKFold struct {
	NumFolds int
	Repeats  int
	Seed     int64
}

// NewRepeatedStratifiedKFold creates a repeated stratified splitter.
func NewRepeatedStratifiedKFold(numFolds, repeats int, seed int64) *RepeatedStratifiedKFold {
	if numFolds < 2 {
		numFolds = 5
	}
	if repeats < 1 {
		repeats = 1
	}
	return &RepeatedStratifiedKFold{NumFolds: numFolds, Repeats: repeats, Seed: seed}
}

// NumSplits returns the total number of folds across repeats.
func (rkf *RepeatedStratifiedKFold) NumSplits() int {
	return rkf.NumFolds * rkf.Repeats
}

// Split concatenates the folds of each shuffled repeat.
func (rkf *RepeatedStratifiedKFold) Split(n int, y []int) []Fold {
	folds := make([]Fold, 0, rkf.NumSplits())
	for r := 0; r < rkf.Repeats; r++ {
		inner := NewStratifiedKFold(rkf.NumFolds, true, rkf.Seed+int64(r))
		folds = append(folds, inner.Split(n, y)...)
	}
	return folds
}

func sorted(indices []int) []int {
	sort.Ints(indices)
	return indices
}
