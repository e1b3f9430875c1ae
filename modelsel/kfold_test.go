package modelsel

import (
	"testing"
)

func labelsFor(counts []int) []int {
	var y []int
	for class, n := range counts {
		for i := 0; i < n; i++ {
			y = append(y, class)
		}
	}
	return y
}

func TestStratifiedKFold_FoldsCoverAllSamples(t *testing.T) {
	y := labelsFor([]int{20, 10, 10})
	skf := NewStratifiedKFold(5, true, 42)
	folds := skf.Split(len(y), y)

	if len(folds) != 5 {
		t.Fatalf("expected 5 folds, got %d", len(folds))
	}

	seen := make(map[int]int)
	for _, fold := range folds {
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
		if len(fold.TrainIndices)+len(fold.TestIndices) != len(y) {
			t.Errorf("fold train+test = %d, want %d",
				len(fold.TrainIndices)+len(fold.TestIndices), len(y))
		}
	}
	if len(seen) != len(y) {
		t.Errorf("test folds cover %d samples, want %d", len(seen), len(y))
	}
	for idx, n := range seen {
		if n != 1 {
			t.Errorf("sample %d appears in %d test folds", idx, n)
		}
	}
}

func TestStratifiedKFold_PreservesProportions(t *testing.T) {
	y := labelsFor([]int{40, 20, 20})
	skf := NewStratifiedKFold(4, true, 7)
	folds := skf.Split(len(y), y)

	for fi, fold := range folds {
		counts := make(map[int]int)
		for _, idx := range fold.TestIndices {
			counts[y[idx]]++
		}
		// 80 samples over 4 folds: 10 of class 0, 5 each of classes 1 and 2.
		if counts[0] != 10 || counts[1] != 5 || counts[2] != 5 {
			t.Errorf("fold %d has class counts %v, want [10 5 5]", fi, counts)
		}
	}
}

func TestStratifiedKFold_ClampsToSmallestClass(t *testing.T) {
	// 10 requested folds over 3 records per class: only 3 folds can receive
	// a test record from every class, so the count must clamp to 3 and no
	// fold may end up with an empty side.
	y := labelsFor([]int{3, 3})
	folds := NewStratifiedKFold(10, true, 1).Split(len(y), y)

	if len(folds) != 3 {
		t.Fatalf("expected 3 folds, got %d", len(folds))
	}
	for fi, fold := range folds {
		if len(fold.TestIndices) == 0 {
			t.Errorf("fold %d has an empty test side", fi)
		}
		if len(fold.TrainIndices) == 0 {
			t.Errorf("fold %d has an empty train side", fi)
		}
	}
}

func TestKFold_ClampsToSampleCount(t *testing.T) {
	folds := NewKFold(10, false, 0).Split(4, nil)
	if len(folds) != 4 {
		t.Fatalf("expected 4 folds, got %d", len(folds))
	}
	for fi, fold := range folds {
		if len(fold.TestIndices) == 0 || len(fold.TrainIndices) == 0 {
			t.Errorf("fold %d has an empty side", fi)
		}
	}
	if got := NewKFold(5, false, 0).Split(1, nil); got != nil {
		t.Errorf("a single sample should yield no folds, got %d", len(got))
	}
}

func TestKFold_SplitSizes(t *testing.T) {
	kf := NewKFold(3, false, 0)
	folds := kf.Split(10, nil)

	sizes := []int{len(folds[0].TestIndices), len(folds[1].TestIndices), len(folds[2].TestIndices)}
	if sizes[0] != 4 || sizes[1] != 3 || sizes[2] != 3 {
		t.Errorf("unexpected fold sizes: %v", sizes)
	}
}

func TestRepeatedStratifiedKFold_Deterministic(t *testing.T) {
	y := labelsFor([]int{15, 15})
	rkf := NewRepeatedStratifiedKFold(5, 3, 9)

	if rkf.NumSplits() != 15 {
		t.Fatalf("expected 15 splits, got %d", rkf.NumSplits())
	}

	a := rkf.Split(len(y), y)
	b := rkf.Split(len(y), y)
	if len(a) != 15 || len(b) != 15 {
		t.Fatalf("expected 15 folds, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i].TestIndices) != len(b[i].TestIndices) {
			t.Fatalf("fold %d sizes differ", i)
		}
		for j := range a[i].TestIndices {
			if a[i].TestIndices[j] != b[i].TestIndices[j] {
				t.Fatalf("fold %d differs between identical splits", i)
			}
		}
	}

	// Different repeats must not all produce identical folds.
	identical := true
	first, second := a[:5], a[5:10]
	for i := range first {
		if len(first[i].TestIndices) != len(second[i].TestIndices) {
			identical = false
			break
		}
		for j := range first[i].TestIndices {
			if first[i].TestIndices[j] != second[i].TestIndices[j] {
				identical = false
				break
			}
		}
	}
	if identical {
		t.Error("repeats produced identical fold assignments")
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		wantIdx  int
		wantBest float64
		wantErr  bool
	}{
		{name: "single minimum", scores: []float64{0.3, 0.1, 0.2}, wantIdx: 1, wantBest: 0.1},
		{name: "tie keeps first", scores: []float64{0.2, 0.1, 0.1}, wantIdx: 1, wantBest: 0.1},
		{name: "minimum at front", scores: []float64{0.05, 0.4, 0.05}, wantIdx: 0, wantBest: 0.05},
		{name: "empty grid", scores: nil, wantErr: true},
		{name: "nan score", scores: []float64{0.1, nan()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, best, err := SelectBest(tt.scores)
			if (err != nil) != tt.wantErr {
				t.Errorf("SelectBest() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if idx != tt.wantIdx || best != tt.wantBest {
				t.Errorf("SelectBest() = (%d, %v), want (%d, %v)", idx, best, tt.wantIdx, tt.wantBest)
			}
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
