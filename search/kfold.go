package search

import (
	"fmt"
	"math/rand"
)

type fold struct {
	train []int
	test  []int
}

// kFolds splits n row indices into k shuffled folds. Every index lands in
// exactly one test set; fold sizes differ by at most one.
func kFolds(n, k int, seed int64) ([]fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("search: need at least 2 folds, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("search: %d rows cannot fill %d folds", n, k)
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	folds := make([]fold, k)
	base := n / k
	extra := n % k
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		test := indices[start : start+size]
		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+size:]...)
		folds[i] = fold{train: train, test: test}
		start += size
	}
	return folds, nil
}

func gatherRows(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}

func gatherValues(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
