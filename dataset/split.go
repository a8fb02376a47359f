package dataset

import (
	"errors"
	"math"
	"math/rand"
)

// TrainTestSplit partitions rows into disjoint train and test sets. The same
// seed always yields the same split for the same input length.
func TrainTestSplit(x [][]float64, y []float64, testFraction float64, seed int64) (xTrain, xTest [][]float64, yTrain, yTest []float64, err error) {
	if len(x) != len(y) {
		return nil, nil, nil, nil, errors.New("split: feature/target length mismatch")
	}
	if len(x) < 2 {
		return nil, nil, nil, nil, errors.New("split: need at least two rows")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, nil, nil, errors.New("split: test fraction must be in (0, 1)")
	}
	n := len(x)
	nTest := int(math.Round(float64(n) * testFraction))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	for _, idx := range indices[:nTest] {
		xTest = append(xTest, x[idx])
		yTest = append(yTest, y[idx])
	}
	for _, idx := range indices[nTest:] {
		xTrain = append(xTrain, x[idx])
		yTrain = append(yTrain, y[idx])
	}
	return xTrain, xTest, yTrain, yTest, nil
}
