package loss

import (
	"errors"
	"math"
)

// MSEValue scores plain prediction slices without building a graph; fold
// evaluation never needs gradients.
func MSEValue(pred, target []float64) (float64, error) {
	if len(pred) != len(target) {
		return 0, errors.New("MSEValue length mismatch")
	}
	if len(pred) == 0 {
		return 0, errors.New("MSEValue requires at least one sample")
	}
	var sum float64
	for i := range pred {
		d := pred[i] - target[i]
		sum += d * d
	}
	return sum / float64(len(pred)), nil
}

func MAEValue(pred, target []float64) (float64, error) {
	if len(pred) != len(target) {
		return 0, errors.New("MAEValue length mismatch")
	}
	if len(pred) == 0 {
		return 0, errors.New("MAEValue requires at least one sample")
	}
	var sum float64
	for i := range pred {
		sum += math.Abs(pred[i] - target[i])
	}
	return sum / float64(len(pred)), nil
}
