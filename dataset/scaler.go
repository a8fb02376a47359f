package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes a subset of columns to zero mean and unit
// variance. Fit it on the training partition only and reuse the fitted
// transform for every other partition; refitting per partition leaks
// statistics across the split.
type StandardScaler struct {
	cols   []int
	mean   []float64
	std    []float64
	fitted bool
}

func NewStandardScaler(cols ...int) *StandardScaler {
	return &StandardScaler{cols: append([]int(nil), cols...)}
}

func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return errors.New("scaler: no rows to fit")
	}
	if len(s.cols) == 0 {
		return errors.New("scaler: no columns configured")
	}
	width := len(x[0])
	for _, c := range s.cols {
		if c < 0 || c >= width {
			return fmt.Errorf("scaler: column %d out of range (width %d)", c, width)
		}
	}
	s.mean = make([]float64, len(s.cols))
	s.std = make([]float64, len(s.cols))
	column := make([]float64, len(x))
	for i, c := range s.cols {
		for r := range x {
			column[r] = x[r][c]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 {
			std = 1
		}
		s.mean[i] = mean
		s.std[i] = std
	}
	s.fitted = true
	return nil
}

// Transform returns a standardized copy of x using the fitted moments. The
// input is left untouched.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if !s.fitted {
		return nil, errors.New("scaler: Transform called before Fit")
	}
	out := make([][]float64, len(x))
	for r := range x {
		row := append([]float64(nil), x[r]...)
		for i, c := range s.cols {
			if c >= len(row) {
				return nil, fmt.Errorf("scaler: row %d narrower than fitted width", r)
			}
			row[c] = (row[c] - s.mean[i]) / s.std[i]
		}
		out[r] = row
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

func (s *StandardScaler) Mean() []float64 {
	return append([]float64(nil), s.mean...)
}

func (s *StandardScaler) Std() []float64 {
	return append([]float64(nil), s.std...)
}
