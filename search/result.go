package search

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Trial is one evaluated configuration: its per-fold scores (negated MSE)
// and their mean and standard deviation. Failed trials keep Mean at -Inf as
// the sentinel worst score.
type Trial struct {
	Params     Params
	FoldScores []float64
	Mean       float64
	Std        float64
	Failed     bool
	Err        string
}

// Result is one sweep's report: one trial row per configuration, in
// generation order. No sorting is imposed; use Best to pick a winner.
type Result struct {
	RunID  string
	Folds  int
	Trials []Trial
}

// Best returns the non-failed trial with the greatest mean score.
func (r *Result) Best() (Trial, error) {
	best := -1
	for i := range r.Trials {
		if r.Trials[i].Failed {
			continue
		}
		if best < 0 || r.Trials[i].Mean > r.Trials[best].Mean {
			best = i
		}
	}
	if best < 0 {
		return Trial{}, errors.New("search: no successful trials")
	}
	return r.Trials[best], nil
}

// String renders the report as one line per configuration.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s (%d-fold)\n", r.RunID, r.Folds)
	for i := range r.Trials {
		t := &r.Trials[i]
		if t.Failed {
			fmt.Fprintf(&b, "  %s\tFAILED (%s)\n", t.Params.Key(), t.Err)
			continue
		}
		fmt.Fprintf(&b, "  %s\tmean=%.4f std=%.4f\n", t.Params.Key(), t.Mean, t.Std)
	}
	return b.String()
}

func meanStd(scores []float64) (float64, float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	mean, std := stat.MeanStdDev(scores, nil)
	if len(scores) == 1 {
		std = 0
	}
	return mean, std
}
