package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fumitoshi0524/ixeoriTune/loss"
)

// Estimator is one trainable model. Fit receives the trial's hyperparameters
// and must reject names it does not recognize.
type Estimator interface {
	Fit(x [][]float64, y []float64, p Params) error
	Predict(x [][]float64) ([]float64, error)
}

// Factory builds a fresh, independently initialized estimator. The driver
// calls it once per (configuration, fold); sharing a model across folds
// would leak fitted state between them.
type Factory func(seed int64) Estimator

type Options struct {
	// Folds is the cross-validation fold count. Defaults to 5.
	Folds int
	// Seed drives fold shuffling, configuration sampling and per-trial model
	// seeds. Same seed, same sweep.
	Seed int64
	// Workers bounds concurrent trials. Defaults to 1 (sequential). Trials
	// share no mutable state, so any bound is safe.
	Workers int
	Logger  *slog.Logger
}

type Driver struct {
	factory Factory
	opts    Options
	log     *slog.Logger
}

func NewDriver(factory Factory, opts Options) (*Driver, error) {
	if factory == nil {
		return nil, errors.New("search: nil estimator factory")
	}
	if opts.Folds == 0 {
		opts.Folds = 5
	}
	if opts.Folds < 2 {
		return nil, fmt.Errorf("search: need at least 2 folds, got %d", opts.Folds)
	}
	if opts.Workers == 0 {
		opts.Workers = 1
	}
	if opts.Workers < 1 {
		return nil, fmt.Errorf("search: invalid worker count %d", opts.Workers)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Driver{factory: factory, opts: opts, log: log}, nil
}

// Run evaluates every configuration the generator yields with k-fold cross
// validation over (x, y). The per-fold fitness is negated mean squared error,
// so greater is better everywhere downstream. A configuration whose training
// fails or diverges is recorded as a failed trial; the sweep continues.
func (d *Driver) Run(ctx context.Context, gen Generator, x [][]float64, y []float64) (*Result, error) {
	if gen == nil {
		return nil, errors.New("search: nil generator")
	}
	if len(x) != len(y) {
		return nil, errors.New("search: feature/target length mismatch")
	}

	rnd := rand.New(rand.NewSource(d.opts.Seed))
	configs, err := gen.Generate(rnd)
	if err != nil {
		return nil, err
	}

	folds, err := kFolds(len(x), d.opts.Folds, d.opts.Seed)
	if err != nil {
		return nil, err
	}

	// Model seeds are drawn up front so results do not depend on the order
	// in which parallel trials happen to run.
	seeds := make([][]int64, len(configs))
	for i := range seeds {
		seeds[i] = make([]int64, len(folds))
		for j := range seeds[i] {
			seeds[i][j] = rnd.Int63()
		}
	}

	runID := uuid.NewString()
	d.log.Info("sweep started",
		"run_id", runID,
		"configurations", len(configs),
		"folds", len(folds),
		"rows", len(x),
		"workers", d.opts.Workers,
	)

	trials := make([]Trial, len(configs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i := range configs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trials[i] = d.runTrial(configs[i], folds, seeds[i], x, y)
			d.logTrial(runID, i, &trials[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.log.Info("sweep finished", "run_id", runID, "configurations", len(trials))
	return &Result{RunID: runID, Folds: len(folds), Trials: trials}, nil
}

func (d *Driver) runTrial(p Params, folds []fold, seeds []int64, x [][]float64, y []float64) Trial {
	trial := Trial{Params: p}
	for j, f := range folds {
		est := d.factory(seeds[j])
		if err := est.Fit(gatherRows(x, f.train), gatherValues(y, f.train), p); err != nil {
			return failTrial(p, fmt.Errorf("fold %d: %w", j, err))
		}
		pred, err := est.Predict(gatherRows(x, f.test))
		if err != nil {
			return failTrial(p, fmt.Errorf("fold %d: %w", j, err))
		}
		mse, err := loss.MSEValue(pred, gatherValues(y, f.test))
		if err != nil {
			return failTrial(p, fmt.Errorf("fold %d: %w", j, err))
		}
		if math.IsNaN(mse) || math.IsInf(mse, 0) {
			return failTrial(p, fmt.Errorf("fold %d: non-finite score", j))
		}
		trial.FoldScores = append(trial.FoldScores, -mse)
	}
	trial.Mean, trial.Std = meanStd(trial.FoldScores)
	return trial
}

func (d *Driver) logTrial(runID string, idx int, t *Trial) {
	if t.Failed {
		d.log.Warn("trial failed", "run_id", runID, "trial", idx, "params", t.Params.Key(), "error", t.Err)
		return
	}
	d.log.Debug("trial finished", "run_id", runID, "trial", idx, "params", t.Params.Key(), "mean", t.Mean, "std", t.Std)
}

func failTrial(p Params, err error) Trial {
	return Trial{
		Params: p,
		Mean:   math.Inf(-1),
		Std:    math.NaN(),
		Failed: true,
		Err:    err.Error(),
	}
}
