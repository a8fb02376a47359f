// Package model builds the regression network the sweep tunes: one hidden
// layer as wide as the input with relu, one linear output unit, minimizing
// mean squared error.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/fumitoshi0524/ixeoriTune/loss"
	"github.com/fumitoshi0524/ixeoriTune/nn"
	"github.com/fumitoshi0524/ixeoriTune/optim"
	"github.com/fumitoshi0524/ixeoriTune/search"
	"github.com/fumitoshi0524/ixeoriTune/tensor"
)

var ErrDiverged = errors.New("model: training diverged to a non-finite loss")

// Tunable hyperparameter names. Fit rejects anything else so a misspelled
// parameter fails the trial instead of being silently ignored.
const (
	ParamEpochs    = "epochs"
	ParamBatchSize = "batch_size"
	ParamOptimizer = "optimizer"
	ParamLR        = "lr"
)

const (
	defaultEpochs    = 10
	defaultBatchSize = 32
	defaultOptimizer = "adam"
	defaultLR        = 0.001
)

type Regressor struct {
	inputWidth int
	rnd        *rand.Rand
	net        *nn.Sequential
}

// New returns a fresh, untrained regressor. Every call builds independently
// initialized weights from the given seed.
func New(inputWidth int, seed int64) *Regressor {
	rnd := rand.New(rand.NewSource(seed))
	net := nn.NewSequential(
		nn.NewLinear(rnd, inputWidth, inputWidth, true),
		nn.Relu(),
		nn.NewLinear(rnd, inputWidth, 1, true),
	)
	return &Regressor{inputWidth: inputWidth, rnd: rnd, net: net}
}

// Factory adapts New to the search driver: one unshared model per
// (configuration, fold).
func Factory(inputWidth int) search.Factory {
	return func(seed int64) search.Estimator {
		return New(inputWidth, seed)
	}
}

// Fit trains with minibatch gradient descent. Recognized hyperparameters:
// epochs, batch_size, optimizer (adam, sgd, nesterov, rmsprop) and lr.
func (r *Regressor) Fit(x [][]float64, y []float64, p search.Params) error {
	if len(x) == 0 || len(x) != len(y) {
		return errors.New("model: invalid training data")
	}
	for i := range x {
		if len(x[i]) != r.inputWidth {
			return fmt.Errorf("model: row %d has width %d, want %d", i, len(x[i]), r.inputWidth)
		}
	}
	epochs, batchSize, opt, err := r.configure(p)
	if err != nil {
		return err
	}

	n := len(x)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		r.rnd.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		var epochLoss float64
		var batches int
		for start := 0; start < n; start += batchSize {
			end := start + batchSize
			if end > n {
				end = n
			}
			rows := order[start:end]
			xb, yb := r.batch(x, y, rows)

			opt.ZeroGrad()
			pred, err := r.net.Forward(xb)
			if err != nil {
				return err
			}
			l, err := loss.MSE(pred, yb)
			if err != nil {
				return err
			}
			if err := l.Backward(); err != nil {
				return err
			}
			if err := opt.Step(); err != nil {
				return err
			}
			epochLoss += l.Data()[0]
			batches++
		}
		if batches > 0 {
			epochLoss /= float64(batches)
		}
		if math.IsNaN(epochLoss) || math.IsInf(epochLoss, 0) {
			return ErrDiverged
		}
	}
	return nil
}

func (r *Regressor) Predict(x [][]float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, errors.New("model: no rows to predict")
	}
	for i := range x {
		if len(x[i]) != r.inputWidth {
			return nil, fmt.Errorf("model: row %d has width %d, want %d", i, len(x[i]), r.inputWidth)
		}
	}
	xt := tensor.MustNew(flatten(x), len(x), r.inputWidth)
	out, err := r.net.Forward(xt)
	if err != nil {
		return nil, err
	}
	return out.Data(), nil
}

func (r *Regressor) configure(p search.Params) (epochs, batchSize int, opt optim.Optimizer, err error) {
	for name := range p {
		switch name {
		case ParamEpochs, ParamBatchSize, ParamOptimizer, ParamLR:
		default:
			return 0, 0, nil, fmt.Errorf("model: unknown hyperparameter %q", name)
		}
	}

	epochs = defaultEpochs
	if v, ok := p.Int(ParamEpochs); ok {
		epochs = v
	} else if _, present := p[ParamEpochs]; present {
		return 0, 0, nil, fmt.Errorf("model: %s must be an integer", ParamEpochs)
	}
	if epochs <= 0 {
		return 0, 0, nil, fmt.Errorf("model: %s must be positive, got %d", ParamEpochs, epochs)
	}

	batchSize = defaultBatchSize
	if v, ok := p.Int(ParamBatchSize); ok {
		batchSize = v
	} else if _, present := p[ParamBatchSize]; present {
		return 0, 0, nil, fmt.Errorf("model: %s must be an integer", ParamBatchSize)
	}
	if batchSize <= 0 {
		return 0, 0, nil, fmt.Errorf("model: %s must be positive, got %d", ParamBatchSize, batchSize)
	}

	lr := defaultLR
	if v, ok := p.Float(ParamLR); ok {
		lr = v
	} else if _, present := p[ParamLR]; present {
		return 0, 0, nil, fmt.Errorf("model: %s must be numeric", ParamLR)
	}
	if lr <= 0 {
		return 0, 0, nil, fmt.Errorf("model: %s must be positive, got %v", ParamLR, lr)
	}

	name := defaultOptimizer
	if v, ok := p.String(ParamOptimizer); ok {
		name = v
	} else if _, present := p[ParamOptimizer]; present {
		return 0, 0, nil, fmt.Errorf("model: %s must be a string", ParamOptimizer)
	}
	params := r.net.Parameters()
	switch name {
	case "adam":
		opt = optim.NewAdam(params, lr, 0.9, 0.999, 1e-8)
	case "sgd":
		opt = optim.NewSGD(params, lr, 0.9)
	case "nesterov":
		sgd := optim.NewSGD(params, lr, 0.9)
		sgd.SetNesterov(true)
		opt = sgd
	case "rmsprop":
		opt = optim.NewRMSProp(params, lr)
	default:
		return 0, 0, nil, fmt.Errorf("model: unknown optimizer %q", name)
	}
	return epochs, batchSize, opt, nil
}

func (r *Regressor) batch(x [][]float64, y []float64, rows []int) (*tensor.Tensor, *tensor.Tensor) {
	xb := make([]float64, 0, len(rows)*r.inputWidth)
	yb := make([]float64, 0, len(rows))
	for _, i := range rows {
		xb = append(xb, x[i]...)
		yb = append(yb, y[i])
	}
	return tensor.MustNew(xb, len(rows), r.inputWidth), tensor.MustNew(yb, len(rows), 1)
}

func flatten(x [][]float64) []float64 {
	out := make([]float64, 0, len(x)*len(x[0]))
	for i := range x {
		out = append(out, x[i]...)
	}
	return out
}
