package optim

import "github.com/fumitoshi0524/ixeoriTune/tensor"

// Optimizer is the common surface of all gradient-based updaters.
type Optimizer interface {
	Step() error
	ZeroGrad()
}

func zeroGrad(params []*tensor.Tensor) {
	for _, p := range params {
		if p != nil {
			p.ZeroGrad()
		}
	}
}
