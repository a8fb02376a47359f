package optim

import "github.com/fumitoshi0524/ixeoriTune/tensor"

type RMSProp struct {
	params    []*tensor.Tensor
	lr        float64
	alpha     float64
	eps       float64
	squareAvg map[*tensor.Tensor]*tensor.Tensor
}

func NewRMSProp(params []*tensor.Tensor, lr float64) *RMSProp {
	return &RMSProp{
		params:    params,
		lr:        lr,
		alpha:     0.99,
		eps:       1e-8,
		squareAvg: map[*tensor.Tensor]*tensor.Tensor{},
	}
}

func (o *RMSProp) Step() error {
	for _, p := range o.params {
		if p == nil {
			continue
		}
		grad := p.Grad()
		if grad == nil {
			continue
		}
		sq := o.squareAvg[p]
		if sq == nil {
			sq = tensor.Zeros(grad.Shape()...)
		}
		sq.Scale(o.alpha)
		squared := grad.Clone()
		if err := squared.MulInPlace(grad); err != nil {
			return err
		}
		if err := sq.AddScaled(squared, 1-o.alpha); err != nil {
			return err
		}
		o.squareAvg[p] = sq
		denom := tensor.Pow(sq, 0.5)
		epsTensor := tensor.Full(o.eps, denom.Shape()...)
		denom, err := tensor.Add(denom, epsTensor)
		if err != nil {
			return err
		}
		adj, err := tensor.Div(grad, denom)
		if err != nil {
			return err
		}
		if err := p.AddScaled(adj, -o.lr); err != nil {
			return err
		}
	}
	return nil
}

func (o *RMSProp) ZeroGrad() {
	zeroGrad(o.params)
}
