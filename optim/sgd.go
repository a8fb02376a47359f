package optim

import "github.com/fumitoshi0524/ixeoriTune/tensor"

type SGD struct {
	params   []*tensor.Tensor
	lr       float64
	momentum float64
	nesterov bool
	velocity map[*tensor.Tensor]*tensor.Tensor
}

func NewSGD(params []*tensor.Tensor, lr float64, momentum float64) *SGD {
	return &SGD{
		params:   params,
		lr:       lr,
		momentum: momentum,
		velocity: map[*tensor.Tensor]*tensor.Tensor{},
	}
}

func (o *SGD) SetNesterov(enabled bool) {
	o.nesterov = enabled
}

func (o *SGD) Step() error {
	for _, p := range o.params {
		if p == nil {
			continue
		}
		grad := p.Grad()
		if grad == nil {
			continue
		}
		update := grad
		if o.momentum > 0 {
			v := o.velocity[p]
			if v == nil {
				v = tensor.Zeros(grad.Shape()...)
			}
			v.Scale(o.momentum)
			if err := v.AddScaled(update, 1.0); err != nil {
				return err
			}
			o.velocity[p] = v
			if o.nesterov {
				tmp := update.Clone()
				if err := tmp.AddScaled(v, o.momentum); err != nil {
					return err
				}
				update = tmp
			} else {
				update = v.Clone()
			}
		}
		if err := p.AddScaled(update, -o.lr); err != nil {
			return err
		}
	}
	return nil
}

func (o *SGD) ZeroGrad() {
	zeroGrad(o.params)
}
