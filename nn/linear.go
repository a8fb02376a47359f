package nn

import (
	"errors"
	"math"
	"math/rand"

	"github.com/fumitoshi0524/ixeoriTune/tensor"
)

type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *tensor.Tensor
	bias        *tensor.Tensor
}

// NewLinear builds a fully connected layer with Xavier-scaled weights drawn
// from rnd. The caller supplies the source so two layers built from equally
// seeded sources are identical.
func NewLinear(rnd *rand.Rand, inFeatures, outFeatures int, withBias bool) *Linear {
	w := tensor.RandnFrom(rnd, outFeatures, inFeatures)
	scale := math.Sqrt(2.0 / float64(inFeatures+outFeatures))
	w.Scale(scale)
	w.SetRequiresGrad(true)
	var b *tensor.Tensor
	if withBias {
		b = tensor.RandnFrom(rnd, outFeatures)
		b.Scale(scale)
		b.SetRequiresGrad(true)
	}
	return &Linear{inFeatures: inFeatures, outFeatures: outFeatures, weight: w, bias: b}
}

func (l *Linear) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(input.Shape()) != 2 {
		return nil, errors.New("Linear expects rank 2 input")
	}
	wt := l.weight.MustTranspose()
	output, err := tensor.MatMul(input, wt)
	if err != nil {
		return nil, err
	}
	if l.bias != nil {
		output, err = tensor.AddBias2D(output, l.bias)
		if err != nil {
			return nil, err
		}
	}
	return output, nil
}

func (l *Linear) Parameters() []*tensor.Tensor {
	params := []*tensor.Tensor{l.weight}
	if l.bias != nil {
		params = append(params, l.bias)
	}
	return params
}

func (l *Linear) ZeroGrad() {
	for _, p := range l.Parameters() {
		p.ZeroGrad()
	}
}

func (l *Linear) Weight() *tensor.Tensor {
	return l.weight
}

func (l *Linear) Bias() *tensor.Tensor {
	return l.bias
}
