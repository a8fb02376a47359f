package nn

import "github.com/fumitoshi0524/ixeoriTune/tensor"

type Module interface {
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)
	Parameters() []*tensor.Tensor
	ZeroGrad()
}
