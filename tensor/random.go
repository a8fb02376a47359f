package tensor

import "math/rand"

// RandnFrom fills a tensor with standard normal draws from the provided
// source. Every caller owns its own *rand.Rand so parallel model builds stay
// reproducible and isolated; there is deliberately no package-level rng.
func RandnFrom(rnd *rand.Rand, shape ...int) *Tensor {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	data := make([]float64, size)
	for i := range data {
		data[i] = rnd.NormFloat64()
	}
	return MustNew(data, shape...)
}
