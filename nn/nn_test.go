package nn

import (
	"math/rand"
	"testing"

	"github.com/fumitoshi0524/ixeoriTune/tensor"
)

func TestLinearForwardShapeAndBias(t *testing.T) {
	l := NewLinear(rand.New(rand.NewSource(1)), 3, 2, true)
	if got := len(l.Parameters()); got != 2 {
		t.Fatalf("expected weight and bias parameters, got %d", got)
	}
	in := tensor.MustNew([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	out, err := l.Forward(in)
	if err != nil {
		t.Fatalf("forward failed: %v", err)
	}
	shape := out.Shape()
	if shape[0] != 2 || shape[1] != 2 {
		t.Fatalf("unexpected output shape: %v", shape)
	}
	if _, err := l.Forward(tensor.MustNew([]float64{1, 2, 3}, 3)); err == nil {
		t.Fatalf("expected rank error for rank 1 input")
	}
}

func TestLinearSeededInitIsReproducible(t *testing.T) {
	a := NewLinear(rand.New(rand.NewSource(9)), 4, 4, true)
	b := NewLinear(rand.New(rand.NewSource(9)), 4, 4, true)
	aw := a.Weight().Data()
	bw := b.Weight().Data()
	for i := range aw {
		if aw[i] != bw[i] {
			t.Fatalf("equal seeds must initialize identical weights")
		}
	}
	c := NewLinear(rand.New(rand.NewSource(10)), 4, 4, true)
	cw := c.Weight().Data()
	same := true
	for i := range aw {
		if aw[i] != cw[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds should initialize different weights")
	}
}

func TestSequentialForwardBackward(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	net := NewSequential(
		NewLinear(rnd, 2, 2, true),
		Relu(),
		NewLinear(rnd, 2, 1, true),
	)
	if got := len(net.Parameters()); got != 4 {
		t.Fatalf("expected 4 parameter tensors, got %d", got)
	}
	in := tensor.MustNew([]float64{0.5, -0.5, 1, 2}, 2, 2)
	out, err := net.Forward(in)
	if err != nil {
		t.Fatalf("forward failed: %v", err)
	}
	shape := out.Shape()
	if shape[0] != 2 || shape[1] != 1 {
		t.Fatalf("unexpected output shape: %v", shape)
	}
	if err := tensor.Sum(out).Backward(); err != nil {
		t.Fatalf("backward failed: %v", err)
	}
	grads := 0
	for _, p := range net.Parameters() {
		if p.Grad() != nil {
			grads++
		}
	}
	// The hidden layer can be fully masked by relu for some inputs, but the
	// output layer's parameters always receive gradients.
	if grads < 2 {
		t.Fatalf("expected gradients on at least the output layer, got %d tensors", grads)
	}
	net.ZeroGrad()
	for _, p := range net.Parameters() {
		if p.Grad() != nil {
			t.Fatalf("ZeroGrad must clear all gradients")
		}
	}
}
