package tensor

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestNewValidatesShape(t *testing.T) {
	if _, err := New([]float64{1, 2, 3}, 2, 2); err == nil {
		t.Fatalf("expected error for data/shape mismatch")
	}
	if _, err := New([]float64{1, 2}); err == nil {
		t.Fatalf("expected error for missing shape")
	}
	if _, err := New(nil, 0); err == nil {
		t.Fatalf("expected error for non-positive dimension")
	}
}

func TestAddSubBackward(t *testing.T) {
	a := MustNew([]float64{1, 2}, 2)
	b := MustNew([]float64{3, 5}, 2)
	a.SetRequiresGrad(true)
	b.SetRequiresGrad(true)

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !almostEqual(sum.Data(), []float64{4, 7}, 1e-9) {
		t.Fatalf("unexpected add result: %v", sum.Data())
	}
	diff, err := Sub(sum, b)
	if err != nil {
		t.Fatalf("sub failed: %v", err)
	}
	if err := Sum(diff).Backward(); err != nil {
		t.Fatalf("backward failed: %v", err)
	}
	if !almostEqual(a.Grad().Data(), []float64{1, 1}, 1e-9) {
		t.Fatalf("unexpected grad for a: %v", a.Grad().Data())
	}
	// b contributes +1 through the add and -1 through the sub.
	if !almostEqual(b.Grad().Data(), []float64{0, 0}, 1e-9) {
		t.Fatalf("unexpected grad for b: %v", b.Grad().Data())
	}
}

func TestMeanBackward(t *testing.T) {
	a := MustNew([]float64{2, 4, 6, 8}, 4)
	a.SetRequiresGrad(true)
	m := Mean(a)
	if math.Abs(m.Data()[0]-5) > 1e-9 {
		t.Fatalf("unexpected mean: %v", m.Data()[0])
	}
	if err := m.Backward(); err != nil {
		t.Fatalf("backward failed: %v", err)
	}
	if !almostEqual(a.Grad().Data(), []float64{0.25, 0.25, 0.25, 0.25}, 1e-9) {
		t.Fatalf("unexpected mean grad: %v", a.Grad().Data())
	}
}

func TestReluBackwardMasksNegatives(t *testing.T) {
	a := MustNew([]float64{-1, 0, 2}, 3)
	a.SetRequiresGrad(true)
	out := Relu(a)
	if !almostEqual(out.Data(), []float64{0, 0, 2}, 1e-9) {
		t.Fatalf("unexpected relu output: %v", out.Data())
	}
	if err := Sum(out).Backward(); err != nil {
		t.Fatalf("backward failed: %v", err)
	}
	if !almostEqual(a.Grad().Data(), []float64{0, 0, 1}, 1e-9) {
		t.Fatalf("unexpected relu grad: %v", a.Grad().Data())
	}
}

func TestMatMulForwardBackward(t *testing.T) {
	a := MustNew([]float64{1, 2, 3, 4}, 2, 2)
	b := MustNew([]float64{5, 6, 7, 8}, 2, 2)
	a.SetRequiresGrad(true)
	b.SetRequiresGrad(true)

	out, err := MatMul(a, b)
	if err != nil {
		t.Fatalf("matmul failed: %v", err)
	}
	if !almostEqual(out.Data(), []float64{19, 22, 43, 50}, 1e-9) {
		t.Fatalf("unexpected matmul result: %v", out.Data())
	}
	if err := Sum(out).Backward(); err != nil {
		t.Fatalf("backward failed: %v", err)
	}
	if !almostEqual(a.Grad().Data(), []float64{11, 15, 11, 15}, 1e-9) {
		t.Fatalf("unexpected grad for a: %v", a.Grad().Data())
	}
	if !almostEqual(b.Grad().Data(), []float64{4, 4, 6, 6}, 1e-9) {
		t.Fatalf("unexpected grad for b: %v", b.Grad().Data())
	}

	if _, err := MatMul(a, MustNew([]float64{1, 2, 3}, 3, 1)); err == nil {
		t.Fatalf("expected shape error")
	}
}

func TestAddBias2DBackward(t *testing.T) {
	a := MustNew([]float64{1, 2, 3, 4}, 2, 2)
	bias := MustNew([]float64{10, 20}, 2)
	a.SetRequiresGrad(true)
	bias.SetRequiresGrad(true)

	out, err := AddBias2D(a, bias)
	if err != nil {
		t.Fatalf("AddBias2D failed: %v", err)
	}
	if !almostEqual(out.Data(), []float64{11, 22, 13, 24}, 1e-9) {
		t.Fatalf("unexpected biased output: %v", out.Data())
	}
	if err := Sum(out).Backward(); err != nil {
		t.Fatalf("backward failed: %v", err)
	}
	if !almostEqual(bias.Grad().Data(), []float64{2, 2}, 1e-9) {
		t.Fatalf("bias grad should aggregate over rows: %v", bias.Grad().Data())
	}
}

func TestRandnFromIsDeterministic(t *testing.T) {
	a := RandnFrom(rand.New(rand.NewSource(7)), 3, 4)
	b := RandnFrom(rand.New(rand.NewSource(7)), 3, 4)
	c := RandnFrom(rand.New(rand.NewSource(8)), 3, 4)
	if !almostEqual(a.Data(), b.Data(), 0) {
		t.Fatalf("equal seeds must produce equal tensors")
	}
	if almostEqual(a.Data(), c.Data(), 0) {
		t.Fatalf("different seeds should produce different tensors")
	}
}

func TestDetachStopsGradient(t *testing.T) {
	a := MustNew([]float64{1, 2}, 2)
	a.SetRequiresGrad(true)
	d := a.Detach()
	if d.RequiresGrad() {
		t.Fatalf("detached tensor must not require grad")
	}
	if err := Sum(d).Backward(); err == nil {
		t.Fatalf("expected backward on detached graph to fail")
	}
}
