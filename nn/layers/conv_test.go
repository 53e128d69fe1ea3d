package layers

import (
	"math"
	"testing"

	"rulformer/tensor"
)

func TestConvFrontendOddKernelPreservesLength(t *testing.T) {
	for _, k := range []int{1, 3, 5, 7} {
		conv := NewConvFrontend(4, k)
		x := tensor.New(2, 10, 4)
		out, err := conv.Forward(x)
		if err != nil {
			t.Fatalf("kernel %d: %v", k, err)
		}
		if out.Shape[0] != 2 || out.Shape[1] != 10 || out.Shape[2] != 4 {
			t.Errorf("kernel %d: output shape %v, want [2 10 4]", k, out.Shape)
		}
	}
}

func TestConvFrontendEvenKernelShrinksByOne(t *testing.T) {
	for _, k := range []int{2, 4, 6} {
		conv := NewConvFrontend(4, k)
		x := tensor.New(2, 10, 4)
		out, err := conv.Forward(x)
		if err != nil {
			t.Fatalf("kernel %d: %v", k, err)
		}
		if out.Shape[1] != 9 {
			t.Errorf("kernel %d: output length %d, want 9", k, out.Shape[1])
		}
	}
}

func TestConvFrontendValues(t *testing.T) {
	// Single channel, kernel 3, all-ones weights, zero bias: each output
	// is the sum of the zero-padded 3-step neighborhood.
	conv := NewConvFrontend(1, 3)
	for i := range conv.W.Data {
		conv.W.Data[i] = 1
	}
	conv.B.Data[0] = 0

	x := &tensor.Tensor{Data: []float64{1, 2, 3}, Shape: []int{1, 3, 1}}
	out, err := conv.Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{3, 6, 5}
	for i, w := range want {
		if math.Abs(out.Data[i]-w) > 1e-12 {
			t.Errorf("out[%d] = %f, want %f", i, out.Data[i], w)
		}
	}
}

func TestConvFrontendReluClamps(t *testing.T) {
	conv := NewConvFrontend(1, 1)
	conv.W.Data[0] = -1
	conv.B.Data[0] = 0
	x := &tensor.Tensor{Data: []float64{2}, Shape: []int{1, 1, 1}}
	out, err := conv.Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	if out.Data[0] != 0 {
		t.Errorf("negative activation should clamp to 0, got %f", out.Data[0])
	}
}

func TestConvFrontendRejectsBadShapes(t *testing.T) {
	conv := NewConvFrontend(4, 3)
	if _, err := conv.Forward(tensor.New(10, 4)); err == nil {
		t.Error("expected error for 2-D input")
	}
	if _, err := conv.Forward(tensor.New(2, 10, 5)); err == nil {
		t.Error("expected error for wrong feature width")
	}
}
