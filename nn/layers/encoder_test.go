package layers

import (
	"math"
	"testing"

	"rulformer/tensor"
)

func testInput(batch, seqLen, d int) *tensor.Tensor {
	x := tensor.New(batch, seqLen, d)
	for i := range x.Data {
		x.Data[i] = math.Sin(float64(i) * 0.61)
	}
	return x
}

func TestEncoderTrailingNormStatistics(t *testing.T) {
	Seed(7)
	enc := NewEncoder(8, 2, 16, CPU, 0, 2)
	out, err := enc.Forward(testInput(3, 6, 8), nil)
	if err != nil {
		t.Fatal(err)
	}
	for off := 0; off < len(out.Data); off += 8 {
		row := out.Data[off : off+8]
		mean, variance := 0.0, 0.0
		for _, v := range row {
			mean += v
		}
		mean /= 8
		for _, v := range row {
			variance += (v - mean) * (v - mean)
		}
		variance /= 8
		if math.Abs(mean) > 1e-9 || math.Abs(variance-1) > 1e-2 {
			t.Errorf("row at %d: mean %g variance %f, want ~0 and ~1", off, mean, variance)
		}
	}
}

func TestEncoderLayersAreIndependent(t *testing.T) {
	Seed(11)
	enc := NewEncoder(4, 2, 8, CPU, 0.1, 3)
	if enc.Len() != 3 {
		t.Fatalf("layer count %d, want 3", enc.Len())
	}
	// No two layers may share parameter storage.
	seen := map[*float64]string{}
	for _, p := range enc.Params() {
		if len(p.Value.Data) == 0 {
			continue
		}
		ptr := &p.Value.Data[0]
		if prev, ok := seen[ptr]; ok {
			t.Fatalf("params %q and %q share storage", prev, p.Name)
		}
		seen[ptr] = p.Name
	}
}

func TestEncoderRequiresLayers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero-layer encoder")
		}
	}()
	NewEncoder(4, 2, 8, CPU, 0, 0)
}

func TestFNetEncoderZeroLayers(t *testing.T) {
	enc := NewFNetEncoder(4, 8, 0, 0)
	if enc.Len() != 0 {
		t.Fatalf("layer count %d, want 0", enc.Len())
	}
	// Degenerate stack still applies its trailing norm.
	out, err := enc.Forward(testInput(1, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if out.Shape[0] != 1 || out.Shape[1] != 3 || out.Shape[2] != 4 {
		t.Errorf("output shape %v, want [1 3 4]", out.Shape)
	}
}

func TestFNetEncoderForward(t *testing.T) {
	Seed(13)
	enc := NewFNetEncoder(6, 12, 0, 2)
	out, err := enc.Forward(testInput(2, 5, 6))
	if err != nil {
		t.Fatal(err)
	}
	if out.Shape[0] != 2 || out.Shape[1] != 5 || out.Shape[2] != 6 {
		t.Fatalf("output shape %v, want [2 5 6]", out.Shape)
	}
	for i, v := range out.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite output at %d", i)
		}
	}
}

func TestEncoderLayerShapePreserved(t *testing.T) {
	Seed(17)
	layer := NewEncoderLayer(8, 2, 16, CPU, 0)
	x := testInput(2, 4, 8)
	out, err := layer.Forward(x, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !tensor.SameShape(out, x) {
		t.Errorf("output shape %v, want %v", out.Shape, x.Shape)
	}
}
