package tensor

import "testing"

func TestNewShape(t *testing.T) {
	t1 := New(2, 3)
	if len(t1.Data) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(t1.Data))
	}
	if len(t1.Shape) != 2 || t1.Shape[0] != 2 || t1.Shape[1] != 3 {
		t.Fatalf("unexpected shape: %v", t1.Shape)
	}
}

func TestAdd(t *testing.T) {
	a := &Tensor{Data: []float64{1, 2, 3}, Shape: []int{3}}
	b := &Tensor{Data: []float64{4, 5, 6}, Shape: []int{3}}
	c, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{5, 7, 9}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestAddShapeMismatch(t *testing.T) {
	a := New(2, 3)
	b := New(3, 2)
	if _, err := Add(a, b); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestMatMul(t *testing.T) {
	a := &Tensor{Data: []float64{1, 2, 3, 4}, Shape: []int{2, 2}}
	b := &Tensor{Data: []float64{5, 6, 7, 8}, Shape: []int{2, 2}}
	c, err := MatMul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{19, 22, 43, 50}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestMatMulDimMismatch(t *testing.T) {
	a := New(2, 3)
	b := New(2, 3)
	if _, err := MatMul(a, b); err == nil {
		t.Fatal("expected inner dimension error")
	}
}

func TestRelu(t *testing.T) {
	a := &Tensor{Data: []float64{-1, 0, 3}, Shape: []int{3}}
	c := Relu(a)
	want := []float64{0, 0, 3}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestAtSet(t *testing.T) {
	a := New(2, 3, 4)
	a.Set(7.5, 1, 2, 3)
	if got := a.At(1, 2, 3); got != 7.5 {
		t.Errorf("At(1,2,3) = %f, want 7.5", got)
	}
	if got := a.At(0, 0, 0); got != 0 {
		t.Errorf("At(0,0,0) = %f, want 0", got)
	}
}

func TestReshapeSharesStorage(t *testing.T) {
	a := New(2, 6)
	b, err := a.Reshape(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(2.5, 0, 1)
	if a.At(0, 1) != 2.5 {
		t.Error("reshape should share backing storage")
	}
	if _, err := a.Reshape(5, 5); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestMatrixViewWritesThrough(t *testing.T) {
	a := New(2, 2)
	m := a.Matrix(0, 2, 2)
	m.Set(0, 1, 3.25)
	if a.At(0, 1) != 3.25 {
		t.Error("Matrix view should write through to tensor storage")
	}
}
