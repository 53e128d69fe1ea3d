package layers

import (
	"math"
	"testing"

	"rulformer/tensor"
)

func TestPositionalEncodingDeterministic(t *testing.T) {
	a := NewPositionalEncoding(8, 0, 50)
	b := NewPositionalEncoding(8, 0, 50)
	ta, tb := a.Table(50), b.Table(50)
	for i := range ta.Data {
		if ta.Data[i] != tb.Data[i] {
			t.Fatalf("tables differ at %d: %f vs %f", i, ta.Data[i], tb.Data[i])
		}
	}
}

func TestPositionalEncodingValues(t *testing.T) {
	const d = 8
	pe := NewPositionalEncoding(d, 0, 20)
	table := pe.Table(20)
	for pos := 0; pos < 20; pos++ {
		for i := 0; 2*i < d; i++ {
			freq := float64(pos) / math.Pow(10000, float64(2*i)/float64(d))
			if got, want := table.At(pos, 2*i), math.Sin(freq); math.Abs(got-want) > 1e-12 {
				t.Errorf("pe[%d][%d] = %f, want sin %f", pos, 2*i, got, want)
			}
			if got, want := table.At(pos, 2*i+1), math.Cos(freq); math.Abs(got-want) > 1e-12 {
				t.Errorf("pe[%d][%d] = %f, want cos %f", pos, 2*i+1, got, want)
			}
		}
	}
}

func TestPositionalEncodingOddWidth(t *testing.T) {
	// With an odd feature width the cosine columns must carry the same
	// values as the even formula restricted to the narrower range.
	const d = 5
	pe := NewPositionalEncoding(d, 0, 10)
	table := pe.Table(10)
	for pos := 0; pos < 10; pos++ {
		for col := 0; col < d; col++ {
			i := col / 2
			freq := float64(pos) / math.Pow(10000, float64(2*i)/float64(d))
			want := math.Sin(freq)
			if col%2 == 1 {
				want = math.Cos(freq)
			}
			if got := table.At(pos, col); math.Abs(got-want) > 1e-12 {
				t.Errorf("pe[%d][%d] = %f, want %f", pos, col, got, want)
			}
		}
	}
}

func TestPositionalEncodingForward(t *testing.T) {
	pe := NewPositionalEncoding(4, 0, 10)
	x := tensor.New(3, 6, 4)
	out, err := pe.Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	if !tensor.SameShape(out, x) {
		t.Fatalf("output shape %v, want %v", out.Shape, x.Shape)
	}
	// Zero input: output equals the sliced table, repeated per batch.
	table := pe.Table(6)
	for b := 0; b < 3; b++ {
		for i := 0; i < 6*4; i++ {
			if out.Data[b*24+i] != table.Data[i] {
				t.Fatalf("batch %d: out[%d] = %f, want %f", b, i, out.Data[b*24+i], table.Data[i])
			}
		}
	}
}

func TestPositionalEncodingTooLong(t *testing.T) {
	pe := NewPositionalEncoding(4, 0, 5)
	if _, err := pe.Forward(tensor.New(1, 6, 4)); err == nil {
		t.Error("expected error for sequence longer than max_len")
	}
}
