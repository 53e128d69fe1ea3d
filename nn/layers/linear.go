package layers

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"rulformer/tensor"
)

// Linear is a fully-connected layer computing y = xWᵀ + B over the last
// axis; all leading axes are treated as batch.
type Linear struct {
	W *tensor.Tensor // [out, in]
	B *tensor.Tensor // [out]
}

func NewLinear(inDim, outDim int) *Linear {
	return &Linear{
		W: &tensor.Tensor{Data: randomArray(outDim*inDim, float64(inDim)), Shape: []int{outDim, inDim}},
		B: &tensor.Tensor{Data: randomArray(outDim, float64(inDim)), Shape: []int{outDim}},
	}
}

func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	in, out := l.W.Shape[1], l.W.Shape[0]
	if x.Shape[len(x.Shape)-1] != in {
		return nil, fmt.Errorf("linear: input width %d, want %d", x.Shape[len(x.Shape)-1], in)
	}
	rows := len(x.Data) / in
	shape := append(append([]int(nil), x.Shape[:len(x.Shape)-1]...), out)
	y := tensor.New(shape...)
	y.Matrix(0, rows, out).Mul(x.Matrix(0, rows, in), l.W.Matrix(0, out, in).T())
	for r := 0; r < rows; r++ {
		floats.Add(y.Data[r*out:(r+1)*out], l.B.Data)
	}
	return y, nil
}

func (l *Linear) Params() []NamedParam {
	return []NamedParam{{Name: "weight", Value: l.W}, {Name: "bias", Value: l.B}}
}
