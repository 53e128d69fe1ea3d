package layers

import (
	"fmt"

	"rulformer/tensor"
)

// OutputHead turns the encoded window into the scalar prediction:
// flatten to [batch, L'*d_model], dropout, linear projection to one
// unit, ReLU. Its input width is fixed at construction and must match
// the conv front end's kernel parity.
type OutputHead struct {
	dropout *Dropout
	linear  *Linear
}

func NewOutputHead(inWidth int, dropout float64) *OutputHead {
	return &OutputHead{dropout: NewDropout(dropout), linear: NewLinear(inWidth, 1)}
}

func (h *OutputHead) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Shape) != 3 {
		return nil, fmt.Errorf("output head: want 3-D [batch, time, features], got %v", x.Shape)
	}
	flat, err := x.Reshape(x.Shape[0], x.Shape[1]*x.Shape[2])
	if err != nil {
		return nil, err
	}
	y, err := h.linear.Forward(h.dropout.Forward(flat))
	if err != nil {
		return nil, err
	}
	return tensor.Relu(y), nil
}

func (h *OutputHead) SetTraining(training bool) { h.dropout.SetTraining(training) }

func (h *OutputHead) Params() []NamedParam {
	return Prefixed("linear", h.linear.Params())
}
