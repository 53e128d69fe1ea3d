package layers

import "rulformer/tensor"

// PositionwiseFeedForward applies the two-layer FFN equation to every
// position independently: w2(dropout(relu(w1 x))).
type PositionwiseFeedForward struct {
	w1, w2  *Linear
	dropout *Dropout
}

func NewPositionwiseFeedForward(dModel, dFF int, dropout float64) *PositionwiseFeedForward {
	return &PositionwiseFeedForward{
		w1:      NewLinear(dModel, dFF),
		w2:      NewLinear(dFF, dModel),
		dropout: NewDropout(dropout),
	}
}

func (f *PositionwiseFeedForward) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	h, err := f.w1.Forward(x)
	if err != nil {
		return nil, err
	}
	return f.w2.Forward(f.dropout.Forward(tensor.Relu(h)))
}

func (f *PositionwiseFeedForward) SetTraining(training bool) { f.dropout.SetTraining(training) }

func (f *PositionwiseFeedForward) Params() []NamedParam {
	var out []NamedParam
	out = append(out, Prefixed("w1", f.w1.Params())...)
	out = append(out, Prefixed("w2", f.w2.Params())...)
	return out
}
