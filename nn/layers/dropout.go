package layers

import "rulformer/tensor"

// Dropout zeroes each element with probability P during training and
// rescales survivors by 1/(1-P) so eval-mode activations need no
// correction. In eval mode (the default) it is the identity.
type Dropout struct {
	P        float64
	training bool
}

func NewDropout(p float64) *Dropout { return &Dropout{P: p} }

func (d *Dropout) SetTraining(training bool) { d.training = training }

func (d *Dropout) Forward(x *tensor.Tensor) *tensor.Tensor {
	if !d.training || d.P == 0 {
		return x
	}
	keep := 1 - d.P
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		if rng.Float64() < keep {
			out.Data[i] = v / keep
		}
	}
	return out
}
