package layers

import "rulformer/tensor"

// Sublayer is the fixed signature every mixing or transform step exposes
// to its residual wrapper: an input tensor plus an optional mask, a
// same-shape output. Sublayers that need no mask ignore it.
type Sublayer interface {
	Forward(x, mask *tensor.Tensor) (*tensor.Tensor, error)
}

// SublayerConn wraps a sublayer in a pre-norm residual connection:
// x + dropout(f(norm(x))). The norm runs before the sublayer, not after.
type SublayerConn struct {
	norm    *LayerNorm
	dropout *Dropout
}

func NewSublayerConn(size int, dropout float64) *SublayerConn {
	return &SublayerConn{norm: NewLayerNorm(size), dropout: NewDropout(dropout)}
}

func (s *SublayerConn) Forward(x, mask *tensor.Tensor, f Sublayer) (*tensor.Tensor, error) {
	normed, err := s.norm.Forward(x)
	if err != nil {
		return nil, err
	}
	y, err := f.Forward(normed, mask)
	if err != nil {
		return nil, err
	}
	return tensor.Add(x, s.dropout.Forward(y))
}

func (s *SublayerConn) SetTraining(training bool) { s.dropout.SetTraining(training) }

func (s *SublayerConn) Params() []NamedParam {
	return Prefixed("norm", s.norm.Params())
}

// selfAttention adapts MultiHeadAttention to the Sublayer signature by
// using the input as query, key and value.
type selfAttention struct{ attn *MultiHeadAttention }

func (s selfAttention) Forward(x, mask *tensor.Tensor) (*tensor.Tensor, error) {
	return s.attn.Forward(x, x, x, mask)
}

// feedForward adapts PositionwiseFeedForward; the mask does not apply.
type feedForward struct{ ff *PositionwiseFeedForward }

func (f feedForward) Forward(x, _ *tensor.Tensor) (*tensor.Tensor, error) {
	return f.ff.Forward(x)
}

// fourierMix adapts FourierMixing; the mask does not apply.
type fourierMix struct{ fft *FourierMixing }

func (f fourierMix) Forward(x, _ *tensor.Tensor) (*tensor.Tensor, error) {
	return f.fft.Forward(x, x, x)
}
