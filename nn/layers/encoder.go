package layers

import (
	"fmt"

	"rulformer/tensor"
)

// EncoderLayer is one self-attention encoder block: multi-head attention
// and a position-wise feed-forward, each wrapped in its own pre-norm
// residual connection.
type EncoderLayer struct {
	selfAttn *MultiHeadAttention
	ff       *PositionwiseFeedForward
	subs     [2]*SublayerConn
}

func NewEncoderLayer(size, h, dFF int, device Device, dropout float64) *EncoderLayer {
	return &EncoderLayer{
		selfAttn: NewMultiHeadAttention(h, size, device, dropout),
		ff:       NewPositionwiseFeedForward(size, dFF, dropout),
		subs:     [2]*SublayerConn{NewSublayerConn(size, dropout), NewSublayerConn(size, dropout)},
	}
}

func (e *EncoderLayer) Forward(x, mask *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := e.subs[0].Forward(x, mask, selfAttention{e.selfAttn})
	if err != nil {
		return nil, err
	}
	return e.subs[1].Forward(x, nil, feedForward{e.ff})
}

func (e *EncoderLayer) SetTraining(training bool) {
	e.selfAttn.SetTraining(training)
	e.ff.SetTraining(training)
	e.subs[0].SetTraining(training)
	e.subs[1].SetTraining(training)
}

func (e *EncoderLayer) Params() []NamedParam {
	var out []NamedParam
	out = append(out, Prefixed("self_attn", e.selfAttn.Params())...)
	out = append(out, Prefixed("feed_forward", e.ff.Params())...)
	out = append(out, Prefixed("sublayer.0", e.subs[0].Params())...)
	out = append(out, Prefixed("sublayer.1", e.subs[1].Params())...)
	return out
}

// FNetEncoderLayer swaps the attention sublayer for Fourier mixing; the
// feed-forward half is identical. Fourier mixing never takes a mask.
type FNetEncoderLayer struct {
	fft  *FourierMixing
	ff   *PositionwiseFeedForward
	subs [2]*SublayerConn
}

func NewFNetEncoderLayer(size, dFF int, dropout float64) *FNetEncoderLayer {
	return &FNetEncoderLayer{
		fft:  NewFourierMixing(),
		ff:   NewPositionwiseFeedForward(size, dFF, dropout),
		subs: [2]*SublayerConn{NewSublayerConn(size, dropout), NewSublayerConn(size, dropout)},
	}
}

func (e *FNetEncoderLayer) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := e.subs[0].Forward(x, nil, fourierMix{e.fft})
	if err != nil {
		return nil, err
	}
	return e.subs[1].Forward(x, nil, feedForward{e.ff})
}

func (e *FNetEncoderLayer) SetTraining(training bool) {
	e.ff.SetTraining(training)
	e.subs[0].SetTraining(training)
	e.subs[1].SetTraining(training)
}

func (e *FNetEncoderLayer) Params() []NamedParam {
	var out []NamedParam
	out = append(out, Prefixed("feed_forward", e.ff.Params())...)
	out = append(out, Prefixed("sublayer.0", e.subs[0].Params())...)
	out = append(out, Prefixed("sublayer.1", e.subs[1].Params())...)
	return out
}

// Encoder is a stack of N independently parameterized self-attention
// layers with a trailing layer norm. Layers never share storage: each
// slot gets a freshly initialized instance.
type Encoder struct {
	layers []*EncoderLayer
	norm   *LayerNorm
}

func NewEncoder(size, h, dFF int, device Device, dropout float64, n int) *Encoder {
	if n < 1 {
		panic(fmt.Sprintf("encoder: need at least 1 layer, got %d", n))
	}
	ls := make([]*EncoderLayer, n)
	for i := range ls {
		ls[i] = NewEncoderLayer(size, h, dFF, device, dropout)
	}
	return &Encoder{layers: ls, norm: NewLayerNorm(size)}
}

// Forward passes the input (and mask) through each layer in turn.
func (e *Encoder) Forward(x, mask *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	for _, layer := range e.layers {
		if x, err = layer.Forward(x, mask); err != nil {
			return nil, err
		}
	}
	return e.norm.Forward(x)
}

func (e *Encoder) Len() int { return len(e.layers) }

func (e *Encoder) SetTraining(training bool) {
	for _, layer := range e.layers {
		layer.SetTraining(training)
	}
}

func (e *Encoder) Params() []NamedParam {
	var out []NamedParam
	for i, layer := range e.layers {
		out = append(out, Prefixed(fmt.Sprintf("layers.%d", i), layer.Params())...)
	}
	out = append(out, Prefixed("norm", e.norm.Params())...)
	return out
}

// FNetEncoder is a stack of N Fourier-mixing layers with a trailing
// layer norm. A zero-layer stack is valid and reduces to the norm alone.
type FNetEncoder struct {
	layers []*FNetEncoderLayer
	norm   *LayerNorm
}

func NewFNetEncoder(size, dFF int, dropout float64, n int) *FNetEncoder {
	ls := make([]*FNetEncoderLayer, n)
	for i := range ls {
		ls[i] = NewFNetEncoderLayer(size, dFF, dropout)
	}
	return &FNetEncoder{layers: ls, norm: NewLayerNorm(size)}
}

func (e *FNetEncoder) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	for _, layer := range e.layers {
		if x, err = layer.Forward(x); err != nil {
			return nil, err
		}
	}
	return e.norm.Forward(x)
}

func (e *FNetEncoder) Len() int { return len(e.layers) }

func (e *FNetEncoder) SetTraining(training bool) {
	for _, layer := range e.layers {
		layer.SetTraining(training)
	}
}

func (e *FNetEncoder) Params() []NamedParam {
	var out []NamedParam
	for i, layer := range e.layers {
		out = append(out, Prefixed(fmt.Sprintf("layers.%d", i), layer.Params())...)
	}
	out = append(out, Prefixed("norm", e.norm.Params())...)
	return out
}
