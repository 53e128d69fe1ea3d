package layers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"rulformer/tensor"
)

// LayerNorm normalizes each feature vector (the last axis) to zero mean
// and unit variance, then applies a learned per-feature gain and bias.
type LayerNorm struct {
	Gain *tensor.Tensor // [size], ones
	Bias *tensor.Tensor // [size], zeros
	Eps  float64
}

func NewLayerNorm(size int) *LayerNorm {
	gain := tensor.New(size)
	for i := range gain.Data {
		gain.Data[i] = 1
	}
	return &LayerNorm{Gain: gain, Bias: tensor.New(size), Eps: 1e-5}
}

func (ln *LayerNorm) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	size := len(ln.Gain.Data)
	if x.Shape[len(x.Shape)-1] != size {
		return nil, fmt.Errorf("layer norm: feature width %d, want %d", x.Shape[len(x.Shape)-1], size)
	}
	out := tensor.New(x.Shape...)
	n := float64(size)
	for off := 0; off < len(x.Data); off += size {
		row := x.Data[off : off+size]
		mean := floats.Sum(row) / n
		variance := 0.0
		for _, v := range row {
			d := v - mean
			variance += d * d
		}
		variance /= n
		inv := 1 / math.Sqrt(variance+ln.Eps)
		for i, v := range row {
			out.Data[off+i] = (v-mean)*inv*ln.Gain.Data[i] + ln.Bias.Data[i]
		}
	}
	return out, nil
}

func (ln *LayerNorm) Params() []NamedParam {
	return []NamedParam{{Name: "gain", Value: ln.Gain}, {Name: "bias", Value: ln.Bias}}
}
