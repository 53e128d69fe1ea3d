package layers

import (
	"fmt"

	"rulformer/tensor"
)

// ConvFrontend extracts high-level per-timestep features from the raw
// window with a 1-D convolution over the time axis (channels = features)
// followed by ReLU.
//
// Both ends of the time axis are zero-padded by floor((kernel-1)/2). For
// odd kernels that preserves the window length; for even kernels the
// output is one step shorter. The output head widths account for the
// shrink.
type ConvFrontend struct {
	W *tensor.Tensor // [d_model, d_model, kernel]
	B *tensor.Tensor // [d_model]

	kernelSize int
	pad        int
}

func NewConvFrontend(dModel, kernelSize int) *ConvFrontend {
	fanIn := float64(dModel * kernelSize)
	return &ConvFrontend{
		W:          &tensor.Tensor{Data: randomArray(dModel*dModel*kernelSize, fanIn), Shape: []int{dModel, dModel, kernelSize}},
		B:          &tensor.Tensor{Data: randomArray(dModel, fanIn), Shape: []int{dModel}},
		kernelSize: kernelSize,
		pad:        (kernelSize - 1) / 2,
	}
}

// Forward maps [batch, L, d_model] to [batch, L', d_model] with
// L' = L + 2*floor((kernel-1)/2) - kernel + 1.
func (c *ConvFrontend) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Shape) != 3 {
		return nil, fmt.Errorf("conv frontend: want 3-D [batch, time, features], got %v", x.Shape)
	}
	batch, seqLen, d := x.Shape[0], x.Shape[1], x.Shape[2]
	if d != c.W.Shape[1] {
		return nil, fmt.Errorf("conv frontend: feature width %d, want %d", d, c.W.Shape[1])
	}
	outLen := seqLen + 2*c.pad - c.kernelSize + 1
	if outLen < 1 {
		return nil, fmt.Errorf("conv frontend: window length %d too short for kernel %d", seqLen, c.kernelSize)
	}
	k := c.kernelSize
	out := tensor.New(batch, outLen, d)
	for b := 0; b < batch; b++ {
		for t := 0; t < outLen; t++ {
			for co := 0; co < d; co++ {
				sum := c.B.Data[co]
				wBase := co * d * k
				for j := 0; j < k; j++ {
					ti := t + j - c.pad
					if ti < 0 || ti >= seqLen {
						continue
					}
					xBase := (b*seqLen + ti) * d
					for ci := 0; ci < d; ci++ {
						sum += x.Data[xBase+ci] * c.W.Data[wBase+ci*k+j]
					}
				}
				if sum > 0 {
					out.Data[(b*outLen+t)*d+co] = sum
				}
			}
		}
	}
	return out, nil
}

func (c *ConvFrontend) Params() []NamedParam {
	return []NamedParam{{Name: "weight", Value: c.W}, {Name: "bias", Value: c.B}}
}
