package layers

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"rulformer/tensor"
)

// FourierMixing is the parameter-free token-mixing alternative to
// attention: the real part of a DFT taken first along the feature axis,
// then along the time axis. Cost grows near-linearly with the window
// length instead of attention's quadratic growth, which is what makes
// deep hybrid stacks cheap.
type FourierMixing struct {
	featFFT *fourier.CmplxFFT
	timeFFT *fourier.CmplxFFT
}

func NewFourierMixing() *FourierMixing { return &FourierMixing{} }

// Forward mixes a single stream. Query, key and value must be the same
// tensor; distinct operands indicate a wiring bug and fail.
func (f *FourierMixing) Forward(query, key, value *tensor.Tensor) (*tensor.Tensor, error) {
	if query != key || key != value {
		return nil, fmt.Errorf("fourier mixing: query, key and value must be the same tensor")
	}
	if len(query.Shape) != 3 {
		return nil, fmt.Errorf("fourier mixing: want 3-D [batch, time, features], got %v", query.Shape)
	}
	batch, seqLen, d := query.Shape[0], query.Shape[1], query.Shape[2]
	if f.featFFT == nil || f.featFFT.Len() != d {
		f.featFFT = fourier.NewCmplxFFT(d)
	}
	if f.timeFFT == nil || f.timeFFT.Len() != seqLen {
		f.timeFFT = fourier.NewCmplxFFT(seqLen)
	}

	// Feature-axis pass.
	inter := make([]complex128, batch*seqLen*d)
	row := make([]complex128, d)
	for bt := 0; bt < batch*seqLen; bt++ {
		off := bt * d
		for i := 0; i < d; i++ {
			row[i] = complex(query.Data[off+i], 0)
		}
		f.featFFT.Coefficients(inter[off:off+d], row)
	}

	// Time-axis pass, keeping only the real part.
	out := tensor.New(batch, seqLen, d)
	col := make([]complex128, seqLen)
	colOut := make([]complex128, seqLen)
	for b := 0; b < batch; b++ {
		base := b * seqLen * d
		for j := 0; j < d; j++ {
			for t := 0; t < seqLen; t++ {
				col[t] = inter[base+t*d+j]
			}
			f.timeFFT.Coefficients(colOut, col)
			for t := 0; t < seqLen; t++ {
				out.Data[base+t*d+j] = real(colOut[t])
			}
		}
	}
	return out, nil
}

func (f *FourierMixing) Params() []NamedParam { return nil }
