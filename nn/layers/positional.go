package layers

import (
	"fmt"
	"math"

	"rulformer/tensor"
)

// PositionalEncoding adds the fixed sinusoidal position table of
// Vaswani et al. to the input, then applies dropout. The table is
// computed once at construction up to maxLen and sliced to the actual
// sequence length on each call.
type PositionalEncoding struct {
	pe      *tensor.Tensor // [maxLen, d_model], deterministic buffer
	dropout *Dropout
}

func NewPositionalEncoding(dModel int, dropout float64, maxLen int) *PositionalEncoding {
	pe := tensor.New(maxLen, dModel)
	// An odd d_model has one more sine column than cosine columns; the
	// cosine loop simply stops one pair short. The divisor keeps d_model
	// in the denominator, so the surviving cosine columns carry exactly
	// the even-width values.
	sinCols := (dModel + 1) / 2
	cosCols := dModel / 2
	for pos := 0; pos < maxLen; pos++ {
		p := float64(pos)
		for i := 0; i < sinCols; i++ {
			div := math.Exp(float64(2*i) * -math.Log(10000) / float64(dModel))
			pe.Set(math.Sin(p*div), pos, 2*i)
		}
		for i := 0; i < cosCols; i++ {
			div := math.Exp(float64(2*i) * -math.Log(10000) / float64(dModel))
			pe.Set(math.Cos(p*div), pos, 2*i+1)
		}
	}
	return &PositionalEncoding{pe: pe, dropout: NewDropout(dropout)}
}

func (p *PositionalEncoding) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Shape) != 3 {
		return nil, fmt.Errorf("positional encoding: want 3-D [batch, time, features], got %v", x.Shape)
	}
	batch, seqLen, d := x.Shape[0], x.Shape[1], x.Shape[2]
	maxLen := p.pe.Shape[0]
	if d != p.pe.Shape[1] {
		return nil, fmt.Errorf("positional encoding: feature width %d, want %d", d, p.pe.Shape[1])
	}
	if seqLen > maxLen {
		return nil, fmt.Errorf("positional encoding: sequence length %d exceeds max %d", seqLen, maxLen)
	}
	out := tensor.New(x.Shape...)
	for b := 0; b < batch; b++ {
		base := b * seqLen * d
		for i := 0; i < seqLen*d; i++ {
			out.Data[base+i] = x.Data[base+i] + p.pe.Data[i]
		}
	}
	return p.dropout.Forward(out), nil
}

// Table exposes the precomputed encoding, sliced to length seqLen.
func (p *PositionalEncoding) Table(seqLen int) *tensor.Tensor {
	d := p.pe.Shape[1]
	out := tensor.New(seqLen, d)
	copy(out.Data, p.pe.Data[:seqLen*d])
	return out
}

func (p *PositionalEncoding) SetTraining(training bool) { p.dropout.SetTraining(training) }

// Params is empty: the table is a deterministic buffer, not a learnable
// parameter.
func (p *PositionalEncoding) Params() []NamedParam { return nil }
