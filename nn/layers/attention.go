package layers

import (
	"fmt"
	"math"

	"rulformer/tensor"
)

// maskedScore replaces excluded positions before the softmax; with
// float64 scores it behaves as negative infinity.
const maskedScore = -1e9

// Attention computes scaled dot-product attention over per-head blocks.
//
// q, k, v are [batch, h, L, d_k]; mask is nil or 0/1-valued with shape
// [batch, L, L], [1, L, L] or [L, L] and is broadcast across heads.
// Returns the weighted values [batch, h, L, d_k] and the attention
// weights [batch, h, L, L].
func Attention(q, k, v *tensor.Tensor, mask *tensor.Tensor, dropout *Dropout) (*tensor.Tensor, *tensor.Tensor, error) {
	if len(q.Shape) != 4 {
		return nil, nil, fmt.Errorf("attention: want 4-D [batch, heads, time, d_k], got %v", q.Shape)
	}
	if !tensor.SameShape(q, k) || !tensor.SameShape(q, v) {
		return nil, nil, fmt.Errorf("attention: shape mismatch q %v k %v v %v", q.Shape, k.Shape, v.Shape)
	}
	batch, heads, seqLen, dk := q.Shape[0], q.Shape[1], q.Shape[2], q.Shape[3]
	if mask != nil {
		if err := checkMask(mask, batch, seqLen); err != nil {
			return nil, nil, err
		}
	}

	scores := tensor.New(batch, heads, seqLen, seqLen)
	scale := 1 / math.Sqrt(float64(dk))
	for b := 0; b < batch; b++ {
		for h := 0; h < heads; h++ {
			qOff := (b*heads + h) * seqLen * dk
			sOff := (b*heads + h) * seqLen * seqLen
			sm := scores.Matrix(sOff, seqLen, seqLen)
			sm.Mul(q.Matrix(qOff, seqLen, dk), k.Matrix(qOff, seqLen, dk).T())
			sm.Scale(scale, sm)
			if mask != nil {
				for i := 0; i < seqLen; i++ {
					for j := 0; j < seqLen; j++ {
						if maskAt(mask, b, i, j) == 0 {
							scores.Data[sOff+i*seqLen+j] = maskedScore
						}
					}
				}
			}
			for i := 0; i < seqLen; i++ {
				softmaxRow(scores.Data[sOff+i*seqLen : sOff+(i+1)*seqLen])
			}
		}
	}

	weights := dropout.Forward(scores)
	out := tensor.New(batch, heads, seqLen, dk)
	for b := 0; b < batch; b++ {
		for h := 0; h < heads; h++ {
			vOff := (b*heads + h) * seqLen * dk
			wOff := (b*heads + h) * seqLen * seqLen
			out.Matrix(vOff, seqLen, dk).Mul(weights.Matrix(wOff, seqLen, seqLen), v.Matrix(vOff, seqLen, dk))
		}
	}
	return out, weights, nil
}

// softmaxRow applies a max-subtracted softmax in place.
func softmaxRow(row []float64) {
	maxVal := row[0]
	for _, v := range row {
		if v > maxVal {
			maxVal = v
		}
	}
	sum := 0.0
	for i, v := range row {
		e := math.Exp(v - maxVal)
		row[i] = e
		sum += e
	}
	for i := range row {
		row[i] /= sum
	}
}

func checkMask(mask *tensor.Tensor, batch, seqLen int) error {
	s := mask.Shape
	ok := false
	switch len(s) {
	case 2:
		ok = s[0] == seqLen && s[1] == seqLen
	case 3:
		ok = (s[0] == batch || s[0] == 1) && s[1] == seqLen && s[2] == seqLen
	}
	if !ok {
		return fmt.Errorf("attention: mask shape %v not broadcastable to [%d %d %d]", s, batch, seqLen, seqLen)
	}
	return nil
}

func maskAt(mask *tensor.Tensor, b, i, j int) float64 {
	if len(mask.Shape) == 2 {
		return mask.At(i, j)
	}
	if mask.Shape[0] == 1 {
		return mask.At(0, i, j)
	}
	return mask.At(b, i, j)
}

// MultiHeadAttention projects the input into h heads, runs scaled
// dot-product attention per head, concatenates and projects back.
type MultiHeadAttention struct {
	h  int
	dk int

	wq, wk, wv, wo *Linear
	dropout        *Dropout
	device         Device

	// Attn holds the weights of the most recent forward pass.
	Attn *tensor.Tensor
}

// NewMultiHeadAttention takes in the model size and the number of heads.
// The head count must evenly divide d_model.
func NewMultiHeadAttention(h, dModel int, device Device, dropout float64) *MultiHeadAttention {
	if dModel%h != 0 {
		panic(fmt.Sprintf("multi-head attention: d_model %d not divisible by h %d", dModel, h))
	}
	return &MultiHeadAttention{
		h:       h,
		dk:      dModel / h,
		wq:      NewLinear(dModel, dModel),
		wk:      NewLinear(dModel, dModel),
		wv:      NewLinear(dModel, dModel),
		wo:      NewLinear(dModel, dModel),
		dropout: NewDropout(dropout),
		device:  device,
	}
}

func (m *MultiHeadAttention) Forward(query, key, value, mask *tensor.Tensor) (*tensor.Tensor, error) {
	if len(query.Shape) != 3 {
		return nil, fmt.Errorf("multi-head attention: want 3-D [batch, time, features], got %v", query.Shape)
	}
	q, err := m.wq.Forward(query)
	if err != nil {
		return nil, err
	}
	k, err := m.wk.Forward(key)
	if err != nil {
		return nil, err
	}
	v, err := m.wv.Forward(value)
	if err != nil {
		return nil, err
	}

	out, attn, err := Attention(splitHeads(q, m.h, m.dk), splitHeads(k, m.h, m.dk), splitHeads(v, m.h, m.dk), mask, m.dropout)
	if err != nil {
		return nil, err
	}
	m.Attn = attn
	return m.wo.Forward(mergeHeads(out))
}

// splitHeads reshapes [batch, L, h*d_k] into [batch, h, L, d_k].
func splitHeads(x *tensor.Tensor, h, dk int) *tensor.Tensor {
	batch, seqLen := x.Shape[0], x.Shape[1]
	out := tensor.New(batch, h, seqLen, dk)
	for b := 0; b < batch; b++ {
		for t := 0; t < seqLen; t++ {
			src := (b*seqLen + t) * h * dk
			for hi := 0; hi < h; hi++ {
				dst := ((b*h+hi)*seqLen + t) * dk
				copy(out.Data[dst:dst+dk], x.Data[src+hi*dk:src+(hi+1)*dk])
			}
		}
	}
	return out
}

// mergeHeads reshapes [batch, h, L, d_k] back into [batch, L, h*d_k].
func mergeHeads(x *tensor.Tensor) *tensor.Tensor {
	batch, h, seqLen, dk := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	out := tensor.New(batch, seqLen, h*dk)
	for b := 0; b < batch; b++ {
		for hi := 0; hi < h; hi++ {
			for t := 0; t < seqLen; t++ {
				src := ((b*h+hi)*seqLen + t) * dk
				dst := (b*seqLen+t)*h*dk + hi*dk
				copy(out.Data[dst:dst+dk], x.Data[src:src+dk])
			}
		}
	}
	return out
}

func (m *MultiHeadAttention) SetTraining(training bool) { m.dropout.SetTraining(training) }

func (m *MultiHeadAttention) Params() []NamedParam {
	var out []NamedParam
	out = append(out, Prefixed("wq", m.wq.Params())...)
	out = append(out, Prefixed("wk", m.wk.Params())...)
	out = append(out, Prefixed("wv", m.wv.Params())...)
	out = append(out, Prefixed("wo", m.wo.Params())...)
	return out
}
