package layers

import "rulformer/tensor"

// NamedParam pairs a learnable tensor with its dotted path inside the
// owning model, e.g. "encoder.layers.0.self_attn.wq.weight".
type NamedParam struct {
	Name  string
	Value *tensor.Tensor
}

// Prefixed returns params with prefix+"." prepended to every name.
func Prefixed(prefix string, params []NamedParam) []NamedParam {
	out := make([]NamedParam, len(params))
	for i, p := range params {
		out[i] = NamedParam{Name: prefix + "." + p.Name, Value: p.Value}
	}
	return out
}

// Device names the memory space parameters live in. Only the host CPU
// backend exists; the value is recorded at construction for config parity
// and placement is a no-op.
type Device string

// CPU is the only supported device.
const CPU Device = "cpu"
