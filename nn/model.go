// Package nn assembles the windowed-regression encoder models: a pure
// self-attention Transformer and an FNet hybrid that spends one layer on
// attention and the remaining depth on Fourier token mixing.
package nn

import (
	"fmt"

	"rulformer/nn/layers"
	"rulformer/tensor"
)

// Variant selects the encoder architecture. The numeric values match the
// config file's model selector.
type Variant int

const (
	Transformer Variant = iota + 1
	FNetHybrid
)

// Device re-exports the layer-level device tag.
type Device = layers.Device

// CPU is the only supported device.
const CPU = layers.CPU

// Seed seeds the RNG behind initialization and dropout. Entry points
// call this once, before constructing any model.
func Seed(seed uint64) { layers.Seed(seed) }

// Model is a fully assembled window-to-scalar regressor. Forward is a
// pure function of the parameters and inputs; parameters only change
// between complete forward passes, via external updates. SetTraining
// toggles dropout; models are constructed in eval mode.
type Model interface {
	Forward(window, mask *tensor.Tensor) (*tensor.Tensor, error)
	SetTraining(training bool)
	Params() []layers.NamedParam
}

// TransformerModel: conv front end → positional encoding → N-layer
// self-attention encoder → output head.
type TransformerModel struct {
	conv     *layers.ConvFrontend
	position *layers.PositionalEncoding
	encoder  *layers.Encoder
	head     *layers.OutputHead
	device   Device
}

func (m *TransformerModel) Forward(window, mask *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := m.conv.Forward(window)
	if err != nil {
		return nil, err
	}
	if x, err = m.position.Forward(x); err != nil {
		return nil, err
	}
	if x, err = m.encoder.Forward(x, mask); err != nil {
		return nil, err
	}
	return m.head.Forward(x)
}

func (m *TransformerModel) SetTraining(training bool) {
	m.position.SetTraining(training)
	m.encoder.SetTraining(training)
	m.head.SetTraining(training)
}

func (m *TransformerModel) Params() []layers.NamedParam {
	var out []layers.NamedParam
	out = append(out, layers.Prefixed("conv", m.conv.Params())...)
	out = append(out, layers.Prefixed("encoder", m.encoder.Params())...)
	out = append(out, layers.Prefixed("head", m.head.Params())...)
	return out
}

// FNetHybridModel: conv front end → positional encoding → exactly one
// self-attention layer → (N-1)-layer Fourier-mixing stack → output head.
// One attention pass buys content-dependent mixing; the remaining depth
// runs at near-linear cost.
type FNetHybridModel struct {
	conv     *layers.ConvFrontend
	position *layers.PositionalEncoding
	trans    *layers.Encoder
	fnet     *layers.FNetEncoder
	head     *layers.OutputHead
	device   Device
}

func (m *FNetHybridModel) Forward(window, mask *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := m.conv.Forward(window)
	if err != nil {
		return nil, err
	}
	if x, err = m.position.Forward(x); err != nil {
		return nil, err
	}
	if x, err = m.trans.Forward(x, mask); err != nil {
		return nil, err
	}
	if x, err = m.fnet.Forward(x); err != nil {
		return nil, err
	}
	return m.head.Forward(x)
}

func (m *FNetHybridModel) SetTraining(training bool) {
	m.position.SetTraining(training)
	m.trans.SetTraining(training)
	m.fnet.SetTraining(training)
	m.head.SetTraining(training)
}

func (m *FNetHybridModel) Params() []layers.NamedParam {
	var out []layers.NamedParam
	out = append(out, layers.Prefixed("conv", m.conv.Params())...)
	out = append(out, layers.Prefixed("trans", m.trans.Params())...)
	out = append(out, layers.Prefixed("fnet", m.fnet.Params())...)
	out = append(out, layers.Prefixed("head", m.head.Params())...)
	return out
}

// FourierLayers reports the depth of the Fourier-mixing stack.
func (m *FNetHybridModel) FourierLayers() int { return m.fnet.Len() }

// defaultFF applies the d_ff default of four times the model width.
func defaultFF(dModel, dFF int) int {
	if dFF == 0 {
		return dModel * 4
	}
	return dFF
}

// xavierInit applies Xavier-uniform to every parameter with more than
// one axis; 1-D parameters keep their constructor defaults.
func xavierInit(m Model) {
	for _, p := range m.Params() {
		if len(p.Value.Shape) > 1 {
			layers.XavierUniform(p.Value)
		}
	}
}

// NewTransformerKernelOdd builds the pure-attention variant for an odd
// conv kernel, whose front end preserves the window length: the output
// head reads d_model*l_win values.
func NewTransformerKernelOdd(n, dModel, lWin int, device Device, kernelSize, dFF, h int, dropout float64) *TransformerModel {
	dFF = defaultFF(dModel, dFF)
	m := &TransformerModel{
		conv:     layers.NewConvFrontend(dModel, kernelSize),
		position: layers.NewPositionalEncoding(dModel, dropout, lWin),
		encoder:  layers.NewEncoder(dModel, h, dFF, device, dropout, n),
		head:     layers.NewOutputHead(dModel*lWin, dropout),
		device:   device,
	}
	xavierInit(m)
	return m
}

// NewTransformerKernelEven builds the pure-attention variant for an even
// conv kernel, whose front end shrinks the window by one step: the
// output head reads d_model*(l_win-1) values.
func NewTransformerKernelEven(n, dModel, lWin int, device Device, kernelSize, dFF, h int, dropout float64) *TransformerModel {
	dFF = defaultFF(dModel, dFF)
	m := &TransformerModel{
		conv:     layers.NewConvFrontend(dModel, kernelSize),
		position: layers.NewPositionalEncoding(dModel, dropout, lWin),
		encoder:  layers.NewEncoder(dModel, h, dFF, device, dropout, n),
		head:     layers.NewOutputHead(dModel*(lWin-1), dropout),
		device:   device,
	}
	xavierInit(m)
	return m
}

// NewFNetHybridKernelOdd builds the hybrid variant for an odd conv
// kernel: one attention layer plus n-1 Fourier-mixing layers. n=1 yields
// an empty Fourier stack and degenerates to pure attention.
func NewFNetHybridKernelOdd(n, dModel, lWin int, device Device, kernelSize, dFF, h int, dropout float64) *FNetHybridModel {
	dFF = defaultFF(dModel, dFF)
	m := &FNetHybridModel{
		conv:     layers.NewConvFrontend(dModel, kernelSize),
		position: layers.NewPositionalEncoding(dModel, dropout, lWin),
		trans:    layers.NewEncoder(dModel, h, dFF, device, dropout, 1),
		fnet:     layers.NewFNetEncoder(dModel, dFF, dropout, n-1),
		head:     layers.NewOutputHead(dModel*lWin, dropout),
		device:   device,
	}
	xavierInit(m)
	return m
}

// NewFNetHybridKernelEven is the even-kernel hybrid; the output head
// reads d_model*(l_win-1) values.
func NewFNetHybridKernelEven(n, dModel, lWin int, device Device, kernelSize, dFF, h int, dropout float64) *FNetHybridModel {
	dFF = defaultFF(dModel, dFF)
	m := &FNetHybridModel{
		conv:     layers.NewConvFrontend(dModel, kernelSize),
		position: layers.NewPositionalEncoding(dModel, dropout, lWin),
		trans:    layers.NewEncoder(dModel, h, dFF, device, dropout, 1),
		fnet:     layers.NewFNetEncoder(dModel, dFF, dropout, n-1),
		head:     layers.NewOutputHead(dModel*(lWin-1), dropout),
		device:   device,
	}
	xavierInit(m)
	return m
}

// Assemble validates the hyperparameters and dispatches to the factory
// matching variant and kernel parity. A zero dFF defaults to 4*d_model
// and a zero h defaults to 8 heads.
func Assemble(variant Variant, n, dModel, lWin int, device Device, kernelSize, dFF, h int, dropout float64) (Model, error) {
	if h == 0 {
		h = 8
	}
	if n < 1 {
		return nil, fmt.Errorf("assemble: num_layers must be >= 1, got %d", n)
	}
	if dModel%h != 0 {
		return nil, fmt.Errorf("assemble: d_model %d not divisible by n_head %d", dModel, h)
	}
	if kernelSize < 1 {
		return nil, fmt.Errorf("assemble: kernel_size must be >= 1, got %d", kernelSize)
	}
	even := kernelSize%2 == 0
	switch variant {
	case Transformer:
		if even {
			return NewTransformerKernelEven(n, dModel, lWin, device, kernelSize, dFF, h, dropout), nil
		}
		return NewTransformerKernelOdd(n, dModel, lWin, device, kernelSize, dFF, h, dropout), nil
	case FNetHybrid:
		if even {
			return NewFNetHybridKernelEven(n, dModel, lWin, device, kernelSize, dFF, h, dropout), nil
		}
		return NewFNetHybridKernelOdd(n, dModel, lWin, device, kernelSize, dFF, h, dropout), nil
	default:
		return nil, fmt.Errorf("assemble: unknown variant %d", variant)
	}
}
