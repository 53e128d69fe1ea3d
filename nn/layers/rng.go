package layers

import (
	"math"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"rulformer/tensor"
)

// rng drives weight initialization and dropout for the whole package.
var rng = xrand.New(xrand.NewSource(1))

// Seed resets the package RNG. Entry points call this once, before any
// model construction, to make runs reproducible.
func Seed(seed uint64) {
	rng = xrand.New(xrand.NewSource(seed))
}

// randomArray samples size values uniformly from ±1/sqrt(v), the default
// fan-in initialization used for 1-D parameters and pre-Xavier weights.
func randomArray(size int, v float64) []float64 {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(v),
		Max: 1 / math.Sqrt(v),
		Src: rng,
	}

	data := make([]float64, size)
	for i := 0; i < size; i++ {
		data[i] = dist.Rand()
	}
	return data
}

// XavierUniform refills t in place from U(-a, a) with
// a = sqrt(6 / (fanIn + fanOut)). Applied to every parameter with more
// than one axis right after model assembly.
func XavierUniform(t *tensor.Tensor) {
	fanIn, fanOut := fans(t.Shape)
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -limit, Max: limit, Src: rng}
	for i := range t.Data {
		t.Data[i] = dist.Rand()
	}
}

// fans computes fan-in/fan-out for a parameter shaped [out, in, receptive...].
func fans(shape []int) (fanIn, fanOut int) {
	receptive := 1
	for _, d := range shape[2:] {
		receptive *= d
	}
	return shape[1] * receptive, shape[0] * receptive
}
