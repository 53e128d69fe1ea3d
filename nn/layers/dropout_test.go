package layers

import (
	"testing"

	"rulformer/tensor"
)

func TestDropoutEvalIsIdentity(t *testing.T) {
	d := NewDropout(0.5)
	x := tensor.New(100)
	for i := range x.Data {
		x.Data[i] = 1
	}
	out := d.Forward(x)
	for i, v := range out.Data {
		if v != 1 {
			t.Fatalf("eval-mode dropout changed element %d", i)
		}
	}
}

func TestDropoutTrainingScalesSurvivors(t *testing.T) {
	Seed(3)
	d := NewDropout(0.5)
	d.SetTraining(true)
	x := tensor.New(1000)
	for i := range x.Data {
		x.Data[i] = 1
	}
	out := d.Forward(x)
	zeros, survivors := 0, 0
	for _, v := range out.Data {
		switch v {
		case 0:
			zeros++
		case 2: // 1 / (1 - 0.5)
			survivors++
		default:
			t.Fatalf("unexpected value %f", v)
		}
	}
	if zeros == 0 || survivors == 0 {
		t.Errorf("want a mix of dropped and kept elements, got %d/%d", zeros, survivors)
	}
}

func TestDropoutZeroProbability(t *testing.T) {
	d := NewDropout(0)
	d.SetTraining(true)
	x := tensor.New(10)
	if out := d.Forward(x); out != x {
		t.Error("p=0 dropout should be the identity")
	}
}
