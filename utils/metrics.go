package utils

import (
	"fmt"
	"math"
)

// RMSE returns the root-mean-square error between predictions and
// targets.
func RMSE(pred, target []float64) (float64, error) {
	if len(pred) != len(target) {
		return 0, fmt.Errorf("rmse: %d predictions vs %d targets", len(pred), len(target))
	}
	if len(pred) == 0 {
		return 0, fmt.Errorf("rmse: empty input")
	}
	sum := 0.0
	for i := range pred {
		d := pred[i] - target[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pred))), nil
}

// Score is the asymmetric PHM-style scoring function for remaining-life
// prediction: late predictions (positive error) are penalized more
// heavily than early ones.
func Score(pred, target []float64) (float64, error) {
	if len(pred) != len(target) {
		return 0, fmt.Errorf("score: %d predictions vs %d targets", len(pred), len(target))
	}
	total := 0.0
	for i := range pred {
		d := pred[i] - target[i]
		if d < 0 {
			total += math.Exp(-d/13) - 1
		} else {
			total += math.Exp(d/10) - 1
		}
	}
	return total, nil
}
