package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"rulformer/nn/layers"
	"rulformer/tensor"
)

// WeightData is one serializable parameter tensor.
type WeightData struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// ModelWeights maps parameter names to tensors for a whole model.
type ModelWeights struct {
	Version string                `json:"version"`
	Params  map[string]WeightData `json:"params"`
}

// CollectWeights snapshots a model's named parameters.
func CollectWeights(params []layers.NamedParam) *ModelWeights {
	w := &ModelWeights{Version: "1.0", Params: make(map[string]WeightData, len(params))}
	for _, p := range params {
		w.Params[p.Name] = WeightData{
			Shape: append([]int(nil), p.Value.Shape...),
			Data:  append([]float64(nil), p.Value.Data...),
		}
	}
	return w
}

// ApplyWeights copies saved tensors back into a model's parameters,
// failing on any missing name or shape mismatch.
func ApplyWeights(params []layers.NamedParam, w *ModelWeights) error {
	for _, p := range params {
		saved, ok := w.Params[p.Name]
		if !ok {
			return fmt.Errorf("weights missing parameter %q", p.Name)
		}
		restored := &tensor.Tensor{Data: saved.Data, Shape: saved.Shape}
		if !tensor.SameShape(p.Value, restored) {
			return fmt.Errorf("parameter %q: saved shape %v, want %v", p.Name, saved.Shape, p.Value.Shape)
		}
		copy(p.Value.Data, saved.Data)
	}
	return nil
}

// SaveWeights saves model weights to a JSON file.
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadWeights loads model weights from a JSON file.
func LoadWeights(filepath string) (*ModelWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	var weights ModelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	return &weights, nil
}
