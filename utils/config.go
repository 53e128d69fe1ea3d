package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rulformer/nn"
)

// Config holds one experiment's hyperparameters, as written by
// cmd/makeconfigs. Field names mirror the YAML keys.
type Config struct {
	Experiment  string  `yaml:"experiment"`
	Model       int     `yaml:"model"` // 1 = transformer, 2 = fnet hybrid
	DModel      int     `yaml:"d_model"`
	LWin        int     `yaml:"l_win"`
	BatchSize   int     `yaml:"batch_size"`
	NumWorkers  int     `yaml:"num_workers"`
	NHead       int     `yaml:"n_head"`
	DFF         int     `yaml:"dff"`
	NumLayers   int     `yaml:"num_layers"`
	LR          float64 `yaml:"lr"`
	WeightDecay float64 `yaml:"weight_decay"`
	NEpochs     int     `yaml:"n_epochs"`
	Dropout     float64 `yaml:"dropout"`
	KernelSize  int     `yaml:"kernel_size"`
	ResultDir   string  `yaml:"result_dir,omitempty"`
	ModelDir    string  `yaml:"model_dir,omitempty"`
}

// Variant maps the numeric model selector to the architecture variant.
func (c *Config) Variant() nn.Variant { return nn.Variant(c.Model) }

// LoadConfig reads and validates a YAML experiment config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ValidateConfig(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveConfig writes a config as YAML.
func SaveConfig(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ValidateConfig enforces the constraints model construction relies on,
// including the head-divisibility check the config side owns.
func ValidateConfig(c *Config) error {
	if c.Model != 1 && c.Model != 2 {
		return fmt.Errorf("model must be 1 (transformer) or 2 (fnet hybrid), got %d", c.Model)
	}
	if c.DModel <= 0 {
		return fmt.Errorf("d_model must be positive, got %d", c.DModel)
	}
	if c.NHead <= 0 {
		return fmt.Errorf("n_head must be positive, got %d", c.NHead)
	}
	if c.DModel%c.NHead != 0 {
		return fmt.Errorf("d_model %d must be divisible by n_head %d", c.DModel, c.NHead)
	}
	if c.LWin <= 0 {
		return fmt.Errorf("l_win must be positive, got %d", c.LWin)
	}
	if c.NumLayers < 1 {
		return fmt.Errorf("num_layers must be at least 1, got %d", c.NumLayers)
	}
	if c.KernelSize < 1 {
		return fmt.Errorf("kernel_size must be at least 1, got %d", c.KernelSize)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("dropout must be in [0, 1), got %g", c.Dropout)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}
