package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rulformer/nn"
)

func validConfig() *Config {
	return &Config{
		Experiment: "2stacks_23nhead_120lwin",
		Model:      1,
		DModel:     23,
		LWin:       120,
		BatchSize:  64,
		NHead:      23,
		DFF:        128,
		NumLayers:  2,
		LR:         0.001,
		NEpochs:    2,
		Dropout:    0.1,
		KernelSize: 3,
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.yml")

	want := validConfig()
	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, nn.Transformer, got.Variant())
}

func TestLoadConfigYAMLKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.yml")
	raw := `experiment: test
model: 2
d_model: 8
l_win: 10
batch_size: 4
n_head: 2
dff: 16
num_layers: 3
lr: 0.001
n_epochs: 1
dropout: 0.1
kernel_size: 4
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, nn.FNetHybrid, c.Variant())
	assert.Equal(t, 8, c.DModel)
	assert.Equal(t, 10, c.LWin)
	assert.Equal(t, 2, c.NHead)
	assert.Equal(t, 4, c.KernelSize)
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad model kind", func(c *Config) { c.Model = 3 }},
		{"head indivisible", func(c *Config) { c.DModel = 10; c.NHead = 4 }},
		{"zero d_model", func(c *Config) { c.DModel = 0 }},
		{"zero n_head", func(c *Config) { c.NHead = 0 }},
		{"zero l_win", func(c *Config) { c.LWin = 0 }},
		{"zero layers", func(c *Config) { c.NumLayers = 0 }},
		{"zero kernel", func(c *Config) { c.KernelSize = 0 }},
		{"dropout out of range", func(c *Config) { c.Dropout = 1 }},
		{"negative dropout", func(c *Config) { c.Dropout = -0.1 }},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			assert.Error(t, ValidateConfig(c))
		})
	}
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
