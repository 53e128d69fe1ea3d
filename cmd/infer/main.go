// infer: run a trained (or freshly initialized) encoder model over a
// windowed series and report regression metrics.
//
// The data CSV carries d_model feature columns followed by one target
// column; each window's target is the value at its last row.
//
// Usage:
//
//	infer --config=configs/exp.yml --weights=model.json --data=test.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"rulformer/dataset"
	"rulformer/nn"
	"rulformer/utils"
)

var (
	configPath  = flag.String("config", "", "Experiment config YAML (required)")
	weightsPath = flag.String("weights", "", "Model weights JSON; random init if empty")
	dataPath    = flag.String("data", "", "Data CSV: d_model feature columns + target column (required)")
	hasHeader   = flag.Bool("header", false, "Data CSV has a header row")
	seed        = flag.Uint64("seed", 42, "Random seed")
	verbose     = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose
	if *configPath == "" || *dataPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		fail(err)
	}
	nn.Seed(*seed)

	stats := &utils.ForwardStats{}

	start := time.Now()
	model, err := nn.Assemble(cfg.Variant(), cfg.NumLayers, cfg.DModel, cfg.LWin,
		nn.CPU, cfg.KernelSize, cfg.DFF, cfg.NHead, cfg.Dropout)
	if err != nil {
		fail(err)
	}
	if *weightsPath != "" {
		w, err := utils.LoadWeights(*weightsPath)
		if err != nil {
			fail(err)
		}
		if err := utils.ApplyWeights(model.Params(), w); err != nil {
			fail(err)
		}
	}
	stats.ModelInitTime = time.Since(start)

	start = time.Now()
	rows, err := dataset.LoadCSV(*dataPath, *hasHeader)
	if err != nil {
		fail(err)
	}
	features, targets, err := splitTarget(rows, cfg.DModel)
	if err != nil {
		fail(err)
	}
	dataset.MinMaxScale(features)
	windows, err := dataset.Windows(features, cfg.LWin)
	if err != nil {
		fail(err)
	}
	// Target at each window's last timestep.
	windowTargets := targets[cfg.LWin-1:]
	batches, err := dataset.Batches(windows, windowTargets, cfg.BatchSize)
	if err != nil {
		fail(err)
	}
	stats.DataLoadingTime = time.Since(start)

	var preds, actual []float64
	start = time.Now()
	for _, batch := range batches {
		out, err := model.Forward(batch.X, nil)
		if err != nil {
			fail(err)
		}
		preds = append(preds, out.Data...)
		actual = append(actual, batch.Y...)
		stats.Batches++
	}
	stats.ForwardPassTime = time.Since(start)

	rmse, err := utils.RMSE(preds, actual)
	if err != nil {
		fail(err)
	}
	score, err := utils.Score(preds, actual)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Experiment: %s\n", cfg.Experiment)
	fmt.Printf("Windows:    %d\n", len(preds))
	fmt.Printf("RMSE:       %.4f\n", rmse)
	fmt.Printf("Score:      %.4f\n", score)
	stats.Print()
}

// splitTarget separates the feature columns from the trailing target
// column.
func splitTarget(rows [][]float64, dModel int) ([][]float64, []float64, error) {
	features := make([][]float64, len(rows))
	targets := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != dModel+1 {
			return nil, nil, fmt.Errorf("row %d has %d columns, want %d features + 1 target", i, len(row), dModel)
		}
		features[i] = row[:dModel]
		targets[i] = row[dModel]
	}
	return features, targets, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
