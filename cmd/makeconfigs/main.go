// makeconfigs: generate one YAML experiment config per point of the
// hyperparameter grid.
//
// Usage:
//
//	makeconfigs --out=configs --d_model=23 --model=1
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rulformer/utils"
)

var (
	outDir    = flag.String("out", "configs", "Directory for generated config files")
	dModel    = flag.Int("d_model", 23, "Feature width of the dataset variant")
	modelKind = flag.Int("model", 1, "Model kind: 1 transformer, 2 fnet hybrid")
)

var grid = struct {
	lWin        []int
	batchSize   []int
	numWorkers  []int
	nHead       []int
	dff         []int
	numLayers   []int
	lr          []float64
	weightDecay []float64
	nEpochs     []int
	dropout     []float64
	kernelSize  []int
}{
	lWin:        []int{115, 117, 120, 123, 125},
	batchSize:   []int{64, 128},
	numWorkers:  []int{2},
	nHead:       []int{23},
	dff:         []int{128, 256},
	numLayers:   []int{2, 3, 4},
	lr:          []float64{0.001},
	weightDecay: []float64{0.0005},
	nEpochs:     []int{2},
	dropout:     []float64{0.1},
	kernelSize:  []int{3, 5, 7},
}

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "creating %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	count := 0
	for _, lWin := range grid.lWin {
		for _, batch := range grid.batchSize {
			for _, workers := range grid.numWorkers {
				for _, nHead := range grid.nHead {
					for _, dff := range grid.dff {
						for _, layers := range grid.numLayers {
							for _, lr := range grid.lr {
								for _, decay := range grid.weightDecay {
									for _, epochs := range grid.nEpochs {
										for _, dropout := range grid.dropout {
											for _, kernel := range grid.kernelSize {
												c := &utils.Config{
													Model:       *modelKind,
													DModel:      *dModel,
													LWin:        lWin,
													BatchSize:   batch,
													NumWorkers:  workers,
													NHead:       nHead,
													DFF:         dff,
													NumLayers:   layers,
													LR:          lr,
													WeightDecay: decay,
													NEpochs:     epochs,
													Dropout:     dropout,
													KernelSize:  kernel,
												}
												c.Experiment = experimentName(c)
												if err := utils.ValidateConfig(c); err != nil {
													fmt.Fprintf(os.Stderr, "skipping %s: %v\n", c.Experiment, err)
													continue
												}
												path := filepath.Join(*outDir, c.Experiment+".yml")
												if err := utils.SaveConfig(path, c); err != nil {
													fmt.Fprintf(os.Stderr, "writing %s: %v\n", path, err)
													os.Exit(1)
												}
												fmt.Println(c.Experiment)
												count++
											}
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
	fmt.Printf("GENERATED %d CONFIGS in %s\n", count, *outDir)
}

func experimentName(c *utils.Config) string {
	name := fmt.Sprintf("%dstacks_%dnhead_%dlwin_%glr_%ddff_%dbatch_%depcs_%gdropout",
		c.NumLayers, c.NHead, c.LWin, c.LR, c.DFF, c.BatchSize, c.NEpochs, c.Dropout)
	return strings.ReplaceAll(name, ".", "_")
}
