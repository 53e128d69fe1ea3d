// Package dataset prepares multivariate time series for the encoder
// models: CSV loading, per-feature scaling, sliding-window slicing and
// batching. Windows arrive at the model already shaped
// [batch, l_win, d_model]; the model never reshapes inputs.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"rulformer/tensor"
)

// LoadCSV reads a numeric CSV file into rows of float64. When hasHeader
// is set the first line is skipped.
func LoadCSV(path string, hasHeader bool) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if hasHeader && len(records) > 0 {
		records = records[1:]
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}

// MinMaxScale rescales each feature column into [0, 1] in place.
// Constant columns are left untouched.
func MinMaxScale(series [][]float64) {
	if len(series) == 0 {
		return
	}
	cols := len(series[0])
	col := make([]float64, len(series))
	for j := 0; j < cols; j++ {
		for i := range series {
			col[i] = series[i][j]
		}
		lo, hi := floats.Min(col), floats.Max(col)
		if hi == lo {
			continue
		}
		for i := range series {
			series[i][j] = (series[i][j] - lo) / (hi - lo)
		}
	}
}

// Windows slices a series of [rows][features] into overlapping windows
// of length lWin, one starting at every offset. Each window is a
// [lWin, features] tensor.
func Windows(series [][]float64, lWin int) ([]*tensor.Tensor, error) {
	if lWin < 1 {
		return nil, fmt.Errorf("window length must be positive, got %d", lWin)
	}
	if len(series) < lWin {
		return nil, fmt.Errorf("series length %d shorter than window %d", len(series), lWin)
	}
	d := len(series[0])
	out := make([]*tensor.Tensor, 0, len(series)-lWin+1)
	for start := 0; start+lWin <= len(series); start++ {
		w := tensor.New(lWin, d)
		for t := 0; t < lWin; t++ {
			if len(series[start+t]) != d {
				return nil, fmt.Errorf("ragged series: row %d has %d features, want %d", start+t, len(series[start+t]), d)
			}
			copy(w.Data[t*d:(t+1)*d], series[start+t])
		}
		out = append(out, w)
	}
	return out, nil
}

// Batch pairs one batched input tensor with its targets.
type Batch struct {
	X *tensor.Tensor // [batch, l_win, features]
	Y []float64
}

// Batches packs windows and per-window targets into [b, l_win, features]
// tensors. The final batch may be smaller.
func Batches(windows []*tensor.Tensor, targets []float64, batchSize int) ([]Batch, error) {
	if len(windows) != len(targets) {
		return nil, fmt.Errorf("%d windows vs %d targets", len(windows), len(targets))
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if len(windows) == 0 {
		return nil, nil
	}
	lWin, d := windows[0].Shape[0], windows[0].Shape[1]
	var out []Batch
	for start := 0; start < len(windows); start += batchSize {
		end := start + batchSize
		if end > len(windows) {
			end = len(windows)
		}
		n := end - start
		x := tensor.New(n, lWin, d)
		for i := 0; i < n; i++ {
			w := windows[start+i]
			if w.Shape[0] != lWin || w.Shape[1] != d {
				return nil, fmt.Errorf("window %d has shape %v, want [%d %d]", start+i, w.Shape, lWin, d)
			}
			copy(x.Data[i*lWin*d:(i+1)*lWin*d], w.Data)
		}
		out = append(out, Batch{X: x, Y: append([]float64(nil), targets[start:end]...)})
	}
	return out, nil
}
