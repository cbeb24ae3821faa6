package sine

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Dataset holds sin(x) samples over one period.
//
// Each input row is [x, 1]; the constant column lets a bias-free Linear
// layer learn an offset.
type Dataset struct {
	Inputs  [][]float32 // [points, 2]
	Targets [][]float32 // [points, 1]
}

// NewDataset samples x = i/points·2π for i in [0, points).
func NewDataset(points int) (*Dataset, error) {
	if points <= 0 {
		return nil, fmt.Errorf("dataset needs at least one point, got %d", points)
	}
	d := &Dataset{
		Inputs:  make([][]float32, points),
		Targets: make([][]float32, points),
	}
	for i := range points {
		x := float32(i) / float32(points) * 2 * math.Pi
		d.Inputs[i] = []float32{x, 1}
		d.Targets[i] = []float32{float32(math.Sin(float64(x)))}
	}
	return d, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Inputs)
}

// WriteCSV writes the dataset as "x,y" rows with a header.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range d.Inputs {
		record := []string{
			strconv.FormatFloat(float64(d.Inputs[i][0]), 'g', -1, 32),
			strconv.FormatFloat(float64(d.Targets[i][0]), 'g', -1, 32),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a dataset written by WriteCSV.
func ReadCSV(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file is empty or missing header")
	}

	// Skip header row
	records = records[1:]

	d := &Dataset{
		Inputs:  make([][]float32, len(records)),
		Targets: make([][]float32, len(records)),
	}
	for i, record := range records {
		if len(record) != 2 {
			return nil, fmt.Errorf("invalid record length at row %d: got %d, want 2", i+1, len(record))
		}
		x, err := strconv.ParseFloat(record[0], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid x at row %d: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(record[1], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid y at row %d: %w", i+1, err)
		}
		d.Inputs[i] = []float32{float32(x), 1}
		d.Targets[i] = []float32{float32(y)}
	}
	return d, nil
}
