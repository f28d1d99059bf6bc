package terrastat

import (
	"math"
	"testing"

	"github.com/terra8/terra8"
)

func TestSummarize(t *testing.T) {
	r := terra8.NewRaster2D[float64](3, 1, -9999)
	r.Set(0, 0, 1)
	r.Set(1, 0, 2)
	r.Set(2, 0, -9999)

	s := Summarize(r, 4)
	if s.NumDataCells != 2 {
		t.Errorf("NumDataCells = %d, want 2", s.NumDataCells)
	}
	if s.Min != 1 || s.Max != 2 {
		t.Errorf("Min/Max = %v/%v, want 1/2", s.Min, s.Max)
	}
	if math.Abs(s.Mean-1.5) > 1e-9 {
		t.Errorf("Mean = %v, want 1.5", s.Mean)
	}
	var total int64
	for _, c := range s.Histogram {
		total += c
	}
	if total != s.NumDataCells {
		t.Errorf("histogram total = %d, want %d", total, s.NumDataCells)
	}
}

func TestSummarizeAllNoData(t *testing.T) {
	r := terra8.NewRaster2D[float64](2, 2, -9999)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r.Set(x, y, -9999)
		}
	}
	s := Summarize(r, 4)
	if s.NumDataCells != 0 {
		t.Errorf("NumDataCells = %d, want 0", s.NumDataCells)
	}
}
