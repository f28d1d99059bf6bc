// Package terrastat computes summary statistics over a terra8 raster for
// the CLI's report subcommand, so a caller can sanity-check a computed
// area or terrain raster without opening the output file in another tool.
package terrastat

import (
	"github.com/GaryBoone/GoStats/stats"
	"github.com/terra8/terra8"
	"gonum.org/v1/gonum/floats"
)

// Summary holds the min/mean/max/standard-deviation of a raster's data
// cells, plus a coarse histogram for the report subcommand's text output.
type Summary struct {
	NumDataCells int64
	Min, Mean, Max, StdDev float64
	Histogram    []int64
	BinWidth     float64
}

// Summarize computes a Summary over every non-nodata cell of r. It returns
// a zero Summary if r has no data cells.
func Summarize(r *terra8.Raster2D[float64], bins int) Summary {
	vals := make([]float64, 0, r.Size())
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			if r.IsNoData(x, y) {
				continue
			}
			vals = append(vals, r.Get(x, y))
		}
	}
	if len(vals) == 0 {
		return Summary{}
	}

	s := Summary{
		NumDataCells: int64(len(vals)),
		Min:          floats.Min(vals),
		Max:          floats.Max(vals),
		Mean:         stats.StatsMean(vals),
		StdDev:       stats.StatsSampleStandardDeviation(vals),
	}

	if bins < 1 {
		bins = 1
	}
	s.BinWidth = (s.Max - s.Min) / float64(bins)
	s.Histogram = make([]int64, bins)
	if s.BinWidth == 0 {
		s.Histogram[0] = s.NumDataCells
		return s
	}
	for _, v := range vals {
		bin := int((v - s.Min) / s.BinWidth)
		if bin >= bins {
			bin = bins - 1
		}
		s.Histogram[bin]++
	}
	return s
}
