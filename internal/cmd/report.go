package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terra8/terra8/terrastat"
)

var reportCmd = &cobra.Command{
	Use:   "report [raster file]",
	Short: "Print summary statistics for a raster",
	Long: `report reads a raster in the codec named by Format in the
configuration file (ESRI ASCII Grid by default, or NetCDF) and prints
its minimum, mean, maximum, standard deviation, and a histogram, so a
caller can sanity-check a computed raster without opening it in
another tool.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(args[0])
	},
	DisableAutoGenTag: true,
}

func runReport(path string) error {
	r, err := readRaster(path)
	if err != nil {
		return err
	}
	s := terrastat.Summarize(r, bins)
	fmt.Printf("data cells: %d\n", s.NumDataCells)
	fmt.Printf("min: %v  mean: %v  max: %v  stddev: %v\n", s.Min, s.Mean, s.Max, s.StdDev)
	for i, count := range s.Histogram {
		lo := s.Min + float64(i)*s.BinWidth
		hi := lo + s.BinWidth
		fmt.Printf("  [%v, %v): %d\n", lo, hi, count)
	}
	return nil
}
