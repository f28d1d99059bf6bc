package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terra8/terra8"
	"github.com/terra8/terra8/rasterio"
)

var upslopeCmd = &cobra.Command{
	Use:   "upslope",
	Short: "Trace D8 upslope area across a line",
	Long: `upslope marks every cell whose D8 flow path reaches a
user-specified line, either the endpoints named by UpslopeTrace in the
configuration file or the first line feature of LineShapefile, and
writes the result to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpslope(cmd.Context())
	},
	DisableAutoGenTag: true,
}

func runUpslope(ctx context.Context) error {
	path, err := resolveInput(ctx, cfg.DirectionFile)
	if err != nil {
		return err
	}
	dirRaw, err := readRaster(path)
	if err != nil {
		return err
	}
	dir := elevationToDirection(dirRaw)

	x0, y0, x1, y1 := cfg.UpslopeTrace.X0, cfg.UpslopeTrace.Y0, cfg.UpslopeTrace.X1, cfg.UpslopeTrace.Y1
	if cfg.LineShapefile != "" {
		shpPath, err := resolveInput(ctx, cfg.LineShapefile)
		if err != nil {
			return err
		}
		wx0, wy0, wx1, wy1, err := rasterio.ReadLineEndpoints(shpPath)
		if err != nil {
			return err
		}
		x0, y0 = rasterio.WorldToCell(wx0, wy0, dir.XLLCorner, dir.YLLCorner, dir.CellLengthX, dir.CellLengthY, dir.H)
		x1, y1 = rasterio.WorldToCell(wx1, wy1, dir.XLLCorner, dir.YLLCorner, dir.CellLengthX, dir.CellLengthY, dir.H)
	}

	u, err := terra8.UpslopeTrace(dir, x0, y0, x1, y1, logrus.NewEntry(log))
	if err != nil {
		return err
	}
	out := int8RasterToFloat64(u)
	return writeRaster(cfg.OutputFile, out)
}

func int8RasterToFloat64(r *terra8.Raster2D[int8]) *terra8.Raster2D[float64] {
	out := terra8.NewRaster2D[float64](r.W, r.H, float64(r.NoData()))
	out.CellLengthX, out.CellLengthY = r.CellLengthX, r.CellLengthY
	out.XLLCorner, out.YLLCorner = r.XLLCorner, r.YLLCorner
	out.Projection = r.Projection
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			out.Set(x, y, float64(r.Get(x, y)))
		}
	}
	return out
}
