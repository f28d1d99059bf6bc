package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terra8/terra8"
)

var terrainCmd = &cobra.Command{
	Use:   "terrain",
	Short: "Compute terrain differential operators",
	Long: `terrain reads the elevation raster named by ElevationFile,
computes slope, aspect, and curvature, optionally SPI/CTI when
DirectionFile is also set, and writes the result to OutputFile. If Expr
is set in the configuration file, its value is evaluated per cell
against the named built-in rasters instead of writing one of them
directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTerrain(cmd.Context())
	},
	DisableAutoGenTag: true,
}

func runTerrain(ctx context.Context) error {
	path, err := resolveInput(ctx, cfg.ElevationFile)
	if err != nil {
		return err
	}
	elev, err := readRaster(path)
	if err != nil {
		return err
	}
	if cfg.CellSizeOverride != 0 {
		elev.CellLengthX, elev.CellLengthY = cfg.CellSizeOverride, cfg.CellSizeOverride
	}

	rasters := map[string]*terra8.Raster2D[float64]{}
	entry := logrus.NewEntry(log)

	slopeRiseRun, diags := terra8.TerrainDriver(elev, cfg.ZScale, terra8.SlopeRiseRun, entry)
	logAll(diags)
	rasters["slope_riserun"] = slopeRiseRun

	slopePercent, _ := terra8.TerrainDriver(elev, cfg.ZScale, terra8.SlopePercent, entry)
	rasters["slope_percent"] = slopePercent

	aspect, _ := terra8.TerrainDriver(elev, cfg.ZScale, terra8.AspectDegrees, entry)
	rasters["aspect"] = aspect

	total, _ := terra8.TerrainDriver(elev, cfg.ZScale, terra8.TotalCurvature, entry)
	rasters["curvature_total"] = total

	planform, _ := terra8.TerrainDriver(elev, cfg.ZScale, terra8.PlanformCurvature, entry)
	rasters["curvature_planform"] = planform

	profile, _ := terra8.TerrainDriver(elev, cfg.ZScale, terra8.ProfileCurvature, entry)
	rasters["curvature_profile"] = profile

	if cfg.DirectionFile != "" {
		dirPath, err := resolveInput(ctx, cfg.DirectionFile)
		if err != nil {
			return err
		}
		dirRaw, err := readRaster(dirPath)
		if err != nil {
			return err
		}
		dir := elevationToDirection(dirRaw)
		area, report, diags := terra8.FlowAccum(dir, entry)
		logAll(diags)
		if report.CycleCount > 0 {
			log.WithField("cycleCount", report.CycleCount).Warn("flow-direction raster contains cycles")
		}
		spi, err := terra8.SPI(area, slopePercent, elev.CellArea())
		if err != nil {
			return err
		}
		rasters["spi"] = spi
		cti, err := terra8.CTI(area, slopePercent, elev.CellArea())
		if err != nil {
			return err
		}
		rasters["cti"] = cti
	}

	var out *terra8.Raster2D[float64]
	if cfg.Expr != "" {
		out, err = evalExpr(cfg.Expr, rasters)
		if err != nil {
			return err
		}
	} else {
		out = slopePercent
	}

	return writeRaster(cfg.OutputFile, out)
}

func logAll(diags []terra8.Diagnostic) {
	for _, d := range diags {
		logDiagnostic(d)
	}
}
