package cmd

import (
	"github.com/terra8/terra8"
	"github.com/terra8/terra8/rasterio"
)

// netcdfVariable returns the variable name to read/write when cfg.Format is
// "netcdf", defaulting to "value" if the configuration file left it blank.
func netcdfVariable() string {
	if cfg.NetCDFVariable != "" {
		return cfg.NetCDFVariable
	}
	return "value"
}

// readRaster reads path using the codec named by cfg.Format: "netcdf" for
// github.com/ctessum/cdf, anything else (including the empty default)
// for ESRI ASCII Grid.
func readRaster(path string) (*terra8.Raster2D[float64], error) {
	if cfg.Format == "netcdf" {
		return rasterio.ReadNetCDF(path, netcdfVariable())
	}
	return rasterio.ReadASCIIGrid(path)
}

// writeRaster is readRaster's inverse.
func writeRaster(path string, r *terra8.Raster2D[float64]) error {
	if cfg.Format == "netcdf" {
		return rasterio.WriteNetCDF(path, netcdfVariable(), r)
	}
	return rasterio.WriteASCIIGrid(path, r)
}
