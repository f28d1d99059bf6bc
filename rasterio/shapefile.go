package rasterio

import (
	"fmt"

	goshp "github.com/jonas-p/go-shp"
)

// ReadLineEndpoints reads the first line feature of a shapefile and returns
// its two endpoints in the world coordinate system the shapefile itself
// uses; the caller (internal/cmd) is responsible for converting
// them to raster column/row coordinates using the target raster's corner
// origin and cell size, since this package has no notion of which raster a
// line is meant to be traced against.
func ReadLineEndpoints(path string) (x0, y0, x1, y1 float64, err error) {
	reader, err := goshp.Open(path)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("rasterio: opening shapefile: %w", err)
	}
	defer reader.Close()

	if !reader.Next() {
		return 0, 0, 0, 0, fmt.Errorf("rasterio: shapefile %s has no features", path)
	}
	_, shape := reader.Shape()
	line, ok := shape.(*goshp.PolyLine)
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("rasterio: first feature of %s is not a line, got %T", path, shape)
	}
	if len(line.Points) < 2 {
		return 0, 0, 0, 0, fmt.Errorf("rasterio: line feature in %s has fewer than 2 points", path)
	}
	first := line.Points[0]
	last := line.Points[len(line.Points)-1]
	return first.X, first.Y, last.X, last.Y, nil
}

// WorldToCell converts a world-coordinate point to raster column/row
// coordinates given the raster's lower-left corner, cell size, and row
// count (needed because raster row 0 is the top row while the corner
// origin is conventionally the bottom-left).
func WorldToCell(worldX, worldY, xll, yll, cellLenX, cellLenY float64, rows int) (col, row int) {
	col = int((worldX - xll) / cellLenX)
	row = rows - 1 - int((worldY-yll)/cellLenY)
	return col, row
}
