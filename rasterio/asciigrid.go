// Package rasterio reads and writes the raster and vector formats the
// terra8 CLI accepts: NetCDF-classic grids, ESRI ASCII Grid text rasters,
// and shapefile line endpoints. The terra8 core package has no knowledge
// of any of this; it only ever sees a *terra8.Raster2D.
package rasterio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/terra8/terra8"
)

// ReadASCIIGrid parses an ESRI ASCII Grid file into a float64 raster. The
// header fields (ncols, nrows, xllcorner/xllcenter, yllcorner/yllcenter,
// cellsize, NODATA_value) are matched case-insensitively, following the
// format's usual laxness about capitalization.
func ReadASCIIGrid(path string) (*terra8.Raster2D[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rasterio: opening ASCII grid: %w", err)
	}
	defer f.Close()
	return readASCIIGrid(f)
}

func readASCIIGrid(r io.Reader) (*terra8.Raster2D[float64], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	header := map[string]float64{}
	var ncols, nrows int
	for len(header) < 6 && sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			return nil, fmt.Errorf("rasterio: malformed ASCII grid header line %q", sc.Text())
		}
		key := strings.ToLower(fields[0])
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("rasterio: parsing header field %q: %w", key, err)
		}
		header[key] = val
		switch key {
		case "ncols":
			ncols = int(val)
		case "nrows":
			nrows = int(val)
		}
	}
	if ncols == 0 || nrows == 0 {
		return nil, fmt.Errorf("rasterio: ASCII grid header missing ncols/nrows")
	}

	cellsize, ok := header["cellsize"]
	if !ok {
		return nil, fmt.Errorf("rasterio: ASCII grid header missing cellsize")
	}
	nodata, ok := header["nodata_value"]
	if !ok {
		nodata = -9999
	}
	xll, hasXll := header["xllcorner"]
	if !hasXll {
		xll = header["xllcenter"] - cellsize/2
	}
	yll, hasYll := header["yllcorner"]
	if !hasYll {
		yll = header["yllcenter"] - cellsize/2
	}

	out := terra8.NewRaster2D[float64](ncols, nrows, nodata)
	out.CellLengthX, out.CellLengthY = cellsize, cellsize
	out.XLLCorner, out.YLLCorner = xll, yll

	for row := 0; row < nrows; row++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("rasterio: ASCII grid truncated at row %d", row)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != ncols {
			return nil, fmt.Errorf("rasterio: row %d has %d values, want %d", row, len(fields), ncols)
		}
		// ESRI ASCII Grid stores rows north-to-south; row 0 of the file
		// is the top (maximum-Y) row.
		y := nrows - 1 - row
		for col, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("rasterio: parsing cell (%d,%d): %w", col, row, err)
			}
			out.Set(col, y, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("rasterio: reading ASCII grid: %w", err)
	}
	return out, nil
}

// WriteASCIIGrid writes r to path in ESRI ASCII Grid format.
func WriteASCIIGrid(path string, r *terra8.Raster2D[float64]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rasterio: creating ASCII grid: %w", err)
	}
	defer f.Close()
	return writeASCIIGrid(f, r)
}

func writeASCIIGrid(w io.Writer, r *terra8.Raster2D[float64]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", r.W)
	fmt.Fprintf(bw, "nrows %d\n", r.H)
	fmt.Fprintf(bw, "xllcorner %v\n", r.XLLCorner)
	fmt.Fprintf(bw, "yllcorner %v\n", r.YLLCorner)
	fmt.Fprintf(bw, "cellsize %v\n", r.CellLengthX)
	fmt.Fprintf(bw, "NODATA_value %v\n", r.NoData())
	for row := 0; row < r.H; row++ {
		y := r.H - 1 - row
		for x := 0; x < r.W; x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%v", r.Get(x, y))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
