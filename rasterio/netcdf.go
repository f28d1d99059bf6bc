package rasterio

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/terra8/terra8"
)

// ReadNetCDF reads the named 2D variable from a NetCDF-classic file into a
// float64 raster. The variable's two dimensions are read in (y, x) order,
// matching the row-major convention terra8.Raster2D uses internally. If the
// file carries "cellsize", "xllcorner", and "yllcorner" global attributes
// (as WriteNetCDF writes them), the returned raster's geometry is populated
// from them; otherwise it defaults to a unit grid at the origin.
func ReadNetCDF(path, varName string) (*terra8.Raster2D[float64], error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rasterio: opening NetCDF file: %w", err)
	}
	defer ff.Close()

	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("rasterio: reading NetCDF header: %w", err)
	}

	dims := f.Header.Lengths(varName)
	if len(dims) != 2 {
		return nil, fmt.Errorf("rasterio: variable %q has %d dimensions, want 2", varName, len(dims))
	}
	h, w := dims[0], dims[1]

	nread := w * h
	start := make([]int, 2)
	end := []int{h, w}
	r := f.Reader(varName, start, end)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("rasterio: reading NetCDF variable %q: %w", varName, err)
	}

	nodata := -9999.0
	if v, ok := f.Header.GetAttribute(varName, "missing_value").([]float32); ok && len(v) == 1 {
		nodata = float64(v[0])
	}

	out := terra8.NewRaster2D[float64](w, h, nodata)
	out.CellLengthX, out.CellLengthY = 1, 1
	if v, ok := f.Header.GetAttribute("", "cellsize").([]float64); ok && len(v) == 1 {
		out.CellLengthX, out.CellLengthY = v[0], v[0]
	}
	if v, ok := f.Header.GetAttribute("", "xllcorner").([]float64); ok && len(v) == 1 {
		out.XLLCorner = v[0]
	}
	if v, ok := f.Header.GetAttribute("", "yllcorner").([]float64); ok && len(v) == 1 {
		out.YLLCorner = v[0]
	}

	switch vals := buf.(type) {
	case []float32:
		for i, v := range vals {
			out.Set(i%w, i/w, float64(v))
		}
	case []float64:
		for i, v := range vals {
			out.Set(i%w, i/w, v)
		}
	default:
		return nil, fmt.Errorf("rasterio: unsupported NetCDF variable type %T", buf)
	}
	return out, nil
}

// WriteNetCDF writes r's data to a new NetCDF-classic file under varName,
// storing r's cell size and corner origin as global attributes so a
// subsequent ReadNetCDF round-trips the geometry.
func WriteNetCDF(path, varName string, r *terra8.Raster2D[float64]) error {
	h := cdf.NewHeader([]string{"y", "x"}, []int{r.H, r.W})
	h.AddAttribute("", "cellsize", []float64{r.CellLengthX})
	h.AddAttribute("", "xllcorner", []float64{r.XLLCorner})
	h.AddAttribute("", "yllcorner", []float64{r.YLLCorner})
	h.AddVariable(varName, []string{"y", "x"}, []float32{0})
	h.AddAttribute(varName, "missing_value", []float32{float32(r.NoData())})
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rasterio: creating NetCDF file: %w", err)
	}
	defer ff.Close()

	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("rasterio: writing NetCDF header: %w", err)
	}

	data := make([]float32, r.W*r.H)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			data[y*r.W+x] = float32(r.Get(x, y))
		}
	}
	w := f.Writer(varName, make([]int, 2), []int{r.H, r.W})
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("rasterio: writing NetCDF variable %q: %w", varName, err)
	}
	return cdf.UpdateNumRecs(ff)
}
