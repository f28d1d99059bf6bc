package rasterio

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/terra8/terra8"
)

func TestNetCDFRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "terra8-netcdf")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	r := terra8.NewRaster2D[float64](3, 2, -9999)
	r.CellLengthX, r.CellLengthY = 30, 30
	r.XLLCorner, r.YLLCorner = 100, 200
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			r.Set(x, y, float64(y*3+x))
		}
	}

	path := filepath.Join(dir, "elev.nc")
	if err := WriteNetCDF(path, "elevation", r); err != nil {
		t.Fatalf("WriteNetCDF: %v", err)
	}

	got, err := ReadNetCDF(path, "elevation")
	if err != nil {
		t.Fatalf("ReadNetCDF: %v", err)
	}
	if got.W != 3 || got.H != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", got.W, got.H)
	}
	if math.Abs(got.CellLengthX-30) > 1e-6 || math.Abs(got.XLLCorner-100) > 1e-6 {
		t.Errorf("geometry mismatch: %+v", got)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := float64(y*3 + x)
			if math.Abs(got.Get(x, y)-want) > 1e-4 {
				t.Errorf("cell (%d,%d) = %v, want %v", x, y, got.Get(x, y), want)
			}
		}
	}
}
