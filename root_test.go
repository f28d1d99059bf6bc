package terra8

import (
	"math"
	"testing"
)

func dirRasterFrom(w, h int, values [][]Direction) *Raster2D[Direction] {
	r := NewRaster2D[Direction](w, h, -1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.Set(x, y, values[y][x])
		}
	}
	return r
}

func TestFlowAccumSingleChain(t *testing.T) {
	dir := dirRasterFrom(5, 1, [][]Direction{
		{East, East, East, East, NoFlow},
	})
	area, report, _ := FlowAccum(dir, nil)
	want := []int32{1, 2, 3, 4, 5}
	for x, w := range want {
		if got := area.Get(x, 0); got != w {
			t.Errorf("area(%d,0) = %d, want %d", x, got, w)
		}
	}
	if report.CycleCount != 0 {
		t.Errorf("CycleCount = %d, want 0", report.CycleCount)
	}
}

func TestFlowAccumFork(t *testing.T) {
	// Corners flow diagonally into the center; center is NoFlow.
	dir := dirRasterFrom(3, 3, [][]Direction{
		{SouthEast, -1, SouthWest},
		{-1, NoFlow, -1},
		{NorthEast, -1, NorthWest},
	})
	dir.SetNoData(-1)
	area, report, _ := FlowAccum(dir, nil)
	if got := area.Get(1, 1); got != 5 {
		t.Errorf("center area = %d, want 5", got)
	}
	corners := [][2]int{{0, 0}, {2, 0}, {0, 2}, {2, 2}}
	for _, c := range corners {
		if got := area.Get(c[0], c[1]); got != 1 {
			t.Errorf("corner (%d,%d) area = %d, want 1", c[0], c[1], got)
		}
	}
	if report.CycleCount != 0 {
		t.Errorf("CycleCount = %d, want 0", report.CycleCount)
	}
}

func TestFlowAccumCycle(t *testing.T) {
	dir := dirRasterFrom(2, 1, [][]Direction{
		{East, West},
	})
	_, report, diags := FlowAccum(dir, nil)
	if report.CycleCount < 2 {
		t.Errorf("CycleCount = %d, want >= 2", report.CycleCount)
	}
	if len(diags) == 0 {
		t.Errorf("expected a cycle diagnostic")
	}
}

func TestFlowAccumNoDataPropagation(t *testing.T) {
	dir := NewRaster2D[Direction](5, 5, -1)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			dir.Set(x, y, East)
		}
	}
	dir.Set(2, 2, -1) // nodata hole
	for y := 0; y < 5; y++ {
		dir.Set(4, y, NoFlow)
	}
	area, _, _ := FlowAccum(dir, nil)
	if got := area.Get(2, 2); got != AreaNoData {
		t.Errorf("hole area = %d, want %d", got, AreaNoData)
	}
}

func TestUpslopeTraceEastFlow(t *testing.T) {
	dir := NewRaster2D[Direction](10, 10, -1)
	for y := 0; y < 10; y++ {
		for x := 0; x < 9; x++ {
			dir.Set(x, y, East)
		}
		dir.Set(9, y, NoFlow)
	}
	u, err := UpslopeTrace(dir, 5, 0, 5, 9, nil)
	if err != nil {
		t.Fatalf("UpslopeTrace: %v", err)
	}
	for y := 0; y < 10; y++ {
		if got := u.Get(5, y); got != UpslopeLine {
			t.Errorf("(5,%d) = %d, want UpslopeLine", y, got)
		}
	}
	for x := 0; x < 5; x++ {
		if got := u.Get(x, 0); got != UpslopeTraced {
			t.Errorf("(%d,0) = %d, want UpslopeTraced", x, got)
		}
	}
	for x := 6; x < 10; x++ {
		if got := u.Get(x, 0); got != UpslopeNoData {
			t.Errorf("(%d,0) = %d, want UpslopeNoData", x, got)
		}
	}
}

func TestUpslopeTraceIdempotent(t *testing.T) {
	dir := NewRaster2D[Direction](6, 6, -1)
	for y := 0; y < 6; y++ {
		for x := 0; x < 5; x++ {
			dir.Set(x, y, East)
		}
		dir.Set(5, y, NoFlow)
	}
	u1, _ := UpslopeTrace(dir, 3, 0, 3, 5, nil)
	u2, _ := UpslopeTrace(dir, 3, 0, 3, 5, nil)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if u1.Get(x, y) != u2.Get(x, y) {
				t.Fatalf("non-idempotent at (%d,%d)", x, y)
			}
		}
	}
}

func TestUpslopeTraceOutOfGrid(t *testing.T) {
	dir := NewRaster2D[Direction](4, 4, -1)
	if _, err := UpslopeTrace(dir, -1, 0, 2, 2, nil); err == nil {
		t.Fatal("expected UsageError for out-of-grid seed")
	}
}

func planarElevation(w, h int, alpha, beta, gamma float64) *Raster2D[float64] {
	e := NewRaster2D[float64](w, h, TerrainNoData)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			e.Set(x, y, alpha*float64(x)+beta*float64(y)+gamma)
		}
	}
	return e
}

func TestSlopeOnPlanarSurface(t *testing.T) {
	elev := planarElevation(5, 5, 3, 0, 10)
	s := Slope(elev, 2, 2, 1, 1, 1)
	want := 3.0
	if math.Abs(s.RiseRun-want) > 1e-9 {
		t.Errorf("RiseRun = %v, want %v", s.RiseRun, want)
	}
	if math.Abs(s.Percent-100*want) > 1e-6 {
		t.Errorf("Percent = %v, want %v", s.Percent, 100*want)
	}
	if math.Abs(math.Tan(s.Radian)-s.RiseRun) > 1e-9 {
		t.Errorf("tan(Radian) != RiseRun")
	}
	if math.Abs(s.Degree-s.Radian*180/math.Pi) > 1e-9 {
		t.Errorf("Degree != Radian*180/pi")
	}
}

func TestAspectEastFacingPlane(t *testing.T) {
	elev := planarElevation(5, 5, -3, 0, 10)
	a := Aspect(elev, 2, 2, 1, 1, 1)
	if math.Abs(a-90) > 1e-6 {
		t.Errorf("Aspect = %v, want ~90", a)
	}
}

func TestCurvatureZeroOnPlane(t *testing.T) {
	elev := planarElevation(5, 5, 3, 2, 10)
	c := Curvature(elev, 2, 2, 1, 1)
	if math.Abs(c.Total) > 1e-9 || math.Abs(c.Planform) > 1e-9 || math.Abs(c.Profile) > 1e-9 {
		t.Errorf("curvature on plane = %+v, want all zero", c)
	}
}

func TestConstantSurfaceFlat(t *testing.T) {
	elev := planarElevation(5, 5, 0, 0, 42)
	s := Slope(elev, 2, 2, 1, 1, 1)
	if s.RiseRun != 0 {
		t.Errorf("RiseRun on flat surface = %v, want 0", s.RiseRun)
	}
	a := Aspect(elev, 2, 2, 1, 1, 1)
	if a != 0 {
		t.Errorf("Aspect on flat surface = %v, want 0", a)
	}
}

func TestSPICTIShapeMismatch(t *testing.T) {
	area := NewRaster2D[int32](3, 3, AreaNoData)
	slope := NewRaster2D[float64](4, 4, TerrainNoData)
	if _, err := SPI(area, slope, 1); err == nil {
		t.Fatal("expected shape-mismatch error")
	}
	if _, err := CTI(area, slope, 1); err == nil {
		t.Fatal("expected shape-mismatch error")
	}
}

func TestSPICTINoDataPropagation(t *testing.T) {
	area := NewRaster2D[int32](2, 1, AreaNoData)
	area.Set(0, 0, 4)
	area.Set(1, 0, AreaNoData)
	slope := NewRaster2D[float64](2, 1, TerrainNoData)
	slope.Set(0, 0, 10)
	slope.Set(1, 0, 5)

	spi, err := SPI(area, slope, 1)
	if err != nil {
		t.Fatalf("SPI: %v", err)
	}
	if spi.Get(1, 0) != TerrainNoData {
		t.Errorf("SPI nodata propagation failed: got %v", spi.Get(1, 0))
	}
	want := math.Log(4.0 / 1 * (10 + 0.001))
	if math.Abs(spi.Get(0, 0)-want) > 1e-9 {
		t.Errorf("SPI(0,0) = %v, want %v", spi.Get(0, 0), want)
	}
}

func TestD8InverseRoundTrip(t *testing.T) {
	for d := North; d <= NorthWest; d++ {
		dx, dy := d.Offset()
		idx, idy := d.Inverse().Offset()
		if dx+idx != 0 || dy+idy != 0 {
			t.Errorf("direction %d does not round-trip via its inverse", d)
		}
	}
}

func TestRasterResizeAndClone(t *testing.T) {
	template := NewRaster2D[float64](4, 3, -1)
	template.CellLengthX, template.CellLengthY = 2.5, 2.5
	template.XLLCorner, template.YLLCorner = 10, 20
	template.Projection = "EPSG:5070"

	dep := &Raster2D[int32]{}
	dep.Resize(template, -1)
	if dep.W != 4 || dep.H != 3 {
		t.Fatalf("Resize dims = %dx%d, want 4x3", dep.W, dep.H)
	}
	if dep.CellLengthX != 2.5 || dep.XLLCorner != 10 || dep.Projection != "EPSG:5070" {
		t.Errorf("Resize did not adopt template geometry: %+v", dep)
	}
	if dep.CountVal(-1) != 12 {
		t.Errorf("CountVal(-1) = %d, want 12", dep.CountVal(-1))
	}

	clone := dep.Clone()
	clone.Set(0, 0, 5)
	if dep.Get(0, 0) == 5 {
		t.Fatal("Clone shares backing storage with the original")
	}
}

func TestRasterBounds(t *testing.T) {
	r := NewRaster2D[float64](10, 5, -1)
	r.CellLengthX, r.CellLengthY = 2, 2
	r.XLLCorner, r.YLLCorner = 100, 200
	minX, minY, maxX, maxY := r.Bounds()
	if minX != 100 || minY != 200 || maxX != 120 || maxY != 210 {
		t.Errorf("Bounds() = (%v,%v,%v,%v), want (100,200,120,210)", minX, minY, maxX, maxY)
	}
}

func TestNumDataCells(t *testing.T) {
	r := NewRaster2D[float64](3, 1, -9999)
	r.Set(0, 0, 1)
	r.Set(1, 0, 2)
	r.Set(2, 0, -9999)
	if r.NumDataCells() != 2 {
		t.Errorf("NumDataCells() = %d, want 2", r.NumDataCells())
	}
}
