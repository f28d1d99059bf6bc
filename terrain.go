package terra8

import (
	"math"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// TerrainNoData is the nodata sentinel every TerrainOps output raster
// carries. It cannot collide with a valid slope, aspect, curvature, or
// log-based composite-index value.
const TerrainNoData float64 = -9999

// window3x3 holds the eight neighbors of a center cell plus the center
// itself, labeled to match the classic
//
//	a b c
//	d e f
//	g h i
//
// layout used by Horn (1981) and Zevenbergen & Thorne (1987).
type window3x3 struct {
	a, b, c, d, e, f, g, h, i float64
}

// neighborhood reads the 3x3 window around (x,y) in e, applying the
// edge/nodata replacement policy: any off-grid or nodata neighbor takes the
// value of the center cell. Every value is scaled by zscale. The caller
// must ensure (x,y) itself is a data cell.
func neighborhood(elev *Raster2D[float64], x, y int, zscale float64) window3x3 {
	center := elev.Get(x, y)
	at := func(dx, dy int) float64 {
		nx, ny := x+dx, y+dy
		if !elev.InGrid(nx, ny) || elev.IsNoData(nx, ny) {
			return center * zscale
		}
		return elev.Get(nx, ny) * zscale
	}
	return window3x3{
		a: at(-1, -1), b: at(0, -1), c: at(1, -1),
		d: at(-1, 0), e: center * zscale, f: at(1, 0),
		g: at(-1, 1), h: at(0, 1), i: at(1, 1),
	}
}

// SlopeResult carries the four related slope representations produced by a
// single Horn (1981) evaluation, since computing one is nearly free once
// dzdx and dzdy are known.
type SlopeResult struct {
	RiseRun, Percent, Radian, Degree float64
}

// Slope computes the Horn (1981) slope at (x,y) using cell dimensions
// lenX/lenY and elevation scale zscale.
func Slope(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) SlopeResult {
	w := neighborhood(elev, x, y, zscale)
	dzdx := ((w.c + 2*w.f + w.i) - (w.a + 2*w.d + w.g)) / (8 * lenX)
	dzdy := ((w.g + 2*w.h + w.i) - (w.a + 2*w.b + w.c)) / (8 * lenY)
	riserun := math.Sqrt(dzdx*dzdx + dzdy*dzdy)
	return SlopeResult{
		RiseRun: riserun,
		Percent: 100 * riserun,
		Radian:  math.Atan(riserun),
		Degree:  math.Atan(riserun) * 180 / math.Pi,
	}
}

// Aspect computes the Horn (1981) aspect at (x,y) in degrees clockwise from
// north. A perfectly flat neighborhood (dzdx = dzdy = 0) returns 0,
// matching the original tool's behavior rather than the commonly cited
// "-1 on flats" convention.
func Aspect(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64 {
	w := neighborhood(elev, x, y, zscale)
	dzdx := ((w.c + 2*w.f + w.i) - (w.a + 2*w.d + w.g)) / (8 * lenX)
	dzdy := ((w.g + 2*w.h + w.i) - (w.a + 2*w.b + w.c)) / (8 * lenY)
	if dzdx == 0 && dzdy == 0 {
		return 0
	}
	theta := math.Atan2(dzdy, -dzdx) * 180 / math.Pi
	switch {
	case theta < 0:
		return 90 - theta
	case theta > 90:
		return 360 - theta + 90
	default:
		return 90 - theta
	}
}

// CurvatureResult carries the three Zevenbergen & Thorne (1987) curvature
// measures.
type CurvatureResult struct {
	Total, Planform, Profile float64
}

// Curvature computes total, planform, and profile curvature at (x,y)
// following Zevenbergen & Thorne (1987).
func Curvature(elev *Raster2D[float64], x, y int, lenX, zscale float64) CurvatureResult {
	w := neighborhood(elev, x, y, zscale)
	L := lenX
	L2 := L * L
	D := ((w.d+w.f)/2 - w.e) / L2
	E := ((w.b+w.h)/2 - w.e) / L2
	F := (-w.a + w.c + w.g - w.i) / (4 * L2)
	G := (-w.d + w.f) / (2 * L)
	H := (w.b - w.h) / (2 * L)

	total := -2 * (D + E) * 100
	var planform, profile float64
	if G == 0 && H == 0 {
		planform, profile = 0, 0
	} else {
		denom := G*G + H*H
		planform = -2 * (D*H*H + E*G*G - F*G*H) / denom * 100
		profile = 2 * (D*G*G + E*H*H + F*G*H) / denom * 100
	}
	return CurvatureResult{Total: total, Planform: planform, Profile: profile}
}

// SPI computes the Stream Power Index from a flow-accumulation raster area
// and a percent-slope raster slope, given the cell area of both (which must
// share shape). Nodata in either input propagates to nodata in the output.
func SPI(area *Raster2D[int32], slope *Raster2D[float64], cellArea float64) (*Raster2D[float64], error) {
	return compositeIndex("SPI", area, slope, cellArea, func(a, s float64) float64 {
		return math.Log(a / cellArea * (s + 0.001))
	})
}

// CTI computes the Compound Topographic (Wetness) Index from a
// flow-accumulation raster area and a percent-slope raster slope.
func CTI(area *Raster2D[int32], slope *Raster2D[float64], cellArea float64) (*Raster2D[float64], error) {
	return compositeIndex("CTI", area, slope, cellArea, func(a, s float64) float64 {
		return math.Log(a / cellArea / (s + 0.001))
	})
}

func compositeIndex(op string, area *Raster2D[int32], slope *Raster2D[float64], cellArea float64, f func(a, s float64) float64) (*Raster2D[float64], error) {
	if err := checkSameShape(op, area.W, area.H, slope.W, slope.H); err != nil {
		return nil, err
	}
	out := NewRaster2D[float64](area.W, area.H, TerrainNoData)
	out.CellLengthX, out.CellLengthY = slope.CellLengthX, slope.CellLengthY
	out.Projection = slope.Projection
	out.XLLCorner, out.YLLCorner = slope.XLLCorner, slope.YLLCorner
	for y := 0; y < area.H; y++ {
		for x := 0; x < area.W; x++ {
			if area.IsNoData(x, y) || slope.IsNoData(x, y) {
				out.Set(x, y, TerrainNoData)
				continue
			}
			out.Set(x, y, f(float64(area.Get(x, y)), slope.Get(x, y)))
		}
	}
	return out, nil
}

// TerrainDriver runs op over every data cell of elev in parallel over rows,
// writing TerrainNoData for nodata cells and op's result otherwise. It
// returns the populated output raster plus a Warning diagnostic if elev's
// cell dimensions are unequal.
//
// log is optional; a nil value discards all log output rather than falling
// back to a global logger.
func TerrainDriver(elev *Raster2D[float64], zscale float64, op func(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64, log *logrus.Entry) (*Raster2D[float64], []Diagnostic) {
	log = withLog(log)
	var diags []Diagnostic
	if d, warn := checkCellLengths("TerrainOps", elev.CellLengthX, elev.CellLengthY); warn {
		diags = append(diags, d)
		log.WithField("op", "TerrainOps").Warn(d.String())
	}
	log.WithField("dims", [2]int{elev.W, elev.H}).Debug("TerrainDriver: running")

	out := NewRaster2D[float64](elev.W, elev.H, TerrainNoData)
	out.CellLengthX, out.CellLengthY = elev.CellLengthX, elev.CellLengthY
	out.Projection = elev.Projection
	out.XLLCorner, out.YLLCorner = elev.XLLCorner, elev.YLLCorner

	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for p := 0; p < nprocs; p++ {
		go func(p int) {
			defer wg.Done()
			for y := p; y < elev.H; y += nprocs {
				for x := 0; x < elev.W; x++ {
					if elev.IsNoData(x, y) {
						out.Set(x, y, TerrainNoData)
						continue
					}
					out.Set(x, y, op(elev, x, y, elev.CellLengthX, elev.CellLengthY, zscale))
				}
			}
		}(p)
	}
	wg.Wait()
	return out, diags
}

// SlopeRiseRun adapts Slope for use with TerrainDriver, producing a
// rise/run slope raster.
func SlopeRiseRun(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64 {
	return Slope(elev, x, y, lenX, lenY, zscale).RiseRun
}

// SlopePercent adapts Slope for use with TerrainDriver, producing a
// percent-slope raster (the input SPI/CTI expect).
func SlopePercent(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64 {
	return Slope(elev, x, y, lenX, lenY, zscale).Percent
}

// AspectDegrees adapts Aspect for use with TerrainDriver.
func AspectDegrees(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64 {
	return Aspect(elev, x, y, lenX, lenY, zscale)
}

// TotalCurvature adapts Curvature for use with TerrainDriver.
func TotalCurvature(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64 {
	return Curvature(elev, x, y, lenX, zscale).Total
}

// PlanformCurvature adapts Curvature for use with TerrainDriver.
func PlanformCurvature(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64 {
	return Curvature(elev, x, y, lenX, zscale).Planform
}

// ProfileCurvature adapts Curvature for use with TerrainDriver.
func ProfileCurvature(elev *Raster2D[float64], x, y int, lenX, lenY, zscale float64) float64 {
	return Curvature(elev, x, y, lenX, zscale).Profile
}
