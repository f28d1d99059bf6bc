package terra8

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// AreaNoData is the nodata sentinel FlowAccum writes into its output area
// raster. A negative value is used so accumulated area, which is always
// non-negative, can never collide with it.
const AreaNoData int32 = -1

// maxUndrainedReported bounds the number of undrained-cell coordinates a
// FlowAccumReport carries, so a pathological direction raster full of
// cycles cannot force an unbounded allocation.
const maxUndrainedReported = 256

// Cell identifies a raster position by column and row.
type Cell struct {
	X, Y int
}

// FlowAccumReport carries diagnostics produced alongside a successful
// FlowAccum call: the number of data cells whose dependency count never
// reached zero (a cycle in the input direction raster), and a bounded
// sample of their coordinates for debugging a bad direction raster.
type FlowAccumReport struct {
	CycleCount int64
	Undrained  []Cell
}

// FlowAccum computes upslope contributing area from a D8 direction raster.
// It returns a new area raster of the same shape, a FlowAccumReport
// describing any cycles detected in dir, and any non-fatal diagnostics (a
// warning for mismatched cell dimensions and an info diagnostic when a cycle
// is detected).
//
// A cycle in dir is not a fatal error: FlowAccum always returns a complete
// area raster, but cells inside a cycle hold a partial, effectively
// undefined accumulation, reflected in the report's CycleCount.
//
// log is optional; a nil value discards all log output rather than falling
// back to a global logger.
func FlowAccum(dir *Raster2D[Direction], log *logrus.Entry) (*Raster2D[int32], FlowAccumReport, []Diagnostic) {
	log = withLog(log)
	log.WithField("dims", [2]int{dir.W, dir.H}).Debug("FlowAccum: starting dependency count")
	var diags []Diagnostic
	if d, warn := checkCellLengths("FlowAccum", dir.CellLengthX, dir.CellLengthY); warn {
		diags = append(diags, d)
	}

	area := NewRaster2D[int32](dir.W, dir.H, AreaNoData)
	area.CellLengthX, area.CellLengthY = dir.CellLengthX, dir.CellLengthY
	area.Projection = dir.Projection
	area.XLLCorner, area.YLLCorner = dir.XLLCorner, dir.YLLCorner

	dependency := make([]int32, dir.W*dir.H)

	// Phase 1: dependency count, parallel over rows, atomic cross-row
	// increment on the shared dependency slice.
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for p := 0; p < nprocs; p++ {
		go func(p int) {
			defer wg.Done()
			for y := p; y < dir.H; y += nprocs {
				for x := 0; x < dir.W; x++ {
					d := dir.Get(x, y)
					if d == dir.NoData() {
						area.Set(x, y, AreaNoData)
						continue
					}
					if d == NoFlow {
						continue
					}
					dx, dy := d.Offset()
					nx, ny := x+dx, y+dy
					if !dir.InGrid(nx, ny) {
						continue
					}
					atomic.AddInt32(&dependency[ny*dir.W+nx], 1)
				}
			}
		}(p)
	}
	wg.Wait()

	// Phase 2: source enumeration.
	queue := make([]Cell, 0, dir.NumDataCells())
	for y := 0; y < dir.H; y++ {
		for x := 0; x < dir.W; x++ {
			if dir.Get(x, y) == dir.NoData() {
				continue
			}
			if dependency[y*dir.W+x] == 0 {
				queue = append(queue, Cell{x, y})
			}
		}
	}

	// Phase 3: drain.
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		area.Set(c.X, c.Y, area.Get(c.X, c.Y)+1)
		d := dir.Get(c.X, c.Y)
		if d == NoFlow {
			continue
		}
		dx, dy := d.Offset()
		nx, ny := c.X+dx, c.Y+dy
		if !dir.InGrid(nx, ny) || dir.Get(nx, ny) == dir.NoData() {
			continue
		}
		area.Set(nx, ny, area.Get(nx, ny)+area.Get(c.X, c.Y))
		idx := ny*dir.W + nx
		dependency[idx]--
		if dependency[idx] == 0 {
			queue = append(queue, Cell{nx, ny})
		}
	}

	report := FlowAccumReport{}
	for y := 0; y < dir.H; y++ {
		for x := 0; x < dir.W; x++ {
			if dir.Get(x, y) == dir.NoData() {
				continue
			}
			if dependency[y*dir.W+x] > 0 {
				report.CycleCount++
				if len(report.Undrained) < maxUndrainedReported {
					report.Undrained = append(report.Undrained, Cell{x, y})
				}
			}
		}
	}
	if report.CycleCount > 0 {
		diags = append(diags, infof("FlowAccum", "detected %d cell(s) in a flow-direction cycle", report.CycleCount))
		log.WithField("cycleCount", report.CycleCount).Warn("FlowAccum: undrained cells remain")
	}

	return area, report, diags
}
