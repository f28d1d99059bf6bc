// Package terra8 computes D8 flow accumulation, terrain differential
// operators (slope, aspect, curvature, SPI, CTI), and D8 upslope tracing
// over dense elevation and flow-direction rasters. The package has no I/O
// or CLI dependencies of its own and logs only through an optional
// caller-supplied *logrus.Entry; see the rasterio, terra8cfg, and
// internal/cmd packages for the surrounding tool.
package terra8

// Numeric is the closed set of raster element types the core supports:
// signed integers (used for direction, area, and upslope-trace rasters) and
// floating point (used for elevation and terrain-attribute rasters).
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Raster2D is a dense, row-major grid of W columns by H rows. It carries its
// own cell geometry and nodata sentinel so that algorithms in this package
// never need an out-of-band geotransform. A Raster2D is a value type in the
// sense that it owns no logging or progress state; callers coordinate its
// lifecycle.
type Raster2D[T Numeric] struct {
	W, H                    int
	nodata                  T
	CellLengthX, CellLengthY float64
	Projection              string
	XLLCorner, YLLCorner    float64
	data                    []T
}

// NewRaster2D allocates a W-by-H raster whose nodata sentinel is nodata and
// whose cells are all zero; it does not fill the cells with nodata.
// CellLengthX and CellLengthY default to 1; callers that need georeferenced
// cells should set them directly, or use Resize to adopt another raster's
// geometry.
func NewRaster2D[T Numeric](w, h int, nodata T) *Raster2D[T] {
	r := &Raster2D[T]{
		W: w, H: h,
		nodata:      nodata,
		CellLengthX: 1,
		CellLengthY: 1,
		data:        make([]T, w*h),
	}
	return r
}

// index converts (x,y) to the flat, row-major offset into data. Callers
// must ensure InGrid(x,y) first; this method performs no bounds check,
// mirroring the raster's documented unchecked hot-path access.
func (r *Raster2D[T]) index(x, y int) int {
	return y*r.W + x
}

// Get returns the value at (x,y) without a bounds check.
func (r *Raster2D[T]) Get(x, y int) T {
	return r.data[r.index(x, y)]
}

// Set writes v at (x,y) without a bounds check.
func (r *Raster2D[T]) Set(x, y int, v T) {
	r.data[r.index(x, y)] = v
}

// InGrid reports whether (x,y) lies within [0,W)×[0,H).
func (r *Raster2D[T]) InGrid(x, y int) bool {
	return x >= 0 && x < r.W && y >= 0 && y < r.H
}

// IsNoData reports whether the cell at (x,y) equals the raster's nodata
// sentinel.
func (r *Raster2D[T]) IsNoData(x, y int) bool {
	return r.Get(x, y) == r.nodata
}

// NoData returns the raster's nodata sentinel value.
func (r *Raster2D[T]) NoData() T {
	return r.nodata
}

// SetNoData changes the raster's nodata sentinel. It does not rewrite
// existing cell values; callers that need to migrate a raster to a new
// sentinel must do so explicitly.
func (r *Raster2D[T]) SetNoData(v T) {
	r.nodata = v
}

// Size returns W*H, the total number of cells.
func (r *Raster2D[T]) Size() int64 {
	return int64(r.W) * int64(r.H)
}

// CountVal returns the number of cells equal to v.
func (r *Raster2D[T]) CountVal(v T) int64 {
	var n int64
	for _, c := range r.data {
		if c == v {
			n++
		}
	}
	return n
}

// NumDataCells returns the number of cells not equal to nodata.
func (r *Raster2D[T]) NumDataCells() int64 {
	return r.Size() - r.CountVal(r.nodata)
}

// CellArea returns CellLengthX * CellLengthY.
func (r *Raster2D[T]) CellArea() float64 {
	return r.CellLengthX * r.CellLengthY
}

// Bounds returns the planar extent of the raster given its lower-left
// corner origin and cell dimensions: maxX and maxY lie W and H cells
// beyond XLLCorner and YLLCorner.
func (r *Raster2D[T]) Bounds() (minX, minY, maxX, maxY float64) {
	minX = r.XLLCorner
	minY = r.YLLCorner
	maxX = minX + float64(r.W)*r.CellLengthX
	maxY = minY + float64(r.H)*r.CellLengthY
	return
}

// Resize reallocates r to match template's shape and geotransform, filling
// every cell with fill. Any existing data is discarded.
func (r *Raster2D[T]) Resize(template rasterShape, fill T) {
	r.W, r.H = template.dims()
	r.CellLengthX, r.CellLengthY = template.cellLengths()
	r.Projection = template.projection()
	r.XLLCorner, r.YLLCorner = template.corner()
	r.data = make([]T, r.W*r.H)
	if fill != 0 {
		for i := range r.data {
			r.data[i] = fill
		}
	}
}

// Clone returns a defensive deep copy of r.
func (r *Raster2D[T]) Clone() *Raster2D[T] {
	out := &Raster2D[T]{
		W: r.W, H: r.H,
		nodata:      r.nodata,
		CellLengthX: r.CellLengthX,
		CellLengthY: r.CellLengthY,
		Projection:  r.Projection,
		XLLCorner:   r.XLLCorner,
		YLLCorner:   r.YLLCorner,
		data:        make([]T, len(r.data)),
	}
	copy(out.data, r.data)
	return out
}

// rasterShape is the geometry a template raster contributes to Resize.
// It is satisfied by any *Raster2D[T] regardless of element type, letting
// e.g. a float64 elevation raster template the shape of an int8 direction
// raster.
type rasterShape interface {
	dims() (w, h int)
	cellLengths() (x, y float64)
	projection() string
	corner() (x, y float64)
}

func (r *Raster2D[T]) dims() (w, h int)              { return r.W, r.H }
func (r *Raster2D[T]) cellLengths() (x, y float64)   { return r.CellLengthX, r.CellLengthY }
func (r *Raster2D[T]) projection() string            { return r.Projection }
func (r *Raster2D[T]) corner() (x, y float64)        { return r.XLLCorner, r.YLLCorner }

// checkSameShape returns a UsageError if a and b differ in width or height.
func checkSameShape(op string, aw, ah, bw, bh int) error {
	if aw != bw || ah != bh {
		return usageErrorf(op, "shape mismatch: %dx%d vs %dx%d", aw, ah, bw, bh)
	}
	return nil
}

// checkCellLengths returns a Diagnostic if the two cell dimensions given
// are not equal, matching the TerrainOps driver's non-fatal warning for
// mismatched cellLengthX/cellLengthY.
func checkCellLengths(op string, x, y float64) (Diagnostic, bool) {
	if x != y {
		return warnf(op, "cellLengthX (%v) != cellLengthY (%v)", x, y), true
	}
	return Diagnostic{}, false
}
