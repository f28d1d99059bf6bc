package cmd

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/terra8/terra8"
)

// exprFunctions are the built-in functions available to a user-supplied
// Expr formula, in addition to the named terrain rasters themselves
// (e.g. "slope_percent", "spi", "cti").
var exprFunctions = map[string]govaluate.ExpressionFunction{
	"log": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("terra8: got %d arguments for function 'log', but needs 1", len(args))
		}
		return math.Log(args[0].(float64)), nil
	},
	"abs": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("terra8: got %d arguments for function 'abs', but needs 1", len(args))
		}
		return math.Abs(args[0].(float64)), nil
	},
}

// evalExpr evaluates expr once per data cell of the rasters in vars, all of
// which must share vars' shape, writing terra8.TerrainNoData wherever any
// input is nodata at that cell. vars keys are the names available to expr.
func evalExpr(expr string, vars map[string]*terra8.Raster2D[float64]) (*terra8.Raster2D[float64], error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("terra8: evalExpr called with no input rasters")
	}
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, exprFunctions)
	if err != nil {
		return nil, fmt.Errorf("terra8: parsing expression %q: %w", expr, err)
	}

	var w, h int
	var template *terra8.Raster2D[float64]
	for _, r := range vars {
		if template == nil {
			template = r
			w, h = r.W, r.H
			continue
		}
		if r.W != w || r.H != h {
			return nil, fmt.Errorf("terra8: expression inputs have mismatched shapes")
		}
	}

	out := terra8.NewRaster2D[float64](w, h, terra8.TerrainNoData)
	out.CellLengthX, out.CellLengthY = template.CellLengthX, template.CellLengthY
	out.XLLCorner, out.YLLCorner = template.XLLCorner, template.YLLCorner
	out.Projection = template.Projection

	params := make(map[string]interface{}, len(vars))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			anyNoData := false
			for name, r := range vars {
				if r.IsNoData(x, y) {
					anyNoData = true
					break
				}
				params[name] = r.Get(x, y)
			}
			if anyNoData {
				out.Set(x, y, terra8.TerrainNoData)
				continue
			}
			result, err := expression.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("terra8: evaluating expression at (%d,%d): %w", x, y, err)
			}
			v, ok := result.(float64)
			if !ok {
				return nil, fmt.Errorf("terra8: expression result at (%d,%d) is not numeric: %v", x, y, result)
			}
			out.Set(x, y, v)
		}
	}
	return out, nil
}
