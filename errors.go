package terra8

import "fmt"

// UsageError is returned when a caller violates a documented precondition:
// a shape mismatch between two rasters (SPI, CTI) or an out-of-grid seed for
// UpslopeTrace. No partial output is committed when a UsageError is
// returned. The pointwise terrain operators (Slope, Aspect, Curvature) do
// not check for a nodata center cell and return no error.
type UsageError struct {
	Op  string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("terra8: %s: %s", e.Op, e.Msg)
}

func usageErrorf(op, format string, args ...interface{}) *UsageError {
	return &UsageError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Severity classifies a Diagnostic.
type Severity int

const (
	// Info diagnostics report expected, non-fatal conditions worth
	// recording, such as a cycle detected during flow accumulation.
	Info Severity = iota
	// Warning diagnostics report conditions that are likely mistakes but
	// do not prevent the computation from completing, such as unequal
	// cell dimensions.
	Warning
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal condition reported alongside a successful
// result. Unlike UsageError, a Diagnostic never aborts a computation; the
// caller decides whether the accompanying output is fit for purpose.
type Diagnostic struct {
	Severity Severity
	Op       string
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("terra8: %s: %s: %s", d.Severity, d.Op, d.Msg)
}

func infof(op, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: Info, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func warnf(op, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: Warning, Op: op, Msg: fmt.Sprintf(format, args...)}
}
