package terra8

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardEntry is returned by withLog when a caller passes a nil
// *logrus.Entry, so the hot loops in FlowAccum, TerrainDriver, and
// UpslopeTrace can always call log.WithField/.Debug without a nil check
// at every call site.
func discardEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// withLog normalizes an optional *logrus.Entry: a caller with no logging
// needs passes nil and pays nothing beyond a discarded write.
func withLog(log *logrus.Entry) *logrus.Entry {
	if log == nil {
		return discardEntry()
	}
	return log
}
