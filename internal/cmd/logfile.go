package cmd

import (
	"fmt"
	"os"
)

// openLogFile opens path for appending, creating it if necessary, matching
// the CLI's convention that a configured log file accumulates across runs
// rather than being truncated.
func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("terra8: opening log file %s: %w", path, err)
	}
	return f, nil
}
