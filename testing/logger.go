package testing

import (
	"testing"

	"github.com/sfat/zeebe/internal/logging"
)

// NewTestLogger creates a new logger instance that writes to the testing.T logger.
// This is useful for seeing log output during test runs.
//
// The logger must not be used by goroutines that outlive the test.
func NewTestLogger(t *testing.T) *logging.TestLogger {
	return logging.NewTest(t)
}
