package testutil

import (
	"io"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
)

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, "test")
}

// MakeCaptureLogger returns a debug-level logger writing text records to w.
func MakeCaptureLogger(w io.Writer) *logger.Logger {
	return logger.NewWithWriter(w, -4, "test")
}
