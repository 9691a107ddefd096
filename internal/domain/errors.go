package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyView reports that a selection matched no records. It is not fatal:
// callers render an empty list and center the map on the fallback coordinate.
var ErrEmptyView = errors.New("selection matched no records")

// SchemaError reports source headers required by the column mapping that are
// absent from the sheet. It means the export format drifted.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %q is missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// LoadError reports a source that could not be opened or read.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load source %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
