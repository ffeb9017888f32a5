// Package charts holds the three chart views: each is a pure transform over
// the Financial Record Table plus a renderer that turns the transform's output
// into a PNG.
package charts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData marks the empty-result path: the schema was valid but the selected
// filter combination matched no rows. This is an expected outcome surfaced as
// a warning, never an error, and it blocks nothing else.
var ErrNoData = errors.New("no data for selection")

type noDataError struct {
	msg string
}

func (e *noDataError) Error() string { return e.msg }

func (e *noDataError) Is(target error) bool { return target == ErrNoData }

// noData builds an ErrNoData-classified warning with a user-facing message.
func noData(format string, args ...any) error {
	return &noDataError{msg: fmt.Sprintf(format, args...)}
}

// SchemaError reports columns the chart needs but the uploaded header lacks.
// It is fatal for the affected view only; other views stay usable.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required columns not found in the dataset: %s", strings.Join(e.Missing, ", "))
}
