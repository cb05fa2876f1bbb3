package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingColumn indicates that the header lacks a configured column.
var ErrMissingColumn = errors.New("dataset: missing column")

// ParseError reports a value that could not be decoded.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Columns names the header fields to read. When Geometry is set it takes
// precedence over X and Y.
type Columns struct {
	Category string `yaml:"category"`
	ID       string `yaml:"id"`
	X        string `yaml:"x"`
	Y        string `yaml:"y"`
	Geometry string `yaml:"geometry"`
	Time     string `yaml:"time"`
}

// DefaultColumns returns category, id, x, y and time.
func DefaultColumns() Columns {
	return Columns{
		Category: "category",
		ID:       "id",
		X:        "x",
		Y:        "y",
		Time:     "time",
	}
}

// TimeLayouts are tried in order when decoding the time column.
var TimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}
