package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/emergent"
	"github.com/katalvlaran/colomine/spatial"
)

// ReadInstances decodes every record of r into an Instance.
// A header without data rows yields an empty slice.
func ReadInstances(r io.Reader, cols Columns) ([]colocation.Instance, error) {
	var out []colocation.Instance
	err := scan(r, cols, false, func(x colocation.Instance, _ time.Time) {
		out = append(out, x)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ReadEvents decodes every record of r into an Event. Times without a zone
// are taken as UTC.
func ReadEvents(r io.Reader, cols Columns) ([]emergent.Event, error) {
	var out []emergent.Event
	err := scan(r, cols, true, func(x colocation.Instance, at time.Time) {
		out = append(out, emergent.Event{Instance: x, Time: at})
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// index holds the header position of every configured column; -1 if unused.
type index struct {
	cat, id, x, y, geom, time int
}

func locate(header []string, cols Columns, withTime bool) (index, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	find := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	idx := index{x: -1, y: -1, geom: -1, time: -1}
	var err error
	if idx.cat, err = find(cols.Category); err != nil {
		return idx, err
	}
	if idx.id, err = find(cols.ID); err != nil {
		return idx, err
	}
	if cols.Geometry != "" {
		if idx.geom, err = find(cols.Geometry); err != nil {
			return idx, err
		}
	} else {
		if idx.x, err = find(cols.X); err != nil {
			return idx, err
		}
		if idx.y, err = find(cols.Y); err != nil {
			return idx, err
		}
	}
	if withTime {
		if idx.time, err = find(cols.Time); err != nil {
			return idx, err
		}
	}

	return idx, nil
}

func scan(r io.Reader, cols Columns, withTime bool, emit func(colocation.Instance, time.Time)) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// 1) Header.
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dataset: reading header: %w", err)
	}
	idx, err := locate(header, cols, withTime)
	if err != nil {
		return err
	}

	// 2) Records; line numbers are 1-based and count the header.
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("dataset: line %d: %w", line, err)
		}
		field := func(i int) string {
			if i < 0 || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		x := colocation.Instance{Category: field(idx.cat), ID: field(idx.id)}
		if idx.geom >= 0 {
			if x.Pos, err = ParsePoint(field(idx.geom)); err != nil {
				return &ParseError{Line: line, Column: cols.Geometry, Err: err}
			}
		} else {
			if x.Pos.X, err = strconv.ParseFloat(field(idx.x), 64); err != nil {
				return &ParseError{Line: line, Column: cols.X, Err: err}
			}
			if x.Pos.Y, err = strconv.ParseFloat(field(idx.y), 64); err != nil {
				return &ParseError{Line: line, Column: cols.Y, Err: err}
			}
		}

		var at time.Time
		if withTime {
			if at, err = ParseTime(field(idx.time)); err != nil {
				return &ParseError{Line: line, Column: cols.Time, Err: err}
			}
		}
		emit(x, at)
	}
}

// ParsePoint decodes the WKT form "POINT (x y)" written by spatial.Point.String.
func ParsePoint(s string) (spatial.Point, error) {
	body, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(s)), "POINT")
	if !ok {
		return spatial.Point{}, fmt.Errorf("not a WKT point: %q", s)
	}
	body = strings.TrimSpace(body)
	body, ok = strings.CutPrefix(body, "(")
	if !ok {
		return spatial.Point{}, fmt.Errorf("not a WKT point: %q", s)
	}
	body, ok = strings.CutSuffix(body, ")")
	if !ok {
		return spatial.Point{}, fmt.Errorf("not a WKT point: %q", s)
	}
	f := strings.Fields(body)
	if len(f) != 2 {
		return spatial.Point{}, fmt.Errorf("want 2 coordinates, got %d", len(f))
	}
	x, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return spatial.Point{}, err
	}
	y, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return spatial.Point{}, err
	}

	return spatial.Point{X: x, Y: y}, nil
}

// ParseTime tries TimeLayouts in order, then Unix seconds.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range TimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
