package dataset_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/colomine/dataset"
	"github.com/katalvlaran/colomine/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInstances_XY(t *testing.T) {
	in := "note,category,id,x,y\n" +
		"a,solid_sq,id1,1,3\n" +
		"b, empty_ci ,id1,2,1.5\n"

	got, err := dataset.ReadInstances(strings.NewReader(in), dataset.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "solid_sq", got[0].Category)
	assert.Equal(t, "id1", got[0].ID)
	assert.Equal(t, spatial.Point{X: 1, Y: 3}, got[0].Pos)
	assert.Equal(t, "empty_ci", got[1].Category)
	assert.Equal(t, spatial.Point{X: 2, Y: 1.5}, got[1].Pos)
}

func TestReadInstances_Geometry(t *testing.T) {
	cols := dataset.Columns{Category: "tipo", ID: "code", Geometry: "geom"}
	in := "code,tipo,geom\n" +
		"7,fire,POINT (-58.4 -34.6)\n" +
		"8,fire,point(1e-3 2)\n"

	got, err := dataset.ReadInstances(strings.NewReader(in), cols)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, spatial.Point{X: -58.4, Y: -34.6}, got[0].Pos)
	assert.Equal(t, spatial.Point{X: 0.001, Y: 2}, got[1].Pos)
}

func TestReadInstances_Empty(t *testing.T) {
	got, err := dataset.ReadInstances(strings.NewReader(""), dataset.DefaultColumns())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = dataset.ReadInstances(strings.NewReader("category,id,x,y\n"), dataset.DefaultColumns())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadInstances_Errors(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		column string
		line   int
	}{
		{"BadX", "category,id,x,y\na,1,2,3\nb,2,oops,1\n", "x", 3},
		{"EmptyY", "category,id,x,y\na,1,2,\n", "y", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dataset.ReadInstances(strings.NewReader(tc.in), dataset.DefaultColumns())
			var pe *dataset.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.column, pe.Column)
			assert.Equal(t, tc.line, pe.Line)
		})
	}

	_, err := dataset.ReadInstances(strings.NewReader("category,x,y\na,1,2\n"), dataset.DefaultColumns())
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestReadEvents(t *testing.T) {
	in := "category,id,x,y,time\n" +
		"fire,f1,1,0,2024-01-01 10:00:00\n" +
		"fire,f2,2,0,2024-01-02T03:00:00+02:00\n" +
		"smoke,s1,3,0,2024-01-05\n" +
		"smoke,s2,4,0,1704067200\n"

	got, err := dataset.ReadEvents(strings.NewReader(in), dataset.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.True(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).Equal(got[0].Time))
	assert.True(t, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC).Equal(got[1].Time))
	assert.True(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC).Equal(got[2].Time))
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(got[3].Time))
	assert.Equal(t, "s2", got[3].ID)

	_, err = dataset.ReadEvents(strings.NewReader("category,id,x,y\n"), dataset.DefaultColumns())
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)

	_, err = dataset.ReadEvents(strings.NewReader("category,id,x,y,time\na,1,0,0,yesterday\n"), dataset.DefaultColumns())
	var pe *dataset.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestParsePoint(t *testing.T) {
	p, err := dataset.ParsePoint(spatial.Point{X: 1.25, Y: -3}.String())
	require.NoError(t, err)
	assert.Equal(t, spatial.Point{X: 1.25, Y: -3}, p)

	for _, bad := range []string{"", "LINESTRING (1 2, 3 4)", "POINT 1 2", "POINT (1)", "POINT (a b)"} {
		_, err := dataset.ParsePoint(bad)
		assert.Error(t, err, bad)
	}
}
