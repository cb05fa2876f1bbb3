package export_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/dataset"
	"github.com/katalvlaran/colomine/emergent"
	"github.com/katalvlaran/colomine/export"
	"github.com/katalvlaran/colomine/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inst(cat, id string, x, y float64) colocation.Instance {
	return colocation.Instance{Category: cat, ID: id, Pos: spatial.Point{X: x, Y: y}}
}

func TestWriteLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	lvl := colocation.Level{K: 2, Table: colocation.TableInstance{K: 2, Rows: []colocation.Row{
		{inst("a", "1", 0, 0), inst("b", "7", 1, 1)},
		{inst("a", "2", 0, 0), inst("b", "7", 1, 1)},
	}}}

	path, err := export.WriteLevel(dir, lvl)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "k2.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cat1,id1,cat2,id2\na,1,b,7\na,2,b,7\n", string(data))
}

func TestWriteSnapshot_ReadBack(t *testing.T) {
	dir := t.TempDir()
	s := emergent.Snapshot{
		Time: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		Matches: []emergent.Match{
			{New: inst("fire", "f1", 1.5, -2), Old: inst("tree", "t1", 1, -2)},
		},
	}

	path, err := export.WriteSnapshot(dir, s)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03 00:00:00.csv", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	// The new side reads back as instances through the WKT column.
	got, err := dataset.ReadInstances(f, dataset.Columns{Category: "new_cat", ID: "new_id", Geometry: "new_pos"})
	require.NoError(t, err)
	assert.Equal(t, []colocation.Instance{inst("fire", "f1", 1.5, -2)}, got)
}

func TestWriteRules(t *testing.T) {
	res, err := colocation.Mine(context.Background(), []colocation.Instance{
		inst("a", "1", 0, 0), inst("b", "1", 1, 0),
	}, colocation.WithRelation(spatial.Unit()), colocation.WithThreshold(2), colocation.WithMaxK(2))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, export.WriteRules(&sb, res.Rules))
	assert.Equal(t, "{b} => a (1.0, 1.0)\n{a} => b (1.0, 1.0)\n", sb.String())

	sb.Reset()
	cascade := []emergent.CascadeRule{{Antecedent: "fire", Consequent: "tree", CPI: 0.75}}
	require.NoError(t, export.WriteRules(&sb, cascade))
	assert.Equal(t, "fire => tree, Cascade Participation Index: 0.75\n", sb.String())
}

func TestWriteLevel_BadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := export.WriteLevel(filepath.Join(file, "sub"), colocation.Level{K: 1})
	assert.Error(t, err)
}
