package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toyCSV = `category,id,x,y
solid_sq,id1,1,3
empty_ci,id1,2,1
empty_ci,id2,2,5
solid_ci,id1,3,3
dotted_sq,id1,4,5
dotted_sq,id2,6,1
`

const eventsCSV = `category,id,x,y,time
fire,f1,1,0,2024-01-01 10:00:00
fire,f2,9,1,2024-01-02 10:00:00
fire,f3,50,50,2024-01-02 11:00:00
`

const treesCSV = `category,id,x,y
tree,t1,0,0
tree,t2,10,0
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestGeneral(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "toy.csv", toyCSV)
	out := filepath.Join(dir, "out")
	metrics := filepath.Join(dir, "metrics.prom")

	stdout, err := run(t, "general", in,
		"--relation", "unit", "--threshold", "2.3", "-o", out, "--metrics-file", metrics, "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "empty_ci, solid_ci, solid_sq: 2 items, p=1.0")
	assert.Contains(t, stdout, "9 rules")
	assert.Contains(t, stdout, "{empty_ci, solid_ci} => solid_sq (1.0, 1.0)")

	for _, name := range []string{"k1.csv", "k2.csv", "k3.csv"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "colomine_steps_total")
}

func TestGeneral_ConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "toy.csv", toyCSV)
	cfg := write(t, dir, "run.yaml", "relation: unit\nthreshold: 2.3\nk: 3\n")

	// The flag wins over the file: k=2 stops after pairs.
	stdout, err := run(t, "general", in, "-c", cfg, "-k", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "k=2: 6 candidates, 3 prevalent")
	assert.NotContains(t, stdout, "k=3")
}

func TestGeneral_Errors(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "toy.csv", toyCSV)

	_, err := run(t, "general", in, "--relation", "manhattan", "--strict-relation")
	assert.Error(t, err)

	_, err = run(t, "general", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = run(t, "general")
	assert.Error(t, err)
}

func TestEmergent(t *testing.T) {
	dir := t.TempDir()
	events := write(t, dir, "events.csv", eventsCSV)
	trees := write(t, dir, "trees.csv", treesCSV)
	out := filepath.Join(dir, "snapshots")

	stdout, err := run(t, "emergent", events, "--baseline", trees,
		"--relation", "unit", "--threshold", "2", "-g", "D", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2024-01-01 00:00:00: 1 matches")
	assert.Contains(t, stdout, "2024-01-02 00:00:00: 2 matches")
	assert.Contains(t, stdout, "fire => tree, Cascade Participation Index: 0.6667")
	assert.FileExists(t, filepath.Join(out, "2024-01-02 00:00:00.csv"))
}
