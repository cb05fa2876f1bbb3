package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/colomine/config"
	"github.com/katalvlaran/colomine/emergent"
	"github.com/katalvlaran/colomine/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RoundTrip(t *testing.T) {
	def := config.Default()
	require.NoError(t, def.Validate())

	data, err := def.Marshal()
	require.NoError(t, err)
	got, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, def, got)
}

func TestParse_Overrides(t *testing.T) {
	got, err := config.Parse([]byte(`
k: 4
theta: 0.3
relation: unit
threshold: 2.3
granularity: D
denominator: seen
columns:
  category: tipo
  geometry: geom
output_dir: out
`))
	require.NoError(t, err)
	assert.Equal(t, 4, got.K)
	assert.Equal(t, 0.3, got.Theta)
	assert.Equal(t, 0.5, got.Alpha, "unset keys keep defaults")
	assert.Equal(t, "tipo", got.Columns.Category)
	assert.Equal(t, "id", got.Columns.ID)
	assert.Equal(t, "geom", got.Columns.Geometry)
	assert.Equal(t, "out", got.OutputDir)

	rel, err := got.ResolveRelation()
	require.NoError(t, err)
	assert.Equal(t, spatial.KindUnit, rel.Kind())
}

func TestParse_Empty(t *testing.T) {
	got, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), got)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"ZeroK", "k: 0"},
		{"NegativeTheta", "theta: -1"},
		{"NegativeAlpha", "alpha: -0.1"},
		{"NegativeWorkers", "workers: -2"},
		{"BadGranularity", "granularity: fortnight"},
		{"BadDenominator", "denominator: median"},
		{"StrictUnknownRelation", "relation: manhattan\nstrict_relation: true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	_, err := config.Parse([]byte("thetta: 0.3"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestStrictRelation(t *testing.T) {
	cfg := config.Default()
	cfg.Relation = "manhattan"

	rel, err := cfg.ResolveRelation()
	require.NoError(t, err)
	assert.Equal(t, spatial.KindUnit, rel.Kind(), "lenient fallback")

	cfg.StrictRelation = true
	_, err = cfg.ResolveRelation()
	assert.ErrorIs(t, err, spatial.ErrUnknownRelation)
	assert.ErrorIs(t, cfg.Validate(), spatial.ErrUnknownRelation)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: 2\nworkers: 4\n"), 0o600))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.K)
	assert.Equal(t, 4, got.Workers)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 2
	logger := slog.New(slog.DiscardHandler)

	assert.Len(t, cfg.GeneralOptions(logger), 7)
	assert.Len(t, config.Default().GeneralOptions(logger), 6)
	assert.Len(t, cfg.EmergentOptions(logger), 7)
}

func TestDenominator(t *testing.T) {
	resolve := func(c config.Config) emergent.Denominator {
		o := emergent.DefaultOptions()
		for _, opt := range c.EmergentOptions(slog.New(slog.DiscardHandler)) {
			opt(&o)
		}
		return o.Denominator
	}

	cfg := config.Default()
	assert.Equal(t, config.DenominatorSeen, cfg.Denominator)
	assert.Equal(t, emergent.DenominatorSeen, resolve(cfg))

	cfg.Denominator = ""
	assert.Equal(t, emergent.DenominatorSeen, resolve(cfg))

	cfg.Denominator = "Stream"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, emergent.DenominatorStream, resolve(cfg))
}
