// Package config loads and validates the YAML run configuration shared by
// the colomine commands, and turns it into miner options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/dataset"
	"github.com/katalvlaran/colomine/emergent"
	"github.com/katalvlaran/colomine/spatial"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Denominator names accepted by the denominator key.
const (
	DenominatorStream = "stream"
	DenominatorSeen   = "seen"
)

// Config is one mining run. Zero workers means one per CPU.
type Config struct {
	K              int             `yaml:"k"`
	Theta          float64         `yaml:"theta"`
	Alpha          float64         `yaml:"alpha"`
	Relation       string          `yaml:"relation"`
	StrictRelation bool            `yaml:"strict_relation"`
	Threshold      float64         `yaml:"threshold"`
	Workers        int             `yaml:"workers"`
	Granularity    string          `yaml:"granularity"`
	Denominator    string          `yaml:"denominator"`
	Columns        dataset.Columns `yaml:"columns"`
	OutputDir      string          `yaml:"output_dir"`
}

// Default returns k=3, theta=0.6, alpha=0.5 and a 100 m meter relation.
func Default() Config {
	return Config{
		K:           3,
		Theta:       0.6,
		Alpha:       0.5,
		Relation:    spatial.NameMeter,
		Threshold:   100,
		Denominator: DenominatorSeen,
		Columns:     dataset.DefaultColumns(),
	}
}

// Load reads path over Default and validates the result. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks ranges and names; the first problem found is returned.
func (c Config) Validate() error {
	switch {
	case c.K < 1:
		return fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalid, c.K)
	case math.IsNaN(c.Theta) || c.Theta < 0:
		return fmt.Errorf("%w: theta must be non-negative, got %v", ErrInvalid, c.Theta)
	case math.IsNaN(c.Alpha) || c.Alpha < 0:
		return fmt.Errorf("%w: alpha must be non-negative, got %v", ErrInvalid, c.Alpha)
	case math.IsNaN(c.Threshold):
		return fmt.Errorf("%w: threshold must be a number", ErrInvalid)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Workers)
	}
	if _, err := c.ResolveRelation(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := emergent.ParseGranularity(c.Granularity); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.denominator(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// ResolveRelation maps the relation name to a predicate. Unknown names fall
// back to unit unless StrictRelation is set.
func (c Config) ResolveRelation() (spatial.Relation, error) {
	if c.StrictRelation {
		return spatial.LookupRelation(c.Relation)
	}

	return spatial.ParseRelation(c.Relation), nil
}

func (c Config) denominator() (emergent.Denominator, error) {
	switch strings.ToLower(strings.TrimSpace(c.Denominator)) {
	case "", DenominatorSeen:
		return emergent.DenominatorSeen, nil
	case DenominatorStream:
		return emergent.DenominatorStream, nil
	}

	return 0, fmt.Errorf("unknown denominator %q", c.Denominator)
}

// GeneralOptions converts c into colocation options. c must be valid.
func (c Config) GeneralOptions(logger *slog.Logger) []colocation.Option {
	rel, _ := c.ResolveRelation()
	opts := []colocation.Option{
		colocation.WithMaxK(c.K),
		colocation.WithTheta(c.Theta),
		colocation.WithAlpha(c.Alpha),
		colocation.WithRelation(rel),
		colocation.WithThreshold(c.Threshold),
		colocation.WithLogger(logger),
	}
	if c.Workers > 0 {
		opts = append(opts, colocation.WithWorkers(c.Workers))
	}

	return opts
}

// EmergentOptions converts c into emergent options. c must be valid.
func (c Config) EmergentOptions(logger *slog.Logger) []emergent.Option {
	rel, _ := c.ResolveRelation()
	g, _ := emergent.ParseGranularity(c.Granularity)
	d, _ := c.denominator()

	return []emergent.Option{
		emergent.WithTheta(c.Theta),
		emergent.WithAlpha(c.Alpha),
		emergent.WithRelation(rel),
		emergent.WithThreshold(c.Threshold),
		emergent.WithGranularity(g),
		emergent.WithDenominator(d),
		emergent.WithLogger(logger),
	}
}
