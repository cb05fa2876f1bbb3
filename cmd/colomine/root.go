package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/colomine/config"
	"github.com/katalvlaran/colomine/internal/telemetry"
)

// globals are the flags shared by every subcommand.
type globals struct {
	configPath  string
	verbose     bool
	metricsFile string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "colomine",
		Short:         "Spatial colocation and emergent cascade mining",
		Long:          `colomine finds categories of features that co-occur in space (general) and new events that keep appearing next to established ones (emergent).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "YAML run configuration")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log per-level and per-bucket statistics")
	pf.StringVar(&g.metricsFile, "metrics-file", "", "write prometheus metrics to this file on exit")
	pf.Float64("theta", 0, "minimum prevalence")
	pf.Float64("alpha", 0, "rule threshold")
	pf.String("relation", "", "spatial relation: unit or meter")
	pf.Bool("strict-relation", false, "reject unknown relation names")
	pf.Float64("threshold", 0, "relation threshold")
	pf.StringP("out", "o", "", "directory for CSV output")

	root.AddCommand(newGeneralCmd(g), newEmergentCmd(g))

	return root
}

// load reads the configuration file (or defaults) and applies every flag the
// user set explicitly.
func (g *globals) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return cfg, err
		}
	}

	fs := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}
	set("k", func() (e error) { cfg.K, e = fs.GetInt("k"); return })
	set("workers", func() (e error) { cfg.Workers, e = fs.GetInt("workers"); return })
	set("theta", func() (e error) { cfg.Theta, e = fs.GetFloat64("theta"); return })
	set("alpha", func() (e error) { cfg.Alpha, e = fs.GetFloat64("alpha"); return })
	set("relation", func() (e error) { cfg.Relation, e = fs.GetString("relation"); return })
	set("strict-relation", func() (e error) { cfg.StrictRelation, e = fs.GetBool("strict-relation"); return })
	set("threshold", func() (e error) { cfg.Threshold, e = fs.GetFloat64("threshold"); return })
	set("granularity", func() (e error) { cfg.Granularity, e = fs.GetString("granularity"); return })
	set("denominator", func() (e error) { cfg.Denominator, e = fs.GetString("denominator"); return })
	set("out", func() (e error) { cfg.OutputDir, e = fs.GetString("out"); return })
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (g *globals) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (g *globals) flushMetrics() error {
	if g.metricsFile == "" {
		return nil
	}
	if err := telemetry.WriteMetrics(g.metricsFile); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}

	return nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	return f, nil
}
