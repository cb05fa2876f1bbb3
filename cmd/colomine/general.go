package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/dataset"
	"github.com/katalvlaran/colomine/export"
)

func newGeneralCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "general [instances.csv]",
		Short: "Mine prevalent colocations and association rules",
		Long:  `Reads feature instances, mines prevalent itemsets up to size k and prints them with the rules they support. With --out every level's table instance is written to k<k>.csv.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneral(cmd, g, args[0])
		},
	}
	cmd.Flags().IntP("k", "k", 0, "largest itemset size")
	cmd.Flags().Int("workers", 0, "concurrent shards per level (0 = one per CPU)")

	return cmd
}

func runGeneral(cmd *cobra.Command, g *globals, path string) error {
	cfg, err := g.load(cmd)
	if err != nil {
		return err
	}
	logger := g.logger(cmd.ErrOrStderr())

	// 1) Input.
	f, err := openInput(path)
	if err != nil {
		return err
	}
	instances, err := dataset.ReadInstances(f, cfg.Columns)
	f.Close()
	if err != nil {
		return err
	}
	logger.Info("instances loaded", slog.String("file", path), slog.Int("count", len(instances)))

	// 2) Mine, spilling each level as soon as it is final.
	opts := cfg.GeneralOptions(logger)
	if cfg.OutputDir != "" {
		opts = append(opts, colocation.WithLevelHook(func(l colocation.Level) error {
			out, err := export.WriteLevel(cfg.OutputDir, l)
			if err == nil {
				logger.Debug("level written", slog.Int("k", l.K), slog.String("file", out))
			}
			return err
		}))
	}
	res, err := colocation.Mine(cmd.Context(), instances, opts...)
	if err != nil {
		return err
	}

	// 3) Report.
	w := cmd.OutOrStdout()
	for _, lvl := range res.Levels[min(1, len(res.Levels)):] {
		fmt.Fprintf(w, "k=%d: %d candidates, %d prevalent\n", lvl.K, len(lvl.Candidates), len(lvl.Prevalent))
		for _, c := range lvl.Prevalent {
			fmt.Fprintln(w, "  "+c.String())
		}
	}
	fmt.Fprintf(w, "%d rules\n", len(res.Rules))
	if err := export.WriteRules(w, res.Rules); err != nil {
		return err
	}

	return g.flushMetrics()
}
