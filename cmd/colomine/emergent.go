package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/dataset"
	"github.com/katalvlaran/colomine/emergent"
	"github.com/katalvlaran/colomine/export"
)

func newEmergentCmd(g *globals) *cobra.Command {
	var baseline string
	cmd := &cobra.Command{
		Use:   "emergent [events.csv]",
		Short: "Mine cascades of new events around established ones",
		Long:  `Reads timestamped events, buckets them by granularity and tracks which new categories keep appearing next to the old state. With --out every bucket's snapshot is written to "<time>.csv".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmergent(cmd, g, args[0], baseline)
		},
	}
	cmd.Flags().StringVar(&baseline, "baseline", "", "CSV of instances forming the initial old state")
	cmd.Flags().StringP("granularity", "g", "", "time bucket: H, D, W, M, Y or a duration (default exact)")
	cmd.Flags().String("denominator", "", "per-bucket population: seen (default) or stream")

	return cmd
}

func runEmergent(cmd *cobra.Command, g *globals, path, baseline string) error {
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
	events, err := dataset.ReadEvents(f, cfg.Columns)
	f.Close()
	if err != nil {
		return err
	}
	var old []colocation.Instance
	if baseline != "" {
		bf, err := openInput(baseline)
		if err != nil {
			return err
		}
		old, err = dataset.ReadInstances(bf, cfg.Columns)
		bf.Close()
		if err != nil {
			return err
		}
	}
	logger.Info("events loaded", slog.String("file", path), slog.Int("events", len(events)), slog.Int("baseline", len(old)))

	// 2) Mine, spilling each snapshot as soon as it is final.
	opts := append(cfg.EmergentOptions(logger), emergent.WithBaseline(old))
	if cfg.OutputDir != "" {
		opts = append(opts, emergent.WithBucketHook(func(s emergent.Snapshot) error {
			out, err := export.WriteSnapshot(cfg.OutputDir, s)
			if err == nil {
				logger.Debug("snapshot written", slog.Time("bucket", s.Time), slog.String("file", out))
			}
			return err
		}))
	}
	res, err := emergent.Mine(cmd.Context(), events, opts...)
	if err != nil {
		return err
	}

	// 3) Report.
	w := cmd.OutOrStdout()
	for _, s := range res.Snapshots {
		fmt.Fprintf(w, "%s: %d matches\n", s.Time.Format(export.SnapshotLayout), s.Len())
	}
	fmt.Fprintf(w, "%d cascade rules\n", len(res.Rules))
	if err := export.WriteRules(w, res.Rules); err != nil {
		return err
	}

	return g.flushMetrics()
}
