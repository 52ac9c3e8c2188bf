package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gx-go/internal/git"
	"github.com/thiagokokada/gx-go/internal/tui"
)

func newLogCmd(cfg *Config) *cobra.Command {
	c := &cobra.Command{
		Use:     "log",
		Aliases: []string{"l"},
		Short:   "Browse the commit graph and check out a commit",
		Args:    cobra.NoArgs,
		PreRunE: func(c *cobra.Command, _ []string) error {
			return limitFromEnv(cfg, c.Flags().Changed("limit"))
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return runLog(c.Context(), cfg, c.OutOrStdout())
		},
	}
	c.Flags().IntVarP(&cfg.Limit, "limit", "n", git.DefaultLimit, "maximum number of commits to load (env "+limitEnv+")")
	c.Flags().BoolVar(&cfg.Watch, "watch", false, "show a notice when the repository changes on disk")
	return c
}

func limitFromEnv(cfg *Config, flagSet bool) error {
	raw, ok := os.LookupEnv(limitEnv)
	if flagSet || !ok || raw == "" {
		return nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return fmt.Errorf("invalid %s %q: want a non-negative number", limitEnv, raw)
	}
	cfg.Limit = limit
	return nil
}

func runLog(ctx context.Context, cfg *Config, out io.Writer) error {
	eng, err := openEngine(cfg.RepoPath)
	if err != nil {
		return err
	}
	lg, err := eng.LoadLog("", cfg.Limit)
	if err != nil {
		return err
	}
	if len(lg.Entries) == 0 {
		fmt.Fprintln(out, "No commits found")
		return nil
	}
	opts := tui.Options{Theme: cfg.Theme}
	if cfg.Watch {
		opts.WatchPath = eng.RepoPath()
	}
	res, err := browseLog(ctx, lg, eng.CommitDetail, opts)
	if err != nil {
		return err
	}
	if !res.Chosen {
		return nil
	}
	short, err := eng.CheckoutCommit(ctx, res.Item.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Checked out commit %s\n", short)
	return nil
}
