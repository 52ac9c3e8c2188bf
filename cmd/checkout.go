package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gx-go/internal/fuzzy"
	"github.com/thiagokokada/gx-go/internal/git"
	"github.com/thiagokokada/gx-go/internal/tui"
)

// NoMatchError is returned when a checkout query names no branch or commit,
// even after fetching.
type NoMatchError struct {
	Query string
	Err   error
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no branch or commit matches query: %s", e.Query)
}

func (e *NoMatchError) Unwrap() error { return e.Err }

func (e *NoMatchError) Hint() string {
	return "Try 'gx checkout' to search for valid branches."
}

func newCheckoutCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "checkout [QUERY]",
		Aliases: []string{"co", "switch"},
		Short:   "Switch branches by fuzzy name, or pick one interactively",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var query string
			if len(args) > 0 {
				query = args[0]
			}
			return runCheckout(c.Context(), cfg, query, c.OutOrStdout())
		},
	}
}

func runCheckout(ctx context.Context, cfg *Config, query string, out io.Writer) error {
	eng, err := openEngine(cfg.RepoPath)
	if err != nil {
		return err
	}
	if query == "" {
		return pickAndCheckout(ctx, cfg, eng, out)
	}
	hit, err := fuzzy.Lookup(query, &branchSource{ctx: ctx, eng: eng})
	if err != nil {
		if errors.Is(err, fuzzy.ErrNoMatch) {
			return &NoMatchError{Query: query, Err: err}
		}
		return err
	}
	if hit.Direct {
		short, err := eng.CheckoutCommit(ctx, hit.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Switched to commit '%s'\n", short)
		return nil
	}
	if err := eng.CheckoutBranch(ctx, hit.Name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Switched to branch '%s'\n", hit.Name)
	return nil
}

func pickAndCheckout(ctx context.Context, cfg *Config, eng git.Engine, out io.Writer) error {
	names, current, err := eng.BranchNames()
	if err != nil {
		return err
	}
	res, err := pickBranch(ctx, names, current, eng.BranchInfo, tui.Options{Theme: cfg.Theme})
	if err != nil {
		return err
	}
	if !res.Chosen {
		fmt.Fprintln(out, "Checkout cancelled.")
		return nil
	}
	if err := eng.CheckoutBranch(ctx, res.Item); err != nil {
		return err
	}
	fmt.Fprintf(out, "Switched to branch '%s'\n", res.Item)
	return nil
}

// branchSource adapts the engine to fuzzy.Lookup: branch names are the
// candidates, a fetch is the refresh and any resolvable commit is accepted
// verbatim.
type branchSource struct {
	ctx context.Context
	eng git.Engine
}

func (s *branchSource) Names() ([]string, error) {
	names, _, err := s.eng.BranchNames()
	return names, err
}

func (s *branchSource) Refresh() error {
	slog.Debug("fetching before retrying checkout lookup")
	return s.eng.Fetch(s.ctx)
}

func (s *branchSource) Resolve(query string) bool {
	return s.eng.IsCommit(query)
}
