// Package cmd wires the gx command line to the git engine and the
// interactive views.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gx-go/internal/buildinfo"
	"github.com/thiagokokada/gx-go/internal/git"
	"github.com/thiagokokada/gx-go/internal/tui"
)

const limitEnv = "GX_LOG_LIMIT"

// Config is the validated command line configuration.
type Config struct {
	RepoPath string
	Mode     string
	Theme    tui.ThemePreference
	Verbose  bool
	LogFile  string
	Limit    int
	Watch    bool
}

func (c *Config) validate() error {
	theme, err := tui.ParseThemePreference(c.Mode)
	if err != nil {
		return err
	}
	c.Theme = theme
	if c.RepoPath == "" {
		c.RepoPath = "."
	}
	if c.Limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", c.Limit)
	}
	return nil
}

// Swapped in tests.
var (
	openEngine = func(path string) (git.Engine, error) { return git.Open(path) }
	browseLog  = tui.BrowseLog
	pickBranch = tui.PickBranch
)

func Run() error {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := &Config{}
	var closeLog func() error
	root := newRootCmd(cfg, &closeLog)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if closeLog != nil {
		err = errors.Join(err, closeLog())
	}
	return err
}

func newRootCmd(cfg *Config, closeLog *func() error) *cobra.Command {
	root := &cobra.Command{
		Use:           "gx",
		Short:         "Interactive history browser and branch switcher for git",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			closer, err := setupLogging(cfg, c.ErrOrStderr())
			if err != nil {
				return err
			}
			*closeLog = closer
			return nil
		},
	}
	root.SetVersionTemplate("gx {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&cfg.RepoPath, "repo", "C", ".", "path inside the git repository")
	flags.StringVar(&cfg.Mode, "mode", tui.ThemeAuto.String(), "color mode: auto, light, or dark")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "write debug logs to --log-file")
	flags.StringVar(&cfg.LogFile, "log-file", "", "debug log path (default $TMPDIR/gx.log)")

	root.AddCommand(newLogCmd(cfg), newCheckoutCmd(cfg))
	return root
}

// setupLogging sends slog output to the log file when verbose, and discards
// it otherwise since the terminal belongs to the interactive views.
func setupLogging(cfg *Config, stderr io.Writer) (func() error, error) {
	if !cfg.Verbose {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil, nil
	}
	path := cfg.LogFile
	if path == "" {
		path = filepath.Join(os.TempDir(), "gx.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	slog.Debug("gx starting", slog.String("version", buildinfo.String()), slog.String("repo", cfg.RepoPath))
	fmt.Fprintf(stderr, "gx: logging to %s\n", path)
	return f.Close, nil
}

type hinter interface {
	Hint() string
}

// Hint returns the user-facing suggestion attached to err, if any.
func Hint(err error) string {
	var h hinter
	if errors.As(err, &h) {
		return h.Hint()
	}
	return git.Help(err)
}

// PrintError reports err the way the gx binary does.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "gx: %v\n", err)
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(w, "help: %s\n", hint)
	}
}
