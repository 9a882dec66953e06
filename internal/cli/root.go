// Package cli wires configuration, discovery, the picker UI and tmux into
// the project_switcher command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"project_switcher/internal/config"
	"project_switcher/internal/discovery"
)

var version = "0.1.0"

// options holds the command-line flags
type options struct {
	configPath     string
	roots          string
	finder         string
	maxDepth       int
	tmux           string
	currentSession string
	print          bool
	noWatch        bool
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "project_switcher",
		Short: "Fuzzy-pick a git project and switch to its tmux session",
		Long: "project_switcher finds git checkouts under your project roots, lets you " +
			"narrow them down with a fuzzy filter, and switches to (or creates) a tmux " +
			"session named after the chosen project.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPicker(cmd, o)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "config file (default: search standard locations)")
	pf.StringVar(&o.roots, "roots", "", "colon-separated project roots (overrides config)")
	pf.StringVar(&o.finder, "finder", "", "fd binary (overrides config)")
	pf.IntVar(&o.maxDepth, "max-depth", discovery.DefaultMaxDepth, "finder search depth below each root")

	f := root.Flags()
	f.StringVar(&o.tmux, "tmux", "", "tmux binary (default: looked up in PATH)")
	f.StringVar(&o.currentSession, "current-session", "", "treat this session as the current one instead of asking tmux")
	f.BoolVarP(&o.print, "print", "p", false, "print the chosen name and path instead of switching")
	f.BoolVar(&o.noWatch, "no-watch", false, "do not rescan when project roots change")

	root.AddCommand(newListCmd(o))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "project_switcher %s\n", version)
		},
	}
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies flag overrides
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFromDefaultPath()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("roots") {
		cfg.Roots = o.roots
	}
	if flags.Changed("finder") {
		cfg.Finder = o.finder
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if flags.Changed("tmux") {
		cfg.Tmux = o.tmux
	}
	if flags.Changed("no-watch") && o.noWatch {
		cfg.Watch = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newScanner(cfg *config.Config, logger *slog.Logger) (*discovery.Scanner, error) {
	return discovery.NewScanner(discovery.Options{
		Finder:   cfg.Finder,
		MaxDepth: cfg.MaxDepth,
		Roots:    cfg.RootList(),
		Ignore:   cfg.Ignore,
		Timeout:  cfg.ScanTimeout,
		Logger:   logger,
	})
}
