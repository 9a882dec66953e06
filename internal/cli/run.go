package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"project_switcher/internal/config"
	"project_switcher/internal/discovery"
	"project_switcher/internal/logging"
	"project_switcher/internal/mux"
	"project_switcher/internal/tui"
)

// runPicker shows the picker and acts on the chosen project once the
// terminal has been restored
func runPicker(cmd *cobra.Command, o *options) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Init(cfg.Log, version)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	scanner, err := newScanner(cfg, logger)
	if err != nil {
		return err
	}

	client, err := mux.NewClient(cfg.Tmux)
	if err != nil && !o.print {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := tui.NewModel(tui.Options{
		Defaults:       cfg.DefaultProjects(),
		Scanner:        scanner,
		CurrentSession: o.sessionFunc(client),
		Theme:          cfg.Theme,
		Context:        ctx,
		Logger:         logger,
	})

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if o.print {
		// stdout carries the result
		progOpts = append(progOpts, tea.WithOutput(os.Stderr))
	}
	p := tea.NewProgram(model, progOpts...)

	watcher := startWatcher(cfg, scanner.Roots(), logger)
	if watcher != nil {
		defer func() { _ = watcher.Stop() }()
	}

	g, gctx := errgroup.WithContext(ctx)
	var final tea.Model
	g.Go(func() error {
		defer cancel()
		var runErr error
		final, runErr = p.Run()
		return runErr
	})
	if watcher != nil {
		g.Go(func() error {
			forwardRescans(gctx, watcher, p.Send, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return context.Canceled
		}
		return fmt.Errorf("run picker: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	choice, ok := m.Choice()
	if !ok {
		return nil
	}

	if o.print {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", choice.Name, choice.Path)
		return err
	}
	logger.Info("switching session", slog.String("name", choice.Name), slog.String("path", choice.Path))
	if err := client.Switch(cmd.Context(), choice.Name, choice.Path); err != nil {
		return fmt.Errorf("switch to %q: %w", choice.Name, err)
	}
	return nil
}

// sessionFunc picks how the picker learns the session it runs in
func (o *options) sessionFunc(client *mux.Client) tui.SessionFunc {
	if o.currentSession != "" {
		name := o.currentSession
		return func(context.Context) (string, error) { return name, nil }
	}
	if client == nil {
		return nil
	}
	return client.CurrentSession
}

// startWatcher returns a running watcher, or nil when watching is off or
// cannot be set up. A missing watcher only costs live updates.
func startWatcher(cfg *config.Config, roots []string, logger *slog.Logger) *discovery.Watcher {
	if !cfg.Watch {
		return nil
	}
	w, err := discovery.NewWatcher(roots, discovery.DefaultDebounce, logger)
	if err != nil {
		logger.Warn("file watching disabled", slog.Any("error", err))
		return nil
	}
	if n := w.Watch(); n == 0 {
		logger.Warn("no project roots could be watched", slog.Any("roots", roots))
		_ = w.Stop()
		return nil
	}
	w.Start()
	return w
}

// forwardRescans hands watcher events to the UI until ctx is done
func forwardRescans(ctx context.Context, w *discovery.Watcher, send func(tea.Msg), logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-w.Events:
			send(tui.RescanMsg(ev))
		case err := <-w.Errors:
			logger.Warn("watch error", slog.Any("error", err))
		}
	}
}
