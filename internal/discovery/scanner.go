package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultScanTimeout bounds a single finder run
const DefaultScanTimeout = 30 * time.Second

// Options configures a Scanner
type Options struct {
	Finder   string
	MaxDepth int
	Roots    []string // Unexpanded roots, e.g. "~/src"
	Ignore   []string // doublestar globs matched against project paths
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Scanner runs the finder and turns its output into catalog entries
type Scanner struct {
	finder   string
	maxDepth int
	roots    []string
	filter   *Filter
	timeout  time.Duration
	log      *slog.Logger
	run      func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewScanner validates opts and returns a Scanner.
func NewScanner(opts Options) (*Scanner, error) {
	filter, err := NewFilter(opts.Ignore)
	if err != nil {
		return nil, err
	}
	roots := opts.Roots
	if len(roots) == 0 {
		roots = []string{DefaultRoot}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		finder:   opts.Finder,
		maxDepth: opts.MaxDepth,
		roots:    roots,
		filter:   filter,
		timeout:  timeout,
		log:      logger.With(slog.String("component", "discovery")),
		run:      exec.CommandContext,
	}, nil
}

// WithExec allows tests to override the exec implementation.
func (s *Scanner) WithExec(fn func(context.Context, string, ...string) *exec.Cmd) {
	s.run = fn
}

// Roots returns the expanded roots the scanner searches.
func (s *Scanner) Roots() []string {
	return ExpandRoots(s.roots)
}

// Args returns the full finder command line.
func (s *Scanner) Args() []string {
	return Command(s.finder, s.maxDepth, s.Roots())
}

// Scan runs the finder once. A non-zero exit is an error; malformed output
// lines are dropped.
func (s *Scanner) Scan(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := s.Args()
	start := time.Now()
	cmd := s.run(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			s.log.Warn("finder exited with error",
				slog.Int("exit_code", exitErr.ExitCode()),
				slog.String("stderr", msg))
			if msg != "" {
				return nil, fmt.Errorf("run %s: %w: %s", args[0], err, msg)
			}
		}
		return nil, fmt.Errorf("run %s: %w", args[0], err)
	}

	projects := s.filter.Apply(ParseOutput(output))
	s.log.Debug("scan complete",
		slog.Int("projects", len(projects)),
		slog.Duration("elapsed", time.Since(start)))
	return projects, nil
}
