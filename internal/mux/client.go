package mux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Client switches between tmux sessions for the picker.
type Client struct {
	bin string
	run func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewClient resolves the tmux binary and returns a Client.
func NewClient(tmuxPath string) (*Client, error) {
	if tmuxPath == "" {
		var err error
		tmuxPath, err = exec.LookPath("tmux")
		if err != nil {
			return nil, fmt.Errorf("tmux not found in PATH: %w", err)
		}
	}
	return &Client{bin: tmuxPath, run: exec.CommandContext}, nil
}

// WithExec allows tests to override the exec implementation.
func (c *Client) WithExec(fn func(context.Context, string, ...string) *exec.Cmd) {
	c.run = fn
}

// Binary returns the tmux path in use.
func (c *Client) Binary() string { return c.bin }

// InsideTmux reports whether the process runs inside a tmux client.
func InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// SessionName maps a project name to a valid tmux session name. tmux
// rejects '.' and ':' in session names.
func SessionName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ':' {
			return '_'
		}
		return r
	}, name)
}

// CurrentSession returns the attached session name, or "" outside tmux.
func (c *Client) CurrentSession(ctx context.Context) (string, error) {
	if !InsideTmux() {
		return "", nil
	}
	cmd := c.run(ctx, c.bin, "display-message", "-p", "#S")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Switch moves the client to the session for name, creating it in dir when
// it does not exist yet.
func (c *Client) Switch(ctx context.Context, name, dir string) error {
	session := SessionName(strings.TrimSpace(name))
	if session == "" {
		return errors.New("session name is required")
	}

	exists, err := c.sessionExists(ctx, session)
	if err != nil {
		return err
	}
	if !exists {
		if err := c.newSession(ctx, session, dir); err != nil {
			return err
		}
	}
	return c.attach(ctx, session)
}

func (c *Client) sessionExists(ctx context.Context, session string) (bool, error) {
	cmd := c.run(ctx, c.bin, "has-session", "-t", "="+session)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, fmt.Errorf("tmux has-session: %w", err)
	}
	return true, nil
}

func (c *Client) newSession(ctx context.Context, session, dir string) error {
	args := []string{"new-session", "-d", "-s", session}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	cmd := c.run(ctx, c.bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tmux new-session: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *Client) attach(ctx context.Context, session string) error {
	var args []string
	if InsideTmux() {
		args = []string{"switch-client", "-t", "=" + session}
	} else {
		args = []string{"attach-session", "-t", "=" + session}
	}
	cmd := c.run(ctx, c.bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return nil
}
