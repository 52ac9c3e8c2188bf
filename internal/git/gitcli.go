package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// gitExecutable is the command used for operations that go through the user's
// git installation (network access and worktree updates).
var gitExecutable = "git"

func (s *Service) runGitCommand(ctx context.Context, op string, args ...string) (string, error) {
	if s.path == "" {
		return "", newError(KindCommand, op, errors.New("repository root not set"))
	}
	cmdArgs := append([]string{"-C", s.path}, args...)
	cmd := exec.CommandContext(ctx, gitExecutable, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("running git", slog.String("op", op), slog.Any("args", args))
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", newError(KindCommand, op, fmt.Errorf("%s not found in PATH: %w", gitExecutable, err))
		}
		gerr := newError(KindCommand, op, err)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			gerr.Err = fmt.Errorf("%w: %s", err, msg)
			gerr.Help = ""
		}
		return "", gerr
	}
	return stdout.String(), nil
}

// Fetch updates remote-tracking branches from the default remote.
func (s *Service) Fetch(ctx context.Context) error {
	_, err := s.runGitCommand(ctx, "git fetch", "fetch", "--quiet")
	return err
}

// CheckoutBranch switches the worktree to a branch. A name that only exists on
// a remote creates a local tracking branch, as git switch does.
func (s *Service) CheckoutBranch(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "-") {
		return newError(KindNotFound, "git switch", fmt.Errorf("invalid branch name %q", name))
	}
	if err := s.ensureSwitchSupported(ctx); err != nil {
		return err
	}
	_, err := s.runGitCommand(ctx, "git switch", "switch", name)
	return err
}

// CheckoutCommit detaches HEAD at the given commit and returns its short id.
func (s *Service) CheckoutCommit(ctx context.Context, id string) (string, error) {
	desc, err := s.Resolve(id)
	if err != nil {
		return "", err
	}
	if err := s.ensureSwitchSupported(ctx); err != nil {
		return "", err
	}
	if _, err := s.runGitCommand(ctx, "git switch", "switch", "--detach", desc.ID); err != nil {
		return "", err
	}
	return desc.ShortID, nil
}
