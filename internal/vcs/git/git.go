// Package git implements vcs.VersionControl by shelling out to the git
// binary. Every command runs with the working directory pinned to the vault
// root, so the driver never depends on the process's cwd, and every
// blocking call goes through exec.CommandContext so cancellation kills the
// child process.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jpl-au/notevault/internal/vcs"
)

// Git runs git commands against a single repository root.
type Git struct {
	root   string
	binary string
}

var _ vcs.VersionControl = (*Git)(nil)

// New returns a driver for the repository at root. The directory need not
// be a repository yet; Init creates one.
func New(root string) *Git {
	return &Git{root: root, binary: "git"}
}

// Available reports whether the git binary is on PATH.
func (g *Git) Available() bool {
	_, err := exec.LookPath(g.binary)
	return err == nil
}

// IsRepo reports whether root is a repository.
func (g *Git) IsRepo() bool {
	fi, err := os.Stat(filepath.Join(g.root, ".git"))
	return err == nil && fi.IsDir()
}

// Init creates a repository with the given initial branch.
func (g *Git) Init(ctx context.Context, branch string) error {
	if _, err := g.run(ctx, "init", "--initial-branch", branch); err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	return nil
}

// State snapshots branch, dirtiness, in-progress operations and conflicts.
func (g *Git) State(ctx context.Context) (vcs.State, error) {
	var st vcs.State
	if !g.IsRepo() {
		return st, vcs.ErrNoRepository
	}

	branch, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		// A fresh repository has no commits yet; HEAD resolves to the
		// unborn branch name via symbolic-ref instead.
		branch, err = g.run(ctx, "symbolic-ref", "--short", "HEAD")
		if err != nil {
			return st, fmt.Errorf("resolve HEAD: %w", err)
		}
	}
	branch = strings.TrimSpace(branch)
	if branch == "HEAD" {
		st.Detached = true
	} else {
		st.Branch = branch
	}

	status, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return st, fmt.Errorf("read status: %w", err)
	}
	for _, line := range strings.Split(status, "\n") {
		if len(line) < 4 {
			continue
		}
		st.Dirty = true
		if isUnmergedCode(line[:2]) {
			st.Conflicted = append(st.Conflicted, strings.TrimSpace(line[3:]))
		}
	}

	gitDir := filepath.Join(g.root, ".git")
	if _, err := os.Stat(filepath.Join(gitDir, "MERGE_HEAD")); err == nil {
		st.Merging = true
	}
	for _, d := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(gitDir, d)); err == nil {
			st.Rebasing = true
		}
	}
	return st, nil
}

// isUnmergedCode reports whether a porcelain XY code marks an unmerged path.
func isUnmergedCode(xy string) bool {
	switch xy {
	case "DD", "AU", "UD", "UA", "DU", "AA", "UU":
		return true
	}
	return false
}

// AddAll stages every change under the repository root.
func (g *Git) AddAll(ctx context.Context) error {
	if _, err := g.run(ctx, "add", "--all"); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}
	return nil
}

// Commit records staged changes.
func (g *Git) Commit(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "commit", "--message", message); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Head returns the current commit hash.
func (g *Git) Head(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (g *Git) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	cmd := g.command(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) && exit.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("merge-base: %w", err)
}

// CheckoutBranch switches to an existing local branch.
func (g *Git) CheckoutBranch(ctx context.Context, branch string) error {
	if _, err := g.run(ctx, "checkout", branch); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	return nil
}

// ForceBranch points branch at HEAD and checks it out. Used to reattach a
// detached HEAD without abandoning commits made while detached.
func (g *Git) ForceBranch(ctx context.Context, branch string) error {
	if _, err := g.run(ctx, "checkout", "-B", branch, "HEAD"); err != nil {
		return fmt.Errorf("force branch %s: %w", branch, err)
	}
	return nil
}

// command builds an exec.Cmd pinned to the repository root.
func (g *Git) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = g.root
	// Never let a sync block on an interactive credential or editor prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_EDITOR=true")
	return cmd
}

// run executes git with the given args, returning stdout. On failure the
// error carries the subcommand and the first stderr line.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := g.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("git %s: %w: %s",
			args[0], err, firstLine(stderr.String()))
	}
	return stdout.String(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
