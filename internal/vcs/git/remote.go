// remote.go covers the network-facing half of the driver: remotes, fetch,
// merge, conflict resolution and push. Network failures are classified into
// vcs.ErrRemoteUnreachable so the sync engine can distinguish "offline"
// from "broken".

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jpl-au/notevault/internal/vcs"
)

// SetRemote creates or updates a named remote.
func (g *Git) SetRemote(ctx context.Context, name, url string) error {
	if _, err := g.run(ctx, "remote", "get-url", name); err != nil {
		if _, err := g.run(ctx, "remote", "add", name, url); err != nil {
			return fmt.Errorf("add remote %s: %w", name, err)
		}
		return nil
	}
	if _, err := g.run(ctx, "remote", "set-url", name, url); err != nil {
		return fmt.Errorf("set remote %s: %w", name, err)
	}
	return nil
}

// RemoteURL returns the URL of a named remote, or vcs.ErrNoRemote.
func (g *Git) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := g.run(ctx, "remote", "get-url", name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", vcs.ErrNoRemote, name)
	}
	return strings.TrimSpace(out), nil
}

// Fetch updates remote-tracking refs.
func (g *Git) Fetch(ctx context.Context, remote string) error {
	if _, err := g.runNet(ctx, "fetch", remote); err != nil {
		return fmt.Errorf("fetch %s: %w", remote, err)
	}
	return nil
}

// RemoteBranchExists reports whether remote/branch has a tracking ref.
func (g *Git) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	cmd := g.command(ctx, "rev-parse", "--verify", "--quiet",
		"refs/remotes/"+remote+"/"+branch)
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return false, nil
	}
	return false, fmt.Errorf("verify remote branch: %w", err)
}

// CheckoutRemoteBranch creates a local branch tracking remote/branch and
// checks it out. -B handles the unborn branch a fresh init leaves behind.
func (g *Git) CheckoutRemoteBranch(ctx context.Context, remote, branch string) error {
	if _, err := g.run(ctx, "checkout", "-B", branch, "--track", remote+"/"+branch); err != nil {
		return fmt.Errorf("checkout %s/%s: %w", remote, branch, err)
	}
	return nil
}

// Merge merges ref into the current branch. Vault histories from different
// devices start unrelated, so unrelated histories are always allowed. A
// conflicted stop returns vcs.ErrMergeConflict and leaves the repository
// mid-merge for ResolveOurs or AbortMerge.
func (g *Git) Merge(ctx context.Context, ref string) error {
	out, err := g.run(ctx, "merge", "--allow-unrelated-histories",
		"--no-edit", ref)
	if err == nil {
		return nil
	}
	if strings.Contains(out, "CONFLICT") ||
		strings.Contains(err.Error(), "Automatic merge failed") ||
		strings.Contains(err.Error(), "needs merge") {
		return fmt.Errorf("%w: merging %s", vcs.ErrMergeConflict, ref)
	}
	return fmt.Errorf("merge %s: %w", ref, err)
}

// ResolveOurs keeps the local side of each conflicted path, stages the
// result and concludes the merge. Paths deleted locally but modified on the
// remote have no "ours" blob; those are resolved by removing the file.
func (g *Git) ResolveOurs(ctx context.Context, paths []string) error {
	for _, p := range paths {
		if _, err := g.run(ctx, "checkout", "--ours", "--", p); err != nil {
			if _, rmErr := g.run(ctx, "rm", "--", p); rmErr != nil {
				return fmt.Errorf("resolve %s: %w", p, err)
			}
			continue
		}
		if _, err := g.run(ctx, "add", "--", p); err != nil {
			return fmt.Errorf("stage resolution %s: %w", p, err)
		}
	}
	if _, err := g.run(ctx, "commit", "--no-edit"); err != nil {
		return fmt.Errorf("conclude merge: %w", err)
	}
	return nil
}

// AbortMerge discards an in-progress merge.
func (g *Git) AbortMerge(ctx context.Context) error {
	if _, err := g.run(ctx, "merge", "--abort"); err != nil {
		return fmt.Errorf("abort merge: %w", err)
	}
	return nil
}

// AbortRebase discards an in-progress rebase.
func (g *Git) AbortRebase(ctx context.Context) error {
	if _, err := g.run(ctx, "rebase", "--abort"); err != nil {
		return fmt.Errorf("abort rebase: %w", err)
	}
	return nil
}

// Push publishes branch to remote. A push rejected for missing upstream is
// retried once with --set-upstream, which is the normal first-push path.
func (g *Git) Push(ctx context.Context, remote, branch string) error {
	_, err := g.runNet(ctx, "push", remote, branch)
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no upstream") ||
		strings.Contains(err.Error(), "set-upstream") {
		if _, err := g.runNet(ctx, "push", "--set-upstream", remote, branch); err != nil {
			return fmt.Errorf("push %s: %w", branch, err)
		}
		return nil
	}
	return fmt.Errorf("push %s: %w", branch, err)
}

// runNet is run with network-failure classification layered on.
func (g *Git) runNet(ctx context.Context, args ...string) (string, error) {
	cmd := g.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	msg := firstLine(stderr.String())
	if unreachable(stderr.String()) {
		return stdout.String(), fmt.Errorf("%w: %s", vcs.ErrRemoteUnreachable, msg)
	}
	return stdout.String(), fmt.Errorf("git %s: %w: %s", args[0], err, msg)
}

// unreachable matches the stderr patterns git emits when the remote cannot
// be contacted, as opposed to a rejected ref or auth misconfiguration that
// retrying will not fix.
func unreachable(stderr string) bool {
	s := strings.ToLower(stderr)
	for _, pat := range []string{
		"could not resolve host",
		"could not read from remote repository",
		"unable to access",
		"connection refused",
		"connection timed out",
		"operation timed out",
		"network is unreachable",
	} {
		if strings.Contains(s, pat) {
			return true
		}
	}
	return false
}
