// Package vcs defines the version control capability the sync engine
// depends on. The interface carries exactly the operations sync and repair
// need; the git subprocess driver in internal/vcs/git implements it, and
// tests substitute a fake so sync logic is exercised without a repository.
package vcs

import (
	"context"
	"errors"
)

var (
	// ErrNoRepository indicates the directory is not under version control.
	ErrNoRepository = errors.New("not a repository")

	// ErrNoRemote indicates no remote is configured for the repository.
	ErrNoRemote = errors.New("no remote configured")

	// ErrRemoteUnreachable indicates the remote exists but could not be
	// contacted (network down, host unknown, auth refused).
	ErrRemoteUnreachable = errors.New("remote unreachable")

	// ErrMergeConflict indicates a merge stopped on conflicting paths. The
	// repository is left mid-merge; the caller resolves or aborts.
	ErrMergeConflict = errors.New("merge conflict")
)

// State is a snapshot of the repository's working state.
type State struct {
	// Branch is the checked-out branch, empty when detached.
	Branch string

	// Detached reports HEAD pointing at a commit rather than a branch.
	Detached bool

	// Dirty reports uncommitted changes (staged, unstaged, or untracked).
	Dirty bool

	// Merging and Rebasing report an in-progress operation left behind by
	// an interrupted sync.
	Merging  bool
	Rebasing bool

	// Conflicted lists unmerged paths, relative to the repository root.
	Conflicted []string
}

// InProgress reports whether an interrupted merge or rebase is pending.
func (s State) InProgress() bool {
	return s.Merging || s.Rebasing
}

// VersionControl is the capability surface the sync engine runs against.
// Every blocking operation takes a context; the driver kills the underlying
// process on cancellation.
type VersionControl interface {
	// Available reports whether the backing tool is installed.
	Available() bool

	// IsRepo reports whether the working directory is a repository root.
	IsRepo() bool

	// Init creates a repository with the given initial branch.
	Init(ctx context.Context, branch string) error

	// State snapshots the working state.
	State(ctx context.Context) (State, error)

	// AddAll stages every change under the repository root.
	AddAll(ctx context.Context) error

	// Commit records staged changes. Committing with nothing staged is an
	// error; callers check State().Dirty first.
	Commit(ctx context.Context, message string) error

	// Head returns the current commit hash.
	Head(ctx context.Context) (string, error)

	// IsAncestor reports whether ancestor is reachable from descendant.
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)

	// CheckoutBranch switches to an existing local branch.
	CheckoutBranch(ctx context.Context, branch string) error

	// ForceBranch points branch at the current HEAD and checks it out,
	// creating or moving the branch as needed.
	ForceBranch(ctx context.Context, branch string) error

	// SetRemote creates or updates a named remote.
	SetRemote(ctx context.Context, name, url string) error

	// RemoteURL returns the URL of a named remote, or ErrNoRemote.
	RemoteURL(ctx context.Context, name string) (string, error)

	// Fetch updates remote-tracking refs. Unreachable remotes map to
	// ErrRemoteUnreachable.
	Fetch(ctx context.Context, remote string) error

	// RemoteBranchExists reports whether remote/branch has a tracking ref
	// after a fetch.
	RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error)

	// CheckoutRemoteBranch creates a local branch tracking remote/branch
	// and checks it out. Used on first sync into an existing vault.
	CheckoutRemoteBranch(ctx context.Context, remote, branch string) error

	// Merge merges ref into the current branch, allowing unrelated
	// histories. A conflicted stop returns ErrMergeConflict with the
	// repository left mid-merge.
	Merge(ctx context.Context, ref string) error

	// ResolveOurs resolves conflicted paths by keeping the local side,
	// stages them, and concludes the merge with a commit.
	ResolveOurs(ctx context.Context, paths []string) error

	// AbortMerge and AbortRebase discard an in-progress operation and
	// restore the pre-operation working state.
	AbortMerge(ctx context.Context) error
	AbortRebase(ctx context.Context) error

	// Push publishes branch to remote, establishing upstream tracking if
	// none exists. Unreachable remotes map to ErrRemoteUnreachable.
	Push(ctx context.Context, remote, branch string) error

	// FileLog lists commits that touched path, newest first.
	FileLog(ctx context.Context, path string, limit int) ([]Revision, error)

	// FileAt returns the content of path at a revision.
	FileAt(ctx context.Context, rev, path string) ([]byte, error)
}

// Revision describes one commit in a file's history.
type Revision struct {
	Hash    string
	Date    string
	Subject string
}
