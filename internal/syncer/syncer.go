// Package syncer drives replication of the vault through its version
// control repository. A sync is commit-first: local changes are always
// committed before the remote is consulted, so nothing a user wrote can be
// lost to a bad merge. Conflicts on note files resolve local-wins, because
// two encrypted blobs cannot be merged line-by-line and the device in hand
// holds the version the user most recently touched.
//
// Before each sync the engine inspects the repository and repairs damage
// left by interrupted runs (stuck merges, stuck rebases, detached HEAD).
// Repair is availability-first: it never discards a commit, only abandons
// half-finished operations.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jpl-au/notevault/internal/vcs"
)

var (
	// ErrSyncInProgress indicates another sync holds the engine.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrUnrepairable indicates the repository is damaged in a way the
	// engine cannot fix without risking data loss.
	ErrUnrepairable = errors.New("repository unrepairable")

	// ErrConflictUnresolvable indicates a merge conflict survived the
	// local-wins resolution pass.
	ErrConflictUnresolvable = errors.New("conflict unresolvable")
)

// State is the engine's externally visible phase.
type State string

const (
	StateIdle       State = "idle"
	StateSyncing    State = "syncing"
	StateRepairing  State = "repairing"
	StateConflicted State = "conflicted"
	StateFailed     State = "failed"
)

// Result summarises one sync.
type Result struct {
	Committed bool     // local changes were committed
	Pulled    bool     // the merge brought remote commits in
	Pushed    bool     // local commits reached the remote
	Offline   bool     // remote unreachable, local commit still stands
	Repaired  []string // repair actions taken before syncing
	Resolved  []string // paths resolved local-wins
}

// Syncer replicates one repository. Safe for concurrent use; only one sync
// runs at a time and late arrivals get ErrSyncInProgress rather than
// queueing, since the running sync already covers their changes.
type Syncer struct {
	vc     vcs.VersionControl
	remote string
	branch string

	// OnPulled runs after a merge lands remote commits, before push. The
	// vault hooks index reconciliation here.
	OnPulled func(ctx context.Context) error

	// Report receives progress lines for the CLI. May be nil.
	Report func(format string, args ...any)

	busy  sync.Mutex
	stMu  sync.Mutex
	state State
}

// New returns an engine for the repository behind vc, replicating branch
// against the named remote. An empty remote makes the vault local-only:
// Sync still commits, it just never talks to a network.
func New(vc vcs.VersionControl, remote, branch string) *Syncer {
	return &Syncer{vc: vc, remote: remote, branch: branch, state: StateIdle}
}

// State returns the engine's current phase.
func (s *Syncer) State() State {
	s.stMu.Lock()
	defer s.stMu.Unlock()
	return s.state
}

func (s *Syncer) setState(st State) {
	s.stMu.Lock()
	s.state = st
	s.stMu.Unlock()
}

func (s *Syncer) report(format string, args ...any) {
	if s.Report != nil {
		s.Report(format, args...)
	}
}

// Sync runs one full cycle: repair, commit, fetch, merge, reconcile, push.
// An unreachable remote is not an error; the local commit stands and the
// result notes the vault is offline.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	if !s.busy.TryLock() {
		return Result{}, ErrSyncInProgress
	}
	defer s.busy.Unlock()

	s.setState(StateSyncing)
	res, err := s.sync(ctx)
	switch {
	case err != nil:
		s.setState(StateFailed)
	default:
		s.setState(StateIdle)
	}
	return res, err
}

func (s *Syncer) sync(ctx context.Context) (Result, error) {
	var res Result

	repaired, err := s.repair(ctx)
	if err != nil {
		return res, err
	}
	res.Repaired = repaired

	st, err := s.vc.State(ctx)
	if err != nil {
		return res, err
	}
	if st.Dirty {
		if err := s.commitLocal(ctx); err != nil {
			return res, err
		}
		res.Committed = true
	}

	if s.remote == "" {
		return res, nil
	}

	s.report("fetching %s", s.remote)
	if err := s.vc.Fetch(ctx, s.remote); err != nil {
		if errors.Is(err, vcs.ErrRemoteUnreachable) {
			s.report("remote unreachable, will retry next sync")
			res.Offline = true
			return res, nil
		}
		return res, err
	}

	exists, err := s.vc.RemoteBranchExists(ctx, s.remote, s.branch)
	if err != nil {
		return res, err
	}
	if exists {
		pulled, resolved, err := s.merge(ctx)
		if err != nil {
			return res, err
		}
		res.Pulled = pulled
		res.Resolved = resolved
		if pulled && s.OnPulled != nil {
			if err := s.OnPulled(ctx); err != nil {
				return res, fmt.Errorf("reconcile after pull: %w", err)
			}
		}
	}

	s.report("pushing %s", s.branch)
	if err := s.vc.Push(ctx, s.remote, s.branch); err != nil {
		if errors.Is(err, vcs.ErrRemoteUnreachable) {
			res.Offline = true
			return res, nil
		}
		return res, err
	}
	res.Pushed = true
	return res, nil
}

// commitLocal stages and commits everything under the vault.
func (s *Syncer) commitLocal(ctx context.Context) error {
	if err := s.vc.AddAll(ctx); err != nil {
		return err
	}
	msg := "sync " + time.Now().Format("2006-01-02 15:04:05")
	s.report("committing local changes")
	return s.vc.Commit(ctx, msg)
}

// merge brings the remote branch in. Conflicts resolve local-wins; a
// resolution failure aborts the merge so the repository is never left
// mid-operation, then surfaces ErrConflictUnresolvable.
func (s *Syncer) merge(ctx context.Context) (pulled bool, resolved []string, err error) {
	before, err := s.vc.Head(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("resolve HEAD before merge: %w", err)
	}

	s.report("merging %s/%s", s.remote, s.branch)
	mergeErr := s.vc.Merge(ctx, s.remote+"/"+s.branch)
	if mergeErr != nil {
		if !errors.Is(mergeErr, vcs.ErrMergeConflict) {
			return false, nil, mergeErr
		}
		s.setState(StateConflicted)
		st, stErr := s.vc.State(ctx)
		if stErr != nil {
			return false, nil, stErr
		}
		s.report("resolving %d conflicts, keeping local versions", len(st.Conflicted))
		if resErr := s.vc.ResolveOurs(ctx, st.Conflicted); resErr != nil {
			if abortErr := s.vc.AbortMerge(ctx); abortErr != nil {
				return false, nil, fmt.Errorf("%w: %v (abort also failed: %v)",
					ErrConflictUnresolvable, resErr, abortErr)
			}
			return false, nil, fmt.Errorf("%w: %v", ErrConflictUnresolvable, resErr)
		}
		resolved = st.Conflicted
		s.setState(StateSyncing)
	}

	after, headErr := s.vc.Head(ctx)
	if headErr != nil {
		return false, resolved, headErr
	}
	return after != before, resolved, nil
}

// SyncWithTimeout bounds a sync, for the exit path: the process should not
// hang on a wedged network when the user is quitting.
func (s *Syncer) SyncWithTimeout(ctx context.Context, d time.Duration) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return s.Sync(ctx)
}
