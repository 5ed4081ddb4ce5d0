// repair.go inspects the repository before each sync and undoes damage an
// interrupted run left behind. The rules, in the order applied:
//
//	stuck merge   -> abort it (the next merge redoes the work)
//	stuck rebase  -> abort it
//	detached HEAD -> reattach without losing commits made while detached
//
// A repository still broken after repair is declared unrepairable; sync
// refuses to run rather than compound the damage.

package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/notevault/internal/vcs"
)

// repair returns the actions taken, for the sync result and audit log.
func (s *Syncer) repair(ctx context.Context) ([]string, error) {
	st, err := s.vc.State(ctx)
	if err != nil {
		if errors.Is(err, vcs.ErrNoRepository) {
			return nil, fmt.Errorf("%w: %v", ErrUnrepairable, err)
		}
		return nil, err
	}
	if !st.InProgress() && !st.Detached {
		return nil, nil
	}

	s.setState(StateRepairing)
	var actions []string

	if st.Merging {
		s.report("aborting interrupted merge")
		if err := s.vc.AbortMerge(ctx); err != nil {
			return actions, fmt.Errorf("%w: %v", ErrUnrepairable, err)
		}
		actions = append(actions, "aborted merge")
	}
	if st.Rebasing {
		s.report("aborting interrupted rebase")
		if err := s.vc.AbortRebase(ctx); err != nil {
			return actions, fmt.Errorf("%w: %v", ErrUnrepairable, err)
		}
		actions = append(actions, "aborted rebase")
	}
	if st.Detached {
		act, err := s.reattach(ctx)
		if err != nil {
			return actions, err
		}
		actions = append(actions, act)
	}

	// Verify the repair took. Still broken means something beyond these
	// rules is wrong and human eyes are needed.
	st, err = s.vc.State(ctx)
	if err != nil {
		return actions, err
	}
	if st.InProgress() || st.Detached {
		return actions, fmt.Errorf("%w: repository still %s after repair",
			ErrUnrepairable, describe(st))
	}
	s.setState(StateSyncing)
	return actions, nil
}

// reattach moves HEAD back onto the sync branch. When HEAD is an ancestor
// of the branch nothing was committed while detached and a plain checkout
// suffices. Otherwise commits exist only on the detached HEAD; the branch
// is moved up to keep them reachable.
func (s *Syncer) reattach(ctx context.Context) (string, error) {
	head, err := s.vc.Head(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnrepairable, err)
	}

	ancestor, err := s.vc.IsAncestor(ctx, head, s.branch)
	if err == nil && ancestor {
		s.report("reattaching HEAD to %s", s.branch)
		if err := s.vc.CheckoutBranch(ctx, s.branch); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnrepairable, err)
		}
		return "reattached HEAD to " + s.branch, nil
	}

	s.report("recovering commits from detached HEAD onto %s", s.branch)
	if err := s.vc.ForceBranch(ctx, s.branch); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnrepairable, err)
	}
	return "moved " + s.branch + " to detached HEAD", nil
}

func describe(st vcs.State) string {
	switch {
	case st.Merging:
		return "mid-merge"
	case st.Rebasing:
		return "mid-rebase"
	case st.Detached:
		return "detached"
	}
	return "broken"
}
