// bootstrap.go handles first contact with a remote that already holds a
// vault. The order matters: fetch and check out the remote branch before
// any local commit exists, so a second device starts from the shared
// history instead of manufacturing an unrelated one that every later sync
// would have to merge across.

package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/notevault/internal/vcs"
)

// Bootstrap initialises the repository and, when a remote is configured,
// adopts its existing history. Reports whether remote notes were pulled in,
// so the caller knows to build the index from the fetched content.
func (s *Syncer) Bootstrap(ctx context.Context, remoteURL string) (adopted bool, err error) {
	if !s.busy.TryLock() {
		return false, ErrSyncInProgress
	}
	defer s.busy.Unlock()
	s.setState(StateSyncing)
	defer func() {
		if err != nil {
			s.setState(StateFailed)
		} else {
			s.setState(StateIdle)
		}
	}()

	if !s.vc.IsRepo() {
		s.report("initialising repository on branch %s", s.branch)
		if err := s.vc.Init(ctx, s.branch); err != nil {
			return false, err
		}
	}
	if remoteURL == "" {
		return false, nil
	}

	if err := s.vc.SetRemote(ctx, s.remote, remoteURL); err != nil {
		return false, err
	}
	s.report("fetching existing vault from %s", s.remote)
	if err := s.vc.Fetch(ctx, s.remote); err != nil {
		if errors.Is(err, vcs.ErrRemoteUnreachable) {
			s.report("remote unreachable, starting empty; first sync will reconcile")
			return false, nil
		}
		return false, err
	}

	exists, err := s.vc.RemoteBranchExists(ctx, s.remote, s.branch)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	s.report("adopting remote history on %s/%s", s.remote, s.branch)
	if err := s.vc.CheckoutRemoteBranch(ctx, s.remote, s.branch); err != nil {
		return false, fmt.Errorf("adopt remote branch: %w", err)
	}
	return true, nil
}
