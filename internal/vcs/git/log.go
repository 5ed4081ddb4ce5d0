// log.go reads per-file history for the history command. Output parsing
// uses a field separator that cannot appear in hashes or dates, so only the
// free-text subject needs care.

package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpl-au/notevault/internal/vcs"
)

const logSep = "\x1f"

// FileLog lists commits that touched path, newest first.
func (g *Git) FileLog(ctx context.Context, path string, limit int) ([]vcs.Revision, error) {
	args := []string{"log", "--format=%H" + logSep + "%cI" + logSep + "%s"}
	if limit > 0 {
		args = append(args, "--max-count", strconv.Itoa(limit))
	}
	args = append(args, "--follow", "--", path)

	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", path, err)
	}

	var revs []vcs.Revision
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.SplitN(line, logSep, 3)
		if len(parts) != 3 {
			continue
		}
		revs = append(revs, vcs.Revision{Hash: parts[0], Date: parts[1], Subject: parts[2]})
	}
	return revs, nil
}

// FileAt returns the content of path at a revision.
func (g *Git) FileAt(ctx context.Context, rev, path string) ([]byte, error) {
	out, err := g.run(ctx, "show", rev+":"+path)
	if err != nil {
		return nil, fmt.Errorf("show %s at %s: %w", path, rev, err)
	}
	return []byte(out), nil
}
