// Integration tests for the git driver. They shell out to a real git
// binary against throwaway repositories and skip when git is not
// installed. Remotes are local bare repositories, so no test touches the
// network except the unreachable-host classification, which targets an
// unresolvable name.

package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/notevault/internal/vcs"
)

func testRepo(t *testing.T) *Git {
	t.Helper()
	g := New(t.TempDir())
	if !g.Available() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	require.NoError(t, g.Init(ctx, "main"))
	configureIdentity(t, g)
	return g
}

func configureIdentity(t *testing.T, g *Git) {
	t.Helper()
	ctx := context.Background()
	for _, args := range [][]string{
		{"config", "user.name", "Test"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := g.run(ctx, args...)
		require.NoError(t, err)
	}
}

// bareRemote creates a bare repository usable as a file:// style remote.
func bareRemote(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	b := New(dir)
	if !b.Available() {
		t.Skip("git not installed")
	}
	_, err := b.run(context.Background(), "init", "--bare", "--initial-branch", "main")
	require.NoError(t, err)
	return dir
}

func writeFile(t *testing.T, g *Git, name, content string) {
	t.Helper()
	p := filepath.Join(g.root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func commitAll(t *testing.T, g *Git, msg string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, g.AddAll(ctx))
	require.NoError(t, g.Commit(ctx, msg))
}

func TestInitAndState(t *testing.T) {
	g := testRepo(t)
	ctx := context.Background()

	assert.True(t, g.IsRepo())

	// Unborn branch: no commits yet, but the branch name resolves.
	st, err := g.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", st.Branch)
	assert.False(t, st.Detached)
	assert.False(t, st.Dirty)

	writeFile(t, g, "notes/2026/01/20260115103000.md.gpg", "ciphertext")
	st, err = g.State(ctx)
	require.NoError(t, err)
	assert.True(t, st.Dirty)

	commitAll(t, g, "sync 2026-01-15 10:30:00")
	st, err = g.State(ctx)
	require.NoError(t, err)
	assert.False(t, st.Dirty)
	assert.False(t, st.InProgress())

	head, err := g.Head(ctx)
	require.NoError(t, err)
	assert.Len(t, head, 40)
}

func TestState_NotARepo(t *testing.T) {
	g := New(t.TempDir())
	if !g.Available() {
		t.Skip("git not installed")
	}
	_, err := g.State(context.Background())
	assert.ErrorIs(t, err, vcs.ErrNoRepository)
}

func TestDetachedHead(t *testing.T) {
	g := testRepo(t)
	ctx := context.Background()

	writeFile(t, g, "a.txt", "one")
	commitAll(t, g, "first")
	first, err := g.Head(ctx)
	require.NoError(t, err)

	writeFile(t, g, "a.txt", "two")
	commitAll(t, g, "second")
	second, err := g.Head(ctx)
	require.NoError(t, err)

	// Detach onto the first commit.
	_, err = g.run(ctx, "checkout", "--detach", first)
	require.NoError(t, err)

	st, err := g.State(ctx)
	require.NoError(t, err)
	assert.True(t, st.Detached)
	assert.Empty(t, st.Branch)

	t.Run("ancestor check", func(t *testing.T) {
		ok, err := g.IsAncestor(ctx, first, "main")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.IsAncestor(ctx, second, first)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("plain checkout reattaches", func(t *testing.T) {
		require.NoError(t, g.CheckoutBranch(ctx, "main"))
		st, err := g.State(ctx)
		require.NoError(t, err)
		assert.False(t, st.Detached)
		assert.Equal(t, "main", st.Branch)
	})

	t.Run("force branch keeps detached commits", func(t *testing.T) {
		_, err = g.run(ctx, "checkout", "--detach", "main")
		require.NoError(t, err)
		writeFile(t, g, "b.txt", "stranded work")
		commitAll(t, g, "made while detached")
		stranded, err := g.Head(ctx)
		require.NoError(t, err)

		require.NoError(t, g.ForceBranch(ctx, "main"))

		st, err := g.State(ctx)
		require.NoError(t, err)
		assert.False(t, st.Detached)
		assert.Equal(t, "main", st.Branch)
		head, err := g.Head(ctx)
		require.NoError(t, err)
		assert.Equal(t, stranded, head, "the stranded commit is now the branch tip")
	})
}

func TestRemoteRoundTrip(t *testing.T) {
	remote := bareRemote(t)
	ctx := context.Background()

	// First device publishes.
	a := testRepo(t)
	writeFile(t, a, "notes/2026/01/20260115103000.md.gpg", "ciphertext-a")
	commitAll(t, a, "first note")
	require.NoError(t, a.SetRemote(ctx, "origin", remote))

	url, err := a.RemoteURL(ctx, "origin")
	require.NoError(t, err)
	assert.Equal(t, remote, url)

	exists, err := a.RemoteBranchExists(ctx, "origin", "main")
	require.NoError(t, err)
	assert.False(t, exists, "nothing pushed yet")

	require.NoError(t, a.Push(ctx, "origin", "main"))
	require.NoError(t, a.Fetch(ctx, "origin"))
	exists, err = a.RemoteBranchExists(ctx, "origin", "main")
	require.NoError(t, err)
	assert.True(t, exists)

	// Second device adopts the published history.
	b := testRepo(t)
	require.NoError(t, b.SetRemote(ctx, "origin", remote))
	require.NoError(t, b.Fetch(ctx, "origin"))
	require.NoError(t, b.CheckoutRemoteBranch(ctx, "origin", "main"))

	headA, err := a.Head(ctx)
	require.NoError(t, err)
	headB, err := b.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, headA, headB)
	assert.FileExists(t, filepath.Join(b.root, "notes/2026/01/20260115103000.md.gpg"))
}

func TestRemoteURL_NoRemote(t *testing.T) {
	g := testRepo(t)
	_, err := g.RemoteURL(context.Background(), "origin")
	assert.ErrorIs(t, err, vcs.ErrNoRemote)
}

func TestFetch_UnreachableHost(t *testing.T) {
	g := testRepo(t)
	ctx := context.Background()

	require.NoError(t, g.SetRemote(ctx, "origin",
		"https://this-host-does-not-exist.invalid/vault.git"))
	err := g.Fetch(ctx, "origin")
	assert.ErrorIs(t, err, vcs.ErrRemoteUnreachable)
}

// conflictingRepos returns two repositories sharing a remote, each with a
// committed conflicting version of the same note path, with b pushed last.
func conflictingRepos(t *testing.T) (a, b *Git, path string) {
	t.Helper()
	ctx := context.Background()
	remote := bareRemote(t)
	path = "notes/2026/01/20260115103000.md.gpg"

	a = testRepo(t)
	writeFile(t, a, path, "base")
	commitAll(t, a, "base")
	require.NoError(t, a.SetRemote(ctx, "origin", remote))
	require.NoError(t, a.Push(ctx, "origin", "main"))

	b = testRepo(t)
	require.NoError(t, b.SetRemote(ctx, "origin", remote))
	require.NoError(t, b.Fetch(ctx, "origin"))
	require.NoError(t, b.CheckoutRemoteBranch(ctx, "origin", "main"))
	writeFile(t, b, path, "version from b")
	commitAll(t, b, "edit on b")
	require.NoError(t, b.Push(ctx, "origin", "main"))

	writeFile(t, a, path, "version from a")
	commitAll(t, a, "edit on a")
	require.NoError(t, a.Fetch(ctx, "origin"))
	return a, b, path
}

func TestMergeConflict_ResolveOurs(t *testing.T) {
	a, _, path := conflictingRepos(t)
	ctx := context.Background()

	err := a.Merge(ctx, "origin/main")
	require.ErrorIs(t, err, vcs.ErrMergeConflict)

	st, err := a.State(ctx)
	require.NoError(t, err)
	assert.True(t, st.Merging)
	require.Contains(t, st.Conflicted, path)

	require.NoError(t, a.ResolveOurs(ctx, st.Conflicted))

	// Local wins, the merge is concluded, and the result pushes.
	data, err := os.ReadFile(filepath.Join(a.root, path))
	require.NoError(t, err)
	assert.Equal(t, "version from a", string(data))

	st, err = a.State(ctx)
	require.NoError(t, err)
	assert.False(t, st.Merging)
	assert.False(t, st.Dirty)
	require.NoError(t, a.Push(ctx, "origin", "main"))
}

func TestMergeConflict_Abort(t *testing.T) {
	a, _, path := conflictingRepos(t)
	ctx := context.Background()

	err := a.Merge(ctx, "origin/main")
	require.ErrorIs(t, err, vcs.ErrMergeConflict)
	require.NoError(t, a.AbortMerge(ctx))

	st, err := a.State(ctx)
	require.NoError(t, err)
	assert.False(t, st.Merging)
	assert.False(t, st.Dirty)

	data, err := os.ReadFile(filepath.Join(a.root, path))
	require.NoError(t, err)
	assert.Equal(t, "version from a", string(data))
}

func TestMerge_UnrelatedHistories(t *testing.T) {
	// Two devices that each started an independent vault must still sync:
	// the first merge joins unrelated histories.
	remote := bareRemote(t)
	ctx := context.Background()

	a := testRepo(t)
	writeFile(t, a, "notes/2026/01/20260115103000.md.gpg", "from a")
	commitAll(t, a, "a history")
	require.NoError(t, a.SetRemote(ctx, "origin", remote))
	require.NoError(t, a.Push(ctx, "origin", "main"))

	b := testRepo(t)
	writeFile(t, b, "notes/2026/02/20260201090000.md.gpg", "from b")
	commitAll(t, b, "b history")
	require.NoError(t, b.SetRemote(ctx, "origin", remote))
	require.NoError(t, b.Fetch(ctx, "origin"))

	require.NoError(t, b.Merge(ctx, "origin/main"))
	assert.FileExists(t, filepath.Join(b.root, "notes/2026/01/20260115103000.md.gpg"))
	assert.FileExists(t, filepath.Join(b.root, "notes/2026/02/20260201090000.md.gpg"))
}

func TestFileHistory(t *testing.T) {
	g := testRepo(t)
	ctx := context.Background()
	path := "notes/2026/01/20260115103000.md.gpg"

	writeFile(t, g, path, "v1")
	commitAll(t, g, "create note")
	writeFile(t, g, path, "v2")
	commitAll(t, g, "update note")

	revs, err := g.FileLog(ctx, path, 0)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, "update note", revs[0].Subject)
	assert.Equal(t, "create note", revs[1].Subject)

	t.Run("limit", func(t *testing.T) {
		revs, err := g.FileLog(ctx, path, 1)
		require.NoError(t, err)
		require.Len(t, revs, 1)
		assert.Equal(t, "update note", revs[0].Subject)
	})

	t.Run("content at revision", func(t *testing.T) {
		data, err := g.FileAt(ctx, revs[1].Hash, path)
		require.NoError(t, err)
		assert.Equal(t, "v1", string(data))
	})
}

func TestIsUnmergedCode(t *testing.T) {
	for _, code := range []string{"DD", "AU", "UD", "UA", "DU", "AA", "UU"} {
		assert.True(t, isUnmergedCode(code), code)
	}
	for _, code := range []string{"M ", " M", "??", "A ", "R "} {
		assert.False(t, isUnmergedCode(code), code)
	}
}

func TestCommitMessagePreserved(t *testing.T) {
	g := testRepo(t)
	ctx := context.Background()

	writeFile(t, g, "a.txt", "x")
	require.NoError(t, g.AddAll(ctx))
	require.NoError(t, g.Commit(ctx, "sync 2026-01-15 10:30:00"))

	out, err := g.run(ctx, "log", "-1", "--format=%s")
	require.NoError(t, err)
	assert.Equal(t, "sync 2026-01-15 10:30:00", strings.TrimSpace(out))
}
