// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> vault -> storage -> SQLite index.
//
// The tests run against plain-mirror notes (--plain) so they need neither
// a GPG key nor a git remote: the vault opens lazily and auto-sync stays
// off while no remote is configured. Encryption, git sync and repair have
// their own package-level tests under internal/, where the gpg and git
// boundaries are faked or skipped cleanly.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the notevault binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "notevault-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "notevault"
		if os.PathSeparator == '\\' {
			binaryName = "notevault.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/.
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state. dir is the vault root, passed to
// every invocation through NOTEVAULT_DIR.
type testEnv struct {
	t      *testing.T
	dir    string
	binary string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, dir: t.TempDir(), binary: buildBinary(t)}
}

// run executes notevault with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("notevault %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes notevault and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Env = e.env()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// env points the binary at the test vault. Git identity comes along so
// sync commits work on machines without a global git config.
func (e *testEnv) env() []string {
	return append(os.Environ(),
		"NOTEVAULT_DIR="+e.dir,
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)
}

// runStdin executes notevault with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Env = e.env()
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("notevault %v failed: %v\noutput: %s", args, err, out)
	}
	return string(out)
}

// newPlain creates a plain-mirror note and returns its id, parsed from the
// "Created <id>: <title>" confirmation line.
func (e *testEnv) newPlain(title, body string, tags ...string) string {
	e.t.Helper()

	args := []string{"new", title, "--plain", "-b", body}
	for _, tag := range tags {
		args = append(args, "-t", tag)
	}
	out := e.run(args...)

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Created ") {
			fields := strings.Fields(line)
			return strings.TrimSuffix(fields[1], ":")
		}
	}
	e.t.Fatalf("no Created line in output: %s", out)
	return ""
}

// contains checks that output contains expected.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}
