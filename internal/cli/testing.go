package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/korrupt/internal/fs"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory, environment variables and the filesystem.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string

	// FS is used for all file access. Defaults to [fs.NewReal]; tests swap
	// in a [fs.Chaos] to inject I/O failures.
	FS fs.FS

	// SigCh is passed to Run. Nil by default.
	SigCh chan os.Signal
}

// NewCLI creates a new test CLI with a temp directory.
// XDG_CONFIG_HOME points into the temp dir so no user config leaks in.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, ".xdg")},
		FS:  fs.NewReal(),
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "korrupt" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"korrupt", "--cwd", r.Dir}, args...)
	code := run(nil, &outBuf, &errBuf, fullArgs, r.Env, r.SigCh, r.FS)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// WriteFile writes content to a file relative to the test directory and
// returns its absolute path.
func (r *CLI) WriteFile(name string, content []byte) string {
	r.t.Helper()

	path := filepath.Join(r.Dir, name)

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		r.t.Fatalf("failed to create dir for %s: %v", name, err)
	}

	err = os.WriteFile(path, content, 0o600)
	if err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}

	return path
}

// ReadFile reads a file relative to the test directory (or absolute).
func (r *CLI) ReadFile(name string) []byte {
	r.t.Helper()

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Dir, name)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		r.t.Fatalf("failed to read %s: %v", name, err)
	}

	return content
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
