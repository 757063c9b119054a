package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// testWorkspace is an isolated directory with an ecm.toml and its own
// drafts store, plus the built ecm binary.
type testWorkspace struct {
	Dir        string
	DraftsDir  string
	BinaryPath string
	t          *testing.T
}

var (
	buildOnce   sync.Once
	builtBinary string
	buildErr    error
)

// newTestWorkspace builds the ecm binary (once per test run) and prepares a
// fresh workspace directory with a minimal valid config.
func newTestWorkspace(t *testing.T) *testWorkspace {
	t.Helper()

	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "ecm-e2e-bin-")
		if err != nil {
			buildErr = err
			return
		}
		builtBinary = filepath.Join(dir, "ecm")
		build := exec.Command("go", "build", "-o", builtBinary, "./cmd/ecm")
		build.Dir = projectRoot()
		out, err := build.CombinedOutput()
		if err != nil {
			buildErr = err
			builtBinary = strings.TrimSpace(string(out))
		}
	})
	require.NoError(t, buildErr, "building ecm: %s", builtBinary)

	dir := t.TempDir()
	ws := &testWorkspace{
		Dir:        dir,
		DraftsDir:  filepath.Join(dir, "drafts"),
		BinaryPath: builtBinary,
		t:          t,
	}
	ws.writeConfig(`
[storage]
backend = "file"
dir = "` + ws.DraftsDir + `"
`)
	return ws
}

// projectRoot returns the absolute path to the repository root. This source
// file lives at <repo>/tests/e2e/, so the root is two directories up.
func projectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..")
}

// writeConfig writes content to ecm.toml in ws.Dir.
func (ws *testWorkspace) writeConfig(content string) {
	ws.t.Helper()
	err := os.WriteFile(filepath.Join(ws.Dir, "ecm.toml"), []byte(content), 0o644)
	require.NoError(ws.t, err)
}

// writeDraft stores a snapshot in the drafts dir the way the wizard would.
func (ws *testWorkspace) writeDraft(flow, content string) {
	ws.t.Helper()
	require.NoError(ws.t, os.MkdirAll(ws.DraftsDir, 0o755))
	err := os.WriteFile(filepath.Join(ws.DraftsDir, "entry-"+flow+".json"), []byte(content), 0o644)
	require.NoError(ws.t, err)
}

// run executes the ecm binary with args in the workspace directory and
// returns combined output plus the raw error from exec.
func (ws *testWorkspace) run(args ...string) (string, error) {
	ws.t.Helper()
	cmd := exec.Command(ws.BinaryPath, args...)
	cmd.Dir = ws.Dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}
