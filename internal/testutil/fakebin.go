package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireShell skips the test on platforms without /bin/sh.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// WriteScript writes an executable /bin/sh script named name into dir and
// returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755) // #nosec G306 -- test fixture must be executable
	require.NoError(t, err)
	return path
}

// FakeTool writes a script into a fresh temp dir and returns its path.
func FakeTool(t *testing.T, name, body string) string {
	t.Helper()
	RequireShell(t)
	return WriteScript(t, t.TempDir(), name, body)
}

// EchoArgsBody prints each argument on its own line prefixed with "arg:".
const EchoArgsBody = `for a in "$@"; do echo "arg:$a"; done`
