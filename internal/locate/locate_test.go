package locate

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/niftyregw/internal/testutil"
)

func notOnPath(string) (string, error) {
	return "", exec.ErrNotFound
}

func TestFind_OnPath(t *testing.T) {
	path := testutil.FakeTool(t, "reg_aladin", "exit 0")
	t.Setenv("PATH", filepath.Dir(path))

	got, err := New().Find("reg_aladin")
	require.NoError(t, err)
	require.Equal(t, path, got)
	require.True(t, filepath.IsAbs(got))
}

func TestFind_NotFound(t *testing.T) {
	l := New(WithLookPath(notOnPath), WithInstallDir(t.TempDir()))

	_, err := l.Find("reg_f3d")
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "reg_f3d", nf.Tool)
	require.Contains(t, err.Error(), "reg_f3d not found on PATH or in ")
	require.Contains(t, err.Error(), "niftyregw install")
}

func TestFind_EmptyName(t *testing.T) {
	_, err := New().Find("")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFind_FallsBackToInstallDir(t *testing.T) {
	testutil.RequireShell(t)
	dir := t.TempDir()
	want := testutil.WriteScript(t, dir, "reg_tools", "exit 0")

	got, err := New(WithLookPath(notOnPath), WithInstallDir(dir)).Find("reg_tools")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFind_InstallDirIgnoresNonExecutable(t *testing.T) {
	testutil.RequireShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reg_tools"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "reg_jacobian"), 0755))

	l := New(WithLookPath(notOnPath), WithInstallDir(dir))

	_, err := l.Find("reg_tools")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = l.Find("reg_jacobian")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFind_IgnoresCurrentDirectoryMatch(t *testing.T) {
	lookPath := func(file string) (string, error) {
		return "./" + file, exec.ErrDot
	}

	_, err := New(WithLookPath(lookPath)).Find("reg_measure")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFind_CachesHits(t *testing.T) {
	calls := 0
	lookPath := func(file string) (string, error) {
		calls++
		return "/opt/niftyreg/bin/" + file, nil
	}

	l := New(WithLookPath(lookPath), WithCacheTTL(time.Minute))
	for i := 0; i < 3; i++ {
		got, err := l.Find("reg_resample")
		require.NoError(t, err)
		require.Equal(t, "/opt/niftyreg/bin/reg_resample", got)
	}
	require.Equal(t, 1, calls)

	l.Forget("reg_resample")
	_, err := l.Find("reg_resample")
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	l.Forget()
	_, err = l.Find("reg_resample")
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestFind_DoesNotCacheMisses(t *testing.T) {
	calls := 0
	installed := false
	lookPath := func(file string) (string, error) {
		calls++
		if !installed {
			return "", errors.New("missing")
		}
		return "/usr/bin/" + file, nil
	}

	l := New(WithLookPath(lookPath), WithCacheTTL(time.Minute))
	_, err := l.Find("reg_average")
	require.ErrorIs(t, err, ErrNotFound)

	installed = true
	got, err := l.Find("reg_average")
	require.NoError(t, err)
	require.Equal(t, "/usr/bin/reg_average", got)
	require.Equal(t, 2, calls)
}

func TestFind_NoCacheCallsEveryTime(t *testing.T) {
	calls := 0
	lookPath := func(file string) (string, error) {
		calls++
		return "/bin/" + file, nil
	}

	l := New(WithLookPath(lookPath))
	_, _ = l.Find("reg_f3d")
	_, _ = l.Find("reg_f3d")
	require.Equal(t, 2, calls)
	require.NotPanics(t, func() { l.Forget("reg_f3d") })
}
