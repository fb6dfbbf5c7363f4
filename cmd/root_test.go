package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/niftyregw/internal/config"
	"github.com/zjrosen/niftyregw/internal/locate"
	"github.com/zjrosen/niftyregw/internal/niftyreg"
	"github.com/zjrosen/niftyregw/internal/testutil"
)

// isolate points HOME at a temp dir and PATH at an empty bin dir, which
// it returns for fake tools.
func isolate(t *testing.T) string {
	t.Helper()
	testutil.RequireShell(t)
	t.Setenv("HOME", t.TempDir())
	bin := t.TempDir()
	t.Setenv("PATH", bin)
	return bin
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

// toolArgs extracts the arguments echoed by testutil.EchoArgsBody from the log.
func toolArgs(stderr, tool string) []string {
	var args []string
	marker := "| " + tool + " | INFO     | arg:"
	for _, line := range strings.Split(stderr, "\n") {
		if i := strings.Index(line, marker); i >= 0 {
			args = append(args, line[i+len(marker):])
		}
	}
	return args
}

func TestAladin_ForwardsOnlySetFlags(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolAladin, testutil.EchoArgsBody)

	_, stderr, err := execute(t, "aladin", "-r", "ref.nii", "-f", "flo.nii",
		"--rigid-only", "--max-iterations", "0", "--omp-threads", "2")
	require.NoError(t, err)

	require.Equal(t, []string{
		"-ref", "ref.nii", "-flo", "flo.nii", "-rigOnly", "-maxit", "0", "-omp", "2",
	}, toolArgs(stderr, niftyreg.ToolAladin))
	require.Contains(t, stderr, "| niftyregw | DEBUG    | The following command will be run:")
}

func TestToolFailure_CarriesExitCode(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolResample, `echo "[NiftyReg ERROR] cannot read image" >&2; exit 3`)

	_, stderr, err := execute(t, "resample", "-r", "ref.nii", "-f", "flo.nii")

	var failed *niftyreg.ToolFailedError
	require.ErrorAs(t, err, &failed)
	require.Equal(t, 3, failed.ExitCode)
	require.Contains(t, stderr, "| reg_resample | ERROR    | [NiftyReg ERROR] cannot read image\n")
}

func TestMissingTool(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "measure", "-r", "ref.nii", "-f", "flo.nii", "--ncc")
	require.ErrorIs(t, err, locate.ErrNotFound)
	require.Contains(t, err.Error(), "niftyregw install")
}

func TestF3D_LandmarkPairingIsValidated(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "f3d", "-r", "ref.nii", "-f", "flo.nii", "--landmarks-weight", "0.5")

	var verr *niftyreg.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "landmarks", verr.Field)
}

func TestPrintHelp_GoesToStdout(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolF3D, `echo "Usage: reg_f3d -ref <filename> -flo <filename>"; exit 1`)

	stdout, _, err := execute(t, "f3d", "--print-help")
	require.NoError(t, err)
	require.Contains(t, stdout, "Usage: reg_f3d -ref <filename> -flo <filename>\n")
}

func TestVersion_PassesNativeFlag(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolTools, `echo "version:$1"`)

	stdout, _, err := execute(t, "tools", "--version")
	require.NoError(t, err)
	require.Equal(t, "version:--version\n", stdout)
}

func TestAverage(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolAverage, testutil.EchoArgsBody)

	_, stderr, err := execute(t, "average", "demean", "-o", "out.nii", "-r", "ref.nii", "--lin", "t1.nii", "f1.nii")
	require.NoError(t, err)
	require.Equal(t, []string{"out.nii", "-demean", "ref.nii", "t1.nii", "f1.nii", "--LIN"},
		toolArgs(stderr, niftyreg.ToolAverage))

	_, _, err = execute(t, "average", "avg", "-o", "out.nii", "--nn", "--lin", "a.nii")
	require.Error(t, err)
}

func TestTransform(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolTransform, testutil.EchoArgsBody)

	_, stderr, err := execute(t, "transform", "compose",
		"-r", "r1.nii", "--reference2", "r2.nii", "-i", "t1.nii", "-j", "t2.nii", "-o", "t3.nii")
	require.NoError(t, err)
	require.Equal(t, []string{"-ref", "r1.nii", "-ref2", "r2.nii", "-comp", "t1.nii", "t2.nii", "t3.nii"},
		toolArgs(stderr, niftyreg.ToolTransform))

	_, stderr, err = execute(t, "transform", "make-affine",
		"--rotation", "0,0,90", "--translation", "1,2,3", "--scale", "1,1,1", "--shear", "0,0,0", "-o", "aff.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"-makeAff", "0", "0", "90", "1", "2", "3", "1", "1", "1", "0", "0", "0", "aff.txt"},
		toolArgs(stderr, niftyreg.ToolTransform))

	_, _, err = execute(t, "transform", "flirt-to-niftyreg", "-i", "flirt.mat", "-r", "ref.nii", "-o", "aff.txt")
	var verr *niftyreg.ValidationError
	require.ErrorAs(t, err, &verr, "missing --floating")
}

func TestRun_PassesRawArguments(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolTools, testutil.EchoArgsBody)

	_, stderr, err := execute(t, "run", niftyreg.ToolTools, "-in", "img.nii", "-smoG", "1", "1", "1")
	require.NoError(t, err)
	require.Equal(t, []string{"-in", "img.nii", "-smoG", "1", "1", "1"}, toolArgs(stderr, niftyreg.ToolTools))
}

func TestLogLevelFlag(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolTools, testutil.EchoArgsBody+`
echo "[NiftyReg WARNING] kept" >&2`)

	_, stderr, err := execute(t, "--log", "warning", "run", niftyreg.ToolTools, "-in", "img.nii")
	require.NoError(t, err)
	require.NotContains(t, stderr, "arg:")
	require.NotContains(t, stderr, "The following command will be run")
	require.Contains(t, stderr, "| reg_tools | WARNING  | [NiftyReg WARNING] kept\n")

	_, _, err = execute(t, "--log", "verbose", "run", niftyreg.ToolTools)
	require.Error(t, err)
}

func TestHistory(t *testing.T) {
	bin := isolate(t)
	testutil.WriteScript(t, bin, niftyreg.ToolJacobian, "exit 0")

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	require.Equal(t, "No runs recorded yet.\n", stdout)

	_, _, err = execute(t, "jacobian", "-t", "cpp.nii", "-r", "ref.nii")
	require.NoError(t, err)

	stdout, _, err = execute(t, "history")
	require.NoError(t, err)
	require.Contains(t, stdout, "reg_jacobian")
	require.Contains(t, stdout, "-trans cpp.nii -ref ref.nii")
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "niftyregw", "config.yaml")

	stdout, _, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	require.Equal(t, "Wrote "+path+"\n", stdout)
	require.FileExists(t, path)

	_, _, err = execute(t, "--config", path, "config", "init")
	require.ErrorIs(t, err, config.ErrConfigExists)

	stdout, _, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	require.Contains(t, stdout, "log_level: debug")
}

func TestConfig_ExplicitFileMustExist(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "history")
	require.Error(t, err)
}

func TestInstall(t *testing.T) {
	isolate(t)
	archive := testutil.ZipArchive(t,
		testutil.ArchiveEntry{Name: "NiftyReg/bin/reg_aladin", Body: "#!/bin/sh\n"},
		testutil.ArchiveEntry{Name: "NiftyReg/bin/reg_f3d", Body: "#!/bin/sh\n"},
		testutil.ArchiveEntry{Name: "NiftyReg/README.md", Body: "docs"},
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()
	t.Setenv("NIFTYREGW_INSTALL_RELEASE_URL", srv.URL+"/NiftyReg-%s.zip")

	dir := filepath.Join(t.TempDir(), "bin")
	stdout, _, err := execute(t, "install", "-o", dir)
	require.NoError(t, err)
	require.Contains(t, stdout, "Downloading NiftyReg binaries to "+dir+"...\n")
	require.Contains(t, stdout, "Done! 2 binaries installed.\n")

	info, err := os.Stat(filepath.Join(dir, "reg_f3d"))
	require.NoError(t, err)
	require.NotZero(t, info.Mode().Perm()&0o111, "installed binaries are executable")
	require.NoFileExists(t, filepath.Join(dir, "README.md"))
}

func TestInstall_Platform(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "install", "--platform")
	if err != nil {
		// hosts without a NiftyReg build
		t.Skipf("unsupported host: %v", err)
	}
	require.True(t, strings.HasPrefix(stdout, "Platform: "), stdout)
}
